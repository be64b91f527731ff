package client

import "testing"

func TestFilenameFromDisposition(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		fallback string
		want     string
	}{
		{
			name:     "rfc5987 extended form",
			header:   "attachment; filename*=UTF-8''report%20v1.pdf",
			fallback: "default.bin",
			want:     "report v1.pdf",
		},
		{
			name:     "quoted form",
			header:   `attachment; filename="plain.txt"`,
			fallback: "default.bin",
			want:     "plain.txt",
		},
		{
			name:     "bare form",
			header:   "attachment; filename=bare.zip",
			fallback: "default.bin",
			want:     "bare.zip",
		},
		{
			name:     "extended form with escapes",
			header:   "attachment; filename*=UTF-8''%E7%84%8A%E6%8E%A5.plc",
			fallback: "default.bin",
			want:     "焊接.plc",
		},
		{
			name:     "extended wins when plain comes first",
			header:   `attachment; filename="fallback.txt"; filename*=UTF-8''re%C3%A7u.pdf`,
			fallback: "default.bin",
			want:     "reçu.pdf",
		},
		{
			name:     "extended wins when it comes first",
			header:   `attachment; filename*=UTF-8''re%C3%A7u.pdf; filename="fallback.txt"`,
			fallback: "default.bin",
			want:     "reçu.pdf",
		},
		{
			name:     "missing header falls back",
			header:   "",
			fallback: "default.bin",
			want:     "default.bin",
		},
		{
			name:     "header without filename falls back",
			header:   "attachment",
			fallback: "default.bin",
			want:     "default.bin",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilenameFromDisposition(tc.header, tc.fallback)
			if got != tc.want {
				t.Fatalf("FilenameFromDisposition(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}
