package client

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	extendedPattern = regexp.MustCompile(`(?i)filename\*=UTF-8''([^;]+)`)
	plainPattern    = regexp.MustCompile(`(?i)filename="?([^";]+)"?`)
)

// FilenameFromDisposition extracts the suggested filename from a
// Content-Disposition header. The RFC 5987 extended form wins over the
// quoted or bare form regardless of parameter order; percent escapes are
// decoded. When the header yields nothing the fallback is returned.
func FilenameFromDisposition(header, fallback string) string {
	if header == "" {
		return fallback
	}

	var name string
	if m := extendedPattern.FindStringSubmatch(header); m != nil {
		name = m[1]
	} else if m := plainPattern.FindStringSubmatch(header); m != nil {
		name = m[1]
	} else {
		return fallback
	}

	name = strings.TrimSpace(name)
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	if name == "" {
		return fallback
	}
	return name
}
