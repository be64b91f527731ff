package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"crane-program-api/internal/client"
)

var uploadOpts struct {
	programID uint
	version   string
	message   string
}

var uploadCmd = &cobra.Command{
	Use:   "upload --program <id> --label <version> <file>...",
	Short: "Upload files as a new version or add them to an existing one",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := authedManager()
		if err != nil {
			return err
		}

		var files []client.UploadFile
		var handles []*os.File
		defer func() {
			for _, h := range handles {
				h.Close()
			}
		}()
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			handles = append(handles, f)
			files = append(files, client.UploadFile{Name: filepath.Base(path), Reader: f})
		}

		resp, err := m.SubmitUpload(cmd.Context(), uploadOpts.programID, uploadOpts.version, uploadOpts.message, files)
		if err != nil {
			return err
		}

		if resp.IsNewVersion {
			fmt.Printf("Created version %s with %d file(s)\n", uploadOpts.version, len(resp.Files))
		} else {
			fmt.Printf("Added %d file(s) to existing version %s\n", len(resp.Files), uploadOpts.version)
		}
		return nil
	},
}

var downloadDir string

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download program files",
}

var downloadFileCmd = &cobra.Command{
	Use:   "file <file-id>",
	Short: "Download one file by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileID, err := parseID(args[0])
		if err != nil {
			return err
		}
		m, err := authedManager()
		if err != nil {
			return err
		}
		dest, err := m.DownloadFile(cmd.Context(), fileID, fmt.Sprintf("file_%d", fileID), downloadDir)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", dest)
		return nil
	},
}

var downloadVersionCmd = &cobra.Command{
	Use:   "version <program-id> <version>",
	Short: "Download one version's file set (archived when it holds several files)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		programID, err := parseID(args[0])
		if err != nil {
			return err
		}
		m, err := authedManager()
		if err != nil {
			return err
		}
		versions, err := m.ListVersions(cmd.Context(), programID)
		if err != nil {
			return err
		}
		for _, v := range versions {
			if v.Version != args[1] {
				continue
			}
			dest, err := m.DownloadVersion(cmd.Context(), programID, v, downloadDir)
			if err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", dest)
			return nil
		}
		return fmt.Errorf("version %q not found for program %d", args[1], programID)
	},
}

var downloadLatestCmd = &cobra.Command{
	Use:   "latest <program-id>",
	Short: "Download the program's newest version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		programID, err := parseID(args[0])
		if err != nil {
			return err
		}
		m, err := authedManager()
		if err != nil {
			return err
		}
		p, err := findProgram(cmd, m, programID)
		if err != nil {
			return err
		}
		dest, err := m.DownloadProgramLatest(cmd.Context(), *p, downloadDir)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", dest)
		return nil
	},
}

func init() {
	uploadCmd.Flags().UintVar(&uploadOpts.programID, "program", 0, "program id")
	uploadCmd.Flags().StringVar(&uploadOpts.version, "label", "", "version label, e.g. v1.2")
	uploadCmd.Flags().StringVar(&uploadOpts.message, "message", "", "change log")
	uploadCmd.MarkFlagRequired("program")
	uploadCmd.MarkFlagRequired("label")

	downloadCmd.PersistentFlags().StringVar(&downloadDir, "out", ".", "destination directory")
	downloadCmd.AddCommand(downloadFileCmd, downloadVersionCmd, downloadLatestCmd)
}
