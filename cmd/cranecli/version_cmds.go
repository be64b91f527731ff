package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions <program-id>",
	Short: "List a program's versions, newest first",
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
		versions, err := m.ListVersions(cmd.Context(), programID)
		if err != nil {
			return err
		}
		if len(versions) == 0 {
			fmt.Println("No versions uploaded yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tCURRENT\tFILES\tUPLOADED\tCHANGE LOG")
		for _, v := range versions {
			current := ""
			if v.IsCurrent {
				current = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				v.Version, current, v.FileCount,
				v.CreatedAt.Format("2006-01-02 15:04"), v.ChangeLog)
		}
		return w.Flush()
	},
}

var activateCmd = &cobra.Command{
	Use:   "activate <program-id> <version>",
	Short: "Make a version the program's current one",
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

		records, err := m.API.VersionRecords(cmd.Context(), programID)
		if err != nil {
			return err
		}
		for _, record := range records {
			if record.Version != args[1] {
				continue
			}
			if record.IsCurrent {
				fmt.Printf("Version %s is already current\n", record.Version)
				return nil
			}
			if err := m.ActivateVersion(cmd.Context(), record, askConfirm); err != nil {
				return err
			}
			fmt.Printf("Version %s is now current\n", record.Version)
			return nil
		}
		return fmt.Errorf("version %q not found for program %d", args[1], programID)
	},
}
