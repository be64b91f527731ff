package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"crane-program-api/internal/client"
)

var programInput struct {
	name        string
	code        string
	lineID      uint
	vehicleID   uint
	description string
	status      string
}

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "Browse and manage programs",
}

var programsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List programs with their production lines and vehicle models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := authedManager()
		if err != nil {
			return err
		}
		overview, err := m.LoadOverview(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCODE\tNAME\tLINE\tVEHICLE\tVERSION\tSTATUS")
		for _, p := range overview.Programs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				p.ID, p.Code, p.Name,
				p.ProductionLine.Name, p.VehicleModel.Name,
				p.Version, p.Status)
		}
		return w.Flush()
	},
}

var programsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a program",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := authedManager()
		if err != nil {
			return err
		}
		p, err := m.SaveProgram(cmd.Context(), client.ProgramInput{
			Name:             programInput.name,
			Code:             programInput.code,
			ProductionLineID: programInput.lineID,
			VehicleModelID:   programInput.vehicleID,
			Description:      programInput.description,
			Status:           programInput.status,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created program %s (id %d)\n", p.Code, p.ID)
		return nil
	},
}

var programsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		m, err := authedManager()
		if err != nil {
			return err
		}
		p, err := m.SaveProgram(cmd.Context(), client.ProgramInput{
			ID:               id,
			Name:             programInput.name,
			Code:             programInput.code,
			ProductionLineID: programInput.lineID,
			VehicleModelID:   programInput.vehicleID,
			Description:      programInput.description,
			Status:           programInput.status,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Updated program %s (id %d)\n", p.Code, p.ID)
		return nil
	},
}

var programsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		m, err := authedManager()
		if err != nil {
			return err
		}
		p, err := findProgram(cmd, m, id)
		if err != nil {
			return err
		}
		if err := m.DeleteProgram(cmd.Context(), *p, askConfirm); err != nil {
			return err
		}
		fmt.Printf("Deleted program %s\n", p.Code)
		return nil
	},
}

func parseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(n), nil
}

func findProgram(cmd *cobra.Command, m *client.Manager, id uint) (*client.Program, error) {
	programs, err := m.API.ListPrograms(cmd.Context())
	if err != nil {
		return nil, err
	}
	for i := range programs {
		if programs[i].ID == id {
			return &programs[i], nil
		}
	}
	return nil, fmt.Errorf("program %d not found", id)
}

func addProgramFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&programInput.name, "name", "", "program name")
	cmd.Flags().StringVar(&programInput.code, "code", "", "program code")
	cmd.Flags().UintVar(&programInput.lineID, "line", 0, "production line id")
	cmd.Flags().UintVar(&programInput.vehicleID, "vehicle", 0, "vehicle model id")
	cmd.Flags().StringVar(&programInput.description, "description", "", "description")
	cmd.Flags().StringVar(&programInput.status, "status", "", "status (active, inactive)")
}

func init() {
	addProgramFlags(programsCreateCmd)
	addProgramFlags(programsUpdateCmd)
	programsCmd.AddCommand(programsListCmd, programsCreateCmd, programsUpdateCmd, programsDeleteCmd)
}
