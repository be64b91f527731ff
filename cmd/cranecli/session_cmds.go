package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"crane-program-api/internal/client"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <employee-id>",
	Short: "Authenticate and save the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			var err error
			password, err = readLine("Password: ")
			if err != nil {
				return err
			}
		}

		api := client.NewGateway(serverURL)
		result, err := api.Login(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}

		store := client.DefaultSessionStore()
		if err := store.Save(&client.Session{
			Token:      result.Token,
			UserID:     result.User.ID,
			EmployeeID: result.User.EmployeeID,
			Name:       result.User.Name,
			Role:       result.User.Role,
		}); err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		fmt.Printf("Logged in as %s (%s)\n", result.User.Name, result.User.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.DefaultSessionStore().Clear(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := client.DefaultSessionStore().Load()
		if err != nil {
			if errors.Is(err, client.ErrNoSession) {
				fmt.Println("Not logged in")
				return nil
			}
			return err
		}
		fmt.Printf("%s (%s), role %s, logged in %s\n",
			session.Name, session.EmployeeID, session.Role,
			session.SavedAt.Format("2006-01-02 15:04"))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
}
