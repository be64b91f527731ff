package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"crane-program-api/internal/client"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:           "cranecli",
	Short:         "Command line console for the crane program archive",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	defaultServer := os.Getenv("CRANE_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "API base URL")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(programsCmd, versionsCmd, uploadCmd, downloadCmd, activateCmd)
}

// gateway builds an API client carrying the saved session token, if any.
func gateway() *client.Gateway {
	api := client.NewGateway(serverURL)
	if session, err := client.DefaultSessionStore().Load(); err == nil {
		api.Token = session.Token
	}
	return api
}

// authedManager fails fast when no session is saved.
func authedManager() (*client.Manager, error) {
	api := gateway()
	if err := api.RequireToken(); err != nil {
		return nil, fmt.Errorf("not logged in, run: cranecli login <employee-id>")
	}
	return client.NewManager(api), nil
}

// askConfirm prints the prompt and reads a y/N answer from stdin.
func askConfirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
