package cmd

import (
	"fmt"

	"github.com/newhook/sqwatch/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagInitServer string
	flagInitToken  string
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a .sqwatch workspace",
	Long: `Create .sqwatch/config.toml in dir (default: current directory).

The generated file documents every option; only the server section is active.
The token may be left out and supplied through SQWATCH_TOKEN instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&flagInitServer, "server", "", "server URL (required)")
	initCmd.Flags().StringVar(&flagInitToken, "token", "", "API token")
	_ = initCmd.MarkFlagRequired("server")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	cfg := &config.Config{Server: config.ServerConfig{URL: flagInitServer, Token: flagInitToken}}
	ws, err := config.Create(dir, cfg)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	fmt.Printf("Created %s\n", ws.ConfigPath())
	return nil
}
