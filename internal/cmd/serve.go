package cmd

import (
	"fmt"

	"github.com/matthieukhl/loyaltyctl/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only dashboard over HTTP",
	Long: `Serve a small read-only HTTP view of the backend (metrics and
resource listings) for wallboards and local tooling. Responses are served
through the same query cache the CLI uses.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, user, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	fmt.Printf("Serving dashboard as %s on %s...\n", user.Name, addr)
	srv := server.NewServer(a.api, a.cache)
	if err := srv.Start(addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
