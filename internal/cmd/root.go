package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/matthieukhl/loyaltyctl/internal/api"
	"github.com/matthieukhl/loyaltyctl/internal/config"
	"github.com/matthieukhl/loyaltyctl/internal/query"
	"github.com/matthieukhl/loyaltyctl/internal/session"
	"github.com/matthieukhl/loyaltyctl/internal/validate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "loyaltyctl",
	Short: "Loyaltyctl - admin console for the loyalty-points backend",
	Long: `Loyaltyctl is the staff console for a retail loyalty-points system.

It manages products, loyalty-point rules, customers and global settings
through the backend's admin REST API, and can serve a small read-only
dashboard for wallboards.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles everything a command needs: config, the session store and
// guard, the backend client and the process-wide query cache.
type app struct {
	cfg   *config.Config
	store *session.Store
	guard *session.Guard
	api   *api.Client
	cache *query.Cache
	log   *zap.Logger
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	store := session.NewStore(cfg.Session.TokenFile)
	client := api.NewClient(&cfg.API, store)

	return &app{
		cfg:   cfg,
		store: store,
		guard: session.NewGuard(store, client, log),
		api:   client,
		cache: query.NewCache(log),
		log:   log,
	}, nil
}

// requireSession bootstraps the app and validates the session before a
// protected command runs. Without a token it fails with zero network calls.
func requireSession(ctx context.Context) (*app, *api.User, error) {
	a, err := newApp()
	if err != nil {
		return nil, nil, err
	}
	user, err := a.guard.Check(ctx)
	if err != nil {
		return nil, nil, err
	}
	return a, user, nil
}

// confirm asks on stdin before a destructive call. Anything but y/yes
// declines.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func printFieldErrors(errs validate.FieldErrors) {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", name, errs[name])
	}
}
