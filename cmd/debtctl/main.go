// Command debtctl is the operator CLI for the debt ledger: schedule previews,
// accrual sweeps, reconciliation and API tokens.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/core/services"
	"github.com/SscSPs/debt_ledger/internal/middleware"
	"github.com/SscSPs/debt_ledger/internal/platform/config"
	"github.com/SscSPs/debt_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/debt_ledger/pkg/database"
	"github.com/spf13/cobra"
)

const cliUserID = "debtctl"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "debtctl",
		Short: "Operator CLI for the debt ledger.",
		Long: `debtctl previews amortization schedules, runs the interest accrual sweep,
reconciles debts against the journal and issues API tokens.

Database commands read PGSQL_URL and the rest of the service configuration
from the environment or a .env file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			cmd.SetContext(middleware.WithLogger(cmd.Context(), logger))
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newScheduleCmd(),
		newAccrueCmd(),
		newReconcileCmd(),
		newTokenCmd(),
	)
	return cmd
}

// withServices loads configuration, opens the database and hands fn a wired
// service container. The pool is closed when fn returns.
func withServices(ctx context.Context, fn func(ctx context.Context, svc *portssvc.ServiceContainer) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.ClosePgxPool(pool)

	container := services.NewServiceContainer(cfg, pgsql.NewTxManager(pool), pgsql.NewRepositoryProvider(pool))
	return fn(ctx, container)
}
