package main

import (
	"fmt"
	"time"

	"github.com/SscSPs/debt_ledger/internal/platform/config"
	"github.com/SscSPs/debt_ledger/internal/utils"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var expiry time.Duration
	cmd := &cobra.Command{
		Use:   "token SUBJECT",
		Short: "Issue an API bearer token",
		Long: `Signs a JWT for SUBJECT with JWT_SECRET and JWT_ISSUER from the service
configuration. The subject is recorded as the author of every change made with it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if expiry <= 0 {
				expiry = cfg.JWTExpiryDuration
			}
			token, err := utils.GenerateJWT(args[0], cfg.JWTSecret, expiry, cfg.JWTIssuer)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&expiry, "expiry", 0, "Token lifetime (defaults to JWT_EXPIRY_DURATION)")
	return cmd
}
