package main

import (
	"context"
	"encoding/json"

	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var repair bool
	cmd := &cobra.Command{
		Use:   "reconcile DEBT_ID",
		Short: "Check a debt's movements against the journal",
		Long: `Reports every movement of the debt as OK, MISSING or MISMATCH.
With --repair, missing journal entries are posted again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				report, err := svc.Reconciliation.Reconcile(ctx, args[0], repair, cliUserID)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(dto.ToReconciliationResponse(report))
			})
		},
	}
	cmd.Flags().BoolVar(&repair, "repair", false, "Re-post missing journal entries")
	return cmd
}
