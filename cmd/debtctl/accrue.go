package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/spf13/cobra"
)

func newAccrueCmd() *cobra.Command {
	var (
		debtID string
		asOf   string
		period string
	)
	cmd := &cobra.Command{
		Use:   "accrue",
		Short: "Post pending interest accruals",
		Long: `Posts every closed month of interest that has not been accrued yet.

Without --debt every active debt is swept and failures are logged and skipped.
With --period a single month is posted and an already accrued month is an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cutoff := time.Now().UTC()
			if asOf != "" {
				var err error
				if cutoff, err = time.Parse("2006-01-02", asOf); err != nil {
					return fmt.Errorf("invalid --as-of %q: %w", asOf, err)
				}
			}
			if period != "" && debtID == "" {
				return fmt.Errorf("--period requires --debt")
			}

			return withServices(cmd.Context(), func(ctx context.Context, svc *portssvc.ServiceContainer) error {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				switch {
				case period != "":
					movement, err := svc.Accrual.AccruePeriod(ctx, debtID, period, cliUserID)
					if err != nil {
						return err
					}
					return enc.Encode(dto.ToMovementResponse(movement))
				case debtID != "":
					run, err := svc.Accrual.AccrueDebt(ctx, debtID, cutoff, cliUserID)
					if err != nil {
						return err
					}
					return enc.Encode(dto.ToAccrualRunResponse(run))
				default:
					return enc.Encode(accrualRunResponses(svc.Accrual.AccrueAll(ctx, cutoff, cliUserID)))
				}
			})
		},
	}
	cmd.Flags().StringVar(&debtID, "debt", "", "Accrue a single debt")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Cut-off date, YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&period, "period", "", "Post exactly this month, YYYY-MM")
	return cmd
}

func accrualRunResponses(runs []domain.AccrualRun) []dto.AccrualRunResponse {
	resp := make([]dto.AccrualRunResponse, 0, len(runs))
	for i := range runs {
		resp = append(resp, dto.ToAccrualRunResponse(&runs[i]))
	}
	return resp
}
