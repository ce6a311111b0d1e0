package main

import (
	"context"
	"net/http"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"budgetwise/internal/ratesync"
	"budgetwise/internal/services"
)

func newSyncRatesCmd(a *app) *cobra.Command {
	var (
		base       string
		currencies []string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:     "sync-rates",
		Short:   "Refresh exchange rates from Yahoo Finance",
		Example: "  budgetctl sync-rates --currencies EUR,USD,GBP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if base == "" {
				base = a.cfg.DefaultCurrency
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			quoter := ratesync.NewYahooQuoter(&http.Client{Timeout: timeout})
			syncer := ratesync.NewSyncer(quoter, services.NewCurrencyService(a.manager.DB()))

			spinner, _ := pterm.DefaultSpinner.Start("Fetching rates against " + base)
			result, err := syncer.Run(ctx, base, currencies)
			if spinner != nil {
				_ = spinner.Stop()
			}
			if err != nil {
				return err
			}

			for _, fetchErr := range result.Errors {
				pterm.Warning.Println(fetchErr.Error())
			}
			pterm.Success.Printfln("Stored %d of %d rate(s) in %s", result.Stored, result.Requested, result.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "", "Currency every rate is quoted in (default: DEFAULT_CURRENCY)")
	cmd.Flags().StringSliceVarP(&currencies, "currencies", "c", []string{"EUR", "USD", "GBP"}, "Currencies to quote")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall request timeout")
	return cmd
}
