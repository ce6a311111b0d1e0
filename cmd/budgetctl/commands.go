package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"budgetwise/internal/reporting"
)

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "report PERIOD",
		Short:   "Show the budget report of a month (YYYY-M)",
		Example: "  budgetctl report 2025-4 --user alice",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			period, err := reporting.ParsePeriod(args[0])
			if err != nil {
				return err
			}
			report, err := a.reports.GetMonthlyReport(a.userID, period)
			if err != nil {
				return err
			}
			if report == nil {
				pterm.Warning.Printfln("No budgets set for %s", period)
				return nil
			}
			return renderReport(report, a.cfg.DefaultCurrency)
		},
	}
}

func newForecastCmd(a *app) *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project cumulative savings month by month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			forecast, err := a.reports.GetForecast(a.userID, months)
			if err != nil {
				return err
			}

			pterm.DefaultSection.Println("Savings forecast")
			pterm.Info.Printfln("Current savings: %s %s", forecast.CurrentTotalSavings.StringFixed(2), a.cfg.DefaultCurrency)
			pterm.Info.Printfln("Trailing monthly average: %s %s", forecast.TrailingAverage.StringFixed(2), a.cfg.DefaultCurrency)

			return pterm.DefaultTable.WithHasHeader().WithRightAlignment().WithData(forecastRows(forecast.Months)).Render()
		},
	}

	cmd.Flags().IntVarP(&months, "months", "m", 12, "Number of months to project")
	return cmd
}

func newGoalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "goal AMOUNT",
		Short: "Estimate how many months until savings reach AMOUNT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			goal, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			estimate, err := a.reports.GetMonthsToGoal(a.userID, goal)
			if err != nil {
				return err
			}

			switch {
			case !estimate.Reachable:
				pterm.Warning.Printfln("Goal of %s is unreachable: average monthly savings are %s",
					goal.StringFixed(2), estimate.TrailingAverage.StringFixed(2))
			case *estimate.Months == 0:
				pterm.Success.Printfln("Goal of %s already reached (%s saved)",
					goal.StringFixed(2), estimate.CurrentTotalSavings.StringFixed(2))
			default:
				pterm.Success.Printfln("Goal of %s reached in %s month(s)",
					goal.StringFixed(2), strconv.FormatInt(*estimate.Months, 10))
			}
			return nil
		},
	}
}

func newSavingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "savings",
		Short: "List income, expense and net savings per month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			entries, err := a.reports.GetMonthlySavings(a.userID)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				pterm.Info.Println("No transactions recorded")
				return nil
			}

			data := pterm.TableData{{"Month", "Income", "Expense", "Net"}}
			for _, e := range entries {
				data = append(data, []string{
					e.Period.String(),
					e.Income.StringFixed(2),
					e.Expense.StringFixed(2),
					colorAmount(e.Net),
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithRightAlignment().WithData(data).Render()
		},
	}
}

func renderReport(report *reporting.Report, currency string) error {
	pterm.DefaultSection.Printfln("Budget report %s", report.Period)

	names := make([]string, 0, len(report.Categories))
	for name := range report.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	data := pterm.TableData{{"Category", "Budget", "Spent", "Status", "Suggestion"}}
	for _, name := range names {
		row := report.Categories[name]
		status := pterm.Green("ok")
		if row.OverBudget {
			status = pterm.Red("over")
		}
		suggestion := ""
		if s, ok := report.SuggestedSavings[name]; ok {
			suggestion = fmt.Sprintf("%s %s", s.Type, s.Amount.StringFixed(2))
		}
		data = append(data, []string{name, row.Budget.StringFixed(2), row.Spent.StringFixed(2), status, suggestion})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	pterm.Info.Printfln("Total budget %s %s, total spending %s %s",
		report.TotalBudget.StringFixed(2), currency, report.TotalSpending.StringFixed(2), currency)
	return nil
}

func forecastRows(points []reporting.ForecastPoint) pterm.TableData {
	data := pterm.TableData{{"Month", "Projected savings"}}
	for _, p := range points {
		month := reporting.Period{Year: p.Year, Month: p.Month}
		data = append(data, []string{month.DatePrefix(), colorAmount(p.ForecastSavings)})
	}
	return data
}

func colorAmount(d decimal.Decimal) string {
	if d.IsNegative() {
		return pterm.Red(d.StringFixed(2))
	}
	return d.StringFixed(2)
}
