package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/report"
	"github.com/urfave/cli/v3"
)

func reportCommand(cfg *config.Config, log zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "print a test's report",
		ArgsUsage: "<test-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			testID := cmd.Args().First()
			if testID == "" {
				return fmt.Errorf("report requires a test id")
			}

			st, err := openStores(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			t, err := st.tests.GetByID(ctx, testID)
			if err != nil {
				return fmt.Errorf("load test %s: %w", testID, err)
			}
			printReport(os.Stdout, t)
			return nil
		},
	}
}

func printReport(w io.Writer, t *model.Test) {
	rows, agg := report.SummarizeAll(t.Report)

	bold := color.New(color.Bold)
	bold.Fprintf(w, "%s  [%s]\n", t.Name, t.Status())
	fmt.Fprintf(w, "%d candidates, %d/%d points (%.1f%%)\n\n",
		agg.Candidates, agg.Totals.Score, agg.Totals.TotalScore, agg.Totals.Percent)

	if len(rows) == 0 {
		fmt.Fprintln(w, color.YellowString("no submissions yet"))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tSCORE\tCASES\tDURATION\tTRIGGER\tVIOLATIONS")
	for _, r := range rows {
		score := fmt.Sprintf("%d/%d", r.Totals.Score, r.Totals.TotalScore)
		if r.Totals.TotalScore > 0 && r.Totals.Score == r.Totals.TotalScore {
			score = color.GreenString(score)
		}
		violations := fmt.Sprint(r.Violations)
		if r.Violations > 0 {
			violations = color.RedString(violations)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\t%s\t%s\n",
			r.Email, score, r.Totals.TestCasesPassed, r.Totals.TotalTestCases,
			r.Duration, r.Trigger, violations)
	}
	tw.Flush()
}
