package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/dp-213/insoledger/internal/forecast"
	forecastStore "github.com/dp-213/insoledger/internal/forecast/store"
	"github.com/dp-213/insoledger/internal/ledger"
)

type forecastCmd struct {
	caseID            string
	includeUnreviewed bool
}

func (*forecastCmd) Name() string     { return "forecast" }
func (*forecastCmd) Synopsis() string { return "print the rolling liquidity forecast for a case" }
func (*forecastCmd) Usage() string {
	return `ledgerctl forecast -case <uuid> [-include-unreviewed]

  Composes the period-by-period liquidity view. Unreviewed entries are
  excluded unless -include-unreviewed is set.
`
}

func (c *forecastCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.caseID, "case", "", "case id")
	f.BoolVar(&c.includeUnreviewed, "include-unreviewed", false, "count unreviewed entries too")
}

func (c *forecastCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	caseID, err := parseCase(c.caseID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	db, err := openDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	composer := forecast.NewComposer(forecastStore.New(db), nil, slog.Default())

	result, err := composer.Compose(ctx, caseID, forecast.Options{
		IncludeUnreviewed: c.includeUnreviewed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("opening balance %s", ledger.FormatCents(result.OpeningBalance))

	if result.ExcludedUnreviewed > 0 {
		fmt.Printf(" (%d unreviewed entries excluded)", result.ExcludedUnreviewed)
	}

	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "period\tin\tout\tnet\tclosing\tsource\t")

	for _, p := range result.Periods {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			p.Label,
			ledger.FormatCents(p.Inflows),
			ledger.FormatCents(p.Outflows),
			ledger.FormatCents(p.Net),
			ledger.FormatCents(p.Closing),
			p.Source)
	}

	w.Flush()

	return subcommands.ExitSuccess
}
