package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/dp-213/insoledger/internal/ledger"
	"github.com/dp-213/insoledger/internal/split"
	splitStore "github.com/dp-213/insoledger/internal/split/store"
)

type splitCmd struct {
	caseID  string
	sources string
	dryRun  bool
	actor   string
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "decompose matched payment advices into child entries" }
func (*splitCmd) Usage() string {
	return `ledgerctl split -case <uuid> [-source <uuid>[,<uuid>...]] [-dry-run] [-actor <name>]

  Splits every matched advice of the case, or only the given sources.
  With -dry-run the preconditions are evaluated but nothing is written.
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.caseID, "case", "", "case id")
	f.StringVar(&c.sources, "source", "", "comma-separated source ids to restrict the run")
	f.BoolVar(&c.dryRun, "dry-run", false, "validate without writing")
	f.StringVar(&c.actor, "actor", "ledgerctl", "actor recorded in the audit trail")
}

func (c *splitCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	caseID, err := parseCase(c.caseID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var sourceIDs []uuid.UUID

	if c.sources != "" {
		for _, s := range strings.Split(c.sources, ",") {
			id, err := uuid.Parse(strings.TrimSpace(s))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: invalid source id %q\n", s)
				return subcommands.ExitUsageError
			}

			sourceIDs = append(sourceIDs, id)
		}
	}

	db, err := openDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	engine := split.NewEngine(splitStore.New(db), slog.Default())

	report, err := engine.Run(ctx, caseID, split.Options{
		SourceIDs: sourceIDs,
		DryRun:    c.dryRun,
		Actor:     c.actor,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printReport(report)

	if len(report.Errors) > 0 || (!report.DryRun && !report.Invariant.OK) {
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

func printReport(r *split.Report) {
	mode := "run"
	if r.DryRun {
		mode = "dry run"
	}

	fmt.Printf("split %s: %d processed, %d children created, %d skipped\n",
		mode, r.Processed, r.ChildrenCreated, r.Skipped)

	for _, res := range r.Results {
		line := fmt.Sprintf("  %s  %-20s %s", res.SourceID, res.ReferenceNumber, res.Outcome)
		if res.ChildrenCreated > 0 {
			line += fmt.Sprintf(" (%d children)", res.ChildrenCreated)
		}

		if res.Reason != "" {
			line += ": " + res.Reason
		}

		fmt.Println(line)
	}

	if !r.DryRun {
		fmt.Printf("conservation: active %s, roots %s, ok=%v\n",
			ledger.FormatCents(r.Invariant.ActiveSum),
			ledger.FormatCents(r.Invariant.RootSum),
			r.Invariant.OK)
	}
}
