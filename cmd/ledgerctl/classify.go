package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/dp-213/insoledger/internal/allocation"
	allocationStore "github.com/dp-213/insoledger/internal/allocation/store"
)

type classifyCmd struct {
	caseID string
	actor  string
}

func (*classifyCmd) Name() string     { return "classify" }
func (*classifyCmd) Synopsis() string { return "run the estate allocation rules over a case" }
func (*classifyCmd) Usage() string {
	return `ledgerctl classify -case <uuid> [-actor <name>]

  Classifies every active entry of the case into pre-filing, post-filing
  or mixed estate buckets. Manual allocations are left untouched.
`
}

func (c *classifyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.caseID, "case", "", "case id")
	f.StringVar(&c.actor, "actor", "ledgerctl", "actor recorded in the audit trail")
}

func (c *classifyCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
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

	classifier := allocation.NewClassifier(allocationStore.New(db), slog.Default())

	report, err := classifier.Run(ctx, caseID, nil, c.actor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("classified %d entries, %d changed, %d unresolved\n",
		report.Processed, report.Changed, report.Unresolved)

	for bucket, n := range report.ByBucket {
		fmt.Printf("  %-12s %d\n", bucket, n)
	}

	return subcommands.ExitSuccess
}
