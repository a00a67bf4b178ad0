package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/dp-213/insoledger/internal/ledger"
	ledgerStore "github.com/dp-213/insoledger/internal/ledger/store"
)

type checkCmd struct {
	caseID string
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verify money conservation for a case" }
func (*checkCmd) Usage() string {
	return `ledgerctl check -case <uuid>

  Compares the sum over entries without children against the sum over
  root entries. The two must be equal to the cent.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.caseID, "case", "", "case id")
}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
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

	svc := ledger.NewService(ledgerStore.New(db))

	status, err := svc.CheckConservation(ctx, caseID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println(status.Detail)

	if !status.OK {
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
