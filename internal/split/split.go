package split

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dp-213/insoledger/internal/ledger"
)

// InvariantError reports a broken money-conservation invariant detected
// inside a split transaction. It is a distinct type so callers never
// confuse it with ordinary precondition failures.
type InvariantError struct {
	ActiveSum int64
	RootSum   int64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: active sum %s != root sum %s",
		ledger.FormatCents(e.ActiveSum), ledger.FormatCents(e.RootSum))
}

// Outcome classifies what happened to one source during a run.
type Outcome string

const (
	// OutcomeSplit means children were created and committed.
	OutcomeSplit Outcome = "SPLIT"
	// OutcomeValid means a dry run found all preconditions satisfied.
	OutcomeValid Outcome = "VALID"
	// OutcomeInvalid means a precondition failed; the reason names which.
	OutcomeInvalid Outcome = "INVALID"
	// OutcomeInvariant means the in-transaction conservation check failed
	// and the source's transaction was rolled back.
	OutcomeInvariant Outcome = "INVARIANT_VIOLATION"
	// OutcomeError means an unexpected store failure.
	OutcomeError Outcome = "ERROR"
	// OutcomeSkipped means the source was already split.
	OutcomeSkipped Outcome = "SKIPPED"
)

// SourceResult is the per-source line of a run report.
type SourceResult struct {
	SourceID        uuid.UUID
	ReferenceNumber string
	Outcome         Outcome
	ChildrenCreated int
	Reason          string
}

// Report summarizes one engine run. Invariant holds the case-wide
// conservation check performed after the last commit; for dry runs it is
// left zero-valued with OK unset.
type Report struct {
	DryRun          bool
	Processed       int
	ChildrenCreated int
	Skipped         int
	Results         []SourceResult
	Errors          []string
	Invariant       ledger.InvariantStatus
}
