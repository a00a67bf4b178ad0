package split

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dp-213/insoledger/internal/breakdown"
	"github.com/dp-213/insoledger/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=split
type Repository interface {
	// ListSources returns the case's sources, optionally restricted to the
	// given IDs. All statuses are returned so skipped and unmatched sources
	// can be reported.
	ListSources(ctx context.Context, caseID uuid.UUID, sourceIDs []uuid.UUID) ([]*breakdown.Source, error)

	// Begin opens the per-source transaction. The handle serializes splits
	// for the case against concurrent runs.
	Begin(ctx context.Context, caseID uuid.UUID) (Tx, error)

	// SetSourceError records a failure on a MATCHED source. Called outside
	// the rolled-back transaction, best effort.
	SetSourceError(ctx context.Context, sourceID uuid.UUID, msg string) error

	ConservationSums(ctx context.Context, caseID uuid.UUID) (active, roots int64, err error)
	MarkForecastStale(ctx context.Context, caseID uuid.UUID) error
}

// Tx covers one source's split: re-validation, child creation, status
// flips, audit row and the in-transaction invariant recomputation all
// commit or roll back together.
type Tx interface {
	GetEntryForUpdate(ctx context.Context, caseID, id uuid.UUID) (*ledger.Entry, error)
	CountChildren(ctx context.Context, parentID uuid.UUID) (int, error)
	CreateChild(ctx context.Context, e *ledger.Entry) error
	LinkItem(ctx context.Context, itemID, childEntryID uuid.UUID) error
	MarkParentSplit(ctx context.Context, parentID uuid.UUID, reason string, at time.Time) error
	MarkSourceSplit(ctx context.Context, sourceID uuid.UUID, at time.Time) error
	InsertAudit(ctx context.Context, log *ledger.AuditLog) error
	ConservationSums(ctx context.Context, caseID uuid.UUID) (active, roots int64, err error)
	Commit() error
	Rollback() error
}

// Engine decomposes matched composite payments into child entries.
type Engine struct {
	repo   Repository
	logger *slog.Logger
}

func NewEngine(repo Repository, logger *slog.Logger) *Engine {
	return &Engine{repo: repo, logger: logger}
}

type Options struct {
	// SourceIDs restricts the run; empty means every source of the case.
	SourceIDs []uuid.UUID
	DryRun    bool
	Actor     string
}

// Run processes each source in its own transaction so one failure never
// blocks the rest of the batch. Already-split sources are skipped before
// any precondition is evaluated.
func (e *Engine) Run(ctx context.Context, caseID uuid.UUID, opts Options) (*Report, error) {
	sources, err := e.repo.ListSources(ctx, caseID, opts.SourceIDs)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	report := &Report{DryRun: opts.DryRun}
	mutated := false

	for _, src := range sources {
		if src.Status == breakdown.StatusSplit {
			report.Skipped++
			report.Results = append(report.Results, SourceResult{
				SourceID:        src.ID,
				ReferenceNumber: src.ReferenceNumber,
				Outcome:         OutcomeSkipped,
				Reason:          "source already split",
			})

			continue
		}

		report.Processed++

		result := e.processSource(ctx, caseID, src, opts)
		report.Results = append(report.Results, result)
		report.ChildrenCreated += result.ChildrenCreated

		switch result.Outcome {
		case OutcomeSplit:
			mutated = true
		case OutcomeInvariant, OutcomeError:
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %s", src.ReferenceNumber, result.Reason))
		}
	}

	if !opts.DryRun {
		active, roots, err := e.repo.ConservationSums(ctx, caseID)
		if err != nil {
			return nil, fmt.Errorf("verifying invariant: %w", err)
		}

		report.Invariant = ledger.InvariantStatus{ActiveSum: active, RootSum: roots, OK: active == roots}
		if report.Invariant.OK {
			report.Invariant.Detail = "OK"
		} else {
			report.Invariant.Detail = (&InvariantError{ActiveSum: active, RootSum: roots}).Error()
		}

		if mutated {
			if err := e.repo.MarkForecastStale(ctx, caseID); err != nil {
				e.logger.Error("marking forecast stale", "caseId", caseID, "error", err)
			}
		}
	}

	return report, nil
}

// processSource runs one source through precondition checks and, unless
// dry-running, the full mutation. Dry runs share the code path and always
// roll back.
func (e *Engine) processSource(ctx context.Context, caseID uuid.UUID, src *breakdown.Source, opts Options) SourceResult {
	result := SourceResult{SourceID: src.ID, ReferenceNumber: src.ReferenceNumber}

	tx, err := e.repo.Begin(ctx, caseID)
	if err != nil {
		result.Outcome = OutcomeError
		result.Reason = err.Error()

		return result
	}
	defer tx.Rollback()

	parent, reason := e.checkPreconditions(ctx, tx, caseID, src)
	if reason != "" {
		result.Outcome = OutcomeInvalid
		result.Reason = reason

		if !opts.DryRun && src.Status == breakdown.StatusMatched {
			// The transaction still holds the row and advisory locks;
			// the status write runs on its own connection and would
			// queue behind them forever.
			_ = tx.Rollback()
			e.recordSourceError(ctx, src.ID, reason)
		}

		return result
	}

	if opts.DryRun {
		result.Outcome = OutcomeValid

		return result
	}

	created, err := e.splitSource(ctx, tx, src, parent, opts.Actor)
	if err != nil {
		var invErr *InvariantError
		if errors.As(err, &invErr) {
			result.Outcome = OutcomeInvariant
		} else {
			result.Outcome = OutcomeError
		}

		result.Reason = err.Error()

		// Release the source row and advisory locks before writing the
		// ERROR status outside the transaction.
		_ = tx.Rollback()
		e.recordSourceError(ctx, src.ID, result.Reason)

		return result
	}

	if err := tx.Commit(); err != nil {
		result.Outcome = OutcomeError
		result.Reason = fmt.Sprintf("committing split: %v", err)
		e.recordSourceError(ctx, src.ID, result.Reason)

		return result
	}

	result.Outcome = OutcomeSplit
	result.ChildrenCreated = created

	return result
}

// checkPreconditions re-validates the source under the open transaction.
// Each failure mode gets its own reason so operators can fix the right
// thing.
func (e *Engine) checkPreconditions(ctx context.Context, tx Tx, caseID uuid.UUID, src *breakdown.Source) (*ledger.Entry, string) {
	if src.Status != breakdown.StatusMatched || src.MatchedEntryID == nil {
		return nil, fmt.Sprintf("source is %s, not matched to an entry", src.Status)
	}

	parent, err := tx.GetEntryForUpdate(ctx, caseID, *src.MatchedEntryID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, fmt.Sprintf("matched entry %s does not exist", src.MatchedEntryID)
		}

		return nil, err.Error()
	}

	children, err := tx.CountChildren(ctx, parent.ID)
	if err != nil {
		return nil, err.Error()
	}

	if children > 0 {
		return nil, fmt.Sprintf("entry %s already has %d children", parent.ID, children)
	}

	if !parent.IsRoot() {
		return nil, fmt.Sprintf("entry %s is itself a split child", parent.ID)
	}

	if sum := src.ItemSum(); sum != -parent.Amount {
		return nil, fmt.Sprintf("items sum to %s but entry amount is %s",
			ledger.FormatCents(sum), ledger.FormatCents(parent.Amount))
	}

	return parent, ""
}

func (e *Engine) splitSource(ctx context.Context, tx Tx, src *breakdown.Source, parent *ledger.Entry, actor string) (int, error) {
	now := time.Now()
	splitReason := fmt.Sprintf("Aufteilung %s", src.ReferenceNumber)

	for _, item := range src.Items {
		child := &ledger.Entry{
			CaseID:      parent.CaseID,
			Amount:      -item.Amount,
			Date:        parent.Date,
			Description: item.RecipientName,
			ValueType:   parent.ValueType,

			Bucket:           parent.Bucket,
			Ratio:            parent.Ratio,
			AllocationSource: parent.AllocationSource,
			AllocationNote:   parent.AllocationNote,

			ParentID:    &parent.ID,
			SplitReason: fmt.Sprintf("%s, Position %d", splitReason, item.Index),

			ReviewStatus: ledger.ReviewUnreviewed,
			CreatedBy:    actor,
			ImportSource: src.SourceFileName,
		}

		if err := tx.CreateChild(ctx, child); err != nil {
			return 0, fmt.Errorf("creating child %d: %w", item.Index, err)
		}

		if err := tx.LinkItem(ctx, item.ID, child.ID); err != nil {
			return 0, fmt.Errorf("linking item %d: %w", item.Index, err)
		}
	}

	if err := tx.MarkParentSplit(ctx, parent.ID, splitReason, now); err != nil {
		return 0, fmt.Errorf("marking parent split: %w", err)
	}

	if err := tx.MarkSourceSplit(ctx, src.ID, now); err != nil {
		return 0, fmt.Errorf("marking source split: %w", err)
	}

	log := &ledger.AuditLog{
		EntryID: parent.ID,
		CaseID:  parent.CaseID,
		Action:  ledger.AuditSplit,
		Changes: map[string]ledger.FieldChange{
			"children": {Old: "0", New: fmt.Sprintf("%d", len(src.Items))},
		},
		Reason: splitReason,
		Actor:  actor,
	}
	if err := tx.InsertAudit(ctx, log); err != nil {
		return 0, fmt.Errorf("writing audit log: %w", err)
	}

	// Recompute conservation inside the transaction so a broken split can
	// never commit.
	active, roots, err := tx.ConservationSums(ctx, parent.CaseID)
	if err != nil {
		return 0, fmt.Errorf("recomputing invariant: %w", err)
	}

	if active != roots {
		return 0, &InvariantError{ActiveSum: active, RootSum: roots}
	}

	return len(src.Items), nil
}

func (e *Engine) recordSourceError(ctx context.Context, sourceID uuid.UUID, msg string) {
	if err := e.repo.SetSourceError(ctx, sourceID, msg); err != nil {
		e.logger.Error("recording source error", "sourceId", sourceID, "error", err)
	}
}
