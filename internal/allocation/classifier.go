package allocation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dp-213/insoledger/internal/ledger"
)

//go:generate mockgen -source=classifier.go -destination=repository_mock.go -package=allocation
type Repository interface {
	// CaseConfig loads the case's cutover date, program table inputs, tag
	// mappings and settler conventions.
	CaseConfig(ctx context.Context, caseID uuid.UUID) (*Config, error)

	// ListEntries returns active (unsplit) entries, optionally restricted
	// to the given IDs.
	ListEntries(ctx context.Context, caseID uuid.UUID, entryIDs []uuid.UUID) ([]*ledger.Entry, error)

	// UpdateAllocation writes the four allocation fields together with the
	// audit row in one transaction. Amount and date are never touched.
	UpdateAllocation(ctx context.Context, e *ledger.Entry, log *ledger.AuditLog) error

	MarkForecastStale(ctx context.Context, caseID uuid.UUID) error
}

// Classifier assigns every entry to an estate bucket via the rule chain.
type Classifier struct {
	repo   Repository
	rules  []Rule
	logger *slog.Logger
}

func NewClassifier(repo Repository, logger *slog.Logger) *Classifier {
	return &Classifier{repo: repo, rules: DefaultRules(), logger: logger}
}

// Report counts one run's outcomes per bucket and per producing rule
// source, so auditors can see which rule classified what.
type Report struct {
	Processed  int
	Changed    int
	Unresolved int
	ByBucket   map[ledger.EstateBucket]int
	BySource   map[ledger.AllocationSource]int
}

// Run classifies the selected entries. Re-running with an unchanged rule
// set yields identical fields; manual allocations set by a reviewer are
// preserved.
func (c *Classifier) Run(ctx context.Context, caseID uuid.UUID, entryIDs []uuid.UUID, actor string) (*Report, error) {
	cfg, err := c.repo.CaseConfig(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("loading case config: %w", err)
	}

	entries, err := c.repo.ListEntries(ctx, caseID, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	report := &Report{
		ByBucket: make(map[ledger.EstateBucket]int),
		BySource: make(map[ledger.AllocationSource]int),
	}

	for _, e := range entries {
		report.Processed++

		if e.AllocationSource == ledger.SourceManual {
			if e.Bucket != nil {
				report.ByBucket[*e.Bucket]++
			}
			report.BySource[ledger.SourceManual]++

			continue
		}

		alloc := Classify(e, *cfg, c.rules)

		report.ByBucket[alloc.Bucket]++
		report.BySource[alloc.Source]++

		if alloc.Bucket == ledger.BucketUnresolved {
			report.Unresolved++
		}

		if !allocationChanged(e, alloc) {
			continue
		}

		log := classificationAudit(e, alloc, actor)

		e.Bucket = &alloc.Bucket
		e.Ratio = alloc.Ratio
		e.AllocationSource = alloc.Source
		e.AllocationNote = alloc.Note

		if err := c.repo.UpdateAllocation(ctx, e, log); err != nil {
			return nil, fmt.Errorf("updating allocation of %s: %w", e.ID, err)
		}

		report.Changed++
	}

	if report.Changed > 0 {
		if err := c.repo.MarkForecastStale(ctx, caseID); err != nil {
			c.logger.Error("marking forecast stale", "caseId", caseID, "error", err)
		}
	}

	return report, nil
}

func allocationChanged(e *ledger.Entry, alloc ledger.Allocation) bool {
	if e.Bucket == nil || *e.Bucket != alloc.Bucket {
		return true
	}

	if e.AllocationSource != alloc.Source || e.AllocationNote != alloc.Note {
		return true
	}

	switch {
	case e.Ratio == nil && alloc.Ratio == nil:
		return false
	case e.Ratio == nil || alloc.Ratio == nil:
		return true
	default:
		return !e.Ratio.Equal(*alloc.Ratio)
	}
}

func classificationAudit(e *ledger.Entry, alloc ledger.Allocation, actor string) *ledger.AuditLog {
	oldBucket := ""
	if e.Bucket != nil {
		oldBucket = string(*e.Bucket)
	}

	oldRatio, newRatio := "", ""
	if e.Ratio != nil {
		oldRatio = e.Ratio.String()
	}

	if alloc.Ratio != nil {
		newRatio = alloc.Ratio.String()
	}

	return &ledger.AuditLog{
		EntryID: e.ID,
		CaseID:  e.CaseID,
		Action:  ledger.AuditClassified,
		Changes: map[string]ledger.FieldChange{
			"bucket": {Old: oldBucket, New: string(alloc.Bucket)},
			"ratio":  {Old: oldRatio, New: newRatio},
			"source": {Old: string(e.AllocationSource), New: string(alloc.Source)},
		},
		Reason: alloc.Note,
		Actor:  actor,
	}
}

// Summary totals the classified amounts per estate. MIXED entries are
// divided by their ratio with cent-exact rounding: the pre-filing part is
// rounded, the post-filing part is the remainder, so the two always sum to
// the entry's amount.
type Summary struct {
	PreFiling  int64
	PostFiling int64
	Unresolved int64
	Total      int64
}

// EstateSummary aggregates active, non-rejected entries.
func (c *Classifier) EstateSummary(ctx context.Context, caseID uuid.UUID) (*Summary, error) {
	entries, err := c.repo.ListEntries(ctx, caseID, nil)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	var sum Summary

	for _, e := range entries {
		if e.ReviewStatus == ledger.ReviewRejected {
			continue
		}

		sum.Total += e.Amount

		if e.Bucket == nil {
			sum.Unresolved += e.Amount

			continue
		}

		switch *e.Bucket {
		case ledger.BucketPreFiling:
			sum.PreFiling += e.Amount
		case ledger.BucketPostFiling:
			sum.PostFiling += e.Amount
		case ledger.BucketMixed:
			// A MIXED row without a ratio cannot be apportioned;
			// Allocation.Validate gates writes, but a hand-touched row
			// must not panic the summary.
			if e.Ratio == nil {
				sum.Unresolved += e.Amount

				continue
			}

			pre := decimal.NewFromInt(e.Amount).Mul(*e.Ratio).Round(0).IntPart()
			sum.PreFiling += pre
			sum.PostFiling += e.Amount - pre
		default:
			sum.Unresolved += e.Amount
		}
	}

	return &sum, nil
}
