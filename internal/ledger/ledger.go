package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValueType distinguishes booked bank movements from plan figures.
type ValueType string

const (
	ValueActual  ValueType = "ACTUAL"
	ValuePlanned ValueType = "PLANNED"
)

// EstateBucket assigns an entry to the pre-filing or post-filing estate.
//
// MIXED carries a ratio (pre-filing share); UNRESOLVED means no rule could
// derive a service period and the entry is routed to manual review.
type EstateBucket string

const (
	BucketPreFiling  EstateBucket = "PRE_FILING"
	BucketPostFiling EstateBucket = "POST_FILING"
	BucketMixed      EstateBucket = "MIXED"
	BucketUnresolved EstateBucket = "UNRESOLVED"
)

// AllocationSource records which rule produced a classification. Every
// allocation must be traceable for the audit trail.
type AllocationSource string

const (
	SourceProgramRule   AllocationSource = "PROGRAM_RULE"
	SourceCategoryTag   AllocationSource = "CATEGORY_TAG"
	SourceServiceDate   AllocationSource = "SERVICE_DATE"
	SourcePeriodProrata AllocationSource = "PERIOD_PRORATA"
	SourcePriorMonth    AllocationSource = "PRIOR_MONTH"
	SourceManual        AllocationSource = "MANUAL"
	SourceUnresolved    AllocationSource = "UNRESOLVED"
)

// ReviewStatus gates whether an entry counts toward confirmed reporting.
type ReviewStatus string

const (
	ReviewUnreviewed ReviewStatus = "UNREVIEWED"
	ReviewConfirmed  ReviewStatus = "CONFIRMED"
	ReviewAdjusted   ReviewStatus = "ADJUSTED"
	ReviewRejected   ReviewStatus = "REJECTED"
)

var (
	ErrNotFound          = errors.New("ledger entry not found")
	ErrInvalidTransition = errors.New("invalid review status transition")
	ErrReasonRequired    = errors.New("review reason is required")
)

// Allocation is the classification result attached to an entry.
type Allocation struct {
	Bucket EstateBucket
	// Ratio is the pre-filing share in [0,1], meaningful only for MIXED.
	Ratio  *decimal.Decimal
	Source AllocationSource
	Note   string
}

// Validate rejects allocations that would be useless in an audit:
// a bucket without a stated reason, or a ratio outside [0,1].
func (a Allocation) Validate() error {
	if a.Note == "" {
		return fmt.Errorf("allocation %s without note", a.Bucket)
	}

	if a.Bucket == BucketMixed {
		if a.Ratio == nil {
			return fmt.Errorf("mixed allocation without ratio")
		}

		if a.Ratio.IsNegative() || a.Ratio.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("ratio %s out of range [0,1]", a.Ratio)
		}
	} else if a.Ratio != nil {
		return fmt.Errorf("ratio set on %s allocation", a.Bucket)
	}

	return nil
}

// Entry is the atomic financial fact. Amount is in signed cents
// (positive = inflow, negative = outflow); money is never floating point.
type Entry struct {
	ID          uuid.UUID
	CaseID      uuid.UUID
	Amount      int64 // cents
	Date        time.Time
	Description string
	ValueType   ValueType

	// Classification fields, written only by the allocation classifier
	// or a manual review.
	Bucket           *EstateBucket
	Ratio            *decimal.Decimal
	AllocationSource AllocationSource
	AllocationNote   string

	// Split linkage. An entry with ParentID == nil is a root. A root that
	// has been split keeps its amount for history but is excluded from
	// active aggregates once children exist.
	ParentID    *uuid.UUID
	SplitReason string
	SplitAt     *time.Time

	ReviewStatus ReviewStatus
	ReviewedBy   string
	ReviewedAt   *time.Time
	ReviewNote   string

	// Classification inputs carried from import. The classifier never
	// guesses: when none of these yield a service period the entry
	// resolves UNRESOLVED.
	ServiceDate        *time.Time
	ServicePeriodStart *time.Time
	ServicePeriodEnd   *time.Time
	CategoryTag        string
	SettlerKey         string
	// ProgramPeriod is a periodic-payment program identifier such as
	// "2025-Q4/2" (quarter, installment).
	ProgramPeriod string

	CreatedBy    string
	ImportSource string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// IsRoot reports whether the entry is not itself a split child.
func (e *Entry) IsRoot() bool { return e.ParentID == nil }

// IsSplit reports whether the entry has been decomposed into children.
func (e *Entry) IsSplit() bool { return e.SplitAt != nil }

// ValidateReviewTransition checks whether an entry may move between review
// states. Rejected entries can only be revived through an adjustment.
func ValidateReviewTransition(from, to ReviewStatus) error {
	switch from {
	case ReviewUnreviewed:
		return nil
	case ReviewConfirmed, ReviewAdjusted:
		if to == ReviewUnreviewed {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}
		return nil
	case ReviewRejected:
		if to != ReviewAdjusted {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}
		return nil
	}

	return fmt.Errorf("%w: unknown status %s", ErrInvalidTransition, from)
}

// FormatCents renders a cent amount as a German-locale EUR string for
// allocation notes and audit messages.
func FormatCents(cents int64) string {
	return money.New(cents, money.EUR).Display()
}
