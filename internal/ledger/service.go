package ledger

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	CreateEntry(ctx context.Context, e *Entry) error
	GetEntry(ctx context.Context, caseID, id uuid.UUID) (*Entry, error)
	ListEntries(ctx context.Context, caseID uuid.UUID, filter ListFilter) ([]*Entry, error)

	// UpdateReview persists the entry's review fields (and any adjusted
	// values) together with the audit row in one transaction.
	UpdateReview(ctx context.Context, e *Entry, log *AuditLog) error

	EntryAuditLog(ctx context.Context, entryID uuid.UUID) ([]*AuditLog, error)
	CaseAuditLog(ctx context.Context, caseID uuid.UUID, filter AuditFilter) ([]*AuditLog, int, error)

	// ConservationSums returns the sum over entries with no children and
	// the sum over root entries for the case.
	ConservationSums(ctx context.Context, caseID uuid.UUID) (active, roots int64, err error)

	MarkForecastStale(ctx context.Context, caseID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	CaseID      uuid.UUID
	Amount      int64
	Date        time.Time
	Description string
	ValueType   ValueType

	ServiceDate        *time.Time
	ServicePeriodStart *time.Time
	ServicePeriodEnd   *time.Time
	CategoryTag        string
	SettlerKey         string
	ProgramPeriod      string

	ImportSource string
	Actor        string
}

type ListFilter struct {
	ValueType    *ValueType
	ReviewStatus *ReviewStatus
	Bucket       *EstateBucket
	StartDate    *time.Time
	EndDate      *time.Time
	// ActiveOnly excludes split parents, i.e. entries whose amount is
	// already represented by children.
	ActiveOnly bool
	RootsOnly  bool
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Entry, error) {
	if params.Description == "" {
		return nil, fmt.Errorf("description is required")
	}

	if params.ValueType != ValueActual && params.ValueType != ValuePlanned {
		return nil, fmt.Errorf("invalid value type %q", params.ValueType)
	}

	e := &Entry{
		CaseID:             params.CaseID,
		Amount:             params.Amount,
		Date:               params.Date,
		Description:        params.Description,
		ValueType:          params.ValueType,
		ReviewStatus:       ReviewUnreviewed,
		ServiceDate:        params.ServiceDate,
		ServicePeriodStart: params.ServicePeriodStart,
		ServicePeriodEnd:   params.ServicePeriodEnd,
		CategoryTag:        params.CategoryTag,
		SettlerKey:         params.SettlerKey,
		ProgramPeriod:      params.ProgramPeriod,
		ImportSource:       params.ImportSource,
		CreatedBy:          params.Actor,
	}

	if err := s.repo.CreateEntry(ctx, e); err != nil {
		return nil, err
	}

	if err := s.repo.MarkForecastStale(ctx, params.CaseID); err != nil {
		return nil, fmt.Errorf("marking forecast stale: %w", err)
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, caseID, id uuid.UUID) (*Entry, error) {
	return s.repo.GetEntry(ctx, caseID, id)
}

func (s *Service) List(ctx context.Context, caseID uuid.UUID, filter ListFilter) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, caseID, filter)
}

// Confirm marks an entry as reviewed without changes.
func (s *Service) Confirm(ctx context.Context, caseID, id uuid.UUID, actor, note string) (*Entry, error) {
	return s.review(ctx, caseID, id, ReviewConfirmed, AuditConfirmed, actor, note, nil)
}

// AdjustParams lists the fields a reviewer may correct. Amount changes are
// refused on split parents and split children because they would break the
// money-conservation invariant one-sidedly.
type AdjustParams struct {
	Description *string
	Amount      *int64
	Allocation  *Allocation
}

func (s *Service) Adjust(ctx context.Context, caseID, id uuid.UUID, actor, reason string, params AdjustParams) (*Entry, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	return s.review(ctx, caseID, id, ReviewAdjusted, AuditAdjusted, actor, reason, &params)
}

// Reject marks an entry as not counting toward reporting. The entry is
// kept; ledger entries are never deleted.
func (s *Service) Reject(ctx context.Context, caseID, id uuid.UUID, actor, reason string) (*Entry, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	return s.review(ctx, caseID, id, ReviewRejected, AuditRejected, actor, reason, nil)
}

func (s *Service) review(
	ctx context.Context,
	caseID, id uuid.UUID,
	status ReviewStatus,
	action AuditAction,
	actor, note string,
	adjust *AdjustParams,
) (*Entry, error) {
	e, err := s.repo.GetEntry(ctx, caseID, id)
	if err != nil {
		return nil, err
	}

	if err := ValidateReviewTransition(e.ReviewStatus, status); err != nil {
		return nil, err
	}

	changes := map[string]FieldChange{
		"reviewStatus": {Old: string(e.ReviewStatus), New: string(status)},
	}

	if adjust != nil {
		if err := applyAdjustments(e, *adjust, changes); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	e.ReviewStatus = status
	e.ReviewedBy = actor
	e.ReviewedAt = &now
	e.ReviewNote = note

	log := &AuditLog{
		EntryID: e.ID,
		CaseID:  e.CaseID,
		Action:  action,
		Changes: changes,
		Reason:  note,
		Actor:   actor,
	}

	if err := s.repo.UpdateReview(ctx, e, log); err != nil {
		return nil, err
	}

	if err := s.repo.MarkForecastStale(ctx, e.CaseID); err != nil {
		return nil, fmt.Errorf("marking forecast stale: %w", err)
	}

	return e, nil
}

func applyAdjustments(e *Entry, params AdjustParams, changes map[string]FieldChange) error {
	if params.Amount != nil && *params.Amount != e.Amount {
		if e.IsSplit() {
			return fmt.Errorf("cannot adjust amount of split entry %s", e.ID)
		}

		if !e.IsRoot() {
			return fmt.Errorf("cannot adjust amount of split child %s", e.ID)
		}

		changes["amountCents"] = FieldChange{
			Old: strconv.FormatInt(e.Amount, 10),
			New: strconv.FormatInt(*params.Amount, 10),
		}
		e.Amount = *params.Amount
	}

	if params.Description != nil && *params.Description != e.Description {
		changes["description"] = FieldChange{Old: e.Description, New: *params.Description}
		e.Description = *params.Description
	}

	if params.Allocation != nil {
		alloc := *params.Allocation
		alloc.Source = SourceManual

		if err := alloc.Validate(); err != nil {
			return fmt.Errorf("invalid allocation: %w", err)
		}

		old := ""
		if e.Bucket != nil {
			old = string(*e.Bucket)
		}

		changes["estateAllocation"] = FieldChange{Old: old, New: string(alloc.Bucket)}

		e.Bucket = &alloc.Bucket
		e.Ratio = alloc.Ratio
		e.AllocationSource = alloc.Source
		e.AllocationNote = alloc.Note
	}

	return nil
}

func (s *Service) EntryAudit(ctx context.Context, entryID uuid.UUID) ([]*AuditLog, error) {
	return s.repo.EntryAuditLog(ctx, entryID)
}

func (s *Service) CaseAudit(ctx context.Context, caseID uuid.UUID, filter AuditFilter) ([]*AuditLog, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	return s.repo.CaseAuditLog(ctx, caseID, filter)
}

// InvariantStatus is the result of the money-conservation check:
// the sum over entries with no children must equal the sum over roots.
type InvariantStatus struct {
	ActiveSum int64
	RootSum   int64
	OK        bool
	Detail    string
}

func (s *Service) CheckConservation(ctx context.Context, caseID uuid.UUID) (InvariantStatus, error) {
	active, roots, err := s.repo.ConservationSums(ctx, caseID)
	if err != nil {
		return InvariantStatus{}, err
	}

	st := InvariantStatus{ActiveSum: active, RootSum: roots, OK: active == roots}
	if st.OK {
		st.Detail = "OK"
	} else {
		st.Detail = fmt.Sprintf("active sum %s != root sum %s (difference %s)",
			FormatCents(active), FormatCents(roots), FormatCents(active-roots))
	}

	return st, nil
}
