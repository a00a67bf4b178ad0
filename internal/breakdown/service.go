package breakdown

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dp-213/insoledger/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=breakdown
type Repository interface {
	// CreateSources persists the sources with their items in one transaction.
	CreateSources(ctx context.Context, sources []*Source) error
	GetSource(ctx context.Context, caseID, id uuid.UUID) (*Source, error)
	ListSources(ctx context.Context, caseID uuid.UUID, status *Status) ([]*Source, error)

	// SetMatched persists the UPLOADED -> MATCHED transition.
	SetMatched(ctx context.Context, source *Source) error

	GetLedgerEntry(ctx context.Context, caseID, id uuid.UUID) (*ledger.Entry, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UploadResult summarizes one advice file upload.
type UploadResult struct {
	Created  int
	Rejected []RejectedAdvice
	Sources  []*Source
}

// Upload parses an advice file and persists the valid records as UPLOADED
// sources. Rejected records are reported, not stored.
func (s *Service) Upload(ctx context.Context, caseID uuid.UUID, fileName string, r io.Reader) (*UploadResult, error) {
	parsed, err := ParseAdvices(r)
	if err != nil {
		return nil, err
	}

	for _, src := range parsed.Sources {
		src.CaseID = caseID
		src.SourceFileName = fileName
	}

	if len(parsed.Sources) > 0 {
		if err := s.repo.CreateSources(ctx, parsed.Sources); err != nil {
			return nil, fmt.Errorf("persisting sources: %w", err)
		}
	}

	return &UploadResult{
		Created:  len(parsed.Sources),
		Rejected: parsed.Rejected,
		Sources:  parsed.Sources,
	}, nil
}

func (s *Service) Get(ctx context.Context, caseID, id uuid.UUID) (*Source, error) {
	return s.repo.GetSource(ctx, caseID, id)
}

func (s *Service) List(ctx context.Context, caseID uuid.UUID, status *Status) ([]*Source, error) {
	return s.repo.ListSources(ctx, caseID, status)
}

// Match links an UPLOADED source to the bank entry it explains. The entry
// must be an unsplit root and its amount must equal the negated advice
// total to the cent.
func (s *Service) Match(ctx context.Context, caseID, sourceID, entryID uuid.UUID) (*Source, error) {
	src, err := s.repo.GetSource(ctx, caseID, sourceID)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(src.Status, StatusMatched); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetLedgerEntry(ctx, caseID, entryID)
	if err != nil {
		return nil, err
	}

	if !entry.IsRoot() {
		return nil, fmt.Errorf("entry %s is a split child, cannot match", entry.ID)
	}

	if entry.IsSplit() {
		return nil, fmt.Errorf("entry %s is already split, cannot match", entry.ID)
	}

	if entry.Amount != -src.TotalAmount {
		return nil, fmt.Errorf("%w: entry %s vs advice total %s",
			ErrAmountMismatch, ledger.FormatCents(entry.Amount), ledger.FormatCents(src.TotalAmount))
	}

	now := time.Now()
	src.MatchedEntryID = &entryID
	src.Status = StatusMatched
	src.UpdatedAt = &now

	if err := s.repo.SetMatched(ctx, src); err != nil {
		return nil, err
	}

	return src, nil
}
