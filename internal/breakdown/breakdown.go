package breakdown

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle of an uploaded payment advice.
//
//	UPLOADED -> MATCHED -> SPLIT
//
// ERROR is terminal and reachable only from MATCHED, set by the split
// engine when a matched source fails its preconditions.
type Status string

const (
	StatusUploaded Status = "UPLOADED"
	StatusMatched  Status = "MATCHED"
	StatusSplit    Status = "SPLIT"
	StatusError    Status = "ERROR"
)

var (
	ErrNotFound       = errors.New("breakdown source not found")
	ErrInvalidStatus  = errors.New("invalid breakdown status transition")
	ErrAmountMismatch = errors.New("breakdown total does not match entry amount")
)

// ValidateTransition enforces the source status machine.
func ValidateTransition(from, to Status) error {
	ok := false

	switch from {
	case StatusUploaded:
		ok = to == StatusMatched
	case StatusMatched:
		ok = to == StatusSplit || to == StatusError
	}

	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, from, to)
	}

	return nil
}

// Source is one composite payment advice: a single bank debit that bundles
// several underlying payments. TotalAmount is the positive advice total in
// cents; the matched ledger entry carries the negated amount.
type Source struct {
	ID              uuid.UUID
	CaseID          uuid.UUID
	ReferenceNumber string
	ExecutionDate   time.Time
	TotalAmount     int64
	SourceFileName  string

	MatchedEntryID *uuid.UUID
	Status         Status
	ErrorMessage   string
	SplitAt        *time.Time

	Items []*Item

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Item is one underlying payment inside an advice. Amount is positive cents.
type Item struct {
	ID             uuid.UUID
	SourceID       uuid.UUID
	Index          int
	RecipientName  string
	RecipientIBAN  string
	Amount         int64
	Purpose        string
	CreatedEntryID *uuid.UUID
}

// ItemSum returns the cent sum over the source's items.
func (s *Source) ItemSum() int64 {
	var sum int64
	for _, it := range s.Items {
		sum += it.Amount
	}

	return sum
}
