package ledgerentry

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dp-213/insoledger/internal/ledger"
)

type entryResponse struct {
	ID              uuid.UUID `json:"id"`
	CaseID          uuid.UUID `json:"case_id"`
	Amount          int64     `json:"amount"`
	AmountFormatted string    `json:"amount_formatted"`
	Date            time.Time `json:"date"`
	Description     string    `json:"description"`
	ValueType       string    `json:"value_type"`

	Bucket           string `json:"bucket,omitempty"`
	Ratio            string `json:"ratio,omitempty"`
	AllocationSource string `json:"allocation_source,omitempty"`
	AllocationNote   string `json:"allocation_note,omitempty"`

	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	SplitReason string     `json:"split_reason,omitempty"`
	SplitAt     *time.Time `json:"split_at,omitempty"`

	ReviewStatus string     `json:"review_status"`
	ReviewedBy   string     `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ReviewNote   string     `json:"review_note,omitempty"`

	ServiceDate        *time.Time `json:"service_date,omitempty"`
	ServicePeriodStart *time.Time `json:"service_period_start,omitempty"`
	ServicePeriodEnd   *time.Time `json:"service_period_end,omitempty"`
	CategoryTag        string     `json:"category_tag,omitempty"`
	SettlerKey         string     `json:"settler_key,omitempty"`
	ProgramPeriod      string     `json:"program_period,omitempty"`

	CreatedBy    string     `json:"created_by,omitempty"`
	ImportSource string     `json:"import_source,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func toResponse(e *ledger.Entry) entryResponse {
	resp := entryResponse{
		ID:               e.ID,
		CaseID:           e.CaseID,
		Amount:           e.Amount,
		AmountFormatted:  ledger.FormatCents(e.Amount),
		Date:             e.Date,
		Description:      e.Description,
		ValueType:        string(e.ValueType),
		AllocationSource: string(e.AllocationSource),
		AllocationNote:   e.AllocationNote,
		ParentID:         e.ParentID,
		SplitReason:      e.SplitReason,
		SplitAt:          e.SplitAt,
		ReviewStatus:     string(e.ReviewStatus),
		ReviewedBy:       e.ReviewedBy,
		ReviewedAt:       e.ReviewedAt,
		ReviewNote:       e.ReviewNote,

		ServiceDate:        e.ServiceDate,
		ServicePeriodStart: e.ServicePeriodStart,
		ServicePeriodEnd:   e.ServicePeriodEnd,
		CategoryTag:        e.CategoryTag,
		SettlerKey:         e.SettlerKey,
		ProgramPeriod:      e.ProgramPeriod,

		CreatedBy:    e.CreatedBy,
		ImportSource: e.ImportSource,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}

	if e.Bucket != nil {
		resp.Bucket = string(*e.Bucket)
	}

	if e.Ratio != nil {
		resp.Ratio = e.Ratio.String()
	}

	return resp
}

func toResponseList(entries []*ledger.Entry) []entryResponse {
	list := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		list = append(list, toResponse(e))
	}

	return list
}

type auditResponse struct {
	ID        uuid.UUID                     `json:"id"`
	EntryID   uuid.UUID                     `json:"entry_id,omitempty"`
	CaseID    uuid.UUID                     `json:"case_id"`
	Action    string                        `json:"action"`
	Changes   map[string]ledger.FieldChange `json:"changes,omitempty"`
	Reason    string                        `json:"reason,omitempty"`
	Actor     string                        `json:"actor"`
	Timestamp time.Time                     `json:"timestamp"`
}

func toAuditList(logs []*ledger.AuditLog) []auditResponse {
	list := make([]auditResponse, 0, len(logs))
	for _, l := range logs {
		list = append(list, auditResponse{
			ID:        l.ID,
			EntryID:   l.EntryID,
			CaseID:    l.CaseID,
			Action:    string(l.Action),
			Changes:   l.Changes,
			Reason:    l.Reason,
			Actor:     l.Actor,
			Timestamp: l.Timestamp,
		})
	}

	return list
}

func (a *allocationRequest) toAllocation() (*ledger.Allocation, error) {
	alloc := &ledger.Allocation{
		Bucket: a.Bucket,
		Note:   a.Note,
	}

	if a.Ratio != nil {
		ratio, err := decimal.NewFromString(*a.Ratio)
		if err != nil {
			return nil, err
		}

		alloc.Ratio = &ratio
	}

	return alloc, nil
}
