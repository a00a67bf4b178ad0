package breakdown

import (
	"time"

	"github.com/google/uuid"

	"github.com/dp-213/insoledger/internal/breakdown"
	"github.com/dp-213/insoledger/internal/ledger"
	"github.com/dp-213/insoledger/internal/split"
)

type sourceResponse struct {
	ID              uuid.UUID      `json:"id"`
	CaseID          uuid.UUID      `json:"case_id"`
	ReferenceNumber string         `json:"reference_number"`
	ExecutionDate   time.Time      `json:"execution_date"`
	TotalAmount     int64          `json:"total_amount"`
	TotalFormatted  string         `json:"total_formatted"`
	SourceFileName  string         `json:"source_file_name"`
	MatchedEntryID  *uuid.UUID     `json:"matched_entry_id,omitempty"`
	Status          string         `json:"status"`
	ErrorMessage    string         `json:"error_message,omitempty"`
	SplitAt         *time.Time     `json:"split_at,omitempty"`
	Items           []itemResponse `json:"items"`
	CreatedAt       time.Time      `json:"created_at"`
}

type itemResponse struct {
	ID             uuid.UUID  `json:"id"`
	Index          int        `json:"index"`
	RecipientName  string     `json:"recipient_name"`
	RecipientIBAN  string     `json:"recipient_iban"`
	Amount         int64      `json:"amount"`
	Purpose        string     `json:"purpose,omitempty"`
	CreatedEntryID *uuid.UUID `json:"created_entry_id,omitempty"`
}

func toSourceResponse(s *breakdown.Source) sourceResponse {
	items := make([]itemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, itemResponse{
			ID:             it.ID,
			Index:          it.Index,
			RecipientName:  it.RecipientName,
			RecipientIBAN:  it.RecipientIBAN,
			Amount:         it.Amount,
			Purpose:        it.Purpose,
			CreatedEntryID: it.CreatedEntryID,
		})
	}

	return sourceResponse{
		ID:              s.ID,
		CaseID:          s.CaseID,
		ReferenceNumber: s.ReferenceNumber,
		ExecutionDate:   s.ExecutionDate,
		TotalAmount:     s.TotalAmount,
		TotalFormatted:  ledger.FormatCents(s.TotalAmount),
		SourceFileName:  s.SourceFileName,
		MatchedEntryID:  s.MatchedEntryID,
		Status:          string(s.Status),
		ErrorMessage:    s.ErrorMessage,
		SplitAt:         s.SplitAt,
		Items:           items,
		CreatedAt:       s.CreatedAt,
	}
}

func toSourceList(sources []*breakdown.Source) []sourceResponse {
	list := make([]sourceResponse, 0, len(sources))
	for _, s := range sources {
		list = append(list, toSourceResponse(s))
	}

	return list
}

type rejectedResponse struct {
	Index           int    `json:"index"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	Reason          string `json:"reason"`
}

type uploadResponse struct {
	Created  int                `json:"created"`
	Rejected []rejectedResponse `json:"rejected"`
	Sources  []sourceResponse   `json:"sources"`
}

func toUploadResponse(r *breakdown.UploadResult) uploadResponse {
	rejected := make([]rejectedResponse, 0, len(r.Rejected))
	for _, rej := range r.Rejected {
		rejected = append(rejected, rejectedResponse{
			Index:           rej.Index,
			ReferenceNumber: rej.ReferenceNumber,
			Reason:          rej.Reason,
		})
	}

	return uploadResponse{
		Created:  r.Created,
		Rejected: rejected,
		Sources:  toSourceList(r.Sources),
	}
}

type sourceResultResponse struct {
	SourceID        uuid.UUID `json:"source_id"`
	ReferenceNumber string    `json:"reference_number"`
	Outcome         string    `json:"outcome"`
	ChildrenCreated int       `json:"children_created"`
	Reason          string    `json:"reason,omitempty"`
}

type reportResponse struct {
	DryRun          bool                   `json:"dry_run"`
	Processed       int                    `json:"processed"`
	ChildrenCreated int                    `json:"children_created"`
	Skipped         int                    `json:"skipped"`
	Results         []sourceResultResponse `json:"results"`
	Errors          []string               `json:"errors,omitempty"`
	Invariant       invariantResponse      `json:"invariant"`
}

type invariantResponse struct {
	ActiveSum int64  `json:"active_sum"`
	RootSum   int64  `json:"root_sum"`
	OK        bool   `json:"ok"`
	Detail    string `json:"detail,omitempty"`
}

func toReportResponse(r *split.Report) reportResponse {
	results := make([]sourceResultResponse, 0, len(r.Results))
	for _, res := range r.Results {
		results = append(results, sourceResultResponse{
			SourceID:        res.SourceID,
			ReferenceNumber: res.ReferenceNumber,
			Outcome:         string(res.Outcome),
			ChildrenCreated: res.ChildrenCreated,
			Reason:          res.Reason,
		})
	}

	return reportResponse{
		DryRun:          r.DryRun,
		Processed:       r.Processed,
		ChildrenCreated: r.ChildrenCreated,
		Skipped:         r.Skipped,
		Results:         results,
		Errors:          r.Errors,
		Invariant: invariantResponse{
			ActiveSum: r.Invariant.ActiveSum,
			RootSum:   r.Invariant.RootSum,
			OK:        r.Invariant.OK,
			Detail:    r.Invariant.Detail,
		},
	}
}
