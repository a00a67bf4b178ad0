package allocation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dp-213/insoledger/internal/allocation"
	allocationstore "github.com/dp-213/insoledger/internal/allocation/store"
	"github.com/dp-213/insoledger/internal/auth"
	"github.com/dp-213/insoledger/internal/ledger"
)

type Handler struct {
	classifier *allocation.Classifier
}

func NewHandler(classifier *allocation.Classifier) *Handler {
	return &Handler{classifier: classifier}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/classify", h.classify)
	r.Get("/estate-summary", h.estateSummary)
}

func caseID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "caseID"))
}

type classifyRequest struct {
	EntryIDs []uuid.UUID `json:"entry_ids,omitempty"`
}

type classifyResponse struct {
	Processed  int            `json:"processed"`
	Changed    int            `json:"changed"`
	Unresolved int            `json:"unresolved"`
	ByBucket   map[string]int `json:"by_bucket"`
	BySource   map[string]int `json:"by_source"`
}

func (h *Handler) classify(w http.ResponseWriter, r *http.Request) {
	cid, err := caseID(r)
	if err != nil {
		http.Error(w, "invalid case id", http.StatusBadRequest)
		return
	}

	var req classifyRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	report, err := h.classifier.Run(r.Context(), cid, req.EntryIDs, auth.UserFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, allocationstore.ErrCaseNotFound) {
			http.Error(w, "case not configured", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	resp := classifyResponse{
		Processed:  report.Processed,
		Changed:    report.Changed,
		Unresolved: report.Unresolved,
		ByBucket:   make(map[string]int, len(report.ByBucket)),
		BySource:   make(map[string]int, len(report.BySource)),
	}

	for bucket, n := range report.ByBucket {
		resp.ByBucket[string(bucket)] = n
	}

	for source, n := range report.BySource {
		resp.BySource[string(source)] = n
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type summaryResponse struct {
	PreFiling           int64  `json:"pre_filing"`
	PostFiling          int64  `json:"post_filing"`
	Unresolved          int64  `json:"unresolved"`
	Total               int64  `json:"total"`
	PreFilingFormatted  string `json:"pre_filing_formatted"`
	PostFilingFormatted string `json:"post_filing_formatted"`
	UnresolvedFormatted string `json:"unresolved_formatted"`
	TotalFormatted      string `json:"total_formatted"`
}

func (h *Handler) estateSummary(w http.ResponseWriter, r *http.Request) {
	cid, err := caseID(r)
	if err != nil {
		http.Error(w, "invalid case id", http.StatusBadRequest)
		return
	}

	sum, err := h.classifier.EstateSummary(r.Context(), cid)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := summaryResponse{
		PreFiling:           sum.PreFiling,
		PostFiling:          sum.PostFiling,
		Unresolved:          sum.Unresolved,
		Total:               sum.Total,
		PreFilingFormatted:  ledger.FormatCents(sum.PreFiling),
		PostFilingFormatted: ledger.FormatCents(sum.PostFiling),
		UnresolvedFormatted: ledger.FormatCents(sum.Unresolved),
		TotalFormatted:      ledger.FormatCents(sum.Total),
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
