package ledgerentry

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dp-213/insoledger/internal/auth"
	"github.com/dp-213/insoledger/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/entries", h.create)
	r.Get("/entries", h.list)
	r.Get("/entries/{id}", h.get)
	r.Patch("/entries/{id}/review", h.review)
	r.Get("/entries/{id}/audit", h.entryAudit)
	r.Get("/audit", h.caseAudit)
	r.Get("/ledger/check", h.check)
}

func caseID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "caseID"))
}

type createEntryRequest struct {
	Amount             int64            `json:"amount"`
	Date               time.Time        `json:"date"`
	Description        string           `json:"description"`
	ValueType          ledger.ValueType `json:"value_type"`
	ServiceDate        *time.Time       `json:"service_date,omitempty"`
	ServicePeriodStart *time.Time       `json:"service_period_start,omitempty"`
	ServicePeriodEnd   *time.Time       `json:"service_period_end,omitempty"`
	CategoryTag        string           `json:"category_tag,omitempty"`
	SettlerKey         string           `json:"settler_key,omitempty"`
	ProgramPeriod      string           `json:"program_period,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	cid, err := caseID(r)
	if err != nil {
		http.Error(w, "invalid case id", http.StatusBadRequest)
		return
	}

	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.svc.Create(r.Context(), ledger.CreateParams{
		CaseID:             cid,
		Amount:             req.Amount,
		Date:               req.Date,
		Description:        req.Description,
		ValueType:          req.ValueType,
		ServiceDate:        req.ServiceDate,
		ServicePeriodStart: req.ServicePeriodStart,
		ServicePeriodEnd:   req.ServicePeriodEnd,
		CategoryTag:        req.CategoryTag,
		SettlerKey:         req.SettlerKey,
		ProgramPeriod:      req.ProgramPeriod,
		Actor:              auth.UserFromContext(r.Context()),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(entry)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cid, err := caseID(r)
	if err != nil {
		http.Error(w, "invalid case id", http.StatusBadRequest)
		return
	}

	filter := ledger.ListFilter{}
	query := r.URL.Query()

	if s := query.Get("value_type"); s != "" {
		vt := ledger.ValueType(s)
		filter.ValueType = &vt
	}

	if s := query.Get("review_status"); s != "" {
		rs := ledger.ReviewStatus(s)
		filter.ReviewStatus = &rs
	}

	if s := query.Get("bucket"); s != "" {
		b := ledger.EstateBucket(s)
		filter.Bucket = &b
	}

	if s := query.Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = &t
		}
	}

	if s := query.Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = &t
		}
	}

	filter.ActiveOnly = query.Get("active_only") == "true"
	filter.RootsOnly = query.Get("roots_only") == "true"

	entries, err := h.svc.List(r.Context(), cid, filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(entries)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	cid, err := caseID(r)
	if err != nil {
		http.Error(w, "invalid case id", http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	entry, err := h.svc.Get(r.Context(), cid, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(entry)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type reviewRequest struct {
	Action      string             `json:"action"` // confirm | adjust | reject
	Reason      string             `json:"reason,omitempty"`
	Description *string            `json:"description,omitempty"`
	Amount      *int64             `json:"amount,omitempty"`
	Allocation  *allocationRequest `json:"allocation,omitempty"`
}

type allocationRequest struct {
	Bucket ledger.EstateBucket `json:"bucket"`
	Ratio  *string             `json:"ratio,omitempty"`
	Note   string              `json:"note"`
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	cid, err := caseID(r)
	if err != nil {
		http.Error(w, "invalid case id", http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	actor := auth.UserFromContext(r.Context())

	var entry *ledger.Entry

	switch req.Action {
	case "confirm":
		entry, err = h.svc.Confirm(r.Context(), cid, id, actor, req.Reason)
	case "adjust":
		params := ledger.AdjustParams{
			Description: req.Description,
			Amount:      req.Amount,
		}

		if req.Allocation != nil {
			alloc, allocErr := req.Allocation.toAllocation()
			if allocErr != nil {
				http.Error(w, allocErr.Error(), http.StatusBadRequest)
				return
			}

			params.Allocation = alloc
		}

		entry, err = h.svc.Adjust(r.Context(), cid, id, actor, req.Reason, params)
	case "reject":
		entry, err = h.svc.Reject(r.Context(), cid, id, actor, req.Reason)
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			http.Error(w, "entry not found", http.StatusNotFound)
		case errors.Is(err, ledger.ErrReasonRequired), errors.Is(err, ledger.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(entry)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) entryAudit(w http.ResponseWriter, r *http.Request) {
	if _, err := caseID(r); err != nil {
		http.Error(w, "invalid case id", http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	logs, err := h.svc.EntryAudit(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toAuditList(logs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) caseAudit(w http.ResponseWriter, r *http.Request) {
	cid, err := caseID(r)
	if err != nil {
		http.Error(w, "invalid case id", http.StatusBadRequest)
		return
	}

	filter := ledger.AuditFilter{}
	query := r.URL.Query()

	if s := query.Get("action"); s != "" {
		a := ledger.AuditAction(s)
		filter.Action = &a
	}

	if s := query.Get("limit"); s != "" {
		if limit, err := strconv.Atoi(s); err == nil {
			filter.Limit = limit
		}
	}

	if s := query.Get("offset"); s != "" {
		if offset, err := strconv.Atoi(s); err == nil {
			filter.Offset = offset
		}
	}

	logs, total, err := h.svc.CaseAudit(r.Context(), cid, filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := struct {
		Total int             `json:"total"`
		Logs  []auditResponse `json:"logs"`
	}{Total: total, Logs: toAuditList(logs)}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	cid, err := caseID(r)
	if err != nil {
		http.Error(w, "invalid case id", http.StatusBadRequest)
		return
	}

	status, err := h.svc.CheckConservation(r.Context(), cid)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := struct {
		ActiveSum int64  `json:"active_sum"`
		RootSum   int64  `json:"root_sum"`
		OK        bool   `json:"ok"`
		Detail    string `json:"detail"`
	}{status.ActiveSum, status.RootSum, status.OK, status.Detail}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
