package breakdown

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dp-213/insoledger/internal/auth"
	"github.com/dp-213/insoledger/internal/breakdown"
	"github.com/dp-213/insoledger/internal/split"
)

type Handler struct {
	svc    *breakdown.Service
	engine *split.Engine
}

func NewHandler(svc *breakdown.Service, engine *split.Engine) *Handler {
	return &Handler{svc: svc, engine: engine}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/breakdowns", h.upload)
	r.Get("/breakdowns", h.list)
	r.Get("/breakdowns/{id}", h.get)
	r.Post("/breakdowns/{id}/match", h.match)
	r.Post("/breakdowns/split", h.split)
}

func caseID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "caseID"))
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	cid, err := caseID(r)
	if err != nil {
		http.Error(w, "invalid case id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.svc.Upload(r.Context(), cid, header.Filename, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toUploadResponse(result)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cid, err := caseID(r)
	if err != nil {
		http.Error(w, "invalid case id", http.StatusBadRequest)
		return
	}

	var status *breakdown.Status
	if s := r.URL.Query().Get("status"); s != "" {
		st := breakdown.Status(s)
		status = &st
	}

	sources, err := h.svc.List(r.Context(), cid, status)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toSourceList(sources)); err != nil {
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

	src, err := h.svc.Get(r.Context(), cid, id)
	if err != nil {
		if errors.Is(err, breakdown.ErrNotFound) {
			http.Error(w, "breakdown source not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toSourceResponse(src)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type matchRequest struct {
	EntryID uuid.UUID `json:"entry_id"`
}

func (h *Handler) match(w http.ResponseWriter, r *http.Request) {
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

	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	src, err := h.svc.Match(r.Context(), cid, id, req.EntryID)
	if err != nil {
		switch {
		case errors.Is(err, breakdown.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, breakdown.ErrInvalidStatus), errors.Is(err, breakdown.ErrAmountMismatch):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toSourceResponse(src)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type splitRequest struct {
	SourceIDs []uuid.UUID `json:"source_ids,omitempty"`
	DryRun    bool        `json:"dry_run,omitempty"`
}

func (h *Handler) split(w http.ResponseWriter, r *http.Request) {
	cid, err := caseID(r)
	if err != nil {
		http.Error(w, "invalid case id", http.StatusBadRequest)
		return
	}

	var req splitRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	report, err := h.engine.Run(r.Context(), cid, split.Options{
		SourceIDs: req.SourceIDs,
		DryRun:    req.DryRun,
		Actor:     auth.UserFromContext(r.Context()),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toReportResponse(report)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
