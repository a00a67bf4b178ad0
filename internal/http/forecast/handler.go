package forecast

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dp-213/insoledger/internal/forecast"
)

type Handler struct {
	composer *forecast.Composer
}

func NewHandler(composer *forecast.Composer) *Handler {
	return &Handler{composer: composer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/forecast", h.get)
}

func caseID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "caseID"))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	cid, err := caseID(r)
	if err != nil {
		http.Error(w, "invalid case id", http.StatusBadRequest)
		return
	}

	include := r.URL.Query().Get("includeUnreviewed")
	opts := forecast.Options{
		IncludeUnreviewed: include == "1" || include == "true",
	}

	result, err := h.composer.Compose(r.Context(), cid, opts)
	if err != nil {
		if errors.Is(err, forecast.ErrNoPlan) {
			http.Error(w, "case has no plan configuration", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(result)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type periodResponse struct {
	Index    int       `json:"index"`
	Label    string    `json:"label"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Opening  int64     `json:"opening"`
	Inflows  int64     `json:"inflows"`
	Outflows int64     `json:"outflows"`
	Net      int64     `json:"net"`
	Closing  int64     `json:"closing"`
	Source   string    `json:"source"`

	ActualInflows     int64 `json:"actual_inflows"`
	ActualOutflows    int64 `json:"actual_outflows"`
	PlannedInflows    int64 `json:"planned_inflows"`
	PlannedOutflows   int64 `json:"planned_outflows"`
	ProjectedInflows  int64 `json:"projected_inflows"`
	ProjectedOutflows int64 `json:"projected_outflows"`
}

type resultResponse struct {
	CaseID             uuid.UUID        `json:"case_id"`
	OpeningBalance     int64            `json:"opening_balance"`
	TodayPeriod        int              `json:"today_period"`
	ExcludedUnreviewed int              `json:"excluded_unreviewed"`
	Periods            []periodResponse `json:"periods"`
	ComputedAt         time.Time        `json:"computed_at"`
}

func toResponse(r *forecast.Result) resultResponse {
	periods := make([]periodResponse, 0, len(r.Periods))
	for _, p := range r.Periods {
		periods = append(periods, periodResponse{
			Index:    p.Index,
			Label:    p.Label,
			Start:    p.Start,
			End:      p.End,
			Opening:  p.Opening,
			Inflows:  p.Inflows,
			Outflows: p.Outflows,
			Net:      p.Net,
			Closing:  p.Closing,
			Source:   string(p.Source),

			ActualInflows:     p.ActualInflows,
			ActualOutflows:    p.ActualOutflows,
			PlannedInflows:    p.PlannedInflows,
			PlannedOutflows:   p.PlannedOutflows,
			ProjectedInflows:  p.ProjectedInflows,
			ProjectedOutflows: p.ProjectedOutflows,
		})
	}

	return resultResponse{
		CaseID:             r.CaseID,
		OpeningBalance:     r.OpeningBalance,
		TodayPeriod:        r.TodayPeriod,
		ExcludedUnreviewed: r.ExcludedUnreviewed,
		Periods:            periods,
		ComputedAt:         r.ComputedAt,
	}
}
