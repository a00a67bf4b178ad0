package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dp-213/insoledger/internal/forecast"
	"github.com/dp-213/insoledger/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Plan(ctx context.Context, caseID uuid.UUID) (*forecast.Plan, error) {
	query := `
		SELECT case_id, cutover_date, opening_balance_cents, plan_start, period_type, period_count
		FROM case_config
		WHERE case_id = $1
	`

	var plan forecast.Plan

	var periodType string

	if err := s.db.QueryRowContext(ctx, query, caseID).Scan(
		&plan.CaseID, &plan.CutoverDate, &plan.OpeningBalance, &plan.PlanStart, &periodType, &plan.PeriodCount,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, forecast.ErrNoPlan
		}

		return nil, fmt.Errorf("loading plan: %w", err)
	}

	plan.PeriodType = forecast.PeriodType(periodType)

	return &plan, nil
}

// ListEntries returns active, non-rejected entries with only the fields
// the composer needs. The second return is the number of unreviewed
// entries held back when includeUnreviewed is false.
func (s *Store) ListEntries(ctx context.Context, caseID uuid.UUID, includeUnreviewed bool) ([]*ledger.Entry, int, error) {
	query := `
		SELECT e.amount_cents, e.date, e.value_type, e.review_status
		FROM ledger_entries e
		WHERE e.case_id = $1 AND e.split_at IS NULL AND e.review_status != $2
		ORDER BY e.date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, caseID, ledger.ReviewRejected)
	if err != nil {
		return nil, 0, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var (
		entries    []*ledger.Entry
		unreviewed int
	)

	for rows.Next() {
		var e ledger.Entry

		var valueType, reviewStatus string

		if err := rows.Scan(&e.Amount, &e.Date, &valueType, &reviewStatus); err != nil {
			return nil, 0, fmt.Errorf("scanning entry: %w", err)
		}

		e.ValueType = ledger.ValueType(valueType)
		e.ReviewStatus = ledger.ReviewStatus(reviewStatus)

		if e.ReviewStatus == ledger.ReviewUnreviewed && !includeUnreviewed {
			unreviewed++

			continue
		}

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating entries: %w", err)
	}

	return entries, unreviewed, nil
}

func (s *Store) ListAssumptions(ctx context.Context, caseID uuid.UUID) ([]*forecast.Assumption, error) {
	query := `
		SELECT id, case_id, category, flow, kind, amount_cents, growth_percent, start_period, end_period, active
		FROM forecast_assumptions
		WHERE case_id = $1
		ORDER BY start_period ASC, category ASC
	`

	rows, err := s.db.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("listing assumptions: %w", err)
	}
	defer rows.Close()

	var assumptions []*forecast.Assumption

	for rows.Next() {
		var a forecast.Assumption

		var flow, kind string

		if err := rows.Scan(
			&a.ID, &a.CaseID, &a.Category, &flow, &kind, &a.Amount,
			&a.GrowthPercent, &a.StartPeriod, &a.EndPeriod, &a.Active,
		); err != nil {
			return nil, fmt.Errorf("scanning assumption: %w", err)
		}

		a.Flow = forecast.Flow(flow)
		a.Kind = forecast.AssumptionKind(kind)

		assumptions = append(assumptions, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assumptions: %w", err)
	}

	return assumptions, nil
}

func (s *Store) CachedResult(ctx context.Context, caseID uuid.UUID) (*forecast.Result, bool, int64, error) {
	query := `SELECT payload, stale, generation FROM forecast_cache WHERE case_id = $1`

	var (
		payload    []byte
		stale      bool
		generation int64
	)

	if err := s.db.QueryRowContext(ctx, query, caseID).Scan(&payload, &stale, &generation); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, 0, nil
		}

		return nil, false, 0, fmt.Errorf("reading forecast cache: %w", err)
	}

	if len(payload) == 0 {
		return nil, stale, generation, nil
	}

	var result forecast.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, 0, fmt.Errorf("unmarshaling cached forecast: %w", err)
	}

	return &result, stale, generation, nil
}

// SaveResult stores the composition and clears the stale flag, but only
// while the generation still matches the one the composition started
// from. A mutation that bumped the generation mid-compose keeps the row
// stale so the next read recomputes.
func (s *Store) SaveResult(ctx context.Context, caseID uuid.UUID, result *forecast.Result, generation int64) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling forecast: %w", err)
	}

	query := `
		INSERT INTO forecast_cache (case_id, payload, stale, generation, computed_at)
		VALUES ($1, $2, FALSE, $3, $4)
		ON CONFLICT (case_id) DO UPDATE SET payload = $2, stale = FALSE, computed_at = $4
		WHERE forecast_cache.generation = $3
	`

	if _, err := s.db.ExecContext(ctx, query, caseID, payload, generation, time.Now()); err != nil {
		return fmt.Errorf("writing forecast cache: %w", err)
	}

	return nil
}
