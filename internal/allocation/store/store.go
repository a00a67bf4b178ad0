package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dp-213/insoledger/internal/allocation"
	"github.com/dp-213/insoledger/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var ErrCaseNotFound = fmt.Errorf("case config not found")

// CaseConfig assembles the classifier inputs: cutover date, program
// installments, tag mappings and settler conventions.
func (s *Store) CaseConfig(ctx context.Context, caseID uuid.UUID) (*allocation.Config, error) {
	var cfg allocation.Config

	if err := s.db.QueryRowContext(ctx,
		"SELECT cutover_date FROM case_config WHERE case_id = $1", caseID,
	).Scan(&cfg.CutoverDate); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCaseNotFound
		}

		return nil, fmt.Errorf("loading case config: %w", err)
	}

	installments, err := s.programInstallments(ctx, caseID)
	if err != nil {
		return nil, err
	}

	cfg.Programs = allocation.BuildProgramTable(installments, cfg.CutoverDate)

	cfg.Tags = make(map[string]ledger.EstateBucket)

	rows, err := s.db.QueryContext(ctx,
		"SELECT tag, bucket FROM category_tag_rules WHERE case_id = $1", caseID)
	if err != nil {
		return nil, fmt.Errorf("loading tag rules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tag, bucket string
		if err := rows.Scan(&tag, &bucket); err != nil {
			return nil, fmt.Errorf("scanning tag rule: %w", err)
		}

		cfg.Tags[tag] = ledger.EstateBucket(bucket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag rules: %w", err)
	}

	cfg.PriorMonthSettlers = make(map[string]bool)

	settlerRows, err := s.db.QueryContext(ctx,
		"SELECT settler_key FROM settler_conventions WHERE case_id = $1 AND convention = 'PRIOR_MONTH'", caseID)
	if err != nil {
		return nil, fmt.Errorf("loading settler conventions: %w", err)
	}
	defer settlerRows.Close()

	for settlerRows.Next() {
		var key string
		if err := settlerRows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning settler convention: %w", err)
		}

		cfg.PriorMonthSettlers[key] = true
	}

	if err := settlerRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating settler conventions: %w", err)
	}

	return &cfg, nil
}

func (s *Store) programInstallments(ctx context.Context, caseID uuid.UUID) ([]allocation.ProgramInstallment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT program_key, service_start, service_end FROM program_installments WHERE case_id = $1", caseID)
	if err != nil {
		return nil, fmt.Errorf("loading program installments: %w", err)
	}
	defer rows.Close()

	var installments []allocation.ProgramInstallment

	for rows.Next() {
		var inst allocation.ProgramInstallment
		if err := rows.Scan(&inst.Key, &inst.ServiceStart, &inst.ServiceEnd); err != nil {
			return nil, fmt.Errorf("scanning program installment: %w", err)
		}

		installments = append(installments, inst)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating program installments: %w", err)
	}

	return installments, nil
}

// ListEntries returns active entries (split parents excluded), optionally
// restricted to the given IDs.
func (s *Store) ListEntries(ctx context.Context, caseID uuid.UUID, entryIDs []uuid.UUID) ([]*ledger.Entry, error) {
	query := `
		SELECT e.id, e.case_id, e.amount_cents, e.date, e.description, e.value_type,
			e.bucket, e.ratio, e.allocation_source, e.allocation_note,
			e.parent_entry_id, e.review_status,
			e.service_date, e.service_period_start, e.service_period_end,
			e.category_tag, e.settler_key, e.program_period
		FROM ledger_entries e
		WHERE e.case_id = $1 AND e.split_at IS NULL
	`

	args := []any{caseID}

	if len(entryIDs) > 0 {
		placeholders := make([]string, len(entryIDs))
		for i, id := range entryIDs {
			placeholders[i] = fmt.Sprintf("$%d", i+2)

			args = append(args, id)
		}

		query += " AND e.id IN (" + strings.Join(placeholders, ", ") + ")"
	}

	query += " ORDER BY e.date ASC, e.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry

	for rows.Next() {
		var e ledger.Entry

		var (
			valueType, reviewStatus                string
			bucket, ratio, allocSource, allocNote  sql.NullString
			categoryTag, settlerKey, programPeriod sql.NullString
		)

		if err := rows.Scan(
			&e.ID, &e.CaseID, &e.Amount, &e.Date, &e.Description, &valueType,
			&bucket, &ratio, &allocSource, &allocNote,
			&e.ParentID, &reviewStatus,
			&e.ServiceDate, &e.ServicePeriodStart, &e.ServicePeriodEnd,
			&categoryTag, &settlerKey, &programPeriod,
		); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		e.ValueType = ledger.ValueType(valueType)
		e.ReviewStatus = ledger.ReviewStatus(reviewStatus)
		e.AllocationSource = ledger.AllocationSource(allocSource.String)
		e.AllocationNote = allocNote.String
		e.CategoryTag = categoryTag.String
		e.SettlerKey = settlerKey.String
		e.ProgramPeriod = programPeriod.String

		if bucket.Valid {
			b := ledger.EstateBucket(bucket.String)
			e.Bucket = &b
		}

		if ratio.Valid {
			d, err := decimal.NewFromString(ratio.String)
			if err != nil {
				return nil, fmt.Errorf("parsing ratio %q: %w", ratio.String, err)
			}

			e.Ratio = &d
		}

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	return entries, nil
}

// UpdateAllocation writes the allocation fields and the audit row in one
// transaction. Amount and date are deliberately absent from the statement.
func (s *Store) UpdateAllocation(ctx context.Context, e *ledger.Entry, log *ledger.AuditLog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var ratio sql.NullString
	if e.Ratio != nil {
		ratio = sql.NullString{String: e.Ratio.String(), Valid: true}
	}

	var bucket sql.NullString
	if e.Bucket != nil {
		bucket = sql.NullString{String: string(*e.Bucket), Valid: true}
	}

	query := `
		UPDATE ledger_entries
		SET bucket = $1, ratio = $2, allocation_source = $3, allocation_note = $4, updated_at = NOW()
		WHERE id = $5 AND case_id = $6
	`

	res, err := tx.ExecContext(ctx, query,
		bucket, ratio, string(e.AllocationSource), e.AllocationNote, e.ID, e.CaseID)
	if err != nil {
		return fmt.Errorf("updating allocation: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ledger.ErrNotFound
	}

	changes, err := json.Marshal(log.Changes)
	if err != nil {
		return fmt.Errorf("marshaling field changes: %w", err)
	}

	auditQuery := `
		INSERT INTO ledger_audit_log (entry_id, case_id, action, field_changes, reason, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	if err := tx.QueryRowContext(ctx, auditQuery,
		log.EntryID, log.CaseID, log.Action, changes, log.Reason, log.Actor,
	).Scan(&log.ID, &log.Timestamp); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing allocation: %w", err)
	}

	return nil
}

func (s *Store) MarkForecastStale(ctx context.Context, caseID uuid.UUID) error {
	query := `
		INSERT INTO forecast_cache (case_id, payload, stale, generation, computed_at)
		VALUES ($1, NULL, TRUE, 1, NULL)
		ON CONFLICT (case_id) DO UPDATE SET stale = TRUE, generation = forecast_cache.generation + 1
	`

	if _, err := s.db.ExecContext(ctx, query, caseID); err != nil {
		return fmt.Errorf("marking forecast stale: %w", err)
	}

	return nil
}
