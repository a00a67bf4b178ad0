package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dp-213/insoledger/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectEntryColumns = `
	e.id, e.case_id, e.amount_cents, e.date, e.description, e.value_type,
	e.bucket, e.ratio, e.allocation_source, e.allocation_note,
	e.parent_entry_id, e.split_reason, e.split_at,
	e.review_status, e.reviewed_by, e.reviewed_at, e.review_note,
	e.service_date, e.service_period_start, e.service_period_end,
	e.category_tag, e.settler_key, e.program_period,
	e.created_by, e.import_source, e.created_at, e.updated_at
`

// scanEntry reads an entry row in selectEntryColumns order.
func scanEntry(s scanner) (*ledger.Entry, error) {
	var e ledger.Entry

	var (
		valueType, reviewStatus                           string
		bucket, ratio, allocSource, allocNote             sql.NullString
		splitReason, reviewedBy, reviewNote               sql.NullString
		categoryTag, settlerKey, programPeriod            sql.NullString
		createdBy, importSource                           sql.NullString
		parentID                                          *uuid.UUID
		splitAt, reviewedAt                               *time.Time
		serviceDate, servicePeriodStart, servicePeriodEnd *time.Time
	)

	if err := s.Scan(
		&e.ID, &e.CaseID, &e.Amount, &e.Date, &e.Description, &valueType,
		&bucket, &ratio, &allocSource, &allocNote,
		&parentID, &splitReason, &splitAt,
		&reviewStatus, &reviewedBy, &reviewedAt, &reviewNote,
		&serviceDate, &servicePeriodStart, &servicePeriodEnd,
		&categoryTag, &settlerKey, &programPeriod,
		&createdBy, &importSource, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.ValueType = ledger.ValueType(valueType)
	e.ReviewStatus = ledger.ReviewStatus(reviewStatus)
	e.ParentID = parentID
	e.SplitAt = splitAt
	e.SplitReason = splitReason.String
	e.ReviewedBy = reviewedBy.String
	e.ReviewedAt = reviewedAt
	e.ReviewNote = reviewNote.String
	e.ServiceDate = serviceDate
	e.ServicePeriodStart = servicePeriodStart
	e.ServicePeriodEnd = servicePeriodEnd
	e.CategoryTag = categoryTag.String
	e.SettlerKey = settlerKey.String
	e.ProgramPeriod = programPeriod.String
	e.CreatedBy = createdBy.String
	e.ImportSource = importSource.String
	e.AllocationSource = ledger.AllocationSource(allocSource.String)
	e.AllocationNote = allocNote.String

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

	return &e, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullRatio(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: d.String(), Valid: true}
}

func nullBucket(b *ledger.EstateBucket) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: string(*b), Valid: true}
}

const insertEntryQuery = `
	INSERT INTO ledger_entries (
		case_id, amount_cents, date, description, value_type,
		bucket, ratio, allocation_source, allocation_note,
		parent_entry_id, split_reason,
		review_status,
		service_date, service_period_start, service_period_end,
		category_tag, settler_key, program_period,
		created_by, import_source, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

func insertEntry(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, e *ledger.Entry,
) error {
	return q.QueryRowContext(ctx, insertEntryQuery,
		e.CaseID, e.Amount, e.Date, e.Description, e.ValueType,
		nullBucket(e.Bucket), nullRatio(e.Ratio), nullStr(string(e.AllocationSource)), nullStr(e.AllocationNote),
		e.ParentID, nullStr(e.SplitReason),
		e.ReviewStatus,
		e.ServiceDate, e.ServicePeriodStart, e.ServicePeriodEnd,
		nullStr(e.CategoryTag), nullStr(e.SettlerKey), nullStr(e.ProgramPeriod),
		nullStr(e.CreatedBy), nullStr(e.ImportSource),
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func insertAudit(ctx context.Context, tx *sql.Tx, log *ledger.AuditLog) error {
	changes, err := json.Marshal(log.Changes)
	if err != nil {
		return fmt.Errorf("marshaling field changes: %w", err)
	}

	query := `
		INSERT INTO ledger_audit_log (entry_id, case_id, action, field_changes, reason, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	return tx.QueryRowContext(ctx, query,
		log.EntryID, log.CaseID, log.Action, changes, nullStr(log.Reason), log.Actor,
	).Scan(&log.ID, &log.Timestamp)
}

func (s *Store) CreateEntry(ctx context.Context, e *ledger.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertEntry(ctx, tx, e); err != nil {
		return fmt.Errorf("creating entry: %w", err)
	}

	log := &ledger.AuditLog{
		EntryID: e.ID,
		CaseID:  e.CaseID,
		Action:  ledger.AuditCreated,
		Changes: map[string]ledger.FieldChange{
			"amountCents": {Old: "", New: fmt.Sprintf("%d", e.Amount)},
		},
		Actor: e.CreatedBy,
	}
	if err := insertAudit(ctx, tx, log); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entry: %w", err)
	}

	return nil
}

func (s *Store) GetEntry(ctx context.Context, caseID, id uuid.UUID) (*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM ledger_entries e WHERE e.case_id = $1 AND e.id = $2`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, caseID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting entry: %w", err)
	}

	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, caseID uuid.UUID, filter ledger.ListFilter) ([]*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM ledger_entries e WHERE e.case_id = $1`

	args := []any{caseID}
	argIdx := 2

	if filter.ValueType != nil {
		query += fmt.Sprintf(" AND e.value_type = $%d", argIdx)

		args = append(args, *filter.ValueType)
		argIdx++
	}

	if filter.ReviewStatus != nil {
		query += fmt.Sprintf(" AND e.review_status = $%d", argIdx)

		args = append(args, *filter.ReviewStatus)
		argIdx++
	}

	if filter.Bucket != nil {
		query += fmt.Sprintf(" AND e.bucket = $%d", argIdx)

		args = append(args, *filter.Bucket)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND e.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND e.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.ActiveOnly {
		query += " AND e.split_at IS NULL"
	}

	if filter.RootsOnly {
		query += " AND e.parent_entry_id IS NULL"
	}

	query += " ORDER BY e.date ASC, e.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	return entries, nil
}

func (s *Store) UpdateReview(ctx context.Context, e *ledger.Entry, log *ledger.AuditLog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE ledger_entries
		SET amount_cents = $1, description = $2,
			bucket = $3, ratio = $4, allocation_source = $5, allocation_note = $6,
			review_status = $7, reviewed_by = $8, reviewed_at = $9, review_note = $10,
			updated_at = NOW()
		WHERE id = $11 AND case_id = $12
	`

	res, err := tx.ExecContext(ctx, query,
		e.Amount, e.Description,
		nullBucket(e.Bucket), nullRatio(e.Ratio), nullStr(string(e.AllocationSource)), nullStr(e.AllocationNote),
		e.ReviewStatus, nullStr(e.ReviewedBy), e.ReviewedAt, nullStr(e.ReviewNote),
		e.ID, e.CaseID,
	)
	if err != nil {
		return fmt.Errorf("updating review: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ledger.ErrNotFound
	}

	if err := insertAudit(ctx, tx, log); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing review: %w", err)
	}

	return nil
}

func scanAudit(s scanner) (*ledger.AuditLog, error) {
	var log ledger.AuditLog

	var (
		action  string
		changes []byte
		reason  sql.NullString
	)

	if err := s.Scan(&log.ID, &log.EntryID, &log.CaseID, &action, &changes, &reason, &log.Actor, &log.Timestamp); err != nil {
		return nil, err
	}

	log.Action = ledger.AuditAction(action)
	log.Reason = reason.String

	if len(changes) > 0 {
		if err := json.Unmarshal(changes, &log.Changes); err != nil {
			return nil, fmt.Errorf("unmarshaling field changes: %w", err)
		}
	}

	return &log, nil
}

const selectAuditColumns = `a.id, a.entry_id, a.case_id, a.action, a.field_changes, a.reason, a.actor, a.created_at`

func (s *Store) EntryAuditLog(ctx context.Context, entryID uuid.UUID) ([]*ledger.AuditLog, error) {
	query := `SELECT ` + selectAuditColumns + `
		FROM ledger_audit_log a
		WHERE a.entry_id = $1
		ORDER BY a.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("listing entry audit log: %w", err)
	}
	defer rows.Close()

	return collectAudit(rows)
}

func (s *Store) CaseAuditLog(ctx context.Context, caseID uuid.UUID, filter ledger.AuditFilter) ([]*ledger.AuditLog, int, error) {
	where := " WHERE a.case_id = $1"
	args := []any{caseID}
	argIdx := 2

	if filter.Action != nil {
		where += fmt.Sprintf(" AND a.action = $%d", argIdx)

		args = append(args, *filter.Action)
		argIdx++
	}

	if filter.From != nil {
		where += fmt.Sprintf(" AND a.created_at >= $%d", argIdx)

		args = append(args, *filter.From)
		argIdx++
	}

	if filter.To != nil {
		where += fmt.Sprintf(" AND a.created_at <= $%d", argIdx)

		args = append(args, *filter.To)
		argIdx++
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ledger_audit_log a"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting audit log: %w", err)
	}

	query := `SELECT ` + selectAuditColumns + ` FROM ledger_audit_log a` + where +
		fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing case audit log: %w", err)
	}
	defer rows.Close()

	logs, err := collectAudit(rows)
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func collectAudit(rows *sql.Rows) ([]*ledger.AuditLog, error) {
	var logs []*ledger.AuditLog

	for rows.Next() {
		log, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning audit log: %w", err)
		}

		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit log: %w", err)
	}

	return logs, nil
}

// conservationQuery computes both sides of the money-conservation
// invariant in one round trip: entries with no children vs. roots.
const conservationQuery = `
	SELECT
		COALESCE(SUM(amount_cents) FILTER (WHERE NOT EXISTS (
			SELECT 1 FROM ledger_entries c WHERE c.parent_entry_id = e.id
		)), 0),
		COALESCE(SUM(amount_cents) FILTER (WHERE e.parent_entry_id IS NULL), 0)
	FROM ledger_entries e
	WHERE e.case_id = $1
`

func (s *Store) ConservationSums(ctx context.Context, caseID uuid.UUID) (int64, int64, error) {
	var active, roots int64
	if err := s.db.QueryRowContext(ctx, conservationQuery, caseID).Scan(&active, &roots); err != nil {
		return 0, 0, fmt.Errorf("computing conservation sums: %w", err)
	}

	return active, roots, nil
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
