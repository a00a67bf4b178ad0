package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dp-213/insoledger/internal/breakdown"
	"github.com/dp-213/insoledger/internal/ledger"
	"github.com/dp-213/insoledger/internal/split"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListSources(ctx context.Context, caseID uuid.UUID, sourceIDs []uuid.UUID) ([]*breakdown.Source, error) {
	query := `
		SELECT s.id, s.case_id, s.reference_number, s.execution_date, s.total_amount_cents,
			s.source_file_name, s.matched_entry_id, s.status, s.error_message, s.split_at,
			s.created_at, s.updated_at
		FROM breakdown_sources s
		WHERE s.case_id = $1
	`

	args := []any{caseID}

	if len(sourceIDs) > 0 {
		placeholders := make([]string, len(sourceIDs))
		for i, id := range sourceIDs {
			placeholders[i] = fmt.Sprintf("$%d", i+2)

			args = append(args, id)
		}

		query += " AND s.id IN (" + strings.Join(placeholders, ", ") + ")"
	}

	query += " ORDER BY s.execution_date ASC, s.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var sources []*breakdown.Source

	for rows.Next() {
		var src breakdown.Source

		var (
			status   string
			errMsg   sql.NullString
			fileName sql.NullString
		)

		if err := rows.Scan(
			&src.ID, &src.CaseID, &src.ReferenceNumber, &src.ExecutionDate, &src.TotalAmount,
			&fileName, &src.MatchedEntryID, &status, &errMsg, &src.SplitAt,
			&src.CreatedAt, &src.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}

		src.SourceFileName = fileName.String
		src.Status = breakdown.Status(status)
		src.ErrorMessage = errMsg.String

		sources = append(sources, &src)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}

	for _, src := range sources {
		if err := s.loadItems(ctx, src); err != nil {
			return nil, err
		}
	}

	return sources, nil
}

func (s *Store) loadItems(ctx context.Context, src *breakdown.Source) error {
	query := `
		SELECT i.id, i.source_id, i.item_index, i.recipient_name, i.recipient_iban, i.amount_cents, i.purpose, i.created_entry_id
		FROM breakdown_items i
		WHERE i.source_id = $1
		ORDER BY i.item_index ASC
	`

	rows, err := s.db.QueryContext(ctx, query, src.ID)
	if err != nil {
		return fmt.Errorf("loading items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it breakdown.Item

		var iban, purpose sql.NullString

		if err := rows.Scan(&it.ID, &it.SourceID, &it.Index, &it.RecipientName, &iban, &it.Amount, &purpose, &it.CreatedEntryID); err != nil {
			return fmt.Errorf("scanning item: %w", err)
		}

		it.RecipientIBAN = iban.String
		it.Purpose = purpose.String

		src.Items = append(src.Items, &it)
	}

	return rows.Err()
}

// splitLockKey derives the advisory lock key that serializes split runs
// for one case.
func splitLockKey(caseID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("split:"))
	h.Write(caseID[:])

	return int64(h.Sum64())
}

type splitTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context, caseID uuid.UUID) (split.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning split tx: %w", err)
	}

	lockKey := splitLockKey(caseID)
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring split lock: %w", err)
	}

	return &splitTx{tx: dbTx}, nil
}

func (stx *splitTx) Commit() error   { return stx.tx.Commit() }
func (stx *splitTx) Rollback() error { return stx.tx.Rollback() }

func (stx *splitTx) GetEntryForUpdate(ctx context.Context, caseID, id uuid.UUID) (*ledger.Entry, error) {
	query := `
		SELECT e.id, e.case_id, e.amount_cents, e.date, e.description, e.value_type,
			e.bucket, e.ratio, e.allocation_source, e.allocation_note,
			e.parent_entry_id, e.split_at
		FROM ledger_entries e
		WHERE e.case_id = $1 AND e.id = $2
		FOR UPDATE
	`

	var e ledger.Entry

	var (
		valueType                             string
		bucket, ratio, allocSource, allocNote sql.NullString
	)

	if err := stx.tx.QueryRowContext(ctx, query, caseID, id).Scan(
		&e.ID, &e.CaseID, &e.Amount, &e.Date, &e.Description, &valueType,
		&bucket, &ratio, &allocSource, &allocNote,
		&e.ParentID, &e.SplitAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("locking entry: %w", err)
	}

	e.ValueType = ledger.ValueType(valueType)
	e.AllocationSource = ledger.AllocationSource(allocSource.String)
	e.AllocationNote = allocNote.String

	if bucket.Valid {
		b := ledger.EstateBucket(bucket.String)
		e.Bucket = &b
	}

	if ratio.Valid {
		d, err := parseRatio(ratio.String)
		if err != nil {
			return nil, err
		}

		e.Ratio = d
	}

	return &e, nil
}

func (stx *splitTx) CountChildren(ctx context.Context, parentID uuid.UUID) (int, error) {
	var n int
	if err := stx.tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ledger_entries WHERE parent_entry_id = $1", parentID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting children: %w", err)
	}

	return n, nil
}

func (stx *splitTx) CreateChild(ctx context.Context, e *ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (
			case_id, amount_cents, date, description, value_type,
			bucket, ratio, allocation_source, allocation_note,
			parent_entry_id, split_reason, review_status,
			created_by, import_source, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING id, created_at
	`

	var ratio sql.NullString
	if e.Ratio != nil {
		ratio = sql.NullString{String: e.Ratio.String(), Valid: true}
	}

	var bucket sql.NullString
	if e.Bucket != nil {
		bucket = sql.NullString{String: string(*e.Bucket), Valid: true}
	}

	if err := stx.tx.QueryRowContext(ctx, query,
		e.CaseID, e.Amount, e.Date, e.Description, e.ValueType,
		bucket, ratio, nullStr(string(e.AllocationSource)), nullStr(e.AllocationNote),
		e.ParentID, nullStr(e.SplitReason), e.ReviewStatus,
		nullStr(e.CreatedBy), nullStr(e.ImportSource),
	).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("inserting child: %w", err)
	}

	return nil
}

func (stx *splitTx) LinkItem(ctx context.Context, itemID, childEntryID uuid.UUID) error {
	if _, err := stx.tx.ExecContext(ctx,
		"UPDATE breakdown_items SET created_entry_id = $1 WHERE id = $2", childEntryID, itemID,
	); err != nil {
		return fmt.Errorf("linking item: %w", err)
	}

	return nil
}

func (stx *splitTx) MarkParentSplit(ctx context.Context, parentID uuid.UUID, reason string, at time.Time) error {
	if _, err := stx.tx.ExecContext(ctx,
		"UPDATE ledger_entries SET split_reason = $1, split_at = $2, updated_at = NOW() WHERE id = $3",
		reason, at, parentID,
	); err != nil {
		return fmt.Errorf("marking parent split: %w", err)
	}

	return nil
}

func (stx *splitTx) MarkSourceSplit(ctx context.Context, sourceID uuid.UUID, at time.Time) error {
	if _, err := stx.tx.ExecContext(ctx,
		"UPDATE breakdown_sources SET status = $1, split_at = $2, updated_at = NOW() WHERE id = $3",
		breakdown.StatusSplit, at, sourceID,
	); err != nil {
		return fmt.Errorf("marking source split: %w", err)
	}

	return nil
}

func (stx *splitTx) InsertAudit(ctx context.Context, log *ledger.AuditLog) error {
	changes, err := marshalChanges(log.Changes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ledger_audit_log (entry_id, case_id, action, field_changes, reason, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	return stx.tx.QueryRowContext(ctx, query,
		log.EntryID, log.CaseID, log.Action, changes, nullStr(log.Reason), log.Actor,
	).Scan(&log.ID, &log.Timestamp)
}

const conservationQuery = `
	SELECT
		COALESCE(SUM(amount_cents) FILTER (WHERE NOT EXISTS (
			SELECT 1 FROM ledger_entries c WHERE c.parent_entry_id = e.id
		)), 0),
		COALESCE(SUM(amount_cents) FILTER (WHERE e.parent_entry_id IS NULL), 0)
	FROM ledger_entries e
	WHERE e.case_id = $1
`

func (stx *splitTx) ConservationSums(ctx context.Context, caseID uuid.UUID) (int64, int64, error) {
	var active, roots int64
	if err := stx.tx.QueryRowContext(ctx, conservationQuery, caseID).Scan(&active, &roots); err != nil {
		return 0, 0, fmt.Errorf("computing conservation sums: %w", err)
	}

	return active, roots, nil
}

func (s *Store) ConservationSums(ctx context.Context, caseID uuid.UUID) (int64, int64, error) {
	var active, roots int64
	if err := s.db.QueryRowContext(ctx, conservationQuery, caseID).Scan(&active, &roots); err != nil {
		return 0, 0, fmt.Errorf("computing conservation sums: %w", err)
	}

	return active, roots, nil
}

func (s *Store) SetSourceError(ctx context.Context, sourceID uuid.UUID, msg string) error {
	query := `
		UPDATE breakdown_sources
		SET status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	if _, err := s.db.ExecContext(ctx, query,
		breakdown.StatusError, msg, sourceID, breakdown.StatusMatched,
	); err != nil {
		return fmt.Errorf("recording source error: %w", err)
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

func nullStr(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func parseRatio(v string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("parsing ratio %q: %w", v, err)
	}

	return &d, nil
}

func marshalChanges(changes map[string]ledger.FieldChange) ([]byte, error) {
	data, err := json.Marshal(changes)
	if err != nil {
		return nil, fmt.Errorf("marshaling field changes: %w", err)
	}

	return data, nil
}
