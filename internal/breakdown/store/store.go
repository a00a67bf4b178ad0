package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dp-213/insoledger/internal/breakdown"
	"github.com/dp-213/insoledger/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectSourceColumns = `
	s.id, s.case_id, s.reference_number, s.execution_date, s.total_amount_cents,
	s.source_file_name, s.matched_entry_id, s.status, s.error_message, s.split_at,
	s.created_at, s.updated_at
`

func scanSource(sc scanner) (*breakdown.Source, error) {
	var src breakdown.Source

	var (
		status   string
		errMsg   sql.NullString
		fileName sql.NullString
	)

	if err := sc.Scan(
		&src.ID, &src.CaseID, &src.ReferenceNumber, &src.ExecutionDate, &src.TotalAmount,
		&fileName, &src.MatchedEntryID, &status, &errMsg, &src.SplitAt,
		&src.CreatedAt, &src.UpdatedAt,
	); err != nil {
		return nil, err
	}

	src.SourceFileName = fileName.String
	src.Status = breakdown.Status(status)
	src.ErrorMessage = errMsg.String

	return &src, nil
}

func (s *Store) CreateSources(ctx context.Context, sources []*breakdown.Source) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	insertSource := `
		INSERT INTO breakdown_sources (case_id, reference_number, execution_date, total_amount_cents, source_file_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	insertItem := `
		INSERT INTO breakdown_items (source_id, item_index, recipient_name, recipient_iban, amount_cents, purpose)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	for _, src := range sources {
		if err := tx.QueryRowContext(ctx, insertSource,
			src.CaseID, src.ReferenceNumber, src.ExecutionDate, src.TotalAmount,
			src.SourceFileName, src.Status,
		).Scan(&src.ID, &src.CreatedAt); err != nil {
			return fmt.Errorf("creating source %s: %w", src.ReferenceNumber, err)
		}

		for _, it := range src.Items {
			it.SourceID = src.ID

			if err := tx.QueryRowContext(ctx, insertItem,
				src.ID, it.Index, it.RecipientName, it.RecipientIBAN, it.Amount, it.Purpose,
			).Scan(&it.ID); err != nil {
				return fmt.Errorf("creating item %d of %s: %w", it.Index, src.ReferenceNumber, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sources: %w", err)
	}

	return nil
}

func (s *Store) GetSource(ctx context.Context, caseID, id uuid.UUID) (*breakdown.Source, error) {
	query := `SELECT ` + selectSourceColumns + ` FROM breakdown_sources s WHERE s.case_id = $1 AND s.id = $2`

	src, err := scanSource(s.db.QueryRowContext(ctx, query, caseID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, breakdown.ErrNotFound
		}

		return nil, fmt.Errorf("getting source: %w", err)
	}

	if err := s.loadItems(ctx, src); err != nil {
		return nil, err
	}

	return src, nil
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

func (s *Store) ListSources(ctx context.Context, caseID uuid.UUID, status *breakdown.Status) ([]*breakdown.Source, error) {
	query := `SELECT ` + selectSourceColumns + ` FROM breakdown_sources s WHERE s.case_id = $1`
	args := []any{caseID}

	if status != nil {
		query += " AND s.status = $2"

		args = append(args, *status)
	}

	query += " ORDER BY s.execution_date ASC, s.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var sources []*breakdown.Source

	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}

		sources = append(sources, src)
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

func (s *Store) SetMatched(ctx context.Context, source *breakdown.Source) error {
	query := `
		UPDATE breakdown_sources
		SET matched_entry_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND case_id = $4 AND status = $5
	`

	res, err := s.db.ExecContext(ctx, query,
		source.MatchedEntryID, source.Status, source.ID, source.CaseID, breakdown.StatusUploaded,
	)
	if err != nil {
		return fmt.Errorf("matching source: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return breakdown.ErrNotFound
	}

	return nil
}

func (s *Store) GetLedgerEntry(ctx context.Context, caseID, id uuid.UUID) (*ledger.Entry, error) {
	query := `
		SELECT e.id, e.case_id, e.amount_cents, e.date, e.description, e.parent_entry_id, e.split_at
		FROM ledger_entries e
		WHERE e.case_id = $1 AND e.id = $2
	`

	var e ledger.Entry
	if err := s.db.QueryRowContext(ctx, query, caseID, id).Scan(
		&e.ID, &e.CaseID, &e.Amount, &e.Date, &e.Description, &e.ParentID, &e.SplitAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting entry: %w", err)
	}

	return &e, nil
}
