package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront-admin/internal/domain"
)

// Channel is the Postgres NOTIFY channel carrying domain.ChangeEvent payloads.
const Channel = "document_changes"

// Table describes a table holding one row per document variant keyed by (id, draft).
type Table struct {
	Name    string
	Type    string
	Columns []string
}

func (t Table) hasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// MergedView selects one row per document, the draft winning over the
// published variant, plus has_draft/has_published flags.
func (t Table) MergedView() string {
	return fmt.Sprintf(`
SELECT DISTINCT ON (id) %[1]s.*,
       bool_or(draft) OVER w AS has_draft,
       bool_or(NOT draft) OVER w AS has_published
FROM %[1]s
WINDOW w AS (PARTITION BY id)
ORDER BY id, draft DESC
`, t.Name)
}

// Store implements the draft/publish lifecycle shared by all document tables.
type Store struct {
	pool   *pgxpool.Pool
	table  Table
	logger *log.Logger
}

func NewStore(pool *pgxpool.Pool, table Table, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{pool: pool, table: table, logger: logger}
}

func (s *Store) Table() Table {
	return s.table
}

// State reports which variants of a document exist.
func (s *Store) State(ctx context.Context, q pgx.Tx, id string) (domain.DocumentState, error) {
	query := fmt.Sprintf(`
SELECT COALESCE(bool_or(draft), false), COALESCE(bool_or(NOT draft), false)
FROM %s
WHERE id = $1
`, s.table.Name)
	var state domain.DocumentState
	if err := q.QueryRow(ctx, query, domain.BaseID(id)).Scan(&state.HasDraft, &state.HasPublished); err != nil {
		return domain.DocumentState{}, err
	}
	return state, nil
}

// Create inserts an empty draft for a new document id.
func (s *Store) Create(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`INSERT INTO %s (id, draft) VALUES ($1, true)`, s.table.Name)
		if _, err := tx.Exec(ctx, query, id); err != nil {
			return mapWriteErr(err)
		}
		return s.notify(ctx, tx, id, domain.ActionCreate)
	})
}

// SetColumn writes one column of the draft, creating the draft from the
// published variant first when needed.
func (s *Store) SetColumn(ctx context.Context, id, column string, value any) error {
	if !s.table.hasColumn(column) {
		return fmt.Errorf("%w: %s.%s", domain.ErrInvalidField, s.table.Name, column)
	}
	base := domain.BaseID(id)
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := s.ensureDraft(ctx, tx, base); err != nil {
			return err
		}
		query := fmt.Sprintf(`UPDATE %s SET %s = $2, updated_at = now() WHERE id = $1 AND draft = true`, s.table.Name, column)
		if _, err := tx.Exec(ctx, query, base, value); err != nil {
			return mapWriteErr(err)
		}
		return s.notify(ctx, tx, base, domain.ActionEdit)
	})
	if err != nil {
		s.logger.Printf("%s store: edit id=%s column=%s error=%v", s.table.Type, base, column, err)
		return err
	}
	s.logger.Printf("%s store: edit id=%s column=%s", s.table.Type, base, column)
	return nil
}

// SetJSONKey writes one string key inside a jsonb column of the draft.
func (s *Store) SetJSONKey(ctx context.Context, id, column, key, value string) error {
	if !s.table.hasColumn(column) {
		return fmt.Errorf("%w: %s.%s", domain.ErrInvalidField, s.table.Name, column)
	}
	base := domain.BaseID(id)
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if err := s.ensureDraft(ctx, tx, base); err != nil {
			return err
		}
		query := fmt.Sprintf(`
UPDATE %[1]s
SET %[2]s = jsonb_set(COALESCE(%[2]s, '{}'::jsonb), ARRAY[$2::text], to_jsonb($3::text), true),
    updated_at = now()
WHERE id = $1 AND draft = true
`, s.table.Name, column)
		if _, err := tx.Exec(ctx, query, base, key, value); err != nil {
			return err
		}
		return s.notify(ctx, tx, base, domain.ActionEdit)
	})
}

// Publish replaces the published variant with the draft.
func (s *Store) Publish(ctx context.Context, id string) error {
	base := domain.BaseID(id)
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		state, err := s.State(ctx, tx, base)
		if err != nil {
			return err
		}
		if !state.Exists() {
			return domain.ErrNotFound
		}
		if !state.HasDraft {
			return domain.ErrNoDraft
		}
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND draft = false`, s.table.Name), base); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE %s SET draft = false, updated_at = now() WHERE id = $1 AND draft = true`, s.table.Name), base); err != nil {
			return err
		}
		return s.notify(ctx, tx, base, domain.ActionPublish)
	})
	if err != nil {
		s.logger.Printf("%s store: publish id=%s error=%v", s.table.Type, base, err)
		return err
	}
	s.logger.Printf("%s store: published id=%s", s.table.Type, base)
	return nil
}

// Discard drops the draft; a never-published document disappears with it.
func (s *Store) Discard(ctx context.Context, id string) error {
	base := domain.BaseID(id)
	return s.inTx(ctx, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND draft = true`, s.table.Name), base)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			state, err := s.State(ctx, tx, base)
			if err != nil {
				return err
			}
			if !state.Exists() {
				return domain.ErrNotFound
			}
			return domain.ErrNoDraft
		}
		s.logger.Printf("%s store: discarded draft id=%s", s.table.Type, base)
		return s.notify(ctx, tx, base, domain.ActionDiscard)
	})
}

// Delete removes every variant of the document.
func (s *Store) Delete(ctx context.Context, id string) error {
	base := domain.BaseID(id)
	return s.inTx(ctx, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table.Name), base)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		s.logger.Printf("%s store: deleted id=%s", s.table.Type, base)
		return s.notify(ctx, tx, base, domain.ActionDelete)
	})
}

func (s *Store) ensureDraft(ctx context.Context, tx pgx.Tx, id string) error {
	state, err := s.State(ctx, tx, id)
	if err != nil {
		return err
	}
	if !state.Exists() {
		return domain.ErrNotFound
	}
	if state.HasDraft {
		return nil
	}
	cols := strings.Join(s.table.Columns, ", ")
	query := fmt.Sprintf(`
INSERT INTO %[1]s (id, draft, %[2]s, created_at, updated_at)
SELECT id, true, %[2]s, created_at, now()
FROM %[1]s
WHERE id = $1 AND draft = false
`, s.table.Name, cols)
	_, err = tx.Exec(ctx, query, id)
	return err
}

func (s *Store) notify(ctx context.Context, tx pgx.Tx, id, action string) error {
	payload, err := json.Marshal(domain.ChangeEvent{
		DocumentID:   id,
		DocumentType: s.table.Type,
		Action:       action,
	})
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `SELECT pg_notify($1, $2)`, Channel, string(payload))
	return err
}

func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, fn)
}

func mapWriteErr(err error) error {
	switch {
	case IsUniqueViolation(err):
		return domain.ErrAlreadyExists
	case IsForeignKeyViolation(err):
		return fmt.Errorf("%w: unknown reference", domain.ErrInvalidField)
	}
	return err
}

// IsNoRows reports whether err is pgx.ErrNoRows.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
