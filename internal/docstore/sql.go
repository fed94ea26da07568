package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Dialect holds the statements that differ between SQL engines.
type Dialect struct {
	Name      string
	Schema    string
	Upsert    string // args: path, data
	LockRow   string // args: path; selects data for a read-modify-write
	UpdateRow string // args: data, path
}

var MySQLDialect = Dialect{
	Name: "mysql",
	Schema: `CREATE TABLE IF NOT EXISTS documents (
		path       VARCHAR(768) NOT NULL PRIMARY KEY,
		data       JSON         NOT NULL,
		updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
	) CHARACTER SET utf8mb4`,
	Upsert: `INSERT INTO documents (path, data) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = CURRENT_TIMESTAMP`,
	LockRow:   `SELECT data FROM documents WHERE path = ? FOR UPDATE`,
	UpdateRow: `UPDATE documents SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE path = ?`,
}

// SQLite has no row locks; the single-connection pool and the write
// transaction serialise updates instead.
var SQLiteDialect = Dialect{
	Name: "sqlite",
	Schema: `CREATE TABLE IF NOT EXISTS documents (
		path       TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	Upsert: `INSERT INTO documents (path, data) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
	LockRow:   `SELECT data FROM documents WHERE path = ?`,
	UpdateRow: `UPDATE documents SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE path = ?`,
}

const (
	qSelectDoc = `SELECT data FROM documents WHERE path = ?`
	qDeleteDoc = `DELETE FROM documents WHERE path = ?`
)

// SQLStore keeps documents as JSON in a single "documents" table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQL(db *sql.DB, d Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: d}
}

func NewMySQL(db *sql.DB) *SQLStore  { return NewSQL(db, MySQLDialect) }
func NewSQLite(db *sql.DB) *SQLStore { return NewSQL(db, SQLiteDialect) }

// Migrate creates the documents table when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Schema); err != nil {
		return fmt.Errorf("%s schema: %w", s.dialect.Name, err)
	}
	return nil
}

func (s *SQLStore) Set(ctx context.Context, ref Ref, data Data) error {
	if ref.IsZero() {
		return ErrInvalidRef
	}
	raw, err := encode(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}
	_, err = s.db.ExecContext(ctx, s.dialect.Upsert, ref.Path(), string(raw))
	return err
}

// Update reads, merges and writes back inside one transaction.
func (s *SQLStore) Update(ctx context.Context, ref Ref, data Data) (err error) {
	if ref.IsZero() {
		return ErrInvalidRef
	}
	if len(data) == 0 {
		return ErrEmptyUpdate
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var raw []byte
	if err = tx.QueryRowContext(ctx, s.dialect.LockRow, ref.Path()).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update %s: %w", ref, ErrNotFound)
		}
		return err
	}
	doc, err := decode(raw)
	if err != nil {
		return fmt.Errorf("decode %s: %w", ref, err)
	}
	merged, err := encode(merge(doc, data))
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}
	_, err = tx.ExecContext(ctx, s.dialect.UpdateRow, string(merged), ref.Path())
	return err
}

func (s *SQLStore) Get(ctx context.Context, ref Ref) (*Snapshot, error) {
	if ref.IsZero() {
		return nil, ErrInvalidRef
	}
	var raw []byte
	if err := s.db.QueryRowContext(ctx, qSelectDoc, ref.Path()).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &Snapshot{Ref: ref}, nil
		}
		return nil, err
	}
	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return &Snapshot{Ref: ref, Exists: true, Data: data}, nil
}

func (s *SQLStore) Delete(ctx context.Context, ref Ref) error {
	if ref.IsZero() {
		return ErrInvalidRef
	}
	_, err := s.db.ExecContext(ctx, qDeleteDoc, ref.Path())
	return err
}

func (s *SQLStore) Close() error { return s.db.Close() }
