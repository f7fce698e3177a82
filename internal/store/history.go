// Package store persists analysis, career strategy and interview history in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"fastresume/internal/errors"
)

// DatabaseFile is the history database name inside the data directory.
const DatabaseFile = "fastresume.db"

// fixed width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Kind names one history list.
type Kind string

const (
	KindAnalysis       Kind = "analysis"
	KindCareerStrategy Kind = "career_strategy"
	KindInterview      Kind = "interview"
)

// Kinds lists every history kind.
var Kinds = []Kind{KindAnalysis, KindCareerStrategy, KindInterview}

// ParseKind validates a history kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.NewValidationError(errors.ErrCodeUnknownHistoryKind,
		fmt.Sprintf("unknown history kind %q (valid: analysis, career_strategy, interview)", s), nil)
}

// Record is one saved history item. Payload is the JSON document saved.
type Record struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// HistoryStore is a SQLite-backed history of saved results.
type HistoryStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the history database in dataDir.
func Open(dataDir string) (*HistoryStore, error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed,
			fmt.Sprintf("failed to create data directory %s", dataDir), err)
	}
	return OpenPath(filepath.Join(dataDir, DatabaseFile))
}

// OpenPath opens the history database at path.
func OpenPath(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to open history database", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to initialize history schema", err)
	}
	return &HistoryStore{db: db, now: time.Now}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS history (
		id         TEXT PRIMARY KEY,
		kind       TEXT NOT NULL,
		payload    TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS history_kind_created ON history (kind, created_at)`)
	return err
}

// Close closes the database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Save stores payload as JSON under kind and returns the new record.
func (s *HistoryStore) Save(ctx context.Context, kind Kind, payload any) (Record, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return Record{}, err
	}

	var data []byte
	switch p := payload.(type) {
	case json.RawMessage:
		if !json.Valid(p) {
			return Record{}, errors.NewValidationError(errors.ErrCodeInvalidFormat, "history payload is not valid JSON", nil)
		}
		data = p
	default:
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return Record{}, errors.NewValidationError(errors.ErrCodeInvalidFormat, "history payload cannot be encoded", err)
		}
	}

	rec := Record{
		ID:        uuid.NewString(),
		Kind:      kind,
		Payload:   json.RawMessage(data),
		CreatedAt: s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, kind, payload, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, string(kind), string(data), rec.CreatedAt.Format(timeLayout))
	if err != nil {
		return Record{}, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to save history record", err).
			WithContext("kind", string(kind))
	}
	return rec, nil
}

// List returns up to limit records of kind, newest first. A limit <= 0 returns all.
func (s *HistoryStore) List(ctx context.Context, kind Kind, limit int) ([]Record, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, payload, created_at FROM history
		 WHERE kind = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		string(kind), limit)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to list history", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to read history", err)
	}
	return records, nil
}

// Get returns one record.
func (s *HistoryStore) Get(ctx context.Context, kind Kind, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, payload, created_at FROM history WHERE kind = ? AND id = ?`,
		string(kind), id)
	rec, err := scanRecord(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Record{}, errors.NewNotFoundError(errors.ErrCodeHistoryNotFound,
			fmt.Sprintf("no %s history record %s", kind, id), nil)
	}
	return rec, err
}

// Delete removes one record.
func (s *HistoryStore) Delete(ctx context.Context, kind Kind, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to delete history record", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError(errors.ErrCodeHistoryNotFound,
			fmt.Sprintf("no %s history record %s", kind, id), nil)
	}
	return nil
}

// Clear removes every record of kind and returns how many were removed.
func (s *HistoryStore) Clear(ctx context.Context, kind Kind) (int64, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE kind = ?`, string(kind))
	if err != nil {
		return 0, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to clear history", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec       Record
		kind      string
		payload   string
		createdAt string
	)
	if err := row.Scan(&rec.ID, &kind, &payload, &createdAt); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to scan history record", err)
	}
	rec.Kind = Kind(kind)
	rec.Payload = json.RawMessage(payload)
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Record{}, errors.NewStorageError(errors.ErrCodeStorageFailed, "corrupt history timestamp", err)
	}
	rec.CreatedAt = t
	return rec, nil
}
