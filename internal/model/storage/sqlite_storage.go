package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	// pure Go sqlite driver
	_ "modernc.org/sqlite"
	"max.ks1230/income-planner/internal/entity/document"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	owner_id   TEXT    NOT NULL,
	key        TEXT    NOT NULL,
	value      BLOB    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (owner_id, key)
)`

// SQLiteStorage is the on-device working copy. It has the same shape as the remote
// storage, so it also serves as a single-device backend when no database is configured.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create replica directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open replica")
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrate replica")
	}
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) GetDocument(ctx context.Context, ownerID, key string) (document.Document, bool, error) {
	query := sq.Select("value", "updated_at").
		From("documents").
		Where(sq.Eq{"owner_id": ownerID, "key": key})

	var raw []byte
	var updatedAt int64
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&raw, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return document.Document{}, false, nil
	}
	if err != nil {
		return document.Document{}, false, errors.Wrap(err, "get replica document")
	}
	return document.Document{
		Value:     raw,
		UpdatedAt: time.Unix(0, updatedAt).UTC(),
	}, true, nil
}

func (s *SQLiteStorage) SaveDocument(ctx context.Context, ownerID, key string, doc document.Document) error {
	query := sq.Insert("documents").
		Columns("owner_id", "key", "value", "updated_at").
		Values(ownerID, key, []byte(doc.Value), doc.UpdatedAt.UnixNano()).
		Suffix("ON CONFLICT(owner_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at")

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "save replica document")
}
