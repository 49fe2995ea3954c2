package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	// postgres driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"max.ks1230/income-planner/internal/entity/document"
)

const dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=disable"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type config interface {
	Host() string
	Username() string
	Password() string
	Database() string
}

// PostgresStorage keeps one row per owner and document key, so writing one key never touches another.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &PostgresStorage{db}, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

func (s *PostgresStorage) GetDocument(ctx context.Context, ownerID, key string) (document.Document, bool, error) {
	query := psql.Select("value", "updated_at").
		From("documents").
		Where(sq.Eq{"owner_id": ownerID, "key": key})

	var res document.Document
	var raw []byte
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&raw, &res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return document.Document{}, false, nil
	}
	if err != nil {
		return document.Document{}, false, errors.Wrap(err, "get document")
	}
	res.Value = raw
	return res, true, nil
}

func (s *PostgresStorage) SaveDocument(ctx context.Context, ownerID, key string, doc document.Document) error {
	query := psql.Insert("documents").
		Columns("owner_id", "key", "value", "updated_at").
		Values(ownerID, key, []byte(doc.Value), doc.UpdatedAt).
		Suffix("ON CONFLICT(owner_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at")

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "save document")
}
