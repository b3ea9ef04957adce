package session

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type storageRecord struct {
	bun.BaseModel `bun:"table:session_store,alias:ss"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

// BunStorage is a durable Storage backed by a local SQLite database, so a
// session survives process restarts on the same machine.
type BunStorage struct {
	db *bun.DB
}

var _ Storage = (*BunStorage)(nil)

// NewBunStorage opens (and if needed creates) the database at path.
func NewBunStorage(ctx context.Context, path string) (*BunStorage, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+path+"?cache=shared")
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open session database")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*storageRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		_ = db.Close()
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create session_store table")
	}

	return &BunStorage{db: db}, nil
}

// Get implements Storage.
func (s *BunStorage) Get(ctx context.Context, key string) (string, bool, error) {
	rec := &storageRecord{}
	err := s.db.NewSelect().
		Model(rec).
		Where("key = ?", key).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read session key")
	}
	return rec.Value, true, nil
}

// Set implements Storage.
func (s *BunStorage) Set(ctx context.Context, key, value string) error {
	rec := &storageRecord{Key: key, Value: value}
	_, err := s.db.NewInsert().
		Model(rec).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to write session key")
	}
	return nil
}

// Delete implements Storage.
func (s *BunStorage) Delete(ctx context.Context, key string) error {
	_, err := s.db.NewDelete().
		Model((*storageRecord)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete session key")
	}
	return nil
}

// Clear implements Storage.
func (s *BunStorage) Clear(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*storageRecord)(nil)).
		Where("1 = 1").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear session storage")
	}
	return nil
}

// Close releases the underlying database handle.
func (s *BunStorage) Close() error {
	return s.db.Close()
}
