package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"event-checkin/core/database"
	"event-checkin/core/logger"
)

// DatabaseStore keeps blobs in the asset_blobs table alongside the rest of the data.
type DatabaseStore struct {
	db database.IDatabase
}

func NewDatabaseStore(db database.IDatabase) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (s *DatabaseStore) Name() string { return "database" }

func (s *DatabaseStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	query := s.db.Rebind(`
		INSERT INTO asset_blobs (blob_key, content_type, data)
		VALUES (?, ?, ?)
		ON CONFLICT (blob_key) DO UPDATE SET
			content_type = excluded.content_type,
			data = excluded.data
	`)
	if err := s.db.ExecContext(ctx, query, key, contentType, data); err != nil {
		logger.Error("DatabaseStore:Put:Error:", err, "key", key)
		return fmt.Errorf("store blob %s: %w", key, err)
	}
	return nil
}

func (s *DatabaseStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.GetContext(ctx, &data, s.db.Rebind(`SELECT data FROM asset_blobs WHERE blob_key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("DatabaseStore:Get:Error:", err, "key", key)
		return nil, fmt.Errorf("load blob %s: %w", key, err)
	}
	return data, nil
}

func (s *DatabaseStore) Delete(ctx context.Context, key string) error {
	if err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM asset_blobs WHERE blob_key = ?`), key); err != nil {
		logger.Error("DatabaseStore:Delete:Error:", err, "key", key)
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
