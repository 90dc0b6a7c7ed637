package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"event-checkin/core/database"
	"event-checkin/core/logger"
	"event-checkin/modules/asset/entity"
)

type AssetRepositoryInterface interface {
	Replace(ctx context.Context, a *entity.Asset, previousKey string) (bool, error)
	GetBySlot(ctx context.Context, slot entity.Slot) (*entity.Asset, error)
	List(ctx context.Context) ([]entity.Asset, error)
	Delete(ctx context.Context, slot entity.Slot) (string, error)
	DeleteAll(ctx context.Context) ([]string, error)
}

type AssetRepository struct {
	db database.IDatabase
}

func NewAssetRepository(db database.IDatabase) *AssetRepository {
	return &AssetRepository{db: db}
}

// Replace stores a in its slot only if the slot still holds previousKey, or is
// still empty when previousKey is "". It reports false when another writer got
// there first.
func (r *AssetRepository) Replace(ctx context.Context, a *entity.Asset, previousKey string) (bool, error) {
	var (
		query string
		args  []any
	)
	if previousKey == "" {
		query = `
			INSERT INTO event_assets (slot, filename, content_type, size, blob_key, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (slot) DO NOTHING
		`
		args = []any{a.Slot, a.Filename, a.ContentType, a.Size, a.BlobKey, a.UpdatedAt}
	} else {
		query = `
			UPDATE event_assets
			SET filename = ?, content_type = ?, size = ?, blob_key = ?, updated_at = ?
			WHERE slot = ? AND blob_key = ?
		`
		args = []any{a.Filename, a.ContentType, a.Size, a.BlobKey, a.UpdatedAt, a.Slot, previousKey}
	}
	res, err := r.db.ExecResultContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		logger.Error("AssetRepository:Replace:Error:", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *AssetRepository) GetBySlot(ctx context.Context, slot entity.Slot) (*entity.Asset, error) {
	var a entity.Asset
	query := r.db.Rebind(`SELECT slot, filename, content_type, size, blob_key, updated_at FROM event_assets WHERE slot = ?`)
	if err := r.db.GetContext(ctx, &a, query, slot); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("AssetRepository:GetBySlot:Error:", err)
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepository) List(ctx context.Context) ([]entity.Asset, error) {
	var assets []entity.Asset
	query := `SELECT slot, filename, content_type, size, blob_key, updated_at FROM event_assets ORDER BY slot ASC`
	if err := r.db.SelectContext(ctx, &assets, query); err != nil {
		logger.Error("AssetRepository:List:Error:", err)
		return nil, err
	}
	return assets, nil
}

// Delete empties slot and returns the blob key it held, or "" if it was empty.
func (r *AssetRepository) Delete(ctx context.Context, slot entity.Slot) (string, error) {
	var key string
	err := r.db.GetContext(ctx, &key, r.db.Rebind(`DELETE FROM event_assets WHERE slot = ? RETURNING blob_key`), slot)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		logger.Error("AssetRepository:Delete:Error:", err)
		return "", err
	}
	return key, nil
}

// DeleteAll empties every slot and returns the blob keys that were removed.
func (r *AssetRepository) DeleteAll(ctx context.Context) ([]string, error) {
	var keys []string
	if err := r.db.SelectContext(ctx, &keys, `DELETE FROM event_assets RETURNING blob_key`); err != nil {
		logger.Error("AssetRepository:DeleteAll:Error:", err)
		return nil, err
	}
	return keys, nil
}
