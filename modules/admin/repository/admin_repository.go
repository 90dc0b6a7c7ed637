package repository

import (
	"context"
	"fmt"

	"event-checkin/core/constants"
	"event-checkin/core/database"
	"event-checkin/core/logger"

	"github.com/jmoiron/sqlx"
)

// Children before parents, in case foreign keys are added later.
var resetOrder = []string{
	constants.TableDrawWinners,
	constants.TableAttendance,
	constants.TableGuests,
	constants.TableEventAssets,
	constants.TableAssetBlobs,
}

type AdminRepositoryInterface interface {
	ResetAll(ctx context.Context) (map[string]int64, []string, error)
}

type AdminRepository struct {
	db database.IDatabase
}

func NewAdminRepository(db database.IDatabase) *AdminRepository {
	return &AdminRepository{db: db}
}

// ResetAll empties every table in one transaction and returns the per-table row
// counts plus the blob keys the asset metadata pointed at.
func (r *AdminRepository) ResetAll(ctx context.Context) (map[string]int64, []string, error) {
	deleted := make(map[string]int64, len(resetOrder))
	var blobKeys []string

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &blobKeys, `SELECT blob_key FROM event_assets`); err != nil {
			return fmt.Errorf("list asset blobs: %w", err)
		}
		for _, table := range resetOrder {
			res, err := tx.ExecContext(ctx, "DELETE FROM "+table)
			if err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
			n, _ := res.RowsAffected()
			deleted[table] = n
		}
		return nil
	})
	if err != nil {
		logger.Error("AdminRepository:ResetAll:Error:", err)
		return nil, nil, err
	}
	return deleted, blobKeys, nil
}
