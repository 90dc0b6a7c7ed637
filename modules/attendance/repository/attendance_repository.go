package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"event-checkin/core/database"
	coreEntity "event-checkin/core/entity"
	"event-checkin/core/logger"
	"event-checkin/core/params"
	"event-checkin/modules/attendance/entity"

	"github.com/jmoiron/sqlx"
)

type AttendanceRepositoryInterface interface {
	Upsert(ctx context.Context, a *entity.Attendance) error
	GetByEmail(ctx context.Context, email string) (*entity.Attendance, error)
	Exists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, params params.QueryParams) (*entity.PaginatedAttendanceEntity, error)
	Stats(ctx context.Context) (*entity.Stats, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type AttendanceRepository struct {
	db database.IDatabase
}

func NewAttendanceRepository(db database.IDatabase) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert records a confirmation. A repeat confirmation replaces the whole row,
// so concurrent writers for one email never produce a merged record.
func (r *AttendanceRepository) Upsert(ctx context.Context, a *entity.Attendance) error {
	query := r.db.Rebind(`
		INSERT INTO attendance (email, checked_in_at, name, title, table_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			checked_in_at = excluded.checked_in_at,
			name = excluded.name,
			title = excluded.title,
			table_id = excluded.table_id
	`)
	if err := r.db.ExecContext(ctx, query, a.Email, a.CheckedInAt, a.Name, a.Title, a.TableID); err != nil {
		logger.Error("AttendanceRepository:Upsert:Error:", err)
		return err
	}
	return nil
}

func (r *AttendanceRepository) GetByEmail(ctx context.Context, email string) (*entity.Attendance, error) {
	var a entity.Attendance
	query := r.db.Rebind(`SELECT email, checked_in_at, name, title, table_id FROM attendance WHERE email = ?`)
	if err := r.db.GetContext(ctx, &a, query, email); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("AttendanceRepository:GetByEmail:Error:", err)
		return nil, err
	}
	return &a, nil
}

func (r *AttendanceRepository) Exists(ctx context.Context, email string) (bool, error) {
	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM attendance WHERE email = ?`)
	if err := r.db.GetContext(ctx, &n, query, email); err != nil {
		logger.Error("AttendanceRepository:Exists:Error:", err)
		return false, err
	}
	return n > 0, nil
}

// List returns the ledger newest first; ties fall back to email so paging is stable.
func (r *AttendanceRepository) List(ctx context.Context, params params.QueryParams) (*entity.PaginatedAttendanceEntity, error) {
	var totalItems int
	if err := r.db.GetContext(ctx, &totalItems, `SELECT COUNT(*) FROM attendance`); err != nil {
		logger.Error("AttendanceRepository:List:Count:Error:", err)
		return nil, err
	}

	query := r.db.Rebind(`
		SELECT email, checked_in_at, name, title, table_id FROM attendance
		ORDER BY checked_in_at DESC, email ASC
		LIMIT ? OFFSET ?
	`)
	var items []entity.Attendance
	if err := r.db.SelectContext(ctx, &items, query, params.PageSize, params.Offset()); err != nil {
		logger.Error("AttendanceRepository:List:Select:Error:", err)
		return nil, err
	}
	return coreEntity.NewPagination(items, totalItems, params.PageNumber, params.PageSize), nil
}

// Stats reads all three counts in one statement so they come from one snapshot.
func (r *AttendanceRepository) Stats(ctx context.Context) (*entity.Stats, error) {
	var s entity.Stats
	query := `
		SELECT
			(SELECT COUNT(*) FROM guests) AS total,
			(SELECT COUNT(*) FROM attendance) AS checked_in,
			(SELECT COUNT(*) FROM draw_winners) AS winners
	`
	if err := r.db.GetContext(ctx, &s, query); err != nil {
		logger.Error("AttendanceRepository:Stats:Error:", err)
		return nil, err
	}
	s.Remaining = max(s.Total-s.CheckedIn, 0)
	return &s, nil
}

// DeleteAll clears the ledger together with the draw registry, since every winner
// must be a checked-in guest. It returns the number of ledger rows removed.
func (r *AttendanceRepository) DeleteAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM draw_winners`); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM attendance`)
		if err != nil {
			return err
		}
		n, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		logger.Error("AttendanceRepository:DeleteAll:Error:", err)
		return 0, err
	}
	return n, nil
}
