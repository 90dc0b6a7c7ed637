package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"event-checkin/core/database"
	coreEntity "event-checkin/core/entity"
	"event-checkin/core/logger"
	"event-checkin/core/params"
	"event-checkin/modules/guest/entity"

	"github.com/jmoiron/sqlx"
)

type GuestRepositoryInterface interface {
	UpsertMany(ctx context.Context, guests []entity.Guest, importedAt string) error
	GetByEmail(ctx context.Context, email string) (*entity.Guest, error)
	All(ctx context.Context) ([]entity.Guest, error)
	List(ctx context.Context, params params.QueryParams) (*entity.PaginatedGuestEntity, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type GuestRepository struct {
	db database.IDatabase
}

func NewGuestRepository(db database.IDatabase) *GuestRepository {
	return &GuestRepository{db: db}
}

const upsertGuestQuery = `
	INSERT INTO guests (email, name, title, table_id, imported_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (email) DO UPDATE SET
		name = excluded.name,
		title = excluded.title,
		table_id = excluded.table_id,
		imported_at = excluded.imported_at
`

// UpsertMany writes every guest inside one transaction. Either all rows land or
// none do.
func (r *GuestRepository) UpsertMany(ctx context.Context, guests []entity.Guest, importedAt string) error {
	if len(guests) == 0 {
		return nil
	}
	query := r.db.Rebind(upsertGuestQuery)

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return fmt.Errorf("prepare guest upsert: %w", err)
		}
		defer stmt.Close()

		for _, g := range guests {
			if _, err := stmt.ExecContext(ctx, g.Email, g.Name, g.Title, g.TableID, importedAt); err != nil {
				return fmt.Errorf("upsert guest %q: %w", g.Email, err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("GuestRepository:UpsertMany:Error:", err, "rows", len(guests))
		return err
	}
	return nil
}

func (r *GuestRepository) GetByEmail(ctx context.Context, email string) (*entity.Guest, error) {
	var guest entity.Guest
	query := r.db.Rebind(`SELECT email, name, title, table_id, imported_at FROM guests WHERE email = ?`)
	err := r.db.GetContext(ctx, &guest, query, email)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("GuestRepository:GetByEmail:Error:", err)
		return nil, err
	}
	return &guest, nil
}

// All returns the whole directory ordered by email.
func (r *GuestRepository) All(ctx context.Context) ([]entity.Guest, error) {
	var guests []entity.Guest
	query := `SELECT email, name, title, table_id, imported_at FROM guests ORDER BY email ASC`
	if err := r.db.SelectContext(ctx, &guests, query); err != nil {
		logger.Error("GuestRepository:All:Error:", err)
		return nil, err
	}
	return guests, nil
}

func (r *GuestRepository) List(ctx context.Context, params params.QueryParams) (*entity.PaginatedGuestEntity, error) {
	where := ""
	var args []any
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		where = ` WHERE email LIKE ? OR LOWER(name) LIKE ? OR table_id LIKE ?`
		args = append(args, pattern, pattern, strings.ToUpper(pattern))
	}

	var totalItems int
	if err := r.db.GetContext(ctx, &totalItems, r.db.Rebind("SELECT COUNT(*) FROM guests"+where), args...); err != nil {
		logger.Error("GuestRepository:List:Count:Error:", err)
		return nil, err
	}

	query := r.db.Rebind(`
		SELECT email, name, title, table_id, imported_at FROM guests` + where + `
		ORDER BY table_id ASC, name ASC, email ASC
		LIMIT ? OFFSET ?
	`)
	var guests []entity.Guest
	if err := r.db.SelectContext(ctx, &guests, query, append(args, params.PageSize, params.Offset())...); err != nil {
		logger.Error("GuestRepository:List:Select:Error:", err)
		return nil, err
	}

	return coreEntity.NewPagination(guests, totalItems, params.PageNumber, params.PageSize), nil
}

func (r *GuestRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM guests`); err != nil {
		logger.Error("GuestRepository:Count:Error:", err)
		return 0, err
	}
	return count, nil
}

func (r *GuestRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecResultContext(ctx, `DELETE FROM guests`)
	if err != nil {
		logger.Error("GuestRepository:DeleteAll:Error:", err)
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
