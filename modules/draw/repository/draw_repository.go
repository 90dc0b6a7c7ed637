package repository

import (
	"context"

	"event-checkin/core/database"
	"event-checkin/core/logger"
	"event-checkin/modules/draw/entity"
)

type DrawRepositoryInterface interface {
	EligibleCandidates(ctx context.Context) ([]entity.Candidate, error)
	CountLedger(ctx context.Context) (int, error)
	InsertIfAbsent(ctx context.Context, w *entity.Winner) (bool, error)
	List(ctx context.Context) ([]entity.Winner, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type DrawRepository struct {
	db database.IDatabase
}

func NewDrawRepository(db database.IDatabase) *DrawRepository {
	return &DrawRepository{db: db}
}

// EligibleCandidates lists attendees who have not won yet, ordered by email.
func (r *DrawRepository) EligibleCandidates(ctx context.Context) ([]entity.Candidate, error) {
	query := `
		SELECT a.email, a.name, a.title, a.table_id
		FROM attendance a
		LEFT JOIN draw_winners w ON w.email = a.email
		WHERE w.email IS NULL
		ORDER BY a.email ASC
	`
	var candidates []entity.Candidate
	if err := r.db.SelectContext(ctx, &candidates, query); err != nil {
		logger.Error("DrawRepository:EligibleCandidates:Error:", err)
		return nil, err
	}
	return candidates, nil
}

func (r *DrawRepository) CountLedger(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM attendance`); err != nil {
		logger.Error("DrawRepository:CountLedger:Error:", err)
		return 0, err
	}
	return n, nil
}

// InsertIfAbsent adds w to the registry and reports false when the email was
// already there, e.g. because a concurrent draw picked it first.
func (r *DrawRepository) InsertIfAbsent(ctx context.Context, w *entity.Winner) (bool, error) {
	query := r.db.Rebind(`
		INSERT INTO draw_winners (email, drawn_at, name, title, table_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (email) DO NOTHING
	`)
	res, err := r.db.ExecResultContext(ctx, query, w.Email, w.DrawnAt, w.Name, w.Title, w.TableID)
	if err != nil {
		logger.Error("DrawRepository:InsertIfAbsent:Error:", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *DrawRepository) List(ctx context.Context) ([]entity.Winner, error) {
	var winners []entity.Winner
	query := `SELECT email, drawn_at, name, title, table_id FROM draw_winners ORDER BY drawn_at DESC, email ASC`
	if err := r.db.SelectContext(ctx, &winners, query); err != nil {
		logger.Error("DrawRepository:List:Error:", err)
		return nil, err
	}
	if winners == nil {
		winners = []entity.Winner{}
	}
	return winners, nil
}

func (r *DrawRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecResultContext(ctx, `DELETE FROM draw_winners`)
	if err != nil {
		logger.Error("DrawRepository:DeleteAll:Error:", err)
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
