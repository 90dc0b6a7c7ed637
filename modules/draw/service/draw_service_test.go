package service_test

import (
	"context"
	"testing"
	"time"

	"event-checkin/core/database"
	"event-checkin/core/errors"
	"event-checkin/core/testutil"
	attendanceRepository "event-checkin/modules/attendance/repository"
	"event-checkin/modules/draw/entity"
	"event-checkin/modules/draw/repository"
	"event-checkin/modules/draw/service"
)

func seedLedger(t *testing.T, db database.Database, emails ...string) {
	t.Helper()
	for _, email := range emails {
		err := db.ExecContext(context.Background(),
			db.Rebind(`INSERT INTO attendance (email, checked_in_at, name, title, table_id) VALUES (?, ?, ?, '', 'T1')`),
			email, "2025-05-01 10:00:00", "Guest "+email)
		if err != nil {
			t.Fatalf("seed attendance: %v", err)
		}
	}
}

func newDrawService(t *testing.T, repo repository.DrawRepositoryInterface, pick func(int) int) (*service.DrawService, *testutil.Clock) {
	t.Helper()
	loc := testutil.Location(t)
	clock := testutil.NewClock(time.Date(2025, 5, 1, 21, 0, 0, 0, loc))
	return service.NewDrawService(repo, service.Options{Location: loc, Now: clock.Now, Pick: pick}), clock
}

func TestDrawEmptyLedger(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := newDrawService(t, repository.NewDrawRepository(&db), nil)

	_, appErr := svc.Draw(context.Background())
	if appErr == nil || appErr.Code != errors.ErrNoEligibleCandidates {
		t.Fatalf("appErr = %v, want NO_ELIGIBLE_CANDIDATES", appErr)
	}
	if appErr.Message != "No guests have checked in yet" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestDrawWithoutReplacementUntilExhausted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedLedger(t, db, "a@x.com", "b@x.com", "c@x.com")
	svc, clock := newDrawService(t, repository.NewDrawRepository(&db), nil)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		res, appErr := svc.Draw(ctx)
		if appErr != nil {
			t.Fatalf("Draw #%d: %v", i, appErr)
		}
		if seen[res.Winner.Email] {
			t.Fatalf("%s drawn twice", res.Winner.Email)
		}
		seen[res.Winner.Email] = true
		if res.Remaining != 2-i {
			t.Errorf("remaining = %d, want %d", res.Remaining, 2-i)
		}
		clock.Advance(time.Second)
	}

	_, appErr := svc.Draw(ctx)
	if appErr == nil || appErr.Code != errors.ErrNoEligibleCandidates {
		t.Fatalf("appErr = %v, want NO_ELIGIBLE_CANDIDATES", appErr)
	}
	if appErr.Message != "Every checked-in guest has already been drawn" {
		t.Errorf("message = %q", appErr.Message)
	}

	winners, appErr := svc.ListWinners(ctx)
	if appErr != nil {
		t.Fatalf("ListWinners: %v", appErr)
	}
	if winners.Total != 3 || winners.Items[0].DrawnAt != "2025-05-01 21:00:02" {
		t.Errorf("winners = %+v", winners)
	}
}

func TestDrawUsesPick(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedLedger(t, db, "a@x.com", "b@x.com", "c@x.com")
	svc, _ := newDrawService(t, repository.NewDrawRepository(&db), func(n int) int { return n - 1 })

	res, appErr := svc.Draw(context.Background())
	if appErr != nil {
		t.Fatalf("Draw: %v", appErr)
	}
	if res.Winner.Email != "c@x.com" || res.Winner.Name != "Guest c@x.com" {
		t.Errorf("winner = %+v", res.Winner)
	}
}

// racingRepo lets another drawer claim the first pick before our insert lands.
type racingRepo struct {
	*repository.DrawRepository
	raced bool
}

func (r *racingRepo) InsertIfAbsent(ctx context.Context, w *entity.Winner) (bool, error) {
	if !r.raced {
		r.raced = true
		rival := *w
		if _, err := r.DrawRepository.InsertIfAbsent(ctx, &rival); err != nil {
			return false, err
		}
	}
	return r.DrawRepository.InsertIfAbsent(ctx, w)
}

func TestDrawRetriesAfterLosingRace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedLedger(t, db, "a@x.com", "b@x.com")
	repo := &racingRepo{DrawRepository: repository.NewDrawRepository(&db)}
	svc, _ := newDrawService(t, repo, func(int) int { return 0 })

	res, appErr := svc.Draw(context.Background())
	if appErr != nil {
		t.Fatalf("Draw: %v", appErr)
	}
	if res.Winner.Email != "b@x.com" {
		t.Errorf("winner = %s, want the next eligible guest", res.Winner.Email)
	}
	if n := testutil.CountRows(t, db, "draw_winners"); n != 2 {
		t.Errorf("registry rows = %d, want 2", n)
	}
}

func TestDrawReset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedLedger(t, db, "a@x.com")
	svc, _ := newDrawService(t, repository.NewDrawRepository(&db), nil)
	ctx := context.Background()

	_, _ = svc.Draw(ctx)
	n, appErr := svc.Reset(ctx)
	if appErr != nil || n != 1 {
		t.Fatalf("Reset = %d, %v", n, appErr)
	}
	if _, appErr := svc.Draw(ctx); appErr != nil {
		t.Errorf("Draw after reset: %v", appErr)
	}
}

func TestLedgerResetClearsWinners(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedLedger(t, db, "a@x.com", "b@x.com")
	svc, _ := newDrawService(t, repository.NewDrawRepository(&db), func(int) int { return 0 })
	ctx := context.Background()

	if _, appErr := svc.Draw(ctx); appErr != nil {
		t.Fatalf("Draw: %v", appErr)
	}
	n, err := attendanceRepository.NewAttendanceRepository(&db).DeleteAll(ctx)
	if err != nil || n != 2 {
		t.Fatalf("DeleteAll = %d, %v", n, err)
	}

	var orphans int
	err = db.GetContext(ctx, &orphans, `
		SELECT COUNT(*) FROM draw_winners w
		LEFT JOIN attendance a ON a.email = w.email
		WHERE a.email IS NULL
	`)
	if err != nil {
		t.Fatal(err)
	}
	if orphans != 0 {
		t.Fatalf("%d winners missing from the ledger", orphans)
	}

	// The former winner is eligible again after checking back in.
	seedLedger(t, db, "a@x.com")
	res, appErr := svc.Draw(ctx)
	if appErr != nil {
		t.Fatalf("Draw after reset: %v", appErr)
	}
	if res.Winner.Email != "a@x.com" {
		t.Errorf("winner = %s, want a@x.com", res.Winner.Email)
	}
}
