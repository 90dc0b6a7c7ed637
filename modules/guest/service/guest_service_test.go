package service_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"event-checkin/core/cache"
	"event-checkin/core/errors"
	"event-checkin/core/params"
	"event-checkin/core/queue"
	"event-checkin/core/testutil"
	"event-checkin/modules/guest/dto"
	"event-checkin/modules/guest/entity"
	"event-checkin/modules/guest/importer"
	"event-checkin/modules/guest/repository"
	"event-checkin/modules/guest/service"

	"github.com/hibiken/asynq"
)

// countingRepo wraps the real repository and counts lookups.
type countingRepo struct {
	repository.GuestRepositoryInterface
	gets    int
	failAll error
}

func (r *countingRepo) GetByEmail(ctx context.Context, email string) (*entity.Guest, error) {
	r.gets++
	return r.GuestRepositoryInterface.GetByEmail(ctx, email)
}

func (r *countingRepo) UpsertMany(ctx context.Context, guests []entity.Guest, importedAt string) error {
	if r.failAll != nil {
		return r.failAll
	}
	return r.GuestRepositoryInterface.UpsertMany(ctx, guests, importedAt)
}

type fakeQueue struct {
	taskType string
	payload  any
}

func (q *fakeQueue) Enqueue(_ context.Context, taskType string, payload any, _ ...asynq.Option) (string, error) {
	q.taskType = taskType
	q.payload = payload
	return "task-1", nil
}

func newService(t *testing.T, c cache.Cache, q *fakeQueue) (*service.GuestService, *countingRepo) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repo := &countingRepo{GuestRepositoryInterface: repository.NewGuestRepository(&db)}
	clock := testutil.NewClock(time.Date(2025, 5, 1, 2, 0, 0, 0, time.UTC))
	opts := service.Options{
		MinEmailLength: 4,
		LookupTTL:      time.Minute,
		Location:       testutil.Location(t),
		Now:            clock.Now,
	}
	var enq queue.Enqueuer
	if q != nil {
		enq = q
	}
	return service.NewGuestService(repo, c, enq, opts), repo
}

func scenarioDataset() *importer.Dataset {
	return &importer.Dataset{
		Columns: []string{"Email", "Nama", "No_Meja"},
		Rows: [][]any{
			{" A@X.com ", "Ali", "t 5"},
			{"b@x.com", "Bea", "T5"},
			{"a@x.com", "Ali2", "T6"},
		},
	}
}

func TestImportAndLookup(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	ctx := context.Background()

	report, appErr := svc.Import(ctx, scenarioDataset())
	if appErr != nil {
		t.Fatalf("Import: %v", appErr)
	}
	if report.Status != dto.ImportStatusCommitted || report.Imported != 2 || report.Duplicates != 1 || report.BatchID == "" {
		t.Errorf("report = %+v", report)
	}

	guest, appErr := svc.Lookup(ctx, "A@X.COM")
	if appErr != nil {
		t.Fatalf("Lookup: %v", appErr)
	}
	if guest.Name != "Ali2" || guest.TableID != "T6" {
		t.Errorf("guest = %+v", guest)
	}
	if guest.ImportedAt != "2025-05-01 10:00:00" {
		t.Errorf("imported_at = %q, want local time", guest.ImportedAt)
	}

	n, _ := svc.Count(ctx)
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestImportIsIdempotent(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, appErr := svc.Import(ctx, scenarioDataset()); appErr != nil {
			t.Fatalf("Import #%d: %v", i, appErr)
		}
	}
	n, _ := svc.Count(ctx)
	if n != 2 {
		t.Errorf("Count = %d after re-import, want 2", n)
	}
}

func TestImportSchemaErrorLeavesDirectoryUntouched(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	ctx := context.Background()
	_, _ = svc.Import(ctx, scenarioDataset())

	_, appErr := svc.Import(ctx, &importer.Dataset{
		Columns: []string{"Email", "Nama"},
		Rows:    [][]any{{"z@x.com", "Zed"}},
	})
	if appErr == nil || appErr.Code != errors.ErrSchema {
		t.Fatalf("appErr = %v, want SCHEMA_ERROR", appErr)
	}
	details, _ := appErr.Details.(map[string]any)
	if missing, _ := details["missing_columns"].([]string); len(missing) != 1 || missing[0] != "No_Meja" {
		t.Errorf("details = %v", appErr.Details)
	}
	n, _ := svc.Count(ctx)
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestImportStorageFailure(t *testing.T) {
	svc, repo := newService(t, nil, nil)
	repo.failAll = stderrors.New("disk full")

	_, appErr := svc.Import(context.Background(), scenarioDataset())
	if appErr == nil || appErr.Code != errors.ErrInternalServer {
		t.Fatalf("appErr = %v, want INTERNAL_SERVER_ERROR", appErr)
	}
}

func TestLookupEmptyInputSkipsStore(t *testing.T) {
	svc, repo := newService(t, nil, nil)

	for _, in := range []string{"", "   "} {
		_, appErr := svc.Lookup(context.Background(), in)
		if appErr == nil || appErr.Code != errors.ErrNotFound {
			t.Errorf("Lookup(%q) = %v, want NOT_FOUND", in, appErr)
		}
	}
	if repo.gets != 0 {
		t.Errorf("store queried %d times for blank input", repo.gets)
	}
}

func TestLookupUnknown(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	_, appErr := svc.Lookup(context.Background(), "ghost@x.com")
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("appErr = %v, want NOT_FOUND", appErr)
	}
}

func TestLookupCacheAndInvalidation(t *testing.T) {
	svc, repo := newService(t, cache.NewMemoryCache(), nil)
	ctx := context.Background()
	_, _ = svc.Import(ctx, scenarioDataset())

	for i := 0; i < 3; i++ {
		if _, appErr := svc.Lookup(ctx, "b@x.com"); appErr != nil {
			t.Fatalf("Lookup: %v", appErr)
		}
	}
	if repo.gets != 1 {
		t.Errorf("store hits = %d, want 1 with cache", repo.gets)
	}

	_, _ = svc.Import(ctx, &importer.Dataset{
		Columns: []string{"Email", "Nama", "No_Meja"},
		Rows:    [][]any{{"b@x.com", "Bea", "T9"}},
	})
	guest, _ := svc.Lookup(ctx, "b@x.com")
	if guest.TableID != "T9" {
		t.Errorf("stale cache after import: %+v", guest)
	}

	if _, appErr := svc.Reset(ctx); appErr != nil {
		t.Fatalf("Reset: %v", appErr)
	}
	if _, appErr := svc.Lookup(ctx, "b@x.com"); appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("lookup after reset = %v, want NOT_FOUND", appErr)
	}
}

func TestImportAsyncQueuesValidatedRows(t *testing.T) {
	q := &fakeQueue{}
	svc, _ := newService(t, nil, q)
	ctx := context.Background()

	report, appErr := svc.ImportAsync(ctx, scenarioDataset())
	if appErr != nil {
		t.Fatalf("ImportAsync: %v", appErr)
	}
	if report.Status != dto.ImportStatusQueued || report.TaskID != "task-1" {
		t.Errorf("report = %+v", report)
	}
	payload, ok := q.payload.(service.ImportPayload)
	if !ok || len(payload.Guests) != 2 || payload.BatchID != report.BatchID {
		t.Fatalf("payload = %#v", q.payload)
	}

	// Nothing is committed until the worker runs.
	if n, _ := svc.Count(ctx); n != 0 {
		t.Errorf("Count = %d before commit", n)
	}
	if appErr := svc.CommitImport(ctx, payload.BatchID, payload.Guests); appErr != nil {
		t.Fatalf("CommitImport: %v", appErr)
	}
	if n, _ := svc.Count(ctx); n != 2 {
		t.Errorf("Count = %d after commit", n)
	}
}

func TestImportAsyncWithoutQueue(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	_, appErr := svc.ImportAsync(context.Background(), scenarioDataset())
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("appErr = %v, want INVALID_INPUT", appErr)
	}
}

func TestList(t *testing.T) {
	svc, _ := newService(t, nil, nil)
	ctx := context.Background()
	_, _ = svc.Import(ctx, scenarioDataset())

	page, appErr := svc.List(ctx, *params.New("1", "10", ""))
	if appErr != nil {
		t.Fatalf("List: %v", appErr)
	}
	if page.TotalItems != 2 {
		t.Errorf("TotalItems = %d", page.TotalItems)
	}
}
