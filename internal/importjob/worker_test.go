package importjob

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumni/internal/alumni"
	"alumni/internal/bulkimport"
	"alumni/internal/queue"
)

const csvHeader = "Alumni ID,Name,DOB,Department,Batch,Contact,Status"

func newSession(t *testing.T, svc *alumni.Service, lines ...string) *bulkimport.Session {
	t.Helper()
	ids, err := svc.ExistingIDs(context.Background())
	require.NoError(t, err)
	s, err := bulkimport.NewSession("alumni.csv", strings.NewReader(strings.Join(append([]string{csvHeader}, lines...), "\n")), bulkimport.NewIDSet(ids...))
	require.NoError(t, err)
	return s
}

func TestServiceCreator(t *testing.T) {
	ctx := context.Background()
	svc := alumni.NewService(alumni.NewMemoryStore())
	c := ServiceCreator{Service: svc}

	rec := alumni.Record{AlumniID: "A1", Name: "Ann", DOB: "1999-01-01", Department: "CS", Batch: "2022", Contact: "12345", Status: "Employed"}
	resp, err := c.Create(ctx, rec)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	resp, err = c.Create(ctx, rec)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, bulkimport.AlreadyExistsMarker)

	rec.AlumniID = "A2"
	rec.DOB = "yesterday"
	resp, err = c.Create(ctx, rec)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid date format (use YYYY-MM-DD)", resp.Message)
}

func TestWorkerHandle(t *testing.T) {
	ctx := context.Background()
	svc := alumni.NewService(alumni.NewMemoryStore())
	store := NewMemoryStore(time.Hour)

	s := newSession(t, svc,
		"A1,Ann,1999-01-01,CS,2022,12345,Employed",
		"A2,Bob,1999-01-01,CS,2022,12345,Entrepreneur",
		"A3,,1999-01-01,CS,2022,12345,Employed",
	)
	require.NoError(t, store.Save(ctx, s))

	// Someone else stores A2 between preview and import.
	_, err := svc.Create(ctx, alumni.Record{AlumniID: "A2", Name: "Bob", DOB: "1999-01-01", Department: "CS", Batch: "2022", Contact: "12345", Status: "Entrepreneur"})
	require.NoError(t, err)

	w := NewWorker(store, ServiceCreator{Service: svc}, -1, nil)
	require.NoError(t, w.Handle(ctx, []byte(`{"session_id":"`+s.ID+`"}`)))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, bulkimport.StateCompleted, got.State)
	require.NotNil(t, got.Result)
	assert.Equal(t, 1, got.Result.Succeeded)
	assert.Equal(t, 1, got.Result.Skipped)
	assert.Equal(t, 0, got.Result.Failed)
	assert.Equal(t, 2, got.Progress)

	ids, err := svc.ExistingIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A1", "A2"}, ids)

	// A second delivery of the same job does nothing.
	require.NoError(t, w.Handle(ctx, []byte(`{"session_id":"`+s.ID+`"}`)))
	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Result, again.Result)
}

func TestWorkerHandleErrors(t *testing.T) {
	w := NewWorker(NewMemoryStore(time.Hour), ServiceCreator{Service: alumni.NewService(alumni.NewMemoryStore())}, -1, nil)
	assert.Error(t, w.Handle(context.Background(), []byte("not json")))
	assert.ErrorIs(t, w.Handle(context.Background(), []byte(`{"session_id":"missing"}`)), ErrNotFound)
}

func TestWorkerRunConsumesQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := alumni.NewService(alumni.NewMemoryStore())
	store := NewMemoryStore(time.Hour)
	s := newSession(t, svc, "A1,Ann,1999-01-01,CS,2022,12345,Employed")
	require.NoError(t, store.Save(ctx, s))

	q := queue.NewInMemory(4)
	require.NoError(t, q.Publish(ctx, queue.Message{Type: "other"}))
	require.NoError(t, Enqueue(ctx, q, Job{SessionID: s.ID}))

	done := make(chan error, 1)
	go func() { done <- NewWorker(store, ServiceCreator{Service: svc}, -1, nil).Run(ctx, q) }()

	require.Eventually(t, func() bool {
		got, err := store.Get(ctx, s.ID)
		return err == nil && got.State == bulkimport.StateCompleted
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestMemoryStoreKeepsCopies(t *testing.T) {
	ctx := context.Background()
	svc := alumni.NewService(alumni.NewMemoryStore())
	s := newSession(t, svc, "A1,Ann,1999-01-01,CS,2022,12345,Employed")

	store := NewMemoryStore(time.Hour)
	require.NoError(t, store.Save(ctx, s))
	s.State = bulkimport.StateCancelled

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, bulkimport.StateIdle, got.State)
	assert.Equal(t, s.Preview.Summary(), got.Preview.Summary())
	assert.Equal(t, s.Preview.Valid, got.Preview.Valid)

	_, err = store.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiresSessions(t *testing.T) {
	ctx := context.Background()
	svc := alumni.NewService(alumni.NewMemoryStore())
	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	store := NewMemoryStore(time.Hour)
	store.now = func() time.Time { return clock }

	old := newSession(t, svc, "A1,Ann,1999-01-01,CS,2022,12345,Employed")
	require.NoError(t, store.Save(ctx, old))

	clock = clock.Add(59 * time.Minute)
	_, err := store.Get(ctx, old.ID)
	require.NoError(t, err)

	clock = clock.Add(time.Minute)
	_, err = store.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, store.size())

	fresh := newSession(t, svc, "A2,Bo,1999-01-01,CS,2022,12345,Employed")
	require.NoError(t, store.Save(ctx, fresh))
	assert.Equal(t, 1, store.size())
	_, err = store.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestMemoryStoreDefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewMemoryStore(0).ttl)
}
