package reminders

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "reminders.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store := NewStore(db)
	require.NoError(t, store.Migrate())
	return store
}

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (r *recordingSender) SendReminder(_ context.Context, channelID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, channelID+"|"+message)
	return nil
}

func TestValidateTime(t *testing.T) {
	for _, ok := range []string{"00:00", "09:00", "23:59", "12:30"} {
		assert.NoError(t, ValidateTime(ok), ok)
	}
	for _, bad := range []string{"25:61", "24:00", "9:00", "09:60", "0900", "", "09:00 "} {
		assert.ErrorIs(t, ValidateTime(bad), ErrValidation, bad)
	}
}

func TestAddListRemove(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Add(ctx, "g1", "c1", "25:61", "pay fees", "", "staff")
	assert.ErrorIs(t, err, ErrValidation)

	r, err := store.Add(ctx, "g1", "c1", "09:00", "pay fees", "<@&77>", "staff")
	require.NoError(t, err)
	assert.Equal(t, "<@&77> pay fees", r.Message)

	list, err := store.List(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "09:00", list[0].Time)

	_, err = store.Add(ctx, "g1", "c2", "09:00", "second", "", "staff")
	require.NoError(t, err)
	_, err = store.Add(ctx, "g2", "c3", "09:00", "other guild", "", "staff")
	require.NoError(t, err)

	n, err := store.Remove(ctx, "g1", "09:00")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	list, err = store.List(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, list)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSchedulerTick(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.Add(ctx, "g1", "c1", "09:00", "morning", "", "staff")
	require.NoError(t, err)
	_, err = store.Add(ctx, "g1", "c1", "10:00", "later", "", "staff")
	require.NoError(t, err)

	sender := &recordingSender{}
	sched := NewScheduler(store, sender, SchedulerOptions{UTCOffsetHours: 8, Dedupe: true})
	// 01:00 UTC is 09:00 at UTC+8.
	sched.now = func() time.Time { return time.Date(2025, 3, 1, 1, 0, 10, 0, time.UTC) }

	n, err := sched.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"c1|morning"}, sender.sent)

	// Second tick in the same minute is suppressed.
	sched.now = func() time.Time { return time.Date(2025, 3, 1, 1, 0, 40, 0, time.UTC) }
	n, err = sched.Tick(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Next day fires again.
	sched.now = func() time.Time { return time.Date(2025, 3, 2, 1, 0, 5, 0, time.UTC) }
	n, err = sched.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSchedulerWithoutDedupe(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.Add(ctx, "g1", "c1", "09:00", "morning", "", "staff")
	require.NoError(t, err)

	sender := &recordingSender{}
	sched := NewScheduler(store, sender, SchedulerOptions{UTCOffsetHours: 8})
	sched.now = func() time.Time { return time.Date(2025, 3, 1, 1, 0, 0, 0, time.UTC) }

	for i := 0; i < 2; i++ {
		_, err := sched.Tick(ctx)
		require.NoError(t, err)
	}
	assert.Len(t, sender.sent, 2)
}

func TestSchedulerSendFailureNotMarked(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.Add(ctx, "g1", "c1", "09:00", "morning", "", "staff")
	require.NoError(t, err)

	sender := &recordingSender{err: errors.New("missing access")}
	sched := NewScheduler(store, sender, SchedulerOptions{UTCOffsetHours: 8, Dedupe: true})
	sched.now = func() time.Time { return time.Date(2025, 3, 1, 1, 0, 0, 0, time.UTC) }

	n, err := sched.Tick(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all[0].LastFired)
}

func TestSchedulerRunStops(t *testing.T) {
	store := newTestStore(t)
	sched := NewScheduler(store, &recordingSender{}, SchedulerOptions{Interval: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
