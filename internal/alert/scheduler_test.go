package alert

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elyas-hassan/wbot/internal/clock"
	"github.com/elyas-hassan/wbot/internal/task"
	"github.com/elyas-hassan/wbot/internal/telemetry"
)

type stubNotifier struct {
	mu    sync.Mutex
	err   error
	sends []stubSend
}

type stubSend struct {
	To   string
	Text string
}

func (n *stubNotifier) Send(_ context.Context, to, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sends = append(n.sends, stubSend{To: to, Text: text})
	return nil
}

func (n *stubNotifier) sent() []stubSend {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]stubSend(nil), n.sends...)
}

func newSchedulerForTests(t *testing.T) (*Scheduler, *task.Store, *clock.FakeClock, *stubNotifier) {
	t.Helper()
	store, err := task.NewStore(t.TempDir(), log.New(io.Discard, "", 0))
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local))
	notifier := &stubNotifier{}
	s := &Scheduler{
		Store:    store,
		Notifier: notifier,
		Clock:    clk,
		Events:   telemetry.NewMemoryRepository(),
		Logger:   log.New(io.Discard, "", 0),
		RemindTo: "owner@c.us",
	}
	return s, store, clk, notifier
}

func TestRunCycle_DeliversAndArchivesDueTasks(t *testing.T) {
	s, store, clk, notifier := newSchedulerForTests(t)
	now := clk.Now()

	due, err := store.Add("Standup", now.Add(2*time.Minute), now)
	require.NoError(t, err)
	_, err = store.Add("Next week", now.Add(7*24*time.Hour), now)
	require.NoError(t, err)

	res := s.RunCycle(context.Background())
	assert.Equal(t, 1, res.Delivered)
	assert.Equal(t, 0, res.Failed)

	sends := notifier.sent()
	require.Len(t, sends, 1)
	assert.Equal(t, "owner@c.us", sends[0].To)
	assert.Equal(t, RenderReminder(due), sends[0].Text)

	archive, err := store.ListArchive()
	require.NoError(t, err)
	require.Len(t, archive, 1)
	assert.Equal(t, due.ID, archive[0].ID)
	assert.True(t, archive[0].Sent)
}

func TestRunCycle_FailureLeavesTaskForRetry(t *testing.T) {
	s, store, clk, notifier := newSchedulerForTests(t)
	now := clk.Now()

	_, err := store.Add("Flaky", now.Add(time.Minute), now)
	require.NoError(t, err)

	notifier.err = errors.New("relay unreachable")
	res := s.RunCycle(context.Background())
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 0, res.Delivered)

	active, err := store.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)

	// Relay back up: the same task goes out on the next cycle.
	notifier.err = nil
	clk.Advance(10 * time.Second)
	res = s.RunCycle(context.Background())
	assert.Equal(t, 1, res.Delivered)

	archive, err := store.ListArchive()
	require.NoError(t, err)
	assert.Len(t, archive, 1)
}

func TestRunCycle_NothingDueSendsNothing(t *testing.T) {
	s, store, clk, notifier := newSchedulerForTests(t)
	now := clk.Now()

	_, err := store.Add("Later", now.Add(time.Hour), now)
	require.NoError(t, err)

	res := s.RunCycle(context.Background())
	assert.Equal(t, 0, res.Due)
	assert.Empty(t, notifier.sent())
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	s, _, _, _ := newSchedulerForTests(t)
	s.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRenderReminder(t *testing.T) {
	tk := task.Task{
		ID:    "7",
		Title: "Pay rent",
		DueAt: task.NewDueTime(time.Date(2026, 4, 1, 9, 0, 0, 0, time.Local)),
	}
	assert.Equal(t, "🔔 REMINDER: *Pay rent*\n  _Scheduled for:_ 2026-04-01 09:00", RenderReminder(tk))
}
