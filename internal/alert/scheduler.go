package alert

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/elyas-hassan/wbot/internal/clock"
	"github.com/elyas-hassan/wbot/internal/relay"
	"github.com/elyas-hassan/wbot/internal/task"
	"github.com/elyas-hassan/wbot/internal/telemetry"
)

const (
	DefaultInterval    = 10 * time.Second
	DefaultLookahead   = 5 * time.Minute
	DefaultSendTimeout = 10 * time.Second
)

// Scheduler drives the periodic alert sweep. One recurring cycle: load the
// task files, fire reminders for everything due inside the lookahead window,
// archive what was delivered, persist. Delivery failures are left in place
// and simply picked up again next cycle.
type Scheduler struct {
	Store    *task.Store
	Notifier relay.Notifier
	Clock    clock.Clock
	Events   telemetry.Recorder
	Logger   *log.Logger

	// RemindTo is the fixed destination for reminder notifications, as
	// opposed to command replies which follow the originating chat.
	RemindTo string

	Interval    time.Duration
	Lookahead   time.Duration
	SendTimeout time.Duration
}

func (s *Scheduler) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

func (s *Scheduler) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}

// Run blocks until ctx is cancelled. The timer is re-armed only after a
// cycle fully completes, persistence included, so cycles never overlap even
// when a sweep outlasts the interval.
func (s *Scheduler) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.RunCycle(ctx)
			timer.Reset(interval)
		}
	}
}

// RunCycle executes one sweep. Errors are logged, never returned up the
// loop; the scheduler must outlive any single bad cycle.
func (s *Scheduler) RunCycle(ctx context.Context) task.SweepResult {
	lookahead := s.Lookahead
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	sendTimeout := s.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}

	res, err := s.Store.Sweep(s.now(), lookahead, func(t task.Task) error {
		sctx, cancel := context.WithTimeout(ctx, sendTimeout)
		defer cancel()

		if err := s.Notifier.Send(sctx, s.RemindTo, RenderReminder(t)); err != nil {
			if s.Events != nil {
				s.Events.Record(telemetry.EventDeliveryFailed, t.ID, err.Error())
			}
			return err
		}
		if s.Events != nil {
			s.Events.Record(telemetry.EventReminderSent, t.ID, t.Title)
		}
		return nil
	})
	if err != nil {
		s.logger().Printf("[alert] sweep: %v", err)
	}

	if s.Events != nil {
		s.Events.Record(telemetry.EventScanCycle, "", fmt.Sprintf("due=%d delivered=%d failed=%d", res.Due, res.Delivered, res.Failed))
	}
	if res.Due > 0 {
		s.logger().Printf("[alert] cycle: scanned=%d due=%d delivered=%d failed=%d remaining=%d",
			res.Scanned, res.Due, res.Delivered, res.Failed, res.Remaining)
	}
	return res
}

// RenderReminder is the reminder text pushed through the relay.
func RenderReminder(t task.Task) string {
	return fmt.Sprintf("🔔 REMINDER: *%s*\n  _Scheduled for:_ %s", t.Title, t.DueAt.Display())
}
