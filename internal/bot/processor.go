package bot

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/elyas-hassan/wbot/internal/clock"
	"github.com/elyas-hassan/wbot/internal/relay"
	"github.com/elyas-hassan/wbot/internal/task"
	"github.com/elyas-hassan/wbot/internal/telemetry"
)

// dueInputLayout is what users type after "on".
const dueInputLayout = "2006-01-02 15:04"

const (
	replyPastDate    = "Cannot schedule a task in the past. Please provide a future date and time."
	replyBadDate     = "Invalid date format. Please use `YYYY-MM-DD HH:MM`. Example: add Call Mom on 2025-12-25 10:00"
	replyAddUsage    = "Usage: add <title> on <YYYY-MM-DD HH:MM>. Example: add Call Mom on 2025-12-25 10:00"
	replyDeleteUsage = "Usage: delete <task_id>. Example: delete 1"
	replyNoActive    = "No active tasks scheduled."
	replyNoArchive   = "No tasks in archive."
)

// Processor turns one decoded command into one reply string. It never sends
// anything itself; the webhook layer owns delivery of the reply.
type Processor struct {
	store  *task.Store
	clock  clock.Clock
	events telemetry.Recorder
	logger *log.Logger
}

func NewProcessor(store *task.Store, clk clock.Clock, events telemetry.Recorder, logger *log.Logger) *Processor {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Processor{store: store, clock: clk, events: events, logger: logger}
}

// Handle processes an inbound message. The returned reply is empty exactly
// when the text matched no command keyword; every recognized command, valid
// or not, is acknowledged with a single reply.
func (p *Processor) Handle(msg relay.Message) string {
	cmd := Parse(msg.Body)
	if cmd.Kind == KindUnknown {
		return ""
	}

	reply := p.dispatch(cmd)
	if p.events != nil {
		p.events.Record(telemetry.EventCommandHandled, "", kindName(cmd.Kind))
	}
	return reply
}

func (p *Processor) dispatch(cmd Command) string {
	switch cmd.Kind {
	case KindAdd:
		return p.handleAdd(cmd)
	case KindSchedule:
		return p.handleSchedule()
	case KindDelete:
		return p.handleDelete(cmd)
	case KindArchive:
		return p.handleArchive()
	default:
		return ""
	}
}

func (p *Processor) handleAdd(cmd Command) string {
	if cmd.Malformed {
		return replyAddUsage
	}

	dueAt, err := time.ParseInLocation(dueInputLayout, cmd.DueRaw, time.Local)
	if err != nil {
		return replyBadDate
	}

	t, err := p.store.Add(cmd.Title, dueAt, p.clock.Now())
	switch {
	case errors.Is(err, task.ErrPastDue):
		return replyPastDate
	case errors.Is(err, task.ErrEmptyTitle):
		return replyAddUsage
	case err != nil:
		p.logger.Printf("[bot] add task: %v", err)
		return "Could not save the task right now. Please try again."
	}

	if p.events != nil {
		p.events.Record(telemetry.EventTaskCreated, t.ID, t.Title)
	}
	return fmt.Sprintf("✅ Task '%s' scheduled for %s. (ID: %s)", t.Title, t.DueAt.Display(), t.ID)
}

func (p *Processor) handleSchedule() string {
	tasks, err := p.store.ListActive()
	if err != nil {
		p.logger.Printf("[bot] list active: %v", err)
		return "Could not read the schedule right now. Please try again."
	}
	if len(tasks) == 0 {
		return replyNoActive
	}

	now := p.clock.Now()
	lines := []string{"🗓️ Your Active Schedule:", ""}
	for _, t := range tasks {
		status := ""
		if t.Overdue(now) {
			status = " (⌛ Overdue)"
		}
		lines = append(lines,
			fmt.Sprintf("*%s*. %s", t.ID, t.Title),
			fmt.Sprintf("  _Due:_ %s%s", t.DueAt.Display(), status),
			"",
		)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func (p *Processor) handleDelete(cmd Command) string {
	if cmd.Malformed {
		return replyDeleteUsage
	}

	t, err := p.store.Delete(cmd.ID)
	switch {
	case errors.Is(err, task.ErrNotFound):
		return fmt.Sprintf("Task with ID '%s' not found in active schedule.", cmd.ID)
	case err != nil:
		p.logger.Printf("[bot] delete task %s: %v", cmd.ID, err)
		return "Could not delete the task right now. Please try again."
	}

	if p.events != nil {
		p.events.Record(telemetry.EventTaskDeleted, t.ID, t.Title)
	}
	return fmt.Sprintf("Task '%s' (ID: %s) deleted successfully.", t.Title, t.ID)
}

func (p *Processor) handleArchive() string {
	tasks, err := p.store.ListArchive()
	if err != nil {
		p.logger.Printf("[bot] list archive: %v", err)
		return "Could not read the archive right now. Please try again."
	}
	if len(tasks) == 0 {
		return replyNoArchive
	}

	lines := []string{"🗄️ Your Archived Tasks:", ""}
	for _, t := range tasks {
		lines = append(lines,
			fmt.Sprintf("*%s*. %s", t.ID, t.Title),
			fmt.Sprintf("  _Due:_ %s", t.DueAt.Display()),
			"",
		)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func kindName(k Kind) string {
	switch k {
	case KindAdd:
		return "add"
	case KindSchedule:
		return "schedule"
	case KindDelete:
		return "delete"
	case KindArchive:
		return "archive"
	default:
		return "unknown"
	}
}
