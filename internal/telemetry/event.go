package telemetry

import "time"

type EventType string

const (
	EventTaskCreated    EventType = "task_created"
	EventTaskDeleted    EventType = "task_deleted"
	EventCommandHandled EventType = "command_handled"
	EventReminderSent   EventType = "reminder_sent"
	EventDeliveryFailed EventType = "delivery_failed"
	EventScanCycle      EventType = "scan_cycle"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	TaskID    string    `json:"task_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Recorder is the write side; handlers and the scheduler only need this.
type Recorder interface {
	Record(eventType EventType, taskID, detail string)
}
