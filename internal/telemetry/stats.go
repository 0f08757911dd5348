package telemetry

type Stats struct {
	EventCounts      map[EventType]int `json:"event_counts"`
	TasksCreated     int               `json:"tasks_created"`
	TasksDeleted     int               `json:"tasks_deleted"`
	RemindersSent    int               `json:"reminders_sent"`
	DeliveryFailures int               `json:"delivery_failures"`
	ScanCycles       int               `json:"scan_cycles"`
	DeliveryRate     float64           `json:"delivery_rate"`
}

// CalculateStats aggregates raw events into the shape /api/stats serves.
func CalculateStats(events []Event) Stats {
	stats := Stats{
		EventCounts: make(map[EventType]int),
	}

	for _, e := range events {
		stats.EventCounts[e.Type]++

		switch e.Type {
		case EventTaskCreated:
			stats.TasksCreated++
		case EventTaskDeleted:
			stats.TasksDeleted++
		case EventReminderSent:
			stats.RemindersSent++
		case EventDeliveryFailed:
			stats.DeliveryFailures++
		case EventScanCycle:
			stats.ScanCycles++
		}
	}

	attempts := stats.RemindersSent + stats.DeliveryFailures
	if attempts > 0 {
		stats.DeliveryRate = float64(stats.RemindersSent) / float64(attempts)
	}
	return stats
}
