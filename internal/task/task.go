package task

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// dueLayout is the on-disk timestamp form. Local clock, second precision;
// user input only ever carries minutes so round-trips are exact.
const dueLayout = "2006-01-02T15:04:05"

// DisplayLayout is how due times are rendered back to the user.
const DisplayLayout = "2006-01-02 15:04"

// DueTime is a local-zone timestamp that serializes as dueLayout.
type DueTime struct {
	time.Time
}

func NewDueTime(t time.Time) DueTime {
	return DueTime{t.Truncate(time.Minute)}
}

func (d DueTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dueLayout))
}

func (d *DueTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.ParseInLocation(dueLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("parse due time %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d DueTime) Display() string {
	return d.Format(DisplayLayout)
}

// Task is one scheduled reminder. Sent flips to true exactly once, when a
// reminder has been delivered, and the task moves from the active file to
// the archive file in the same cycle.
type Task struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	DueAt DueTime `json:"due_at"`
	Sent  bool    `json:"sent"`
}

// DueWithin reports whether the task should fire: due now or due inside the
// lookahead window. Level-triggered, so it stays true every cycle until sent.
func (t Task) DueWithin(now time.Time, lookahead time.Duration) bool {
	return !t.DueAt.After(now.Add(lookahead))
}

// Overdue is presentational only; it never drives a state change.
func (t Task) Overdue(now time.Time) bool {
	return t.DueAt.Before(now)
}

func (t Task) numericID() int {
	n, err := strconv.Atoi(t.ID)
	if err != nil {
		return 0
	}
	return n
}
