package task

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotFound   = errors.New("task not found")
	ErrPastDue    = errors.New("due time is in the past")
	ErrEmptyTitle = errors.New("title is empty")
)

// Store owns the two task files: tasks.json (active, sent=false) and
// archive_tasks.json (delivered, sent=true). There is no in-memory cache;
// every operation is load → mutate → save under a single mutex, so the
// command path and the alert sweep can never interleave half-written state.
type Store struct {
	mu          sync.Mutex
	activePath  string
	archivePath string
	logger      *log.Logger
}

func NewStore(dataDir string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	s := &Store{
		activePath:  filepath.Join(dataDir, "tasks.json"),
		archivePath: filepath.Join(dataDir, "archive_tasks.json"),
		logger:      logger,
	}
	// Probe both files once so unreadable storage fails at boot while
	// corrupt-but-readable files just log and start empty.
	if _, err := s.loadLocked(s.activePath); err != nil {
		return nil, err
	}
	if _, err := s.loadLocked(s.archivePath); err != nil {
		return nil, err
	}
	return s, nil
}

// loadLocked reads one file, downgrading corruption to a logged warning.
func (s *Store) loadLocked(path string) ([]Task, error) {
	tasks, err := LoadFile(path)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			s.logger.Printf("[store] %v; continuing with empty list", err)
			return []Task{}, nil
		}
		return nil, err
	}
	return tasks, nil
}

func (s *Store) loadBothLocked() (active, archive []Task, err error) {
	active, err = s.loadLocked(s.activePath)
	if err != nil {
		return nil, nil, err
	}
	archive, err = s.loadLocked(s.archivePath)
	if err != nil {
		return nil, nil, err
	}
	return active, archive, nil
}

func nextIDFrom(active, archive []Task) int {
	max := 0
	for _, t := range active {
		if n := t.numericID(); n > max {
			max = n
		}
	}
	for _, t := range archive {
		if n := t.numericID(); n > max {
			max = n
		}
	}
	return max + 1
}

// NextID scans both files fresh on every call. O(n), but it survives process
// restarts without a counter file and task volumes are small.
func (s *Store) NextID() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, archive, err := s.loadBothLocked()
	if err != nil {
		return 0, err
	}
	return nextIDFrom(active, archive), nil
}

// Add creates a task in the active file. dueAt strictly before now is
// rejected with ErrPastDue.
func (s *Store) Add(title string, dueAt, now time.Time) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	if dueAt.Before(now) {
		return Task{}, ErrPastDue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	active, archive, err := s.loadBothLocked()
	if err != nil {
		return Task{}, err
	}

	t := Task{
		ID:    strconv.Itoa(nextIDFrom(active, archive)),
		Title: title,
		DueAt: NewDueTime(dueAt),
		Sent:  false,
	}
	active = append(active, t)
	if err := SaveFile(s.activePath, active); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Delete removes a task from the active file. Archived tasks are not
// deletable.
func (s *Store) Delete(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.loadLocked(s.activePath)
	if err != nil {
		return Task{}, err
	}

	keep := make([]Task, 0, len(active))
	var removed *Task
	for _, t := range active {
		if removed == nil && t.ID == id {
			tt := t
			removed = &tt
			continue
		}
		keep = append(keep, t)
	}
	if removed == nil {
		return Task{}, ErrNotFound
	}
	if err := SaveFile(s.activePath, keep); err != nil {
		return Task{}, err
	}
	return *removed, nil
}

func (s *Store) ListActive() ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.loadLocked(s.activePath)
	if err != nil {
		return nil, err
	}
	sortByDue(active)
	return active, nil
}

func (s *Store) ListArchive() ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	archive, err := s.loadLocked(s.archivePath)
	if err != nil {
		return nil, err
	}
	sortByDue(archive)
	return archive, nil
}

// SweepResult summarizes one scan cycle.
type SweepResult struct {
	Scanned   int
	Due       int
	Delivered int
	Failed    int
	Remaining int
}

// Sweep runs one alert cycle: every active task due within the lookahead
// window is handed to deliver. Success flips sent=true and moves the task to
// the archive; failure keeps it active and unsent for the next cycle. Both
// files are rewritten exactly once, at the end, so a crash mid-cycle loses at
// most one cycle of transitions.
//
// The store mutex is held for the whole cycle, deliveries included; it is
// the serialization boundary between the scheduler and the command handlers,
// so deliver must come back quickly (callers bound it with a timeout).
func (s *Store) Sweep(now time.Time, lookahead time.Duration, deliver func(Task) error) (SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, archive, err := s.loadBothLocked()
	if err != nil {
		return SweepResult{}, err
	}

	res := SweepResult{Scanned: len(active)}
	keep := make([]Task, 0, len(active))
	for _, t := range active {
		if !t.DueWithin(now, lookahead) {
			keep = append(keep, t)
			continue
		}
		res.Due++
		if err := deliver(t); err != nil {
			s.logger.Printf("[store] deliver reminder for task %s failed, keeping active: %v", t.ID, err)
			res.Failed++
			keep = append(keep, t)
			continue
		}
		t.Sent = true
		archive = append(archive, t)
		res.Delivered++
	}
	res.Remaining = len(keep)

	if err := SaveFile(s.activePath, keep); err != nil {
		return res, err
	}
	if err := SaveFile(s.archivePath, archive); err != nil {
		return res, err
	}
	return res, nil
}
