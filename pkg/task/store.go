// Package task implements the in-memory task-status store backing the
// async HTTP surface: a POST accepts a work id and returns a task handle,
// a GET polls it. The store itself is a trivial background-sweeper over a
// map, deliberately excluded from the core's interesting work; it exists
// here only so the async boundary is real end to end.
package task

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is a task's lifecycle state.
type Status string

// The three states a task may be in.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Task is a single unit of async work: a transform run for one work id.
type Task struct {
	ID        string
	WorkID    string
	Status    Status
	Result    any
	Err       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a request-scoped-free, process-wide map of task handles to
// their current state, with a background sweeper that evicts completed or
// failed records last updated more than TTL ago; pending records are never
// evicted. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]*Task
	ttl   time.Duration

	stop chan struct{}
	once sync.Once
}

// NewStore returns a Store whose background sweeper goroutine runs every
// sweepInterval and evicts completed or failed tasks last updated more
// than ttl ago.
func NewStore(ttl, sweepInterval time.Duration) *Store {
	s := &Store{
		tasks: make(map[string]*Task),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}

	go s.sweepLoop(sweepInterval)

	return s
}

// Create allocates a new pending task handle for workID.
func (s *Store) Create(workID string) *Task {
	now := time.Now()

	t := &Task{
		ID:        uuid.NewString(),
		WorkID:    workID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.tasks[t.ID] = t
	s.mu.Unlock()

	return t
}

// Complete records a successful result for taskID. A no-op if the task is
// unknown (already evicted, or never existed).
func (s *Store) Complete(taskID string, result any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return
	}

	t.Status = StatusCompleted
	t.Result = result
	t.UpdatedAt = time.Now()
}

// Fail records a failed result for taskID.
func (s *Store) Fail(taskID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return
	}

	t.Status = StatusFailed
	t.Err = err.Error()
	t.UpdatedAt = time.Now()
}

// Get returns taskID's current state and whether it was found.
func (s *Store) Get(taskID string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return Task{}, false
	}

	return *t, true
}

// Close stops the background sweeper. Idempotent.
func (s *Store) Close() {
	s.once.Do(func() {
		close(s.stop)
	})
}

func (s *Store) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *Store) sweep() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tasks {
		if t.Status != StatusPending && t.UpdatedAt.Before(cutoff) {
			delete(s.tasks, id)
		}
	}
}
