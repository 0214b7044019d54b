package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"sentinel-portal/models"
)

const defaultMaxTrackedRuns = 1000

type trackedRun struct {
	run models.Run
	fsm *RunStateMachine
}

// RunTracker keeps the status of recent runs in memory for polling.
// Once more than limit runs are held, the oldest finished one is forgotten.
type RunTracker struct {
	mu    sync.Mutex
	runs  map[uuid.UUID]*trackedRun
	order []uuid.UUID
	limit int
	now   func() time.Time
}

// NewRunTracker creates a tracker holding at most limit runs
func NewRunTracker(limit int) *RunTracker {
	if limit <= 0 {
		limit = defaultMaxTrackedRuns
	}
	return &RunTracker{
		runs:  make(map[uuid.UUID]*trackedRun),
		limit: limit,
		now:   time.Now,
	}
}

// Start registers a new run and moves it to running
func (t *RunTracker) Start(filename string) (models.Run, error) {
	id := uuid.New()
	fsm, err := NewRunStateMachine(id.String())
	if err != nil {
		return models.Run{}, err
	}
	if err := fsm.Transition(EventStart); err != nil {
		return models.Run{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	tr := &trackedRun{
		run: models.Run{
			ID:        id,
			Status:    fsm.Status(),
			Filename:  filename,
			CreatedAt: now,
			UpdatedAt: now,
		},
		fsm: fsm,
	}
	t.runs[id] = tr
	t.order = append(t.order, id)
	t.evictLocked()

	return tr.run, nil
}

// Succeed marks a run as done
func (t *RunTracker) Succeed(id uuid.UUID) (models.Run, error) {
	return t.finish(id, EventSucceed, nil)
}

// Fail marks a run as errored and records why
func (t *RunTracker) Fail(id uuid.UUID, message string) (models.Run, error) {
	return t.finish(id, EventFail, &message)
}

func (t *RunTracker) finish(id uuid.UUID, event string, message *string) (models.Run, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tr, ok := t.runs[id]
	if !ok {
		return models.Run{}, ErrRunNotFound
	}
	if err := tr.fsm.Transition(event); err != nil {
		return tr.run, err
	}

	now := t.now()
	tr.run.Status = tr.fsm.Status()
	tr.run.ErrorMessage = message
	tr.run.UpdatedAt = now
	tr.run.CompletedAt = &now
	return tr.run, nil
}

// Get returns a snapshot of a run
func (t *RunTracker) Get(id uuid.UUID) (models.Run, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tr, ok := t.runs[id]
	if !ok {
		return models.Run{}, ErrRunNotFound
	}
	return tr.run, nil
}

// Len is the number of runs held
func (t *RunTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.runs)
}

func (t *RunTracker) evictLocked() {
	for len(t.runs) > t.limit {
		victim := -1
		for i, id := range t.order {
			if t.runs[id].run.Status != models.RunStatusRunning {
				victim = i
				break
			}
		}
		if victim < 0 {
			// everything is in flight; drop the oldest anyway
			victim = 0
		}
		delete(t.runs, t.order[victim])
		t.order = append(t.order[:victim], t.order[victim+1:]...)
	}
}
