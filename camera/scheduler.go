package camera

import (
	"sync"
	"sync/atomic"
)

// Step advances a task by one frame and reports whether it has finished.
type Step func(dt float64) bool

// Task is a resumable per-frame effect owned by a Scheduler.
type Task struct {
	step     Step
	key      any
	done     atomic.Bool
	canceled atomic.Bool
}

// Cancel stops the task before its next step. Safe on nil.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.canceled.Store(true)
	t.done.Store(true)
}

func (t *Task) Done() bool {
	return t == nil || t.done.Load()
}

func (t *Task) Canceled() bool {
	return t != nil && t.canceled.Load()
}

// Scheduler runs tasks once per tick in the order they were started. Start
// and Cancel may be called from any goroutine; Advance is driven from
// Camera.Move and steps tasks outside the lock, so a step may start or cancel
// tasks itself.
type Scheduler struct {
	mu      sync.Mutex
	tasks   []*Task
	pending []*Task
	keyed   map[any]*Task
}

func NewScheduler() *Scheduler {
	return &Scheduler{keyed: map[any]*Task{}}
}

// Start queues step. Tasks started while the scheduler is advancing take
// their first step on the next tick.
func (s *Scheduler) Start(step Step) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(nil, step)
}

// StartKeyed queues step after canceling any live task started with the same
// key.
func (s *Scheduler) StartKeyed(key any, step Step) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key != nil {
		s.cancelLocked(key)
	}
	return s.startLocked(key, step)
}

// Cancel stops the live task registered under key, if any.
func (s *Scheduler) Cancel(key any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(key)
}

// Running returns the live task registered under key.
func (s *Scheduler) Running(key any) (*Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.keyed[key]
	if !ok || t.Done() {
		return nil, false
	}
	return t, true
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.Done() {
			n++
		}
	}
	for _, t := range s.pending {
		if !t.Done() {
			n++
		}
	}
	return n
}

// Advance steps every live task once.
func (s *Scheduler) Advance(dt float64) {
	s.mu.Lock()
	if len(s.pending) > 0 {
		s.tasks = append(s.tasks, s.pending...)
		s.pending = nil
	}
	running := make([]*Task, len(s.tasks))
	copy(running, s.tasks)
	s.mu.Unlock()

	for _, t := range running {
		if t.Done() {
			continue
		}
		if t.step(dt) {
			t.done.Store(true)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.Done() {
			live = append(live, t)
			continue
		}
		if t.key != nil && s.keyed[t.key] == t {
			delete(s.keyed, t.key)
		}
	}
	clear(s.tasks[len(live):])
	s.tasks = live
}

func (s *Scheduler) cancelLocked(key any) bool {
	if key == nil {
		return false
	}
	t, ok := s.keyed[key]
	if !ok {
		return false
	}
	delete(s.keyed, key)
	t.Cancel()
	return true
}

func (s *Scheduler) startLocked(key any, step Step) *Task {
	t := &Task{step: step, key: key}
	if step == nil {
		t.done.Store(true)
		return t
	}
	s.pending = append(s.pending, t)
	if key != nil {
		s.keyed[key] = t
	}
	return t
}
