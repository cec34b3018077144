package service

import (
	"sync"

	"gacha-system/logger"

	"go.uber.org/atomic"
)

// TaskQueue runs deferred best-effort work (prefetch refills, derived
// view propagation) on a fixed pool of workers. Failures stay inside
// the task, nothing here ever reaches a user-visible response.
type TaskQueue struct {
	tasks   chan queuedTask
	pending sync.WaitGroup
	workers sync.WaitGroup

	// mu is held read-side across the whole submit path so Stop can
	// wait out in-flight sends before closing the channel
	mu     sync.RWMutex
	closed atomic.Bool
}

type queuedTask struct {
	name string
	run  func()
}

func NewTaskQueue(workers, depth int) *TaskQueue {
	if workers <= 0 {
		workers = 4
	}
	if depth <= 0 {
		depth = 256
	}
	q := &TaskQueue{
		tasks: make(chan queuedTask, depth),
	}
	for range workers {
		q.workers.Add(1)
		go q.work()
	}
	return q
}

func (q *TaskQueue) work() {
	defer q.workers.Done()
	for task := range q.tasks {
		q.runOne(task)
	}
}

func (q *TaskQueue) runOne(task queuedTask) {
	defer q.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("background task ", task.name, " panicked: ", r)
		}
	}()
	task.run()
}

// Submit enqueues run without blocking the caller. When the queue is
// full or stopped the task is dropped and logged, the queue only
// carries best-effort work.
func (q *TaskQueue) Submit(name string, run func()) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed.Load() {
		logger.Debug("task queue stopped, dropping ", name)
		return
	}
	q.pending.Add(1)
	select {
	case q.tasks <- queuedTask{name: name, run: run}:
	default:
		q.pending.Done()
		logger.Warning("task queue full, dropping ", name)
	}
}

// Drain waits until every accepted task has finished. Tests use it to
// assert on derived-view state deterministically.
func (q *TaskQueue) Drain() {
	q.pending.Wait()
}

func (q *TaskQueue) Stop() {
	if !q.closed.CompareAndSwap(false, true) {
		return
	}
	// the write lock waits out submits that read closed before the
	// swap, no send can race the close
	q.mu.Lock()
	q.pending.Wait()
	close(q.tasks)
	q.mu.Unlock()
	q.workers.Wait()
}
