package scheduler

import (
	"sync"

	"golang.org/x/sync/semaphore"
)

// JobLock gives each named job a weight-1 semaphore so overlapping schedule
// triggers of the same job never run concurrently. Acquisition is
// non-blocking: an overlapping trigger is skipped, not queued, because the
// next scheduled run covers the same work anyway.
type JobLock struct {
	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

func NewJobLock() *JobLock {
	return &JobLock{sems: make(map[string]*semaphore.Weighted)}
}

func (l *JobLock) sem(name string) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sems[name]
	if !ok {
		s = semaphore.NewWeighted(1)
		l.sems[name] = s
	}
	return s
}

// TryAcquire attempts to take the lock for a job name without blocking.
// Callers that get true must call Release when the run finishes.
func (l *JobLock) TryAcquire(name string) bool {
	return l.sem(name).TryAcquire(1)
}

// Release returns the lock for a job name.
func (l *JobLock) Release(name string) {
	l.sem(name).Release(1)
}
