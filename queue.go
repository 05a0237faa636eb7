package drawq

import "sync"

// jobQueue is the FIFO of pending draw jobs. Producers are arbitrary
// goroutines; the single consumer is the render-context owner draining
// via Canvas.Update. The mutex is held only for slice manipulation,
// never across backend calls, so enqueueing never blocks on I/O.
//
// Jobs are executed in the exact order they were appended, globally
// across all producers. Later jobs may assume earlier jobs already
// painted (a clear must precede overlapping draws), which is why the
// order is total rather than per-producer.
type jobQueue struct {
	mu   sync.Mutex
	jobs []Job
}

// push appends a fully-formed job to the tail.
func (q *jobQueue) push(j Job) {
	q.mu.Lock()
	q.jobs = append(q.jobs, j)
	q.mu.Unlock()
}

// pending reports whether the queue is non-empty without consuming it.
func (q *jobQueue) pending() bool {
	q.mu.Lock()
	n := len(q.jobs)
	q.mu.Unlock()
	return n > 0
}

// detach atomically removes and returns the current queue contents in
// FIFO order. Jobs enqueued after detach returns land in a fresh slice.
func (q *jobQueue) detach() []Job {
	q.mu.Lock()
	jobs := q.jobs
	q.jobs = nil
	q.mu.Unlock()
	return jobs
}

// requeue puts undispatched jobs back at the head, ahead of anything
// enqueued since the detach. Used when a backend error aborts a drain
// pass: the remainder is retried on the next Update call.
func (q *jobQueue) requeue(jobs []Job) {
	if len(jobs) == 0 {
		return
	}
	q.mu.Lock()
	q.jobs = append(jobs[:len(jobs):len(jobs)], q.jobs...)
	q.mu.Unlock()
}
