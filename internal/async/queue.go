// Package async implements the Promise state machine, the FIFO microtask
// queue, `await` resumption, and the promise combinators (§4.7 Async
// Driver). It drives generator-shaped goroutine suspension the same way
// internal/genvm drives `yield` — see Driver.RunAsync for the handshake.
package async

// Queue is the engine's FIFO microtask queue (§3 Promise, §5 Ordering:
// "microtasks run in FIFO order; resolutions created earlier fire earlier").
type Queue struct {
	jobs []func()
}

func NewQueue() *Queue { return &Queue{} }

func (q *Queue) Enqueue(job func()) { q.jobs = append(q.jobs, job) }

func (q *Queue) Empty() bool { return len(q.jobs) == 0 }

// Drain runs queued microtasks to completion, including any further
// microtasks a running job enqueues, until the queue is empty (§4.8: "If
// evaluation yields a pending promise ... drains microtasks until settled
// or the queue is idle").
func (q *Queue) Drain() {
	for !q.Empty() {
		job := q.jobs[0]
		q.jobs = q.jobs[1:]
		job()
	}
}
