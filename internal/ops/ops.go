// Package ops provides the single-producer FIFO the peer-connection
// orchestrator serialises state-changing operations through (SetRemote,
// maybe-start-SCTP, and so on) so they never interleave.
package ops

import (
	"container/list"
	"sync"
)

// Operation is a unit of serialised work.
type Operation func()

// Ops is a task executor: enqueued operations run in order, one at a
// time, on a goroutine this package owns. Enqueue never blocks the
// caller, so an operation enqueueing another operation (e.g. a retry)
// cannot deadlock against itself.
type Ops struct {
	mu       sync.Mutex
	busyCh   chan struct{}
	queue    *list.List
	isClosed bool
}

// New returns a ready-to-use Ops.
func New() *Ops {
	return &Ops{queue: list.New()}
}

// Enqueue schedules op to run. If the queue is idle, execution starts
// immediately on a new goroutine. If the queue has been closed, op is
// dropped.
func (o *Ops) Enqueue(op Operation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tryEnqueue(op)
}

func (o *Ops) tryEnqueue(op Operation) bool {
	if op == nil || o.isClosed {
		return false
	}
	o.queue.PushBack(op)

	if o.busyCh == nil {
		o.busyCh = make(chan struct{})
		go o.run()
	}
	return true
}

// IsEmpty reports whether the queue currently holds no pending operations.
func (o *Ops) IsEmpty() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.queue.Len() == 0
}

// Done blocks until every operation enqueued so far has finished running.
func (o *Ops) Done() {
	var wg sync.WaitGroup
	wg.Add(1)
	o.mu.Lock()
	enqueued := o.tryEnqueue(func() { wg.Done() })
	o.mu.Unlock()
	if !enqueued {
		return
	}
	wg.Wait()
}

// Close waits for the queue to drain and forbids further enqueues.
func (o *Ops) Close() {
	o.mu.Lock()
	if o.isClosed {
		o.mu.Unlock()
		return
	}
	o.isClosed = true
	busyCh := o.busyCh
	o.mu.Unlock()

	if busyCh != nil {
		<-busyCh
	}
}

func (o *Ops) pop() Operation {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.queue.Len() == 0 {
		return nil
	}
	e := o.queue.Front()
	o.queue.Remove(e)
	if op, ok := e.Value.(Operation); ok {
		return op
	}
	return nil
}

func (o *Ops) run() {
	defer func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		close(o.busyCh)

		if o.queue.Len() == 0 || o.isClosed {
			o.busyCh = nil
			return
		}
		// An operation enqueued more work while we were busy.
		o.busyCh = make(chan struct{})
		go o.run()
	}()

	for fn := o.pop(); fn != nil; fn = o.pop() {
		fn()
	}
}
