package webrtc

import "container/list"
import "sync"

// operation is a closure enqueued on the task queue. Every operation must
// check isClosed itself before mutating state; the queue does not inspect
// closure bodies.
type operation func()

// operations is the single-consumer FIFO task queue that serializes every
// state-mutating entry point (create-offer, create-answer,
// set-local-description, set-remote-description) so that concurrent
// embedder calls observe the same outcome as some serialization that
// preserves per-caller order (P2, spec.md §5).
type operations struct {
	mu     sync.Mutex
	busyCh chan struct{}
	ops    *list.List

	negotiationNeededOnDrain *atomicBool
	onNegotiationNeeded      func()
	isClosed                 bool
}

func newOperations(negotiationNeededOnDrain *atomicBool, onNegotiationNeeded func()) *operations {
	return &operations{
		ops:                      list.New(),
		negotiationNeededOnDrain: negotiationNeededOnDrain,
		onNegotiationNeeded:      onNegotiationNeeded,
	}
}

// Enqueue adds a new closure to be executed. If the worker is idle it is
// started in a new goroutine. A closed queue silently drops the operation.
func (o *operations) Enqueue(op operation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tryEnqueue(op)
}

// tryEnqueue requires mu to already be held by the caller.
func (o *operations) tryEnqueue(op operation) bool {
	if op == nil || o.isClosed {
		return false
	}

	o.ops.PushBack(op)

	if o.busyCh == nil {
		o.busyCh = make(chan struct{})
		go o.start()
	}

	return true
}

// IsEmpty reports whether the queue currently has no pending closures.
func (o *operations) IsEmpty() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ops.Len() == 0
}

// Done blocks until every closure enqueued up to this call has finished
// executing.
func (o *operations) Done() {
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

// GracefulClose drains whatever is queued, then marks the queue closed so
// no further operation is accepted. Every closure still in flight is
// expected to have already checked is_closed and returned early.
func (o *operations) GracefulClose() {
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

func (o *operations) pop() operation {
	o.mu.Lock()
	defer o.mu.Unlock()

	e := o.ops.Front()
	if e == nil {
		return nil
	}
	o.ops.Remove(e)

	op, _ := e.Value.(operation)
	return op
}

func (o *operations) start() {
	defer func() {
		o.mu.Lock()
		defer o.mu.Unlock()

		close(o.busyCh)

		if o.ops.Len() == 0 || o.isClosed {
			o.busyCh = nil
			return
		}

		// An operation was enqueued while the worker drained the queue;
		// keep the chain alive instead of losing the wakeup.
		o.busyCh = make(chan struct{})
		go o.start()
	}()

	for fn := o.pop(); fn != nil; fn = o.pop() {
		fn()
	}

	if !o.negotiationNeededOnDrain.get() {
		return
	}
	o.negotiationNeededOnDrain.set(false)
	o.onNegotiationNeeded()
}
