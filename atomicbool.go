package webrtc

import "sync/atomic"

// atomicBool is a thread-safe bool, used for flags read and written from
// both the task-queue worker and embedder-facing getters (is_closed,
// need_negotiation).
type atomicBool struct {
	v int32
}

func (b *atomicBool) set(value bool) {
	i := int32(0)
	if value {
		i = 1
	}
	atomic.StoreInt32(&b.v, i)
}

func (b *atomicBool) get() bool {
	return atomic.LoadInt32(&b.v) != 0
}
