package webrtc

import "sync/atomic"

// atomicUint64 hands out unique Transport session ids.
type atomicUint64 struct {
	v uint64
}

func (u *atomicUint64) inc() uint64 {
	return atomic.AddUint64(&u.v, 1)
}

func (u *atomicUint64) get() uint64 {
	return atomic.LoadUint64(&u.v)
}
