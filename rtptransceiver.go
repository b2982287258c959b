package webrtc

import (
	"sync"

	"github.com/webrtcbin/peerconn/pkg/rtcerr"
)

// RTPTransceiver is a bidirectional media flow (spec.md §3). Association
// stability (P1) requires mid and mline to be write-once; direction may
// widen but current_direction is only ever set by DescriptionApplier.
type RTPTransceiver struct {
	mu sync.Mutex

	mid   string
	mline *int

	direction        RTPTransceiverDirection
	currentDirection RTPTransceiverDirection

	stopped bool

	codecPreferences []RTPCodecParameters

	// transportID refers to a Transport by the stable id PeerConnection
	// assigns it, not by pointer — spec.md §9's reference-cycle fix.
	transportID uint64
	hasTransport bool

	sender   RtpEndpoint
	receiver RtpEndpoint
}

func newRTPTransceiver(direction RTPTransceiverDirection, codecPreferences []RTPCodecParameters) *RTPTransceiver {
	return &RTPTransceiver{
		direction:        direction,
		currentDirection: RTPTransceiverDirectionNone,
		codecPreferences: codecPreferences,
	}
}

func (t *RTPTransceiver) Mid() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mid
}

// setMid assigns mid once; subsequent calls with a different value are
// rejected to uphold P1.
func (t *RTPTransceiver) setMid(mid string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mid != "" && t.mid != mid {
		return &rtcerr.InvalidModificationError{Err: ErrMidAlreadyAssigned}
	}
	t.mid = mid
	return nil
}

func (t *RTPTransceiver) MLine() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mline == nil {
		return 0, false
	}
	return *t.mline, true
}

func (t *RTPTransceiver) setMLine(idx int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mline != nil && *t.mline != idx {
		return &rtcerr.InvalidModificationError{Err: ErrMlineAlreadyAssigned}
	}
	t.mline = &idx
	return nil
}

func (t *RTPTransceiver) Direction() RTPTransceiverDirection {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.direction
}

// SetDirection widens a transceiver's declared direction; spec.md §3
// requires it never narrows current_direction out from under negotiated
// media, which the caller (PeerConnection) enforces by triggering a
// renegotiation-needed check rather than this setter rejecting narrower
// values outright.
func (t *RTPTransceiver) SetDirection(d RTPTransceiverDirection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.direction = d
}

func (t *RTPTransceiver) CurrentDirection() RTPTransceiverDirection {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentDirection
}

func (t *RTPTransceiver) setCurrentDirection(d RTPTransceiverDirection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentDirection = d
	if t.sender != nil {
		t.sender.SetTransport(t.transportID)
	}
	if t.receiver != nil {
		t.receiver.SetTransport(t.transportID)
	}
}

// bindEndpoints creates this transceiver's sender/receiver endpoints the
// first time negotiation admits the corresponding half of dir, then binds
// each to transport's interceptor chain with the negotiated payload type
// and mime type (spec.md §4.3's per-section apply step, extended to cover
// the endpoint attachment spec.md §6 describes).
func (t *RTPTransceiver) bindEndpoints(dir RTPTransceiverDirection, payloadType uint8, mimeType string, transport *Transport) {
	t.mu.Lock()
	if dir == RTPTransceiverDirectionSendonly || dir == RTPTransceiverDirectionSendrecv {
		if t.sender == nil {
			t.sender = newInputEndpoint(payloadType, mimeType, codecKind(mimeType))
		}
	}
	if dir == RTPTransceiverDirectionRecvonly || dir == RTPTransceiverDirectionSendrecv {
		if t.receiver == nil {
			t.receiver = newOutputEndpoint(payloadType)
		}
	}
	sender, receiver := t.sender, t.receiver
	t.mu.Unlock()

	if transport == nil {
		return
	}
	if in, ok := sender.(*inputEndpoint); ok {
		in.bindInterceptor(transport, 0, mimeType)
	}
	if out, ok := receiver.(*outputEndpoint); ok {
		out.bindInterceptor(transport, 0, mimeType)
	}
}

func (t *RTPTransceiver) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Stop irreversibly stops the transceiver; it may still appear as a
// rejected m-section but never carries media again (spec.md §3).
func (t *RTPTransceiver) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.currentDirection = RTPTransceiverDirectionInactive
}

func (t *RTPTransceiver) CodecPreferences() []RTPCodecParameters {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.codecPreferences
}

func (t *RTPTransceiver) bindTransport(sessionID uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transportID = sessionID
	t.hasTransport = true
}

func (t *RTPTransceiver) TransportID() (uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transportID, t.hasTransport
}
