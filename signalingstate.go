package webrtc

import (
	"fmt"

	"github.com/webrtcbin/peerconn/pkg/rtcerr"
)

// SignalingState indicates the state of the offer/answer negotiation.
// Initial state is SignalingStateStable (spec.md §3).
type SignalingState int

const (
	// SignalingStateStable indicates no offer/answer exchange is in
	// progress; both local and remote pending descriptions are nil.
	SignalingStateStable SignalingState = iota + 1
	SignalingStateHaveLocalOffer
	SignalingStateHaveRemoteOffer
	SignalingStateHaveLocalPranswer
	SignalingStateHaveRemotePranswer
	SignalingStateClosed
)

func (s SignalingState) String() string {
	switch s {
	case SignalingStateStable:
		return "stable"
	case SignalingStateHaveLocalOffer:
		return "have-local-offer"
	case SignalingStateHaveRemoteOffer:
		return "have-remote-offer"
	case SignalingStateHaveLocalPranswer:
		return "have-local-pranswer"
	case SignalingStateHaveRemotePranswer:
		return "have-remote-pranswer"
	case SignalingStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// stateChangeOp distinguishes which half of the description pair (local or
// remote) is being applied; the valid-transition table in spec.md §4.1
// depends on both the operand and the SDPType being applied.
type stateChangeOp int

const (
	stateChangeOpSetLocal stateChangeOp = iota + 1
	stateChangeOpSetRemote
)

func (op stateChangeOp) String() string {
	if op == stateChangeOpSetLocal {
		return "SetLocal"
	}
	return "SetRemote"
}

// SDPType describes the type of a SessionDescription.
type SDPType int

const (
	SDPTypeOffer SDPType = iota + 1
	SDPTypePranswer
	SDPTypeAnswer
	SDPTypeRollback
)

func (t SDPType) String() string {
	switch t {
	case SDPTypeOffer:
		return "offer"
	case SDPTypePranswer:
		return "pranswer"
	case SDPTypeAnswer:
		return "answer"
	case SDPTypeRollback:
		return "rollback"
	default:
		return "unknown"
	}
}

// checkNextSignalingState validates a proposed (current, op, sdpType) ->
// next transition against the table in spec.md §4.1. Any transition not
// listed there fails with invalid-state.
func checkNextSignalingState(cur, next SignalingState, op stateChangeOp, sdpType SDPType) (SignalingState, error) {
	if sdpType == SDPTypeRollback {
		if cur == SignalingStateStable {
			return cur, &rtcerr.InvalidStateError{Err: fmt.Errorf("%w: cannot rollback from stable", ErrInvalidSignalingState)}
		}
		return SignalingStateStable, nil
	}

	switch cur {
	case SignalingStateStable:
		switch {
		case op == stateChangeOpSetLocal && sdpType == SDPTypeOffer && next == SignalingStateHaveLocalOffer:
			return next, nil
		case op == stateChangeOpSetRemote && sdpType == SDPTypeOffer && next == SignalingStateHaveRemoteOffer:
			return next, nil
		}

	case SignalingStateHaveLocalOffer:
		switch {
		case op == stateChangeOpSetLocal && sdpType == SDPTypeOffer && next == SignalingStateHaveLocalOffer:
			return next, nil
		case op == stateChangeOpSetRemote && sdpType == SDPTypeAnswer && next == SignalingStateStable:
			return next, nil
		case op == stateChangeOpSetRemote && sdpType == SDPTypePranswer && next == SignalingStateHaveRemotePranswer:
			return next, nil
		}

	case SignalingStateHaveRemoteOffer:
		switch {
		case op == stateChangeOpSetRemote && sdpType == SDPTypeOffer && next == SignalingStateHaveRemoteOffer:
			return next, nil
		case op == stateChangeOpSetLocal && sdpType == SDPTypeAnswer && next == SignalingStateStable:
			return next, nil
		case op == stateChangeOpSetLocal && sdpType == SDPTypePranswer && next == SignalingStateHaveLocalPranswer:
			return next, nil
		}

	case SignalingStateHaveLocalPranswer:
		if op == stateChangeOpSetLocal {
			switch {
			case sdpType == SDPTypePranswer && next == SignalingStateHaveLocalPranswer:
				return next, nil
			case sdpType == SDPTypeAnswer && next == SignalingStateStable:
				return next, nil
			}
		}

	case SignalingStateHaveRemotePranswer:
		if op == stateChangeOpSetRemote {
			switch {
			case sdpType == SDPTypePranswer && next == SignalingStateHaveRemotePranswer:
				return next, nil
			case sdpType == SDPTypeAnswer && next == SignalingStateStable:
				return next, nil
			}
		}
	}

	return cur, &rtcerr.InvalidStateError{
		Err: fmt.Errorf("%w: %s->%s(%s)->%s", ErrInvalidSignalingState, cur, op, sdpType, next),
	}
}
