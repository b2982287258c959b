package webrtc

// ICEGatheringState is the aggregated gathering state across every
// non-stopped transceiver's Transport (spec.md §4.5).
type ICEGatheringState int

const (
	ICEGatheringStateNew ICEGatheringState = iota + 1
	ICEGatheringStateGathering
	ICEGatheringStateComplete
)

func (s ICEGatheringState) String() string {
	switch s {
	case ICEGatheringStateGathering:
		return "gathering"
	case ICEGatheringStateComplete:
		return "complete"
	default:
		return "new"
	}
}

// ICEConnectionState is the aggregated ICE-connection state (spec.md §4.5).
type ICEConnectionState int

const (
	ICEConnectionStateNew ICEConnectionState = iota + 1
	ICEConnectionStateChecking
	ICEConnectionStateConnected
	ICEConnectionStateDisconnected
	ICEConnectionStateFailed
	ICEConnectionStateClosed
)

func (s ICEConnectionState) String() string {
	switch s {
	case ICEConnectionStateChecking:
		return "checking"
	case ICEConnectionStateConnected:
		return "connected"
	case ICEConnectionStateDisconnected:
		return "disconnected"
	case ICEConnectionStateFailed:
		return "failed"
	case ICEConnectionStateClosed:
		return "closed"
	default:
		return "new"
	}
}

// PeerConnectionState is the aggregated connection state folding both ICE
// and DTLS substates (spec.md §4.5).
type PeerConnectionState int

const (
	PeerConnectionStateNew PeerConnectionState = iota + 1
	PeerConnectionStateConnecting
	PeerConnectionStateConnected
	PeerConnectionStateDisconnected
	PeerConnectionStateFailed
	PeerConnectionStateClosed
)

func (s PeerConnectionState) String() string {
	switch s {
	case PeerConnectionStateConnecting:
		return "connecting"
	case PeerConnectionStateConnected:
		return "connected"
	case PeerConnectionStateDisconnected:
		return "disconnected"
	case PeerConnectionStateFailed:
		return "failed"
	case PeerConnectionStateClosed:
		return "closed"
	default:
		return "new"
	}
}

// stateCollator folds the (ice, dtls) substate pairs of every non-stopped
// transceiver's Transport into the three aggregated properties spec.md
// §4.5 defines. It holds no transport references itself — PeerConnection
// calls collate after any Transport notification, passing a fresh
// snapshot, which keeps the fold free of locking concerns of its own.
type stateCollator struct{}

type transportSnapshot struct {
	ice  ICETransportState
	dtls DTLSTransportState
}

func (stateCollator) gatheringState(snaps []transportSnapshot) ICEGatheringState {
	if len(snaps) == 0 {
		return ICEGatheringStateNew
	}
	allComplete := true
	anyGathering := false
	for _, s := range snaps {
		switch s.ice {
		case ICETransportStateCompleted, ICETransportStateConnected, ICETransportStateClosed:
		default:
			allComplete = false
		}
		if s.ice == ICETransportStateChecking || s.ice == ICETransportStateNew {
			anyGathering = true
		}
	}
	if allComplete {
		return ICEGatheringStateComplete
	}
	if anyGathering {
		return ICEGatheringStateGathering
	}
	return ICEGatheringStateNew
}

func (stateCollator) connectionState(snaps []transportSnapshot, closed bool) ICEConnectionState {
	if closed {
		return ICEConnectionStateClosed
	}
	if len(snaps) == 0 {
		return ICEConnectionStateNew
	}

	any := func(pred func(ICETransportState) bool) bool {
		for _, s := range snaps {
			if pred(s.ice) {
				return true
			}
		}
		return false
	}
	all := func(pred func(ICETransportState) bool) bool {
		for _, s := range snaps {
			if !pred(s.ice) {
				return false
			}
		}
		return true
	}

	switch {
	case any(func(s ICETransportState) bool { return s == ICETransportStateFailed }):
		return ICEConnectionStateFailed
	case any(func(s ICETransportState) bool { return s == ICETransportStateDisconnected }):
		return ICEConnectionStateDisconnected
	case any(func(s ICETransportState) bool { return s == ICETransportStateChecking }):
		return ICEConnectionStateChecking
	case any(func(s ICETransportState) bool { return s == ICETransportStateNew }) ||
		all(func(s ICETransportState) bool { return s == ICETransportStateClosed }):
		return ICEConnectionStateNew
	case all(func(s ICETransportState) bool {
		return s == ICETransportStateConnected || s == ICETransportStateCompleted || s == ICETransportStateClosed
	}) && any(func(s ICETransportState) bool { return s == ICETransportStateConnected }):
		return ICEConnectionStateConnected
	case all(func(s ICETransportState) bool {
		return s == ICETransportStateCompleted || s == ICETransportStateClosed
	}) && any(func(s ICETransportState) bool { return s == ICETransportStateCompleted }):
		return ICEConnectionStateConnected
	default:
		return ICEConnectionStateNew
	}
}

func (stateCollator) peerConnectionState(snaps []transportSnapshot, closed bool) PeerConnectionState {
	if closed {
		return PeerConnectionStateClosed
	}
	if len(snaps) == 0 {
		return PeerConnectionStateNew
	}

	anyICE := func(pred func(ICETransportState) bool) bool {
		for _, s := range snaps {
			if pred(s.ice) {
				return true
			}
		}
		return false
	}
	anyDTLS := func(pred func(DTLSTransportState) bool) bool {
		for _, s := range snaps {
			if pred(s.dtls) {
				return true
			}
		}
		return false
	}
	allICE := func(pred func(ICETransportState) bool) bool {
		for _, s := range snaps {
			if !pred(s.ice) {
				return false
			}
		}
		return true
	}
	allDTLS := func(pred func(DTLSTransportState) bool) bool {
		for _, s := range snaps {
			if !pred(s.dtls) {
				return false
			}
		}
		return true
	}

	switch {
	case anyICE(func(s ICETransportState) bool { return s == ICETransportStateFailed }) ||
		anyDTLS(func(s DTLSTransportState) bool { return s == DTLSTransportStateFailed }):
		return PeerConnectionStateFailed
	case anyICE(func(s ICETransportState) bool { return s == ICETransportStateChecking }) ||
		anyDTLS(func(s DTLSTransportState) bool { return s == DTLSTransportStateConnecting }):
		return PeerConnectionStateConnecting
	case anyICE(func(s ICETransportState) bool { return s == ICETransportStateDisconnected }):
		return PeerConnectionStateDisconnected
	case allICE(func(s ICETransportState) bool {
		return s == ICETransportStateConnected || s == ICETransportStateCompleted || s == ICETransportStateClosed
	}) && allDTLS(func(s DTLSTransportState) bool {
		return s == DTLSTransportStateConnected || s == DTLSTransportStateClosed
	}) && (anyICE(func(s ICETransportState) bool { return s == ICETransportStateConnected }) ||
		anyDTLS(func(s DTLSTransportState) bool { return s == DTLSTransportStateConnected })):
		return PeerConnectionStateConnected
	default:
		return PeerConnectionStateNew
	}
}
