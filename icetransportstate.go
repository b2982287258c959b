package webrtc

import "github.com/pion/ice/v4"

// ICETransportState is the state of a Transport's ICE half (spec.md §3,
// folded into connection_state by the StateCollator per §4.5).
type ICETransportState int

const (
	ICETransportStateUnknown ICETransportState = iota
	ICETransportStateNew
	ICETransportStateChecking
	ICETransportStateConnected
	ICETransportStateCompleted
	ICETransportStateFailed
	ICETransportStateDisconnected
	ICETransportStateClosed
)

func (s ICETransportState) String() string {
	switch s {
	case ICETransportStateNew:
		return "new"
	case ICETransportStateChecking:
		return "checking"
	case ICETransportStateConnected:
		return "connected"
	case ICETransportStateCompleted:
		return "completed"
	case ICETransportStateFailed:
		return "failed"
	case ICETransportStateDisconnected:
		return "disconnected"
	case ICETransportStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

func newICETransportStateFromICE(s ice.ConnectionState) ICETransportState {
	switch s {
	case ice.ConnectionStateNew:
		return ICETransportStateNew
	case ice.ConnectionStateChecking:
		return ICETransportStateChecking
	case ice.ConnectionStateConnected:
		return ICETransportStateConnected
	case ice.ConnectionStateCompleted:
		return ICETransportStateCompleted
	case ice.ConnectionStateFailed:
		return ICETransportStateFailed
	case ice.ConnectionStateDisconnected:
		return ICETransportStateDisconnected
	case ice.ConnectionStateClosed:
		return ICETransportStateClosed
	default:
		return ICETransportStateUnknown
	}
}
