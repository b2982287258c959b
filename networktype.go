package webrtc

// NetworkType distinguishes IPv4 from IPv6 candidate addresses, needed when
// reconstructing a pion/ice candidate from an SDP a=candidate line (spec.md
// §4.2 wire format).
type NetworkType int

const (
	NetworkTypeUDP4 NetworkType = iota + 1
	NetworkTypeUDP6
	NetworkTypeTCP4
	NetworkTypeTCP6
)

func (n NetworkType) String() string {
	switch n {
	case NetworkTypeUDP4:
		return "udp4"
	case NetworkTypeUDP6:
		return "udp6"
	case NetworkTypeTCP4:
		return "tcp4"
	case NetworkTypeTCP6:
		return "tcp6"
	default:
		return "unknown"
	}
}
