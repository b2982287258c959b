package webrtc

import "github.com/webrtcbin/peerconn/pkg/rtcerr"

// ICERole indicates whether a Transport's ICE agent acts as the
// controlling or controlled agent (RFC 8445 §3).
type ICERole int

const (
	ICERoleControlling ICERole = iota + 1
	ICERoleControlled
)

func (r ICERole) String() string {
	if r == ICERoleControlled {
		return "controlled"
	}
	return "controlling"
}

// ICEProtocol is the transport protocol a candidate was gathered over.
type ICEProtocol int

const (
	ICEProtocolUDP ICEProtocol = iota + 1
	ICEProtocolTCP
)

func (p ICEProtocol) String() string {
	if p == ICEProtocolTCP {
		return "tcp"
	}
	return "udp"
}

// NewICEProtocol parses the protocol token of a candidate-attribute line.
func NewICEProtocol(raw string) (ICEProtocol, error) {
	switch raw {
	case "udp", "UDP":
		return ICEProtocolUDP, nil
	case "tcp", "TCP":
		return ICEProtocolTCP, nil
	default:
		return 0, &rtcerr.TypeError{Err: ErrICEProtocolUnknown}
	}
}
