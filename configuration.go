package webrtc

import (
	"strconv"
	"strings"

	"github.com/pion/stun/v3"
	"github.com/webrtcbin/peerconn/pkg/rtcerr"
)

// ICECredentialType indicates how ICEServer.Credential should be interpreted.
type ICECredentialType int

const (
	// ICECredentialTypePassword indicates Credential is a long-term
	// password, as described in RFC 5389 Section 10.2.
	ICECredentialTypePassword ICECredentialType = iota + 1
	ICECredentialTypeOauth
)

// ICEServer describes a STUN or TURN server forwarded to the ICE agent
// unchanged (spec.md §6): `stun:host:port`, `turn:user:pass@host:port`, or
// `turns:user:pass@host:port`.
type ICEServer struct {
	URLs           []string
	Username       string
	Credential     string
	CredentialType ICECredentialType
}

// parseURL validates that a server URL matches one of the three schemes
// the core forwards verbatim to the ICE agent.
func parseICEServerURL(raw string) error {
	switch {
	case strings.HasPrefix(raw, "stun:"), strings.HasPrefix(raw, "stuns:"):
		return nil
	case strings.HasPrefix(raw, "turn:"), strings.HasPrefix(raw, "turns:"):
		return nil
	default:
		return &rtcerr.TypeError{Err: ErrICEServerInvalidURL}
	}
}

// withDefaultSTUNPort fills in stun/v3's well-known STUN port when a
// `stun:`/`stuns:` URL omits one, the way a bare `stun:host` entry is meant
// to resolve per RFC 5389.
func withDefaultSTUNPort(raw string) string {
	secure := strings.HasPrefix(raw, "stuns:")
	if !secure && !strings.HasPrefix(raw, "stun:") {
		return raw
	}
	host := strings.TrimPrefix(strings.TrimPrefix(raw, "stuns:"), "stun:")
	if _, _, err := splitHostPort(host); err == nil {
		return raw
	}
	port := stun.DefaultPort
	if secure {
		port = stun.DefaultTLSPort
	}
	scheme := "stun:"
	if secure {
		scheme = "stuns:"
	}
	return scheme + host + ":" + strconv.Itoa(port)
}

func splitHostPort(hostport string) (host, port string, err error) {
	idx := strings.LastIndex(hostport, ":")
	if idx < 0 {
		return "", "", &rtcerr.TypeError{Err: ErrICEServerInvalidURL}
	}
	return hostport[:idx], hostport[idx+1:], nil
}

// validate checks the scheme of every URL and fills in the default STUN
// port where the embedder left it off.
func (s ICEServer) validate() error {
	if len(s.URLs) == 0 {
		return &rtcerr.TypeError{Err: ErrICEServerNoURLs}
	}
	for i, u := range s.URLs {
		if err := parseICEServerURL(u); err != nil {
			return err
		}
		s.URLs[i] = withDefaultSTUNPort(u)
	}
	return nil
}

// ICETransportPolicy affects which candidate types the ICE agent gathers.
type ICETransportPolicy int

const (
	ICETransportPolicyAll ICETransportPolicy = iota + 1
	ICETransportPolicyRelay
)

func (p ICETransportPolicy) String() string {
	if p == ICETransportPolicyRelay {
		return "relay"
	}
	return "all"
}

// RTCPMuxPolicy controls whether the core requires RTCP to be multiplexed
// onto the RTP transport (spec.md §3, Transport.rtcp_mux).
type RTCPMuxPolicy int

const (
	RTCPMuxPolicyRequire RTCPMuxPolicy = iota + 1
	RTCPMuxPolicyNegotiate
)

// Configuration describes the options forwarded by the embedder when
// constructing a PeerConnection (spec.md §6).
type Configuration struct {
	ICEServers           []ICEServer
	ICETransportPolicy   ICETransportPolicy
	RTCPMuxPolicy        RTCPMuxPolicy
	Certificates         []Certificate
	ICECandidatePoolSize uint8
}

func (c Configuration) validate() error {
	for _, s := range c.ICEServers {
		if err := s.validate(); err != nil {
			return err
		}
	}
	return nil
}

// mergeConfiguration layers a new Configuration on top of the current one
// for SetConfiguration, rejecting modification of fields the specification
// declares stable once the PeerConnection is constructed.
func mergeConfiguration(cur, next Configuration) (Configuration, error) {
	if len(next.Certificates) > 0 && !certificatesEqual(cur.Certificates, next.Certificates) {
		return cur, &rtcerr.InvalidModificationError{Err: ErrModifyingCertificates}
	}
	if next.ICECandidatePoolSize != 0 && next.ICECandidatePoolSize != cur.ICECandidatePoolSize {
		return cur, &rtcerr.InvalidModificationError{Err: ErrModifyingICECandidatePoolSize}
	}

	merged := cur
	if len(next.ICEServers) > 0 {
		merged.ICEServers = next.ICEServers
	}
	if next.ICETransportPolicy != 0 {
		merged.ICETransportPolicy = next.ICETransportPolicy
	}
	return merged, nil
}

func certificatesEqual(a, b []Certificate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}
