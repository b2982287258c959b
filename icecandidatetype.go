package webrtc

import "github.com/webrtcbin/peerconn/pkg/rtcerr"

// ICECandidateType is the RFC 8445 §5.1.1 candidate type.
type ICECandidateType int

const (
	ICECandidateTypeHost ICECandidateType = iota + 1
	ICECandidateTypeSrflx
	ICECandidateTypePrflx
	ICECandidateTypeRelay
)

func (t ICECandidateType) String() string {
	switch t {
	case ICECandidateTypeHost:
		return "host"
	case ICECandidateTypeSrflx:
		return "srflx"
	case ICECandidateTypePrflx:
		return "prflx"
	case ICECandidateTypeRelay:
		return "relay"
	default:
		return "unknown"
	}
}

func newICECandidateType(raw string) (ICECandidateType, error) {
	switch raw {
	case "host":
		return ICECandidateTypeHost, nil
	case "srflx":
		return ICECandidateTypeSrflx, nil
	case "prflx":
		return ICECandidateTypePrflx, nil
	case "relay":
		return ICECandidateTypeRelay, nil
	default:
		return 0, &rtcerr.TypeError{Err: ErrICECandidateTypeUnknown}
	}
}
