package webrtc

import (
	"fmt"
	"strings"

	"github.com/pion/ice/v4"
)

// ICECandidate mirrors a pion/ice candidate in the shape the core's SDP
// builder and the embedder's add-ice-candidate/on-ice-candidate callbacks
// exchange (spec.md §4.2, §6).
type ICECandidate struct {
	statsID        string
	Foundation     string
	Priority       uint32
	Address        string
	Protocol       ICEProtocol
	Port           uint16
	Typ            ICECandidateType
	Component      uint16
	RelatedAddress string
	RelatedPort    uint16
	TCPType        string
	SDPMid         string
	SDPMLineIndex  uint16
}

func newICECandidatesFromICE(candidates []ice.Candidate, sdpMid string, sdpMLineIndex uint16) ([]ICECandidate, error) {
	out := make([]ICECandidate, 0, len(candidates))
	for _, c := range candidates {
		converted, err := newICECandidateFromICE(c, sdpMid, sdpMLineIndex)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func newICECandidateFromICE(candidate ice.Candidate, sdpMid string, sdpMLineIndex uint16) (ICECandidate, error) {
	typ, err := convertCandidateTypeFromICE(candidate.Type())
	if err != nil {
		return ICECandidate{}, err
	}
	protocol, err := NewICEProtocol(candidate.NetworkType().NetworkShort())
	if err != nil {
		return ICECandidate{}, err
	}

	out := ICECandidate{
		statsID:       candidate.ID(),
		Foundation:    candidate.Foundation(),
		Priority:      candidate.Priority(),
		Address:       candidate.Address(),
		Protocol:      protocol,
		Port:          uint16(candidate.Port()),
		Component:     candidate.Component(),
		Typ:           typ,
		TCPType:       candidate.TCPType().String(),
		SDPMid:        sdpMid,
		SDPMLineIndex: sdpMLineIndex,
	}
	if candidate.RelatedAddress() != nil {
		out.RelatedAddress = candidate.RelatedAddress().Address
		out.RelatedPort = uint16(candidate.RelatedAddress().Port)
	}
	return out, nil
}

// toICE reconstructs a pion/ice candidate from its wire representation,
// used when applying a remote description's candidate attributes or an
// explicit add-ice-candidate call.
func (c ICECandidate) toICE() (ice.Candidate, error) {
	id := c.statsID
	switch c.Typ {
	case ICECandidateTypeHost:
		return ice.NewCandidateHost(&ice.CandidateHostConfig{
			CandidateID: id,
			Network:     c.Protocol.String(),
			Address:     c.Address,
			Port:        int(c.Port),
			Component:   c.Component,
			TCPType:     ice.NewTCPType(c.TCPType),
			Foundation:  c.Foundation,
			Priority:    c.Priority,
		})
	case ICECandidateTypeSrflx:
		return ice.NewCandidateServerReflexive(&ice.CandidateServerReflexiveConfig{
			CandidateID: id,
			Network:     c.Protocol.String(),
			Address:     c.Address,
			Port:        int(c.Port),
			Component:   c.Component,
			Foundation:  c.Foundation,
			Priority:    c.Priority,
			RelAddr:     c.RelatedAddress,
			RelPort:     int(c.RelatedPort),
		})
	case ICECandidateTypePrflx:
		return ice.NewCandidatePeerReflexive(&ice.CandidatePeerReflexiveConfig{
			CandidateID: id,
			Network:     c.Protocol.String(),
			Address:     c.Address,
			Port:        int(c.Port),
			Component:   c.Component,
			Foundation:  c.Foundation,
			Priority:    c.Priority,
			RelAddr:     c.RelatedAddress,
			RelPort:     int(c.RelatedPort),
		})
	case ICECandidateTypeRelay:
		return ice.NewCandidateRelay(&ice.CandidateRelayConfig{
			CandidateID: id,
			Network:     c.Protocol.String(),
			Address:     c.Address,
			Port:        int(c.Port),
			Component:   c.Component,
			Foundation:  c.Foundation,
			Priority:    c.Priority,
			RelAddr:     c.RelatedAddress,
			RelPort:     int(c.RelatedPort),
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrICECandidateTypeUnknown, c.Typ)
	}
}

func convertCandidateTypeFromICE(t ice.CandidateType) (ICECandidateType, error) {
	switch t {
	case ice.CandidateTypeHost:
		return ICECandidateTypeHost, nil
	case ice.CandidateTypeServerReflexive:
		return ICECandidateTypeSrflx, nil
	case ice.CandidateTypePeerReflexive:
		return ICECandidateTypePrflx, nil
	case ice.CandidateTypeRelay:
		return ICECandidateTypeRelay, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrICECandidateTypeUnknown, t)
	}
}

// parseCandidateAttribute parses a normalized `candidate:...` line (as
// add-ice-candidate and the SDP applier both receive, spec.md §4.6) into
// an ICECandidate by delegating to pion/ice's own grammar.
func parseCandidateAttribute(line string) (ICECandidate, error) {
	body := strings.TrimPrefix(line, "candidate:")
	ic, err := ice.UnmarshalCandidate(body)
	if err != nil {
		return ICECandidate{}, err
	}
	return newICECandidateFromICE(ic, "", 0)
}

func (c ICECandidate) String() string {
	ic, err := c.toICE()
	if err != nil {
		return fmt.Sprintf("%+v failed to convert to ICE: %s", c, err)
	}
	return ic.String()
}

// ToJSON renders the candidate the way add-ice-candidate expects to
// receive it back, per spec.md §4.2.
func (c ICECandidate) ToJSON() ICECandidateInit {
	candidateStr := ""
	if ic, err := c.toICE(); err == nil {
		candidateStr = ic.Marshal()
	}
	return ICECandidateInit{
		Candidate:     fmt.Sprintf("candidate:%s", candidateStr),
		SDPMid:        &c.SDPMid,
		SDPMLineIndex: &c.SDPMLineIndex,
	}
}
