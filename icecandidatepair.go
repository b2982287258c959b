package webrtc

import "fmt"

// ICECandidatePair is the selected local/remote candidate pair a
// Transport's ICE half reports through OnSelectedCandidatePairChange
// (spec.md §4.5).
type ICECandidatePair struct {
	Local  *ICECandidate
	Remote *ICECandidate
}

func NewICECandidatePair(local, remote *ICECandidate) *ICECandidatePair {
	return &ICECandidatePair{Local: local, Remote: remote}
}

func (p *ICECandidatePair) String() string {
	return fmt.Sprintf("(local) %s <-> (remote) %s", p.Local, p.Remote)
}
