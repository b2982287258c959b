package webrtc

// ICECandidateInit is the wire shape add_ice_candidate accepts and
// on_ice_candidate emits (spec.md §4.2 AddIceCandidate / OnIceCandidate).
type ICECandidateInit struct {
	Candidate        string  `json:"candidate"`
	SDPMid           *string `json:"sdpMid,omitempty"`
	SDPMLineIndex    *uint16 `json:"sdpMLineIndex,omitempty"`
	UsernameFragment string  `json:"usernameFragment,omitempty"`
}
