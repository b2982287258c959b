package webrtc

import "github.com/pion/sdp/v3"

// SessionDescription wraps an SDP message together with its SDPType, as
// exchanged via set-local-description / set-remote-description (spec.md §3).
type SessionDescription struct {
	Type SDPType
	SDP  string

	// parsed is populated by parse() and consulted by the applier; it is
	// never set directly by an embedder.
	parsed *sdp.SessionDescription
}

// parse unmarshals SDP into parsed, caching the result.
func (d *SessionDescription) parse() (*sdp.SessionDescription, error) {
	if d.parsed != nil {
		return d.parsed, nil
	}
	parsed := &sdp.SessionDescription{}
	if err := parsed.Unmarshal([]byte(d.SDP)); err != nil {
		return nil, err
	}
	d.parsed = parsed
	return parsed, nil
}
