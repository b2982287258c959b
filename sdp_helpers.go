package webrtc

import (
	"strconv"
	"strings"

	"github.com/pion/sdp/v3"
)

// mediaAttributeValue looks up a value attribute (e.g. a=mid:0) on a
// media section, mirroring the small accessor helpers sdp.go keeps next
// to populateSDP.
func mediaAttributeValue(m *sdp.MediaDescription, key string) (string, bool) {
	for _, a := range m.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// mediaDirection extracts whichever of sendrecv/sendonly/recvonly/
// inactive is present as a property attribute on the section.
func mediaDirection(m *sdp.MediaDescription) string {
	for _, dir := range []string{"sendrecv", "sendonly", "recvonly", "inactive"} {
		for _, a := range m.Attributes {
			if a.Key == dir {
				return dir
			}
		}
	}
	return ""
}

// findOrCreateTransceiver implements the matching rule of spec.md §4.2:
// match by mid if the remote set one, else by m-line index; otherwise
// create a new transceiver whose declared direction equals the remote
// direction.
func findOrCreateTransceiver(transceivers *[]*RTPTransceiver, mid string, mlineIndex int, remoteDir RTPTransceiverDirection) *RTPTransceiver {
	for _, t := range *transceivers {
		if mid != "" && t.Mid() == mid {
			return t
		}
		if mid == "" {
			if idx, ok := t.MLine(); ok && idx == mlineIndex {
				return t
			}
		}
	}

	t := newRTPTransceiver(remoteDir, nil)
	_ = t.setMid(mid)
	_ = t.setMLine(mlineIndex)
	*transceivers = append(*transceivers, t)
	return t
}

// parsePayloadCodecs parses the m= line's format list plus rtpmap/fmtp
// attributes into RTPCodecParameters, failing per spec.md §4.3's
// "payload-type lists are parseable" validation rule.
func parsePayloadCodecs(m *sdp.MediaDescription) ([]RTPCodecParameters, error) {
	kind := codecKind("audio/" + m.MediaName.Media)
	if m.MediaName.Media == "video" {
		kind = RTPCodecTypeVideo
	}

	out := make([]RTPCodecParameters, 0, len(m.MediaName.Formats))
	for _, f := range m.MediaName.Formats {
		pt, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return nil, ErrSessionDescriptionPayloadTypesUnparsable
		}

		name, clockRate, channels, fmtpLine := rtpmapFor(m, uint8(pt))
		mime := kind.String() + "/" + name
		out = append(out, RTPCodecParameters{
			RTPCodecCapability: RTPCodecCapability{
				MimeType:    mime,
				ClockRate:   clockRate,
				Channels:    channels,
				SDPFmtpLine: fmtpLine,
			},
			PayloadType: uint8(pt),
		})
	}
	return out, nil
}

func rtpmapFor(m *sdp.MediaDescription, pt uint8) (name string, clockRate uint32, channels uint16, fmtp string) {
	ptStr := strconv.Itoa(int(pt))
	for _, a := range m.Attributes {
		if a.Key == "rtpmap" && strings.HasPrefix(a.Value, ptStr+" ") {
			rest := strings.TrimPrefix(a.Value, ptStr+" ")
			parts := strings.SplitN(rest, "/", 3)
			name = parts[0]
			if len(parts) > 1 {
				if cr, err := strconv.ParseUint(parts[1], 10, 32); err == nil {
					clockRate = uint32(cr)
				}
			}
			if len(parts) > 2 {
				if ch, err := strconv.ParseUint(parts[2], 10, 16); err == nil {
					channels = uint16(ch)
				}
			}
		}
		if a.Key == "fmtp" && strings.HasPrefix(a.Value, ptStr+" ") {
			fmtp = strings.TrimPrefix(a.Value, ptStr+" ")
		}
	}
	return name, clockRate, channels, fmtp
}

// intersectCodecs filters the remote offer's payload list by the
// transceiver's preferences (or MediaEngine capabilities when there are
// none), per spec.md §4.2's answer-generation rule.
func intersectCodecs(engine *MediaEngine, offered []RTPCodecParameters, preferences []RTPCodecParameters) []RTPCodecParameters {
	candidateSet := preferences
	if len(candidateSet) == 0 && engine != nil {
		candidateSet = append(candidateSet, engine.getCodecsByKind(RTPCodecTypeAudio)...)
		candidateSet = append(candidateSet, engine.getCodecsByKind(RTPCodecTypeVideo)...)
	}

	var out []RTPCodecParameters
	for _, o := range offered {
		if _, ok := codecFuzzySearch(o, candidateSet); ok {
			out = append(out, o)
		}
	}
	return out
}
