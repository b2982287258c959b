package webrtc

import "strings"

// RTPCodecType distinguishes audio from video codecs (spec.md §3,
// Transceiver's codec_preferences are scoped to one kind).
type RTPCodecType int

const (
	RTPCodecTypeAudio RTPCodecType = iota + 1
	RTPCodecTypeVideo
)

func (t RTPCodecType) String() string {
	if t == RTPCodecTypeVideo {
		return "video"
	}
	return "audio"
}

// RTCPFeedback is one `a=rtcp-fb:<pt> ...` line attached to a codec.
// DescriptionBuilder auto-adds `nack` and `nack pli` per spec.md §4.2.
type RTCPFeedback struct {
	Type      string
	Parameter string
}

// RTPCodecCapability is the negotiable shape of a single codec (spec.md
// §4.2's "payload-type entry"), grounded on rtpcodec.go.
type RTPCodecCapability struct {
	MimeType     string
	ClockRate    uint32
	Channels     uint16
	SDPFmtpLine  string
	RTCPFeedback []RTCPFeedback
}

// RTPCodecParameters pairs a capability with the payload type it has been
// assigned on the wire.
type RTPCodecParameters struct {
	RTPCodecCapability
	PayloadType uint8
}

func codecKind(mimeType string) RTPCodecType {
	if strings.HasPrefix(strings.ToLower(mimeType), "video/") {
		return RTPCodecTypeVideo
	}
	return RTPCodecTypeAudio
}

// codecFuzzySearch mirrors rtpcodec.go's codecParametersFuzzySearch:
// match on MimeType+SDPFmtpLine first, fall back to MimeType alone.
func codecFuzzySearch(needle RTPCodecParameters, haystack []RTPCodecParameters) (RTPCodecParameters, bool) {
	for _, c := range haystack {
		if strings.EqualFold(c.MimeType, needle.MimeType) && c.SDPFmtpLine == needle.SDPFmtpLine {
			return c, true
		}
	}
	for _, c := range haystack {
		if strings.EqualFold(c.MimeType, needle.MimeType) {
			return c, true
		}
	}
	return RTPCodecParameters{}, false
}

// defaultRTCPFeedback is added to every registered codec absent an
// explicit override, per spec.md §4.2: "rtcp-fb-nack and
// rtcp-fb-nack-pli are added to each payload structure if absent."
func defaultRTCPFeedback() []RTCPFeedback {
	return []RTCPFeedback{
		{Type: "nack"},
		{Type: "nack", Parameter: "pli"},
	}
}

func withDefaultFeedback(fb []RTCPFeedback) []RTCPFeedback {
	has := func(typ, param string) bool {
		for _, f := range fb {
			if f.Type == typ && f.Parameter == param {
				return true
			}
		}
		return false
	}
	out := append([]RTCPFeedback{}, fb...)
	if !has("nack", "") {
		out = append(out, RTCPFeedback{Type: "nack"})
	}
	if !has("nack", "pli") {
		out = append(out, RTCPFeedback{Type: "nack", Parameter: "pli"})
	}
	return out
}
