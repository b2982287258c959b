package webrtc

import (
	"sync"

	"github.com/webrtcbin/peerconn/pkg/rtcerr"
)

// Default payload types for the codecs RegisterDefaultCodecs installs,
// matching the teacher's codec.go constants.
const (
	defaultPayloadTypeOpus = 111
	defaultPayloadTypeG722 = 9
	defaultPayloadTypePCMU = 0
	defaultPayloadTypePCMA = 8
	defaultPayloadTypeVP8  = 96
	defaultPayloadTypeVP9  = 98
	defaultPayloadTypeH264 = 102
)

// MediaEngine holds the codecs a PeerConnection can offer or answer with.
// DescriptionBuilder consults it when a Transceiver has no explicit
// codec_preferences (spec.md §4.2: "from the current endpoint
// capabilities when no explicit preferences are set").
//
// Grounded on mediaengine.go's registration/lookup surface, trimmed of
// header-extension negotiation (out of scope for this core).
type MediaEngine struct {
	mu     sync.RWMutex
	codecs []RTPCodecParameters
	kinds  map[uint8]RTPCodecType
}

func NewMediaEngine() *MediaEngine {
	return &MediaEngine{kinds: map[uint8]RTPCodecType{}}
}

// RegisterDefaultCodecs installs Opus, G722, PCMU, PCMA, VP8, VP9, H264
// with the feedback lines DescriptionBuilder auto-adds, mirroring
// RegisterDefaultCodecs in mediaengine.go.
func (m *MediaEngine) RegisterDefaultCodecs() error {
	defaults := []RTPCodecParameters{
		{RTPCodecCapability{MimeType: MimeTypeOpus, ClockRate: 48000, Channels: 2, SDPFmtpLine: "minptime=10;useinbandfec=1"}, defaultPayloadTypeOpus},
		{RTPCodecCapability{MimeType: MimeTypeG722, ClockRate: 8000}, defaultPayloadTypeG722},
		{RTPCodecCapability{MimeType: MimeTypePCMU, ClockRate: 8000}, defaultPayloadTypePCMU},
		{RTPCodecCapability{MimeType: MimeTypePCMA, ClockRate: 8000}, defaultPayloadTypePCMA},
		{RTPCodecCapability{MimeType: MimeTypeVP8, ClockRate: 90000}, defaultPayloadTypeVP8},
		{RTPCodecCapability{MimeType: MimeTypeVP9, ClockRate: 90000}, defaultPayloadTypeVP9},
		{RTPCodecCapability{MimeType: MimeTypeH264, ClockRate: 90000, SDPFmtpLine: "level-asymmetry-allowed=1;packetization-mode=1;profile-level-id=42001f"}, defaultPayloadTypeH264},
	}
	for _, c := range defaults {
		if err := m.RegisterCodec(c); err != nil {
			return err
		}
	}
	return nil
}

// RegisterCodec adds a codec, auto-filling its feedback lines per
// spec.md §4.2.
func (m *MediaEngine) RegisterCodec(codec RTPCodecParameters) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kind := codecKind(codec.MimeType)
	codec.RTCPFeedback = withDefaultFeedback(codec.RTCPFeedback)
	m.codecs = append(m.codecs, codec)
	m.kinds[codec.PayloadType] = kind
	return nil
}

func (m *MediaEngine) getCodecByPayload(pt uint8) (RTPCodecParameters, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.codecs {
		if c.PayloadType == pt {
			return c, nil
		}
	}
	return RTPCodecParameters{}, &rtcerr.TypeError{Err: ErrCodecNotFound}
}

// getCodecsByKind returns the registered codecs of one RTPCodecType,
// ordered by registration, mirroring mediaengine.go.
func (m *MediaEngine) getCodecsByKind(kind RTPCodecType) []RTPCodecParameters {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RTPCodecParameters, 0, len(m.codecs))
	for _, c := range m.codecs {
		if codecKind(c.MimeType) == kind {
			out = append(out, c)
		}
	}
	return out
}

// updateCodecParameters fuzzy-matches a remote-offered codec against the
// engine's registry, mirroring mediaengine.go's updateCodecParameters:
// remote payload type wins so the answer echoes the offer's numbering.
func (m *MediaEngine) updateCodecParameters(remote RTPCodecParameters) (RTPCodecParameters, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched, ok := codecFuzzySearch(remote, m.codecs)
	if !ok {
		return RTPCodecParameters{}, false
	}
	matched.PayloadType = remote.PayloadType
	return matched, true
}
