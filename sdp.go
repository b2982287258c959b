package webrtc

import (
	"fmt"
	"strings"

	"github.com/pion/interceptor"
	"github.com/pion/logging"
	"github.com/pion/sdp/v3"
)

// descriptionBuilder implements create-offer / create-answer (spec.md
// §4.2), grounded on sdp.go's populateSDP/addTransceiverSDP shape but
// restructured around this module's Transceiver/Transport types instead
// of tracks and SSRCs.
type descriptionBuilder struct {
	mediaEngine *MediaEngine
}

func newDescriptionBuilder(mediaEngine *MediaEngine) *descriptionBuilder {
	return &descriptionBuilder{mediaEngine: mediaEngine}
}

// createOffer emits one media section per non-stopped transceiver in
// sequence order, each carrying fresh ICE credentials, actpass setup, the
// declared direction, the transport's DTLS fingerprint, and the codec
// list from codec_preferences (or MediaEngine defaults). A transceiver
// with no Transport yet (the common case: a fresh transceiver declared
// before any negotiation) gets one created here, the same way createAnswer
// creates one for a newly-matched remote section, so every section this
// produces carries the ufrag/pwd/fingerprint set-local-description will
// go on to require (spec.md §4.3, scenario S2).
func (b *descriptionBuilder) createOffer(transceivers []*RTPTransceiver, transports map[uint64]*Transport, nextSessionID func() uint64, loggerFactory logging.LoggerFactory, interceptorRegistry *interceptor.Registry) (*SessionDescription, []*Transport, error) {
	d := sdp.NewJSEPSessionDescription(false)
	d = d.WithValueAttribute(sdp.AttrKeyICEOptions, "trickle")

	var newTransports []*Transport
	for _, t := range transceivers {
		if t.Stopped() {
			continue
		}
		mid := t.Mid()
		if mid == "" {
			generated, err := generateMid()
			if err != nil {
				return nil, nil, err
			}
			if err := t.setMid(generated); err != nil {
				return nil, nil, err
			}
			mid = generated
		}

		sessionID, ok := t.TransportID()
		var transport *Transport
		if ok {
			transport = transports[sessionID]
		}
		if transport == nil {
			sessionID = nextSessionID()
			cert, err := GenerateCertificate()
			if err != nil {
				return nil, nil, err
			}
			transport = newTransport(sessionID, cert, loggerFactory, interceptorRegistry)
			transports[sessionID] = transport
			t.bindTransport(sessionID)
			newTransports = append(newTransports, transport)
		}

		iceParams := transport.localParameters()
		var fp DTLSFingerprint
		if transport.certificate != nil {
			f, err := transport.certificate.Fingerprint()
			if err != nil {
				return nil, nil, err
			}
			fp = f
		}

		codecs := b.codecsForTransceiver(t)
		media, err := buildMediaSection(mediaSectionParams{
			kind:      b.kindFor(t, codecs),
			mid:       mid,
			direction: t.Direction(),
			setup:     "actpass",
			iceParams: iceParams,
			rtcpMux:   true,
			codecs:    codecs,
			fp:        fp,
		})
		if err != nil {
			return nil, nil, err
		}
		d.WithMedia(media)
	}

	raw, err := d.Marshal()
	if err != nil {
		return nil, nil, err
	}
	return &SessionDescription{Type: SDPTypeOffer, SDP: string(raw), parsed: d}, newTransports, nil
}

// createAnswer requires a pending remote offer; it walks the remote
// description's media sections, matches or creates transceivers,
// intersects direction and codecs, and marks the answerer DTLS-controlled
// (spec.md §4.2).
func (b *descriptionBuilder) createAnswer(remote *SessionDescription, transceivers *[]*RTPTransceiver, transports map[uint64]*Transport, nextSessionID func() uint64, loggerFactory logging.LoggerFactory, interceptorRegistry *interceptor.Registry) (*SessionDescription, []*Transport, error) {
	if remote == nil {
		return nil, nil, ErrNoPendingRemoteDescription
	}
	if _, err := remote.parse(); err != nil {
		return nil, nil, err
	}

	d := sdp.NewJSEPSessionDescription(false)
	d = d.WithValueAttribute(sdp.AttrKeyICEOptions, "trickle")

	var newTransports []*Transport

	for i, rm := range remote.parsed.MediaDescriptions {
		mid, _ := mediaAttributeValue(rm, sdp.AttrKeyMID)
		offerDirRaw := mediaDirection(rm)
		offerDir := NewRTPTransceiverDirection(offerDirRaw)
		offerSetup, _ := mediaAttributeValue(rm, sdp.AttrKeyConnectionSetup)

		t := findOrCreateTransceiver(transceivers, mid, i, offerDir)

		offerCodecs, err := parsePayloadCodecs(rm)
		if err != nil {
			return nil, nil, err
		}

		matched := intersectCodecs(b.mediaEngine, offerCodecs, t.CodecPreferences())

		if len(matched) == 0 || t.Stopped() {
			rejected := rejectedMediaSection(rm, mid)
			d.WithMedia(rejected)
			continue
		}

		answerDir, err := intersectDirections(offerDir, t.Direction())
		if err != nil {
			return nil, nil, err
		}
		answerSetup, err := intersectSetup(offerSetup)
		if err != nil {
			return nil, nil, err
		}

		sessionID, hasTransport := t.TransportID()
		var transport *Transport
		if hasTransport {
			transport = transports[sessionID]
		} else {
			sessionID = nextSessionID()
			cert, err := GenerateCertificate()
			if err != nil {
				return nil, nil, err
			}
			transport = newTransport(sessionID, cert, loggerFactory, interceptorRegistry)
			t.bindTransport(sessionID)
			newTransports = append(newTransports, transport)
		}
		transport.setDTLSRole(dtlsRoleFromSetup(answerSetup))

		iceParams, err := generateICEParameters()
		if err != nil {
			return nil, nil, err
		}

		var fp DTLSFingerprint
		if transport.certificate != nil {
			fp, err = transport.certificate.Fingerprint()
			if err != nil {
				return nil, nil, err
			}
		}

		media, err := buildMediaSection(mediaSectionParams{
			kind:      codecKind(matched[0].MimeType),
			mid:       mid,
			direction: answerDir,
			setup:     answerSetup,
			iceParams: iceParams,
			rtcpMux:   true,
			codecs:    matched,
			fp:        fp,
		})
		if err != nil {
			return nil, nil, err
		}
		d.WithMedia(media)
	}

	raw, err := d.Marshal()
	if err != nil {
		return nil, nil, err
	}
	return &SessionDescription{Type: SDPTypeAnswer, SDP: string(raw), parsed: d}, newTransports, nil
}

func (b *descriptionBuilder) kindFor(t *RTPTransceiver, codecs []RTPCodecParameters) RTPCodecType {
	if len(codecs) > 0 {
		return codecKind(codecs[0].MimeType)
	}
	return RTPCodecTypeAudio
}

// codecsForTransceiver returns codec_preferences if set, otherwise every
// MediaEngine-registered codec (spec.md §4.2's capabilities fallback).
func (b *descriptionBuilder) codecsForTransceiver(t *RTPTransceiver) []RTPCodecParameters {
	if prefs := t.CodecPreferences(); len(prefs) > 0 {
		return prefs
	}
	if b.mediaEngine == nil {
		return nil
	}
	audio := b.mediaEngine.getCodecsByKind(RTPCodecTypeAudio)
	video := b.mediaEngine.getCodecsByKind(RTPCodecTypeVideo)
	return append(append([]RTPCodecParameters{}, audio...), video...)
}

type mediaSectionParams struct {
	kind      RTPCodecType
	mid       string
	direction RTPTransceiverDirection
	setup     string
	iceParams ICEParameters
	rtcpMux   bool
	codecs    []RTPCodecParameters
	fp        DTLSFingerprint
}

// buildMediaSection assembles one m= section per the WebRTC profile
// constraints of spec.md §4.2/§6: port 9, UDP/TLS/RTP/SAVPF, c=IN IP4
// 0.0.0.0, mandatory mid/ice-ufrag/ice-pwd/setup/fingerprint/direction.
func buildMediaSection(p mediaSectionParams) (*sdp.MediaDescription, error) {
	if len(p.codecs) == 0 {
		return nil, ErrCodecNotFound
	}

	payloadTypes := make([]string, 0, len(p.codecs))
	for _, c := range p.codecs {
		payloadTypes = append(payloadTypes, fmt.Sprintf("%d", c.PayloadType))
	}

	media := &sdp.MediaDescription{
		MediaName: sdp.MediaName{
			Media:   p.kind.String(),
			Port:    sdp.RangedPort{Value: 9},
			Protos:  []string{"UDP", "TLS", "RTP", "SAVPF"},
			Formats: payloadTypes,
		},
		ConnectionInformation: &sdp.ConnectionInformation{
			NetworkType: "IN",
			AddressType: "IP4",
			Address:     &sdp.Address{Address: "0.0.0.0"},
		},
	}

	media.WithValueAttribute(sdp.AttrKeyConnectionSetup, p.setup).
		WithValueAttribute(sdp.AttrKeyMID, p.mid).
		WithICECredentials(p.iceParams.UsernameFragment, p.iceParams.Password).
		WithPropertyAttribute(p.direction.String())

	if p.rtcpMux {
		media.WithPropertyAttribute(sdp.AttrKeyRTCPMux)
	}

	for _, c := range p.codecs {
		media.WithCodec(c.PayloadType, codecNameFromMime(c.MimeType), c.ClockRate, c.Channels, c.SDPFmtpLine)
		for _, fb := range withDefaultFeedback(c.RTCPFeedback) {
			if fb.Parameter == "" {
				media.WithValueAttribute("rtcp-fb", fmt.Sprintf("%d %s", c.PayloadType, fb.Type))
			} else {
				media.WithValueAttribute("rtcp-fb", fmt.Sprintf("%d %s %s", c.PayloadType, fb.Type, fb.Parameter))
			}
		}
	}

	if p.fp.Algorithm != "" {
		media.WithFingerprint(p.fp.Algorithm, strings.ToUpper(p.fp.Value))
	}

	return media, nil
}

// rejectedMediaSection mirrors an offer section with port 0 (spec.md
// §4.2 S5: unmatched codecs are rejected, not a whole-operation failure).
func rejectedMediaSection(offer *sdp.MediaDescription, mid string) *sdp.MediaDescription {
	rejected := &sdp.MediaDescription{
		MediaName: sdp.MediaName{
			Media:   offer.MediaName.Media,
			Port:    sdp.RangedPort{Value: 0},
			Protos:  offer.MediaName.Protos,
			Formats: offer.MediaName.Formats,
		},
	}
	rejected.WithValueAttribute(sdp.AttrKeyMID, mid)
	return rejected
}

func codecNameFromMime(mime string) string {
	parts := strings.SplitN(mime, "/", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return mime
}
