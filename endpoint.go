package webrtc

import (
	"context"

	"github.com/pion/interceptor"
	"github.com/pion/rtcp"
	"github.com/pion/rtp"
)

// EndpointKind tags which half of a Transceiver an RtpEndpoint represents,
// replacing the teacher's RTPSender/RTPReceiver base-class split with the
// tagged-variant model spec.md §9 calls for.
type EndpointKind int

const (
	EndpointKindNone EndpointKind = iota
	EndpointKindSender
	EndpointKindReceiver
)

// RtpEndpoint is the thin contract the core holds onto an input or output
// endpoint through: enough to bind it to a negotiated Transport and learn
// its current direction, and nothing about payloading, jitter buffering,
// or encryption, all of which are out of scope (spec.md §1).
type RtpEndpoint interface {
	Kind() EndpointKind
	SetTransport(sessionID uint64)
	CurrentDirection() RTPTransceiverDirection
}

// inputEndpoint is the Sender variant: an embedder-attached media source
// feeding a Transceiver's send half. Caps carry payload/encoding-name/
// media per spec.md §6's input endpoint contract.
type inputEndpoint struct {
	sessionID uint64
	direction RTPTransceiverDirection
	payload   uint8
	encoding  string
	media     RTPCodecType

	writer      interceptor.RTPWriter
	rtcpReader  interceptor.RTCPReader
	pendingRTCP []byte
}

func newInputEndpoint(payload uint8, encoding string, media RTPCodecType) *inputEndpoint {
	return &inputEndpoint{payload: payload, encoding: encoding, media: media, direction: RTPTransceiverDirectionSendonly}
}

func (e *inputEndpoint) Kind() EndpointKind { return EndpointKindSender }

func (e *inputEndpoint) SetTransport(sessionID uint64) { e.sessionID = sessionID }

func (e *inputEndpoint) CurrentDirection() RTPTransceiverDirection { return e.direction }

// bindInterceptor registers this endpoint's outgoing RTP and incoming RTCP
// with transport's interceptor chain, the same StreamInfo/BindLocalStream/
// BindRTCPReader pairing rtpsender.go's Send sets up once a track is bound.
func (e *inputEndpoint) bindInterceptor(t *Transport, ssrc uint32, mimeType string) {
	info := &interceptor.StreamInfo{
		SSRC:        ssrc,
		PayloadType: e.payload,
		MimeType:    mimeType,
	}
	e.writer = t.bindLocalStream(info, interceptor.RTPWriterFunc(
		func(ctx context.Context, pkt *rtp.Packet, attrs interceptor.Attributes) (int, error) {
			return len(pkt.Payload), nil
		},
	))
	e.rtcpReader = t.bindRTCPReader(interceptor.RTCPReaderFunc(
		func(ctx context.Context) ([]rtcp.Packet, interceptor.Attributes, error) {
			pkts, err := rtcp.Unmarshal(e.pendingRTCP)
			return pkts, interceptor.Attributes{}, err
		},
	))
}

// WriteRTP stamps the endpoint's negotiated payload type onto an
// embedder-supplied packet and, once bound, routes it through the
// interceptor chain before handing it to the Transport, the same boundary
// RTPSender.Send's interceptor.RTPWriterFunc sits at.
func (e *inputEndpoint) WriteRTP(ctx context.Context, p *rtp.Packet) error {
	if e.direction == RTPTransceiverDirectionRecvonly || e.direction == RTPTransceiverDirectionInactive {
		return ErrEndpointDirectionForbidsWrite
	}
	p.Header.PayloadType = e.payload
	if e.writer != nil {
		_, err := e.writer.Write(ctx, p, interceptor.Attributes{})
		return err
	}
	return nil
}

// ReadRTCP parses a raw RTCP buffer read off this endpoint's Transport
// through the bound interceptor chain (or directly, if unbound), the same
// unmarshal RTPSender.readRTCP performs on its feedback stream.
func (e *inputEndpoint) ReadRTCP(ctx context.Context, buf []byte) ([]rtcp.Packet, error) {
	if e.rtcpReader != nil {
		e.pendingRTCP = buf
		pkts, _, err := e.rtcpReader.Read(ctx)
		return pkts, err
	}
	return rtcp.Unmarshal(buf)
}

// outputEndpoint is the Receiver variant, created once a description
// admits recvonly/sendrecv on a section (spec.md §2 data-flow, §6 output
// endpoint contract: "caps carry the negotiated payload type").
type outputEndpoint struct {
	sessionID   uint64
	direction   RTPTransceiverDirection
	payloadType uint8

	pendingRTP []byte
	reader     interceptor.RTPReader
}

func newOutputEndpoint(payloadType uint8) *outputEndpoint {
	return &outputEndpoint{payloadType: payloadType, direction: RTPTransceiverDirectionRecvonly}
}

func (e *outputEndpoint) Kind() EndpointKind { return EndpointKindReceiver }

func (e *outputEndpoint) SetTransport(sessionID uint64) { e.sessionID = sessionID }

func (e *outputEndpoint) CurrentDirection() RTPTransceiverDirection { return e.direction }

// bindInterceptor registers this endpoint's incoming RTP with transport's
// interceptor chain, mirroring track_remote.go's bindInterceptor /
// interceptorRTPReader wiring.
func (e *outputEndpoint) bindInterceptor(t *Transport, ssrc uint32, mimeType string) {
	info := &interceptor.StreamInfo{
		SSRC:        ssrc,
		PayloadType: e.payloadType,
		MimeType:    mimeType,
	}
	e.reader = t.bindRemoteStream(info, interceptor.RTPReaderFunc(e.readRaw))
}

func (e *outputEndpoint) readRaw() (*rtp.Packet, interceptor.Attributes, error) {
	p := &rtp.Packet{}
	if err := p.Unmarshal(e.pendingRTP); err != nil {
		return nil, nil, err
	}
	return p, interceptor.Attributes{}, nil
}

// ReadRTP unmarshals one packet read off the Transport, through the bound
// interceptor chain once negotiation has attached one, and checks its
// payload type against what negotiation assigned this endpoint, mirroring
// RTPReceiver.Read's shape without the jitter buffer it feeds (out of
// scope, spec.md §1).
func (e *outputEndpoint) ReadRTP(buf []byte) (*rtp.Packet, error) {
	var p *rtp.Packet
	if e.reader != nil {
		e.pendingRTP = buf
		read, _, err := e.reader.Read()
		if err != nil {
			return nil, err
		}
		p = read
	} else {
		p = &rtp.Packet{}
		if err := p.Unmarshal(buf); err != nil {
			return nil, err
		}
	}
	if p.PayloadType != e.payloadType {
		return nil, ErrCodecNotFound
	}
	return p, nil
}

// ReadRTCP parses a raw RTCP buffer read off this endpoint's Transport, the
// same unmarshal RTPReceiver.ReadRTCP performs.
func (e *outputEndpoint) ReadRTCP(buf []byte) ([]rtcp.Packet, error) {
	return rtcp.Unmarshal(buf)
}
