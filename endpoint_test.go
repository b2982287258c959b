package webrtc

import (
	"context"
	"testing"

	"github.com/pion/interceptor"
	"github.com/pion/interceptor/pkg/nack"
	"github.com/pion/logging"
	"github.com/pion/rtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransportWithInterceptors(t *testing.T) *Transport {
	t.Helper()
	cert, err := GenerateCertificate()
	require.NoError(t, err)

	registry := &interceptor.Registry{}
	require.NoError(t, registerDefaultInterceptors(registry))

	return newTransport(1, cert, logging.NewDefaultLoggerFactory(), registry)
}

func TestRegisterDefaultInterceptorsAddsNackPair(t *testing.T) {
	registry := &interceptor.Registry{}
	require.NoError(t, registerDefaultInterceptors(registry))

	chain, err := registry.Build("test")
	require.NoError(t, err)
	require.NotNil(t, chain)
}

func TestInputEndpointWriteRTPRoutesThroughInterceptorChain(t *testing.T) {
	transport := newTestTransportWithInterceptors(t)

	e := newInputEndpoint(111, "opus", RTPCodecTypeAudio)
	e.bindInterceptor(transport, 1234, MimeTypeOpus)

	p := &rtp.Packet{Header: rtp.Header{PayloadType: 0, SequenceNumber: 1}, Payload: []byte("hello")}
	require.NoError(t, e.WriteRTP(context.Background(), p))
	assert.Equal(t, uint8(111), p.Header.PayloadType)
}

func TestInputEndpointWriteRTPForbiddenWhenRecvOnly(t *testing.T) {
	e := newInputEndpoint(111, "opus", RTPCodecTypeAudio)
	e.direction = RTPTransceiverDirectionRecvonly

	err := e.WriteRTP(context.Background(), &rtp.Packet{})
	assert.ErrorIs(t, err, ErrEndpointDirectionForbidsWrite)
}

func TestOutputEndpointReadRTPRoutesThroughInterceptorChainAndChecksPayloadType(t *testing.T) {
	transport := newTestTransportWithInterceptors(t)

	e := newOutputEndpoint(111)
	e.bindInterceptor(transport, 1234, MimeTypeOpus)

	p := &rtp.Packet{Header: rtp.Header{PayloadType: 111, SequenceNumber: 7}, Payload: []byte("world")}
	raw, err := p.Marshal()
	require.NoError(t, err)

	got, err := e.ReadRTP(raw)
	require.NoError(t, err)
	assert.Equal(t, uint8(111), got.PayloadType)

	mismatched := &rtp.Packet{Header: rtp.Header{PayloadType: 9}, Payload: []byte("x")}
	rawMismatched, err := mismatched.Marshal()
	require.NoError(t, err)
	_, err = e.ReadRTP(rawMismatched)
	assert.ErrorIs(t, err, ErrCodecNotFound)
}

func TestBindEndpointsCreatesSenderAndReceiverForSendrecv(t *testing.T) {
	transport := newTestTransportWithInterceptors(t)
	tr := newRTPTransceiver(RTPTransceiverDirectionSendrecv, nil)

	tr.bindEndpoints(RTPTransceiverDirectionSendrecv, 111, MimeTypeOpus, transport)

	require.NotNil(t, tr.sender)
	require.NotNil(t, tr.receiver)
	assert.Equal(t, EndpointKindSender, tr.sender.Kind())
	assert.Equal(t, EndpointKindReceiver, tr.receiver.Kind())
}

func TestBindEndpointsRecvonlyOnlyCreatesReceiver(t *testing.T) {
	tr := newRTPTransceiver(RTPTransceiverDirectionRecvonly, nil)
	tr.bindEndpoints(RTPTransceiverDirectionRecvonly, 111, MimeTypeOpus, nil)

	assert.Nil(t, tr.sender)
	require.NotNil(t, tr.receiver)
}

func TestNackInterceptorsAreConstructible(t *testing.T) {
	generator, err := nack.NewGeneratorInterceptor()
	require.NoError(t, err)
	assert.NotNil(t, generator)

	responder, err := nack.NewResponderInterceptor()
	require.NoError(t, err)
	assert.NotNil(t, responder)
}
