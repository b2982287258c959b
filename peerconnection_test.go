package webrtc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPeerConnection(t *testing.T) *PeerConnection {
	t.Helper()
	pc, err := NewPeerConnection(Configuration{}, nil, nil)
	require.NoError(t, err)
	return pc
}

func TestNewPeerConnectionStartsStable(t *testing.T) {
	pc := newTestPeerConnection(t)
	assert.Equal(t, SignalingStateStable, pc.SignalingState())
	assert.Equal(t, ICEGatheringStateNew, pc.ICEGatheringState())
	assert.Equal(t, PeerConnectionStateNew, pc.ConnectionState())
}

func TestAddTransceiverFromKindLatchesNegotiationNeeded(t *testing.T) {
	pc := newTestPeerConnection(t)

	fired := make(chan struct{}, 1)
	pc.OnNegotiationNeeded(func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	tr := pc.AddTransceiverFromKind(RTPCodecTypeAudio, RTPTransceiverInit{Direction: RTPTransceiverDirectionSendrecv})
	require.NotNil(t, tr)
	pc.ops.Done()

	assert.Len(t, pc.GetTransceivers(), 1)
	assert.True(t, pc.negotiationLatched.get())
}

func TestSetConfigurationRejectsCertificateChange(t *testing.T) {
	pc := newTestPeerConnection(t)
	cert, err := GenerateCertificate()
	require.NoError(t, err)

	err = pc.SetConfiguration(Configuration{Certificates: []Certificate{*cert}})
	assert.Error(t, err)
}

func TestSetConfigurationAcceptsICEServerChange(t *testing.T) {
	pc := newTestPeerConnection(t)
	err := pc.SetConfiguration(Configuration{ICEServers: []ICEServer{{URLs: []string{"stun:stun.example.com"}}}})
	assert.NoError(t, err)
	assert.Len(t, pc.GetConfiguration().ICEServers, 1)
}

func TestFullOfferAnswerExchangeReachesStable(t *testing.T) {
	offerer := newTestPeerConnection(t)
	answerer := newTestPeerConnection(t)

	var signalingEvents []SignalingState
	offerer.OnSignalingStateChange(func(s SignalingState) { signalingEvents = append(signalingEvents, s) })

	offerer.AddTransceiverFromKind(RTPCodecTypeAudio, RTPTransceiverInit{Direction: RTPTransceiverDirectionSendrecv})
	offerer.ops.Done()

	offer, err := offerer.CreateOffer(nil)
	require.NoError(t, err)
	require.NoError(t, offerer.SetLocalDescription(*offer))
	assert.Equal(t, SignalingStateHaveLocalOffer, offerer.SignalingState())

	require.NoError(t, answerer.SetRemoteDescription(*offer))
	assert.Equal(t, SignalingStateHaveRemoteOffer, answerer.SignalingState())

	answer, err := answerer.CreateAnswer(nil)
	require.NoError(t, err)
	require.NoError(t, answerer.SetLocalDescription(*answer))
	assert.Equal(t, SignalingStateStable, answerer.SignalingState())

	require.NoError(t, offerer.SetRemoteDescription(*answer))
	assert.Equal(t, SignalingStateStable, offerer.SignalingState())

	assert.Len(t, offerer.GetTransceivers(), 1)
	assert.Len(t, answerer.GetTransceivers(), 1)
	assert.Equal(t, offerer.GetTransceivers()[0].Mid(), answerer.GetTransceivers()[0].Mid())
	assert.Contains(t, signalingEvents, SignalingStateHaveLocalOffer)
	assert.Contains(t, signalingEvents, SignalingStateStable)
}

func TestDescriptionGettersReflectExchange(t *testing.T) {
	offerer := newTestPeerConnection(t)
	answerer := newTestPeerConnection(t)

	offerer.AddTransceiverFromKind(RTPCodecTypeAudio, RTPTransceiverInit{Direction: RTPTransceiverDirectionSendrecv})
	offerer.ops.Done()

	assert.Nil(t, offerer.CurrentLocalDescription())
	assert.Nil(t, offerer.PendingLocalDescription())

	offer, err := offerer.CreateOffer(nil)
	require.NoError(t, err)
	require.NoError(t, offerer.SetLocalDescription(*offer))
	require.NotNil(t, offerer.PendingLocalDescription())
	assert.Equal(t, SDPTypeOffer, offerer.PendingLocalDescription().Type)

	require.NoError(t, answerer.SetRemoteDescription(*offer))
	require.NotNil(t, answerer.PendingRemoteDescription())
	assert.Equal(t, SDPTypeOffer, answerer.PendingRemoteDescription().Type)

	answer, err := answerer.CreateAnswer(nil)
	require.NoError(t, err)
	require.NoError(t, answerer.SetLocalDescription(*answer))
	require.NotNil(t, answerer.CurrentLocalDescription())
	assert.Nil(t, answerer.PendingLocalDescription())

	require.NoError(t, offerer.SetRemoteDescription(*answer))
	require.NotNil(t, offerer.CurrentRemoteDescription())
	assert.Equal(t, SDPTypeAnswer, offerer.CurrentRemoteDescription().Type)
	assert.Nil(t, offerer.PendingRemoteDescription())
}

func TestAddICECandidateBuffersBeforeBothDescriptionsSet(t *testing.T) {
	pc := newTestPeerConnection(t)
	pc.AddTransceiverFromKind(RTPCodecTypeAudio, RTPTransceiverInit{})
	pc.ops.Done()

	mline := uint16(0)
	require.NoError(t, pc.AddICECandidate(ICECandidateInit{
		Candidate:     "candidate:1 1 udp 2130706431 10.0.0.1 54400 typ host",
		SDPMLineIndex: &mline,
	}))
	pc.ops.Done()

	pc.mu.RLock()
	pending := len(pc.pendingCandidates)
	pc.mu.RUnlock()
	assert.Equal(t, 1, pending, "candidate must buffer until both current descriptions exist")
}

func TestAddICECandidateFlushesOnceBothDescriptionsSet(t *testing.T) {
	offerer := newTestPeerConnection(t)
	answerer := newTestPeerConnection(t)

	offerer.AddTransceiverFromKind(RTPCodecTypeAudio, RTPTransceiverInit{Direction: RTPTransceiverDirectionSendrecv})
	offerer.ops.Done()

	offer, err := offerer.CreateOffer(nil)
	require.NoError(t, err)
	require.NoError(t, offerer.SetLocalDescription(*offer))
	require.NoError(t, answerer.SetRemoteDescription(*offer))

	answer, err := answerer.CreateAnswer(nil)
	require.NoError(t, err)
	require.NoError(t, answerer.SetLocalDescription(*answer))
	require.NoError(t, offerer.SetRemoteDescription(*answer))

	mline := uint16(0)
	require.NoError(t, offerer.AddICECandidate(ICECandidateInit{
		Candidate:     "candidate:1 1 udp 2130706431 10.0.0.1 54400 typ host",
		SDPMLineIndex: &mline,
	}))
	offerer.ops.Done()

	offerer.mu.RLock()
	pending := len(offerer.pendingCandidates)
	offerer.mu.RUnlock()
	assert.Equal(t, 0, pending, "candidate should be delivered immediately once both descriptions are current")
}

func TestCloseIsIdempotentAndTransitionsToClosed(t *testing.T) {
	pc := newTestPeerConnection(t)
	require.NoError(t, pc.Close())
	assert.Equal(t, SignalingStateClosed, pc.SignalingState())
	require.NoError(t, pc.Close())

	_, err := pc.CreateOffer(nil)
	assert.ErrorIs(t, err, ErrConnectionClosed)
}

func TestMidAndMLineAreWriteOnceAcrossExchange(t *testing.T) {
	offerer := newTestPeerConnection(t)
	answerer := newTestPeerConnection(t)

	offerer.AddTransceiverFromKind(RTPCodecTypeAudio, RTPTransceiverInit{Direction: RTPTransceiverDirectionSendrecv})
	offerer.ops.Done()

	offer, err := offerer.CreateOffer(nil)
	require.NoError(t, err)
	firstMid := offerer.GetTransceivers()[0].Mid()
	require.NotEmpty(t, firstMid)

	require.NoError(t, offerer.SetLocalDescription(*offer))
	require.NoError(t, answerer.SetRemoteDescription(*offer))

	assert.Equal(t, firstMid, offerer.GetTransceivers()[0].Mid(), "mid must not change once assigned")

	idx, ok := offerer.GetTransceivers()[0].MLine()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestOperationsSerializeConcurrentCreateOfferCalls(t *testing.T) {
	pc := newTestPeerConnection(t)
	pc.AddTransceiverFromKind(RTPCodecTypeAudio, RTPTransceiverInit{Direction: RTPTransceiverDirectionSendrecv})
	pc.ops.Done()

	type result struct {
		desc *SessionDescription
		err  error
	}
	results := make(chan result, 5)
	for i := 0; i < 5; i++ {
		go func() {
			desc, err := pc.CreateOffer(nil)
			results <- result{desc, err}
		}()
	}

	for i := 0; i < 5; i++ {
		select {
		case r := <-results:
			assert.NoError(t, r.err)
			assert.NotNil(t, r.desc)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for concurrent CreateOffer calls")
		}
	}
}
