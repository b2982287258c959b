package webrtc

import (
	"context"
	"strconv"
	"sync"

	"github.com/pion/ice/v4"
	"github.com/pion/interceptor"
	"github.com/pion/logging"
	"github.com/webrtcbin/peerconn/pkg/rtcerr"
)

// Transport owns one ICE transport and one DTLS transport for a single
// session, and publishes the aggregated states StateCollator folds into
// ice-connection-state / connection-state (spec.md §3, §4.5).
//
// The teacher splits this into ICETransport and DTLSTransport linked by
// pointer; per spec.md §9's reference-cycle note we instead give each
// Transport a stable sessionID and let Transceivers refer to it by that id
// through PeerConnection's transport table rather than by pointer.
type Transport struct {
	mu sync.RWMutex

	sessionID uint64

	certificate *Certificate
	rtcpMux     bool

	iceRole    ICERole
	iceState   ICETransportState
	iceAgent   *ice.Agent
	iceParams  ICEParameters
	remoteICEParams ICEParameters
	hasRemoteICEParams bool

	dtlsRole  DTLSRole
	dtlsState DTLSTransportState

	chain interceptor.Interceptor

	onICEStateChange     func(ICETransportState)
	onSelectedPairChange func(*ICECandidatePair)
	onICECandidate       func(ICECandidate)

	log logging.LeveledLogger
}

// newTransport builds the ICE/DTLS pairing and, from registry, the
// interceptor chain every RtpEndpoint bound to this Transport reads and
// writes through (grounded on rtpsender.go/track_remote.go's
// api.interceptor.BindLocalStream/BindRemoteStream calls). A nil registry
// yields a no-op chain, same fallback as interceptor_registry.go's build().
func newTransport(sessionID uint64, certificate *Certificate, loggerFactory logging.LoggerFactory, registry *interceptor.Registry) *Transport {
	if registry == nil {
		registry = &interceptor.Registry{}
	}
	chain, err := registry.Build(strconv.FormatUint(sessionID, 10))
	if err != nil {
		chain = &interceptor.NoOp{}
	}
	return &Transport{
		sessionID:   sessionID,
		certificate: certificate,
		iceState:    ICETransportStateNew,
		dtlsState:   DTLSTransportStateNew,
		chain:       chain,
		log:         loggerFactory.NewLogger("transport"),
	}
}

// bindLocalStream wraps writer with the interceptor chain's local-stream
// binding, the same boundary an inputEndpoint's outgoing RTP crosses before
// reaching the wire (rtpsender.go's writeStream.setRTPWriter).
func (t *Transport) bindLocalStream(info *interceptor.StreamInfo, writer interceptor.RTPWriter) interceptor.RTPWriter {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.chain.BindLocalStream(info, writer)
}

// bindRemoteStream wraps reader with the interceptor chain's remote-stream
// binding, the boundary an outputEndpoint's incoming RTP crosses
// (track_remote.go's interceptorRTPReader).
func (t *Transport) bindRemoteStream(info *interceptor.StreamInfo, reader interceptor.RTPReader) interceptor.RTPReader {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.chain.BindRemoteStream(info, reader)
}

// bindRTCPReader wraps reader with the chain's RTCP binding, the boundary
// RTPSender.readRTCP crosses via api.interceptor.BindRTCPReader.
func (t *Transport) bindRTCPReader(reader interceptor.RTCPReader) interceptor.RTCPReader {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.chain.BindRTCPReader(reader)
}

// OnICEStateChange sets a handler fired whenever the ICE transport's state
// changes, mirroring icetransport.go's OnConnectionStateChange.
func (t *Transport) OnICEStateChange(f func(ICETransportState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onICEStateChange = f
}

// OnSelectedCandidatePairChange sets a handler fired when the ICE agent
// selects a new candidate pair, mirroring icetransport.go's
// OnSelectedCandidatePairChange.
func (t *Transport) OnSelectedCandidatePairChange(f func(*ICECandidatePair)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSelectedPairChange = f
}

// OnICECandidate sets a handler fired once per local candidate gathered by
// the ICE agent.
func (t *Transport) OnICECandidate(f func(ICECandidate)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onICECandidate = f
}

// start creates the ICE agent and begins gathering. role decides whether
// the agent later dials (controlling) or accepts (controlled); it mirrors
// icetransport.go's Start, generalized to hold the agent and DTLS state
// together instead of splitting them across two linked structs.
func (t *Transport) start(role ICERole, urls []*ice.URL, loggerFactory logging.LoggerFactory) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	agent, err := ice.NewAgent(&ice.AgentConfig{
		Urls:          urls,
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		return err
	}

	if err := agent.OnConnectionStateChange(func(s ice.ConnectionState) {
		state := newICETransportStateFromICE(s)
		t.mu.Lock()
		t.iceState = state
		cb := t.onICEStateChange
		t.mu.Unlock()
		if cb != nil {
			cb(state)
		}
	}); err != nil {
		return err
	}

	if err := agent.OnSelectedCandidatePairChange(func(local, remote ice.Candidate) {
		candidates, err := newICECandidatesFromICE([]ice.Candidate{local, remote}, "", 0)
		if err != nil {
			t.log.Warnf("unable to convert selected pair: %s", err)
			return
		}
		t.mu.RLock()
		cb := t.onSelectedPairChange
		t.mu.RUnlock()
		if cb != nil {
			cb(NewICECandidatePair(&candidates[0], &candidates[1]))
		}
	}); err != nil {
		return err
	}

	if err := agent.OnCandidate(func(candidate ice.Candidate) {
		if candidate == nil {
			return
		}
		converted, err := newICECandidateFromICE(candidate, "", 0)
		if err != nil {
			t.log.Warnf("unable to convert gathered candidate: %s", err)
			return
		}
		t.mu.RLock()
		cb := t.onICECandidate
		t.mu.RUnlock()
		if cb != nil {
			cb(converted)
		}
	}); err != nil {
		return err
	}

	frag, pwd := agent.GetLocalUserCredentials()
	t.iceAgent = agent
	t.iceRole = role
	t.iceParams = ICEParameters{UsernameFragment: frag, Password: pwd}
	return nil
}

// dial completes connectivity checks once remote ICE credentials are
// known, as the controlling or controlled side.
func (t *Transport) dial(ctx context.Context, remote ICEParameters) error {
	t.mu.RLock()
	agent, role := t.iceAgent, t.iceRole
	t.mu.RUnlock()
	if agent == nil {
		return &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	}

	var err error
	switch role {
	case ICERoleControlling:
		_, err = agent.Dial(ctx, remote.UsernameFragment, remote.Password)
	default:
		_, err = agent.Accept(ctx, remote.UsernameFragment, remote.Password)
	}
	return err
}

func (t *Transport) addRemoteCandidate(c ICECandidate) error {
	t.mu.RLock()
	agent := t.iceAgent
	t.mu.RUnlock()
	if agent == nil {
		return &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	}
	ic, err := c.toICE()
	if err != nil {
		return err
	}
	return agent.AddRemoteCandidate(ic)
}

func (t *Transport) localParameters() ICEParameters {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.iceParams
}

// remoteParameters returns the ufrag/pwd commitRemoteParameters stored, if
// any has arrived yet.
func (t *Transport) remoteParameters() (ICEParameters, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.remoteICEParams, t.hasRemoteICEParams
}

// isStarted reports whether the ICE agent has been created, i.e. whether
// this side's local description has already been applied.
func (t *Transport) isStarted() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.iceAgent != nil
}

// commitRemoteParameters stores the ice-ufrag/ice-pwd a remote
// description committed (spec.md §4.3: "commit ICE ufrag/pwd as remote
// credentials on the ICE transport").
func (t *Transport) commitRemoteParameters(params ICEParameters) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remoteICEParams = params
	t.hasRemoteICEParams = true
}

// setDTLSRole commits the role DescriptionApplier computed from setup
// intersection (spec.md §4.3) and unlocks the encoder element — here,
// flips dtlsState to connecting, the signal a real DTLS handshake
// component would key off.
func (t *Transport) setDTLSRole(role DTLSRole) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dtlsRole = role
	if t.dtlsState == DTLSTransportStateNew {
		t.dtlsState = DTLSTransportStateConnecting
	}
}

func (t *Transport) setRTCPMux(mux bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rtcpMux = mux
}

func (t *Transport) iceStateSnapshot() ICETransportState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.iceState
}

func (t *Transport) dtlsStateSnapshot() DTLSTransportState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dtlsState
}

// ensureStarted lazily creates the ICE agent and begins gathering the
// first time either description side touches this Transport, mirroring
// spec.md §4.3's "For each local application: ... trigger gathering."
func (t *Transport) ensureStarted(role ICERole, loggerFactory logging.LoggerFactory) error {
	t.mu.RLock()
	started := t.iceAgent != nil
	t.mu.RUnlock()
	if started {
		return nil
	}
	return t.start(role, nil, loggerFactory)
}

func (t *Transport) close() error {
	t.mu.Lock()
	agent := t.iceAgent
	chain := t.chain
	t.iceState = ICETransportStateClosed
	t.dtlsState = DTLSTransportStateClosed
	t.mu.Unlock()
	if chain != nil {
		_ = chain.Close()
	}
	if agent != nil {
		return agent.Close()
	}
	return nil
}
