package webrtc

import (
	"context"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/logging"
	"github.com/pion/sdp/v3"
	"github.com/webrtcbin/peerconn/pkg/rtcerr"
)

// bufferedCandidate is one entry of pending_ice_candidates (spec.md §3):
// an add-ice-candidate call that arrived before both descriptions were
// current. See the DOMAIN STACK note on why this stays a plain slice
// instead of packetio's byte-oriented buffering.
type bufferedCandidate struct {
	mline     int
	candidate string
}

// PeerConnection is the façade spec.md §2 describes: it presents
// create-offer/create-answer/set-{local,remote}-description/
// add-ice-candidate to the embedder and funnels every one of them through
// the TaskQueue, grounded on peerconnection.go's field layout.
type PeerConnection struct {
	mu sync.RWMutex

	configuration Configuration
	mediaEngine   *MediaEngine
	loggerFactory logging.LoggerFactory
	log           logging.LeveledLogger

	ops                *operations
	negotiationLatched *atomicBool

	signalingState SignalingState
	isClosed       bool
	lastIsOfferer  bool

	currentLocal  *SessionDescription
	pendingLocal  *SessionDescription
	currentRemote *SessionDescription
	pendingRemote *SessionDescription

	transceivers        []*RTPTransceiver
	transports          map[uint64]*Transport
	nextSession         *atomicUint64
	interceptorRegistry *interceptor.Registry

	pendingCandidates []bufferedCandidate

	iceGatheringState   ICEGatheringState
	iceConnectionState  ICEConnectionState
	connectionState     PeerConnectionState

	onSignalingStateChange func(SignalingState)
	onNegotiationNeeded    func()
	onICECandidate         func(mline int, candidate string)
	onICEConnectionStateChange func(ICEConnectionState)
	onICEGatheringStateChange  func(ICEGatheringState)
	onConnectionStateChange    func(PeerConnectionState)

	builder *descriptionBuilder
}

// NewPeerConnection constructs a PeerConnection in the stable state with
// no transceivers, mirroring peerconnection.go's constructor shape.
func NewPeerConnection(config Configuration, mediaEngine *MediaEngine, loggerFactory logging.LoggerFactory) (*PeerConnection, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	if mediaEngine == nil {
		mediaEngine = NewMediaEngine()
		if err := mediaEngine.RegisterDefaultCodecs(); err != nil {
			return nil, err
		}
	}

	registry := &interceptor.Registry{}
	if err := registerDefaultInterceptors(registry); err != nil {
		return nil, err
	}

	pc := &PeerConnection{
		configuration:       config,
		mediaEngine:         mediaEngine,
		loggerFactory:       loggerFactory,
		log:                 loggerFactory.NewLogger("peerconnection"),
		signalingState:      SignalingStateStable,
		transports:          map[uint64]*Transport{},
		nextSession:         &atomicUint64{},
		interceptorRegistry: registry,
		negotiationLatched:  &atomicBool{},
		iceGatheringState:   ICEGatheringStateNew,
		iceConnectionState:  ICEConnectionStateNew,
		connectionState:     PeerConnectionStateNew,
	}
	pc.builder = newDescriptionBuilder(mediaEngine)
	pc.ops = newOperations(pc.negotiationLatched, func() {
		pc.mu.RLock()
		cb := pc.onNegotiationNeeded
		pc.mu.RUnlock()
		if cb != nil {
			cb()
		}
	})
	return pc, nil
}

// AddTransceiverFromKind declares a transceiver before any negotiation
// (supplemented from gst_webrtc_bin_add_transceiver; spec.md §3 "created
// explicitly via an endpoint attachment").
func (pc *PeerConnection) AddTransceiverFromKind(kind RTPCodecType, init RTPTransceiverInit) *RTPTransceiver {
	direction := init.Direction
	if direction == 0 {
		direction = RTPTransceiverDirectionSendrecv
	}
	t := newRTPTransceiver(direction, init.CodecPreferences)

	pc.mu.Lock()
	pc.transceivers = append(pc.transceivers, t)
	pc.negotiationLatched.set(true)
	pc.mu.Unlock()

	pc.enqueueNegotiationCheck()
	return t
}

func (pc *PeerConnection) GetTransceivers() []*RTPTransceiver {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	out := make([]*RTPTransceiver, len(pc.transceivers))
	copy(out, pc.transceivers)
	return out
}

func (pc *PeerConnection) SignalingState() SignalingState {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.signalingState
}

func (pc *PeerConnection) ICEGatheringState() ICEGatheringState {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.iceGatheringState
}

func (pc *PeerConnection) ICEConnectionState() ICEConnectionState {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.iceConnectionState
}

func (pc *PeerConnection) ConnectionState() PeerConnectionState {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.connectionState
}

func (pc *PeerConnection) CurrentLocalDescription() *SessionDescription  { return pc.snapshot(&pc.currentLocal) }
func (pc *PeerConnection) PendingLocalDescription() *SessionDescription  { return pc.snapshot(&pc.pendingLocal) }
func (pc *PeerConnection) CurrentRemoteDescription() *SessionDescription { return pc.snapshot(&pc.currentRemote) }
func (pc *PeerConnection) PendingRemoteDescription() *SessionDescription { return pc.snapshot(&pc.pendingRemote) }

func (pc *PeerConnection) snapshot(slot **SessionDescription) *SessionDescription {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return *slot
}

func (pc *PeerConnection) GetConfiguration() Configuration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.configuration
}

// SetConfiguration accepts only the STUN/TURN server strings and ICE
// policy, rejecting Certificates/ICECandidatePoolSize modification per
// spec.md §6 and mergeConfiguration's invalid-modification checks.
func (pc *PeerConnection) SetConfiguration(next Configuration) error {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	merged, err := mergeConfiguration(pc.configuration, next)
	if err != nil {
		return err
	}
	pc.configuration = merged
	return nil
}

// OnSignalingStateChange, OnNegotiationNeeded, OnICECandidate,
// OnICEConnectionStateChange, OnICEGatheringStateChange,
// OnConnectionStateChange register the events of spec.md §6.
func (pc *PeerConnection) OnSignalingStateChange(f func(SignalingState)) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.onSignalingStateChange = f
}

func (pc *PeerConnection) OnNegotiationNeeded(f func()) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.onNegotiationNeeded = f
}

func (pc *PeerConnection) OnICECandidate(f func(mline int, candidate string)) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.onICECandidate = f
}

func (pc *PeerConnection) OnICEConnectionStateChange(f func(ICEConnectionState)) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.onICEConnectionStateChange = f
}

func (pc *PeerConnection) OnICEGatheringStateChange(f func(ICEGatheringState)) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.onICEGatheringStateChange = f
}

func (pc *PeerConnection) OnConnectionStateChange(f func(PeerConnectionState)) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.onConnectionStateChange = f
}

// CreateOffer enqueues offer generation on the TaskQueue and blocks for
// its result, matching the synchronous-inside-its-task / promise-shaped
// contract of spec.md §5.
func (pc *PeerConnection) CreateOffer(options *OfferOptions) (*SessionDescription, error) {
	if pc.isClosedNow() {
		return nil, &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	}

	type result struct {
		desc *SessionDescription
		err  error
	}
	done := make(chan result, 1)

	pc.ops.Enqueue(func() {
		pc.mu.Lock()
		if pc.isClosed {
			pc.mu.Unlock()
			done <- result{nil, &rtcerr.InvalidStateError{Err: ErrConnectionClosed}}
			return
		}
		transceivers := pc.transceivers
		transports := pc.transports
		pc.mu.Unlock()

		desc, newTransports, err := pc.builder.createOffer(transceivers, transports, func() uint64 { return pc.nextSession.inc() }, pc.loggerFactory, pc.interceptorRegistry)
		if err == nil {
			pc.mu.Lock()
			for _, tr := range newTransports {
				pc.transports[tr.sessionID] = tr
				pc.wireTransport(tr)
			}
			pc.mu.Unlock()
		}
		done <- result{desc, err}
	})

	r := <-done
	return r.desc, r.err
}

// CreateAnswer requires a pending remote offer (spec.md §4.2).
func (pc *PeerConnection) CreateAnswer(options *AnswerOptions) (*SessionDescription, error) {
	if pc.isClosedNow() {
		return nil, &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	}

	type result struct {
		desc *SessionDescription
		err  error
	}
	done := make(chan result, 1)

	pc.ops.Enqueue(func() {
		pc.mu.Lock()
		if pc.isClosed {
			pc.mu.Unlock()
			done <- result{nil, &rtcerr.InvalidStateError{Err: ErrConnectionClosed}}
			return
		}
		remote := pc.pendingRemote
		if remote == nil {
			remote = pc.currentRemote
		}
		transports := pc.transports
		pc.mu.Unlock()

		if remote == nil {
			done <- result{nil, &rtcerr.InvalidStateError{Err: ErrNoPendingRemoteDescription}}
			return
		}

		desc, newTransports, err := pc.builder.createAnswer(remote, &pc.transceivers, transports, func() uint64 { return pc.nextSession.inc() }, pc.loggerFactory, pc.interceptorRegistry)
		if err == nil {
			pc.mu.Lock()
			for _, tr := range newTransports {
				pc.transports[tr.sessionID] = tr
				pc.wireTransport(tr)
			}
			pc.mu.Unlock()
		}
		done <- result{desc, err}
	})

	r := <-done
	return r.desc, r.err
}

// SetLocalDescription and SetRemoteDescription both run setDescription on
// the TaskQueue; op distinguishes which half of the table in spec.md §4.1
// applies.
func (pc *PeerConnection) SetLocalDescription(desc SessionDescription) error {
	return pc.runSetDescription(&desc, stateChangeOpSetLocal)
}

func (pc *PeerConnection) SetRemoteDescription(desc SessionDescription) error {
	return pc.runSetDescription(&desc, stateChangeOpSetRemote)
}

func (pc *PeerConnection) runSetDescription(desc *SessionDescription, op stateChangeOp) error {
	if pc.isClosedNow() {
		return &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	}

	done := make(chan error, 1)
	pc.ops.Enqueue(func() {
		done <- pc.setDescription(desc, op)
	})
	return <-done
}

func (pc *PeerConnection) isClosedNow() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.isClosed
}

// setDescription implements DescriptionApplier (spec.md §4.3): validate,
// transition signaling state, associate transceivers, commit ICE/DTLS,
// flush buffered candidates, and re-check renegotiation-needed on a
// return to stable.
func (pc *PeerConnection) setDescription(desc *SessionDescription, op stateChangeOp) error {
	pc.mu.Lock()
	if pc.isClosed {
		pc.mu.Unlock()
		return &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	}
	cur := pc.signalingState
	pc.mu.Unlock()

	next, err := checkNextSignalingState(cur, nextStateFor(cur, op, desc.Type), op, desc.Type)
	if err != nil {
		return err
	}

	if desc.Type == SDPTypeRollback {
		pc.mu.Lock()
		pc.signalingState = next
		if op == stateChangeOpSetLocal {
			pc.pendingLocal = nil
		} else {
			pc.pendingRemote = nil
		}
		pc.mu.Unlock()
		pc.fireSignalingStateChange(next)
		return nil
	}

	parsed, err := desc.parse()
	if err != nil {
		return err
	}
	if err := validateDescription(parsed); err != nil {
		return err
	}

	pc.mu.Lock()
	pc.signalingState = next
	switch {
	case op == stateChangeOpSetLocal && next == SignalingStateStable:
		pc.currentLocal = desc
		pc.currentRemote = pc.pendingRemote
		pc.pendingLocal = nil
		pc.pendingRemote = nil
		pc.lastIsOfferer = desc.Type == SDPTypeAnswer
	case op == stateChangeOpSetRemote && next == SignalingStateStable:
		pc.currentRemote = desc
		pc.currentLocal = pc.pendingLocal
		pc.pendingLocal = nil
		pc.pendingRemote = nil
		pc.lastIsOfferer = desc.Type != SDPTypeAnswer
	case op == stateChangeOpSetLocal:
		pc.pendingLocal = desc
	default:
		pc.pendingRemote = desc
	}
	transports := pc.transports
	pc.mu.Unlock()

	pc.fireSignalingStateChange(next)

	if err := pc.associateSections(parsed, desc, op, transports); err != nil {
		return err
	}
	pc.collate()

	pc.mu.RLock()
	haveBoth := pc.currentLocal != nil && pc.currentRemote != nil
	pc.mu.RUnlock()
	if haveBoth {
		pc.flushPendingCandidates()
	}

	if next == SignalingStateStable {
		pc.recheckNegotiationNeeded()
	}

	return nil
}

func nextStateFor(cur SignalingState, op stateChangeOp, sdpType SDPType) SignalingState {
	switch {
	case sdpType == SDPTypeRollback:
		return SignalingStateStable
	case cur == SignalingStateStable && sdpType == SDPTypeOffer && op == stateChangeOpSetLocal:
		return SignalingStateHaveLocalOffer
	case cur == SignalingStateStable && sdpType == SDPTypeOffer && op == stateChangeOpSetRemote:
		return SignalingStateHaveRemoteOffer
	case sdpType == SDPTypeAnswer:
		return SignalingStateStable
	case cur == SignalingStateHaveLocalOffer && op == stateChangeOpSetRemote && sdpType == SDPTypePranswer:
		return SignalingStateHaveRemotePranswer
	case cur == SignalingStateHaveRemoteOffer && op == stateChangeOpSetLocal && sdpType == SDPTypePranswer:
		return SignalingStateHaveLocalPranswer
	case cur == SignalingStateHaveLocalOffer && op == stateChangeOpSetLocal && sdpType == SDPTypeOffer:
		return SignalingStateHaveLocalOffer
	case cur == SignalingStateHaveRemoteOffer && op == stateChangeOpSetRemote && sdpType == SDPTypeOffer:
		return SignalingStateHaveRemoteOffer
	case cur == SignalingStateHaveLocalPranswer && sdpType == SDPTypePranswer:
		return SignalingStateHaveLocalPranswer
	case cur == SignalingStateHaveRemotePranswer && sdpType == SDPTypePranswer:
		return SignalingStateHaveRemotePranswer
	default:
		return cur
	}
}

// associateSections performs the per-section steps of spec.md §4.3:
// match-or-create, assign mid/mline, compute current_direction and
// rtcp_mux, and commit ICE credentials on the matching Transport. desc.Type
// and op together say whether this pass applies our own description
// (start gathering, dial once the peer's credentials are known) or the
// remote's (commit its ufrag/pwd as remote credentials).
func (pc *PeerConnection) associateSections(parsed *sdp.SessionDescription, desc *SessionDescription, op stateChangeOp, transports map[uint64]*Transport) error {
	for i, m := range parsed.MediaDescriptions {
		mid, _ := mediaAttributeValue(m, sdp.AttrKeyMID)
		dir := sectionDirection(m)
		rejected := sectionRejected(m)

		pc.mu.Lock()
		t := findOrCreateTransceiver(&pc.transceivers, mid, i, dir)
		_ = t.setMid(mid)
		_ = t.setMLine(i)
		pc.mu.Unlock()

		if rejected {
			t.Stop()
			continue
		}

		pc.mu.Lock()
		sessionID, hasTransport := t.TransportID()
		var transport *Transport
		if hasTransport {
			transport = transports[sessionID]
		} else {
			sessionID = pc.nextSession.inc()
			cert, err := GenerateCertificate()
			if err != nil {
				pc.mu.Unlock()
				return err
			}
			transport = newTransport(sessionID, cert, pc.loggerFactory, pc.interceptorRegistry)
			transports[sessionID] = transport
			t.bindTransport(sessionID)
			pc.wireTransport(transport)
		}
		pc.mu.Unlock()

		if setup, ok := mediaAttributeValue(m, sdp.AttrKeyConnectionSetup); ok {
			if op == stateChangeOpSetLocal {
				transport.setDTLSRole(dtlsRoleFromSetup(setup))
			} else if resolved, err := intersectSetup(setup); err == nil {
				transport.setDTLSRole(dtlsRoleFromSetup(resolved))
			}
		}

		_, rtcpMuxPresent := mediaAttributeValue(m, sdp.AttrKeyRTCPMux)
		transport.setRTCPMux(rtcpMuxPresent)

		if op == stateChangeOpSetLocal {
			role := ICERoleControlled
			if desc.Type == SDPTypeOffer {
				role = ICERoleControlling
			}
			if err := transport.ensureStarted(role, pc.loggerFactory); err != nil {
				return err
			}
		} else {
			ufrag, hasUfrag := mediaAttributeValue(m, "ice-ufrag")
			pwd, hasPwd := mediaAttributeValue(m, "ice-pwd")
			if hasUfrag && hasPwd {
				transport.commitRemoteParameters(ICEParameters{UsernameFragment: ufrag, Password: pwd})
			}
		}
		pc.maybeDial(transport)

		t.setCurrentDirection(dir)

		if codecs, err := parsePayloadCodecs(m); err == nil && len(codecs) > 0 {
			t.bindEndpoints(dir, codecs[0].PayloadType, codecs[0].MimeType, transport)
		}
	}
	return nil
}

// maybeDial starts connectivity checks once both this transport's local
// ICE agent has begun gathering and the remote's credentials are known
// (spec.md §4.3); it is a no-op, safely retried, until both are true.
func (pc *PeerConnection) maybeDial(t *Transport) {
	if !t.isStarted() {
		return
	}
	remote, ok := t.remoteParameters()
	if !ok {
		return
	}
	go func() {
		if err := t.dial(context.Background(), remote); err != nil {
			pc.log.Warnf("ice dial failed: %s", err)
		}
	}()
}

func (pc *PeerConnection) fireSignalingStateChange(s SignalingState) {
	pc.mu.RLock()
	cb := pc.onSignalingStateChange
	pc.mu.RUnlock()
	if cb != nil {
		cb(s)
	}
}

func (pc *PeerConnection) recheckNegotiationNeeded() {
	pc.mu.RLock()
	hasLocal := pc.currentLocal != nil
	hasRemote := pc.currentRemote != nil
	transceivers := append([]*RTPTransceiver{}, pc.transceivers...)
	isOfferer := pc.lastIsOfferer
	local, remote := pc.currentLocal, pc.currentRemote
	pc.mu.RUnlock()

	needed := needsNegotiation(hasLocal, hasRemote, transceivers, isOfferer, sectionDirs(local, remote))
	pc.negotiationLatched.set(needed)
}

func (pc *PeerConnection) enqueueNegotiationCheck() {
	pc.ops.Enqueue(func() {
		pc.mu.RLock()
		closed := pc.isClosed
		stable := pc.signalingState == SignalingStateStable
		pc.mu.RUnlock()
		if closed || !stable {
			return
		}
		pc.recheckNegotiationNeeded()
	})
}

// AddICECandidate implements spec.md §4.6: normalize, buffer until both
// current descriptions exist, otherwise forward immediately.
func (pc *PeerConnection) AddICECandidate(init ICECandidateInit) error {
	pc.ops.Enqueue(func() {
		pc.mu.Lock()
		if pc.isClosed {
			pc.mu.Unlock()
			return
		}
		mline := 0
		if init.SDPMLineIndex != nil {
			mline = int(*init.SDPMLineIndex)
		}
		candidate := normalizeCandidateLine(init.Candidate)
		haveBoth := pc.currentLocal != nil && pc.currentRemote != nil
		if !haveBoth {
			pc.pendingCandidates = append(pc.pendingCandidates, bufferedCandidate{mline: mline, candidate: candidate})
			pc.mu.Unlock()
			return
		}
		transport := pc.transportForMLine(mline)
		pc.mu.Unlock()

		if transport == nil {
			pc.log.Warnf("add-ice-candidate: unknown mline %d", mline)
			return
		}
		pc.deliverCandidate(transport, candidate)
	})
	return nil
}

func normalizeCandidateLine(line string) string {
	if len(line) >= 10 && line[:10] == "candidate:" {
		return line
	}
	return "candidate:" + line
}

// transportForMLine must be called with pc.mu held.
func (pc *PeerConnection) transportForMLine(mline int) *Transport {
	for _, t := range pc.transceivers {
		if idx, ok := t.MLine(); ok && idx == mline {
			if sessionID, ok := t.TransportID(); ok {
				return pc.transports[sessionID]
			}
		}
	}
	return nil
}

// mlineForTransport must be called with pc.mu held (read or write).
func (pc *PeerConnection) mlineForTransport(sessionID uint64) (int, bool) {
	for _, t := range pc.transceivers {
		if id, ok := t.TransportID(); ok && id == sessionID {
			if idx, ok := t.MLine(); ok {
				return idx, true
			}
		}
	}
	return 0, false
}

// wireTransport attaches the callbacks every newly-created Transport needs
// on the PeerConnection side: an ICE state or selected-pair change
// recomputes the three aggregated properties of spec.md §4.5 via collate,
// and a gathered local candidate is surfaced through on-ice-candidate
// (spec.md §4.6/§6), grounded on icetransport.go's Start wiring
// OnConnectionStateChange/OnSelectedCandidatePairChange/OnCandidate to the
// embedder-facing handlers.
func (pc *PeerConnection) wireTransport(t *Transport) {
	t.OnICEStateChange(func(ICETransportState) { pc.collate() })
	t.OnSelectedCandidatePairChange(func(*ICECandidatePair) { pc.collate() })
	t.OnICECandidate(func(c ICECandidate) {
		pc.mu.RLock()
		mline, ok := pc.mlineForTransport(t.sessionID)
		cb := pc.onICECandidate
		pc.mu.RUnlock()
		if !ok || cb == nil {
			return
		}
		cb(mline, c.ToJSON().Candidate)
	})
}

func (pc *PeerConnection) deliverCandidate(transport *Transport, line string) {
	c, err := parseCandidateAttribute(line)
	if err != nil {
		pc.log.Warnf("unparseable ice candidate: %s", err)
		return
	}
	if err := transport.addRemoteCandidate(c); err != nil {
		pc.log.Warnf("add remote candidate failed: %s", err)
	}
}

// flushPendingCandidates delivers pending_ice_candidates in enqueue order
// (P5), called once both current descriptions exist.
func (pc *PeerConnection) flushPendingCandidates() {
	pc.mu.Lock()
	pending := pc.pendingCandidates
	pc.pendingCandidates = nil
	pc.mu.Unlock()

	for _, bc := range pending {
		pc.mu.Lock()
		transport := pc.transportForMLine(bc.mline)
		pc.mu.Unlock()
		if transport == nil {
			pc.log.Warnf("flush: unknown mline %d", bc.mline)
			continue
		}
		pc.deliverCandidate(transport, bc.candidate)
	}
}

// Close implements spec.md §5's cancellation: set is_closed, quit the
// worker, let in-flight tasks finish their own is_closed check.
func (pc *PeerConnection) Close() error {
	pc.mu.Lock()
	if pc.isClosed {
		pc.mu.Unlock()
		return nil
	}
	pc.isClosed = true
	transports := pc.transports
	pc.mu.Unlock()

	pc.ops.GracefulClose()

	for _, t := range transports {
		_ = t.close()
	}

	pc.mu.Lock()
	pc.signalingState = SignalingStateClosed
	pc.mu.Unlock()
	pc.fireSignalingStateChange(SignalingStateClosed)
	return nil
}

// collate recomputes the three aggregated properties of spec.md §4.5 and
// fires their change notifications outside any held lock.
func (pc *PeerConnection) collate() {
	pc.mu.RLock()
	closed := pc.isClosed
	snaps := make([]transportSnapshot, 0, len(pc.transports))
	for _, t := range pc.transports {
		snaps = append(snaps, transportSnapshot{ice: t.iceStateSnapshot(), dtls: t.dtlsStateSnapshot()})
	}
	pc.mu.RUnlock()

	var sc stateCollator
	gathering := sc.gatheringState(snaps)
	iceConn := sc.connectionState(snaps, closed)
	connState := sc.peerConnectionState(snaps, closed)

	pc.mu.Lock()
	gatheringChanged := pc.iceGatheringState != gathering
	iceConnChanged := pc.iceConnectionState != iceConn
	connChanged := pc.connectionState != connState
	pc.iceGatheringState = gathering
	pc.iceConnectionState = iceConn
	pc.connectionState = connState
	gatheringCb, iceCb, connCb := pc.onICEGatheringStateChange, pc.onICEConnectionStateChange, pc.onConnectionStateChange
	pc.mu.Unlock()

	if gatheringChanged && gatheringCb != nil {
		gatheringCb(gathering)
	}
	if iceConnChanged && iceCb != nil {
		iceCb(iceConn)
	}
	if connChanged && connCb != nil {
		connCb(connState)
	}
}
