package webrtc

import "errors"

// Sentinel errors wrapped by the typed errors in pkg/rtcerr. Each maps to a
// bucket in the error taxonomy: invalid-state, bad-sdp, fingerprint,
// invalid-modification, cancelled, failed.
var (
	// invalid-state
	ErrConnectionClosed          = errors.New("peer connection closed")
	ErrInvalidSignalingState     = errors.New("invalid signaling state transition")
	ErrNoPendingRemoteDescription = errors.New("createAnswer called without a pending remote offer")

	// bad-sdp
	ErrSessionDescriptionHasKLine  = errors.New("session description contains a k= line")
	ErrSessionDescriptionMissingMid = errors.New("media section missing a=mid")
	ErrSessionDescriptionMissingIceCreds = errors.New("media section missing ice-ufrag or ice-pwd")
	ErrSessionDescriptionInvalidSetup = errors.New("media section has an invalid or missing a=setup value")
	ErrSessionDescriptionInvalidDirectionIntersection = errors.New("no valid direction intersection between offer and answer")
	ErrSessionDescriptionPayloadTypesUnparsable = errors.New("media section payload type list is not parseable")

	// fingerprint
	ErrSessionDescriptionNoFingerprint = errors.New("session description has no fingerprint")
	ErrSessionDescriptionConflictingFingerprints = errors.New("session-level and media-level fingerprints disagree")

	// invalid-modification
	ErrMidAlreadyAssigned            = errors.New("transceiver mid cannot be reassigned once set")
	ErrMlineAlreadyAssigned          = errors.New("transceiver m-line index cannot change once set")
	ErrModifyingCertificates         = errors.New("certificates cannot be modified after construction")
	ErrModifyingICECandidatePoolSize = errors.New("ice candidate pool size cannot be modified after construction")

	// operational / misc
	ErrTransceiverStopped  = errors.New("transceiver is stopped")
	ErrCodecNotFound       = errors.New("codec not found for payload type")
	ErrUnknownMline        = errors.New("add-ice-candidate referenced an unknown m-line index")
	ErrICEServerNoURLs     = errors.New("ice server has no URLs")
	ErrICEServerInvalidURL = errors.New("ice server URL must start with stun:, stuns:, turn:, or turns:")
	ErrICEProtocolUnknown  = errors.New("unrecognized ice candidate transport protocol")
	ErrICECandidateTypeUnknown = errors.New("unrecognized ice candidate type")
	ErrNetworkTypeUnknown      = errors.New("unrecognized network type")
	ErrEndpointDirectionForbidsWrite = errors.New("endpoint direction does not permit sending RTP")
)
