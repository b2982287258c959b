package webrtc

import (
	"github.com/pion/sdp/v3"
	"github.com/webrtcbin/peerconn/pkg/rtcerr"
)

// validateDescription runs the structural checks of spec.md §4.3 rules
// 2-5 (the state-machine check, rule 1, depends on PeerConnection's
// current signaling state and is run by the caller via
// checkNextSignalingState before any of this). Failure here must leave
// state untouched, so this function takes no PeerConnection reference.
func validateDescription(parsed *sdp.SessionDescription) error {
	if len(parsed.EncryptionKeys) > 0 {
		return &rtcerr.InvalidAccessError{Err: ErrSessionDescriptionHasKLine}
	}

	sessionFP, hasSessionFP := findFingerprint(parsed.Attributes)

	for _, m := range parsed.MediaDescriptions {
		if len(m.EncryptionKeys) > 0 {
			return &rtcerr.InvalidAccessError{Err: ErrSessionDescriptionHasKLine}
		}

		if _, ok := mediaAttributeValue(m, sdp.AttrKeyMID); !ok {
			return &rtcerr.InvalidAccessError{Err: ErrSessionDescriptionMissingMid}
		}

		_, hasUfrag := mediaAttributeValue(m, "ice-ufrag")
		_, hasPwd := mediaAttributeValue(m, "ice-pwd")
		if !hasUfrag || !hasPwd {
			return &rtcerr.InvalidAccessError{Err: ErrSessionDescriptionMissingIceCreds}
		}

		setup, hasSetup := mediaAttributeValue(m, sdp.AttrKeyConnectionSetup)
		if !hasSetup || (setup != "actpass" && setup != "active" && setup != "passive") {
			return &rtcerr.InvalidAccessError{Err: ErrSessionDescriptionInvalidSetup}
		}

		mediaFP, hasMediaFP := findFingerprint(m.Attributes)
		if hasSessionFP && hasMediaFP && sessionFP != mediaFP {
			return &rtcerr.InvalidAccessError{Err: ErrSessionDescriptionConflictingFingerprints}
		}
		if !hasSessionFP && !hasMediaFP {
			return &rtcerr.InvalidAccessError{Err: ErrSessionDescriptionNoFingerprint}
		}

		if m.MediaName.Port.Value != 0 {
			if _, err := parsePayloadCodecs(m); err != nil {
				return &rtcerr.InvalidAccessError{Err: err}
			}
		}
	}

	return nil
}

func findFingerprint(attrs []sdp.Attribute) (string, bool) {
	for _, a := range attrs {
		if a.Key == "fingerprint" {
			return a.Value, true
		}
	}
	return "", false
}

// sectionDirection returns the direction that applies to m at the given
// index, used by the applier to compute current_direction per spec.md
// §4.3 and by the renegotiation-needed check (§4.4).
func sectionDirection(m *sdp.MediaDescription) RTPTransceiverDirection {
	return NewRTPTransceiverDirection(mediaDirection(m))
}

func sectionRejected(m *sdp.MediaDescription) bool {
	return m.MediaName.Port.Value == 0
}
