package webrtc

import "github.com/pion/sdp/v3"

// sectionDirs builds the per-mid (local-direction, remote-direction) pairs
// needsNegotiation compares each transceiver's declared direction against,
// read from the media sections of the current stable local and remote
// descriptions. A mid present on only one side (mid-renegotiation, or not
// yet negotiated) is left out, and needsNegotiation treats a missing entry
// as "nothing to compare against yet" rather than a mismatch.
func sectionDirs(local, remote *SessionDescription) map[string][2]RTPTransceiverDirection {
	out := map[string][2]RTPTransceiverDirection{}
	if local == nil || remote == nil {
		return out
	}
	localParsed, err := local.parse()
	if err != nil {
		return out
	}
	remoteParsed, err := remote.parse()
	if err != nil {
		return out
	}

	localDirs := map[string]RTPTransceiverDirection{}
	for _, m := range localParsed.MediaDescriptions {
		if mid, ok := mediaAttributeValue(m, sdp.AttrKeyMID); ok {
			localDirs[mid] = sectionDirection(m)
		}
	}
	for _, m := range remoteParsed.MediaDescriptions {
		mid, ok := mediaAttributeValue(m, sdp.AttrKeyMID)
		if !ok {
			continue
		}
		localDir, ok := localDirs[mid]
		if !ok {
			continue
		}
		out[mid] = [2]RTPTransceiverDirection{localDir, sectionDirection(m)}
	}
	return out
}

// needsNegotiation implements the renegotiation-needed check of spec.md
// §4.4, grounded on gstwebrtcbin.c's _check_if_negotiation_is_needed.
//
// isOfferer distinguishes which half of the last stable negotiation this
// PeerConnection played, since the comparison differs (§4.4): an offerer
// compares a transceiver's declared direction against either side of its
// section, an answerer compares against the intersected direction alone.
func needsNegotiation(hasCurrentLocal, hasCurrentRemote bool, transceivers []*RTPTransceiver, isOfferer bool, sectionDirs map[string][2]RTPTransceiverDirection) bool {
	if !hasCurrentLocal || !hasCurrentRemote {
		return true
	}

	for _, t := range transceivers {
		if t.Stopped() {
			continue
		}
		if _, ok := t.MLine(); !ok {
			return true
		}

		dirs, ok := sectionDirs[t.Mid()]
		if !ok {
			continue
		}

		declared := t.Direction()
		if isOfferer {
			localDir, remoteDir := dirs[0], dirs[1]
			if declared != localDir && declared != remoteDir {
				return true
			}
		} else {
			intersected, err := intersectDirections(dirs[1], dirs[0])
			if err != nil {
				return true
			}
			if declared != intersected {
				return true
			}
		}
	}
	return false
}
