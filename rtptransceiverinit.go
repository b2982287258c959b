package webrtc

// RTPTransceiverInit customizes a transceiver at creation time, mirroring
// spec.md §3: a declared direction and ordered codec preferences.
type RTPTransceiverInit struct {
	Direction        RTPTransceiverDirection
	CodecPreferences []RTPCodecParameters
}
