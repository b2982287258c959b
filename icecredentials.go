package webrtc

import "github.com/pion/randutil"

// iceCredentialAlphabet is the alphabet spec.md §6 mandates for generated
// ice-ufrag and ice-pwd values: A-Z a-z 0-9 + /.
const iceCredentialAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const (
	iceUfragLength = 32
	icePwdLength   = 32
)

// ICEParameters carries the ufrag/pwd pair a Transport's ICE half commits
// as local or remote credentials (spec.md §4.3).
type ICEParameters struct {
	UsernameFragment string
	Password         string
}

// generateICEParameters produces a uniform-random ufrag/pwd pair, grounded
// on the teacher's use of randutil.GenerateCryptoRandomString for SSRC/track
// identifiers (rtpsender.go).
func generateICEParameters() (ICEParameters, error) {
	ufrag, err := randutil.GenerateCryptoRandomString(iceUfragLength, iceCredentialAlphabet)
	if err != nil {
		return ICEParameters{}, err
	}
	pwd, err := randutil.GenerateCryptoRandomString(icePwdLength, iceCredentialAlphabet)
	if err != nil {
		return ICEParameters{}, err
	}
	return ICEParameters{UsernameFragment: ufrag, Password: pwd}, nil
}

// generateMid produces a short random mid value for a newly associated
// media section.
func generateMid() (string, error) {
	return randutil.GenerateCryptoRandomString(6, iceCredentialAlphabet)
}
