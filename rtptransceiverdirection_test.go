package webrtc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRTPTransceiverDirectionStringRoundTrip(t *testing.T) {
	cases := []RTPTransceiverDirection{
		RTPTransceiverDirectionSendrecv,
		RTPTransceiverDirectionSendonly,
		RTPTransceiverDirectionRecvonly,
		RTPTransceiverDirectionInactive,
	}
	for _, d := range cases {
		got := NewRTPTransceiverDirection(d.String())
		assert.Equal(t, d, got, "round trip through String/NewRTPTransceiverDirection for %v", d)
	}
}

func TestNewRTPTransceiverDirectionUnknown(t *testing.T) {
	assert.Equal(t, RTPTransceiverDirectionNone, NewRTPTransceiverDirection("bogus"))
}

func TestMirrorDirection(t *testing.T) {
	tests := []struct {
		in, want RTPTransceiverDirection
	}{
		{RTPTransceiverDirectionSendonly, RTPTransceiverDirectionRecvonly},
		{RTPTransceiverDirectionRecvonly, RTPTransceiverDirectionSendonly},
		{RTPTransceiverDirectionSendrecv, RTPTransceiverDirectionSendrecv},
		{RTPTransceiverDirectionInactive, RTPTransceiverDirectionInactive},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mirrorDirection(tt.in))
	}
}

func TestMirrorDirectionIsInvolution(t *testing.T) {
	for _, d := range []RTPTransceiverDirection{
		RTPTransceiverDirectionSendrecv,
		RTPTransceiverDirectionSendonly,
		RTPTransceiverDirectionRecvonly,
		RTPTransceiverDirectionInactive,
	} {
		assert.Equal(t, d, mirrorDirection(mirrorDirection(d)), "mirror should be its own inverse for %v", d)
	}
}

func TestIntersectDirectionsTable(t *testing.T) {
	tests := []struct {
		offer, answer, want RTPTransceiverDirection
	}{
		{RTPTransceiverDirectionSendonly, RTPTransceiverDirectionSendrecv, RTPTransceiverDirectionRecvonly},
		{RTPTransceiverDirectionSendonly, RTPTransceiverDirectionRecvonly, RTPTransceiverDirectionRecvonly},
		{RTPTransceiverDirectionRecvonly, RTPTransceiverDirectionSendrecv, RTPTransceiverDirectionSendonly},
		{RTPTransceiverDirectionRecvonly, RTPTransceiverDirectionSendonly, RTPTransceiverDirectionSendonly},
		{RTPTransceiverDirectionSendrecv, RTPTransceiverDirectionSendrecv, RTPTransceiverDirectionSendrecv},
		{RTPTransceiverDirectionSendrecv, RTPTransceiverDirectionSendonly, RTPTransceiverDirectionSendonly},
		{RTPTransceiverDirectionSendrecv, RTPTransceiverDirectionRecvonly, RTPTransceiverDirectionRecvonly},
	}
	for _, tt := range tests {
		got, err := intersectDirections(tt.offer, tt.answer)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestIntersectDirectionsInactiveAlwaysWins(t *testing.T) {
	for _, other := range []RTPTransceiverDirection{
		RTPTransceiverDirectionSendrecv,
		RTPTransceiverDirectionSendonly,
		RTPTransceiverDirectionRecvonly,
		RTPTransceiverDirectionInactive,
	} {
		got, err := intersectDirections(RTPTransceiverDirectionInactive, other)
		assert.NoError(t, err)
		assert.Equal(t, RTPTransceiverDirectionInactive, got)

		got, err = intersectDirections(other, RTPTransceiverDirectionInactive)
		assert.NoError(t, err)
		assert.Equal(t, RTPTransceiverDirectionInactive, got)
	}
}

func TestIntersectDirectionsRejectsIncompatiblePair(t *testing.T) {
	_, err := intersectDirections(RTPTransceiverDirectionSendonly, RTPTransceiverDirectionSendonly)
	assert.ErrorIs(t, err, ErrSessionDescriptionInvalidDirectionIntersection)
}

// TestIntersectDirectionsMirrorSymmetry checks invariant P3: intersecting
// the mirrored pair must produce the mirror of the original result.
func TestIntersectDirectionsMirrorSymmetry(t *testing.T) {
	pairs := []struct{ offer, answer RTPTransceiverDirection }{
		{RTPTransceiverDirectionSendonly, RTPTransceiverDirectionSendrecv},
		{RTPTransceiverDirectionRecvonly, RTPTransceiverDirectionSendrecv},
		{RTPTransceiverDirectionSendrecv, RTPTransceiverDirectionSendrecv},
	}
	for _, p := range pairs {
		forward, err := intersectDirections(p.offer, p.answer)
		assert.NoError(t, err)

		mirrored, err := intersectDirections(mirrorDirection(p.offer), mirrorDirection(p.answer))
		assert.NoError(t, err)

		assert.Equal(t, mirrorDirection(forward), mirrored)
	}
}
