package webrtc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDefaultCodecsPopulatesAllDefaults(t *testing.T) {
	m := NewMediaEngine()
	require.NoError(t, m.RegisterDefaultCodecs())

	audio := m.getCodecsByKind(RTPCodecTypeAudio)
	video := m.getCodecsByKind(RTPCodecTypeVideo)
	assert.Len(t, audio, 4, "opus, g722, pcmu, pcma")
	assert.Len(t, video, 3, "vp8, vp9, h264")

	for _, c := range append(audio, video...) {
		hasNack := false
		hasNackPLI := false
		for _, fb := range c.RTCPFeedback {
			if fb.Type == "nack" && fb.Parameter == "" {
				hasNack = true
			}
			if fb.Type == "nack" && fb.Parameter == "pli" {
				hasNackPLI = true
			}
		}
		assert.True(t, hasNack, "%s missing nack feedback", c.MimeType)
		assert.True(t, hasNackPLI, "%s missing nack pli feedback", c.MimeType)
	}
}

func TestGetCodecByPayload(t *testing.T) {
	m := NewMediaEngine()
	require.NoError(t, m.RegisterDefaultCodecs())

	c, err := m.getCodecByPayload(defaultPayloadTypeOpus)
	require.NoError(t, err)
	assert.Equal(t, MimeTypeOpus, c.MimeType)

	_, err = m.getCodecByPayload(200)
	assert.ErrorIs(t, err, ErrCodecNotFound)
}

func TestUpdateCodecParametersMimeAndFmtpMatch(t *testing.T) {
	m := NewMediaEngine()
	require.NoError(t, m.RegisterDefaultCodecs())

	remote := RTPCodecParameters{
		RTPCodecCapability: RTPCodecCapability{
			MimeType:    MimeTypeOpus,
			SDPFmtpLine: "minptime=10;useinbandfec=1",
		},
		PayloadType: 109,
	}
	matched, ok := m.updateCodecParameters(remote)
	require.True(t, ok)
	assert.Equal(t, MimeTypeOpus, matched.MimeType)
	assert.Equal(t, uint8(109), matched.PayloadType, "remote payload type wins")
}

func TestUpdateCodecParametersMimeOnlyFallback(t *testing.T) {
	m := NewMediaEngine()
	require.NoError(t, m.RegisterDefaultCodecs())

	remote := RTPCodecParameters{
		RTPCodecCapability: RTPCodecCapability{
			MimeType:    MimeTypeVP8,
			SDPFmtpLine: "some-unrecognized-param=1",
		},
		PayloadType: 120,
	}
	matched, ok := m.updateCodecParameters(remote)
	require.True(t, ok)
	assert.Equal(t, MimeTypeVP8, matched.MimeType)
	assert.Equal(t, uint8(120), matched.PayloadType)
}

func TestUpdateCodecParametersNoMatch(t *testing.T) {
	m := NewMediaEngine()
	require.NoError(t, m.RegisterDefaultCodecs())

	remote := RTPCodecParameters{
		RTPCodecCapability: RTPCodecCapability{MimeType: "video/AV1"},
		PayloadType:        45,
	}
	_, ok := m.updateCodecParameters(remote)
	assert.False(t, ok)
}

func TestCodecKind(t *testing.T) {
	assert.Equal(t, RTPCodecTypeAudio, codecKind(MimeTypeOpus))
	assert.Equal(t, RTPCodecTypeVideo, codecKind(MimeTypeVP8))
	assert.Equal(t, RTPCodecTypeVideo, codecKind("video/AV1"))
}

func TestRTPCodecTypeString(t *testing.T) {
	assert.Equal(t, "audio", RTPCodecTypeAudio.String())
	assert.Equal(t, "video", RTPCodecTypeVideo.String())
}
