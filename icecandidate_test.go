package webrtc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandidateAttributeHostCandidate(t *testing.T) {
	line := "candidate:1 1 udp 2130706431 10.0.0.1 54400 typ host"
	c, err := parseCandidateAttribute(line)
	require.NoError(t, err)
	assert.Equal(t, ICECandidateTypeHost, c.Typ)
	assert.Equal(t, "10.0.0.1", c.Address)
	assert.Equal(t, uint16(54400), c.Port)
	assert.Equal(t, ICEProtocolUDP, c.Protocol)
}

func TestParseCandidateAttributeRejectsGarbage(t *testing.T) {
	_, err := parseCandidateAttribute("candidate:not a real candidate")
	assert.Error(t, err)
}

func TestICECandidateToJSONRoundTrips(t *testing.T) {
	line := "candidate:1 1 udp 2130706431 10.0.0.1 54400 typ host"
	c, err := parseCandidateAttribute(line)
	require.NoError(t, err)
	c.SDPMid = "0"
	c.SDPMLineIndex = 0

	init := c.ToJSON()
	assert.Equal(t, "0", *init.SDPMid)
	assert.Contains(t, init.Candidate, "udp")
	assert.Contains(t, init.Candidate, "host")
}

func TestICECandidateTypeStringRoundTrip(t *testing.T) {
	for _, typ := range []ICECandidateType{
		ICECandidateTypeHost,
		ICECandidateTypeSrflx,
		ICECandidateTypePrflx,
		ICECandidateTypeRelay,
	} {
		got, err := newICECandidateType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
}

func TestNewICECandidateTypeRejectsUnknown(t *testing.T) {
	_, err := newICECandidateType("bogus")
	assert.ErrorIs(t, err, ErrICECandidateTypeUnknown)
}

func TestNormalizeCandidateLineAddsPrefix(t *testing.T) {
	assert.Equal(t, "candidate:1 1 udp 1 1.1.1.1 1 typ host", normalizeCandidateLine("1 1 udp 1 1.1.1.1 1 typ host"))
	assert.Equal(t, "candidate:1 1 udp 1 1.1.1.1 1 typ host", normalizeCandidateLine("candidate:1 1 udp 1 1.1.1.1 1 typ host"))
}
