package webrtc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDTLSRoleFromSetup(t *testing.T) {
	tests := []struct {
		setup string
		want  DTLSRole
	}{
		{"active", DTLSRoleClient},
		{"passive", DTLSRoleServer},
		{"actpass", DTLSRoleAuto},
		{"", DTLSRoleAuto},
		{"garbage", DTLSRoleAuto},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dtlsRoleFromSetup(tt.setup), "setup=%q", tt.setup)
	}
}

func TestDTLSRoleString(t *testing.T) {
	assert.Equal(t, "client", DTLSRoleClient.String())
	assert.Equal(t, "server", DTLSRoleServer.String())
	assert.Equal(t, "auto", DTLSRoleAuto.String())
}

func TestIntersectSetupTable(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"actpass", "active"},
		{"", "active"},
		{"passive", "active"},
		{"active", "passive"},
	}
	for _, tt := range tests {
		got, err := intersectSetup(tt.remote)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got, "remote setup=%q", tt.remote)
	}
}

func TestIntersectSetupRejectsUnknownValue(t *testing.T) {
	_, err := intersectSetup("holdconn")
	assert.ErrorIs(t, err, ErrSessionDescriptionInvalidSetup)
}

func TestICERoleString(t *testing.T) {
	assert.Equal(t, "controlling", ICERoleControlling.String())
	assert.Equal(t, "controlled", ICERoleControlled.String())
}

func TestNewICEProtocol(t *testing.T) {
	tests := []struct {
		raw  string
		want ICEProtocol
	}{
		{"udp", ICEProtocolUDP},
		{"UDP", ICEProtocolUDP},
		{"tcp", ICEProtocolTCP},
		{"TCP", ICEProtocolTCP},
	}
	for _, tt := range tests {
		got, err := NewICEProtocol(tt.raw)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewICEProtocolRejectsUnknown(t *testing.T) {
	_, err := NewICEProtocol("sctp")
	assert.ErrorIs(t, err, ErrICEProtocolUnknown)
}

func TestICEProtocolString(t *testing.T) {
	assert.Equal(t, "udp", ICEProtocolUDP.String())
	assert.Equal(t, "tcp", ICEProtocolTCP.String())
}
