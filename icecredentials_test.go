package webrtc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateICEParametersLength(t *testing.T) {
	p, err := generateICEParameters()
	require.NoError(t, err)
	assert.Len(t, p.UsernameFragment, iceUfragLength)
	assert.Len(t, p.Password, icePwdLength)
}

func TestGenerateICEParametersAreRandom(t *testing.T) {
	a, err := generateICEParameters()
	require.NoError(t, err)
	b, err := generateICEParameters()
	require.NoError(t, err)
	assert.NotEqual(t, a.UsernameFragment, b.UsernameFragment)
	assert.NotEqual(t, a.Password, b.Password)
}

func TestGenerateMidLength(t *testing.T) {
	mid, err := generateMid()
	require.NoError(t, err)
	assert.Len(t, mid, 6)
}
