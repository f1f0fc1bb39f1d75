package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSatisfies(t *testing.T) {
	info := Info{Version: "0.1.0"}

	ok, err := info.Satisfies(">= 0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = info.Satisfies(">= 1.0")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = info.Satisfies("whatever")
	assert.Error(t, err)
}

func TestFullString(t *testing.T) {
	info := Get()
	assert.Contains(t, info.FullString(), "frm version "+Version)
	assert.Contains(t, info.FullString(), "Declaration language: 0.1.0")
}
