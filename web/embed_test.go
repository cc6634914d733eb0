package web

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_ServesIndex(t *testing.T) {
	data, err := fs.ReadFile(Static(), "index.html")
	require.NoError(t, err)
	assert.Contains(t, string(data), "/api/state")
	assert.Contains(t, string(data), "/ws")
}
