package injector

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\nengine:\n  frame_rate: 30\n"), 0o644))

	var out bytes.Buffer
	e, cleanup, err := InitializeEngine(path, &out)
	require.NoError(t, err)
	defer cleanup()

	e.Submit("terminal echo wired")
	assert.Equal(t, "wired\n", e.Frame())
}

func TestInitializeEngineBadConfig(t *testing.T) {
	_, _, err := InitializeEngine(filepath.Join(t.TempDir(), "missing.yaml"), &bytes.Buffer{})
	assert.Error(t, err)
}
