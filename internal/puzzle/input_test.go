package puzzle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day07.txt")
	require.NoError(t, os.WriteFile(path, []byte("a (1)\n"), 0o644))

	in, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, in.Source)
	assert.Equal(t, "a (1)\n", in.Text)
	_, err = uuid.Parse(in.ID)
	assert.NoError(t, err)
	assert.False(t, in.ReceivedAt.IsZero())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "open puzzle")
}

func TestFromReader(t *testing.T) {
	in, err := FromReader("http", strings.NewReader("b (2)"))
	require.NoError(t, err)
	assert.Equal(t, "http", in.Source)
	assert.Equal(t, "b (2)", in.Text)
}

func TestEnsureID(t *testing.T) {
	in := &Input{Text: "x (1)"}
	in.EnsureID()
	assert.NotEmpty(t, in.ID)
	assert.False(t, in.ReceivedAt.IsZero())

	in = &Input{ID: "fixed"}
	in.EnsureID()
	assert.Equal(t, "fixed", in.ID)
}
