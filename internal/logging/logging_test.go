package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/skovmand/advent-of-code-2017/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" INFO ":  zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"Error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_File(t *testing.T) {
	dir := t.TempDir()
	conf := config.Default().Log
	conf.Output = "file"
	conf.Path = dir
	conf.Encoding = "json"

	logger, err := New(conf)
	require.NoError(t, err)
	logger.Info("diagnostic finished")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, logFilename))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"diagnostic finished"`)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(config.LogConf{Output: "file"})
	assert.Error(t, err)

	_, err = New(config.LogConf{Output: "syslog"})
	assert.ErrorContains(t, err, "unknown log output")
}
