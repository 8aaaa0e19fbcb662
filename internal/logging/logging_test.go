package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "json", &buf)

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("run_id", "abc").Info("models loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "models loaded", entry["msg"])
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", "text", &buf)

	log.Info("hello")

	assert.True(t, strings.Contains(buf.String(), `msg=hello`), buf.String())
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	log := New("loud", "json", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
