package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePrediction(t *testing.T) {
	m := New()

	m.ObservePrediction(PredictorText, true, 10*time.Millisecond)
	m.ObservePrediction(PredictorImage, true, 20*time.Millisecond)
	m.ObservePrediction(PredictorImage, false, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictions.WithLabelValues(PredictorText, OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictions.WithLabelValues(PredictorImage, OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictions.WithLabelValues(PredictorImage, OutcomeError)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestObserveDecision(t *testing.T) {
	m := New()

	m.ObserveDecision("High")
	m.ObserveDecision("High")
	m.ObserveDecision("Low")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.riskLevels.WithLabelValues("High")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.riskLevels.WithLabelValues("Low")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveDecision("Moderate")

	path := filepath.Join(t.TempDir(), "heartrisk.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `heartrisk_risk_level_total{level="Moderate"} 1`), string(data))
}

func TestWriteTextfileDisabled(t *testing.T) {
	assert.NoError(t, New().WriteTextfile(""))
}
