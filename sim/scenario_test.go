package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsim-lab/csmacd-sim/sim/trace"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ValidYAML(t *testing.T) {
	yaml := `
seed: 7
horizon_s: 50
nodes: 30
arrival_rate: 12.5
trace: rounds
bus:
  distance_m: 20
  transmission_rate_bps: 10000000
protocol:
  persistence: non-persistent
  max_retries: 15
sweep:
  node_counts: [20, 40]
  arrival_rates: [5, 10]
  trials: 3
`
	sc, err := LoadScenario(writeTempYAML(t, yaml))
	require.NoError(t, err)
	require.NoError(t, sc.Validate())

	cfg := DefaultSimConfig(1, 1)
	require.NoError(t, sc.Apply(&cfg))

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 50.0, cfg.Horizon)
	assert.Equal(t, 30, cfg.Workload.NumNodes)
	assert.Equal(t, 12.5, cfg.Workload.ArrivalRate)
	assert.Equal(t, trace.TraceLevelRounds, cfg.TraceLevel)
	assert.Equal(t, 20.0, cfg.Bus.DistanceBetweenNodes)
	assert.Equal(t, 1e7, cfg.Bus.TransmissionRate)
	assert.Equal(t, 1500.0, cfg.Bus.PacketLength, "unset fields keep defaults")
	assert.Equal(t, PersistenceNonPersistent, cfg.Protocol.Persistence)
	assert.Equal(t, 15, cfg.Protocol.MaxRetries)
	assert.Equal(t, 10, cfg.Protocol.BackoffCap, "unset fields keep defaults")

	require.NotNil(t, sc.Sweep)
	assert.Equal(t, []int{20, 40}, sc.Sweep.NodeCounts)
	assert.Equal(t, []float64{5, 10}, sc.Sweep.ArrivalRates)
	assert.Equal(t, 3, sc.Sweep.Trials)
}

func TestLoadScenario_ZeroValueIsDistinctFromUnset(t *testing.T) {
	// GIVEN a scenario that explicitly sets max_retries to zero
	sc, err := LoadScenario(writeTempYAML(t, "protocol:\n  max_retries: 0\n"))
	require.NoError(t, err)

	// THEN the pointer is set and Apply honours the zero
	require.NotNil(t, sc.Protocol.MaxRetries)
	cfg := DefaultSimConfig(2, 1)
	require.NoError(t, sc.Apply(&cfg))
	assert.Equal(t, 0, cfg.Protocol.MaxRetries)
}

func TestLoadScenario_UnknownField_Error(t *testing.T) {
	_, err := LoadScenario(writeTempYAML(t, "nodez: 4\n"))
	assert.Error(t, err)
}

func TestLoadScenario_MissingFile_Error(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "reading scenario")
	}
}

func TestScenario_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown persistence", "protocol:\n  persistence: sometimes\n"},
		{"unknown trace", "trace: everything\n"},
		{"zero nodes", "nodes: 0\n"},
		{"negative rate", "arrival_rate: -2\n"},
		{"negative sweep rate", "sweep:\n  arrival_rates: [1, -1]\n"},
		{"zero sweep nodes", "sweep:\n  node_counts: [0]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := LoadScenario(writeTempYAML(t, tt.yaml))
			require.NoError(t, err)
			assert.Error(t, sc.Validate())
		})
	}
}

func TestScenario_Apply_InvalidResult_Error(t *testing.T) {
	// GIVEN a bus speed of zero, which only the merged config can reject
	sc, err := LoadScenario(writeTempYAML(t, "bus:\n  propagation_speed_mps: 0\n"))
	require.NoError(t, err)

	cfg := DefaultSimConfig(2, 1)
	assert.Error(t, sc.Apply(&cfg))
}
