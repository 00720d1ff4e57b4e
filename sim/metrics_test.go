package sim

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NoAttempts_ZeroRatios(t *testing.T) {
	// GIVEN metrics from a run where nothing was sent
	m := NewMetrics(NewWorkloadConfig(3, 0), DefaultBusConfig(), 1000)

	// THEN efficiency, throughput and access delay report zero instead of NaN
	assert.Equal(t, 0.0, m.Efficiency())
	assert.Equal(t, 0.0, m.Throughput())
	assert.Equal(t, 0.0, m.MeanAccessDelay())
}

func TestMetrics_EfficiencyAndThroughput(t *testing.T) {
	m := NewMetrics(NewWorkloadConfig(2, 5), DefaultBusConfig(), 10)
	m.TransmittedPackets = 8
	m.SuccessfulTransmissions = 6
	m.TotalAccessDelay = 0.012

	assert.InDelta(t, 0.75, m.Efficiency(), 1e-12)
	// 6 frames * 1500 bits / 10 s
	assert.InDelta(t, 900.0, m.Throughput(), 1e-9)
	assert.InDelta(t, 0.002, m.MeanAccessDelay(), 1e-12)
}

func TestMetrics_Print_ContainsReportFields(t *testing.T) {
	m := NewMetrics(NewWorkloadConfig(4, 7), DefaultBusConfig(), 1000)
	m.GeneratedPackets = 10
	m.TransmittedPackets = 12
	m.SuccessfulTransmissions = 9
	m.DroppedPackets = 1

	var buf bytes.Buffer
	m.Print(&buf)
	out := buf.String()

	for _, want := range []string{
		"Arrival Rate", "Nodes", "Successful Transmissions", "Dropped Packets",
		"Generated Packets", "Transmission Attempts", "Efficiency", "Throughput",
	} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "0.750000")
}

func TestMetrics_WriteJSON(t *testing.T) {
	m := NewMetrics(NewWorkloadConfig(2, 1), DefaultBusConfig(), 10)
	m.TransmittedPackets = 2
	m.SuccessfulTransmissions = 2

	var buf bytes.Buffer
	require.NoError(t, m.WriteJSON(&buf))

	var out MetricsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 2, out.NumNodes)
	assert.Equal(t, 1.0, out.Efficiency)
	assert.InDelta(t, 300.0, out.ThroughputBps, 1e-9)
}
