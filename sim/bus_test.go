package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_DefaultDelays(t *testing.T) {
	bus := NewBus(DefaultBusConfig())

	assert.InDelta(t, testHopDelay, bus.PropagationDelay(1), 1e-15)
	assert.InDelta(t, 3*testHopDelay, bus.PropagationDelay(3), 1e-15)
	assert.InDelta(t, testFrameDelay, bus.TransmissionDelay(), 1e-15)
	assert.InDelta(t, testSlotTime, bus.SlotTime(), 1e-15)
}

func TestBus_ZeroOffset_NoDelay(t *testing.T) {
	bus := NewBus(DefaultBusConfig())
	assert.Equal(t, 0.0, bus.PropagationDelay(0))
	assert.Equal(t, 0.0, bus.Delay(4, 4))
}

func TestBus_Delay_Symmetric(t *testing.T) {
	// GIVEN a bus with non-default geometry
	bus := NewBus(NewBusConfig(25, 1.7e8, 1e7, 12000, 512))

	// WHEN measuring the delay in both directions between every pair
	// THEN the two directions are identical
	for a := 0; a < 12; a++ {
		for b := 0; b < 12; b++ {
			if bus.Delay(a, b) != bus.Delay(b, a) {
				t.Errorf("Delay(%d,%d)=%v != Delay(%d,%d)=%v", a, b, bus.Delay(a, b), b, a, bus.Delay(b, a))
			}
		}
	}
}

func TestBus_NegativeOffset_TreatedAsAbsolute(t *testing.T) {
	bus := NewBus(DefaultBusConfig())
	assert.Equal(t, bus.PropagationDelay(5), bus.PropagationDelay(-5))
}

func TestBus_Config_RoundTrips(t *testing.T) {
	cfg := NewBusConfig(1, 2, 3, 4, 5)
	assert.Equal(t, cfg, NewBus(cfg).Config())
}
