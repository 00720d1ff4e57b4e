package sim

// Bus is the linear topology model. Node i sits at position index i and
// adjacent taps are DistanceBetweenNodes apart, so delays depend only on
// the index offset between two nodes.
type Bus struct {
	cfg                  BusConfig
	unitPropagationDelay float64 // seconds per hop
	transmissionDelay    float64 // seconds per frame
	slotTime             float64 // seconds per backoff slot
}

// NewBus precomputes the per-hop, per-frame and per-slot durations.
func NewBus(cfg BusConfig) *Bus {
	return &Bus{
		cfg:                  cfg,
		unitPropagationDelay: cfg.DistanceBetweenNodes / cfg.PropagationSpeed,
		transmissionDelay:    cfg.PacketLength / cfg.TransmissionRate,
		slotTime:             cfg.SlotBits / cfg.TransmissionRate,
	}
}

// PropagationDelay returns the time for a signal to cross offset hops.
// Negative offsets are treated as their absolute value.
func (b *Bus) PropagationDelay(offset int) float64 {
	return float64(absInt(offset)) * b.unitPropagationDelay
}

// Delay returns the propagation delay between two positions. Symmetric.
func (b *Bus) Delay(posA, posB int) float64 {
	return b.PropagationDelay(posA - posB)
}

// TransmissionDelay returns the time to put one frame on the wire.
func (b *Bus) TransmissionDelay() float64 {
	return b.transmissionDelay
}

// SlotTime returns the backoff slot duration.
func (b *Bus) SlotTime() float64 {
	return b.slotTime
}

// Config returns the configuration the bus was built from.
func (b *Bus) Config() BusConfig {
	return b.cfg
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
