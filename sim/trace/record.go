// Package trace provides per-round decision recording for contention analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

import mapset "github.com/deckarep/golang-set/v2"

// RoundRecord captures the outcome of one contention round.
type RoundRecord struct {
	Round       int
	Clock       float64 // transmitter's attempt time in seconds
	Transmitter int
	Success     bool
	Attempts    int             // attempt-counter increments charged to this round
	Deferred    []int           // receivers that sensed the carrier busy, in id order
	Colliders   mapset.Set[int] // receivers that were already transmitting
	Dropped     int             // frames dropped during this round, any node
}
