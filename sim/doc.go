// Package sim provides the contention engine for a shared bus running
// persistent CSMA/CD.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - frame.go: Frame lifecycle (idle → deferred/backoff → delivered/dropped)
//   - node.go: carrier sense, collision detection, backoff and drop policy
//   - simulator.go: the round loop and its outcome rules
//
// # Rounds
//
// Every round picks the node whose head frame is earliest (lowest node ID on
// exact ties), advances the clock to that frame, and propagates it along the
// bus. Each other node either senses the carrier busy and defers, is already
// transmitting and collides, or is unaffected. A round with any collision
// sends every involved node into binary exponential backoff; otherwise the
// frame is delivered. The loop ends when every queue is empty.
//
// # Determinism
//
// All randomness flows through PartitionedRNG: each node has its own arrival
// and backoff stream derived from the seed. Identical SimConfig values give
// identical rounds and identical Metrics.
//
// Sub-packages:
//   - sim/trace/: per-round decision records
//   - sim/sweep/: parallel execution of independent trials
package sim
