// Package engine implements the Inspector's adaptive decision core and the
// per-game orchestration around it: trust and immunity tracking, pattern
// detection, bribe/truce resolution, payoff application and round recording.
//
// The engine performs no I/O. It consumes a seeded entropy.Source and the
// history of prior rounds, and produces structured decisions; dialogue,
// transport and persistence live in other packages.
package engine
