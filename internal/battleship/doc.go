// Package battleship is the battle-simulation engine: ships, boards,
// players and the two-player game state machine.
//
// The package has no I/O and no goroutines. Every operation validates fully
// before it mutates anything, so a rejected placement or attack leaves the
// game exactly as it was. Rendering, input and random fleet placement are
// collaborators that only use the exported operations.
package battleship
