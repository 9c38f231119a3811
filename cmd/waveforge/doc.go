// Command waveforge drives the hash-to-multimedia pipeline: stage
// execution over a run, run status inspection, seed derivation, config
// management, and source bundling for on-chain storage.
package main
