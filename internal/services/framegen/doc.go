// Package framegen wraps the external frame renderer. The tool takes an
// audio file path and the originating transaction hash and emits a
// numbered image sequence into its working directory; the caller supplies
// an isolated per-hash directory so sequences never interleave.
package framegen
