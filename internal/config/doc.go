// Package config loads, validates, and defaults the waveforge
// configuration file. Values describe the external tool binaries, the
// per-stage invocation timeouts, and pipeline tuning such as the audio
// concatenation repeat count.
package config
