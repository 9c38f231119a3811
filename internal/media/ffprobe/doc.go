// Package ffprobe reads media durations via the ffprobe CLI.
package ffprobe
