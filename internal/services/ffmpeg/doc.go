// Package ffmpeg wraps video assembly via the ffmpeg CLI. A frame
// sequence and an audio track are muxed into an H.264 mp4. ffmpeg's exit
// status is reported but not treated as authoritative; callers judge
// success by inspecting the output file.
package ffmpeg
