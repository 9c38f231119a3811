// Package soxcat wraps the external audio concatenation tool. The tool is
// given N copies of one input path followed by a single output path and
// joins them into one longer track.
package soxcat
