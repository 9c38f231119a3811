// Package segment wraps the external audio segment generator. The tool
// accepts a single 32-bit hex seed argument and deterministically writes a
// seed-named wav file into its working directory; the caller hands it an
// isolated scratch directory per invocation.
package segment
