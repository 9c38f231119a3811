// Package bundle packages groups of source files into plain-text bundles
// sized for on-chain storage. Each bundle carries a manifest header and
// per-file delimiters so the sources can be reconstructed from the raw
// transaction data; bundles over the chunk limit are split into numbered
// parts that concatenate back byte for byte.
package bundle
