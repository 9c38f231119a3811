// Package pipeline sequences the six processing stages that turn
// transaction hashes into multimedia artifacts. Stages run in ascending
// order over one item at a time; any failure is contained at the item
// boundary so the remaining hashes keep flowing. Completed work is
// detected from artifacts on disk: an "all" pass resumes past finished
// items, while selecting a single stage regenerates its outputs so an
// operator can repair a corrupt artifact.
package pipeline
