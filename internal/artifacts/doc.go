// Package artifacts locates stage outputs and verifies them against
// postconditions. Every stage runner funnels its "did the tool really
// produce what we need" decision through this package so success criteria
// stay consistent and testable.
package artifacts
