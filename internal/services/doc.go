// Package services provides shared error classification and context
// annotation helpers for the external tool clients and stage runners.
package services
