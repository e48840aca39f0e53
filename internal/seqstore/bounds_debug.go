//go:build debug

package seqstore

// Debug builds check every lookup and panic with the offending index.
const checkBounds = true
