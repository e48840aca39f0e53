//go:build !debug

package seqstore

const checkBounds = false
