// Package minhash contains the bottom-k MinHash sketch used for each reference, plus the reads (counting) and windowed (locus) flavours built on top of it.
package minhash

// addCount adds two counts, saturating rather than wrapping
func addCount(a, b uint32) uint32 {
	if c := a + b; c >= a {
		return c
	}
	return ^uint32(0)
}
