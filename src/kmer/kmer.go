// Package kmer decomposes sequences into k-mers and hashes them, canonicalising nucleotide k-mers so that both strands of a sequence produce the same hashes.
package kmer

import (
	"encoding/binary"

	farm "github.com/dgryski/go-farm"
	"github.com/will-rowe/minsketch/src/params"
)

// invalid marks symbols that can't be part of a k-mer
const invalid = uint8(255)

var (
	seqNT4table      [256]uint8
	seqNT4rcTable    [256]uint8
	aminoAcidTable   [256]bool
	upperCaseAAtable [256]byte
)

func init() {
	for i := range seqNT4table {
		seqNT4table[i] = invalid
		seqNT4rcTable[i] = invalid
	}
	for i, base := range []byte("ACGT") {
		seqNT4table[base] = uint8(i)
		seqNT4table[base+32] = uint8(i)
		seqNT4rcTable[base] = uint8(3 - i)
		seqNT4rcTable[base+32] = uint8(3 - i)
	}
	seqNT4table['U'], seqNT4table['u'] = 3, 3
	seqNT4rcTable['U'], seqNT4rcTable['u'] = 0, 0
	for _, aa := range []byte("ACDEFGHIKLMNPQRSTVWY") {
		aminoAcidTable[aa] = true
		aminoAcidTable[aa+32] = true
		upperCaseAAtable[aa] = aa
		upperCaseAAtable[aa+32] = aa
	}
}

// Source is a stream of k-mer hashes
type Source interface {
	Scan() bool
	Hash() uint64
}

// Hasher extracts and hashes k-mers using a set of sketching parameters
type Hasher struct {
	kmerSize int
	alphabet params.Alphabet
	seed     uint64
	mask     uint64
	shift    uint64
}

// NewHasher is the constructor
func NewHasher(p params.Parameters) *Hasher {
	mask := ^uint64(0)
	if p.KmerSize < 32 {
		mask = (uint64(1) << uint64(2*p.KmerSize)) - 1
	}
	return &Hasher{
		kmerSize: p.KmerSize,
		alphabet: p.Alphabet,
		seed:     p.Seed,
		mask:     mask,
		shift:    uint64(2 * (p.KmerSize - 1)),
	}
}

// KmerSize returns k
func (h *Hasher) KmerSize() int {
	return h.kmerSize
}

// Kmers returns an iterator over the hashed k-mers of seq
//
// The iterator is lazy and can only be consumed once. Windows that contain a symbol outside of the alphabet are skipped. A sequence shorter than k yields nothing.
func (h *Hasher) Kmers(seq []byte) *Iterator {
	return &Iterator{hasher: h, seq: seq, pos: -1}
}

// hashEncoding hashes a 2-bit encoded k-mer
func (h *Hasher) hashEncoding(kmer uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], kmer)
	return farm.Hash64WithSeed(buf[:], h.seed)
}

// hashWindow hashes an upper-cased protein window
func (h *Hasher) hashWindow(window []byte) uint64 {
	return farm.Hash64WithSeed(window, h.seed)
}

// Iterator walks the valid k-mer windows of a sequence
type Iterator struct {
	hasher *Hasher
	seq    []byte
	next   int    // index of the next symbol to read
	run    int    // number of consecutive valid symbols ending at next-1
	fwd    uint64 // forward 2-bit encoding
	rev    uint64 // reverse complement 2-bit encoding
	buf    []byte // upper-cased protein window
	pos    int
	hash   uint64
}

// Scan advances to the next valid k-mer, returning false once the sequence is exhausted
func (it *Iterator) Scan() bool {
	if it.hasher.alphabet == params.Protein {
		return it.scanProtein()
	}
	h := it.hasher
	for it.next < len(it.seq) {
		c := it.seq[it.next]
		it.next++
		f := seqNT4table[c]
		if f == invalid {
			it.run, it.fwd, it.rev = 0, 0, 0
			continue
		}
		it.fwd = (it.fwd<<2 | uint64(f)) & h.mask
		it.rev = (it.rev >> 2) | (uint64(seqNT4rcTable[c]) << h.shift)
		it.run++
		if it.run < h.kmerSize {
			continue
		}
		it.pos = it.next - h.kmerSize
		it.hash = h.hashEncoding(it.fwd)
		if h.alphabet == params.Nucleotide {
			if rc := h.hashEncoding(it.rev); rc < it.hash {
				it.hash = rc
			}
		}
		return true
	}
	return false
}

func (it *Iterator) scanProtein() bool {
	h := it.hasher
	if it.buf == nil {
		it.buf = make([]byte, 0, h.kmerSize)
	}
	for it.next < len(it.seq) {
		c := it.seq[it.next]
		it.next++
		if !aminoAcidTable[c] {
			it.run = 0
			it.buf = it.buf[:0]
			continue
		}
		if len(it.buf) == h.kmerSize {
			copy(it.buf, it.buf[1:])
			it.buf = it.buf[:h.kmerSize-1]
		}
		it.buf = append(it.buf, upperCaseAAtable[c])
		it.run++
		if it.run < h.kmerSize {
			continue
		}
		it.pos = it.next - h.kmerSize
		it.hash = h.hashWindow(it.buf)
		return true
	}
	return false
}

// Hash returns the hash of the current k-mer
func (it *Iterator) Hash() uint64 {
	return it.hash
}

// Pos returns the 0-based start of the current k-mer in the sequence
func (it *Iterator) Pos() int {
	return it.pos
}

// Count drains the iterator, returning the number of valid k-mers
func Count(src Source) int {
	n := 0
	for src.Scan() {
		n++
	}
	return n
}
