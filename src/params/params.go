// Package params holds the immutable sketching parameters shared by every reference in a catalog, along with the k-mer space calculations used by the kmer-size warning and the p-value model.
package params

import (
	"fmt"
	"math"
)

// default parameter values
const (
	DefaultKmerSize   = 21
	DefaultSketchSize = 1000
	DefaultSeed       = 42
	DefaultWarning    = 0.01
	DefaultWindowSize = 32
	DefaultMinCopies  = 1

	// MaxKmerSize is the largest k that fits a 2-bit encoded nucleotide k-mer in a uint64
	MaxKmerSize = 32
)

// Alphabet is the symbol set (and strandedness) used to extract k-mers
type Alphabet uint8

const (
	// Nucleotide k-mers are canonicalised (min of forward and reverse complement)
	Nucleotide Alphabet = iota

	// Protein k-mers are amino acids and are never canonicalised
	Protein

	// NucleotideNoncanonical k-mers are hashed on the forward strand only
	NucleotideNoncanonical
)

// String returns the name of the alphabet
func (a Alphabet) String() string {
	switch a {
	case Nucleotide:
		return "nucleotide"
	case Protein:
		return "protein"
	case NucleotideNoncanonical:
		return "nucleotide-noncanonical"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// Size returns the number of distinguishable symbols in the alphabet
func (a Alphabet) Size() int {
	if a == Protein {
		return 20
	}
	return 4
}

// Canonical reports if k-mers from this alphabet are strand-independent
func (a Alphabet) Canonical() bool {
	return a == Nucleotide
}

// Parameters are the sketching parameters, fixed for the lifetime of a catalog
type Parameters struct {
	KmerSize   int
	SketchSize int
	Alphabet   Alphabet
	Windowed   bool
	WindowSize int
	MinCopies  int
	Seed       uint64
	Warning    float64

	// the following fields are build-time switches and are not written to disk
	Reads bool
	Bloom bool
}

// Default returns the default sketching parameters
func Default() Parameters {
	return Parameters{
		KmerSize:   DefaultKmerSize,
		SketchSize: DefaultSketchSize,
		Alphabet:   Nucleotide,
		WindowSize: DefaultWindowSize,
		MinCopies:  DefaultMinCopies,
		Seed:       DefaultSeed,
		Warning:    DefaultWarning,
	}
}

// Validate checks the parameters are in range
func (p Parameters) Validate() error {
	if p.KmerSize < 1 || p.KmerSize > MaxKmerSize {
		return &ConfigError{Field: "kmerSize", Value: p.KmerSize, Reason: fmt.Sprintf("must be in [1,%d]", MaxKmerSize)}
	}
	if p.SketchSize <= 0 {
		return &ConfigError{Field: "sketchSize", Value: p.SketchSize, Reason: "must be > 0"}
	}
	switch p.Alphabet {
	case Nucleotide, Protein, NucleotideNoncanonical:
	default:
		return &ConfigError{Field: "alphabet", Value: p.Alphabet, Reason: "unrecognised alphabet"}
	}
	if p.Windowed && p.WindowSize < 1 {
		return &ConfigError{Field: "windowSize", Value: p.WindowSize, Reason: "must be >= 1 in windowed mode"}
	}
	if p.MinCopies < 1 {
		return &ConfigError{Field: "minCopies", Value: p.MinCopies, Reason: "must be >= 1"}
	}
	if p.Windowed && p.Reads {
		return &ConfigError{Field: "windowed", Value: p.Windowed, Reason: "can't be combined with reads mode"}
	}
	if p.Bloom && !p.Reads {
		return &ConfigError{Field: "bloom", Value: p.Bloom, Reason: "only applies in reads mode"}
	}
	if p.Warning <= 0 || p.Warning >= 1 {
		return &ConfigError{Field: "warning", Value: p.Warning, Reason: "must be in (0,1)"}
	}
	return nil
}

// KmerSpace returns the number of distinguishable k-mers for the configured k
func (p Parameters) KmerSpace() float64 {
	return p.kmerSpace(p.KmerSize)
}

// kmerSpace is alphabetSize^k, halved when strands are folded together
func (p Parameters) kmerSpace(k int) float64 {
	space := math.Pow(float64(p.Alphabet.Size()), float64(k))
	if p.Alphabet.Canonical() {
		space /= 2
	}
	return space
}

// RandomKmerChance is the probability that a random k-mer is present by chance in a sequence of the given length
func (p Parameters) RandomKmerChance(k int, length uint64) float64 {
	if length == 0 {
		return 0
	}
	space := p.kmerSpace(k)
	if space <= 1 {
		return 1
	}

	// 1 - (1 - 1/space)^length
	return -math.Expm1(float64(length) * math.Log1p(-1/space))
}

// MinKmerSize returns the smallest k-mer size whose random k-mer chance for the given length is at or below threshold, along with the random k-mer chance at the configured k-mer size
//
// The chance decreases monotonically with k, so the smallest passing k is found by bisection. If no k up to MaxKmerSize passes, MaxKmerSize is returned.
func (p Parameters) MinKmerSize(length uint64, threshold float64) (int, float64) {
	lo, hi := 1, MaxKmerSize
	for lo < hi {
		mid := lo + (hi-lo)/2
		if p.RandomKmerChance(mid, length) <= threshold {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, p.RandomKmerChance(p.KmerSize, length)
}

// Compatible checks that sketches built under two parameter sets can be compared or merged
func (p Parameters) Compatible(other Parameters) error {
	switch {
	case p.KmerSize != other.KmerSize:
		return &ParameterMismatchError{Field: "kmerSize", A: p.KmerSize, B: other.KmerSize}
	case p.Alphabet != other.Alphabet:
		return &ParameterMismatchError{Field: "alphabet", A: p.Alphabet, B: other.Alphabet}
	case p.Seed != other.Seed:
		return &ParameterMismatchError{Field: "seed", A: p.Seed, B: other.Seed}
	case p.Windowed != other.Windowed:
		return &ParameterMismatchError{Field: "windowed", A: p.Windowed, B: other.Windowed}
	case p.Windowed && p.WindowSize != other.WindowSize:
		return &ParameterMismatchError{Field: "windowSize", A: p.WindowSize, B: other.WindowSize}
	}
	return nil
}
