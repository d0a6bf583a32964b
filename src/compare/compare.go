// Package compare estimates the Jaccard similarity of two sketches and converts it to a Mash distance and p-value.
package compare

import (
	"math"

	"github.com/pkg/errors"
	"github.com/will-rowe/minsketch/src/catalog"
	"gonum.org/v1/gonum/mathext"
)

// Result is the outcome of comparing a reference sketch to a query sketch
type Result struct {
	Ref        int
	Query      int
	Shared     uint64
	SketchSize uint64 // the number of members compared, the Jaccard denominator
	Distance   float64
	PValue     float64
	Pass       bool
}

// Jaccard returns the Jaccard estimate of the comparison
func (r Result) Jaccard() float64 {
	if r.SketchSize == 0 {
		return 0
	}
	return float64(r.Shared) / float64(r.SketchSize)
}

// Config holds the settings shared by every comparison
type Config struct {
	KmerSize    int
	SketchSize  int
	KmerSpace   float64
	MaxDistance float64
	MaxPValue   float64
}

// Sketches is a function to compare two ascending member lists
//
// The bottom s members of each are compared, where s is the smaller of the two sketch sizes and the configured sketch size.
func Sketches(a, b []uint64, lenA, lenB uint64, cfg Config) Result {
	s := len(a)
	if len(b) < s {
		s = len(b)
	}
	if cfg.SketchSize > 0 && cfg.SketchSize < s {
		s = cfg.SketchSize
	}
	shared := countShared(a[:s], b[:s])
	result := Result{
		Shared:     uint64(shared),
		SketchSize: uint64(s),
		Distance:   Distance(shared, s, cfg.KmerSize),
		PValue:     PValue(shared, s, lenA, lenB, cfg.KmerSpace),
	}
	result.Pass = result.Distance <= cfg.MaxDistance && result.PValue <= cfg.MaxPValue
	return result
}

// countShared counts the values present in both ascending lists
func countShared(a, b []uint64) int {
	shared := 0
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			shared++
			i++
			j++
		}
	}
	return shared
}

// Distance is a function to convert a shared member count to a Mash distance
//
// D = -ln(2J/(1+J))/k, clamped to [0,1]. No shared members gives 1 and all shared gives 0.
func Distance(shared, s, kmerSize int) float64 {
	if s == 0 || shared == 0 {
		return 1
	}
	if shared >= s {
		return 0
	}
	j := float64(shared) / float64(s)
	d := -math.Log(2*j/(1+j)) / float64(kmerSize)
	switch {
	case d > 1:
		return 1
	case d < 0:
		return 0
	}
	return d
}

// PValue is a function to get the probability of sharing at least this many members by chance
//
// Each sequence's chance of holding a given k-mer is 1/(1+space/length). Members of the two sketches then match at random with rate r = pX*pY/(pX+pY-pX*pY), and the p-value is the upper tail P(X >= shared) for X ~ Binomial(s, r), given by the regularized incomplete beta I_r(shared, s-shared+1).
func PValue(shared, s int, lenA, lenB uint64, kmerSpace float64) float64 {
	if shared == 0 || s == 0 {
		return 1
	}
	r := matchRate(lenA, lenB, kmerSpace)
	if r <= 0 {
		return 0
	}
	if r >= 1 {
		return 1
	}
	p := mathext.RegIncBeta(float64(shared), float64(s-shared+1), r)
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// matchRate returns the chance that a pair of sketch members match at random
func matchRate(lenA, lenB uint64, kmerSpace float64) float64 {
	pX := 1 / (1 + kmerSpace/float64(lenA))
	pY := 1 / (1 + kmerSpace/float64(lenB))
	denom := pX + pY - pX*pY
	if denom == 0 || math.IsNaN(denom) {
		return 0
	}
	return pX * pY / denom
}

// Comparator compares references of a reference catalog against those of a query catalog
type Comparator struct {
	ref          *catalog.Catalog
	query        *catalog.Catalog
	refMembers   [][]uint64
	queryMembers [][]uint64
	cfg          Config
}

// New is the constructor, it returns a ParameterMismatchError if the catalogs can't be compared
func New(ref, query *catalog.Catalog, maxDistance, maxPValue float64) (*Comparator, error) {
	if err := ref.Compatible(query); err != nil {
		return nil, errors.Wrap(err, "could not compare catalogs")
	}
	p := ref.Params()
	sketchSize := p.SketchSize
	if qs := query.Params().SketchSize; qs < sketchSize {
		sketchSize = qs
	}
	return &Comparator{
		ref:          ref,
		query:        query,
		refMembers:   members(ref),
		queryMembers: members(query),
		cfg: Config{
			KmerSize:    p.KmerSize,
			SketchSize:  sketchSize,
			KmerSpace:   p.KmerSpace(),
			MaxDistance: maxDistance,
			MaxPValue:   maxPValue,
		},
	}, nil
}

// members flattens every sketch of a catalog
func members(c *catalog.Catalog) [][]uint64 {
	all := make([][]uint64, c.Len())
	for i, ref := range c.References() {
		all[i] = ref.Members()
	}
	return all
}

// Config returns the comparison settings
func (c *Comparator) Config() Config {
	return c.cfg
}

// NumRef returns the number of reference sketches
func (c *Comparator) NumRef() int {
	return c.ref.Len()
}

// NumQuery returns the number of query sketches
func (c *Comparator) NumQuery() int {
	return c.query.Len()
}

// Compare is a method to compare two references
func (c *Comparator) Compare(a, b *catalog.Reference) Result {
	return Sketches(a.Members(), b.Members(), a.Length, b.Length, c.cfg)
}

// Pair is a method to compare reference i to query j
func (c *Comparator) Pair(i, j int) Result {
	result := Sketches(c.refMembers[i], c.queryMembers[j], c.ref.Reference(i).Length, c.query.Reference(j).Length, c.cfg)
	result.Ref, result.Query = i, j
	return result
}
