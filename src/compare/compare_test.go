package compare

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/will-rowe/minsketch/src/catalog"
	"github.com/will-rowe/minsketch/src/params"
)

var cfg = Config{
	KmerSize:    21,
	SketchSize:  1000,
	KmerSpace:   params.Default().KmerSpace(),
	MaxDistance: 1,
	MaxPValue:   1,
}

// span is a helper function to get the ascending values [from, to)
func span(from, to uint64) []uint64 {
	values := make([]uint64, 0, to-from)
	for v := from; v < to; v++ {
		values = append(values, v)
	}
	return values
}

// randomMembers is a helper function to get n sorted distinct values
func randomMembers(n int, seed int64) []uint64 {
	r := rand.New(rand.NewSource(seed))
	seen := map[uint64]struct{}{}
	for len(seen) < n {
		seen[r.Uint64()%uint64(4*n)] = struct{}{}
	}
	members := make([]uint64, 0, n)
	for v := range seen {
		members = append(members, v)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	return members
}

func TestHalfShared(t *testing.T) {
	a := span(0, 1000)
	b := append(span(0, 500), span(1000, 1500)...)
	result := Sketches(a, b, 5000000, 5000000, cfg)
	assert.Equal(t, uint64(500), result.Shared)
	assert.Equal(t, uint64(1000), result.SketchSize)
	assert.Equal(t, 0.5, result.Jaccard())
	assert.InDelta(t, -math.Log(2*0.5/1.5)/21, result.Distance, 1e-15)
	assert.InDelta(t, 0.019308, result.Distance, 1e-6)
	assert.True(t, result.PValue < 1e-10)
	assert.True(t, result.Pass)
}

func TestSelf(t *testing.T) {
	a := randomMembers(1000, 1)
	result := Sketches(a, a, 3000000, 3000000, cfg)
	assert.Equal(t, result.SketchSize, result.Shared)
	assert.Equal(t, 0.0, result.Distance)
	assert.False(t, math.Signbit(result.Distance))
}

func TestSymmetry(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		a, b := randomMembers(1000, seed), randomMembers(800, seed+10)
		ab := Sketches(a, b, 4000000, 2500000, cfg)
		ba := Sketches(b, a, 2500000, 4000000, cfg)
		assert.Equal(t, ab.Shared, ba.Shared)
		assert.Equal(t, ab.SketchSize, ba.SketchSize)
		assert.Equal(t, uint64(800), ab.SketchSize)
		assert.Equal(t, ab.Distance, ba.Distance)
		assert.Equal(t, ab.PValue, ba.PValue)
	}
}

func TestEmpty(t *testing.T) {
	result := Sketches(nil, span(0, 10), 0, 100, cfg)
	assert.Equal(t, uint64(0), result.SketchSize)
	assert.Equal(t, 0.0, result.Jaccard())
	assert.Equal(t, 1.0, result.Distance)
	assert.Equal(t, 1.0, result.PValue)

	// nothing shared
	result = Sketches(span(0, 10), span(10, 20), 100, 100, cfg)
	assert.Equal(t, 1.0, result.Distance)
	assert.Equal(t, 1.0, result.PValue)
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 1.0, Distance(0, 1000, 21))
	assert.Equal(t, 0.0, Distance(1000, 1000, 21))

	// tiny Jaccard with a small k is clamped
	assert.Equal(t, 1.0, Distance(1, 1000000, 1))
	prev := 1.0
	for shared := 1; shared <= 1000; shared++ {
		d := Distance(shared, 1000, 21)
		require.True(t, d <= prev)
		prev = d
	}
}

func TestPValue(t *testing.T) {
	// pX = pY = 0.5, so r = 1/3
	s, r := 10, 1.0/3
	for shared := 1; shared <= s; shared++ {
		tail := 0.0
		for x := shared; x <= s; x++ {
			tail += binomial(s, x) * math.Pow(r, float64(x)) * math.Pow(1-r, float64(s-x))
		}
		assert.InDelta(t, tail, PValue(shared, s, 100, 100, 100), 1e-9, "shared %d", shared)
	}
	assert.Equal(t, 1.0, PValue(0, s, 100, 100, 100))
}

func TestPValueMonotonic(t *testing.T) {
	space := params.Default().KmerSpace()
	prev := 1.0
	for shared := 0; shared <= 1000; shared++ {
		p := PValue(shared, 1000, 5000000, 3000000, space)
		require.True(t, p >= 0 && p <= 1)
		require.True(t, p <= prev, "p-value increased at %d shared", shared)
		prev = p
	}
}

func TestPass(t *testing.T) {
	a := span(0, 1000)
	b := append(span(0, 500), span(1000, 1500)...)
	strict := cfg
	strict.MaxDistance = 0.01
	assert.False(t, Sketches(a, b, 5000000, 5000000, strict).Pass)
	strict.MaxDistance = 0.05
	assert.True(t, Sketches(a, b, 5000000, 5000000, strict).Pass)

	// in a tiny k-mer space everything matches by chance
	strict.KmerSpace = 1000
	strict.MaxPValue = 0.5
	result := Sketches(a, b, 1000000, 1000000, strict)
	assert.True(t, result.PValue > 0.5)
	assert.False(t, result.Pass)
}

func binomial(n, k int) float64 {
	v := 1.0
	for i := 1; i <= k; i++ {
		v = v * float64(n-k+i) / float64(i)
	}
	return v
}

// testCatalog is a helper function to build a catalog from random sequences
func testCatalog(t *testing.T, k int) *catalog.Catalog {
	p := params.Default()
	p.KmerSize = k
	p.SketchSize = 200
	c, err := catalog.New(p)
	require.NoError(t, err)
	r := rand.New(rand.NewSource(1))
	shared := make([]byte, 3000)
	for i := range shared {
		shared[i] = "ACGT"[r.Intn(4)]
	}
	for i := 0; i < 3; i++ {
		seq := append([]byte{}, shared...)
		for j := 0; j < i*50; j++ {
			seq[r.Intn(len(seq))] = "ACGT"[r.Intn(4)]
		}
		c.Append(catalog.BuildReference(p, string(rune('A'+i)), "", seq))
	}
	return c
}

func TestComparator(t *testing.T) {
	c := testCatalog(t, 21)
	cmp, err := New(c, c, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, cmp.NumRef())
	assert.Equal(t, 3, cmp.NumQuery())
	for i := 0; i < 3; i++ {
		self := cmp.Pair(i, i)
		assert.Equal(t, 0.0, self.Distance)
		assert.Equal(t, i, self.Ref)
		assert.Equal(t, i, self.Query)
		for j := 0; j < 3; j++ {
			ij, ji := cmp.Pair(i, j), cmp.Pair(j, i)
			assert.Equal(t, ij.Distance, ji.Distance)
			assert.Equal(t, ij.PValue, ji.PValue)
			assert.Equal(t, cmp.Compare(c.Reference(i), c.Reference(j)).Distance, ij.Distance)
		}
	}

	// more mutations, more distance
	assert.True(t, cmp.Pair(0, 1).Distance < cmp.Pair(0, 2).Distance)
}

func TestComparatorMismatch(t *testing.T) {
	_, err := New(testCatalog(t, 20), testCatalog(t, 21), 1, 1)
	var merr *params.ParameterMismatchError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "kmerSize", merr.Field)
}
