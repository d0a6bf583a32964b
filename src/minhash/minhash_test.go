package minhash

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	hashvalues = []uint64{12345, 54321, 9999999, 98765}
	sketchSize = 10
)

// randomHashes is a helper function to generate hashes with plenty of repeats
func randomHashes(n int, seed int64) []uint64 {
	r := rand.New(rand.NewSource(seed))
	hashes := make([]uint64, n)
	for i := range hashes {
		hashes[i] = r.Uint64() % uint64(n/2)
	}
	return hashes
}

// bottom is a helper function to get the smallest n distinct values
func bottom(hashes []uint64, n int) []uint64 {
	seen := make(map[uint64]struct{})
	distinct := []uint64{}
	for _, h := range hashes {
		if _, ok := seen[h]; !ok {
			seen[h] = struct{}{}
			distinct = append(distinct, h)
		}
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })
	if len(distinct) > n {
		distinct = distinct[:n]
	}
	return distinct
}

// BloomFilter test
func TestBloomfilter(t *testing.T) {
	filter := NewBloomFilter(3)
	for i := 0; i < len(hashvalues); i++ {
		filter.Add(hashvalues[i])
	}
	for i := 0; i < len(hashvalues); i++ {
		if !filter.Check(hashvalues[i]) {
			t.Fatalf("'%d' should be have been marked present", hashvalues[i])
		}
	}
	empty := NewBloomFilter(3)
	for i := 0; i < len(hashvalues); i++ {
		if empty.Check(hashvalues[i]) {
			t.Fatalf("'%d' shouldn't be marked as present", hashvalues[i])
		}
	}
}

// Constructor test
func TestBoundedSketchConstructor(t *testing.T) {
	s := NewBoundedSketch(sketchSize)
	if s.Cap() != sketchSize || s.Len() != 0 || s.Full() {
		t.Fatalf("NewBoundedSketch constructor did not initiate the sketch correctly")
	}
	if _, ok := s.Max(); ok {
		t.Fatal("empty sketch should not have a maximum")
	}
	if members := s.Members(); len(members) != 0 {
		t.Fatalf("empty sketch should have no members, got %v", members)
	}
}

func TestInsert(t *testing.T) {
	s := NewBoundedSketch(3)
	for _, h := range []uint64{50, 10, 40, 10, 30} {
		s.Insert(h)
	}
	assert.Equal(t, []uint64{10, 30, 40}, s.Members())
	assert.Equal(t, []uint32{2, 1, 1}, s.Counts())
	max, ok := s.Max()
	assert.True(t, ok)
	assert.Equal(t, uint64(40), max)

	// at capacity, larger and equal-to-max values only touch counters
	s.Insert(99)
	s.Insert(40)
	assert.Equal(t, []uint64{10, 30, 40}, s.Members())
	assert.Equal(t, uint32(2), s.Count(40))
	assert.Equal(t, uint32(0), s.Count(99))

	// a smaller value evicts the maximum
	s.Insert(20)
	assert.Equal(t, []uint64{10, 20, 30}, s.Members())
	assert.False(t, s.Contains(40))
	assert.True(t, s.Contains(20))
}

func TestBoundAndBottom(t *testing.T) {
	hashes := randomHashes(5000, 1)
	for _, capacity := range []int{1, 10, 1000, 100000} {
		s := NewBoundedSketch(capacity)
		for _, h := range hashes {
			s.Insert(h)
		}
		expected := bottom(hashes, capacity)
		assert.True(t, s.Len() <= capacity)
		assert.Equal(t, expected, s.Members(), "capacity %d", capacity)
	}
}

func TestInsertionOrderIndependence(t *testing.T) {
	hashes := randomHashes(2000, 2)
	reference := NewBoundedSketch(100)
	for _, h := range hashes {
		reference.Insert(h)
	}
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 10; i++ {
		r.Shuffle(len(hashes), func(a, b int) { hashes[a], hashes[b] = hashes[b], hashes[a] })
		s := NewBoundedSketch(100)
		for _, h := range hashes {
			s.Insert(h)
		}
		require.Equal(t, reference.Members(), s.Members())
		require.Equal(t, reference.Counts(), s.Counts())
	}
}

func TestMerge(t *testing.T) {
	a, b := randomHashes(3000, 4), randomHashes(3000, 5)
	sa, sb, union := NewBoundedSketch(200), NewBoundedSketch(200), NewBoundedSketch(200)
	for _, h := range a {
		sa.Insert(h)
		union.Insert(h)
	}
	for _, h := range b {
		sb.Insert(h)
		union.Insert(h)
	}
	sa.Merge(sb)
	assert.Equal(t, union.Members(), sa.Members())
	assert.Equal(t, bottom(append(a, b...), 200), sa.Members())

	// merging nil or an empty sketch is a no-op
	before := sa.Members()
	sa.Merge(nil)
	sa.Merge(NewBoundedSketch(10))
	assert.Equal(t, before, sa.Members())

	// merging with itself only doubles the counts
	counts := sa.Counts()
	sa.Merge(sa)
	assert.Equal(t, before, sa.Members())
	for i, c := range sa.Counts() {
		assert.Equal(t, 2*counts[i], c)
	}
}

func TestFromMembers(t *testing.T) {
	s := FromMembers(3, []uint64{1, 2, 3, 4, 5})
	assert.Equal(t, []uint64{1, 2, 3}, s.Members())
	assert.True(t, s.Full())
}

func TestCountingSketch(t *testing.T) {
	c := NewCountingSketch(10, 2, nil)
	c.InsertCounted(5)
	c.InsertCounted(7)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 2, c.Pending())
	c.InsertCounted(5)
	assert.Equal(t, []uint64{5}, c.Members())
	assert.Equal(t, uint32(2), c.Sketch().Count(5))
	assert.Equal(t, 1, c.Pending())

	// further sightings increment the admitted member
	c.InsertCounted(5)
	assert.Equal(t, uint32(3), c.Sketch().Count(5))

	// min copies of 1 behaves like a plain bounded sketch
	plain := NewCountingSketch(10, 1, NewBloomFilter(1024))
	plain.InsertCounted(9)
	assert.Equal(t, []uint64{9}, plain.Members())
}

func TestCountingSketchBloom(t *testing.T) {
	c := NewCountingSketch(100, 2, NewBloomFilter(1<<16))
	for _, h := range []uint64{11, 22, 33} {
		c.InsertCounted(h)
	}

	// singletons only touch the bloom filter
	assert.Equal(t, 0, c.Pending())
	assert.Equal(t, 0, c.Len())
	c.InsertCounted(22)
	assert.Equal(t, []uint64{22}, c.Members())
	assert.Equal(t, uint32(2), c.Sketch().Count(22))
}

func TestCountingSketchFull(t *testing.T) {
	c := NewCountingSketch(2, 2, nil)
	for _, h := range []uint64{1, 1, 2, 2} {
		c.InsertCounted(h)
	}
	assert.Equal(t, []uint64{1, 2}, c.Members())

	// larger than the maximum of a full sketch, never tallied
	c.InsertCounted(100)
	assert.Equal(t, 0, c.Pending())
}

func TestLocusSketch(t *testing.T) {
	l := NewLocusSketch(2)
	l.InsertLocus(30, Position{0, 5})
	l.InsertLocus(10, Position{0, 9})
	l.InsertLocus(30, Position{1, 2})
	assert.Equal(t, []uint64{10, 30}, l.Members())
	assert.Equal(t, []Position{{0, 5}, {1, 2}}, l.Positions(30))

	// evicting 30 drops its positions, 40 is never held
	l.InsertLocus(20, Position{1, 7})
	l.InsertLocus(40, Position{1, 8})
	assert.Equal(t, []uint64{10, 20}, l.Members())
	assert.Nil(t, l.Positions(30))
	assert.Nil(t, l.Positions(40))
	assert.Equal(t, 2, l.Len())
}

func BenchmarkInsert(b *testing.B) {
	hashes := randomHashes(100000, 6)
	for n := 0; n < b.N; n++ {
		s := NewBoundedSketch(1000)
		for _, h := range hashes {
			s.Insert(h)
		}
	}
}
