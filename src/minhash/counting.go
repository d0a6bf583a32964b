package minhash

// initial tally size at which values that can no longer enter the sketch are pruned
const pruneThreshold = 1 << 16

// CountingSketch is a BoundedSketch for sequencing reads, which only admits a hash once it has been seen a minimum number of times
//
// Low copy k-mers are likely to be sequencing errors, so they are tallied outside of the sketch until they pass the threshold.
type CountingSketch struct {
	sketch    *BoundedSketch
	minCopies uint32
	tally     map[uint64]uint32
	bloom     *BloomFilter
	pruneAt   int
}

// NewCountingSketch is the constructor, the bloom filter is optional and only used when minCopies > 1
func NewCountingSketch(capacity, minCopies int, bloom *BloomFilter) *CountingSketch {
	if minCopies < 1 {
		minCopies = 1
	}
	if minCopies == 1 {
		bloom = nil
	}
	return &CountingSketch{
		sketch:    NewBoundedSketch(capacity),
		minCopies: uint32(minCopies),
		tally:     make(map[uint64]uint32),
		bloom:     bloom,
		pruneAt:   pruneThreshold,
	}
}

// InsertCounted is a method to record a sighting of a hash, promoting it into the sketch once it reaches the minimum copy number
func (c *CountingSketch) InsertCounted(hash uint64) {
	s := c.sketch

	// already admitted, or can never be admitted
	if s.Full() && hash > s.max {
		return
	}
	if c.minCopies == 1 || s.Contains(hash) {
		s.insert(hash, 1)
		return
	}

	// first sightings are held by the bloom filter
	seen := uint32(0)
	if c.bloom != nil {
		if !c.bloom.Check(hash) {
			c.bloom.Add(hash)
			return
		}
		if _, ok := c.tally[hash]; !ok {
			seen = 1
		}
	}
	count := addCount(c.tally[hash], seen+1)
	if count < c.minCopies {
		c.tally[hash] = count
		return
	}
	delete(c.tally, hash)
	if held, _, _ := s.insert(hash, count); held && len(c.tally) > c.pruneAt {
		c.prune()
	}
}

// prune drops tallies that can no longer be admitted to a full sketch
func (c *CountingSketch) prune() {
	if !c.sketch.Full() {
		return
	}
	for hash := range c.tally {
		if hash > c.sketch.max {
			delete(c.tally, hash)
		}
	}
	if len(c.tally) > c.pruneAt/2 {
		c.pruneAt *= 2
	}
}

// Sketch returns the underlying bounded sketch
func (c *CountingSketch) Sketch() *BoundedSketch {
	return c.sketch
}

// Pending returns the number of hashes seen but not yet admitted
func (c *CountingSketch) Pending() int {
	return len(c.tally)
}

// Members returns the admitted hashes in ascending order
func (c *CountingSketch) Members() []uint64 {
	return c.sketch.Members()
}

// Len returns the number of admitted hashes
func (c *CountingSketch) Len() int {
	return c.sketch.Len()
}
