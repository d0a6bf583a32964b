package minhash

// DefaultBloomSize is the number of bits used by the reads mode bloom filter
const DefaultBloomSize = 1 << 26

// BloomFilter is the bloom filter type, used to hold first sightings of hashes so that singletons don't take up space in the tally
type BloomFilter struct {
	size   uint64
	sketch []uint64
}

// positions derives two bit positions from a hash; the input is already well mixed so no rehashing is needed
func (BloomFilter *BloomFilter) positions(hash uint64) (uint64, uint64) {
	return hash % BloomFilter.size, (hash>>32 | hash<<32) % BloomFilter.size
}

// Add is a method to add a hashed k-mer to the Bloom Filter sketch
func (BloomFilter *BloomFilter) Add(hash uint64) {
	a, b := BloomFilter.positions(hash)
	BloomFilter.sketch[a/64] |= 1 << (a % 64)
	BloomFilter.sketch[b/64] |= 1 << (b % 64)
}

// Check is a method to check a hashed k-mer against the Bloom Filter sketch
func (BloomFilter *BloomFilter) Check(hash uint64) bool {
	a, b := BloomFilter.positions(hash)
	return BloomFilter.sketch[a/64]&(1<<(a%64)) != 0 && BloomFilter.sketch[b/64]&(1<<(b%64)) != 0
}

// NewBloomFilter is a Bloom Filter constructor, using a specified number of bits (rounded up to a multiple of 64)
func NewBloomFilter(size int) *BloomFilter {
	cells := 1
	if size > 64 {
		cells = (size + 63) / 64
	}
	return &BloomFilter{
		size:   64 * uint64(cells),
		sketch: make([]uint64, cells),
	}
}

// NewDefaultBloomFilter is a Bloom Filter constructor, using the default size
func NewDefaultBloomFilter() *BloomFilter {
	return NewBloomFilter(DefaultBloomSize)
}
