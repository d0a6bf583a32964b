package minhash

import (
	"github.com/biogo/store/llrb"
)

// member is a hash value held by the sketch, along with the number of times it has been seen
type member struct {
	hash  uint64
	count uint32
}

// Compare orders members by hash value, satisfying llrb.Comparable
func (m *member) Compare(c llrb.Comparable) int {
	other := c.(*member)
	switch {
	case m.hash < other.hash:
		return -1
	case m.hash > other.hash:
		return 1
	}
	return 0
}

// BoundedSketch holds the smallest distinct hash values inserted so far, up to a fixed capacity
type BoundedSketch struct {
	capacity int
	tree     llrb.Tree
	max      uint64 // the largest member, only valid if the tree is not empty
	key      member // reused for lookups
}

// NewBoundedSketch is the constructor
func NewBoundedSketch(capacity int) *BoundedSketch {
	if capacity < 1 {
		capacity = 1
	}
	return &BoundedSketch{capacity: capacity}
}

// Cap returns the maximum number of members
func (s *BoundedSketch) Cap() int {
	return s.capacity
}

// Len returns the number of members
func (s *BoundedSketch) Len() int {
	return s.tree.Len()
}

// Full reports if the sketch is at capacity
func (s *BoundedSketch) Full() bool {
	return s.tree.Len() >= s.capacity
}

// Max returns the largest member, or false if the sketch is empty
func (s *BoundedSketch) Max() (uint64, bool) {
	if s.tree.Len() == 0 {
		return 0, false
	}
	return s.max, true
}

// Contains reports if hash is a member
func (s *BoundedSketch) Contains(hash uint64) bool {
	if s.tree.Len() == 0 || hash > s.max {
		return false
	}
	s.key.hash = hash
	return s.tree.Get(&s.key) != nil
}

// Count returns the number of times a member has been seen, or 0 if hash is not a member
func (s *BoundedSketch) Count(hash uint64) uint32 {
	if s.tree.Len() == 0 || hash > s.max {
		return 0
	}
	s.key.hash = hash
	if m := s.tree.Get(&s.key); m != nil {
		return m.(*member).count
	}
	return 0
}

// Insert is a method to add a hash to the sketch
//
// A hash that is already a member only has its count incremented. Once the sketch is full, a hash larger than the current maximum is discarded and a smaller one evicts the maximum.
func (s *BoundedSketch) Insert(hash uint64) {
	s.insert(hash, 1)
}

// InsertCount is a method to add a hash that has already been seen count times
func (s *BoundedSketch) InsertCount(hash uint64, count uint32) {
	s.insert(hash, count)
}

// insert reports if the hash is held by the sketch after the call, and any member that was evicted to make room for it
func (s *BoundedSketch) insert(hash uint64, count uint32) (held bool, evicted uint64, didEvict bool) {
	full := s.Full()
	if full && hash > s.max {
		return false, 0, false
	}
	s.key.hash = hash
	if m := s.tree.Get(&s.key); m != nil {
		m.(*member).count = addCount(m.(*member).count, count)
		return true, 0, false
	}
	if full {
		if hash == s.max {
			return false, 0, false
		}
		evicted, didEvict = s.max, true
		s.tree.DeleteMax()
	}
	s.tree.Insert(&member{hash: hash, count: count})
	s.max = s.tree.Max().(*member).hash
	return true, evicted, didEvict
}

// Merge is a method to combine another sketch into this one, as if all of its hashes had been inserted here
func (s *BoundedSketch) Merge(other *BoundedSketch) {
	if other == nil {
		return
	}

	// the tree can't be modified while it is being walked
	if other == s {
		hashes, counts := s.Members(), s.Counts()
		for i, hash := range hashes {
			s.insert(hash, counts[i])
		}
		return
	}
	other.tree.Do(func(c llrb.Comparable) bool {
		m := c.(*member)
		if s.Full() && m.hash > s.max {
			return true
		}
		s.insert(m.hash, m.count)
		return false
	})
}

// Members returns the hashes held by the sketch in ascending order
func (s *BoundedSketch) Members() []uint64 {
	hashes := make([]uint64, 0, s.tree.Len())
	s.tree.Do(func(c llrb.Comparable) bool {
		hashes = append(hashes, c.(*member).hash)
		return false
	})
	return hashes
}

// Counts returns the number of times each member was seen, aligned with Members
func (s *BoundedSketch) Counts() []uint32 {
	counts := make([]uint32, 0, s.tree.Len())
	s.tree.Do(func(c llrb.Comparable) bool {
		counts = append(counts, c.(*member).count)
		return false
	})
	return counts
}

// FromMembers is a helper function to rebuild a sketch from a sorted list of hashes, such as one read from disk
func FromMembers(capacity int, hashes []uint64) *BoundedSketch {
	s := NewBoundedSketch(capacity)
	for _, hash := range hashes {
		s.insert(hash, 1)
	}
	return s
}
