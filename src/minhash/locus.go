package minhash

// Position locates a minimizer within a reference
type Position struct {
	Seq    int // index of the sequence within the reference
	Offset int // 0-based start of the k-mer within that sequence
}

// LocusSketch is a BoundedSketch of minimizer hashes, which also records where each retained minimizer was found
type LocusSketch struct {
	sketch    *BoundedSketch
	positions map[uint64][]Position
}

// NewLocusSketch is the constructor
func NewLocusSketch(capacity int) *LocusSketch {
	return &LocusSketch{
		sketch:    NewBoundedSketch(capacity),
		positions: make(map[uint64][]Position),
	}
}

// InsertLocus is a method to add a minimizer found at the given position
func (l *LocusSketch) InsertLocus(hash uint64, pos Position) {
	held, evicted, didEvict := l.sketch.insert(hash, 1)
	if didEvict {
		delete(l.positions, evicted)
	}
	if held {
		l.positions[hash] = append(l.positions[hash], pos)
	}
}

// Positions returns where a retained minimizer was found, in insertion order
func (l *LocusSketch) Positions(hash uint64) []Position {
	return l.positions[hash]
}

// Sketch returns the underlying bounded sketch
func (l *LocusSketch) Sketch() *BoundedSketch {
	return l.sketch
}

// Members returns the retained minimizer hashes in ascending order
func (l *LocusSketch) Members() []uint64 {
	return l.sketch.Members()
}

// Len returns the number of retained minimizers
func (l *LocusSketch) Len() int {
	return l.sketch.Len()
}
