package kmer

// Locus is a minimizer: the smallest k-mer hash within a window, and where it starts
type Locus struct {
	Hash uint64
	Pos  int
}

// entry is a k-mer held in the sliding window
type entry struct {
	hash uint64
	pos  int
	ord  int // ordinal of the k-mer among valid k-mers
}

// MinimizerIterator yields a Locus each time the minimum hash of the sliding window changes
type MinimizerIterator struct {
	src     *Iterator
	window  int
	deque   []entry // hashes are non-decreasing from front to back
	ord     int
	lastOrd int
	cur     Locus
	done    bool
}

// Minimizers returns an iterator over the minimizers of seq, using windows of the given number of consecutive k-mers
//
// Windows are counted over valid k-mers, so a window may span a run of skipped symbols. If seq has fewer valid k-mers than the window length, the minimum of all of them is yielded once.
func (h *Hasher) Minimizers(seq []byte, window int) *MinimizerIterator {
	if window < 1 {
		window = 1
	}
	return &MinimizerIterator{
		src:     h.Kmers(seq),
		window:  window,
		deque:   make([]entry, 0, window),
		lastOrd: -1,
	}
}

// Scan advances to the next locus
func (m *MinimizerIterator) Scan() bool {
	for !m.done {
		if !m.src.Scan() {
			m.done = true

			// short sequence, never filled a window
			if m.ord > 0 && m.ord < m.window {
				m.cur = Locus{Hash: m.deque[0].hash, Pos: m.deque[0].pos}
				return true
			}
			return false
		}
		e := entry{hash: m.src.Hash(), pos: m.src.Pos(), ord: m.ord}
		m.ord++

		// the leftmost of equal hashes is kept as the window minimum
		for len(m.deque) > 0 && m.deque[len(m.deque)-1].hash > e.hash {
			m.deque = m.deque[:len(m.deque)-1]
		}
		m.deque = append(m.deque, e)
		for m.deque[0].ord <= e.ord-m.window {
			m.deque = m.deque[1:]
		}
		if e.ord < m.window-1 {
			continue
		}
		if m.deque[0].ord != m.lastOrd {
			m.lastOrd = m.deque[0].ord
			m.cur = Locus{Hash: m.deque[0].hash, Pos: m.deque[0].pos}
			return true
		}
	}
	return false
}

// Locus returns the current minimizer
func (m *MinimizerIterator) Locus() Locus {
	return m.cur
}

// Hash returns the hash of the current minimizer, satisfying Source
func (m *MinimizerIterator) Hash() uint64 {
	return m.cur.Hash
}
