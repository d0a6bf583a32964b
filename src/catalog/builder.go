package catalog

import (
	"github.com/will-rowe/minsketch/src/kmer"
	"github.com/will-rowe/minsketch/src/minhash"
	"github.com/will-rowe/minsketch/src/params"
)

// Builder streams sequences into a single reference, using the sketch flavour selected by the parameters
type Builder struct {
	params   params.Parameters
	hasher   *kmer.Hasher
	sketch   *minhash.BoundedSketch
	counting *minhash.CountingSketch
	loci     *minhash.LocusSketch
	length   uint64
	seqs     int
	anomaly  []Anomaly
}

// NewBuilder is the constructor
func NewBuilder(p params.Parameters) *Builder {
	b := &Builder{
		params: p,
		hasher: kmer.NewHasher(p),
	}
	switch {
	case p.Reads:
		var bloom *minhash.BloomFilter
		if p.Bloom {
			bloom = minhash.NewDefaultBloomFilter()
		}
		b.counting = minhash.NewCountingSketch(p.SketchSize, p.MinCopies, bloom)
		b.sketch = b.counting.Sketch()
	case p.Windowed:
		b.loci = minhash.NewLocusSketch(p.SketchSize)
		b.sketch = b.loci.Sketch()
	default:
		b.sketch = minhash.NewBoundedSketch(p.SketchSize)
	}
	return b
}

// insert routes a hash to the active sketch
func (b *Builder) insert(hash uint64) {
	if b.counting != nil {
		b.counting.InsertCounted(hash)
		return
	}
	b.sketch.Insert(hash)
}

// Add is a method to sketch a sequence, anomalies are recorded against the sequence id rather than returned
func (b *Builder) Add(id string, seq []byte) {
	b.length += uint64(len(seq))
	seqIndex := b.seqs
	b.seqs++
	if len(seq) < b.params.KmerSize {
		b.anomaly = append(b.anomaly, Anomaly{Sequence: id, Length: len(seq), Kind: TooShort})
		return
	}
	n := 0
	if b.loci != nil {
		minimizers := b.hasher.Minimizers(seq, b.params.WindowSize)
		for minimizers.Scan() {
			locus := minimizers.Locus()
			b.loci.InsertLocus(locus.Hash, minhash.Position{Seq: seqIndex, Offset: locus.Pos})
			n++
		}
	} else {
		kmers := b.hasher.Kmers(seq)
		for kmers.Scan() {
			b.insert(kmers.Hash())
			n++
		}
	}
	if n == 0 {
		b.anomaly = append(b.anomaly, Anomaly{Sequence: id, Length: len(seq), Kind: NoValidKmers})
	}
}

// AddSource is a method to sketch an already hashed k-mer stream covering length symbols
func (b *Builder) AddSource(length uint64, hashes kmer.Source) int {
	b.length += length
	b.seqs++
	n := 0
	for hashes.Scan() {
		b.insert(hashes.Hash())
		n++
	}
	return n
}

// Length returns the number of symbols seen so far
func (b *Builder) Length() uint64 {
	return b.length
}

// Reference is a method to get the reference built so far
//
// The reference shares the builder's sketch, so the builder should not be used once the reference is stored.
func (b *Builder) Reference(name, comment string) *Reference {
	return &Reference{
		Name:      name,
		Comment:   comment,
		Length:    b.length,
		Sketch:    b.sketch,
		Loci:      b.loci,
		Anomalies: b.anomaly,
	}
}

// BuildReference is a helper function to sketch a set of sequences into one reference
func BuildReference(p params.Parameters, name, comment string, seqs ...[]byte) *Reference {
	b := NewBuilder(p)
	for _, seq := range seqs {
		b.Add(name, seq)
	}
	return b.Reference(name, comment)
}
