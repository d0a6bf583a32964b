// Package catalog holds a set of sketched references built under one set of parameters, and reads and writes them in the binary catalog format.
package catalog

import (
	"github.com/pkg/errors"
	"github.com/will-rowe/minsketch/src/kmer"
	"github.com/will-rowe/minsketch/src/minhash"
	"github.com/will-rowe/minsketch/src/params"
)

// Reference is a named, sketched sequence (or set of sequences)
type Reference struct {
	Name    string
	Comment string
	Length  uint64
	Sketch  *minhash.BoundedSketch

	// the following fields are not written to disk
	Loci      *minhash.LocusSketch
	Anomalies []Anomaly
}

// Members returns the sketched hashes in ascending order, an unset sketch has none
func (r *Reference) Members() []uint64 {
	if r.Sketch == nil {
		return nil
	}
	return r.Sketch.Members()
}

// Catalog is an ordered set of references sharing one set of sketching parameters
type Catalog struct {
	params     params.Parameters
	references []*Reference
	aggregate  *Builder // reads mode only
}

// New is the constructor
func New(p params.Parameters) (*Catalog, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "could not create catalog")
	}
	return &Catalog{params: p}, nil
}

// Params returns the sketching parameters
func (c *Catalog) Params() params.Parameters {
	return c.params
}

// Len returns the number of references
func (c *Catalog) Len() int {
	return len(c.references)
}

// Reference returns the reference at index i
func (c *Catalog) Reference(i int) *Reference {
	return c.references[i]
}

// References returns all references in catalog order
func (c *Catalog) References() []*Reference {
	return c.references
}

// AddReference is a method to sketch a k-mer hash stream into the catalog, returning the index of the reference it went to
//
// In reads mode every call extends the single aggregate reference, which keeps the name and comment from the first call.
func (c *Catalog) AddReference(name, comment string, length uint64, hashes kmer.Source) int {
	if c.params.Reads {
		if c.aggregate == nil {
			c.aggregate = NewBuilder(c.params)
			c.references = append(c.references, c.aggregate.Reference(name, comment))
		}
		c.aggregate.AddSource(length, hashes)
		c.references[0].Length = c.aggregate.Length()
		return 0
	}
	b := NewBuilder(c.params)
	b.AddSource(length, hashes)
	c.references = append(c.references, b.Reference(name, comment))
	return len(c.references) - 1
}

// Append is a method to add an already built reference, returning its index
func (c *Catalog) Append(ref *Reference) int {
	c.references = append(c.references, ref)
	return len(c.references) - 1
}

// Reserve is a method to add n empty reference slots, returning the index of the first one
//
// Each slot should then be filled by exactly one call to SetReference, which makes it safe to fill distinct slots concurrently.
func (c *Catalog) Reserve(n int) int {
	first := len(c.references)
	c.references = append(c.references, make([]*Reference, n)...)
	return first
}

// SetReference is a method to fill a reserved slot
func (c *Catalog) SetReference(i int, ref *Reference) error {
	if i < 0 || i >= len(c.references) {
		return errors.Errorf("reference slot %d is out of range (%d slots)", i, len(c.references))
	}
	c.references[i] = ref
	return nil
}

// Compact is a method to drop reserved slots that were never filled, returning the number dropped
func (c *Catalog) Compact() int {
	kept := c.references[:0]
	for _, ref := range c.references {
		if ref != nil {
			kept = append(kept, ref)
		}
	}
	dropped := len(c.references) - len(kept)
	for i := len(kept); i < len(c.references); i++ {
		c.references[i] = nil
	}
	c.references = kept
	return dropped
}

// SetReferenceName is a method to rename a reference
func (c *Catalog) SetReferenceName(i int, name string) error {
	if i < 0 || i >= len(c.references) || c.references[i] == nil {
		return errors.Errorf("no reference at index %d", i)
	}
	c.references[i].Name = name
	return nil
}

// SetReferenceComment is a method to replace the comment of a reference
func (c *Catalog) SetReferenceComment(i int, comment string) error {
	if i < 0 || i >= len(c.references) || c.references[i] == nil {
		return errors.Errorf("no reference at index %d", i)
	}
	c.references[i].Comment = comment
	return nil
}

// Anomalies returns the per-sequence problems found while sketching, in reference order
func (c *Catalog) Anomalies() []Anomaly {
	var anomalies []Anomaly
	for _, ref := range c.references {
		if ref != nil {
			anomalies = append(anomalies, ref.Anomalies...)
		}
	}
	return anomalies
}

// Validate returns an EmptyInputError if no reference holds any hashes
func (c *Catalog) Validate() error {
	for _, ref := range c.references {
		if ref != nil && ref.Sketch != nil && ref.Sketch.Len() > 0 {
			return nil
		}
	}
	return &EmptyInputError{References: len(c.references)}
}
