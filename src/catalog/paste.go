package catalog

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/pkg/errors"
	"github.com/will-rowe/minsketch/src/minhash"
	"github.com/will-rowe/minsketch/src/params"
)

// Checksum returns an xxhash digest of a reference's length and sketch members
func (r *Reference) Checksum() uint64 {
	digest := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], r.Length)
	digest.Write(buf[:])
	for _, hash := range r.Members() {
		binary.LittleEndian.PutUint64(buf[:], hash)
		digest.Write(buf[:])
	}
	return digest.Sum64()
}

// Compatible checks that the references of two catalogs can be compared or pasted together
func (c *Catalog) Compatible(other *Catalog) error {
	return c.params.Compatible(other.params)
}

// Paste is a method to append the references of another catalog, returning the number added
//
// References whose name and checksum match one already in the catalog are skipped.
func (c *Catalog) Paste(other *Catalog) (int, error) {
	if err := c.Compatible(other); err != nil {
		return 0, errors.Wrap(err, "could not paste catalogs")
	}
	if c.params.SketchSize != other.params.SketchSize {
		return 0, errors.Wrap(&params.ParameterMismatchError{Field: "sketchSize", A: c.params.SketchSize, B: other.params.SketchSize}, "could not paste catalogs")
	}
	seen := make(map[string]map[uint64]struct{}, len(c.references))
	record := func(ref *Reference) {
		if seen[ref.Name] == nil {
			seen[ref.Name] = make(map[uint64]struct{})
		}
		seen[ref.Name][ref.Checksum()] = struct{}{}
	}
	for _, ref := range c.references {
		if ref != nil {
			record(ref)
		}
	}
	added := 0
	for _, ref := range other.references {
		if ref == nil {
			continue
		}
		if _, dup := seen[ref.Name][ref.Checksum()]; dup {
			continue
		}
		record(ref)
		c.references = append(c.references, ref)
		added++
	}
	return added, nil
}

// Resize is a method to shrink every sketch in the catalog to a smaller sketch size, keeping the lowest hashes
//
// A bottom sketch of size n is the first n members of any larger bottom sketch of the same input, so nothing is resketched. Locus sketches can't be shrunk this way and are dropped. The catalog should not be built on once resized.
func (c *Catalog) Resize(sketchSize int) error {
	if sketchSize < 1 || sketchSize > c.params.SketchSize {
		return &params.ConfigError{Field: "sketchSize", Value: sketchSize, Reason: fmt.Sprintf("can only shrink a catalog, must be in [1,%d]", c.params.SketchSize)}
	}
	if sketchSize == c.params.SketchSize {
		return nil
	}
	for _, ref := range c.references {
		if ref == nil || ref.Sketch == nil {
			continue
		}
		hashes, counts := ref.Sketch.Members(), ref.Sketch.Counts()
		sketch := minhash.NewBoundedSketch(sketchSize)
		for i := 0; i < len(hashes) && i < sketchSize; i++ {
			sketch.InsertCount(hashes[i], counts[i])
		}
		ref.Sketch = sketch
		ref.Loci = nil
	}
	c.params.SketchSize = sketchSize
	c.aggregate = nil
	return nil
}

// LoadAll is a function to load several catalogs and paste them into one
func LoadAll(paths ...string) (*Catalog, error) {
	if len(paths) == 0 {
		return nil, errors.New("no catalog files given")
	}
	c, err := Load(paths[0])
	if err != nil {
		return nil, err
	}
	for _, path := range paths[1:] {
		other, err := Load(path)
		if err != nil {
			return nil, err
		}
		if _, err := c.Paste(other); err != nil {
			return nil, errors.Wrapf(err, "%v", path)
		}
	}
	return c, nil
}
