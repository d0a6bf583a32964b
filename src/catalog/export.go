package catalog

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/vmihailenco/msgpack.v2"
)

// exportReference is the msgpack view of a reference
type exportReference struct {
	Name     string   `msgpack:"name"`
	Comment  string   `msgpack:"comment"`
	Length   uint64   `msgpack:"length"`
	Checksum uint64   `msgpack:"checksum"`
	Hashes   []uint64 `msgpack:"hashes"`
}

// exportCatalog is the msgpack view of a catalog
type exportCatalog struct {
	KmerSize   int               `msgpack:"kmer"`
	SketchSize int               `msgpack:"sketchSize"`
	Alphabet   string            `msgpack:"alphabet"`
	Windowed   bool              `msgpack:"windowed"`
	WindowSize int               `msgpack:"windowSize"`
	Seed       uint64            `msgpack:"seed"`
	MinCopies  int               `msgpack:"minCopies"`
	References []exportReference `msgpack:"references"`
}

// Export is a method to write the catalog as msgpack, for inspection by other tools
//
// This is a one-way dump; catalogs are only ever loaded from the binary format.
func (c *Catalog) Export(w io.Writer) error {
	p := c.params
	out := exportCatalog{
		KmerSize:   p.KmerSize,
		SketchSize: p.SketchSize,
		Alphabet:   p.Alphabet.String(),
		Windowed:   p.Windowed,
		WindowSize: p.WindowSize,
		Seed:       p.Seed,
		MinCopies:  p.MinCopies,
		References: make([]exportReference, 0, len(c.references)),
	}
	for _, ref := range c.references {
		if ref == nil {
			continue
		}
		out.References = append(out.References, exportReference{
			Name:     ref.Name,
			Comment:  ref.Comment,
			Length:   ref.Length,
			Checksum: ref.Checksum(),
			Hashes:   ref.Members(),
		})
	}
	return errors.Wrap(msgpack.NewEncoder(w).Encode(out), "could not export catalog")
}
