package catalog

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/will-rowe/minsketch/src/minhash"
	"github.com/will-rowe/minsketch/src/params"
)

// FormatVersion is the catalog format version written by this package
const FormatVersion uint32 = 1

// Magic is the tag at the start of every catalog file
var Magic = [8]byte{'M', 'I', 'N', 'S', 'K', 'T', 'C', 'H'}

const (
	maxTextLen  = 1 << 26 // longest name or comment accepted when loading
	preallocCap = 1 << 16 // most references allocated up front when loading
)

// encoder writes little-endian fields, keeping the first error
type encoder struct {
	w   io.Writer
	n   int64
	err error
	buf [8]byte
}

func (e *encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	n, err := e.w.Write(b)
	e.n += int64(n)
	e.err = err
}

func (e *encoder) u8(v uint8) {
	e.buf[0] = v
	e.write(e.buf[:1])
}

func (e *encoder) u32(v uint32) {
	binary.LittleEndian.PutUint32(e.buf[:4], v)
	e.write(e.buf[:4])
}

func (e *encoder) u64(v uint64) {
	binary.LittleEndian.PutUint64(e.buf[:], v)
	e.write(e.buf[:])
}

func (e *encoder) text(s string) {
	e.u32(uint32(len(s)))
	e.write([]byte(s))
}

// WriteTo is a method to serialise the catalog, it satisfies io.WriterTo
func (c *Catalog) WriteTo(w io.Writer) (int64, error) {
	e := &encoder{w: w}
	p := c.params
	e.write(Magic[:])
	e.u32(FormatVersion)
	e.u32(uint32(p.KmerSize))
	e.u64(uint64(p.SketchSize))
	e.u8(uint8(p.Alphabet))
	if p.Windowed {
		e.u8(1)
	} else {
		e.u8(0)
	}
	e.u32(uint32(p.WindowSize))
	e.u64(p.Seed)
	e.u32(uint32(p.MinCopies))
	refs := 0
	for _, ref := range c.references {
		if ref != nil {
			refs++
		}
	}
	e.u64(uint64(refs))
	for _, ref := range c.references {
		if ref == nil {
			continue
		}
		e.text(ref.Name)
		e.text(ref.Comment)
		e.u64(ref.Length)
		members := ref.Members()
		e.u64(uint64(len(members)))
		for _, hash := range members {
			e.u64(hash)
		}
	}
	return e.n, errors.Wrap(e.err, "could not write catalog")
}

// decoder reads little-endian fields, keeping the first error
type decoder struct {
	r   io.Reader
	n   int64
	err error
	buf [8]byte
}

func (d *decoder) read(b []byte) {
	if d.err != nil {
		return
	}
	n, err := io.ReadFull(d.r, b)
	d.n += int64(n)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		d.err = &FormatError{Kind: Truncated}
		return
	}
	d.err = err
}

func (d *decoder) u8() uint8 {
	d.read(d.buf[:1])
	return d.buf[0]
}

func (d *decoder) u32() uint32 {
	d.read(d.buf[:4])
	return binary.LittleEndian.Uint32(d.buf[:4])
}

func (d *decoder) u64() uint64 {
	d.read(d.buf[:])
	return binary.LittleEndian.Uint64(d.buf[:])
}

func (d *decoder) text() string {
	l := d.u32()
	if d.err != nil {
		return ""
	}
	if l > maxTextLen {
		d.err = &FormatError{Kind: Corrupt, Msg: "text field too long"}
		return ""
	}
	b := make([]byte, l)
	d.read(b)
	return string(b)
}

// corrupt records a Corrupt error if no other error has been seen
func (d *decoder) corrupt(msg string) {
	if d.err == nil {
		d.err = &FormatError{Kind: Corrupt, Msg: msg}
	}
}

// ReadFrom is a method to replace the contents of the catalog with a serialised one, it satisfies io.ReaderFrom
func (c *Catalog) ReadFrom(r io.Reader) (int64, error) {
	d := &decoder{r: r}
	var magic [8]byte
	d.read(magic[:])
	if d.err == nil && magic != Magic {
		return d.n, &FormatError{Kind: BadMagic}
	}
	if version := d.u32(); d.err == nil && version != FormatVersion {
		return d.n, &FormatError{Kind: BadVersion, Msg: fmt.Sprintf("version %d", version)}
	}
	p := params.Default()
	p.KmerSize = int(d.u32())
	sketchSize := d.u64()
	if sketchSize > math.MaxInt32 {
		d.corrupt("sketch size out of range")
	}
	p.SketchSize = int(sketchSize)
	p.Alphabet = params.Alphabet(d.u8())
	switch d.u8() {
	case 0:
	case 1:
		p.Windowed = true
	default:
		d.corrupt("bad windowed flag")
	}
	p.WindowSize = int(d.u32())
	p.Seed = d.u64()
	p.MinCopies = int(d.u32())
	if d.err != nil {
		return d.n, d.err
	}
	if err := p.Validate(); err != nil {
		return d.n, &FormatError{Kind: Corrupt, Msg: err.Error()}
	}

	count := d.u64()
	refs := make([]*Reference, 0, minUint64(count, preallocCap))
	for i := uint64(0); i < count && d.err == nil; i++ {
		ref := &Reference{
			Name:    d.text(),
			Comment: d.text(),
			Length:  d.u64(),
		}
		members := d.u64()
		if members > sketchSize {
			d.corrupt(fmt.Sprintf("reference %q has more members than the sketch size", ref.Name))
			break
		}
		ref.Sketch = minhash.NewBoundedSketch(p.SketchSize)
		prev := uint64(0)
		for j := uint64(0); j < members && d.err == nil; j++ {
			hash := d.u64()
			if d.err != nil {
				break
			}
			if j > 0 && hash <= prev {
				d.corrupt(fmt.Sprintf("reference %q has unsorted members", ref.Name))
				break
			}
			ref.Sketch.Insert(hash)
			prev = hash
		}
		refs = append(refs, ref)
	}
	if d.err != nil {
		return d.n, d.err
	}
	c.params = p
	c.references = refs
	c.aggregate = nil
	return d.n, nil
}

// Dump is a method to write the catalog to a file
func (c *Catalog) Dump(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create catalog file")
	}
	defer fh.Close()
	w := bufio.NewWriter(fh)
	if _, err := c.WriteTo(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "could not write catalog file")
	}
	return fh.Close()
}

// Load is a function to read a catalog from a file
func Load(path string) (*Catalog, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open catalog file")
	}
	defer fh.Close()
	c := &Catalog{}
	if _, err := c.ReadFrom(bufio.NewReader(fh)); err != nil {
		var ferr *FormatError
		if errors.As(err, &ferr) {
			ferr.Path = path
			return nil, ferr
		}
		return nil, errors.Wrapf(err, "could not read %v", path)
	}
	return c, nil
}

// IsCatalog is a function to check if a file starts with the catalog magic
func IsCatalog(path string) bool {
	fh, err := os.Open(path)
	if err != nil {
		return false
	}
	defer fh.Close()
	var magic [8]byte
	if _, err := io.ReadFull(fh, magic[:]); err != nil {
		return false
	}
	return magic == Magic
}

func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
