package seqio

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/biogo/alphabet"
	bioseqio "github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/mholt/archiver"
	"github.com/pkg/errors"
	"github.com/will-rowe/minsketch/src/params"
)

// STDIN is the file name used to read sequences from standard input
const STDIN = "-"

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Reader reads sequence records from FASTA, FASTQ or BAM data, which may be gzip or zstd compressed
type Reader struct {
	name    string
	scanner *bioseqio.Scanner
	bam     *bam.Reader
	closers []io.Closer
}

// Open is a function to open a sequence file for reading, "-" reads STDIN
func Open(path string, a params.Alphabet) (*Reader, error) {
	if path == STDIN {
		return NewReader(os.Stdin, "stdin", a)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open sequence file")
	}
	r, err := NewReader(fh, path, a)
	if err != nil {
		fh.Close()
		return nil, err
	}
	r.closers = append(r.closers, fh)
	return r, nil
}

// NewReader is a function to read sequences from a stream, the name is used to recognise BAM input and in error messages
func NewReader(in io.Reader, name string, a params.Alphabet) (*Reader, error) {
	r := &Reader{name: name}
	if strings.EqualFold(filepath.Ext(name), ".bam") {
		b, err := bam.NewReader(in, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read BAM file %v", name)
		}
		r.bam = b
		r.closers = append(r.closers, b)
		return r, nil
	}

	// handle compressed input
	buf := bufio.NewReader(in)
	magic, _ := buf.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gz, err := gzip.NewReader(buf)
		if err != nil {
			return nil, errors.Wrapf(err, "could not decompress %v", name)
		}
		r.closers = append(r.closers, gz)
		buf = bufio.NewReader(gz)
	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(buf)
		if err != nil {
			return nil, errors.Wrapf(err, "could not decompress %v", name)
		}
		rc := zr.IOReadCloser()
		r.closers = append(r.closers, rc)
		buf = bufio.NewReader(rc)
	}

	// sniff the format from the first record
	first, err := buf.Peek(1)
	if err == io.EOF {
		return r, nil
	}
	if err != nil {
		r.Close()
		return nil, errors.Wrapf(err, "could not read %v", name)
	}
	var alpha alphabet.Alphabet = alphabet.DNA
	if a == params.Protein {
		alpha = alphabet.Protein
	}
	switch first[0] {
	case '>':
		r.scanner = bioseqio.NewScanner(fasta.NewReader(buf, linear.NewSeq("", nil, alpha)))
	case '@':
		r.scanner = bioseqio.NewScanner(fastq.NewReader(buf, linear.NewQSeq("", nil, alpha, alphabet.Sanger)))
	default:
		r.Close()
		return nil, errors.Errorf("%v is not FASTA, FASTQ or BAM", name)
	}
	return r, nil
}

// Read is a method to get the next sequence, returning io.EOF once the input is exhausted
func (r *Reader) Read() (*Sequence, error) {
	if r.bam != nil {
		return r.readBAM()
	}
	if r.scanner == nil || !r.scanner.Next() {
		if r.scanner != nil && r.scanner.Error() != nil {
			return nil, errors.Wrapf(r.scanner.Error(), "could not parse %v", r.name)
		}
		return nil, io.EOF
	}
	return convert(r.scanner.Seq()), nil
}

// readBAM returns the next primary record of a BAM file
func (r *Reader) readBAM() (*Sequence, error) {
	for {
		rec, err := r.bam.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, errors.Wrapf(err, "could not read BAM record from %v", r.name)
		}
		if rec.Flags&(sam.Secondary|sam.Supplementary) != 0 {
			continue
		}
		return &Sequence{ID: []byte(rec.Name), Seq: rec.Seq.Expand()}, nil
	}
}

// convert copies a biogo sequence into a Sequence
func convert(s seq.Sequence) *Sequence {
	out := &Sequence{
		ID:      []byte(s.Name()),
		Comment: []byte(s.Description()),
	}
	switch t := s.(type) {
	case *linear.Seq:
		out.Seq = make([]byte, len(t.Seq))
		for i, l := range t.Seq {
			out.Seq[i] = byte(l)
		}
	case *linear.QSeq:
		out.Seq = make([]byte, len(t.Seq))
		for i, ql := range t.Seq {
			out.Seq[i] = byte(ql.L)
		}
	}
	return out
}

// Close is a method to close the reader and any underlying files
func (r *Reader) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

// each is a method to call fn on every sequence
func (r *Reader) each(fn func(*Sequence) error) error {
	for {
		s, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
	}
}

// IsArchive is a function to check if a file name is a tar or zip style archive of sequence files
func IsArchive(path string) bool {
	format, err := archiver.ByExtension(path)
	if err != nil {
		return false
	}
	_, ok := format.(archiver.Walker)
	return ok
}

// Walk is a function to call fn on every sequence in a file, archives are walked member by member
func Walk(path string, a params.Alphabet, fn func(*Sequence) error) error {
	if IsArchive(path) {
		return archiver.Walk(path, func(f archiver.File) error {
			if f.IsDir() {
				return nil
			}
			r, err := NewReader(f, f.Name(), a)
			if err != nil {
				return errors.Wrapf(err, "in archive %v", path)
			}
			defer r.Close()
			return r.each(fn)
		})
	}
	r, err := Open(path, a)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.each(fn)
}

// ReadList is a function to get the file names listed one per line in a file, ignoring blank lines
func ReadList(path string) ([]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open file list")
	}
	defer fh.Close()
	var files []string
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			files = append(files, line)
		}
	}
	return files, errors.Wrapf(scanner.Err(), "could not read file list %v", path)
}
