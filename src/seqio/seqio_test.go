package seqio

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/mholt/archiver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/will-rowe/minsketch/src/params"
)

var (
	seqA            = "ACGTACGTGGCCAATTAAACCCGGGTTTTTATATCGCGATTAGC"
	seqArcomplement = "GCTAATCGCGATATAAAAACCCGGGTTTAATTGGCCACGTACGT"
	fastaData       = ">seqA first sequence\n" + seqA[:20] + "\n" + seqA[20:] + "\n>seqB\nacgtn\n"
	fastqData       = "@read1 some comment\n" + seqA + "\n+\n" + strings.Repeat("I", len(seqA)) + "\n@read2\nACGT\n+\nIIII\n"
)

// tempDir is a helper function to get a scratch directory
func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "seqio")
	require.NoError(t, err)
	return dir
}

// collect is a helper function to read every sequence in a file
func collect(t *testing.T, path string) []*Sequence {
	var seqs []*Sequence
	require.NoError(t, Walk(path, params.Nucleotide, func(s *Sequence) error {
		seqs = append(seqs, s)
		return nil
	}))
	return seqs
}

func TestRevComplement(t *testing.T) {
	assert.Equal(t, seqArcomplement, string(RevComplement([]byte(seqA))))
	assert.Equal(t, "NNacgT", string(RevComplement([]byte("AcgtN?"))))
	in := []byte(seqA)
	assert.Equal(t, seqA, string(RevComplement(RevComplement(in))))
	assert.Equal(t, seqA, string(in))
}

func TestFASTA(t *testing.T) {
	r, err := NewReader(strings.NewReader(fastaData), "test.fa", params.Nucleotide)
	require.NoError(t, err)
	defer r.Close()
	s, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "seqA", s.Name())
	assert.Equal(t, "first sequence", string(s.Comment))
	assert.Equal(t, seqA, string(s.Seq))
	s, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, "seqB", s.Name())
	assert.Equal(t, "acgtn", string(s.Seq))
	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestFASTQ(t *testing.T) {
	r, err := NewReader(strings.NewReader(fastqData), "test.fq", params.Nucleotide)
	require.NoError(t, err)
	defer r.Close()
	var seqs []*Sequence
	require.NoError(t, r.each(func(s *Sequence) error {
		seqs = append(seqs, s)
		return nil
	}))
	require.Len(t, seqs, 2)
	assert.Equal(t, "read1", seqs[0].Name())
	assert.Equal(t, seqA, string(seqs[0].Seq))
	assert.Equal(t, "ACGT", string(seqs[1].Seq))
}

func TestBadInput(t *testing.T) {
	_, err := NewReader(strings.NewReader("not a sequence file"), "test.txt", params.Nucleotide)
	assert.Error(t, err)

	// empty input is not an error, it just has no sequences
	r, err := NewReader(strings.NewReader(""), "empty.fa", params.Nucleotide)
	require.NoError(t, err)
	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestCompressed(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	gzPath := filepath.Join(dir, "test.fa.gz")
	buf := &bytes.Buffer{}
	gz := gzip.NewWriter(buf)
	_, err := gz.Write([]byte(fastaData))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, ioutil.WriteFile(gzPath, buf.Bytes(), 0644))
	seqs := collect(t, gzPath)
	require.Len(t, seqs, 2)
	assert.Equal(t, seqA, string(seqs[0].Seq))

	zstPath := filepath.Join(dir, "test.fq.zst")
	buf.Reset()
	zw, err := zstd.NewWriter(buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte(fastqData))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, ioutil.WriteFile(zstPath, buf.Bytes(), 0644))
	seqs = collect(t, zstPath)
	require.Len(t, seqs, 2)
	assert.Equal(t, "read2", seqs[1].Name())
}

func TestArchive(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	fa, fq := filepath.Join(dir, "a.fa"), filepath.Join(dir, "b.fq")
	require.NoError(t, ioutil.WriteFile(fa, []byte(fastaData), 0644))
	require.NoError(t, ioutil.WriteFile(fq, []byte(fastqData), 0644))
	tarPath := filepath.Join(dir, "seqs.tar")
	require.NoError(t, archiver.Archive([]string{fa, fq}, tarPath))
	assert.True(t, IsArchive(tarPath))
	assert.False(t, IsArchive(fa))
	assert.False(t, IsArchive("reads.fq.gz"))
	assert.Len(t, collect(t, tarPath), 4)
}

func TestBAM(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "reads.bam")
	fh, err := os.Create(path)
	require.NoError(t, err)
	header, err := sam.NewHeader(nil, nil)
	require.NoError(t, err)
	w, err := bam.NewWriter(fh, header, 1)
	require.NoError(t, err)
	for i, flags := range []sam.Flags{sam.Unmapped, sam.Unmapped | sam.Secondary} {
		rec, err := sam.NewRecord("read"+string(rune('1'+i)), nil, nil, -1, -1, 0, 0, nil, []byte(seqA), bytes.Repeat([]byte{30}, len(seqA)), nil)
		require.NoError(t, err)
		rec.Flags = flags
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())
	require.NoError(t, fh.Close())

	// secondary alignments are skipped
	seqs := collect(t, path)
	require.Len(t, seqs, 1)
	assert.Equal(t, "read1", seqs[0].Name())
	assert.Equal(t, seqA, string(seqs[0].Seq))
}

func TestReadList(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "list.txt")
	require.NoError(t, ioutil.WriteFile(path, []byte("a.fa\n\n  b.fq \n"), 0644))
	files, err := ReadList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.fa", "b.fq"}, files)
	_, err = ReadList(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
