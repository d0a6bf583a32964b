package pipeline

/*
 this part of the pipeline streams reads from every input into the single aggregate reference used by reads mode
*/

import (
	"github.com/pkg/errors"
	"github.com/will-rowe/minsketch/src/catalog"
	"github.com/will-rowe/minsketch/src/kmer"
	"github.com/will-rowe/minsketch/src/params"
	"github.com/will-rowe/minsketch/src/seqio"
)

// SequenceStreamer is a chain stage that streams sequences from a set of files (or STDIN)
type SequenceStreamer struct {
	alphabet params.Alphabet
	input    []string
	output   chan *seqio.Sequence
	errs     []error
}

// NewSequenceStreamer is the constructor
func NewSequenceStreamer(alphabet params.Alphabet) *SequenceStreamer {
	return &SequenceStreamer{alphabet: alphabet, output: make(chan *seqio.Sequence, BUFFERSIZE)}
}

// Connect is the method to connect the SequenceStreamer to some data source
func (proc *SequenceStreamer) Connect(input []string) {
	proc.input = input
	proc.errs = make([]error, len(input))
}

// Run is the method to run this stage, which satisfies the Stage interface
func (proc *SequenceStreamer) Run() {
	defer close(proc.output)
	for i, path := range proc.input {
		count := 0
		err := seqio.Walk(path, proc.alphabet, func(s *seqio.Sequence) error {
			count++
			proc.output <- s
			return nil
		})
		switch {
		case err != nil:
			proc.errs[i] = errors.Wrapf(err, "could not stream %v", path)
		case count == 0:
			proc.errs[i] = errors.Errorf("no sequences found in %v", path)
		}
	}
}

// Errors returns an error per input, it is only safe to call once the stage has finished
func (proc *SequenceStreamer) Errors() []error {
	return proc.errs
}

// ReadSketcher is a chain stage that hashes streamed reads into a catalog
type ReadSketcher struct {
	catalog *catalog.Catalog
	hasher  *kmer.Hasher
	name    string
	input   chan *seqio.Sequence
}

// NewReadSketcher is the constructor, the name is given to the aggregate reference
func NewReadSketcher(c *catalog.Catalog, name string) *ReadSketcher {
	return &ReadSketcher{catalog: c, hasher: kmer.NewHasher(c.Params()), name: name}
}

// Connect is the method to join the input of this stage with the output of a SequenceStreamer
func (proc *ReadSketcher) Connect(previous *SequenceStreamer) {
	proc.input = previous.output
}

// Run is the method to run this stage, which satisfies the Stage interface
func (proc *ReadSketcher) Run() {
	for read := range proc.input {
		proc.catalog.AddReference(proc.name, header(read), uint64(len(read.Seq)), proc.hasher.Kmers(read.Seq))
	}
}

// SketchReads is a function to stream every read of the inputs into the aggregate reference of a reads mode catalog
//
// The aggregate reference is named after the first input. An error is returned per input.
func SketchReads(c *catalog.Catalog, inputs []string) []error {
	name := seqio.STDIN
	if len(inputs) != 0 {
		name = inputs[0]
	}
	streamer := NewSequenceStreamer(c.Params().Alphabet)
	streamer.Connect(inputs)
	sketcher := NewReadSketcher(c, name)
	sketcher.Connect(streamer)

	// the sketcher is the sink, so the chain returns once every read is sketched
	NewChain(streamer, sketcher).Run()
	return streamer.Errors()
}
