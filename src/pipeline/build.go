package pipeline

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/will-rowe/minsketch/src/catalog"
	"github.com/will-rowe/minsketch/src/compare"
	"github.com/will-rowe/minsketch/src/params"
	"github.com/will-rowe/minsketch/src/seqio"
)

// CHUNKSIZE is the maximum number of comparisons handed to a minion at once
const CHUNKSIZE int = 0x1000

// header joins a sequence ID and comment the way they appeared in the input
func header(s *seqio.Sequence) string {
	return strings.TrimSpace(s.Name() + " " + string(s.Comment))
}

// sketchFile is a function to merge every sequence in a file into one reference, named after the file
func sketchFile(p params.Parameters, path string) (*catalog.Reference, error) {
	builder := catalog.NewBuilder(p)
	count := 0
	comment := ""
	err := seqio.Walk(path, p.Alphabet, func(s *seqio.Sequence) error {
		if count == 0 {
			comment = header(s)
		}
		count++
		builder.Add(s.Name(), s.Seq)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not sketch %v", path)
	}
	if count == 0 {
		return nil, errors.Errorf("no sequences found in %v", path)
	}
	if count > 1 {
		comment = fmt.Sprintf("[%d seqs] %v", count, comment)
	}
	return builder.Reference(path, comment), nil
}

// sketchSequences is a function to sketch every sequence in a file as its own reference
func sketchSequences(p params.Parameters, path string) ([]*catalog.Reference, error) {
	var refs []*catalog.Reference
	err := seqio.Walk(path, p.Alphabet, func(s *seqio.Sequence) error {
		refs = append(refs, catalog.BuildReference(p, s.Name(), string(s.Comment), s.Seq))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not sketch %v", path)
	}
	if len(refs) == 0 {
		return nil, errors.Errorf("no sequences found in %v", path)
	}
	return refs, nil
}

// BuildCatalog is a function to sketch a set of sequence files into a catalog
//
// Each input is a task for the boss. Whole-file mode gives one reference per input and individual mode gives one per sequence, either way the references are in input order. Inputs that fail are reported in the returned slice (one error per input) and left out of the catalog. The final error is set if the run could not continue, or is an EmptyInputError (alongside the catalog) when no reference holds any k-mers.
func BuildCatalog(p params.Parameters, inputs []string, individual bool, boss *Boss) (*catalog.Catalog, []error, error) {
	c, err := catalog.New(p)
	if err != nil {
		return nil, nil, err
	}
	if p.Reads {
		errs := SketchReads(c, inputs)
		if c.Len() == 0 {
			return nil, errs, &catalog.EmptyInputError{}
		}
		return c, errs, c.Validate()
	}

	var errs []error
	if individual {
		slots := make([][]*catalog.Reference, len(inputs))
		errs = boss.Run(len(inputs), func(i int) error {
			refs, err := sketchSequences(p, inputs[i])
			slots[i] = refs
			return err
		})
		for _, refs := range slots {
			for _, ref := range refs {
				c.Append(ref)
			}
		}
	} else {
		first := c.Reserve(len(inputs))
		errs = boss.Run(len(inputs), func(i int) error {
			ref, err := sketchFile(p, inputs[i])
			if err != nil {
				return err
			}
			return c.SetReference(first+i, ref)
		})
		c.Compact()
	}
	if err := FirstFatal(errs); err != nil {
		return nil, errs, err
	}
	if c.Len() == 0 {
		return nil, errs, &catalog.EmptyInputError{}
	}
	return c, errs, c.Validate()
}

// CompareAll is a function to compare every reference against every query
//
// The results are reference-major, so the comparison of reference i with query j is at i*nQuery+j, whatever the number of minions.
func CompareAll(cmp *compare.Comparator, boss *Boss) []compare.Result {
	nQuery := cmp.NumQuery()
	total := cmp.NumRef() * nQuery
	results := make([]compare.Result, total)
	numChunks := (total + CHUNKSIZE - 1) / CHUNKSIZE
	boss.Run(numChunks, func(chunk int) error {
		end := (chunk + 1) * CHUNKSIZE
		if end > total {
			end = total
		}
		for k := chunk * CHUNKSIZE; k < end; k++ {
			results[k] = cmp.Pair(k/nQuery, k%nQuery)
		}
		return nil
	})
	return results
}
