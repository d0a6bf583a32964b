// Copyright © 2020 Will Rowe <will.rowe@stfc.ac.uk>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/will-rowe/minsketch/src/catalog"
	"github.com/will-rowe/minsketch/src/misc"
	"github.com/will-rowe/minsketch/src/params"
	"github.com/will-rowe/minsketch/src/pipeline"
	"github.com/will-rowe/minsketch/src/reporting"
	"github.com/will-rowe/minsketch/src/seqio"
)

// collectInputs is a function to get the input files from the command line arguments, expanding file lists if requested
//
// No arguments means STDIN.
func collectInputs(args []string, list bool) ([]string, error) {
	inputs := args
	if list {
		inputs = nil
		for _, listFile := range args {
			files, err := seqio.ReadList(listFile)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, files...)
		}
	}
	if len(inputs) == 0 {
		inputs = []string{seqio.STDIN}
	}
	return inputs, misc.CheckFiles(inputs)
}

// sketchInputs is a function to get a catalog from a mix of saved catalogs and sequence files
//
// Saved catalogs come first (in the order given), followed by the sketches of the sequence files. Sequence files are sketched with the supplied parameters, so catalogs must be compatible with them. Parts with different sketch sizes are shrunk to the smallest one before they are pasted together.
func sketchInputs(p params.Parameters, inputs []string, individual bool, boss *pipeline.Boss) *catalog.Catalog {
	var catalogFiles, seqFiles []string
	for _, input := range inputs {
		if input != seqio.STDIN && catalog.IsCatalog(input) {
			catalogFiles = append(catalogFiles, input)
		} else {
			seqFiles = append(seqFiles, input)
		}
	}
	var parts []*catalog.Catalog
	if len(catalogFiles) != 0 {
		log.Printf("\tloading %d catalog(s)", len(catalogFiles))
		for _, path := range catalogFiles {
			loaded, err := catalog.Load(path)
			misc.ErrorCheck(err)
			parts = append(parts, loaded)
		}
	}
	if len(seqFiles) != 0 {
		log.Printf("\tsketching %d sequence file(s)", len(seqFiles))
		sketched, errs, err := pipeline.BuildCatalog(p, seqFiles, individual, boss)
		for i, err := range errs {
			if err != nil {
				log.Printf("\tskipped %v: %v", seqFiles[i], err)
			}
		}
		misc.ErrorCheck(err)
		for _, anomaly := range sketched.Anomalies() {
			log.Printf("\t%v", anomaly)
		}
		reportWarning(sketched)
		parts = append(parts, sketched)
	}

	// the combined catalog takes the smallest sketch size of its parts
	if len(parts) != 0 {
		p.SketchSize = parts[0].Params().SketchSize
		for _, part := range parts[1:] {
			if size := part.Params().SketchSize; size < p.SketchSize {
				p.SketchSize = size
			}
		}
	}
	combined, err := catalog.New(p)
	misc.ErrorCheck(err)
	for i, part := range parts {
		if size := part.Params().SketchSize; size != p.SketchSize {
			log.Printf("\tshrinking sketches of input %d from %d to %d", i+1, size, p.SketchSize)
			misc.ErrorCheck(part.Resize(p.SketchSize))
		}
		_, err := combined.Paste(part)
		misc.ErrorCheck(err)
	}
	return combined
}

// reportWarning is a function to write the k-mer size warning for a catalog to STDERR and the log, if there is one
func reportWarning(c *catalog.Catalog) {
	if w := c.KmerSizeWarning(); w != nil {
		msg := reporting.KmerSizeWarning(w)
		log.Print(msg)
		fmt.Fprintf(os.Stderr, "\n%v\n\n", msg)
	}
}
