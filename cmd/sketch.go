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
	"log"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/will-rowe/minsketch/src/catalog"
	"github.com/will-rowe/minsketch/src/misc"
	"github.com/will-rowe/minsketch/src/params"
	"github.com/will-rowe/minsketch/src/pipeline"
	"github.com/will-rowe/minsketch/src/seqio"
)

// the sketch command (used by cobra)
var sketchCmd = &cobra.Command{
	Use:   "sketch [flags] <input> [<input>] ...",
	Short: "Create MinHash sketches of sequence files and save them as a catalog",
	Long: `Create MinHash sketches of sequence files and save them as a catalog.

 Inputs can be FASTA or FASTQ (optionally gzip or zstd compressed), BAM files, or tar/zip
 archives of these. By default each input file is sketched as one reference, use -i to
 sketch each sequence on its own. If no inputs are given, sequences are read from STDIN.`,
	PreRunE: bindFlags,
	Run: func(cmd *cobra.Command, args []string) {
		runSketch(args)
	},
}

// a function to initialise the command line arguments
func init() {
	addSketchFlags(sketchCmd.Flags())
	sketchCmd.Flags().StringP("id", "I", "", "ID field for the first sketch, instead of the file name")
	sketchCmd.Flags().StringP("comment", "C", "", "comment for the first sketch, instead of the first sequence header")
	sketchCmd.Flags().StringP("output", "o", "", "output prefix, the "+catalogExt+" extension is added if missing (default: the first input)")
	RootCmd.AddCommand(sketchCmd)
}

// a function to check user supplied parameters
func sketchParamCheck(info *pipeline.Info, args []string) (params.Parameters, []string, error) {
	p, err := info.Parameters()
	if err != nil {
		return p, nil, err
	}
	inputs, err := collectInputs(args, info.Sketch.List)
	if err != nil {
		return p, nil, err
	}
	if info.Sketch.Output == "" {
		info.Sketch.Output = inputs[0]
		if info.Sketch.Output == seqio.STDIN {
			info.Sketch.Output = "stdin"
		}
	}
	info.Sketch.Output = misc.AddExtension(info.Sketch.Output, catalogExt)
	return p, inputs, nil
}

/*
  The main function for the sketch sub-command
*/
func runSketch(args []string) {
	info, logFH := loadInfo("sketch")
	defer logFH.Close()

	// set up profiling
	if info.Profiling {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}

	// check the supplied files and then log some stuff
	log.Printf("checking parameters...")
	p, inputs, err := sketchParamCheck(info, args)
	misc.ErrorCheck(err)
	logParameters(p)
	log.Printf("\tindividual sequences: %v", info.Sketch.Individual)
	log.Printf("\tnumber of inputs: %d", len(inputs))
	log.Printf("\toutput: %v", info.Sketch.Output)

	// sketch the inputs
	log.Printf("sketching...")
	boss := pipeline.NewBoss(info.NumProc, pipeline.BUFFERSIZE)
	c, errs, err := pipeline.BuildCatalog(p, inputs, info.Sketch.Individual, boss)
	for i, err := range errs {
		if err != nil {
			log.Printf("\tskipped %v: %v", inputs[i], err)
		}
	}
	misc.ErrorCheck(err)
	for _, anomaly := range c.Anomalies() {
		log.Printf("\t%v", anomaly)
	}
	log.Printf("\tnumber of sketches: %d", c.Len())
	if info.Sketch.ID != "" || info.Sketch.Comment != "" {
		setFirstReference(c, info.Sketch.ID, info.Sketch.Comment)
	}
	reportWarning(c)

	// save the catalog
	log.Printf("saving catalog to \"%v\"...", info.Sketch.Output)
	misc.ErrorCheck(c.Dump(info.Sketch.Output))
	log.Print(misc.PrintMemUsage())
	log.Println("finished")
}

// setFirstReference is a function to override the name and comment of the first reference
func setFirstReference(c *catalog.Catalog, id, comment string) {
	if c.Len() > 1 && !c.Params().Reads {
		log.Printf("\tWARNING: -I and -C only apply to the first of the %d sketches", c.Len())
	}
	if id != "" {
		misc.ErrorCheck(c.SetReferenceName(0, id))
	}
	if comment != "" {
		misc.ErrorCheck(c.SetReferenceComment(0, comment))
	}
}
