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
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/will-rowe/minsketch/src/catalog"
	"github.com/will-rowe/minsketch/src/compare"
	"github.com/will-rowe/minsketch/src/misc"
	"github.com/will-rowe/minsketch/src/params"
	"github.com/will-rowe/minsketch/src/pipeline"
	"github.com/will-rowe/minsketch/src/reporting"
)

// the dist command (used by cobra)
var distCmd = &cobra.Command{
	Use:   "dist [flags] <reference> <query> [<query>] ...",
	Short: "Estimate the distance of each query sequence to the reference",
	Long: `Estimate the distance of each query sequence to the reference.

 Both the reference and the queries can be catalogs (created with sketch) or sequence files,
 which are sketched on the fly. If the reference is a catalog, its sketching parameters are
 used for every query. The output is tab delimited, one line per passing comparison:

   reference-ID, query-ID, distance, p-value, shared-hashes`,
	Args:    cobra.MinimumNArgs(2),
	PreRunE: bindFlags,
	Run: func(cmd *cobra.Command, args []string) {
		runDist(cmd.Flags(), args)
	},
}

// a function to initialise the command line arguments
func init() {
	addSketchFlags(distCmd.Flags())
	distCmd.Flags().Float64P("max-distance", "d", 1.0, "maximum distance to report")
	distCmd.Flags().Float64P("max-pvalue", "v", 1.0, "maximum p-value to report")
	distCmd.Flags().BoolP("table", "t", false, "table output (a row per query and a column per reference, blank for failing comparisons)")
	distCmd.Flags().String("histogram", "", "also plot a histogram of the reported distances to this png file")
	RootCmd.AddCommand(distCmd)
}

// inheritParams is a function to take the sketching parameters from a reference catalog
//
// Any sketching flags set on the command line must agree with the catalog.
func inheritParams(flags *pflag.FlagSet, info *pipeline.Info, catalogParams params.Parameters) (params.Parameters, error) {
	requested, err := info.Parameters()
	if err != nil {
		return requested, err
	}
	p := catalogParams
	conflict := func(flag string, value interface{}) error {
		return &params.ConfigError{Field: flag, Value: value, Reason: "conflicts with the parameters of the reference catalog"}
	}
	switch {
	case flags.Changed("kmer-size") && requested.KmerSize != p.KmerSize:
		return p, conflict("kmer-size", requested.KmerSize)
	case flags.Changed("sketch-size") && requested.SketchSize != p.SketchSize:
		return p, conflict("sketch-size", requested.SketchSize)
	case flags.Changed("seed") && requested.Seed != p.Seed:
		return p, conflict("seed", requested.Seed)
	case (flags.Changed("protein") || flags.Changed("noncanonical")) && requested.Alphabet != p.Alphabet:
		return p, conflict("alphabet", requested.Alphabet)
	case flags.Changed("window") && (requested.Windowed != p.Windowed || requested.WindowSize != p.WindowSize):
		return p, conflict("window", requested.WindowSize)
	}
	p.Warning = requested.Warning
	p.Reads = requested.Reads
	p.Bloom = requested.Bloom
	p.MinCopies = requested.MinCopies
	return p, p.Validate()
}

/*
  The main function for the dist sub-command
*/
func runDist(flags *pflag.FlagSet, args []string) {
	info, logFH := loadInfo("dist")
	defer logFH.Close()

	// set up profiling
	if info.Profiling {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}
	boss := pipeline.NewBoss(info.NumProc, pipeline.BUFFERSIZE)

	// get the reference, which also settles the parameters
	log.Printf("checking parameters...")
	refPath := args[0]
	misc.ErrorCheck(misc.CheckFiles([]string{refPath}))
	var ref *catalog.Catalog
	var p params.Parameters
	var err error
	if catalog.IsCatalog(refPath) {
		log.Printf("\treference catalog: %v", refPath)
		ref, err = catalog.Load(refPath)
		misc.ErrorCheck(err)
		p, err = inheritParams(flags, info, ref.Params())
		misc.ErrorCheck(err)
		logParameters(p)
	} else {
		log.Printf("\treference sequence file: %v", refPath)
		p, err = info.Parameters()
		misc.ErrorCheck(err)
		logParameters(p)
		ref = sketchInputs(p, []string{refPath}, info.Sketch.Individual, boss)
	}
	log.Printf("\tnumber of references: %d", ref.Len())
	log.Printf("\tmaximum distance: %v", info.Dist.MaxDistance)
	log.Printf("\tmaximum p-value: %v", info.Dist.MaxPValue)

	// get the queries
	log.Printf("collecting queries...")
	queryFiles, err := collectInputs(args[1:], info.Sketch.List)
	misc.ErrorCheck(err)
	query := sketchInputs(p, queryFiles, info.Sketch.Individual, boss)
	log.Printf("\tnumber of queries: %d", query.Len())

	// compare every reference against every query
	log.Printf("comparing...")
	cmp, err := compare.New(ref, query, info.Dist.MaxDistance, info.Dist.MaxPValue)
	misc.ErrorCheck(err)
	results := pipeline.CompareAll(cmp, boss)
	passed := 0
	for _, result := range results {
		if result.Pass {
			passed++
		}
	}
	log.Printf("\tnumber of comparisons: %d", len(results))
	log.Printf("\tnumber passing the thresholds: %d", passed)

	// report
	if info.Dist.Table {
		misc.ErrorCheck(reporting.WriteTable(os.Stdout, ref, query, results))
	} else {
		misc.ErrorCheck(reporting.WritePairwise(os.Stdout, ref, query, results))
	}
	if info.Dist.Histogram != "" {
		log.Printf("plotting distances to \"%v\"...", info.Dist.Histogram)
		misc.ErrorCheck(reporting.Histogram(results, info.Dist.Histogram))
	}
	log.Print(misc.PrintMemUsage())
	log.Println("finished")
}
