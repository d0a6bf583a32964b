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
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/will-rowe/minsketch/src/misc"
	"github.com/will-rowe/minsketch/src/params"
	"github.com/will-rowe/minsketch/src/pipeline"
	"github.com/will-rowe/minsketch/src/version"
)

// the config file to read settings from
var cfgFile string

const (
	defaultLogFile = "./minsketch.log"
	catalogExt     = ".msk" // the extension given to saved catalogs
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "minsketch",
	Short: "fast genome and metagenome distance estimation using MinHash sketches",
	Long: `
#####################################################################################
		minsketch: MinHash sketching and distance estimation
#####################################################################################

 minsketch reduces sequence files to small bottom-N MinHash sketches of their k-mers.

 Sketches are stored in catalogs, which can be listed, pasted together and compared.
 Comparing two sketches estimates the Jaccard index of the underlying k-mer sets, which
 is converted into a mutation distance along with a p-value for the observed overlap.`,
	Version: version.GetVersion(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

/*
  A function to initalise the command line arguments
*/
func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, TOML or JSON) to read settings from")
	RootCmd.PersistentFlags().IntP("processors", "p", 1, "number of processors to use")
	RootCmd.PersistentFlags().Bool("profiling", false, "create the files needed to profile minsketch using the go tool pprof")
	RootCmd.PersistentFlags().String("log", defaultLogFile, "file to write the log to")
	misc.ErrorCheck(viper.BindPFlags(RootCmd.PersistentFlags()))
}

// initConfig reads in the config file and any MINSKETCH_ environment variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println("can't read config file:", err)
			os.Exit(1)
		}
	}
	viper.SetEnvPrefix("minsketch")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// bindFlags is used as the PreRunE of each subcommand, so that only the flags of the running command are bound
func bindFlags(cmd *cobra.Command, args []string) error {
	if err := misc.CheckRequiredFlags(cmd.Flags()); err != nil {
		return err
	}
	return viper.BindPFlags(cmd.Flags())
}

// addSketchFlags is a function to add the flags controlling how sequences are sketched
func addSketchFlags(flags *pflag.FlagSet) {
	flags.IntP("kmer-size", "k", 21, "k-mer size, hashes are 64 bit")
	flags.IntP("sketch-size", "s", 1000, "sketch size, each sketch will have at most this many non-redundant min-hashes")
	flags.Uint64P("seed", "S", 42, "seed to provide to the hash function")
	flags.Float64P("warning", "w", 0.01, "probability threshold for warning about low k-mer size")
	flags.BoolP("protein", "a", false, "use amino acid alphabet (A-Z, except BJOUXZ), implies --noncanonical")
	flags.BoolP("noncanonical", "n", false, "preserve strand (by default, strand is ignored by using canonical DNA k-mers)")
	flags.BoolP("individual", "i", false, "sketch individual sequences, rather than whole files")
	flags.BoolP("reads", "r", false, "input is a read set, k-mers are filtered by copy number (see -m, -b)")
	flags.IntP("min-copies", "m", 1, "minimum copies of each k-mer required to pass noise filter for reads (implies -r)")
	flags.BoolP("bloom", "b", false, "use a bloom filter to hold first sightings of k-mers, saving memory with -m > 1 (implies -r)")
	flags.IntP("window", "W", 0, "sketch minimizers of windows of this many k-mers, 0 disables windowed sketching")
	flags.BoolP("list", "l", false, "input files are lists of file paths, one per line")
}

// loadInfo is a function to collect the runtime info for a subcommand, start logging and set the number of processors
func loadInfo(cmdName string) (*pipeline.Info, *os.File) {
	info, err := pipeline.NewInfo(viper.GetViper(), version.GetVersion())
	misc.ErrorCheck(err)
	if info.Sketch.MinCopies > 1 || info.Sketch.Bloom {
		info.Sketch.Reads = true
	}
	if info.NumProc <= 0 || info.NumProc > runtime.NumCPU() {
		info.NumProc = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(info.NumProc)

	// start logging
	logFH := misc.StartLogging(info.LogFile)
	log.SetOutput(logFH)
	log.Printf("this is minsketch (version %s)", info.Version)
	log.Printf("starting the %v subcommand", cmdName)
	log.Printf("\tprocessors: %d", info.NumProc)
	return info, logFH
}

// logParameters is a function to log the sketching parameters in use
func logParameters(p params.Parameters) {
	log.Printf("\tk-mer size: %d", p.KmerSize)
	log.Printf("\tsketch size: %d", p.SketchSize)
	log.Printf("\tseed: %d", p.Seed)
	log.Printf("\talphabet: %v", p.Alphabet)
	if p.Windowed {
		log.Printf("\twindow size: %d", p.WindowSize)
	}
	if p.Reads {
		log.Printf("\treads mode: min copies %d (bloom filter: %v)", p.MinCopies, p.Bloom)
	}
}
