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

	"github.com/spf13/cobra"
	"github.com/will-rowe/minsketch/src/catalog"
	"github.com/will-rowe/minsketch/src/misc"
	"github.com/will-rowe/minsketch/src/reporting"
)

// the info command (used by cobra)
var infoCmd = &cobra.Command{
	Use:     "info [flags] <catalog>",
	Short:   "Display information about a catalog",
	Long:    `Display the sketching parameters and the references held in a catalog`,
	Args:    cobra.ExactArgs(1),
	PreRunE: bindFlags,
	Run: func(cmd *cobra.Command, args []string) {
		runInfo(args[0])
	},
}

// a function to initialise the command line arguments
func init() {
	infoCmd.Flags().BoolP("header", "H", false, "only show the header")
	infoCmd.Flags().BoolP("tabular", "t", false, "tabular output (without the header), with hash counts, lengths, IDs and comments")
	infoCmd.Flags().BoolP("checksums", "c", false, "also show a checksum of each sketch")
	infoCmd.Flags().StringP("dump", "d", "", "dump the catalog as msgpack to this file")
	RootCmd.AddCommand(infoCmd)
}

/*
  The main function for the info sub-command
*/
func runInfo(catalogFile string) {
	info, logFH := loadInfo("info")
	defer logFH.Close()
	log.Printf("loading catalog \"%v\"...", catalogFile)
	misc.ErrorCheck(misc.CheckFile(catalogFile))
	c, err := catalog.Load(catalogFile)
	misc.ErrorCheck(err)
	log.Printf("\tnumber of references: %d", c.Len())

	if info.Info.Dump != "" {
		log.Printf("dumping catalog to \"%v\"...", info.Info.Dump)
		fh, err := os.Create(info.Info.Dump)
		misc.ErrorCheck(err)
		misc.ErrorCheck(c.Export(fh))
		misc.ErrorCheck(fh.Close())
	}
	switch {
	case info.Info.HeaderOnly:
		misc.ErrorCheck(reporting.WriteHeader(os.Stdout, c))
	case info.Info.Tabular:
		misc.ErrorCheck(reporting.WriteReferences(os.Stdout, c, true, info.Info.Checksums))
	default:
		misc.ErrorCheck(reporting.WriteHeader(os.Stdout, c))
		os.Stdout.WriteString("\n")
		misc.ErrorCheck(reporting.WriteReferences(os.Stdout, c, false, info.Info.Checksums))
	}
	log.Println("finished")
}
