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

	"github.com/spf13/cobra"
	"github.com/will-rowe/minsketch/src/catalog"
	"github.com/will-rowe/minsketch/src/misc"
	"github.com/will-rowe/minsketch/src/seqio"
)

// the paste command (used by cobra)
var pasteCmd = &cobra.Command{
	Use:   "paste [flags] <output> <catalog> [<catalog>] ...",
	Short: "Combine catalogs into one",
	Long: `Combine catalogs into one, the catalogs must have been built with the same parameters.

 The ` + catalogExt + ` extension is added to the output if missing. References already in the output are not added again.`,
	Args:    cobra.MinimumNArgs(2),
	PreRunE: bindFlags,
	Run: func(cmd *cobra.Command, args []string) {
		runPaste(args[0], args[1:])
	},
}

// a function to initialise the command line arguments
func init() {
	pasteCmd.Flags().BoolP("list", "l", false, "input files are lists of catalog paths, one per line")
	RootCmd.AddCommand(pasteCmd)
}

/*
  The main function for the paste sub-command
*/
func runPaste(output string, args []string) {
	info, logFH := loadInfo("paste")
	defer logFH.Close()
	output = misc.AddExtension(output, catalogExt)
	inputs := args
	if info.Sketch.List {
		inputs = nil
		for _, listFile := range args {
			files, err := seqio.ReadList(listFile)
			misc.ErrorCheck(err)
			inputs = append(inputs, files...)
		}
	}
	misc.ErrorCheck(misc.CheckFiles(inputs))
	log.Printf("pasting %d catalogs...", len(inputs))
	c, err := catalog.LoadAll(inputs...)
	misc.ErrorCheck(err)
	log.Printf("\tnumber of references: %d", c.Len())
	log.Printf("saving catalog to \"%v\"...", output)
	misc.ErrorCheck(c.Dump(output))
	log.Println("finished")
}
