// Package reporting renders comparison results, catalog summaries and warnings for the command line.
package reporting

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/will-rowe/minsketch/src/catalog"
	"github.com/will-rowe/minsketch/src/compare"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HistogramBins is the number of bins used by the distance histogram
const HistogramBins = 50

// formatFloat prints a value to 6 significant figures
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// WritePairwise is a function to write one line per passing comparison: reference, query, distance, p-value and shared/compared hashes
func WritePairwise(w io.Writer, ref, query *catalog.Catalog, results []compare.Result) error {
	out := bufio.NewWriter(w)
	for _, r := range results {
		if !r.Pass {
			continue
		}
		fmt.Fprintf(out, "%v\t%v\t%v\t%v\t%d/%d\n",
			ref.Reference(r.Ref).Name,
			query.Reference(r.Query).Name,
			formatFloat(r.Distance),
			formatFloat(r.PValue),
			r.Shared,
			r.SketchSize,
		)
	}
	return errors.Wrap(out.Flush(), "could not write results")
}

// WriteTable is a function to write a distance matrix with a row per query and a column per reference
//
// The results must be in reference-major order. Failing comparisons are left blank.
func WriteTable(w io.Writer, ref, query *catalog.Catalog, results []compare.Result) error {
	nRef, nQuery := ref.Len(), query.Len()
	if len(results) != nRef*nQuery {
		return errors.Errorf("expected %d results for the table, got %d", nRef*nQuery, len(results))
	}
	out := bufio.NewWriter(w)
	out.WriteString("#query")
	for i := 0; i < nRef; i++ {
		out.WriteString("\t" + ref.Reference(i).Name)
	}
	out.WriteString("\n")
	for j := 0; j < nQuery; j++ {
		out.WriteString(query.Reference(j).Name)
		for i := 0; i < nRef; i++ {
			out.WriteString("\t")
			if r := results[i*nQuery+j]; r.Pass {
				out.WriteString(formatFloat(r.Distance))
			}
		}
		out.WriteString("\n")
	}
	return errors.Wrap(out.Flush(), "could not write results")
}

// KmerSizeWarning is a function to describe a k-mer size warning
func KmerSizeWarning(w *catalog.Warning) string {
	others := ""
	if w.Count > 1 {
		others = fmt.Sprintf(" (and %d others)", w.Count-1)
	}
	return fmt.Sprintf("WARNING: For the k-mer size used (%d), the random match probability (%v) is above the specified warning threshold (%v) for the sequence \"%v\" of size %d%v. Distances to this sequence may be underestimated as a result. To meet the threshold of %v, a k-mer size of at least %d is required. See: -k, -w.",
		w.KmerSize, formatFloat(w.RandomChance), w.Threshold, w.Name, w.MaxLength, others, w.Threshold, w.KMin)
}

// WriteHeader is a function to summarise the parameters of a catalog
func WriteHeader(w io.Writer, c *catalog.Catalog) error {
	p := c.Params()
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "Header:\n")
	fmt.Fprintf(tw, "  Hash seed:\t%d\n", p.Seed)
	fmt.Fprintf(tw, "  K-mer size:\t%d\n", p.KmerSize)
	fmt.Fprintf(tw, "  Alphabet:\t%v\n", p.Alphabet)
	fmt.Fprintf(tw, "  Sketch size:\t%d\n", p.SketchSize)
	if p.Windowed {
		fmt.Fprintf(tw, "  Window size:\t%d\n", p.WindowSize)
	}
	if p.MinCopies > 1 {
		fmt.Fprintf(tw, "  Min copies:\t%d\n", p.MinCopies)
	}
	fmt.Fprintf(tw, "  References:\t%d\n", c.Len())
	return errors.Wrap(tw.Flush(), "could not write header")
}

// WriteReferences is a function to list the references of a catalog, tab delimited or aligned, optionally with checksums
func WriteReferences(w io.Writer, c *catalog.Catalog, tabular, checksums bool) error {
	if tabular {
		out := bufio.NewWriter(w)
		out.WriteString("#Hashes\tLength\tID\tComment")
		if checksums {
			out.WriteString("\tChecksum")
		}
		out.WriteString("\n")
		for _, ref := range c.References() {
			fmt.Fprintf(out, "%d\t%d\t%v\t%v", ref.Sketch.Len(), ref.Length, ref.Name, ref.Comment)
			if checksums {
				fmt.Fprintf(out, "\t%016x", ref.Checksum())
			}
			out.WriteString("\n")
		}
		return errors.Wrap(out.Flush(), "could not write references")
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "Sketches:\n")
	fmt.Fprintf(tw, "  [Hashes]\t[Length]\t[ID]\t[Comment]")
	if checksums {
		fmt.Fprintf(tw, "\t[Checksum]")
	}
	fmt.Fprintf(tw, "\n")
	for _, ref := range c.References() {
		fmt.Fprintf(tw, "  %d\t%d\t%v\t%v", ref.Sketch.Len(), ref.Length, ref.Name, ref.Comment)
		if checksums {
			fmt.Fprintf(tw, "\t%016x", ref.Checksum())
		}
		fmt.Fprintf(tw, "\n")
	}
	return errors.Wrap(tw.Flush(), "could not write references")
}

// Histogram is a function to plot the distances of the passing comparisons to a png
func Histogram(results []compare.Result, fileName string) error {
	distances := make(plotter.Values, 0, len(results))
	for _, r := range results {
		if r.Pass {
			distances = append(distances, r.Distance)
		}
	}
	if len(distances) == 0 {
		return errors.New("no passing comparisons to plot")
	}
	distPlot, err := plot.New()
	if err != nil {
		return errors.Wrap(err, "could not create plot")
	}
	distPlot.Title.Text = "distance histogram"
	distPlot.X.Label.Text = "Mash distance"
	distPlot.Y.Label.Text = "number of comparisons"
	hist, err := plotter.NewHist(distances, HistogramBins)
	if err != nil {
		return errors.Wrap(err, "could not bin distances")
	}
	distPlot.Add(hist)
	if err := distPlot.Save(8*vg.Inch, 8*vg.Inch, fileName); err != nil {
		return errors.Wrap(err, "could not save plot")
	}
	return nil
}
