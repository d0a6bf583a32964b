package catalog

// Warning describes references that are too long for the k-mer size to keep random k-mer matches below the warning threshold
type Warning struct {
	KmerSize     int
	Threshold    float64
	KMin         int     // smallest k meeting the threshold for the longest reference
	MaxLength    uint64  // length of the longest offending reference
	Name         string  // name of the longest offending reference
	RandomChance float64 // random k-mer chance of the longest offending reference at the current k
	Count        int     // number of offending references
}

// KmerSpace returns the number of distinguishable k-mers under the catalog parameters
func (c *Catalog) KmerSpace() float64 {
	return c.params.KmerSpace()
}

// MinKmerSizeForWarning returns the smallest k-mer size keeping the random k-mer chance for a sequence of the given length at or below threshold, along with the chance at the catalog's k-mer size
func (c *Catalog) MinKmerSizeForWarning(length uint64, threshold float64) (int, float64) {
	return c.params.MinKmerSize(length, threshold)
}

// KmerSizeWarning checks every reference against the warning threshold, returning nil if they all pass
func (c *Catalog) KmerSizeWarning() *Warning {
	var w *Warning
	for _, ref := range c.references {
		if ref == nil {
			continue
		}
		chance := c.params.RandomKmerChance(c.params.KmerSize, ref.Length)
		if chance <= c.params.Warning {
			continue
		}
		if w == nil {
			w = &Warning{KmerSize: c.params.KmerSize, Threshold: c.params.Warning}
		}
		w.Count++
		if ref.Length > w.MaxLength {
			w.MaxLength = ref.Length
			w.Name = ref.Name
		}
	}
	if w != nil {
		w.KMin, w.RandomChance = c.MinKmerSizeForWarning(w.MaxLength, w.Threshold)
	}
	return w
}
