package pipeline

import (
	"github.com/spf13/viper"
	"github.com/will-rowe/minsketch/src/params"
)

// Info stores the runtime information, it is unmarshalled from the command line flags, config file and environment
type Info struct {
	Version   string
	NumProc   int    `mapstructure:"processors"`
	Profiling bool   `mapstructure:"profiling"`
	LogFile   string `mapstructure:"log"`

	Sketch SketchCmd `mapstructure:",squash"`
	Dist   DistCmd   `mapstructure:",squash"`
	Info   InfoCmd   `mapstructure:",squash"`
}

// SketchCmd stores the runtime info for building sketches, it is also used by dist for raw sequence input
type SketchCmd struct {
	KmerSize     int     `mapstructure:"kmer-size"`
	SketchSize   int     `mapstructure:"sketch-size"`
	Seed         uint64  `mapstructure:"seed"`
	Warning      float64 `mapstructure:"warning"`
	Protein      bool    `mapstructure:"protein"`
	Noncanonical bool    `mapstructure:"noncanonical"`
	Individual   bool    `mapstructure:"individual"`
	Reads        bool    `mapstructure:"reads"`
	MinCopies    int     `mapstructure:"min-copies"`
	Bloom        bool    `mapstructure:"bloom"`
	WindowSize   int     `mapstructure:"window"`
	ID           string  `mapstructure:"id"`
	Comment      string  `mapstructure:"comment"`
	List         bool    `mapstructure:"list"`
	Output       string  `mapstructure:"output"`
}

// DistCmd stores the runtime info for the dist command
type DistCmd struct {
	MaxDistance float64 `mapstructure:"max-distance"`
	MaxPValue   float64 `mapstructure:"max-pvalue"`
	Table       bool    `mapstructure:"table"`
	Histogram   string  `mapstructure:"histogram"`
}

// InfoCmd stores the runtime info for the info command
type InfoCmd struct {
	HeaderOnly bool   `mapstructure:"header"`
	Tabular    bool   `mapstructure:"tabular"`
	Checksums  bool   `mapstructure:"checksums"`
	Dump       string `mapstructure:"dump"`
}

// NewInfo is a function to collect the runtime info from viper
func NewInfo(v *viper.Viper, version string) (*Info, error) {
	info := &Info{Version: version}
	if err := v.Unmarshal(info); err != nil {
		return nil, err
	}
	return info, nil
}

// Parameters is a method to get the sketching parameters requested at runtime
func (Info *Info) Parameters() (params.Parameters, error) {
	p := params.Default()
	s := Info.Sketch
	p.KmerSize = s.KmerSize
	p.SketchSize = s.SketchSize
	p.Seed = s.Seed
	p.Warning = s.Warning
	p.MinCopies = s.MinCopies
	p.Reads = s.Reads
	p.Bloom = s.Bloom
	switch {
	case s.Protein && s.Noncanonical:
		return p, &params.ConfigError{Field: "alphabet", Value: "protein", Reason: "protein k-mers are always noncanonical, don't combine with --noncanonical"}
	case s.Protein:
		p.Alphabet = params.Protein
	case s.Noncanonical:
		p.Alphabet = params.NucleotideNoncanonical
	}
	if s.WindowSize > 0 {
		p.Windowed = true
		p.WindowSize = s.WindowSize
	}
	return p, p.Validate()
}
