package catalog

import "fmt"

// FormatKind is the class of problem found in a serialised catalog
type FormatKind int

const (
	// BadMagic means the file is not a catalog
	BadMagic FormatKind = iota

	// BadVersion means the catalog was written by an unsupported format version
	BadVersion

	// Truncated means the data ended early
	Truncated

	// Corrupt means the data can be read but describes an impossible catalog
	Corrupt
)

func (k FormatKind) String() string {
	switch k {
	case BadMagic:
		return "bad magic"
	case BadVersion:
		return "unsupported version"
	case Truncated:
		return "truncated"
	default:
		return "corrupt"
	}
}

// FormatError is returned when a serialised catalog can't be loaded
type FormatError struct {
	Kind FormatKind
	Path string
	Msg  string
}

func (e *FormatError) Error() string {
	msg := e.Kind.String()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Path != "" {
		return fmt.Sprintf("could not load catalog %v (%v)", e.Path, msg)
	}
	return fmt.Sprintf("could not load catalog (%v)", msg)
}

// EmptyInputError is returned when no reference in a catalog holds any k-mers
type EmptyInputError struct {
	References int
}

func (e *EmptyInputError) Error() string {
	if e.References == 0 {
		return "no references were sketched"
	}
	return fmt.Sprintf("no valid k-mers were found in any of the %d references", e.References)
}

// AnomalyKind is a per-sequence extraction problem, these never stop a build
type AnomalyKind int

const (
	// TooShort sequences are shorter than k
	TooShort AnomalyKind = iota

	// NoValidKmers sequences are long enough but every window holds an invalid symbol
	NoValidKmers
)

func (k AnomalyKind) String() string {
	if k == TooShort {
		return "shorter than k"
	}
	return "no valid k-mers"
}

// Anomaly records a sequence that added nothing to its reference's sketch
type Anomaly struct {
	Sequence string
	Length   int
	Kind     AnomalyKind
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%v (%d symbols): %v", a.Sequence, a.Length, a.Kind)
}
