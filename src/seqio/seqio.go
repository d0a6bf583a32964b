/*
	the seqio package contains custom types and methods for reading and holding sequence data
*/
package seqio

// complementBases is the lookup table used during reverse complementation, anything else becomes N
var complementBases [256]byte

func init() {
	for i := range complementBases {
		complementBases[i] = 'N'
	}
	for _, pair := range []string{"AT", "CG", "GC", "TA", "UA", "NN"} {
		complementBases[pair[0]] = pair[1]
		complementBases[pair[0]+32] = pair[1] + 32
	}
}

// Sequence is the base type for a sequence record
type Sequence struct {
	ID      []byte
	Comment []byte
	Seq     []byte
}

// Name returns the sequence ID as a string
func (Sequence *Sequence) Name() string {
	return string(Sequence.ID)
}

// RevComplement is a function to get the reverse complement of a nucleotide sequence, leaving the input untouched
func RevComplement(seq []byte) []byte {
	rc := make([]byte, len(seq))
	revComplement(rc, seq)
	return rc
}

// revComplement writes the reverse complement of src to dst, which may be the same slice
func revComplement(dst, src []byte) {
	for i, j := 0, len(src)-1; i <= j; i, j = i+1, j-1 {
		dst[i], dst[j] = complementBases[src[j]], complementBases[src[i]]
	}
}
