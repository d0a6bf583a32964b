package params

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	tests := []struct {
		name  string
		edit  func(p *Parameters)
		field string
	}{
		{"k too small", func(p *Parameters) { p.KmerSize = 0 }, "kmerSize"},
		{"k too large", func(p *Parameters) { p.KmerSize = 33 }, "kmerSize"},
		{"empty sketch", func(p *Parameters) { p.SketchSize = 0 }, "sketchSize"},
		{"bad alphabet", func(p *Parameters) { p.Alphabet = Alphabet(9) }, "alphabet"},
		{"window", func(p *Parameters) { p.Windowed = true; p.WindowSize = 0 }, "windowSize"},
		{"min copies", func(p *Parameters) { p.MinCopies = 0 }, "minCopies"},
		{"windowed reads", func(p *Parameters) { p.Windowed = true; p.Reads = true }, "windowed"},
		{"bloom without reads", func(p *Parameters) { p.Bloom = true }, "bloom"},
		{"warning", func(p *Parameters) { p.Warning = 1 }, "warning"},
	}
	for _, test := range tests {
		p := Default()
		test.edit(&p)
		err := p.Validate()
		var cerr *ConfigError
		if assert.True(t, errors.As(err, &cerr), test.name) {
			assert.Equal(t, test.field, cerr.Field, test.name)
		}
	}
}

func TestKmerSpace(t *testing.T) {
	p := Default()
	assert.Equal(t, math.Pow(4, 21)/2, p.KmerSpace())
	p.Alphabet = NucleotideNoncanonical
	assert.Equal(t, math.Pow(4, 21), p.KmerSpace())
	p.Alphabet = Protein
	p.KmerSize = 3
	assert.Equal(t, 8000.0, p.KmerSpace())

	// large k must not overflow
	p.KmerSize = 32
	assert.False(t, math.IsInf(p.KmerSpace(), 0))
	assert.True(t, p.KmerSpace() > math.MaxUint64)
}

func TestRandomKmerChance(t *testing.T) {
	p := Default()
	assert.Equal(t, 0.0, p.RandomKmerChance(21, 0))
	prev := 1.0
	for k := 1; k <= MaxKmerSize; k++ {
		c := p.RandomKmerChance(k, 5000000)
		assert.True(t, c <= prev, "chance should not increase with k (k=%d)", k)
		assert.True(t, c >= 0 && c <= 1)
		prev = c
	}
}

func TestMinKmerSize(t *testing.T) {
	p := Default()
	kMin, chance := p.MinKmerSize(5000000, 0.01)
	assert.Equal(t, 15, kMin)
	assert.InDelta(t, p.RandomKmerChance(21, 5000000), chance, 1e-15)

	for _, length := range []uint64{10, 1000, 123456, 3000000000} {
		kMin, _ := p.MinKmerSize(length, 0.01)
		assert.True(t, p.RandomKmerChance(kMin, length) <= 0.01)
		if kMin > 1 {
			assert.True(t, p.RandomKmerChance(kMin-1, length) > 0.01)
		}
	}
}

func TestCompatible(t *testing.T) {
	a, b := Default(), Default()
	b.SketchSize = 500
	assert.NoError(t, a.Compatible(b))

	b.KmerSize = 20
	err := a.Compatible(b)
	var merr *ParameterMismatchError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "kmerSize", merr.Field)

	b = Default()
	b.Seed = 7
	assert.Error(t, a.Compatible(b))

	b = Default()
	b.Alphabet = Protein
	assert.Error(t, a.Compatible(b))
}
