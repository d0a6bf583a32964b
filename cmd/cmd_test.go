package cmd

import (
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/will-rowe/minsketch/src/catalog"
	"github.com/will-rowe/minsketch/src/compare"
	"github.com/will-rowe/minsketch/src/params"
	"github.com/will-rowe/minsketch/src/pipeline"
)

// testFlags is a helper function to get the sketch flags and the runtime info they produce
func testFlags(t *testing.T, args ...string) (*pflag.FlagSet, *pipeline.Info) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addSketchFlags(flags)
	require.NoError(t, flags.Parse(args))
	v := viper.New()
	require.NoError(t, v.BindPFlags(flags))
	info, err := pipeline.NewInfo(v, "test")
	require.NoError(t, err)
	return flags, info
}

func TestSketchFlagDefaults(t *testing.T) {
	_, info := testFlags(t)
	p, err := info.Parameters()
	require.NoError(t, err)
	assert.Equal(t, params.Default(), p)
}

func TestInheritParams(t *testing.T) {
	catalogParams := params.Default()
	catalogParams.KmerSize = 16
	catalogParams.Seed = 7

	// unset flags are taken from the catalog
	flags, info := testFlags(t, "-m", "3")
	info.Sketch.Reads = true
	p, err := inheritParams(flags, info, catalogParams)
	require.NoError(t, err)
	assert.Equal(t, 16, p.KmerSize)
	assert.Equal(t, uint64(7), p.Seed)
	assert.Equal(t, 3, p.MinCopies)
	assert.True(t, p.Reads)

	// flags that agree are fine
	flags, info = testFlags(t, "-k", "16")
	_, err = inheritParams(flags, info, catalogParams)
	assert.NoError(t, err)

	// flags that conflict are not
	for _, args := range [][]string{{"-k", "21"}, {"-S", "42"}, {"-n"}, {"-W", "10"}} {
		flags, info = testFlags(t, args...)
		_, err = inheritParams(flags, info, catalogParams)
		var cerr *params.ConfigError
		assert.True(t, errors.As(err, &cerr), "%v", args)
	}
}

func TestCollectInputs(t *testing.T) {
	dir, err := ioutil.TempDir("", "cmd")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	fa := filepath.Join(dir, "a.fa")
	require.NoError(t, ioutil.WriteFile(fa, []byte(">a\nACGT\n"), 0644))
	list := filepath.Join(dir, "files.txt")
	require.NoError(t, ioutil.WriteFile(list, []byte(fa+"\n"+fa+"\n"), 0644))

	inputs, err := collectInputs([]string{fa}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{fa}, inputs)
	inputs, err = collectInputs([]string{list}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{fa, fa}, inputs)
	_, err = collectInputs([]string{filepath.Join(dir, "missing.fa")}, false)
	assert.Error(t, err)
}

func TestSketchInputsMixedSizes(t *testing.T) {
	dir, err := ioutil.TempDir("", "cmd")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	r := rand.New(rand.NewSource(1))
	seqs := make([][]byte, 3)
	for i := range seqs {
		seqs[i] = make([]byte, 2000)
		for j := range seqs[i] {
			seqs[i][j] = "ACGT"[r.Intn(4)]
		}
	}

	// two saved catalogs, sketched at different sizes
	p := params.Default()
	var paths []string
	for i, size := range []int{100, 50} {
		sp := p
		sp.SketchSize = size
		c, err := catalog.New(sp)
		require.NoError(t, err)
		c.Append(catalog.BuildReference(sp, "seq"+string(rune('A'+i)), "", seqs[i]))
		path := filepath.Join(dir, "part"+string(rune('A'+i))+".msk")
		require.NoError(t, c.Dump(path))
		paths = append(paths, path)
	}
	fa := filepath.Join(dir, "c.fa")
	require.NoError(t, ioutil.WriteFile(fa, []byte(">seqC\n"+string(seqs[2])+"\n"), 0644))

	p.SketchSize = 100
	query := sketchInputs(p, append(paths, fa), false, pipeline.NewBoss(1, 0))
	assert.Equal(t, 50, query.Params().SketchSize)
	require.Equal(t, 3, query.Len())
	for i, ref := range query.References() {
		full := catalog.BuildReference(p, "full", "", seqs[i])
		assert.Equal(t, full.Members()[:50], ref.Members())
	}

	// the reference keeps its size and the comparison runs at the smaller one
	ref := sketchInputs(p, []string{fa}, false, pipeline.NewBoss(1, 0))
	assert.Equal(t, 100, ref.Params().SketchSize)
	cmp, err := compare.New(ref, query, 1.0, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 50, cmp.Config().SketchSize)
	result := cmp.Pair(0, 2)
	assert.Equal(t, 0.0, result.Distance)
	assert.Equal(t, uint64(50), result.Shared)
}
