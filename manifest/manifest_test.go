package manifest_test

import (
	"testing"

	"go-ml.dev/pkg/tsdata/manifest"
	"go-ml.dev/pkg/tsdata/split"
	"go-ml.dev/pkg/tsdata/tables"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

func result(tier split.Tier, train, test []float64) *split.Result {
	s := tables.NewSchema("m", []tables.Column{tables.NumericColumn("x"), tables.NominalColumn("class", "a", "b")}, 1)
	mk := func(vs []float64) *tables.Table {
		t := tables.New(s)
		for i, v := range vs {
			t.Append(tables.Row{tables.Num(v), tables.Num(float64(i % 2))})
		}
		return t
	}
	return &split.Result{Train: mk(train), Test: mk(test), Tier: tier}
}

func Test_RecordLookupVerify(t *testing.T) {
	dir := fs.NewDir(t, "manifest")
	defer dir.Remove()
	m, err := manifest.Open(dir.Join("splits.db"))
	assert.NilError(t, err)
	defer m.Close()

	_, ok, err := m.Lookup("Demo", 1)
	assert.NilError(t, err)
	assert.Assert(t, !ok)
	same, err := m.Verify("Demo", 1, result(split.Pooled, []float64{1}, []float64{2}))
	assert.NilError(t, err)
	assert.Assert(t, !same)

	r := result(split.Pooled, []float64{1, 2, 3}, []float64{4, 5})
	assert.NilError(t, m.Record("Demo", 1, r))
	e, ok, err := m.Lookup("Demo", 1)
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.DeepEqual(t, e, manifest.EntryOf("Demo", 1, r))
	assert.Equal(t, e.Tier, "pooled")
	assert.Equal(t, e.Train[1].Class, 1)

	same, err = m.Verify("Demo", 1, r)
	assert.NilError(t, err)
	assert.Assert(t, same)

	// the order of rows does not matter
	same, err = m.Verify("Demo", 1, result(split.Pooled, []float64{1, 2, 3}, []float64{4, 5}))
	assert.NilError(t, err)
	assert.Assert(t, same)

	same, err = m.Verify("Demo", 1, result(split.Pooled, []float64{1, 2, 4}, []float64{3, 5}))
	assert.NilError(t, err)
	assert.Assert(t, !same)
	same, err = m.Verify("Demo", 1, result(split.DefaultSplit, []float64{1, 2, 3}, []float64{4, 5}))
	assert.NilError(t, err)
	assert.Assert(t, !same)
}

func Test_RecordReplaces(t *testing.T) {
	dir := fs.NewDir(t, "manifest")
	defer dir.Remove()
	path := dir.Join("splits.db")
	m, err := manifest.Open(path)
	assert.NilError(t, err)
	assert.NilError(t, m.Record("Demo", 0, result(split.DefaultSplit, []float64{1, 2, 3}, []float64{4})))
	assert.NilError(t, m.Record("Demo", 0, result(split.DefaultSplit, []float64{7}, []float64{8, 9})))
	assert.NilError(t, m.Record("Demo", 2, result(split.DefaultSplit, []float64{1}, []float64{2})))
	assert.NilError(t, m.Close())

	m, err = manifest.Open(path)
	assert.NilError(t, err)
	defer m.Close()
	e, ok, err := m.Lookup("Demo", 0)
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, len(e.Train), 1)
	assert.Equal(t, len(e.Test), 2)
}
