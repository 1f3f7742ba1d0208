package tables_test

import (
	"testing"

	"go-ml.dev/pkg/tsdata/tables"
	"gotest.tools/v3/assert"
)

func series(name string, width int, rows ...[]float64) *tables.Table {
	cols := make([]tables.Column, width)
	for i := range cols {
		cols[i] = tables.NumericColumn("att" + string(rune('0'+i)))
	}
	cols = append(cols, tables.NominalColumn("class", "a", "b"))
	t := tables.New(tables.NewSchema(name, cols, width))
	for _, r := range rows {
		row := make(tables.Row, 0, width+1)
		for _, v := range r[:len(r)-1] {
			row = append(row, tables.Num(v))
		}
		for len(row) < width {
			row = append(row, tables.Missing)
		}
		t.Append(append(row, tables.Num(r[len(r)-1])))
	}
	return t
}

func Test_AlignEqual(t *testing.T) {
	a := series("p", 2, []float64{1, 2, 0})
	b := series("p", 2, []float64{3, 4, 1})
	x, y, err := tables.Align(a, b)
	assert.NilError(t, err)
	assert.Assert(t, x == a && y == b)
}

func Test_AlignUnivariate(t *testing.T) {
	a := series("p", 2, []float64{1, 2, 0})
	b := series("p", 3, []float64{3, 4, 5, 1})
	x, y, err := tables.Align(a, b)
	assert.NilError(t, err)
	assert.Assert(t, x.Schema.Equal(y.Schema))
	assert.Equal(t, x.Schema.Len(), 4)
	assert.Equal(t, x.Schema.ClassIndex, 3)
	assert.Equal(t, x.Float(0, 1), 2.0)
	assert.Assert(t, x.Rows[0][2].IsMissing())
	assert.Equal(t, x.Class(0), 0)
	assert.Assert(t, y == b)
	assert.NilError(t, x.Validate())
}

func Test_AlignMultivariate(t *testing.T) {
	mk := func(width int, vals ...float64) *tables.Table {
		cols := make([]tables.Column, width)
		for i := range cols {
			cols[i] = tables.NumericColumn("att" + string(rune('0'+i)))
		}
		nested := tables.NewSchema("series", cols, -1)
		n := tables.New(nested)
		r := make(tables.Row, width)
		for i := range r {
			r[i] = tables.Num(vals[i])
		}
		n.Append(r)
		s := tables.NewSchema("mv", []tables.Column{tables.RelationalColumn("series", nested), tables.NominalColumn("class", "a")}, 1)
		return tables.New(s).Append(tables.Row{tables.Rel(n), tables.Num(0)})
	}
	a := mk(3, 1, 2, 3)
	b := mk(1, 7)
	x, y, err := tables.Align(a, b)
	assert.NilError(t, err)
	assert.Assert(t, x == a)
	assert.Assert(t, y.Schema.Equal(a.Schema))
	assert.Equal(t, y.Rows[0][0].Rel.Float(0, 0), 7.0)
	assert.Assert(t, y.Rows[0][0].Rel.Rows[0][2].IsMissing())
	assert.NilError(t, y.Validate())
}

func Test_AlignIncompatible(t *testing.T) {
	a := series("p", 2, []float64{1, 2, 0})
	s := tables.NewSchema("p", []tables.Column{tables.NumericColumn("x"), tables.NominalColumn("class", "z")}, 1)
	_, _, err := tables.Align(a, tables.New(s))
	assert.ErrorContains(t, err, "class columns")
}
