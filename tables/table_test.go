package tables_test

import (
	"math"
	"testing"

	"go-ml.dev/pkg/tsdata/tables"
	"gotest.tools/v3/assert"
)

func iris() *tables.Table {
	s := tables.NewSchema("iris", []tables.Column{
		tables.NumericColumn("group"),
		tables.NumericColumn("length"),
		tables.NominalColumn("class", "setosa", "virginica"),
	}, 2)
	return tables.New(s).Append(
		tables.Row{tables.Num(1), tables.Num(5.1), tables.Num(0)},
		tables.Row{tables.Num(2), tables.Num(6.3), tables.Num(1)},
		tables.Row{tables.Num(1), tables.Missing, tables.Num(1)},
		tables.Row{tables.Num(3), tables.Num(4.9), tables.Missing},
	)
}

func multivariate() *tables.Table {
	nested := tables.NewSchema("series", []tables.Column{tables.NumericColumn("att0"), tables.NumericColumn("att1")}, -1)
	s := tables.NewSchema("mv", []tables.Column{
		tables.RelationalColumn("series", nested),
		tables.NominalColumn("class", "a", "b"),
	}, 1)
	n := tables.New(nested).Append(
		tables.Row{tables.Num(1), tables.Num(2)},
		tables.Row{tables.Num(3), tables.Missing})
	return tables.New(s).Append(tables.Row{tables.Rel(n), tables.Num(1)})
}

func Test_ClassCounts(t *testing.T) {
	q := iris()
	counts, unlabeled := q.ClassCounts()
	assert.DeepEqual(t, counts, []int{1, 2})
	assert.Equal(t, unlabeled, 1)
	assert.Equal(t, q.Class(3), -1)
	assert.Equal(t, q.ClassLabel(1), "virginica")
	assert.Equal(t, q.ClassLabel(3), "")
}

func Test_Except(t *testing.T) {
	q := iris()
	e := q.Except(0)
	assert.Equal(t, e.Schema.Len(), 2)
	assert.Equal(t, e.Schema.ClassIndex, 1)
	assert.Equal(t, e.Schema.Find("group"), -1)
	assert.Equal(t, e.Float(1, 0), 6.3)
	assert.Equal(t, e.Class(1), 1)
	// source table is untouched
	assert.Equal(t, q.Schema.Len(), 3)
	assert.Equal(t, q.Float(1, 0), 2.0)

	c := q.Except(2)
	assert.Equal(t, c.Schema.ClassIndex, -1)
}

func Test_CloneIsDeep(t *testing.T) {
	q := multivariate()
	c := q.Clone()
	assert.Assert(t, q.Equal(c))
	c.Rows[0][0].Rel.Rows[0][0] = tables.Num(100)
	assert.Equal(t, q.Rows[0][0].Rel.Float(0, 0), 1.0)
	assert.Assert(t, !q.Equal(c))
}

func Test_SubsetAndConcat(t *testing.T) {
	q := iris()
	a := q.Subset([]int{0, 2})
	b := q.Subset([]int{1, 3})
	assert.Equal(t, q.Subset([]int{}).Len(), 0)
	u, err := a.Concat(b)
	assert.NilError(t, err)
	assert.Equal(t, u.Len(), 4)
	assert.Assert(t, u.Rows[1].Equal(q.Rows[2]))

	_, err = a.Concat(multivariate())
	assert.ErrorContains(t, err, "different schemas")
}

func Test_Fingerprint(t *testing.T) {
	q := iris()
	assert.Equal(t, q.Rows[2].Fingerprint(), q.Clone().Rows[2].Fingerprint())
	assert.Assert(t, q.Rows[0].Fingerprint() != q.Rows[2].Fingerprint())
	m := multivariate()
	c := m.Clone()
	assert.Equal(t, m.Rows[0].Fingerprint(), c.Rows[0].Fingerprint())
	c.Rows[0][0].Rel.Rows[1][1] = tables.Num(0)
	assert.Assert(t, m.Rows[0].Fingerprint() != c.Rows[0].Fingerprint())
}

func Test_Validate(t *testing.T) {
	assert.NilError(t, iris().Validate())
	assert.NilError(t, multivariate().Validate())

	q := iris()
	q.Rows[0][2] = tables.Num(5)
	assert.ErrorContains(t, q.Validate(), "out of vocabulary")

	q = iris()
	q.Rows[1] = q.Rows[1][:2]
	assert.ErrorContains(t, q.Validate(), "2 values")

	q = iris()
	q.Rows[0][2] = tables.Num(-1)
	assert.NilError(t, q.Validate())
}

func Test_Series(t *testing.T) {
	q := iris()
	s := q.Series(2)
	assert.Equal(t, len(s), 1)
	assert.Equal(t, len(s[0]), 2)
	assert.Assert(t, math.IsNaN(s[0][1]))

	m := multivariate().Series(0)
	assert.Equal(t, len(m), 2)
	assert.Equal(t, m[1][0], 3.0)
}

func Test_Describe(t *testing.T) {
	s := tables.Describe(multivariate())
	assert.Equal(t, s.Cases, 1)
	assert.Equal(t, s.Dimensions, 2)
	assert.Equal(t, s.MinLength, 1)
	assert.Equal(t, s.MaxLength, 2)
	assert.Equal(t, s.MeanLength, 1.5)
	assert.Assert(t, !s.EqualLength)
	assert.Equal(t, s.Classes["b"], 1)
	assert.Equal(t, s.Classes["a"], 0)
	assert.Assert(t, s.String() != "")
}
