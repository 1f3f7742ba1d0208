package tables

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"go-ml.dev/pkg/zorros"
)

/*
Value is a cell of a table

Scalar cells keep the number (or the vocabulary index of a nominal value) in Num,
relational cells keep the nested table in Rel. Missing scalar values are NaN,
a missing relational value has no nested table.
*/
type Value struct {
	Num float64
	Rel *Table
}

/*
Missing is the missing value marker
*/
var Missing = Value{Num: math.NaN()}

func Num(f float64) Value {
	return Value{Num: f}
}

func Rel(t *Table) Value {
	return Value{Rel: t}
}

func (v Value) IsMissing() bool {
	return v.Rel == nil && math.IsNaN(v.Num)
}

func (v Value) equal(o Value) bool {
	if v.Rel != nil || o.Rel != nil {
		return v.Rel != nil && o.Rel != nil && v.Rel.Equal(o.Rel)
	}
	return v.Num == o.Num || (math.IsNaN(v.Num) && math.IsNaN(o.Num))
}

/*
Row is one case of a table
*/
type Row []Value

/*
Clone returns a deep copy of the row, nested tables of relational columns are copied as a whole
*/
func (r Row) Clone(s *Schema) Row {
	c := make(Row, len(r))
	for j, v := range r {
		switch s.Columns[j].Kind {
		case Relational:
			if v.Rel != nil {
				c[j] = Rel(v.Rel.Clone())
			} else {
				c[j] = Missing
			}
		default:
			c[j] = Num(v.Num)
		}
	}
	return c
}

func (r Row) Equal(o Row) bool {
	if len(r) != len(o) {
		return false
	}
	for j, v := range r {
		if !v.equal(o[j]) {
			return false
		}
	}
	return true
}

/*
Fingerprint returns a hex digest identifying the row content
*/
func (r Row) Fingerprint() string {
	h := sha256.New()
	r.digest(h.Write)
	return hex.EncodeToString(h.Sum(nil))
}

func (r Row) digest(write func([]byte) (int, error)) {
	var b [9]byte
	for _, v := range r {
		if v.Rel != nil {
			b[0] = 'R'
			binary.LittleEndian.PutUint64(b[1:], uint64(len(v.Rel.Rows)))
			write(b[:])
			for _, nr := range v.Rel.Rows {
				nr.digest(write)
			}
			continue
		}
		b[0] = 'N'
		f := v.Num
		if math.IsNaN(f) {
			f = math.NaN()
		}
		binary.LittleEndian.PutUint64(b[1:], math.Float64bits(f))
		write(b[:])
	}
	b[0] = ';'
	write(b[:1])
}

/*
Table is an ordered sequence of rows sharing one schema
*/
type Table struct {
	Schema *Schema
	Rows   []Row
}

/*
New creates an empty table with the schema
*/
func New(s *Schema) *Table {
	return &Table{Schema: s}
}

func (t *Table) Len() int {
	return len(t.Rows)
}

/*
Append adds rows to the table without copying them
*/
func (t *Table) Append(rows ...Row) *Table {
	t.Rows = append(t.Rows, rows...)
	return t
}

/*
Float returns the scalar value of column j in row i
*/
func (t *Table) Float(i, j int) float64 {
	return t.Rows[i][j].Num
}

/*
Class returns the class index of row i or -1 if the row is unlabeled or the table has no class column
*/
func (t *Table) Class(i int) int {
	if t.Schema.ClassIndex < 0 {
		return -1
	}
	v := t.Rows[i][t.Schema.ClassIndex].Num
	if math.IsNaN(v) || v < 0 {
		return -1
	}
	return int(v)
}

/*
ClassLabel returns the class label of row i or empty string if the row is unlabeled
*/
func (t *Table) ClassLabel(i int) string {
	c, ok := t.Schema.Class()
	if !ok {
		return ""
	}
	return c.Level(t.Class(i))
}

/*
NumClasses returns the size of the class vocabulary
*/
func (t *Table) NumClasses() int {
	c, ok := t.Schema.Class()
	if !ok {
		return 0
	}
	return len(c.Levels)
}

/*
ClassCounts returns the number of rows per class index and the number of unlabeled rows
*/
func (t *Table) ClassCounts() (counts []int, unlabeled int) {
	counts = make([]int, t.NumClasses())
	for i := range t.Rows {
		if c := t.Class(i); c >= 0 && c < len(counts) {
			counts[c]++
		} else {
			unlabeled++
		}
	}
	return
}

/*
Clone returns a deep copy of the table
*/
func (t *Table) Clone() *Table {
	return t.Subset(nil)
}

/*
Subset returns a table with deep copies of the rows selected by indices,
nil indices select all rows
*/
func (t *Table) Subset(indices []int) *Table {
	if indices == nil {
		indices = make([]int, len(t.Rows))
		for i := range indices {
			indices[i] = i
		}
	}
	q := &Table{Schema: t.Schema, Rows: make([]Row, len(indices))}
	for k, i := range indices {
		q.Rows[k] = t.Rows[i].Clone(t.Schema)
	}
	return q
}

/*
Except returns a copy of the table without column j
*/
func (t *Table) Except(j int) *Table {
	s := t.Schema.Except(j)
	q := &Table{Schema: s, Rows: make([]Row, len(t.Rows))}
	for i, r := range t.Rows {
		c := r.Clone(t.Schema)
		q.Rows[i] = append(c[:j:j], c[j+1:]...)
	}
	return q
}

/*
Concat returns a new table having rows of both tables, schemas must be equal
*/
func (t *Table) Concat(o *Table) (*Table, error) {
	if !t.Schema.Equal(o.Schema) {
		return nil, zorros.Errorf("can't concat tables `%v` and `%v` with different schemas", t.Schema.Name, o.Schema.Name)
	}
	q := &Table{Schema: t.Schema, Rows: make([]Row, 0, len(t.Rows)+len(o.Rows))}
	for _, r := range t.Rows {
		q.Rows = append(q.Rows, r.Clone(t.Schema))
	}
	for _, r := range o.Rows {
		q.Rows = append(q.Rows, r.Clone(o.Schema))
	}
	return q, nil
}

/*
Equal compares schemas and rows in order
*/
func (t *Table) Equal(o *Table) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || !t.Schema.Equal(o.Schema) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i, r := range t.Rows {
		if !r.Equal(o.Rows[i]) {
			return false
		}
	}
	return true
}

/*
Validate checks every row against the schema
*/
func (t *Table) Validate() error {
	s := t.Schema
	for i, r := range t.Rows {
		if len(r) != len(s.Columns) {
			return zorros.Errorf("row %d has %d values but schema `%v` has %d columns", i, len(r), s.Name, len(s.Columns))
		}
		for j, v := range r {
			c := s.Columns[j]
			switch c.Kind {
			case Relational:
				if v.Rel == nil {
					continue
				}
				if !v.Rel.Schema.Equal(c.Nested) {
					return zorros.Errorf("row %d: nested table of column `%v` has foreign schema", i, c.Name)
				}
				if err := v.Rel.Validate(); err != nil {
					return zorros.Wrapf(err, "row %d column `%v`: %v", i, c.Name, err.Error())
				}
			case Nominal:
				if v.IsMissing() || (j == s.ClassIndex && v.Num == -1) {
					continue
				}
				if k := int(v.Num); float64(k) != v.Num || k < 0 || k >= len(c.Levels) {
					return zorros.Errorf("row %d: value %v is out of vocabulary of column `%v`", i, v.Num, c.Name)
				}
			}
		}
	}
	return nil
}

/*
Series returns the numeric channels of row i

Univariate rows have one channel made of all numeric columns,
multivariate rows have one channel per row of their nested table
*/
func (t *Table) Series(i int) [][]float64 {
	s := t.Schema
	r := t.Rows[i]
	var uni []float64
	var channels [][]float64
	for j, c := range s.Columns {
		if j == s.ClassIndex {
			continue
		}
		switch c.Kind {
		case Relational:
			if r[j].Rel == nil {
				continue
			}
			for k := range r[j].Rel.Rows {
				channels = append(channels, r[j].Rel.Series(k)...)
			}
		case Numeric:
			uni = append(uni, r[j].Num)
		}
	}
	if uni != nil {
		channels = append([][]float64{uni}, channels...)
	}
	return channels
}
