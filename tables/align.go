package tables

import (
	"go-ml.dev/pkg/zorros"
)

/*
Align pads two tables of series to one width

Tables read from ragged files get as many attributes as their longest series,
so train and test of the same problem may differ in width. Align returns tables
sharing the wider schema, shorter series padded with missing values. Tables with
equal schemas are returned as is, other schema differences are an error.
*/
func Align(a, b *Table) (*Table, *Table, error) {
	if a.Schema.Equal(b.Schema) {
		return a, b, nil
	}
	wa, ok1 := seriesWidth(a.Schema)
	wb, ok2 := seriesWidth(b.Schema)
	if !ok1 || !ok2 {
		return nil, nil, zorros.Errorf("tables `%v` and `%v` have different schemas", a.Schema.Name, b.Schema.Name)
	}
	if wa < wb {
		y, x, err := widen(b, a)
		return x, y, err
	}
	return widen(a, b)
}

/*
seriesWidth returns the count of numeric series attributes of a univariate schema
(numeric columns and a trailing class) or of the nested schema of a multivariate one
(one relational column and a trailing class)
*/
func seriesWidth(s *Schema) (int, bool) {
	n := len(s.Columns)
	if s.ClassIndex >= 0 {
		if s.ClassIndex != n-1 {
			return 0, false
		}
		n--
	}
	if n == 1 && s.Columns[0].Kind == Relational {
		return seriesWidth(s.Columns[0].Nested)
	}
	for _, c := range s.Columns[:n] {
		if c.Kind != Numeric {
			return 0, false
		}
	}
	return n, true
}

/*
widen rewrites narrow table b with the schema of wide table a
*/
func widen(a, b *Table) (*Table, *Table, error) {
	sa, sb := a.Schema, b.Schema
	ca, oka := sa.Class()
	cb, okb := sb.Class()
	if oka != okb || (oka && !ca.equal(cb)) {
		return nil, nil, zorros.Errorf("tables `%v` and `%v` have different class columns", sa.Name, sb.Name)
	}
	if sa.Relational() != sb.Relational() {
		return nil, nil, zorros.Errorf("tables `%v` and `%v` mix univariate and multivariate series", sa.Name, sb.Name)
	}
	q := &Table{Schema: sa, Rows: make([]Row, len(b.Rows))}
	for i, r := range b.Rows {
		if sa.Relational() {
			w := Row{Missing}
			if n := r[0].Rel; n != nil {
				nested := &Table{Schema: sa.Columns[0].Nested, Rows: make([]Row, len(n.Rows))}
				for k, nr := range n.Rows {
					nested.Rows[k] = pad(nr, len(nested.Schema.Columns))
				}
				w[0] = Rel(nested)
			}
			if oka {
				w = append(w, Num(r[sb.ClassIndex].Num))
			}
			q.Rows[i] = w
			continue
		}
		width := len(sa.Columns)
		if oka {
			width--
		}
		w := pad(seriesOf(r, sb), width)
		if oka {
			w = append(w, Num(r[sb.ClassIndex].Num))
		}
		q.Rows[i] = w
	}
	return a, q, nil
}

func seriesOf(r Row, s *Schema) Row {
	if s.ClassIndex >= 0 {
		return r[:s.ClassIndex]
	}
	return r
}

func pad(r Row, width int) Row {
	w := make(Row, width, width+1)
	for i := range w {
		if i < len(r) {
			w[i] = Num(r[i].Num)
		} else {
			w[i] = Missing
		}
	}
	return w
}
