package tsformat

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"go-ml.dev/pkg/tsdata/fu"
	"go-ml.dev/pkg/tsdata/tables"
	"go-ml.dev/pkg/zorros"
)

type layout struct {
	univariate bool
	series     []int // numeric columns of univariate table
	relational int   // relational column of multivariate table
	class      *tables.Column
}

func layoutOf(s *tables.Schema) (l layout, err error) {
	l.relational = -1
	for j, c := range s.Columns {
		if j == s.ClassIndex {
			if c.Kind != tables.Nominal {
				return l, zorros.Errorf("class column `%v` of `%v` must be nominal", c.Name, s.Name)
			}
			cc := c
			l.class = &cc
			continue
		}
		switch c.Kind {
		case tables.Numeric:
			l.series = append(l.series, j)
		case tables.Relational:
			if l.relational >= 0 {
				return l, zorros.Errorf("table `%v` has more than one relational column", s.Name)
			}
			l.relational = j
		default:
			return l, zorros.Errorf("column `%v` of `%v` can't be written as a series value", c.Name, s.Name)
		}
	}
	if l.relational >= 0 && len(l.series) > 0 {
		return l, zorros.Errorf("table `%v` mixes relational and numeric columns", s.Name)
	}
	l.univariate = l.relational < 0
	return
}

/*
WriteFile writes the table to the file, packing it if the name has a compression suffix
*/
func WriteFile(path string, t *tables.Table) (err error) {
	f, err := fu.Create(path)
	if err != nil {
		return zorros.Trace(err)
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = zorros.Trace(e)
		}
	}()
	return Write(f, t)
}

/*
Write writes the table in TS format

The table must have an optional nominal class column and either only numeric
columns (univariate) or exactly one relational column (multivariate)
*/
func Write(w io.Writer, t *tables.Table) error {
	l, err := layoutOf(t.Schema)
	if err != nil {
		return err
	}
	name, err := quote(t.Schema.Name)
	if err != nil {
		return zorros.Errorf("problem name can't be written: %v", err.Error())
	}
	var labels []string
	if l.class != nil {
		labels = make([]string, len(l.class.Levels))
		for k, s := range l.class.Levels {
			if s == MissingMarker {
				return zorros.Errorf("class level `%v` of `%v` would read back as unlabeled", s, t.Schema.Name)
			}
			if labels[k], err = quote(s); err != nil {
				return zorros.Errorf("class level of `%v` can't be written: %v", t.Schema.Name, err.Error())
			}
		}
	}
	rows := make([][][]float64, t.Len())
	dims, width, missing, ragged := 0, 0, false, false
	for i := range t.Rows {
		rows[i] = l.rowChannels(t, i)
		dims = fu.Maxi(dims, len(rows[i]))
		missing = missing || len(rows[i]) == 0
		for _, ch := range rows[i] {
			width = fu.Maxi(width, len(ch))
			for _, v := range ch {
				missing = missing || math.IsNaN(v)
			}
			ragged = ragged || (len(ch) > 0 && math.IsNaN(ch[len(ch)-1]))
		}
	}
	if l.univariate {
		width = len(l.series)
	}

	bw := bufio.NewWriter(w)
	directive(bw, "@problemName", name)
	directive(bw, "@timeStamps", "false")
	directive(bw, "@missing", strconv.FormatBool(missing))
	directive(bw, "@univariate", strconv.FormatBool(l.univariate))
	if !l.univariate {
		directive(bw, "@dimensions", strconv.Itoa(dims))
	}
	directive(bw, "@equalLength", strconv.FormatBool(!ragged))
	if !ragged {
		directive(bw, "@seriesLength", strconv.Itoa(width))
	}
	if l.class != nil {
		directive(bw, "@classLabel", "true "+strings.Join(labels, " "))
	} else {
		directive(bw, "@classLabel", "false")
	}
	bw.WriteString("@data\n")

	for i, chs := range rows {
		if len(chs) == 0 {
			bw.WriteString(MissingMarker)
		}
		for k, ch := range chs {
			if k > 0 {
				bw.WriteString(channelSeparator)
			}
			for n, v := range ch {
				if n > 0 {
					bw.WriteByte(',')
				}
				bw.WriteString(format(v))
			}
		}
		if l.class != nil {
			bw.WriteString(channelSeparator)
			if c := t.Class(i); c >= 0 && c < len(labels) {
				bw.WriteString(labels[c])
			} else {
				bw.WriteString(MissingMarker)
			}
		}
		bw.WriteByte('\n')
	}
	if err = bw.Flush(); err != nil {
		return zorros.Trace(err)
	}
	return nil
}

func (l layout) rowChannels(t *tables.Table, i int) [][]float64 {
	r := t.Rows[i]
	if l.univariate {
		ch := make([]float64, len(l.series))
		for k, j := range l.series {
			ch[k] = r[j].Num
		}
		return [][]float64{ch}
	}
	n := r[l.relational].Rel
	if n == nil {
		return nil
	}
	chs := make([][]float64, n.Len())
	for k, nr := range n.Rows {
		ch := make([]float64, len(nr))
		for j, v := range nr {
			ch[j] = v.Num
		}
		chs[k] = ch
	}
	return chs
}

func directive(w *bufio.Writer, name, value string) {
	w.WriteString(name)
	w.WriteByte(' ')
	w.WriteString(value)
	w.WriteByte('\n')
}

func format(v float64) string {
	if math.IsNaN(v) {
		return MissingMarker
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

/*
quote wraps the string into quotes the tokenizer strips, a string having both
kinds of quotes or a line break can't be represented
*/
func quote(s string) (string, error) {
	if strings.ContainsAny(s, "\r\n") || (strings.ContainsRune(s, '"') && strings.ContainsRune(s, '\'')) {
		return "", zorros.Errorf("`%v` has a line break or both kinds of quotes", s)
	}
	if s == "" || strings.ContainsAny(s, " \t,:#'\"") || s == MissingMarker {
		if strings.ContainsRune(s, '"') {
			return "'" + s + "'", nil
		}
		return "\"" + s + "\"", nil
	}
	return s, nil
}
