package arff

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

/*
WriteFile saves the table to the file, packing it if the name has a compression suffix
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
Write saves the table in ARFF format, the class column must be the last one
*/
func Write(w io.Writer, t *tables.Table) error {
	s := t.Schema
	if s.ClassIndex >= 0 && s.ClassIndex != len(s.Columns)-1 {
		return zorros.Errorf("class column of `%v` must be the last one", s.Name)
	}
	bw := bufio.NewWriter(w)
	bw.WriteString("@relation " + quote(s.Name) + "\n\n")
	for _, c := range s.Columns {
		header(bw, c, "")
	}
	bw.WriteString("\n@data\n")
	for _, r := range t.Rows {
		bw.WriteString(line(s, r))
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return zorros.Trace(err)
	}
	return nil
}

func header(w *bufio.Writer, c tables.Column, indent string) {
	w.WriteString(indent + "@attribute " + quote(c.Name) + " ")
	switch c.Kind {
	case tables.Numeric:
		w.WriteString("numeric\n")
	case tables.Nominal:
		ls := make([]string, len(c.Levels))
		for i, l := range c.Levels {
			ls[i] = quote(l)
		}
		w.WriteString("{" + strings.Join(ls, ",") + "}\n")
	case tables.Relational:
		w.WriteString("relational\n")
		for _, n := range c.Nested.Columns {
			header(w, n, indent+"\t")
		}
		w.WriteString(indent + "@end " + quote(c.Name) + "\n")
	}
}

func line(s *tables.Schema, r tables.Row) string {
	vs := make([]string, len(r))
	for j, v := range r {
		c := s.Columns[j]
		switch {
		case c.Kind == tables.Relational:
			if v.Rel == nil {
				vs[j] = missingMarker
				continue
			}
			ls := make([]string, len(v.Rel.Rows))
			for k, nr := range v.Rel.Rows {
				ls[k] = line(c.Nested, nr)
			}
			vs[j] = escape(strings.Join(ls, "\n"))
		case math.IsNaN(v.Num):
			vs[j] = missingMarker
		case c.Kind == tables.Nominal:
			if k := int(v.Num); k >= 0 && k < len(c.Levels) {
				vs[j] = quote(c.Levels[k])
			} else {
				vs[j] = missingMarker
			}
		default:
			vs[j] = strconv.FormatFloat(v.Num, 'g', -1, 64)
		}
	}
	return strings.Join(vs, ",")
}

func quote(s string) string {
	if s == "" || s == missingMarker || strings.ContainsAny(s, " \t,{}%'\"\\\n") {
		return escape(s)
	}
	return s
}

func escape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "'", "\\'", "\n", "\\n", "\t", "\\t", "\r", "\\r")
	return "'" + r.Replace(s) + "'"
}
