/*
Package arff loads and saves tables in ARFF format

Numeric (numeric, real, integer), nominal and relational attributes are supported.
The last attribute becomes the class column when it is nominal.
*/
package arff

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go-ml.dev/pkg/tsdata/fu"
	"go-ml.dev/pkg/tsdata/tables"
	"go-ml.dev/pkg/zorros"
)

const missingMarker = "?"

/*
ParseError describes a malformed line of an ARFF stream
*/
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed ARFF at line %d: %v", e.Line, e.Reason)
}

type lines struct {
	sc *bufio.Scanner
	no int
}

/*
next returns the next non-empty line with comments stripped
*/
func (l *lines) next() (string, bool) {
	for l.sc.Scan() {
		l.no++
		s := strings.TrimSpace(l.sc.Text())
		if s == "" || strings.HasPrefix(s, "%") {
			continue
		}
		return s, true
	}
	return "", false
}

func (l *lines) fail(format string, a ...interface{}) error {
	return &ParseError{Line: l.no, Reason: fmt.Sprintf(format, a...)}
}

/*
ReadFile opens (and unpacks if required) the file and reads it
*/
func ReadFile(path string) (*tables.Table, error) {
	f, err := fu.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

/*
LuckyRead reads ARFF stream and panics on error
*/
func LuckyRead(r io.Reader) *tables.Table {
	t, err := Read(r)
	if err != nil {
		panic(zorros.Panic(err))
	}
	return t
}

/*
Read reads ARFF stream
*/
func Read(r io.Reader) (*tables.Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	l := &lines{sc: sc}
	name := ""
	var cols []tables.Column
	for {
		s, ok := l.next()
		if !ok {
			if err := sc.Err(); err != nil {
				return nil, zorros.Trace(err)
			}
			return nil, l.fail("@data section is not found")
		}
		kw, rest := keyword(s)
		switch kw {
		case "@relation":
			n, _, err := word(rest)
			if err != nil {
				return nil, l.fail("%v", err.Error())
			}
			name = n
		case "@attribute":
			c, err := attribute(l, rest)
			if err != nil {
				return nil, err
			}
			cols = append(cols, c)
		case "@data":
			ci := -1
			if len(cols) > 0 && cols[len(cols)-1].Kind == tables.Nominal {
				ci = len(cols) - 1
			}
			t := tables.New(tables.NewSchema(name, cols, ci))
			if err := data(l, t); err != nil {
				return nil, err
			}
			return t, nil
		default:
			return nil, l.fail("unexpected `%v` in header", s)
		}
	}
}

func keyword(s string) (string, string) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return strings.ToLower(s), ""
	}
	return strings.ToLower(s[:i]), strings.TrimSpace(s[i+1:])
}

/*
word cuts the first (possibly quoted) word off the string
*/
func word(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", zorros.Errorf("name is expected")
	}
	if q := s[0]; q == '\'' || q == '"' {
		i := strings.IndexByte(s[1:], q)
		if i < 0 {
			return "", "", zorros.Errorf("unterminated quote in `%v`", s)
		}
		return s[1 : i+1], strings.TrimSpace(s[i+2:]), nil
	}
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, "", nil
	}
	return s[:i], strings.TrimSpace(s[i+1:]), nil
}

func attribute(l *lines, s string) (tables.Column, error) {
	name, tp, err := word(s)
	if err != nil {
		return tables.Column{}, l.fail("%v", err.Error())
	}
	switch strings.ToLower(tp) {
	case "numeric", "real", "integer":
		return tables.NumericColumn(name), nil
	case "relational":
		return relational(l, name)
	}
	if strings.HasPrefix(tp, "{") && strings.HasSuffix(tp, "}") {
		fs, err := fields(tp[1 : len(tp)-1])
		if err != nil {
			return tables.Column{}, l.fail("bad vocabulary of `%v`: %v", name, err.Error())
		}
		return tables.NominalColumn(name, fs...), nil
	}
	return tables.Column{}, l.fail("attribute `%v` has unsupported type `%v`", name, tp)
}

func relational(l *lines, name string) (tables.Column, error) {
	var cols []tables.Column
	for {
		s, ok := l.next()
		if !ok {
			return tables.Column{}, l.fail("@end %v is not found", name)
		}
		kw, rest := keyword(s)
		switch kw {
		case "@end":
			return tables.RelationalColumn(name, tables.NewSchema(name, cols, -1)), nil
		case "@attribute":
			c, err := attribute(l, rest)
			if err != nil {
				return tables.Column{}, err
			}
			cols = append(cols, c)
		default:
			return tables.Column{}, l.fail("unexpected `%v` in relational attribute `%v`", s, name)
		}
	}
}

func data(l *lines, t *tables.Table) error {
	s := t.Schema
	for {
		line, ok := l.next()
		if !ok {
			if err := l.sc.Err(); err != nil {
				return zorros.Trace(err)
			}
			return nil
		}
		if strings.HasPrefix(line, "{") {
			return l.fail("sparse instances are not supported")
		}
		fs, err := fields(line)
		if err != nil {
			return l.fail("%v", err.Error())
		}
		r, err := row(s, fs)
		if err != nil {
			return l.fail("%v", err.Error())
		}
		t.Append(r)
	}
}

func row(s *tables.Schema, fs []string) (tables.Row, error) {
	if len(fs) != len(s.Columns) {
		return nil, zorros.Errorf("%d values but %d attributes", len(fs), len(s.Columns))
	}
	r := make(tables.Row, len(fs))
	for j, f := range fs {
		v, err := value(s.Columns[j], f)
		if err != nil {
			return nil, err
		}
		r[j] = v
	}
	return r, nil
}

func value(c tables.Column, f string) (tables.Value, error) {
	if f == missingMarker {
		return tables.Missing, nil
	}
	switch c.Kind {
	case tables.Numeric:
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return tables.Missing, zorros.Errorf("`%v` is not a number in attribute `%v`", f, c.Name)
		}
		return tables.Num(v), nil
	case tables.Nominal:
		i := c.Index(f)
		if i < 0 {
			return tables.Missing, zorros.Errorf("`%v` is not in vocabulary of attribute `%v`", f, c.Name)
		}
		return tables.Num(float64(i)), nil
	}
	n := tables.New(c.Nested)
	for _, ln := range strings.Split(f, "\n") {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		fs, err := fields(ln)
		if err != nil {
			return tables.Missing, err
		}
		r, err := row(c.Nested, fs)
		if err != nil {
			return tables.Missing, zorros.Errorf("relational attribute `%v`: %v", c.Name, err.Error())
		}
		n.Append(r)
	}
	return tables.Rel(n), nil
}

/*
fields splits comma separated values, quoted values may contain escapes
*/
func fields(s string) ([]string, error) {
	var fs []string
	i := 0
	for {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) {
			if len(fs) > 0 {
				return nil, zorros.Errorf("value is expected after trailing comma")
			}
			return fs, nil
		}
		var f string
		if q := s[i]; q == '\'' || q == '"' {
			b := strings.Builder{}
			i++
			closed := false
			for i < len(s) {
				c := s[i]
				i++
				if c == q {
					closed = true
					break
				}
				if c == '\\' && i < len(s) {
					c = s[i]
					i++
					switch c {
					case 'n':
						c = '\n'
					case 't':
						c = '\t'
					case 'r':
						c = '\r'
					}
				}
				b.WriteByte(c)
			}
			if !closed {
				return nil, zorros.Errorf("unterminated quote")
			}
			f = b.String()
			for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
				i++
			}
		} else {
			j := strings.IndexByte(s[i:], ',')
			if j < 0 {
				j = len(s) - i
			}
			f = strings.TrimSpace(s[i : i+j])
			i += j
		}
		fs = append(fs, f)
		if i >= len(s) {
			return fs, nil
		}
		if s[i] != ',' {
			return nil, zorros.Errorf("comma is expected at `%v`", s[i:])
		}
		i++
	}
}
