/*
Package tsformat reads and writes labeled time series in the line-oriented TS text format

	@problemName Demo
	@univariate true
	@classLabel true pos neg
	@data
	1,2,3:pos
	4,?,6,7:neg

Series may have different lengths, the resulting table has as many attributes
as the longest series and shorter series are padded with missing values.
Multivariate problems produce one relational column holding a nested table
with one row per channel.
*/
package tsformat

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"go-ml.dev/pkg/tsdata/fu"
	"go-ml.dev/pkg/tsdata/tables"
	"go-ml.dev/pkg/zorros"
	"go-ml.dev/pkg/zorros/zlog"
)

/*
LabelPolicy selects what happens when a class label is not in the header vocabulary
*/
type LabelPolicy int

const (
	// LabelSentinel maps unknown labels to class index -1
	LabelSentinel LabelPolicy = iota
	// LabelStrict fails with UnknownLabelError
	LabelStrict
)

const (
	ClassColumn      = "class"
	SeriesColumn     = "series"
	AttributePrefix  = "att"
	MissingMarker    = "?"
	channelSeparator = ":"
)

/*
Reader is a configurable TS parser, the zero value is ready to use
*/
type Reader struct {
	Labels LabelPolicy
}

/*
rawInstance is one parsed data line before the table is materialized
*/
type rawInstance struct {
	channels [][]float64
	class    float64
	line     int
}

/*
Read parses TS stream with default options
*/
func Read(r io.Reader) (*tables.Table, error) {
	return Reader{}.Read(r)
}

/*
ReadFile parses TS file with default options
*/
func ReadFile(path string) (*tables.Table, error) {
	return Reader{}.ReadFile(path)
}

/*
LuckyRead parses TS stream and panics on error
*/
func LuckyRead(r io.Reader) *tables.Table {
	t, err := Read(r)
	if err != nil {
		panic(zorros.Panic(err))
	}
	return t
}

/*
ReadFile opens (and unpacks if required) the file and parses it
*/
func (rd Reader) ReadFile(path string) (*tables.Table, error) {
	f, err := fu.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rd.Read(f)
}

/*
Read parses the header and all data rows of the stream
*/
func (rd Reader) Read(r io.Reader) (*tables.Table, error) {
	_, t, err := rd.parse(r)
	return t, err
}

/*
ReadHeader parses the header only
*/
func ReadHeader(r io.Reader) (*Header, error) {
	return readHeader(newTokenizer(r))
}

func (rd Reader) parse(r io.Reader) (*Header, *tables.Table, error) {
	z := newTokenizer(r)
	h, err := readHeader(z)
	if err != nil {
		return nil, nil, err
	}
	var raws []rawInstance
	maxLen, maxDims, missing := 0, 0, false
	for {
		ts, end, err := z.rest()
		if err != nil {
			return nil, nil, &MalformedDataRowError{Line: z.line, Reason: "failed to read data", Err: err}
		}
		if len(ts) > 0 {
			raw, err := rd.instance(h, ts)
			if err != nil {
				return nil, nil, err
			}
			for _, ch := range raw.channels {
				maxLen = fu.Maxi(maxLen, len(ch))
				for _, v := range ch {
					missing = missing || math.IsNaN(v)
				}
			}
			maxDims = fu.Maxi(maxDims, len(raw.channels))
			missing = missing || raw.channels == nil
			raws = append(raws, raw)
		}
		if end.kind == tokEOF {
			break
		}
	}
	warnings(h, maxLen, maxDims, missing)
	if h.Univariate {
		return h, univariate(h, raws, maxLen), nil
	}
	return h, multivariate(h, raws, maxLen), nil
}

func warnings(h *Header, maxLen, maxDims int, missing bool) {
	if h.EqualLength && h.SeriesLength > 0 && h.SeriesLength != maxLen {
		zlog.Warning(fmt.Sprintf("%v: declared series length %d but the longest series has %d values", h.ProblemName, h.SeriesLength, maxLen))
	}
	if !h.Univariate && h.Dimensions > 0 && maxDims > 0 && h.Dimensions != maxDims {
		zlog.Warning(fmt.Sprintf("%v: declared %d dimensions but cases have up to %d channels", h.ProblemName, h.Dimensions, maxDims))
	}
	if h.Declared(dirMissing) && !h.Missing && missing {
		zlog.Warning(fmt.Sprintf("%v: missing values found but @missing is false", h.ProblemName))
	}
}

/*
instance splits line tokens into channels and the trailing class label
*/
func (rd Reader) instance(h *Header, ts []token) (raw rawInstance, err error) {
	line := ts[0].line
	raw.line = line
	raw.class = math.NaN()
	if h.ClassLabel {
		last := ts[len(ts)-1]
		if last.kind != tokWord {
			return raw, &MalformedDataRowError{Line: line, Token: last.String(), Reason: "class label is expected at the end of line"}
		}
		if raw.class, err = rd.label(h, last); err != nil {
			return
		}
		ts = ts[:len(ts)-1]
		if len(ts) > 0 && ts[len(ts)-1].kind == tokColon {
			ts = ts[:len(ts)-1]
		}
	}
	if !h.Univariate && len(ts) == 1 && ts[0].kind == tokWord && ts[0].text == MissingMarker {
		// a lone marker is a case without series
		return raw, nil
	}
	ch := []float64{}
	for _, t := range ts {
		if t.kind == tokColon {
			if h.Univariate {
				return raw, &MalformedDataRowError{Line: line, Token: t.String(), Reason: "channel separator in univariate data"}
			}
			raw.channels = append(raw.channels, ch)
			ch = []float64{}
			continue
		}
		v, err := number(t)
		if err != nil {
			return raw, err
		}
		ch = append(ch, v)
	}
	raw.channels = append(raw.channels, ch)
	return raw, nil
}

func number(t token) (float64, error) {
	if t.text == MissingMarker {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		return 0, &MalformedDataRowError{Line: t.line, Token: t.text, Reason: "not a number", Err: err}
	}
	return v, nil
}

/*
label resolves the class token to its vocabulary index.
The missing marker means unlabeled case, numeric tokens also match numerically equal labels
*/
func (rd Reader) label(h *Header, t token) (float64, error) {
	if t.text == MissingMarker {
		return math.NaN(), nil
	}
	for i, l := range h.Labels {
		if l == t.text {
			return float64(i), nil
		}
	}
	if v, err := strconv.ParseFloat(t.text, 64); err == nil {
		for i, l := range h.Labels {
			if q, e := strconv.ParseFloat(l, 64); e == nil && q == v {
				return float64(i), nil
			}
		}
	}
	if rd.Labels == LabelStrict {
		return 0, &UnknownLabelError{Line: t.line, Label: t.text, Labels: h.Labels}
	}
	return -1, nil
}

func attributes(n int) []tables.Column {
	cols := make([]tables.Column, n)
	for i := range cols {
		cols[i] = tables.NumericColumn(AttributePrefix + strconv.Itoa(i))
	}
	return cols
}

func classColumn(h *Header, cols []tables.Column) ([]tables.Column, int) {
	if !h.ClassLabel {
		return cols, -1
	}
	return append(cols, tables.NominalColumn(ClassColumn, h.Labels...)), len(cols)
}

func fill(ch []float64, n int) tables.Row {
	r := make(tables.Row, n)
	for i := range r {
		if i < len(ch) {
			r[i] = tables.Num(ch[i])
		} else {
			r[i] = tables.Missing
		}
	}
	return r
}

func univariate(h *Header, raws []rawInstance, width int) *tables.Table {
	cols, ci := classColumn(h, attributes(width))
	t := tables.New(tables.NewSchema(h.ProblemName, cols, ci))
	t.Rows = make([]tables.Row, len(raws))
	for i, raw := range raws {
		r := fill(raw.channels[0], len(cols))
		if ci >= 0 {
			r[ci] = tables.Num(raw.class)
		}
		t.Rows[i] = r
	}
	return t
}

/*
multivariate builds one nested table per case, all nested tables share
one schema as wide as the longest channel of the whole dataset.
A case written as a lone missing marker has no nested table
*/
func multivariate(h *Header, raws []rawInstance, width int) *tables.Table {
	nested := tables.NewSchema(SeriesColumn, attributes(width), -1)
	cols, ci := classColumn(h, []tables.Column{tables.RelationalColumn(SeriesColumn, nested)})
	t := tables.New(tables.NewSchema(h.ProblemName, cols, ci))
	t.Rows = make([]tables.Row, len(raws))
	for i, raw := range raws {
		r := make(tables.Row, len(cols))
		if ci >= 0 {
			r[ci] = tables.Num(raw.class)
		}
		t.Rows[i] = r
		if raw.channels == nil {
			r[0] = tables.Missing
			continue
		}
		n := tables.New(nested)
		n.Rows = make([]tables.Row, len(raw.channels))
		for k, ch := range raw.channels {
			n.Rows[k] = fill(ch, width)
		}
		r[0] = tables.Rel(n)
	}
	return t
}
