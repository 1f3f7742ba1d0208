package tsformat

import (
	"strconv"
	"strings"
)

const (
	dirProblemName  = "@problemname"
	dirTimeStamps   = "@timestamps"
	dirClassLabel   = "@classlabel"
	dirUnivariate   = "@univariate"
	dirMissing      = "@missing"
	dirDimensions   = "@dimensions"
	dirEqualLength  = "@equallength"
	dirSeriesLength = "@serieslength"
	dirData         = "@data"
)

/*
Header is the set of directives preceding the @data section
*/
type Header struct {
	ProblemName  string
	TimeStamps   bool
	ClassLabel   bool
	Labels       []string // class vocabulary, in declaration order
	Univariate   bool
	Missing      bool
	Dimensions   int
	EqualLength  bool
	SeriesLength int

	declared map[string]bool
}

/*
Declared reports whether the directive (case-insensitive, with or without '@') was present
*/
func (h *Header) Declared(directive string) bool {
	d := strings.ToLower(directive)
	if !strings.HasPrefix(d, "@") {
		d = "@" + d
	}
	return h.declared[d]
}

func headerError(z *tokenizer, t token, reason string, err error) *MalformedHeaderError {
	return &MalformedHeaderError{Reason: reason, Token: z.last.text, Line: t.line, Column: t.col, Err: err}
}

/*
readHeader consumes directives up to and including @data line.
Mandatory directives are checked only when the whole header is consumed
*/
func readHeader(z *tokenizer) (*Header, error) {
	h := &Header{declared: map[string]bool{}}
	for {
		t, err := z.next()
		if err != nil {
			return nil, &MalformedHeaderError{Reason: "failed to read header", Token: z.last.text, Line: z.line, Column: z.col, Err: err}
		}
		switch t.kind {
		case tokEOF:
			return nil, headerError(z, t, "@data directive is not found", nil)
		case tokEOL:
			continue
		case tokColon:
			return nil, headerError(z, t, "unexpected ':' in header", nil)
		}
		d := strings.ToLower(t.text)
		if h.declared[d] {
			return nil, headerError(z, t, "directive "+t.text+" is declared twice", nil)
		}
		h.declared[d] = true
		switch d {
		case dirData:
			if err = expectEOL(z, t); err != nil {
				return nil, err
			}
			return h, h.validate(z, t)
		case dirClassLabel:
			if h.ClassLabel, err = boolValue(z, t); err != nil {
				return nil, err
			}
			ts, end, err := z.rest()
			if err != nil {
				return nil, headerError(z, end, "failed to read class labels", err)
			}
			if !h.ClassLabel && len(ts) > 0 {
				return nil, headerError(z, ts[0], "class labels are declared with @classLabel false", nil)
			}
			for _, l := range ts {
				if l.kind != tokWord {
					return nil, headerError(z, l, "unexpected ':' in class labels", nil)
				}
				h.Labels = append(h.Labels, l.text)
			}
			continue
		case dirProblemName:
			v, err := value(z, t)
			if err != nil {
				return nil, err
			}
			h.ProblemName = v.text
		case dirTimeStamps:
			h.TimeStamps, err = boolValue(z, t)
		case dirUnivariate:
			h.Univariate, err = boolValue(z, t)
		case dirMissing:
			h.Missing, err = boolValue(z, t)
		case dirEqualLength:
			h.EqualLength, err = boolValue(z, t)
		case dirDimensions:
			h.Dimensions, err = intValue(z, t)
		case dirSeriesLength:
			h.SeriesLength, err = intValue(z, t)
		default:
			return nil, headerError(z, t, "unknown directive `"+t.text+"`", nil)
		}
		if err != nil {
			return nil, err
		}
		if err = expectEOL(z, t); err != nil {
			return nil, err
		}
	}
}

func (h *Header) validate(z *tokenizer, t token) error {
	if !h.declared[dirProblemName] {
		return headerError(z, t, "@problemName directive is required", nil)
	}
	if !h.declared[dirUnivariate] {
		return headerError(z, t, "@univariate directive is required", nil)
	}
	if h.TimeStamps {
		return headerError(z, t, "timestamped series are not supported", nil)
	}
	if h.ClassLabel && len(h.Labels) == 0 {
		return headerError(z, t, "@classLabel true requires at least one label", nil)
	}
	return nil
}

func value(z *tokenizer, d token) (token, error) {
	t, err := z.next()
	if err != nil {
		return t, headerError(z, d, "failed to read value of "+d.text, err)
	}
	if t.kind != tokWord {
		return t, headerError(z, t, "directive "+d.text+" requires a value", nil)
	}
	return t, nil
}

func boolValue(z *tokenizer, d token) (bool, error) {
	t, err := value(z, d)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(t.text) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, headerError(z, t, "directive "+d.text+" requires true or false", nil)
}

func intValue(z *tokenizer, d token) (int, error) {
	t, err := value(z, d)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(t.text)
	if err != nil || n < 0 {
		return 0, headerError(z, t, "directive "+d.text+" requires a non-negative integer", err)
	}
	return n, nil
}

func expectEOL(z *tokenizer, d token) error {
	t, err := z.next()
	if err != nil {
		return headerError(z, d, "failed to read header", err)
	}
	if t.kind != tokEOL && t.kind != tokEOF {
		return headerError(z, t, "unexpected `"+t.String()+"` after "+d.text, nil)
	}
	return nil
}
