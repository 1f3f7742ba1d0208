package tsformat

import (
	"fmt"
)

/*
MalformedHeaderError is returned when the header misses a mandatory directive
or violates the directive syntax
*/
type MalformedHeaderError struct {
	Reason string
	Token  string // the last successfully read token
	Line   int
	Column int
	Err    error
}

func (e *MalformedHeaderError) Error() string {
	s := fmt.Sprintf("malformed TS header: %v", e.Reason)
	if e.Line > 0 {
		s += fmt.Sprintf(" (line %d, column %d", e.Line, e.Column)
		if e.Token != "" {
			s += fmt.Sprintf(", after `%v`", e.Token)
		}
		s += ")"
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *MalformedHeaderError) Unwrap() error {
	return e.Err
}

/*
MalformedDataRowError is returned when a data row has a token which is neither a number nor a missing marker
*/
type MalformedDataRowError struct {
	Line   int
	Token  string
	Reason string
	Err    error
}

func (e *MalformedDataRowError) Error() string {
	s := fmt.Sprintf("malformed TS data row at line %d", e.Line)
	if e.Token != "" {
		s += fmt.Sprintf(", token `%v`", e.Token)
	}
	if e.Reason != "" {
		s += ": " + e.Reason
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *MalformedDataRowError) Unwrap() error {
	return e.Err
}

/*
UnknownLabelError is returned by the strict label policy when a class label is not in the vocabulary
*/
type UnknownLabelError struct {
	Line   int
	Label  string
	Labels []string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown class label `%v` at line %d, expected one of %v", e.Label, e.Line, e.Labels)
}
