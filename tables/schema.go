/*
Package tables implements an in-memory tabular dataset of cases

A Table is an ordered list of rows sharing one Schema. Every column is either
Numeric, Nominal (an index into a fixed vocabulary) or Relational (a nested
table per case, used for one case of a multivariate time series). One column
may be designated as the class column.
*/
package tables

import (
	"fmt"
	"strings"
)

/*
Kind is a column variant
*/
type Kind int

const (
	Numeric Kind = iota
	Nominal
	Relational
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Nominal:
		return "nominal"
	case Relational:
		return "relational"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

/*
Column describes one attribute of a table
*/
type Column struct {
	Name   string
	Kind   Kind
	Levels []string // vocabulary of a Nominal column
	Nested *Schema  // schema of the nested table of a Relational column
}

/*
NumericColumn creates a numeric column
*/
func NumericColumn(name string) Column {
	return Column{Name: name, Kind: Numeric}
}

/*
NominalColumn creates a nominal column with the given vocabulary
*/
func NominalColumn(name string, levels ...string) Column {
	return Column{Name: name, Kind: Nominal, Levels: append([]string(nil), levels...)}
}

/*
RelationalColumn creates a relational column holding one nested table per case
*/
func RelationalColumn(name string, nested *Schema) Column {
	return Column{Name: name, Kind: Relational, Nested: nested}
}

/*
Level returns the vocabulary entry with index i or empty string if there is no such one
*/
func (c Column) Level(i int) string {
	if i < 0 || i >= len(c.Levels) {
		return ""
	}
	return c.Levels[i]
}

/*
Index returns the index of the vocabulary entry or -1
*/
func (c Column) Index(level string) int {
	for i, l := range c.Levels {
		if l == level {
			return i
		}
	}
	return -1
}

func (c Column) equal(o Column) bool {
	if c.Name != o.Name || c.Kind != o.Kind || len(c.Levels) != len(o.Levels) {
		return false
	}
	for i, l := range c.Levels {
		if o.Levels[i] != l {
			return false
		}
	}
	if c.Kind == Relational {
		return c.Nested.Equal(o.Nested)
	}
	return true
}

/*
Schema is the ordered set of columns of a table and the index of its class column
*/
type Schema struct {
	Name       string
	Columns    []Column
	ClassIndex int // -1 if the table has no class column
}

/*
NewSchema creates a schema, classIndex is -1 when there is no class column
*/
func NewSchema(name string, columns []Column, classIndex int) *Schema {
	return &Schema{Name: name, Columns: columns, ClassIndex: classIndex}
}

func (s *Schema) Len() int {
	return len(s.Columns)
}

/*
Class returns the class column if the schema has one
*/
func (s *Schema) Class() (Column, bool) {
	if s.ClassIndex < 0 || s.ClassIndex >= len(s.Columns) {
		return Column{}, false
	}
	return s.Columns[s.ClassIndex], true
}

/*
Relational reports whether any column of the schema is relational
*/
func (s *Schema) Relational() bool {
	for _, c := range s.Columns {
		if c.Kind == Relational {
			return true
		}
	}
	return false
}

/*
Find returns the index of the column with the name or -1
*/
func (s *Schema) Find(name string) int {
	for i, c := range s.Columns {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

/*
Except returns a copy of the schema without column j, the class index is shifted accordingly
*/
func (s *Schema) Except(j int) *Schema {
	cols := make([]Column, 0, len(s.Columns))
	cols = append(cols, s.Columns[:j]...)
	cols = append(cols, s.Columns[j+1:]...)
	ci := s.ClassIndex
	if ci == j {
		ci = -1
	} else if ci > j {
		ci--
	}
	return &Schema{Name: s.Name, Columns: cols, ClassIndex: ci}
}

func (s *Schema) Equal(o *Schema) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil || s.ClassIndex != o.ClassIndex || len(s.Columns) != len(o.Columns) {
		return false
	}
	for i, c := range s.Columns {
		if !c.equal(o.Columns[i]) {
			return false
		}
	}
	return true
}
