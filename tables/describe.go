package tables

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

/*
Summary is a short description of a dataset of series
*/
type Summary struct {
	Name        string
	Cases       int
	Dimensions  int            // max count of channels per case
	Classes     map[string]int // count of cases per class label
	Unlabeled   int
	MinLength   int // length of the shortest series up to its last present value
	MaxLength   int
	MeanLength  float64
	StdLength   float64
	Missing     int // missing values inside series lengths
	EqualLength bool
}

/*
Describe summarizes the series of the table
*/
func Describe(t *Table) Summary {
	s := Summary{Name: t.Schema.Name, Cases: t.Len(), Classes: map[string]int{}}
	counts, unlabeled := t.ClassCounts()
	if c, ok := t.Schema.Class(); ok {
		for i, n := range counts {
			s.Classes[c.Levels[i]] = n
		}
	}
	s.Unlabeled = unlabeled
	var lengths []float64
	for i := range t.Rows {
		channels := t.Series(i)
		if len(channels) > s.Dimensions {
			s.Dimensions = len(channels)
		}
		for _, ch := range channels {
			n := seriesLength(ch)
			for _, v := range ch[:n] {
				if math.IsNaN(v) {
					s.Missing++
				}
			}
			lengths = append(lengths, float64(n))
		}
	}
	if len(lengths) > 0 {
		s.MinLength = int(floats.Min(lengths))
		s.MaxLength = int(floats.Max(lengths))
		s.MeanLength, s.StdLength = stat.MeanStdDev(lengths, nil)
		if len(lengths) < 2 {
			s.StdLength = 0
		}
		s.EqualLength = s.MinLength == s.MaxLength
	}
	return s
}

func seriesLength(ch []float64) int {
	n := len(ch)
	for n > 0 && math.IsNaN(ch[n-1]) {
		n--
	}
	return n
}

func (s Summary) String() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%v: %d cases, %d dimension(s)\n", s.Name, s.Cases, s.Dimensions)
	fmt.Fprintf(b, "length: min %d, max %d, mean %.2f, std %.2f, equal %v\n",
		s.MinLength, s.MaxLength, s.MeanLength, s.StdLength, s.EqualLength)
	fmt.Fprintf(b, "missing values: %d\n", s.Missing)
	keys := make([]string, 0, len(s.Classes))
	for k := range s.Classes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "class %v: %d\n", k, s.Classes[k])
	}
	if s.Unlabeled > 0 {
		fmt.Fprintf(b, "unlabeled: %d\n", s.Unlabeled)
	}
	return b.String()
}
