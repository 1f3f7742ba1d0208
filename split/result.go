package split

import (
	"fmt"

	"go-ml.dev/pkg/tsdata/tables"
)

/*
Tier is the split representation the result was resolved from
*/
type Tier int

const (
	// FoldSplit is a predefined <problem><fold>_TRAIN/_TEST pair
	FoldSplit Tier = iota + 1
	// DefaultSplit is a predefined <problem>_TRAIN/_TEST pair
	DefaultSplit
	// Pooled is a single <problem> file resampled by proportion
	Pooled
	// LeaveOneGroupOut is a single file with the grouping first attribute
	LeaveOneGroupOut
)

func (t Tier) String() string {
	switch t {
	case FoldSplit:
		return "fold-split"
	case DefaultSplit:
		return "default-split"
	case Pooled:
		return "pooled"
	case LeaveOneGroupOut:
		return "leave-one-group-out"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

/*
Result is a resolved split
*/
type Result struct {
	Train, Test *tables.Table
	Tier        Tier
	Sources     []string // loaded files
	Resampled   bool     // membership differs from the files
	Group       float64  // value of the grouping attribute held out by LeaveOneGroupOut
}

/*
Describe summarizes both parts of the split
*/
func (r *Result) Describe() (train, test tables.Summary) {
	return tables.Describe(r.Train), tables.Describe(r.Test)
}
