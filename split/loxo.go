package split

import (
	"math"
	"sort"

	"go-ml.dev/pkg/tsdata/tables"
	"golang.org/x/xerrors"
)

/*
groups returns distinct values of the first column in ascending order, missing values are skipped
*/
func groups(t *tables.Table) []float64 {
	seen := map[float64]bool{}
	var vs []float64
	for _, r := range t.Rows {
		v := r[0].Num
		if math.IsNaN(v) || seen[v] {
			continue
		}
		seen[v] = true
		vs = append(vs, v)
	}
	sort.Float64s(vs)
	return vs
}

/*
leaveOneGroupOut holds out all rows of the fold-th distinct grouping value as test.
The grouping column is dropped from both parts
*/
func leaveOneGroupOut(pool *tables.Table, fold int) (train, test *tables.Table, group float64, err error) {
	gs := groups(pool)
	if fold >= len(gs) {
		err = xerrors.Errorf("fold %d of %d groups in `%v`: %w", fold, len(gs), pool.Schema.Name, ErrFoldOutOfRange)
		return
	}
	group = gs[fold]
	a, b := []int{}, []int{}
	for i, r := range pool.Rows {
		if r[0].Num == group {
			b = append(b, i)
		} else {
			a = append(a, i)
		}
	}
	train = pool.Subset(a).Except(0)
	test = pool.Subset(b).Except(0)
	return
}
