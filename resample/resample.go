/*
Package resample implements seeded stratified train/test resampling of tables

The same seed always produces the same partition. Every row of the input goes
to exactly one of train and test, and each class keeps its share of rows in both.
*/
package resample

import (
	"math"
	"math/rand"
	"sort"

	"go-ml.dev/pkg/tsdata/tables"
	"go-ml.dev/pkg/zorros"
	"golang.org/x/xerrors"
)

/*
Partition is a pair of disjoint sets of row indices, each sorted ascending
*/
type Partition struct {
	Train, Test []int
}

/*
strata groups row indices by class, unlabeled rows form their own stratum with key -1
*/
func strata(t *tables.Table) (keys []int, groups map[int][]int) {
	groups = map[int][]int{}
	for i := range t.Rows {
		c := t.Class(i)
		if _, ok := groups[c]; !ok {
			keys = append(keys, c)
		}
		groups[c] = append(groups[c], i)
	}
	sort.Ints(keys)
	return
}

/*
Split assigns round(n*proportion) rows of every class to train and the rest to test
*/
func Split(pool *tables.Table, seed int64, proportion float64) (Partition, error) {
	if proportion < 0 || proportion > 1 || math.IsNaN(proportion) {
		return Partition{}, zorros.Errorf("proportion of train rows must be in [0,1], got %v", proportion)
	}
	rng := rand.New(rand.NewSource(seed))
	keys, groups := strata(pool)
	p := Partition{Train: []int{}, Test: []int{}}
	for _, k := range keys {
		g := groups[k]
		n := int(math.Round(float64(len(g)) * proportion))
		p.take(rng, g, n)
	}
	p.sort()
	return p, nil
}

/*
SplitPair reshuffles the union of train and test rows keeping the count of every class in train,
so that both partitions keep their sizes. Indices of test rows are offset by train.Len()
*/
func SplitPair(train, test *tables.Table, seed int64) (Partition, error) {
	if !train.Schema.Equal(test.Schema) {
		return Partition{}, zorros.Errorf("train and test of `%v` have different schemas", train.Schema.Name)
	}
	rng := rand.New(rand.NewSource(seed))
	_, trainGroups := strata(train)
	pool := &tables.Table{Schema: train.Schema, Rows: append(append([]tables.Row{}, train.Rows...), test.Rows...)}
	keys, groups := strata(pool)
	p := Partition{Train: []int{}, Test: []int{}}
	for _, k := range keys {
		p.take(rng, groups[k], len(trainGroups[k]))
	}
	p.sort()
	return p, nil
}

func (p *Partition) take(rng *rand.Rand, g []int, n int) {
	q := append([]int(nil), g...)
	rng.Shuffle(len(q), func(i, j int) { q[i], q[j] = q[j], q[i] })
	if n > len(q) {
		n = len(q)
	}
	p.Train = append(p.Train, q[:n]...)
	p.Test = append(p.Test, q[n:]...)
}

func (p *Partition) sort() {
	sort.Ints(p.Train)
	sort.Ints(p.Test)
}

/*
Stratified resamples one pool into train and test keeping the proportion of every class
*/
func Stratified(pool *tables.Table, seed int64, proportion float64) (train, test *tables.Table, err error) {
	p, err := Split(pool, seed, proportion)
	if err != nil {
		return
	}
	train, test = materialize(pool, p)
	return
}

/*
Pair resamples the union of train and test into new train and test of the same sizes
keeping the count of every class in each of them
*/
func Pair(train, test *tables.Table, seed int64) (*tables.Table, *tables.Table, error) {
	p, err := SplitPair(train, test, seed)
	if err != nil {
		return nil, nil, err
	}
	pool, err := train.Concat(test)
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to pool train and test: %w", err)
	}
	a, b := materialize(pool, p)
	return a, b, nil
}

/*
materialize copies the selected rows, multivariate cases are copied with their whole nested tables
*/
func materialize(pool *tables.Table, p Partition) (*tables.Table, *tables.Table) {
	return pool.Subset(p.Train), pool.Subset(p.Test)
}
