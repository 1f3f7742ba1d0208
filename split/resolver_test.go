package split_test

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"go-ml.dev/pkg/tsdata/arff"
	"go-ml.dev/pkg/tsdata/split"
	"go-ml.dev/pkg/tsdata/tables"
	"go-ml.dev/pkg/tsdata/tsformat"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

const header = "@problemName Demo\n@univariate true\n@classLabel true a b\n@data\n"

const demoTrain = header + `1,1,1:a
2,2,2:a
3,3,3:a
4,4,4:a
5,5,5:b
6,6,6:b
`

const demoTest = header + `7,7:a
8,8:a
9,9:b
10,10:b
`

const demoFold3Train = header + "100,100:a\n101,101:b\n"
const demoFold3Test = header + "102,102:a\n"

const grouped = `@relation Grouped
@attribute experimentsSplitAttribute numeric
@attribute x numeric
@attribute class {u,v}
@data
3,0.1,u
1,0.2,v
3,0.3,v
2,0.4,u
1,0.5,u
`

func fixture(t *testing.T) *fs.Dir {
	return fs.NewDir(t, "split",
		fs.WithDir("Demo",
			fs.WithFile("Demo_TRAIN.ts", demoTrain),
			fs.WithFile("Demo_TEST.ts", demoTest),
			fs.WithFile("Demo3_TRAIN.ts", demoFold3Train),
			fs.WithFile("Demo3_TEST.ts", demoFold3Test)),
		fs.WithDir("Pool",
			fs.WithFile("Pool.ts", demoTrain)),
		fs.WithDir("Grouped",
			fs.WithFile("Grouped.arff", grouped)),
		fs.WithDir("Broken",
			fs.WithFile("Broken.arff", "@relation Broken\n@attribute x numeric\n@data\nzz\n"),
			fs.WithFile("Broken.ts", demoTrain)),
	)
}

func read(t *testing.T, path string) *tables.Table {
	q, err := tsformat.ReadFile(path)
	assert.NilError(t, err)
	return q
}

func fingerprints(ts ...*tables.Table) []string {
	var r []string
	for _, t := range ts {
		for _, row := range t.Rows {
			r = append(r, row.Fingerprint())
		}
	}
	sort.Strings(r)
	return r
}

func Test_FoldSplitWins(t *testing.T) {
	dir := fixture(t)
	defer dir.Remove()
	res, err := split.Resolve(dir.Path(), "Demo", 3)
	assert.NilError(t, err)
	assert.Equal(t, res.Tier, split.FoldSplit)
	assert.Assert(t, !res.Resampled)
	assert.Assert(t, res.Train.Equal(read(t, dir.Join("Demo", "Demo3_TRAIN.ts"))))
	assert.Assert(t, res.Test.Equal(read(t, dir.Join("Demo", "Demo3_TEST.ts"))))
}

func Test_FoldZeroIsVerbatim(t *testing.T) {
	dir := fixture(t)
	defer dir.Remove()
	res, err := split.Resolve(dir.Path(), "Demo", 0)
	assert.NilError(t, err)
	assert.Equal(t, res.Tier, split.DefaultSplit)
	assert.Assert(t, !res.Resampled)
	assert.Assert(t, res.Train.Equal(read(t, dir.Join("Demo", "Demo_TRAIN.ts"))))
	assert.Assert(t, res.Test.Equal(read(t, dir.Join("Demo", "Demo_TEST.ts"))))
}

func Test_DefaultSplitResampling(t *testing.T) {
	dir := fixture(t)
	defer dir.Remove()
	train := read(t, dir.Join("Demo", "Demo_TRAIN.ts"))
	test := read(t, dir.Join("Demo", "Demo_TEST.ts"))
	a, b, err := tables.Align(train, test)
	assert.NilError(t, err)

	res, err := split.Resolve(dir.Path(), "Demo", 1)
	assert.NilError(t, err)
	assert.Equal(t, res.Tier, split.DefaultSplit)
	assert.Assert(t, res.Resampled)
	assert.Equal(t, res.Train.Len(), train.Len())
	assert.Equal(t, res.Test.Len(), test.Len())
	assert.DeepEqual(t, fingerprints(res.Train, res.Test), fingerprints(a, b))

	ct, _ := res.Train.ClassCounts()
	c0, _ := train.ClassCounts()
	assert.DeepEqual(t, ct, c0)

	again, err := split.Resolve(dir.Path(), "Demo", 1)
	assert.NilError(t, err)
	assert.DeepEqual(t, fingerprints(res.Train), fingerprints(again.Train))
	assert.DeepEqual(t, fingerprints(res.Test), fingerprints(again.Test))
}

func Test_PooledResampling(t *testing.T) {
	dir := fixture(t)
	defer dir.Remove()
	pool := read(t, dir.Join("Pool", "Pool.ts"))
	r := split.New(split.Config{ProportionKeptForTraining: 0.5})
	res, err := r.Resolve(split.Request{Root: dir.Path(), Problem: "Pool", Fold: 7})
	assert.NilError(t, err)
	assert.Equal(t, res.Tier, split.Pooled)
	assert.Equal(t, res.Train.Len(), 3)
	assert.Equal(t, res.Test.Len(), 3)
	assert.DeepEqual(t, fingerprints(res.Train, res.Test), fingerprints(pool))
	c, _ := res.Train.ClassCounts()
	assert.DeepEqual(t, c, []int{2, 1})

	again := r.LuckyResolve(split.Request{Root: dir.Path(), Problem: "Pool", Fold: 7})
	assert.DeepEqual(t, fingerprints(res.Train), fingerprints(again.Train))
}

func Test_LeaveOneGroupOut(t *testing.T) {
	dir := fixture(t)
	defer dir.Remove()
	for fold, group := range []float64{1, 2, 3} {
		res, err := split.Resolve(dir.Path(), "Grouped", fold)
		assert.NilError(t, err)
		assert.Equal(t, res.Tier, split.LeaveOneGroupOut)
		assert.Equal(t, res.Group, group)
		assert.Equal(t, res.Train.Schema.Find("experimentsSplitAttribute"), -1)
		assert.Equal(t, res.Test.Schema.Find("experimentsSplitAttribute"), -1)
		assert.Equal(t, res.Train.Schema.Len(), 2)
		assert.Equal(t, res.Train.Len()+res.Test.Len(), 5)
	}
	res, err := split.Resolve(dir.Path(), "Grouped", 0)
	assert.NilError(t, err)
	assert.Equal(t, res.Test.Len(), 2)
	assert.Equal(t, res.Test.Float(0, 0), 0.2)
	assert.Equal(t, res.Test.Float(1, 0), 0.5)
	assert.Equal(t, res.Test.ClassLabel(0), "v")

	_, err = split.Resolve(dir.Path(), "Grouped", 3)
	assert.Assert(t, errors.Is(err, split.ErrFoldOutOfRange))
}

func Test_GroupingAttributeFromConfig(t *testing.T) {
	dir := fixture(t)
	defer dir.Remove()
	r := split.New(split.Config{GroupingAttribute: "no-such-attribute"})
	res, err := r.Resolve(split.Request{Root: dir.Path(), Problem: "Grouped", Fold: 0})
	assert.NilError(t, err)
	assert.Equal(t, res.Tier, split.Pooled)
	assert.Equal(t, res.Train.Schema.Len(), 3)
}

func Test_NegativeFold(t *testing.T) {
	_, err := split.Resolve("", "Demo", -1)
	assert.Assert(t, errors.Is(err, split.ErrFoldOutOfRange))
}

func Test_NotFound(t *testing.T) {
	dir := fixture(t)
	defer dir.Remove()
	_, err := split.Resolve(dir.Path(), "Nothing", 0)
	var nf *split.DatasetNotFoundError
	assert.Assert(t, errors.As(err, &nf))
	assert.Equal(t, nf.Problem, "Nothing")
	assert.Assert(t, os.IsNotExist(errors.Unwrap(err)))
}

func Test_MalformedFileIsReported(t *testing.T) {
	dir := fixture(t)
	defer dir.Remove()
	_, err := split.Resolve(dir.Path(), "Broken", 0)
	var md *split.MalformedDatasetError
	assert.Assert(t, errors.As(err, &md))
	assert.Equal(t, filepath.Base(md.Path), "Broken.arff")
	var pe *arff.ParseError
	assert.Assert(t, errors.As(err, &pe))
}

func Test_PinnedExtension(t *testing.T) {
	dir := fixture(t)
	defer dir.Remove()
	res, err := split.Resolve(dir.Path(), "Broken.ts", 0)
	assert.NilError(t, err)
	assert.Equal(t, res.Tier, split.Pooled)
	assert.Equal(t, filepath.Base(res.Sources[0]), "Broken.ts")

	r := split.New(split.Config{Extensions: []string{"TS"}})
	res = r.LuckyResolve(split.Request{Root: dir.Path(), Problem: "Broken", Fold: 0})
	assert.Equal(t, filepath.Base(res.Sources[0]), "Broken.ts")
}

func Test_CompressedPool(t *testing.T) {
	dir := fs.NewDir(t, "split", fs.WithDir("Packed"))
	defer dir.Remove()
	pool := tsformat.LuckyRead(strings.NewReader(demoTrain))
	assert.NilError(t, tsformat.WriteFile(dir.Join("Packed", "Packed.ts.xz"), pool))
	var messages []string
	r := split.New(split.Config{Verbose: func(s string) { messages = append(messages, s) }})
	res, err := r.Resolve(split.Request{Root: dir.Path(), Problem: "Packed", Fold: 2})
	assert.NilError(t, err)
	assert.Equal(t, res.Tier, split.Pooled)
	assert.Equal(t, res.Train.Len()+res.Test.Len(), pool.Len())
	assert.Equal(t, len(messages), 1)
	assert.Assert(t, strings.Contains(messages[0], "Packed.ts.xz"))
}

func Test_StrictLabels(t *testing.T) {
	src := header + "1,2:a\n3,4:c\n"
	dir := fs.NewDir(t, "split", fs.WithDir("Odd", fs.WithFile("Odd.ts", src)))
	defer dir.Remove()
	_, err := split.New(split.Config{StrictLabels: true}).Resolve(split.Request{Root: dir.Path(), Problem: "Odd"})
	var le *tsformat.UnknownLabelError
	assert.Assert(t, errors.As(err, &le))

	res, err := split.Resolve(dir.Path(), "Odd", 0)
	assert.NilError(t, err)
	_, unlabeled := res.Train.ClassCounts()
	_, unlabeled2 := res.Test.ClassCounts()
	assert.Equal(t, unlabeled+unlabeled2, 1)
}

func Test_LoadConfig(t *testing.T) {
	dir := fs.NewDir(t, "split",
		fs.WithFile("good.yaml", "proportion_kept_for_training: 0.7\ngrouping_attribute: subject\nextensions: [ts, .arff]\nstrict_labels: true\n"),
		fs.WithFile("bad.yaml", "proportion_kept_for_training: 1.5\n"),
		fs.WithFile("zero.yaml", "proportion_kept_for_training: 0\n"),
		fs.WithFile("empty.yaml", "grouping_attribute: subject\n"),
		fs.WithFile("junk.yaml", "extensions: {\n"))
	defer dir.Remove()
	cfg, err := split.LoadConfig(dir.Join("good.yaml"))
	assert.NilError(t, err)
	assert.Equal(t, cfg.ProportionKeptForTraining, 0.7)
	assert.Equal(t, cfg.GroupingAttribute, "subject")
	assert.DeepEqual(t, cfg.Extensions, []string{"ts", ".arff"})
	assert.Assert(t, cfg.StrictLabels)

	_, err = split.LoadConfig(dir.Join("bad.yaml"))
	assert.ErrorContains(t, err, "proportion_kept_for_training")
	_, err = split.LoadConfig(dir.Join("zero.yaml"))
	assert.ErrorContains(t, err, "(0,1]")
	cfg, err = split.LoadConfig(dir.Join("empty.yaml"))
	assert.NilError(t, err)
	assert.Equal(t, cfg.ProportionKeptForTraining, 0.0)
	_, err = split.LoadConfig(dir.Join("junk.yaml"))
	assert.ErrorContains(t, err, "failed to parse")
	_, err = split.LoadConfig(dir.Join("missing.yaml"))
	assert.ErrorContains(t, err, "failed to read")
}

const motionsHeader = `@relation Motions
@attribute motion relational
	@attribute t0 numeric
	@attribute t1 numeric
@end motion
@attribute class {walk,run}
@data
`

func Test_RelationalPairResampling(t *testing.T) {
	dir := fs.NewDir(t, "split", fs.WithDir("Motions",
		fs.WithFile("Motions_TRAIN.arff", motionsHeader+"'1,2\\n3,4',walk\n'5,6\\n7,8',walk\n'9,10\\n11,12',run\n"),
		fs.WithFile("Motions_TEST.arff", motionsHeader+"'13,14\\n15,16',walk\n'17,18\\n19,?',run\n?,run\n")))
	defer dir.Remove()
	train, err := arff.ReadFile(dir.Join("Motions", "Motions_TRAIN.arff"))
	assert.NilError(t, err)
	test, err := arff.ReadFile(dir.Join("Motions", "Motions_TEST.arff"))
	assert.NilError(t, err)

	res, err := split.Resolve(dir.Path(), "Motions", 2)
	assert.NilError(t, err)
	assert.Equal(t, res.Tier, split.DefaultSplit)
	assert.Assert(t, res.Resampled)
	assert.Equal(t, res.Train.Len(), 3)
	assert.Equal(t, res.Test.Len(), 3)
	assert.DeepEqual(t, fingerprints(res.Train, res.Test), fingerprints(train, test))
	ct, _ := res.Train.ClassCounts()
	assert.DeepEqual(t, ct, []int{2, 1})
	assert.NilError(t, res.Train.Validate())
	assert.NilError(t, res.Test.Validate())

	nested := map[*tables.Table]bool{}
	for _, q := range []*tables.Table{res.Train, res.Test} {
		for _, r := range q.Rows {
			if r[0].Rel != nil {
				assert.Assert(t, !nested[r[0].Rel])
				nested[r[0].Rel] = true
			}
		}
	}
	assert.Equal(t, len(nested), 5)

	again := split.New(split.Config{}).LuckyResolve(split.Request{Root: dir.Path(), Problem: "Motions", Fold: 2})
	for _, r := range res.Train.Rows {
		if r[0].Rel != nil {
			r[0].Rel.Rows[0][0] = tables.Num(-100)
		}
	}
	assert.DeepEqual(t, fingerprints(again.Train, again.Test), fingerprints(train, test))
}
