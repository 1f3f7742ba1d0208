/*
Package split resolves the train/test split of a problem for a given fold

The problem folder is probed for four representations, the first one found wins:

	<root>/<problem>/<problem><fold>_TRAIN.<ext>, _TEST.<ext>   returned as is
	<root>/<problem>/<problem>_TRAIN.<ext>, _TEST.<ext>         as is for fold 0, resampled otherwise
	<root>/<problem>/<problem>.<ext>                            stratified resample of the pool
	the same pool with the grouping first attribute               leave one group out

Files that are not present just move the resolution to the next tier,
a present file that can't be loaded is reported immediately.
*/
package split

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go-ml.dev/pkg/tsdata/arff"
	"go-ml.dev/pkg/tsdata/fu"
	"go-ml.dev/pkg/tsdata/resample"
	"go-ml.dev/pkg/tsdata/tables"
	"go-ml.dev/pkg/tsdata/tsformat"
	"go-ml.dev/pkg/zorros"
	"golang.org/x/xerrors"
)

/*
Loader reads a table from the file
*/
type Loader interface {
	Load(path string) (*tables.Table, error)
}

/*
LoaderFunc adapts a function to the Loader interface
*/
type LoaderFunc func(string) (*tables.Table, error)

func (f LoaderFunc) Load(path string) (*tables.Table, error) {
	return f(path)
}

/*
Request identifies the split to resolve
*/
type Request struct {
	Root    string // empty means the go-ml datasets cache
	Problem string // problem name, optionally with an extension pinning the format
	Fold    int
}

/*
Resolver resolves splits with a config and a loader per file extension
*/
type Resolver struct {
	Config
	Loaders map[string]Loader
}

/*
New creates resolver with ARFF and TS loaders
*/
func New(cfg Config) *Resolver {
	ts := tsformat.Reader{Labels: cfg.labels()}
	return &Resolver{
		Config: cfg,
		Loaders: map[string]Loader{
			".arff": LoaderFunc(arff.ReadFile),
			".ts":   LoaderFunc(ts.ReadFile),
		},
	}
}

/*
Resolve resolves the split with the default config
*/
func Resolve(root, problem string, fold int) (*Result, error) {
	return New(Config{}).Resolve(Request{Root: root, Problem: problem, Fold: fold})
}

/*
LuckyResolve resolves the split and panics on error
*/
func (r *Resolver) LuckyResolve(q Request) *Result {
	res, err := r.Resolve(q)
	if err != nil {
		panic(zorros.Panic(err))
	}
	return res
}

/*
Resolve finds the first available split representation and produces train and test for the fold
*/
func (r *Resolver) Resolve(q Request) (*Result, error) {
	if q.Fold < 0 {
		return nil, xerrors.Errorf("negative fold %d: %w", q.Fold, ErrFoldOutOfRange)
	}
	root := fu.DatasetPath(q.Root)
	name, exts := r.candidates(q.Problem)
	dir := filepath.Join(root, name)

	if train, test, ok := r.probePair(dir, name+strconv.Itoa(q.Fold), exts); ok {
		r.verbose(fmt.Sprintf("%v fold %d: predefined fold split %v", name, q.Fold, train))
		return r.loadPair(FoldSplit, train, test)
	}

	if train, test, ok := r.probePair(dir, name, exts); ok {
		res, err := r.loadPair(DefaultSplit, train, test)
		if err != nil {
			return nil, err
		}
		if q.Fold == 0 {
			r.verbose(fmt.Sprintf("%v fold 0: predefined split %v", name, train))
			return res, nil
		}
		r.verbose(fmt.Sprintf("%v fold %d: resampling predefined split %v", name, q.Fold, train))
		a, b, err := tables.Align(res.Train, res.Test)
		if err != nil {
			return nil, &MalformedDatasetError{Path: test, Err: err}
		}
		if res.Train, res.Test, err = resample.Pair(a, b, int64(q.Fold)); err != nil {
			return nil, &MalformedDatasetError{Path: train, Err: err}
		}
		res.Resampled = true
		return res, nil
	}

	path, ok := r.probe(dir, name, exts)
	if !ok {
		_, err := os.Stat(filepath.Join(dir, name+exts[0]))
		return nil, &DatasetNotFoundError{Root: root, Problem: q.Problem, Err: err}
	}
	pool, err := r.load(path)
	if err != nil {
		return nil, err
	}
	res := &Result{Tier: Pooled, Sources: []string{path}, Resampled: true}
	if r.grouped(pool) {
		r.verbose(fmt.Sprintf("%v fold %d: leave one group out of %v", name, q.Fold, path))
		res.Tier = LeaveOneGroupOut
		res.Resampled = false
		if res.Train, res.Test, res.Group, err = leaveOneGroupOut(pool, q.Fold); err != nil {
			return nil, err
		}
		return res, nil
	}
	r.verbose(fmt.Sprintf("%v fold %d: resampling pool %v", name, q.Fold, path))
	if res.Train, res.Test, err = resample.Stratified(pool, int64(q.Fold), r.proportion()); err != nil {
		return nil, err
	}
	return res, nil
}

/*
candidates splits the pinned extension off the problem name or returns the probed extensions
*/
func (r *Resolver) candidates(problem string) (string, []string) {
	exts := r.extensions()
	if ext := filepath.Ext(problem); ext != "" {
		if _, ok := r.Loaders[strings.ToLower(ext)]; ok {
			problem, exts = strings.TrimSuffix(problem, ext), []string{ext}
		}
	}
	all := make([]string, 0, len(exts)*(1+len(fu.CompressionSuffixes)))
	all = append(all, exts...)
	for _, e := range exts {
		for _, s := range fu.CompressionSuffixes {
			all = append(all, e+s)
		}
	}
	return problem, all
}

func (r *Resolver) probe(dir, base string, exts []string) (string, bool) {
	for _, e := range exts {
		if p := filepath.Join(dir, base+e); fu.Exists(p) {
			return p, true
		}
	}
	return "", false
}

func (r *Resolver) probePair(dir, base string, exts []string) (string, string, bool) {
	for _, e := range exts {
		train := filepath.Join(dir, base+"_TRAIN"+e)
		test := filepath.Join(dir, base+"_TEST"+e)
		if fu.Exists(train) && fu.Exists(test) {
			return train, test, true
		}
	}
	return "", "", false
}

func (r *Resolver) load(path string) (*tables.Table, error) {
	base, _ := fu.TrimCompression(path)
	ext := strings.ToLower(filepath.Ext(base))
	l, ok := r.Loaders[ext]
	if !ok {
		return nil, &MalformedDatasetError{Path: path, Err: zorros.Errorf("no loader for `%v` files", ext)}
	}
	t, err := l.Load(path)
	if err != nil {
		return nil, &MalformedDatasetError{Path: path, Err: err}
	}
	if err = t.Validate(); err != nil {
		return nil, &MalformedDatasetError{Path: path, Err: err}
	}
	return t, nil
}

func (r *Resolver) loadPair(tier Tier, train, test string) (*Result, error) {
	a, err := r.load(train)
	if err != nil {
		return nil, err
	}
	b, err := r.load(test)
	if err != nil {
		return nil, err
	}
	return &Result{Train: a, Test: b, Tier: tier, Sources: []string{train, test}}, nil
}

/*
grouped reports whether the first column is the grouping attribute
*/
func (r *Resolver) grouped(t *tables.Table) bool {
	if t.Schema.Len() == 0 || t.Schema.Columns[0].Kind == tables.Relational {
		return false
	}
	name := strings.ToLower(t.Schema.Columns[0].Name)
	return strings.Contains(name, strings.ToLower(r.groupingAttribute()))
}
