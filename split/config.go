package split

import (
	"io/ioutil"
	"strings"

	"go-ml.dev/pkg/tsdata/fu"
	"go-ml.dev/pkg/tsdata/tsformat"
	"go-ml.dev/pkg/zorros"
	"gopkg.in/yaml.v3"
)

const (
	DefaultProportionKeptForTraining = 0.5
	DefaultGroupingAttribute         = "experimentssplitattribute"
)

/*
DefaultExtensions are probed in order when the problem name has no extension
*/
var DefaultExtensions = []string{".arff", ".ts"}

/*
Config is the set of resolution settings, zero fields mean defaults
*/
type Config struct {
	ProportionKeptForTraining float64  `yaml:"proportion_kept_for_training"` // zero means the default
	GroupingAttribute         string   `yaml:"grouping_attribute"`
	Extensions                []string `yaml:"extensions"`
	StrictLabels              bool     `yaml:"strict_labels"` // fail on unknown TS class labels instead of index -1

	Verbose func(string) `yaml:"-"` // progress messages
}

/*
LoadConfig reads YAML config file
*/
func LoadConfig(path string) (cfg Config, err error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, zorros.Wrapf(err, "failed to read config `%v`: %v", path, err.Error())
	}
	if err = yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, zorros.Wrapf(err, "failed to parse config `%v`: %v", path, err.Error())
	}
	// zero field means the default, so an explicit zero must be told apart
	declared := struct {
		Proportion *float64 `yaml:"proportion_kept_for_training"`
	}{}
	if err = yaml.Unmarshal(b, &declared); err != nil {
		return cfg, zorros.Wrapf(err, "failed to parse config `%v`: %v", path, err.Error())
	}
	if p := declared.Proportion; p != nil && (*p <= 0 || *p > 1) {
		return cfg, zorros.Errorf("proportion_kept_for_training in `%v` must be in (0,1]", path)
	}
	return cfg, nil
}

func (c Config) proportion() float64 {
	return fu.Fnzf(c.ProportionKeptForTraining, DefaultProportionKeptForTraining)
}

func (c Config) groupingAttribute() string {
	return fu.Fnzs(c.GroupingAttribute, DefaultGroupingAttribute)
}

func (c Config) extensions() []string {
	if len(c.Extensions) == 0 {
		return DefaultExtensions
	}
	exts := make([]string, len(c.Extensions))
	for i, e := range c.Extensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[i] = strings.ToLower(e)
	}
	return exts
}

func (c Config) labels() tsformat.LabelPolicy {
	if c.StrictLabels {
		return tsformat.LabelStrict
	}
	return tsformat.LabelSentinel
}

func (c Config) verbose(s string) {
	if c.Verbose != nil {
		c.Verbose(s)
	}
}
