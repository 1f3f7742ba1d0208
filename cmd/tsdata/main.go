package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go-ml.dev/pkg/tsdata/arff"
	"go-ml.dev/pkg/tsdata/fu"
	"go-ml.dev/pkg/tsdata/manifest"
	"go-ml.dev/pkg/tsdata/split"
	"go-ml.dev/pkg/tsdata/tables"
	"go-ml.dev/pkg/tsdata/tsformat"
	"go-ml.dev/pkg/zorros"
	"go-ml.dev/pkg/zorros/zlog"
)

func main() {
	if err := root().Execute(); err != nil {
		os.Exit(1)
	}
}

func root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tsdata",
		Short:         "Time series classification datasets: splits, summaries and format conversion",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(splitCmd(), describeCmd(), convertCmd())
	return cmd
}

type splitOptions struct {
	root, problem, config, out, format, manifest string
	fold                                        int
	verbose                                     bool
}

func splitCmd() *cobra.Command {
	o := splitOptions{}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Resolve train/test split of a problem for a fold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSplit(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.root, "root", "", "datasets root folder (go-ml cache if empty)")
	f.StringVar(&o.problem, "problem", "", "problem name, optionally with .arff or .ts extension")
	f.IntVar(&o.fold, "fold", 0, "fold id")
	f.StringVar(&o.config, "config", "", "YAML config file")
	f.StringVar(&o.out, "out", "", "folder to write <problem><fold>_TRAIN/_TEST files into")
	f.StringVar(&o.format, "format", "ts", "output format: ts or arff, optionally with compression suffix (ts.xz)")
	f.StringVar(&o.manifest, "manifest", "", "SQLite manifest to record and verify the split")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "print resolution progress")
	_ = cmd.MarkFlagRequired("problem")
	return cmd
}

func runSplit(cmd *cobra.Command, o splitOptions) (err error) {
	cfg := split.Config{}
	if o.config != "" {
		if cfg, err = split.LoadConfig(o.config); err != nil {
			return
		}
	}
	if o.verbose {
		cfg.Verbose = func(s string) { fmt.Fprintln(cmd.ErrOrStderr(), s) }
	}
	res, err := split.New(cfg).Resolve(split.Request{Root: o.root, Problem: o.problem, Fold: o.fold})
	if err != nil {
		return
	}
	train, test := res.Describe()
	fmt.Fprintf(cmd.OutOrStdout(), "tier: %v\nsources: %v\n\n[train]\n%v\n[test]\n%v",
		res.Tier, strings.Join(res.Sources, ", "), train, test)

	if o.manifest != "" {
		if err = record(cmd, o, res); err != nil {
			return
		}
	}
	if o.out != "" {
		name, _ := fu.TrimCompression(filepath.Base(o.problem))
		name = strings.TrimSuffix(name, filepath.Ext(name))
		base := filepath.Join(o.out, fmt.Sprintf("%v%d", name, o.fold))
		if err = os.MkdirAll(o.out, 0755); err != nil {
			return zorros.Trace(err)
		}
		if err = save(base+"_TRAIN."+o.format, res.Train); err != nil {
			return
		}
		return save(base+"_TEST."+o.format, res.Test)
	}
	return nil
}

func record(cmd *cobra.Command, o splitOptions, res *split.Result) error {
	m, err := manifest.Open(o.manifest)
	if err != nil {
		return err
	}
	defer m.Close()
	_, known, err := m.Lookup(o.problem, o.fold)
	if err != nil {
		return err
	}
	if known {
		same, err := m.Verify(o.problem, o.fold, res)
		if err != nil {
			return err
		}
		if !same {
			zlog.Warning(fmt.Sprintf("%v fold %d differs from the recorded split", o.problem, o.fold))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "split matches manifest %v\n", o.manifest)
		}
	}
	return m.Record(o.problem, o.fold, res)
}

func describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe FILE...",
		Short: "Summarize .ts or .arff files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				t, err := load(a)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%v\n%v\n", a, tables.Describe(t))
			}
			return nil
		},
	}
}

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert between .ts and .arff files, .xz .gz and .zst suffixes are packed/unpacked",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := load(args[0])
			if err != nil {
				return err
			}
			return save(args[1], t)
		},
	}
}

func format(path string) string {
	base, _ := fu.TrimCompression(path)
	return strings.ToLower(filepath.Ext(base))
}

func load(path string) (*tables.Table, error) {
	switch format(path) {
	case ".ts":
		return tsformat.ReadFile(path)
	case ".arff":
		return arff.ReadFile(path)
	}
	return nil, zorros.Errorf("unknown format of `%v`", path)
}

func save(path string, t *tables.Table) error {
	switch format(path) {
	case ".ts":
		return tsformat.WriteFile(path, t)
	case ".arff":
		return arff.WriteFile(path, t)
	}
	return zorros.Errorf("unknown format of `%v`", path)
}
