// Package cli implements the nahiri command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VirgileHenry/nahiri"
	"github.com/VirgileHenry/nahiri/codec"
	"github.com/VirgileHenry/nahiri/distance"
)

// app holds the persistent flags shared by every subcommand.
type app struct {
	dataPath   string
	configPath string
	dimension  int
	metric     string
	capacities []int
	workers    int
	codecName  string
	logLevel   string
}

// NewRootCmd returns a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "nahiri",
		Short: "nahiri - in-memory approximate nearest-neighbor index",
		Long: `nahiri builds a proximity graph over a dataset of vectors and answers
"similar to this key" and "closest to this vector" queries.

A dataset is a JSON array or JSON lines of {"key": ..., "vector": [...], "payload": ...}.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.dataPath, "data", "d", "", "Path to the dataset")
	pf.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	pf.IntVar(&a.dimension, "dimension", 0, "Vector dimension (0 infers it from the first row)")
	pf.StringVar(&a.metric, "metric", "dot", "Metric: dot or l2")
	pf.IntSliceVar(&a.capacities, "capacities", []int{16, 8, 4, 2}, "Tier capacities L0,L1,L2,L3")
	pf.IntVar(&a.workers, "workers", runtime.NumCPU(), "Goroutines used to build the graph")
	pf.StringVar(&a.codecName, "codec", "go-json", "Codec for the dataset, vectors and output: "+strings.Join(codec.Names, " or "))
	pf.StringVar(&a.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	root.AddCommand(
		newBuildCmd(a),
		newQueryCmd(a),
		newClosestCmd(a),
		newServeCmd(a),
	)

	return root
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) codec() (codec.Codec, error) {
	c, ok := codec.ByName(a.codecName)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", a.codecName)
	}
	return c, nil
}

// options translates flags and the optional config file into DB options.
// With a config file, only flags set explicitly override it.
func (a *app) options(cmd *cobra.Command, rows []Row) ([]nahiri.Option, error) {
	var (
		opts []nahiri.Option
		dim  int
	)

	set := func(name string) bool {
		return a.configPath == "" || cmd.Flags().Changed(name)
	}

	if a.configPath != "" {
		cfg, err := nahiri.LoadConfigFile(a.configPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, nahiri.WithConfig(cfg))
		dim = cfg.Dimension
	}

	if set("dimension") && a.dimension > 0 {
		dim = a.dimension
	}
	if dim == 0 && len(rows) > 0 {
		dim = len(rows[0].Vector)
	}
	opts = append(opts, nahiri.WithDimension(dim))

	if set("metric") {
		m, err := distance.ParseMetric(a.metric)
		if err != nil {
			return nil, err
		}
		opts = append(opts, nahiri.WithMetric(m))
	}

	if set("capacities") {
		c := a.capacities
		if len(c) != 4 {
			return nil, fmt.Errorf("--capacities needs 4 values, got %d", len(c))
		}
		opts = append(opts, nahiri.WithCapacities(c[0], c[1], c[2], c[3]))
	}

	if set("workers") {
		opts = append(opts, nahiri.WithWorkers(a.workers))
	}

	if set("log-level") {
		var level slog.Level
		if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
		opts = append(opts, nahiri.WithLogger(nahiri.NewLogger(
			slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}),
		)))
	}

	return opts, nil
}

// open loads the dataset and builds the DB.
func (a *app) open(cmd *cobra.Command, extra ...nahiri.Option) (*nahiri.DB[string, Record], error) {
	c, err := a.codec()
	if err != nil {
		return nil, err
	}

	rows, err := loadDataset(a.dataPath, c)
	if err != nil {
		return nil, err
	}

	opts, err := a.options(cmd, rows)
	if err != nil {
		return nil, err
	}

	return nahiri.New(toPoints(rows), recordKey, append(opts, extra...)...)
}

// printRecords writes one encoded record per line.
func printRecords(cmd *cobra.Command, c codec.Codec, records []Record) error {
	out := cmd.OutOrStdout()
	for _, r := range records {
		b, err := c.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, string(b)); err != nil {
			return err
		}
	}
	return nil
}
