// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchsummary collects the results of the indexing benchmarks into a
// single summary table and a set of comparison charts.
//
// Usage:
//
//	benchsummary [flags] [label=]root...
//
// Each root is a directory laid out as
//
//	<root>/<model>/<dataset>/stats.txt
//	<root>/<model>/<dataset>/accuracy.txt
//	<root>/<model>/<dataset>/index_memory.txt   (optional)
//
// For each root, benchsummary prints the summary table, writes it to
// benchmark_summary.csv, and renders ten PNG charts comparing latency,
// hit rate, index memory, and build time across models and datasets.
//
// If no root is given, benchsummary uses $BENCHSUMMARY_ROOT, or
// "outputs" if that is unset. A .env file in the current directory is
// loaded before the environment is consulted.
//
// With a single root, outputs are written to the -o directory. With
// several, each root's outputs go to a subdirectory of -o named by its
// label, which defaults to the root's base name:
//
//	benchsummary -o results 1k=outputs_1k 100k=outputs_100k
//
// Reports that are missing are treated as empty, and reports with
// unparseable values are discarded with a warning; neither stops the
// run.
//
// # Options
//
// The -csv, -html flags name output files within the output directory.
// -html is off by default.
//
// The -db flag additionally stores the summary in a SQL database, given
// as driver:dsn, for example "sqlite3:summary.db". The sqlite3 and
// mysql drivers are supported.
//
// The -rules flag loads the table of report labels from a YAML file in
// place of the built-in table.
//
// The -in flag skips walking and re-renders outputs from an existing
// summary CSV.
//
// The -stats, -accuracy, and -memory flags set the report file names
// within each dataset directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"golang.org/x/indexbench/aggtable"
	"golang.org/x/indexbench/chart"
	"golang.org/x/indexbench/report"
	"golang.org/x/indexbench/resulttree"
	"golang.org/x/indexbench/summary"
	"golang.org/x/indexbench/summarydb"
	_ "golang.org/x/indexbench/summarydb/sqlite3"
)

// rootEnv names the environment variable consulted when no root is
// given.
const rootEnv = "BENCHSUMMARY_ROOT"

func main() {
	log.SetPrefix("benchsummary: ")
	log.SetFlags(0)
	if err := benchsummary(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

type options struct {
	out      string
	csv      string
	html     string
	charts   bool
	db       *summarydb.DB
	rules    *report.RuleSet
	layout   resulttree.Layout
	noZero   bool
	logger   *slog.Logger
	progress io.Writer
}

func benchsummary(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("benchsummary", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: benchsummary [flags] [label=]root...\n")
		flags.PrintDefaults()
	}
	def := resulttree.DefaultLayout()
	flagOut := flags.String("o", ".", "write outputs to `dir`")
	flagCSV := flags.String("csv", "benchmark_summary.csv", "summary CSV file `name`")
	flagHTML := flags.String("html", "", "also write an HTML summary to file `name`")
	flagCharts := flags.Bool("charts", true, "render comparison charts")
	flagDB := flags.String("db", "", "also store the summary in database `driver:dsn`")
	flagRules := flags.String("rules", "", "read report label rules from YAML `file`")
	flagIn := flags.String("in", "", "re-render outputs from summary CSV `file` instead of walking")
	flagStats := flags.String("stats", def.Stats, "primary report file `name`")
	flagAccuracy := flags.String("accuracy", def.Accuracy, "accuracy report file `name`")
	flagMemory := flags.String("memory", def.Memory, "secondary memory report file `name`")
	flagNoZero := flags.Bool("nozero", false, "leave unreported index memory absent instead of zero")
	flagVerbose := flags.Bool("v", false, "log skipped reports")
	if err := flags.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(wErr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))

	opts := &options{
		out:      *flagOut,
		csv:      *flagCSV,
		html:     *flagHTML,
		charts:   *flagCharts,
		rules:    report.DefaultRules(),
		layout:   resulttree.Layout{Stats: *flagStats, Accuracy: *flagAccuracy, Memory: *flagMemory},
		noZero:   *flagNoZero,
		logger:   logger,
		progress: w,
	}
	if *flagRules != "" {
		rules, err := report.LoadRulesFile(*flagRules)
		if err != nil {
			return err
		}
		opts.rules = rules
	}

	roots, err := parseRoots(flags.Args())
	if err != nil {
		return err
	}
	if *flagIn != "" && len(flags.Args()) > 0 {
		return errors.New("-in and root arguments are mutually exclusive")
	}
	if *flagDB != "" && len(roots) > 1 {
		return errors.New("-db requires a single root")
	}

	if *flagDB != "" {
		driver, dsn, ok := strings.Cut(*flagDB, ":")
		if !ok || driver == "" {
			return fmt.Errorf("-db %q: want driver:dsn", *flagDB)
		}
		db, err := summarydb.OpenSQL(driver, dsn)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		opts.db = db
	}

	if *flagIn != "" {
		f, err := os.Open(*flagIn)
		if err != nil {
			return err
		}
		defer f.Close()
		t, err := summary.ReadCSV(f, opts.rules)
		if err != nil {
			return fmt.Errorf("%s: %w", *flagIn, err)
		}
		// The input is the summary; don't overwrite it.
		opts.csv = ""
		return opts.emit(w, opts.out, "", t)
	}

	walker := &resulttree.Walker{
		Rules:         opts.rules,
		Layout:        opts.layout,
		Logger:        logger,
		NoZeroDefault: opts.noZero,
	}
	for _, r := range roots {
		dir, label := opts.out, ""
		if len(roots) > 1 {
			dir, label = filepath.Join(opts.out, r.label), r.label
		}
		units, err := walker.Walk(os.DirFS(r.path))
		if err != nil {
			return fmt.Errorf("reading results: %w", err)
		}
		t, err := aggtable.Build(units)
		if err != nil {
			return fmt.Errorf("%s: %w", r.path, err)
		}
		if err := opts.emit(w, dir, label, t); err != nil {
			return err
		}
	}
	return nil
}

type root struct {
	label, path string
}

// parseRoots parses [label=]path arguments. With no arguments, the
// root comes from the environment.
func parseRoots(args []string) ([]root, error) {
	if len(args) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
		path := os.Getenv(rootEnv)
		if path == "" {
			path = "outputs"
		}
		args = []string{path}
	}
	var roots []root
	seen := make(map[string]bool)
	for _, arg := range args {
		label, path, ok := strings.Cut(arg, "=")
		if !ok {
			label, path = filepath.Base(arg), arg
		}
		if label == "" || path == "" {
			return nil, fmt.Errorf("bad root %q: want [label=]path", arg)
		}
		if seen[label] {
			return nil, fmt.Errorf("duplicate root label %q", label)
		}
		seen[label] = true
		roots = append(roots, root{label, path})
	}
	return roots, nil
}

// emit writes every output for t into dir.
func (o *options) emit(w io.Writer, dir, label string, t *aggtable.Table) error {
	if label != "" {
		fmt.Fprintf(w, "\n[%s]\n", label)
	}
	if err := summary.WriteText(w, t); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}

	if o.csv != "" {
		path := filepath.Join(dir, o.csv)
		if err := writeFile(path, func(f io.Writer) error { return summary.WriteCSV(f, t) }); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nSaved summary to %s\n\n", path)
	}

	if o.html != "" {
		title := "Benchmark summary"
		if label != "" {
			title += " (" + label + ")"
		}
		path := filepath.Join(dir, o.html)
		if err := writeFile(path, func(f io.Writer) error { return summary.WriteHTML(f, title, t) }); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved %s\n", path)
	}

	if o.db != nil {
		if err := o.db.ReplaceTable(context.Background(), t); err != nil {
			return fmt.Errorf("storing summary: %w", err)
		}
	}

	if o.charts {
		b := &chart.Battery{Dir: dir, Progress: o.progress, Logger: o.logger}
		if _, err := b.Render(t); err != nil {
			return fmt.Errorf("rendering charts: %w", err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
