// Command qcflags runs QC tests from a configuration file against an
// observation table and writes the flagged dataset and overlay plots.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/banshee-data/qcflags/internal/config"
	"github.com/banshee-data/qcflags/internal/dataset"
	"github.com/banshee-data/qcflags/internal/fsutil"
	"github.com/banshee-data/qcflags/internal/overlay"
	"github.com/banshee-data/qcflags/internal/qc"
	"github.com/banshee-data/qcflags/internal/qcrun"
	"github.com/banshee-data/qcflags/internal/version"
)

var (
	configPath  = flag.String("config", "", "QC configuration file (.json or .hujson)")
	dataPath    = flag.String("data", "", "Observation table (.csv, or .db/.sqlite for SQLite)")
	tableName   = flag.String("table", "obs", "SQLite table holding observations")
	timeColumn  = flag.String("time-column", "time", "SQLite time column")
	outPath     = flag.String("out", "", "Write the flagged dataset as CSV to this path")
	plotDir     = flag.String("plot-dir", "", "Write one overlay plot per result into this directory")
	plotFormat  = flag.String("format", overlay.FormatHTML, "Overlay format: html or png")
	plotTitle   = flag.String("title", "", "Overlay title (defaults to the data file name)")
	workers     = flag.Int("workers", 0, "Concurrent test evaluations (0 = GOMAXPROCS)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

type options struct {
	ConfigPath string
	DataPath   string
	Table      string
	TimeColumn string
	OutPath    string
	PlotDir    string
	PlotFormat string
	PlotTitle  string
	Workers    int
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *configPath == "" || *dataPath == "" {
		log.Fatal("-config and -data are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := options{
		ConfigPath: *configPath,
		DataPath:   *dataPath,
		Table:      *tableName,
		TimeColumn: *timeColumn,
		OutPath:    *outPath,
		PlotDir:    *plotDir,
		PlotFormat: *plotFormat,
		PlotTitle:  *plotTitle,
		Workers:    *workers,
	}
	if err := run(ctx, fsutil.OSFileSystem{}, opts); err != nil {
		log.Fatalf("qcflags: %v", err)
	}
}

func run(ctx context.Context, fsys fsutil.FileSystem, opts options) error {
	cfg, err := config.LoadFS(fsys, opts.ConfigPath)
	if err != nil {
		return err
	}

	table, err := loadTable(ctx, fsys, opts)
	if err != nil {
		return err
	}

	runner := qcrun.Runner{Workers: opts.Workers}
	rep, err := runner.Run(table, cfg)
	if err != nil {
		return err
	}

	for _, s := range rep.Summaries() {
		log.Printf("%s/%s: %d samples, pass=%d suspect=%d fail=%d not_evaluated=%d",
			s.StreamID, s.Test, s.Total,
			s.Counts[qc.Pass], s.Counts[qc.Suspect], s.Counts[qc.Fail], s.Counts[qc.NotEvaluated])
	}
	for _, d := range rep.Diagnostics {
		log.Printf("skipped: %v", d.Err)
	}

	if opts.OutPath != "" {
		if err := writeDataset(fsys, opts.OutPath, rep.Dataset); err != nil {
			return err
		}
		log.Printf("wrote %s", opts.OutPath)
	}

	if opts.PlotDir != "" {
		title := opts.PlotTitle
		if title == "" {
			title = filepath.Base(opts.DataPath)
		}
		for _, res := range rep.Results.Results {
			ov, err := overlay.Build(table, res, title)
			if err != nil {
				return err
			}
			path, err := ov.Save(fsys, opts.PlotDir, opts.PlotFormat)
			if err != nil {
				return err
			}
			log.Printf("wrote %s", path)
		}
	}
	return nil
}

func loadTable(ctx context.Context, fsys fsutil.FileSystem, opts options) (*qc.Table, error) {
	switch strings.ToLower(filepath.Ext(opts.DataPath)) {
	case ".csv":
		return dataset.LoadCSVFile(fsys, opts.DataPath)
	case ".db", ".sqlite", ".sqlite3":
		db, err := dataset.OpenSQLite(opts.DataPath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return dataset.LoadSQLite(ctx, db, dataset.SQLiteSource{Table: opts.Table, TimeColumn: opts.TimeColumn})
	}
	return nil, fmt.Errorf("unsupported data file %q: want .csv, .db, .sqlite or .sqlite3", opts.DataPath)
}

func writeDataset(fsys fsutil.FileSystem, path string, ds *qc.AugmentedDataset) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := dataset.WriteCSV(f, ds); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -config qc.json -data obs.csv [-out flagged.csv] [-plot-dir plots]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
}
