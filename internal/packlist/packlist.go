package packlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"speedpack/internal/catalog"
	"speedpack/internal/grouping"
	"speedpack/internal/logging"
	"speedpack/internal/region"
	"speedpack/internal/report"
	"speedpack/internal/xref"
)

// checkEvery is how many catalog entries are read between context checks.
const checkEvery = 1024

// Options configures one pipeline run.
type Options struct {
	CatalogPath  string
	CrossRefPath string
	Prefix       string
	MaxPerDir    int
	// Regions defaults to region.DefaultTable when nil.
	Regions *region.Table
	Exclude []string
	// RunID is generated when empty.
	RunID string
}

// Layout is the packed catalog before emission.
type Layout struct {
	Entries int
	Records []catalog.Record
	Buckets []grouping.Bucket
}

// Summary describes a completed run.
type Summary struct {
	RunID    string
	Entries  int
	Records  int
	CrossRef int
	Buckets  []report.BucketStats
	Written  int
	Excluded int
	Missing  int
	SixtyHz  []string
	FiftyHz  []string
	Elapsed  time.Duration
}

func (o *Options) validate() error {
	if strings.TrimSpace(o.CatalogPath) == "" {
		return errors.New("catalog path is required")
	}
	if o.MaxPerDir < 1 {
		return fmt.Errorf("max per dir %d: %w", o.MaxPerDir, grouping.ErrInvalidMax)
	}
	return nil
}

func (o *Options) regions() *region.Table {
	if o.Regions == nil {
		return region.DefaultTable()
	}
	return o.Regions
}

// Plan loads and packs the catalog without consulting the cross-reference.
func Plan(ctx context.Context, opts Options, logger *slog.Logger) (*Layout, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	logger = logging.NewComponentLogger(logger, "packlist")
	entries, records, err := load(ctx, opts.CatalogPath, opts.regions(), logger)
	if err != nil {
		return nil, err
	}
	buckets, err := pack(ctx, records, opts.MaxPerDir, logger)
	if err != nil {
		return nil, err
	}
	return &Layout{Entries: entries, Records: records, Buckets: buckets}, nil
}

func load(ctx context.Context, path string, table *region.Table, logger *slog.Logger) (int, []catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	entries, records, err := loadCatalog(ctx, path, table)
	if err != nil {
		return 0, nil, err
	}
	logger.Info("catalog loaded",
		logging.String(logging.FieldSource, path),
		logging.Int("entries", entries),
		logging.Int("records", len(records)),
	)
	return entries, records, nil
}

func pack(ctx context.Context, records []catalog.Record, maxPerDir int, logger *slog.Logger) ([]grouping.Bucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buckets, err := grouping.PackBySpeed(records, maxPerDir)
	if err != nil {
		return nil, err
	}
	for _, bucket := range buckets {
		logger.Debug("bucket packed",
			logging.String(logging.FieldSpeed, string(bucket.Speed)),
			logging.String(logging.FieldSpan, bucket.Span()),
			logging.Int("records", bucket.Len()),
		)
	}
	return buckets, nil
}

// Run executes the full pipeline and writes every line to out.
func Run(ctx context.Context, opts Options, out report.LineWriter, logger *slog.Logger) (*Summary, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.CrossRefPath) == "" {
		return nil, errors.New("cross-reference path is required")
	}
	if out == nil {
		out = report.Discard
	}

	started := time.Now()
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger = logging.WithRunID(logging.NewComponentLogger(logger, "packlist"), runID)

	table := opts.regions()
	summary := &Summary{RunID: runID, SixtyHz: table.SixtyHz(), FiftyHz: table.FiftyHz()}
	logger.Info("60Hz regions", logging.String("regions", strings.Join(summary.SixtyHz, ", ")))
	logger.Info("50Hz regions", logging.String("regions", strings.Join(summary.FiftyHz, ", ")))

	entries, records, err := load(ctx, opts.CatalogPath, table, logger)
	if err != nil {
		return nil, err
	}
	summary.Entries = entries
	summary.Records = len(records)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sums, err := xref.LoadFile(opts.CrossRefPath)
	if err != nil {
		return nil, err
	}
	summary.CrossRef = sums.Len()
	logger.Info("cross-reference loaded",
		logging.String(logging.FieldSource, opts.CrossRefPath),
		logging.Int("hashes", sums.Len()),
	)

	buckets, err := pack(ctx, records, opts.MaxPerDir, logger)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	emitter := report.Emitter{Prefix: opts.Prefix, Exclude: opts.Exclude, XRef: sums}
	stats, err := emitter.Emit(out, buckets)
	summary.Buckets = stats.Buckets
	summary.Written = stats.Written
	summary.Excluded = stats.Excluded
	summary.Missing = stats.Missing
	if err != nil {
		return summary, fmt.Errorf("emit pack list: %w", err)
	}
	summary.Elapsed = time.Since(started)

	if summary.Missing > 0 {
		logger.Warn("records without cross-reference entry",
			logging.String(logging.FieldEventType, "missing_hashes"),
			logging.Int("missing", summary.Missing),
		)
	}
	logger.Info("pack list complete",
		logging.Int("buckets", len(summary.Buckets)),
		logging.Int("written", summary.Written),
		logging.Int("excluded", summary.Excluded),
		logging.Int("missing", summary.Missing),
		slog.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

func loadCatalog(ctx context.Context, path string, classifier catalog.Classifier) (int, []catalog.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	reader := catalog.NewReader(file, path)
	var records []catalog.Record
	for entry, err := range reader.All() {
		if err != nil {
			return 0, nil, err
		}
		if reader.Count()%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, nil, err
			}
		}
		for _, speed := range classifier.Classify(entry.Name) {
			records = append(records, catalog.Record{Entry: entry, Speed: speed})
		}
	}
	return reader.Count(), records, nil
}
