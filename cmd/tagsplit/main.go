// Command tagsplit extracts tag-delimited records from a stream using parallel
// split readers and writes them as a record file or as raw lines.
//
// Usage:
//
//	tagsplit -config job.yaml
//	tagsplit -input dump.xml -start '<page>' -end '</page>' -out pages.tsrf -compression zstd
//
// Flags given on the command line override values from the config file; the
// merged job is validated once all flags are applied.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/arloliu/tagsplit/config"
	"github.com/arloliu/tagsplit/recordfile"
	"github.com/arloliu/tagsplit/runner"
	"github.com/arloliu/tagsplit/scanner"
)

var errNoInput = errors.New("no input given")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "tagsplit:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(ctx, args, stderr)
	if err != nil {
		return err
	}

	logger, err := cfg.NewLogger(stderr)
	if err != nil {
		return err
	}

	opts := []runner.Option{
		runner.WithSplitSize(cfg.SplitSize),
		runner.WithConcurrency(cfg.Concurrency),
		runner.WithLogger(logger),
		runner.WithVerification(cfg.VerifySplits),
	}
	if cfg.MaxRecordSize > 0 {
		opts = append(opts, runner.WithScannerOptions(scanner.WithMaxRecordSize(cfg.MaxRecordSize)))
	}

	r, err := runner.New(cfg, opts...)
	if err != nil {
		return err
	}

	recs, stats, err := r.Collect(ctx, cfg.Input)
	if err != nil {
		return err
	}

	if cfg.Output == "" {
		return writeLines(stdout, recs)
	}
	if err := writeRecordFile(ctx, cfg, recs); err != nil {
		return err
	}
	logger.Info("record file written", "output", cfg.Output, "records", stats.Records)

	return nil
}

func parseFlags(ctx context.Context, args []string, stderr io.Writer) (*config.Config, error) {
	fs := flag.NewFlagSet("tagsplit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath    = fs.String("config", "", "YAML job file (local path or afs URL)")
		input         = fs.String("input", "", "input path or URL")
		startTag      = fs.String("start", "", "start tag, e.g. <page>")
		endTag        = fs.String("end", "", "end tag, e.g. </page>")
		splitSize     = fs.Int64("split-size", 0, "split size in bytes")
		concurrency   = fs.Int("concurrency", 0, "number of splits scanned at once")
		maxRecordSize = fs.Int("max-record-size", 0, "fail records larger than this many bytes (0 = unlimited)")
		output        = fs.String("out", "", "record file to write; raw lines to stdout when empty")
		compression   = fs.String("compression", "", "record file compression: none, zstd, s2, lz4")
		logLevel      = fs.String("log-level", "", "debug, info, warn or error")
		logFormat     = fs.String("log-format", "", "text or json")
		verify        = fs.Bool("verify", false, "fail if any record is emitted by two splits")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Read(ctx, *configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "start":
			cfg.StartTag = *startTag
		case "end":
			cfg.EndTag = *endTag
		case "split-size":
			cfg.SplitSize = *splitSize
		case "concurrency":
			cfg.Concurrency = *concurrency
		case "max-record-size":
			cfg.MaxRecordSize = *maxRecordSize
		case "out":
			cfg.Output = *output
		case "compression":
			cfg.Compression = *compression
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		case "verify":
			cfg.VerifySplits = *verify
		}
	})

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Input == "" {
		return nil, errNoInput
	}

	return cfg, nil
}

func writeLines(w io.Writer, recs []scanner.Record) error {
	for _, rec := range recs {
		if _, err := w.Write(rec.Value); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}

func writeRecordFile(ctx context.Context, cfg *config.Config, recs []scanner.Record) error {
	ct, err := cfg.CompressionType()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w, err := recordfile.NewWriter(&buf, recordfile.WithCompression(ct))
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	if url.Scheme(cfg.Output, "") == "" {
		return os.WriteFile(cfg.Output, buf.Bytes(), 0o644) //nolint:gosec
	}

	return afs.New().Upload(ctx, cfg.Output, file.DefaultFileOsMode, &buf)
}
