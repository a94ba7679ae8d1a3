// Package convert turns statistical-language data files into tabular
// artifacts.
package convert

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/AndreyAkinshin/simregress/internal/artifact"
	"github.com/AndreyAkinshin/simregress/internal/errors"
	"github.com/AndreyAkinshin/simregress/internal/frame"
	"github.com/AndreyAkinshin/simregress/internal/rstat"
)

// Default option values.
const (
	DefaultPattern = "*.qs"
	TextExt        = ".csv"
)

// Options configures a Converter.
type Options struct {
	OutDir      string // Directory receiving artifacts
	Pattern     string // Glob for directory scans
	ArtifactExt string // Artifact extension, with leading dot
	PreviewRows int    // Rows included in the logged preview
	KeepGoing   bool   // Continue with the next file after a failure
}

// Result describes one converted file.
type Result struct {
	Source   string
	Artifact string
	Rows     int
	Columns  int
}

// Converter runs the source → CSV → table → artifact pipeline.
type Converter struct {
	source rstat.Source
	opts   Options
	log    zerolog.Logger
}

// New creates a Converter. Zero option values take their defaults.
func New(source rstat.Source, opts Options, log zerolog.Logger) *Converter {
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if opts.ArtifactExt == "" {
		opts.ArtifactExt = artifact.DefaultExt
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = frame.DefaultPreviewRows
	}
	return &Converter{source: source, opts: opts, log: log}
}

// ConvertDir converts every file in dir matching the pattern.
func (c *Converter) ConvertDir(ctx context.Context, dir string) ([]Result, error) {
	search := filepath.Join(dir, c.opts.Pattern)
	c.log.Info().Str("search", search).Msg("searching for files")

	files, err := filepath.Glob(search)
	if err != nil {
		return nil, errors.Configf("invalid pattern %q: %v", c.opts.Pattern, err)
	}
	files = regularFiles(files)
	if len(files) == 0 {
		c.log.Error().Str("search", search).Msg("no input files were found")
		return nil, errors.MissingInput(search, "no input files were found")
	}
	sort.Strings(files)

	var (
		results []Result
		failed  []error
	)
	for _, f := range files {
		res, err := c.ConvertFile(ctx, f)
		if err != nil {
			if !c.opts.KeepGoing {
				return results, err
			}
			failed = append(failed, err)
			continue
		}
		results = append(results, res)
	}
	return results, stderrors.Join(failed...)
}

// ConvertFile converts a single source file.
func (c *Converter) ConvertFile(ctx context.Context, path string) (Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{}, errors.Wrap(err, "resolve path")
	}
	log := c.log.With().Str("file", abs).Logger()

	if strings.EqualFold(filepath.Ext(abs), TextExt) {
		log.Error().Msg("source has the intermediate file extension")
		return Result{}, errors.Configf("source %s has the intermediate extension %s", abs, TextExt)
	}

	out := artifact.PathFor(c.opts.OutDir, abs, c.opts.ArtifactExt)
	log.Info().Str("output", out).Msg("processing file")

	text, err := c.exportText(ctx, log, abs)
	if err != nil {
		return Result{}, err
	}

	log.Debug().Str("text", text).Msg("reading intermediate table")
	tbl, err := frame.ReadCSVFile(text)
	if err != nil {
		log.Error().Err(err).Msg("failed to read intermediate table")
		discardText(log, text)
		return Result{}, errors.Wrap(err, "read intermediate table")
	}
	log.Debug().Msgf("table head:\n%s", tbl.Preview(c.opts.PreviewRows))

	if err := c.writeArtifact(log, out, tbl); err != nil {
		discardText(log, text)
		return Result{}, err
	}

	if err := os.Remove(text); err != nil {
		log.Error().Err(err).Str("text", text).Msg("failed to remove intermediate file")
		return Result{}, errors.Wrap(err, "remove intermediate file")
	}

	log.Info().Str("output", out).Int("rows", tbl.NumRows()).Msg("conversion complete")
	return Result{Source: abs, Artifact: out, Rows: tbl.NumRows(), Columns: tbl.NumCols()}, nil
}

// exportText reads the source through the runtime and writes it next to the
// source as CSV, returning the CSV path.
func (c *Converter) exportText(ctx context.Context, log zerolog.Logger, source string) (string, error) {
	if info, err := os.Stat(source); err != nil || info.IsDir() {
		log.Error().Msg("requested file does not exist")
		return "", errors.MissingInput(source, "requested file does not exist")
	}

	log.Info().Msg("reading statistical data file")
	data, err := c.source.Read(ctx, source)
	if err != nil {
		log.Error().Err(err).Msg("failed to read data file")
		return "", err
	}
	log.Info().Msgf("data head:\n%s", data.Head(c.opts.PreviewRows))

	text := swapExt(source, TextExt)
	log.Info().Str("text", text).Msg("writing data to CSV file")
	if err := data.WriteText(ctx, text); err != nil {
		log.Error().Err(err).Msg("failed to write CSV file")
		discardText(log, text)
		return "", err
	}

	info, err := os.Stat(text)
	if err != nil {
		log.Error().Err(err).Str("text", text).Msg("CSV file was not written")
		return "", errors.MissingInput(text, "intermediate file was not written")
	}
	if info.Size() == 0 {
		log.Error().Str("text", text).Msg("failed to write data to file, this file is empty")
		discardText(log, text)
		return "", errors.EmptyOutput(text)
	}
	return text, nil
}

func (c *Converter) writeArtifact(log zerolog.Logger, out string, tbl *frame.Table) error {
	if err := os.MkdirAll(c.opts.OutDir, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	log.Info().Str("output", out).Msg("writing artifact")
	if err := artifact.Write(out, tbl); err != nil {
		log.Error().Err(err).Str("output", out).Msg("failed to write artifact")
		return errors.ArtifactWrite(out, err)
	}
	if _, err := os.Stat(out); err != nil {
		log.Error().Str("output", out).Msg("artifact file does not exist after write")
		return errors.ArtifactWrite(out, err)
	}
	return nil
}

// discardText removes an intermediate file left by a failed conversion.
func discardText(log zerolog.Logger, text string) {
	if err := os.Remove(text); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("text", text).Msg("failed to remove intermediate file")
	}
}

func swapExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func regularFiles(paths []string) []string {
	files := paths[:0]
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			files = append(files, p)
		}
	}
	return files
}

// Describe formats a result for summaries.
func (r Result) Describe() string {
	return fmt.Sprintf("%s → %s (%d rows x %d columns)", filepath.Base(r.Source), r.Artifact, r.Rows, r.Columns)
}
