package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/dgallion1/domrows/internal/config"
	"github.com/dgallion1/domrows/internal/convert"
	"github.com/dgallion1/domrows/internal/render"
	"github.com/dgallion1/domrows/internal/source"
	"github.com/dgallion1/domrows/internal/stats"
	"github.com/dgallion1/domrows/internal/tabular"
)

type app struct {
	cfg     config.Config
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
}

func (a *app) converter() *convert.Converter {
	return &convert.Converter{
		Stats:  stats.NewSet(a.cfg.StatsWindow),
		Source: source.Options{PDFFallbackPdftotext: a.cfg.PDFFallbackPdftotext},
	}
}

// newFlagSet returns a subcommand flag set that also accepts --verbose.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVarP(&a.verbose, "verbose", "v", a.verbose, "log debug output to stderr")
	return fs
}

func parseArgs(fs *flag.FlagSet, args []string, want int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != want {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrUsage, fs.Name(), want, fs.NArg())
	}
	return fs.Args(), nil
}

func (a *app) linearize(args []string) error {
	fs := a.newFlagSet("linearize")
	format := fs.StringP("format", "f", "", "row-set format: csv, tsv or json (default from output extension, else csv)")
	pos, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}
	src, out := pos[0], pos[1]
	log := a.newLogger()

	if *format == "" {
		*format = "csv"
		if ext, ok := tabular.Extensions[strings.ToLower(filepath.Ext(out))]; ok {
			*format = ext
		}
	}
	if _, err := tabular.ForFormat(*format); err != nil {
		return err
	}

	in, err := openInput(src)
	if err != nil {
		return err
	}
	defer in.Close()

	start := time.Now()
	var buf bytes.Buffer
	rows, err := a.converter().LinearizeTo(&buf, in, src, *format)
	if err != nil {
		return err
	}
	if err := writeOutput(out, buf.Bytes(), a.stdout); err != nil {
		return err
	}
	log.Debug("linearized", "source", src, "rows", len(rows), "format", *format, "duration", time.Since(start))
	if out != "-" {
		fmt.Fprintf(a.stderr, "wrote %d rows to %s\n", len(rows), out)
	}
	return nil
}

func (a *app) build(args []string) error {
	fs := a.newFlagSet("build")
	output := fs.StringP("output", "o", a.cfg.OutputMode, "output mode: pretty, compact or minify")
	pos, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}
	src, out := pos[0], pos[1]
	log := a.newLogger()

	mode, err := render.ParseMode(*output)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if !tabular.IsRowSetFile(src) {
		return fmt.Errorf("%w: %s", tabular.ErrUnsupportedFormat, filepath.Ext(src))
	}

	in, err := openInput(src)
	if err != nil {
		return err
	}
	defer in.Close()

	start := time.Now()
	html, err := a.converter().Build(in, src, mode)
	if err != nil {
		return err
	}
	if err := writeOutput(out, html, a.stdout); err != nil {
		return err
	}
	log.Debug("built", "rows", src, "mode", mode, "bytes", len(html), "duration", time.Since(start))
	return nil
}

func (a *app) roundtrip(args []string) error {
	fs := a.newFlagSet("roundtrip")
	output := fs.StringP("output", "o", a.cfg.OutputMode, "output mode for the rebuilt HTML shown with --verbose")
	pos, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}
	src := pos[0]
	log := a.newLogger()

	mode, err := render.ParseMode(*output)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	in, err := openInput(src)
	if err != nil {
		return err
	}
	defer in.Close()

	rt, err := a.converter().RoundTrip(in, src, mode)
	if err != nil {
		return err
	}
	log.Debug("round trip", "source", src, "rows", len(rt.Rows), "matches", rt.Matches)
	if a.verbose {
		a.stderr.Write(rt.HTML)
	}
	if !rt.Matches {
		return fmt.Errorf("%w: %s (%d rows)", ErrRoundTrip, src, len(rt.Rows))
	}
	fmt.Fprintf(a.stdout, "round trip ok: %s (%d rows)\n", src, len(rt.Rows))
	return nil
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}
