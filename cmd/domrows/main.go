// Command domrows converts HTML documents to element row sets and back.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/dgallion1/domrows/internal/config"
)

const usage = `Usage: domrows [--verbose] <command> [flags] <args>

Commands:
  linearize [--format csv|tsv|json] <source> <rows-out>
      Turn an HTML, Markdown, text, DOCX or PDF document into a row set.
  build [--output pretty|compact|minify] <rows-in> <html-out>
      Rebuild an HTML tree from a row set.
  roundtrip [--output mode] <source>
      Linearize, rebuild and compare with the source tree.

Use "-" as an output path to write to stdout.
`

func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout, os.Stderr))
}

// runMain runs the CLI and returns the process exit code.
func runMain(args []string, stdout, stderr io.Writer) int {
	err := run(args, stdout, stderr)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprint(stdout, usage)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(stderr, "domrows: %v\n", err)
		if errors.Is(err, ErrUsage) {
			fmt.Fprint(stderr, usage)
		}
	}
	return exitCodeFor(err)
}

func run(args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("domrows", flag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(io.Discard)
	verbose := global.BoolP("verbose", "v", false, "log debug output to stderr")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if global.NArg() == 0 {
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	app := &app{cfg: cfg, stdout: stdout, stderr: stderr, verbose: *verbose}

	switch cmd {
	case "linearize":
		return app.linearize(rest)
	case "build":
		return app.build(rest)
	case "roundtrip":
		return app.roundtrip(rest)
	case "help":
		return flag.ErrHelp
	}
	return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
}

// newLogger writes text logs to stderr at the configured level, or debug
// when verbose.
func (a *app) newLogger() *slog.Logger {
	level := a.cfg.SlogLevel()
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}
