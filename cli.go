package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	"jpeg_to_pdf/internal/config"
	"jpeg_to_pdf/internal/converter"
	"jpeg_to_pdf/internal/pathutil"
	"jpeg_to_pdf/internal/pdfinfo"
	"jpeg_to_pdf/internal/ui"
)

const programName = "jpeg_to_pdf"

// Sentinel errors for CLI usage.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
)

// run dispatches args to a subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	if len(args) == 0 {
		printUsage(stderr)
		return ExitFailure
	}

	var err error
	switch args[0] {
	case "convert", "c":
		err = runConvert(ctx, args[1:], stdin, stdout, stderr, getenv)
	case "info", "i":
		err = runInfo(args[1:], stdout, stderr)
	case "version", "--version":
		fmt.Fprintf(stdout, "%s %s\n", programName, Version)
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		err = fmt.Errorf("%w %q", ErrUnknownCommand, args[0])
		fmt.Fprintln(stderr, err)
		printUsage(stderr)
	}
	return exitCodeFor(err)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `%[1]s - convert a JPEG image into a single-page PDF

Usage:
  %[1]s convert <image.jpg> [flags]   (alias: c)
  %[1]s info <file.pdf>               (alias: i)
  %[1]s version

Run "%[1]s convert --help" for conversion flags.
`, programName)
}

// runConvert parses the convert flags and runs one conversion, reporting
// progress and the outcome through the terminal prompter. Errors are
// reported here; the caller only maps them to an exit code.
func runConvert(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) error {
	var f convertFlags
	fs := newConvertFlagSet(&f, stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s convert <image.jpg> [flags]\n\nFlags:\n%s", programName, fs.FlagUsages())
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		fmt.Fprintln(stderr, err)
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		err := fmt.Errorf("%w: expected exactly one input path, got %d", ErrUsage, fs.NArg())
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return err
	}

	configureLogging(stderr, f.verbose)

	cfg, err := loadConfig(f.config, getenv)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return err
	}
	opts := f.toOptions(fs, fs.Arg(0), cfg)

	term := ui.NewTerminal(stdin, stdout)
	term.Intro(programName)
	spin := term.Spinner()
	spin.Start("Converting " + opts.InputPath)

	res, err := converter.Run(ctx, opts, &progress{prompter: term, spinner: spin})
	if err != nil {
		spin.Stop("Conversion stopped")
		term.Cancel(userMessage(err))
		return err
	}

	spin.Stop(fmt.Sprintf("Converted %.0fx%.0f image", res.Width, res.Height))
	term.Success(fmt.Sprintf("Created %s (%d bytes)", res.Request.OutputPath, res.Bytes))
	term.Outro("Done")
	return nil
}

// runInfo prints page sizes and metadata of a PDF.
func runInfo(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		err := fmt.Errorf("%w: usage: %s info <file.pdf>", ErrUsage, programName)
		fmt.Fprintln(stderr, err)
		return err
	}

	info, err := pdfinfo.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s\n", args[0])
	fmt.Fprintf(tw, "Pages:\t%d\n", len(info.Pages))
	for i, p := range info.Pages {
		fmt.Fprintf(tw, "Page %d:\t%.2f x %.2f pt\n", i+1, p.Width, p.Height)
	}
	for _, field := range []struct{ key, label, value string }{
		{"Title", "Title", info.Title},
		{"Author", "Author", info.Author},
		{"Subject", "Subject", info.Subject},
		{"Lang", "Language", info.Language},
		{"Keywords", "Keywords", info.Keywords},
		{"Creator", "Creator", info.Creator},
		{"Producer", "Producer", info.Producer},
	} {
		if info.Present(field.key) {
			fmt.Fprintf(tw, "%s:\t%s\n", field.label, field.value)
		}
	}
	return tw.Flush()
}

func loadConfig(flagPath string, getenv func(string) string) (*config.Config, error) {
	path := config.Resolve(flagPath, getenv)
	if path == "" {
		return nil, nil
	}
	slog.Debug("Loading config", "path", path)
	return config.Load(path)
}

// configureLogging sends slog output to w; only warnings and errors are
// shown unless verbose is set.
func configureLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// userMessage turns a conversion error into the single line shown to the user.
func userMessage(err error) string {
	var formatErr *converter.ImageFormatError
	switch {
	case errors.Is(err, pathutil.ErrUserCancelled):
		return "Operation cancelled."
	case errors.Is(err, pathutil.ErrNotFound):
		return fmt.Sprintf("File not found: %v", err)
	case errors.Is(err, pathutil.ErrIsDirectory):
		return fmt.Sprintf("Expected a file: %v", err)
	case errors.Is(err, pathutil.ErrNotRegular):
		return fmt.Sprintf("Expected a regular file: %v", err)
	case errors.As(err, &formatErr):
		return fmt.Sprintf("Not a valid JPEG: %v", formatErr)
	case errors.Is(err, converter.ErrWriteFile):
		return fmt.Sprintf("Could not write output: %v", err)
	default:
		return err.Error()
	}
}

// progress forwards pipeline transitions to the spinner.
type progress struct {
	prompter ui.Prompter
	spinner  ui.Spinner
}

func (p *progress) Progress(_ converter.State, text string) {
	p.spinner.Message(text)
}

func (p *progress) Confirm(prompt string) (bool, error) {
	return p.prompter.Confirm(prompt)
}
