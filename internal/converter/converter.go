// Package converter turns a single JPEG file into a single-page PDF whose
// page is exactly the size of the image.
package converter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jpeg_to_pdf/internal/pathutil"
)

// State is a step of the conversion pipeline. States are entered strictly
// in declaration order; StateAborted is terminal and reachable from any
// other state.
type State int

const (
	StateIdle State = iota
	StateInputValidated
	StateOutputResolved
	StateDocumentCreated
	StateImageEmbedded
	StatePageComposed
	StateSerialized
	StateWritten
	StateDone
	StateAborted
)

var stateNames = [...]string{
	StateIdle:            "idle",
	StateInputValidated:  "input-validated",
	StateOutputResolved:  "output-resolved",
	StateDocumentCreated: "document-created",
	StateImageEmbedded:   "image-embedded",
	StatePageComposed:    "page-composed",
	StateSerialized:      "serialized",
	StateWritten:         "written",
	StateDone:            "done",
	StateAborted:         "aborted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Options are the unvalidated inputs of one conversion, as given on the
// command line.
type Options struct {
	InputPath  string
	OutputPath string
	Title      string
	Author     string
	Subject    string
	Creator    string
	Language   string
	Keywords   string // comma separated
	Force      bool
	Normalize  bool
}

// Request is a validated conversion with absolute, sanitized paths.
type Request struct {
	InputPath  string
	OutputPath string
	Metadata   Metadata
	Force      bool
	Normalize  bool
}

// UI is the user-facing side of a conversion: it is told about every state
// transition and answers the overwrite question.
type UI interface {
	Progress(state State, text string)
	Confirm(prompt string) (bool, error)
}

// Result describes a conversion. On failure State is StateAborted and
// Reached is the last state that completed.
type Result struct {
	Request Request
	State   State
	Reached State
	Width   float64
	Height  float64
	Bytes   int
}

// Run executes the whole pipeline for opts. Every failure aborts the run;
// nothing is retried and nothing is written unless every earlier step
// succeeded. A cancelled ctx or a declined overwrite yields
// pathutil.ErrUserCancelled.
func Run(ctx context.Context, opts Options, ui UI) (*Result, error) {
	c := &conversion{ui: ui, res: &Result{State: StateIdle}}
	if err := c.run(ctx, opts); err != nil {
		c.res.Reached = c.res.State
		c.res.State = StateAborted
		slog.Debug("Conversion aborted", "reached", c.res.Reached, "error", err)
		return c.res, err
	}
	return c.res, nil
}

type conversion struct {
	ui  UI
	res *Result
}

// enter records a completed transition and reports it.
func (c *conversion) enter(s State, text string) {
	c.res.State = s
	slog.Debug("Conversion state", "state", s.String(), "detail", text)
	c.ui.Progress(s, text)
}

func (c *conversion) run(ctx context.Context, opts Options) error {
	meta := opts.metadata()

	if err := checkpoint(ctx); err != nil {
		return err
	}
	input, err := pathutil.ValidateInput(opts.InputPath)
	if err != nil {
		return err
	}
	c.enter(StateInputValidated, "Reading "+filepath.Base(input))

	if err := checkpoint(ctx); err != nil {
		return err
	}
	output, err := pathutil.ResolveOutput(input, pathutil.OutputOptions{
		Explicit:  opts.OutputPath,
		Title:     strings.TrimSpace(meta.Title),
		Normalize: opts.Normalize,
		Force:     opts.Force,
	}, c.ui.Confirm)
	if err != nil {
		return err
	}
	req := Request{
		InputPath:  input,
		OutputPath: output,
		Metadata:   meta,
		Force:      opts.Force,
		Normalize:  opts.Normalize,
	}
	c.res.Request = req
	c.enter(StateOutputResolved, "Output "+output)

	if err := checkpoint(ctx); err != nil {
		return err
	}
	data, err := os.ReadFile(req.InputPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadFile, err)
	}
	base := filepath.Base(req.InputPath)
	doc := NewDocument(strings.TrimSuffix(base, filepath.Ext(base)), req.Metadata, time.Now())
	c.enter(StateDocumentCreated, "Creating PDF document")

	if err := checkpoint(ctx); err != nil {
		return err
	}
	img, err := doc.EmbedJPEG(data)
	if err != nil {
		return err
	}
	c.res.Width, c.res.Height = img.Size()
	c.enter(StateImageEmbedded, fmt.Sprintf("Embedded %.0fx%.0f image", c.res.Width, c.res.Height))

	if err := checkpoint(ctx); err != nil {
		return err
	}
	if err := doc.AddFittedPage(img); err != nil {
		return err
	}
	c.enter(StatePageComposed, "Composed page")

	if err := checkpoint(ctx); err != nil {
		return err
	}
	out, err := doc.Finalize()
	if err != nil {
		return err
	}
	c.res.Bytes = len(out)
	c.enter(StateSerialized, fmt.Sprintf("Serialized %d bytes", len(out)))

	// Last point at which an interrupt can stop the run before the write.
	if err := checkpoint(ctx); err != nil {
		return err
	}
	if err := WriteFile(req.OutputPath, out); err != nil {
		return err
	}
	c.enter(StateWritten, "Wrote "+req.OutputPath)

	c.enter(StateDone, "Done")
	slog.Info("Converted JPEG to PDF", "input", req.InputPath, "output", req.OutputPath, "width", c.res.Width, "height", c.res.Height)
	return nil
}

// metadata keeps the text fields exactly as given so they read back
// unchanged; only surrounding space is removed from the language tag.
func (o Options) metadata() Metadata {
	lang := strings.TrimSpace(o.Language)
	CheckLanguage(lang)
	return Metadata{
		Title:    o.Title,
		Author:   o.Author,
		Subject:  o.Subject,
		Creator:  o.Creator,
		Language: lang,
		Keywords: ParseKeywords(o.Keywords),
	}
}

func checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", pathutil.ErrUserCancelled, err)
	}
	return nil
}
