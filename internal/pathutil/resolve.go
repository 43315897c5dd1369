package pathutil

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for path resolution.
var (
	ErrNotFound      = errors.New("input file not found")
	ErrIsDirectory   = errors.New("path is a directory")
	ErrNotRegular    = errors.New("input is not a regular file")
	ErrUserCancelled = errors.New("operation cancelled by user")
)

const pdfExt = ".pdf"

// ConfirmFunc asks the user a yes/no question.
// A non-nil error means the prompt itself was aborted.
type ConfirmFunc func(prompt string) (bool, error)

// OutputOptions controls how the output path is derived.
type OutputOptions struct {
	Explicit  string // --output, takes precedence over Title
	Title     string // used as the file name when Explicit is empty
	Normalize bool
	Force     bool // replace an existing file without asking
}

// ValidateInput resolves path to an absolute path and checks that it names
// an existing regular file.
func ValidateInput(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, abs)
		}
		return "", fmt.Errorf("checking %s: %w", abs, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrIsDirectory, abs)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotRegular, abs)
	}
	return abs, nil
}

// OutputPath derives the sanitized, absolute output path for inputAbs.
// Precedence is: explicit output, then <input dir>/<title>.pdf, then
// <input dir>/<input stem>.pdf.
func OutputPath(inputAbs string, opts OutputOptions) (string, error) {
	dir := filepath.Dir(inputAbs)

	switch {
	case opts.Explicit != "":
		abs, err := filepath.Abs(opts.Explicit)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", opts.Explicit, err)
		}
		if filepath.Ext(abs) == "" {
			abs += pdfExt
		}
		return SanitizePath(abs, opts.Normalize), nil
	case opts.Title != "":
		name := sanitizeStem(opts.Title, opts.Normalize, len(pdfExt))
		return filepath.Join(dir, name+pdfExt), nil
	default:
		base := filepath.Base(inputAbs)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		return SanitizePath(filepath.Join(dir, stem+pdfExt), opts.Normalize), nil
	}
}

// ResolveOutput derives the output path and, when a file already exists
// there and Force is not set, asks confirm before allowing it to be replaced.
// A declined or aborted prompt yields ErrUserCancelled.
func ResolveOutput(inputAbs string, opts OutputOptions, confirm ConfirmFunc) (string, error) {
	out, err := OutputPath(inputAbs, opts)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(out)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return out, nil
	case err != nil:
		return "", fmt.Errorf("checking %s: %w", out, err)
	case info.IsDir():
		return "", fmt.Errorf("%w: %s", ErrIsDirectory, out)
	}

	if opts.Force {
		slog.Debug("Replacing existing output without confirmation", "path", out)
		return out, nil
	}
	if confirm == nil {
		return "", fmt.Errorf("%w: %s already exists", ErrUserCancelled, out)
	}

	ok, err := confirm(fmt.Sprintf("%s already exists. Overwrite?", out))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUserCancelled, err)
	}
	if !ok {
		return "", fmt.Errorf("%w: kept existing %s", ErrUserCancelled, out)
	}
	return out, nil
}
