// Package pdfinfo reads page geometry and document metadata back out of a
// serialized PDF.
package pdfinfo

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ErrUnreadable is returned when the input cannot be parsed as a PDF.
var ErrUnreadable = errors.New("unreadable PDF")

func init() {
	// Never create or read ~/.config/pdfcpu.
	api.DisableConfigDir()
}

// PageSize is a page's media box extent in points.
type PageSize struct {
	Width  float64
	Height float64
}

// Info describes a PDF document. Metadata fields absent from the document
// are empty strings; Present reports which ones were actually set.
type Info struct {
	Pages    []PageSize
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
	Language string

	present map[string]bool
}

// Present reports whether the document info dictionary (or, for "Lang",
// the catalog) carries key.
func (i *Info) Present(key string) bool {
	return i.present[key]
}

// KeywordList splits Keywords on commas and drops empty entries.
func (i *Info) KeywordList() []string {
	return SplitKeywords(i.Keywords)
}

// SplitKeywords splits a comma separated list into trimmed, non-empty tokens.
func SplitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Read parses the PDF in rs.
func Read(rs io.ReadSeeker) (*Info, error) {
	ctx, err := api.ReadContext(rs, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: counting pages: %v", ErrUnreadable, err)
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("%w: reading page sizes: %v", ErrUnreadable, err)
	}
	if len(dims) != ctx.PageCount {
		return nil, fmt.Errorf("%w: page tree lists %d pages, found %d media boxes", ErrUnreadable, ctx.PageCount, len(dims))
	}

	info := &Info{present: map[string]bool{}}
	for _, d := range dims {
		info.Pages = append(info.Pages, PageSize{Width: d.Width, Height: d.Height})
	}

	if err := info.readInfoDict(ctx); err != nil {
		return nil, err
	}
	if err := info.readCatalog(ctx); err != nil {
		return nil, err
	}

	slog.Debug("Read PDF", "pages", len(info.Pages), "title", info.Title)
	return info, nil
}

// SetLanguage returns a copy of the PDF in data whose document catalog
// carries lang as its /Lang entry. The text is written as a hex string,
// UTF-16BE encoded when it is not plain ASCII.
func SetLanguage(data []byte, lang string) ([]byte, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: counting pages: %v", ErrUnreadable, err)
	}
	root, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("%w: catalog: %v", ErrUnreadable, err)
	}
	root["Lang"] = textString(lang)

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	slog.Debug("Set document language", "language", lang, "bytes", buf.Len())
	return buf.Bytes(), nil
}

func textString(s string) types.HexLiteral {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return types.HexLiteral(hex.EncodeToString([]byte(s)))
	}
	b := []byte{0xFE, 0xFF}
	for _, u := range utf16.Encode([]rune(s)) {
		b = binary.BigEndian.AppendUint16(b, u)
	}
	return types.HexLiteral(hex.EncodeToString(b))
}

// ReadFile parses the PDF stored at path.
func ReadFile(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func (i *Info) readInfoDict(ctx *model.Context) error {
	if ctx.Info == nil {
		return nil
	}
	d, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil {
		return fmt.Errorf("%w: info dictionary: %v", ErrUnreadable, err)
	}

	fields := map[string]*string{
		"Title":    &i.Title,
		"Author":   &i.Author,
		"Subject":  &i.Subject,
		"Keywords": &i.Keywords,
		"Creator":  &i.Creator,
		"Producer": &i.Producer,
	}
	for key, dst := range fields {
		s, ok, err := stringEntry(ctx, d, key)
		if err != nil {
			return err
		}
		if ok {
			*dst = s
			i.present[key] = true
		}
	}
	return nil
}

func (i *Info) readCatalog(ctx *model.Context) error {
	root, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("%w: catalog: %v", ErrUnreadable, err)
	}
	s, ok, err := stringEntry(ctx, root, "Lang")
	if err != nil {
		return err
	}
	if ok {
		i.Language = s
		i.present["Lang"] = true
	}
	return nil
}

// stringEntry decodes a text string entry, handling both literal and hex
// encodings as well as UTF-16BE text.
func stringEntry(ctx *model.Context, d types.Dict, key string) (string, bool, error) {
	o, found := d.Find(key)
	if !found {
		return "", false, nil
	}
	o, err := ctx.Dereference(o)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", ErrUnreadable, key, err)
	}

	var s string
	switch v := o.(type) {
	case types.StringLiteral:
		s, err = types.StringLiteralToString(v)
	case types.HexLiteral:
		s, err = types.HexLiteralToString(v)
	case types.Name:
		s = string(v)
	default:
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", ErrUnreadable, key, err)
	}
	return s, true, nil
}
