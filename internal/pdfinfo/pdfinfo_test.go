package pdfinfo

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jung-kurt/gofpdf"
)

func samplePDF(t *testing.T, withMetadata bool) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "pt", "A4", "")
	if withMetadata {
		pdf.SetTitle("Résumé", true)
		pdf.SetAuthor("Ada", true)
		pdf.SetKeywords("alpha, beta", true)
	}
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: 300, Ht: 200})
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: 120, Ht: 480})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("Failed to build sample PDF: %v", err)
	}
	return buf.Bytes()
}

func TestRead_PagesAndMetadata(t *testing.T) {
	data, err := SetLanguage(samplePDF(t, true), "fr-FR")
	if err != nil {
		t.Fatalf("SetLanguage() error = %v", err)
	}
	info, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := []PageSize{{300, 200}, {120, 480}}
	approx := cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 0.01 })
	if diff := cmp.Diff(want, info.Pages, approx); diff != "" {
		t.Errorf("page sizes mismatch (-want +got):\n%s", diff)
	}

	if info.Title != "Résumé" {
		t.Errorf("Title = %q, want %q", info.Title, "Résumé")
	}
	if info.Author != "Ada" {
		t.Errorf("Author = %q, want %q", info.Author, "Ada")
	}
	if info.Language != "fr-FR" {
		t.Errorf("Language = %q, want %q", info.Language, "fr-FR")
	}
	if diff := cmp.Diff([]string{"alpha", "beta"}, info.KeywordList()); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
	if info.Present("Subject") {
		t.Errorf("Subject reported present with value %q", info.Subject)
	}
}

func TestRead_NoOptionalMetadata(t *testing.T) {
	info, err := Read(bytes.NewReader(samplePDF(t, false)))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	for _, key := range []string{"Author", "Subject", "Keywords", "Lang"} {
		if info.Present(key) {
			t.Errorf("%s unexpectedly present", key)
		}
	}
}

func TestRead_PageCountFromFreshOutput(t *testing.T) {
	// Freshly serialized output has not had its page tree walked yet.
	for _, withMetadata := range []bool{false, true} {
		info, err := Read(bytes.NewReader(samplePDF(t, withMetadata)))
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(info.Pages) != 2 {
			t.Errorf("withMetadata=%v: got %d pages, want 2", withMetadata, len(info.Pages))
		}
	}
}

func TestSetLanguage(t *testing.T) {
	tests := []string{"en-US", "en_gb", "english", "português", "日本語"}
	for _, lang := range tests {
		data, err := SetLanguage(samplePDF(t, true), lang)
		if err != nil {
			t.Fatalf("SetLanguage(%q) error = %v", lang, err)
		}
		info, err := Read(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Read() after SetLanguage(%q) error = %v", lang, err)
		}
		if !info.Present("Lang") || info.Language != lang {
			t.Errorf("Language = %q (present %v), want %q", info.Language, info.Present("Lang"), lang)
		}
		if info.Title != "Résumé" || info.Author != "Ada" {
			t.Errorf("SetLanguage(%q) lost metadata: title %q, author %q", lang, info.Title, info.Author)
		}
		if len(info.Pages) != 2 {
			t.Errorf("SetLanguage(%q) left %d pages, want 2", lang, len(info.Pages))
		}
	}
}

func TestSetLanguage_Garbage(t *testing.T) {
	_, err := SetLanguage([]byte("definitely not a pdf"), "en")
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("expected ErrUnreadable, got %v", err)
	}
}

func TestRead_Garbage(t *testing.T) {
	_, err := Read(strings.NewReader("definitely not a pdf"))
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("expected ErrUnreadable, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, samplePDF(t, false), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(info.Pages) != 2 {
		t.Errorf("got %d pages, want 2", len(info.Pages))
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"one", []string{"one"}},
		{" a , b,,c ,", []string{"a", "b", "c"}},
		{"red car, blue sky", []string{"red car", "blue sky"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitKeywords(tt.in)); diff != "" {
			t.Errorf("SplitKeywords(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
