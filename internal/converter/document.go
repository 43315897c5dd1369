package converter

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Registered so rejected inputs can be identified
	"image/jpeg"
	_ "image/png" // Registered so rejected inputs can be identified
	"log/slog"
	"math"
	"time"

	"github.com/jung-kurt/gofpdf"
	_ "golang.org/x/image/bmp"  // Registered so rejected inputs can be identified
	_ "golang.org/x/image/tiff" // Registered so rejected inputs can be identified
	_ "golang.org/x/image/webp" // Registered so rejected inputs can be identified

	"jpeg_to_pdf/internal/pdfinfo"
)

// Identification strings written to every document. Creator is the
// default and can be replaced through Metadata.
const (
	Creator  = "jpeg_to_pdf"
	Producer = "jpeg_to_pdf (gofpdf)"
)

// sizeTolerance is the largest difference in points accepted between the
// page size read back from the output and the embedded image extent.
const sizeTolerance = 0.01

// Document is a PDF under construction. It is discarded after Finalize.
type Document struct {
	pdf    *gofpdf.Fpdf
	lang   string
	images int
	pages  []pdfinfo.PageSize
}

// Image is a JPEG registered inside a Document.
type Image struct {
	name   string
	width  float64
	height float64
}

// Size returns the image extent in points at scale 1.0.
func (img *Image) Size() (width, height float64) {
	return img.width, img.height
}

// NewDocument creates an empty document carrying the given metadata.
// The title is meta.Title when set, otherwise defaultTitle.
func NewDocument(defaultTitle string, meta Metadata, now time.Time) *Document {
	// "pt" makes one image pixel one user unit; page sizes are set per page.
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	creator := Creator
	if meta.Creator != "" {
		creator = meta.Creator
	}
	pdf.SetCreator(creator, true)
	pdf.SetProducer(Producer, true)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)

	title := defaultTitle
	if meta.Title != "" {
		title = meta.Title
	}
	pdf.SetTitle(title, true)

	if meta.Author != "" {
		pdf.SetAuthor(meta.Author, true)
	}
	if meta.Subject != "" {
		pdf.SetSubject(meta.Subject, true)
	}
	if len(meta.Keywords) > 0 {
		pdf.SetKeywords(meta.keywords(), true)
	}

	slog.Debug("Created PDF document", "title", title, "author", meta.Author, "language", meta.Language, "keywords", len(meta.Keywords))
	return &Document{pdf: pdf, lang: meta.Language}
}

// EmbedJPEG decodes data as a JPEG and registers it in the document.
// Any decode failure returns an *ImageFormatError and leaves the document
// untouched.
func (d *Document) EmbedJPEG(data []byte) (*Image, error) {
	// gofpdf only inspects the JPEG header, so decode fully to catch
	// truncated or corrupt scan data before anything is registered.
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		return nil, &ImageFormatError{Detected: detectFormat(data), Err: err}
	}

	name := fmt.Sprintf("image%d", d.images)
	info := d.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "JPG", ReadDpi: false}, bytes.NewReader(data))
	if d.pdf.Err() {
		err := d.pdf.Error()
		d.pdf.ClearError()
		return nil, &ImageFormatError{Detected: "jpeg", Err: err}
	}
	d.images++

	w, h := info.Extent()
	slog.Debug("Embedded JPEG", "name", name, "width", w, "height", h, "bytes", len(data))
	return &Image{name: name, width: w, height: h}, nil
}

// AddFittedPage appends one page sized exactly to img and draws img over
// the whole page.
func (d *Document) AddFittedPage(img *Image) error {
	w, h := img.Size()

	d.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
	if d.pdf.Err() {
		return fmt.Errorf("%w: adding page: %v", ErrSerialize, d.pdf.Error())
	}

	d.pdf.ImageOptions(img.name, 0, 0, w, h, false, gofpdf.ImageOptions{ImageType: "JPG"}, 0, "")
	if d.pdf.Err() {
		return fmt.Errorf("%w: placing image: %v", ErrSerialize, d.pdf.Error())
	}

	d.pages = append(d.pages, pdfinfo.PageSize{Width: w, Height: h})
	slog.Debug("Added fitted page", "page", len(d.pages), "width", w, "height", h)
	return nil
}

// PageCount returns the number of pages added so far.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Finalize serializes the document and checks that the result parses back
// with the pages that were added. The document must not be used afterwards.
func (d *Document) Finalize() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	data := buf.Bytes()

	// gofpdf has no catalog /Lang support; it is added afterwards.
	if d.lang != "" {
		withLang, err := pdfinfo.SetLanguage(data, d.lang)
		if err != nil {
			return nil, fmt.Errorf("%w: setting language: %v", ErrSerialize, err)
		}
		data = withLang
	}

	if err := d.verify(data); err != nil {
		return nil, err
	}
	slog.Debug("Serialized PDF", "bytes", len(data), "pages", len(d.pages))
	return data, nil
}

func (d *Document) verify(data []byte) error {
	info, err := pdfinfo.Read(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	if len(info.Pages) != len(d.pages) {
		return fmt.Errorf("%w: output has %d pages, expected %d", ErrSerialize, len(info.Pages), len(d.pages))
	}
	for i, want := range d.pages {
		got := info.Pages[i]
		if math.Abs(got.Width-want.Width) > sizeTolerance || math.Abs(got.Height-want.Height) > sizeTolerance {
			return fmt.Errorf("%w: page %d is %.2fx%.2f, expected %.2fx%.2f",
				ErrSerialize, i+1, got.Width, got.Height, want.Width, want.Height)
		}
	}
	return nil
}

// jpegMagic starts every JPEG stream (SOI marker then the next marker).
var jpegMagic = []byte{0xFF, 0xD8, 0xFF}

// detectFormat names the image format of data, or returns "" when no
// registered decoder recognizes it. Data with a JPEG signature is reported
// as "jpeg" even when its header is too damaged to decode.
func detectFormat(data []byte) string {
	if bytes.HasPrefix(data, jpegMagic) {
		return "jpeg"
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return format
}
