// Package paginate places raster images on fixed-size PDF pages.
package paginate

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/jung-kurt/gofpdf"
)

type Mode string

const (
	// ModeOnePerPage starts the image on a new page at the top, scaled to the
	// page width. An image taller than the page is band sliced instead, so no
	// part of it is drawn past the page bottom.
	ModeOnePerPage Mode = "onePerPage"
	// ModeBandSliced redraws the same image on successive pages, shifted up by
	// one page height each time, and lets the page boundary clip it.
	ModeBandSliced Mode = "bandSliced"
	// ModeAuto picks ModeOnePerPage when the scaled image fits on a page.
	ModeAuto Mode = "auto"
)

// tolerance absorbs float rounding so a band never lands on an empty page.
const tolerance = 0.01

var (
	ErrFinalized     = errors.New("paginate: document already finalized")
	ErrEmptyDocument = errors.New("paginate: document has no pages")
	ErrEmptyImage    = errors.New("paginate: image has no pixels")
)

type Format struct {
	Name   string
	Width  float64
	Height float64
}

// A4 in millimetres.
var A4 = Format{Name: "A4", Width: 210, Height: 297}

// Placement is one image drawn on a page, in millimetres from the top edge.
type Placement struct {
	Image  int
	Y      float64
	Width  float64
	Height float64
}

type Page struct {
	Placements []Placement
}

// Document is an append-only sequence of pages. It is not safe for
// concurrent use.
type Document struct {
	pdf       *gofpdf.Fpdf
	format    Format
	pages     []Page
	images    int
	finalized bool
}

func NewDocument(format Format) *Document {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: format.Width, Ht: format.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(true)
	return &Document{pdf: pdf, format: format}
}

func (d *Document) Format() Format {
	return d.format
}

// Pages returns a copy of the page layout appended so far.
func (d *Document) Pages() []Page {
	out := make([]Page, len(d.pages))
	for i, p := range d.pages {
		out[i] = Page{Placements: append([]Placement(nil), p.Placements...)}
	}
	return out
}

func (d *Document) PageCount() int {
	return len(d.pages)
}

// ScaledHeight is the height in millimetres of img drawn at the page width.
func (d *Document) ScaledHeight(img *domain.RasterImage) float64 {
	return float64(img.Height) * d.format.Width / float64(img.Width)
}

// AppendImage draws img starting on a new page. The first image of the
// document uses the first page.
func (d *Document) AppendImage(img *domain.RasterImage, mode Mode) error {
	if d.finalized {
		return ErrFinalized
	}
	if img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Data) == 0 {
		return ErrEmptyImage
	}

	switch mode {
	case ModeOnePerPage, ModeBandSliced, ModeAuto:
	default:
		return fmt.Errorf("paginate: unknown mode %q", mode)
	}

	height := d.ScaledHeight(img)
	if mode != ModeBandSliced {
		mode = ModeOnePerPage
		if height > d.format.Height+tolerance {
			mode = ModeBandSliced
		}
	}

	name := fmt.Sprintf("img%d", d.images)
	opts := gofpdf.ImageOptions{ImageType: imageType(img.Format), ReadDpi: false}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("failed to register image: %w", err)
	}

	if mode == ModeOnePerPage {
		d.place(name, opts, 0, height)
	} else {
		position := 0.0
		remaining := height
		d.place(name, opts, position, height)
		remaining -= d.format.Height
		for remaining > tolerance {
			position -= d.format.Height
			d.place(name, opts, position, height)
			remaining -= d.format.Height
		}
	}

	d.images++
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("failed to place image: %w", err)
	}
	return nil
}

// BandCount is the number of pages ModeBandSliced uses for img.
func (d *Document) BandCount(img *domain.RasterImage) int {
	n := int(math.Ceil((d.ScaledHeight(img) - tolerance) / d.format.Height))
	if n < 1 {
		return 1
	}
	return n
}

func (d *Document) place(name string, opts gofpdf.ImageOptions, y, height float64) {
	d.pdf.AddPage()
	d.pdf.ImageOptions(name, 0, y, d.format.Width, height, false, opts, 0, "")
	d.pages = append(d.pages, Page{Placements: []Placement{{
		Image:  d.images,
		Y:      y,
		Width:  d.format.Width,
		Height: height,
	}}})
}

// Finalize serializes the document. It succeeds at most once.
func (d *Document) Finalize() ([]byte, error) {
	if d.finalized {
		return nil, ErrFinalized
	}
	if len(d.pages) == 0 {
		return nil, ErrEmptyDocument
	}
	d.finalized = true

	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return buf.Bytes(), nil
}

func imageType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "JPG"
	case "gif":
		return "GIF"
	}
	return "PNG"
}
