package ocr

import (
	"context"
	"image"

	"github.com/mathiasimmer/pyocr/nest"
)

// Canonical hierarchy levels, coarsest to finest. WordCursor serves the
// first four; symbol is reserved for iterator sources that expose
// per-glyph results.
const (
	LevelBlock     nest.Level = "block"
	LevelParagraph nest.Level = "paragraph"
	LevelLine      nest.Level = "line"
	LevelWord      nest.Level = "word"
	LevelSymbol    nest.Level = "symbol"
)

// ImageFormat identifies the content type of an OCR input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatTIFF ImageFormat = "image/tiff"
)

// Region describes a rectangular area in pixel coordinates with the origin in
// the upper-left corner of the image.
type Region struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// IsEmpty reports whether the region has non-positive dimensions.
func (r Region) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Rect converts the region to integer pixel bounds.
func (r Region) Rect() image.Rectangle {
	return image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
}

// RegionFromRect converts integer pixel bounds to a region.
func RegionFromRect(r image.Rectangle) Region {
	return Region{
		X:      float64(r.Min.X),
		Y:      float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}

// Input encapsulates a single image submitted for OCR.
type Input struct {
	// ID is an optional caller-provided identifier that is echoed back in the
	// corresponding Result.
	ID string
	// Image is the encoded image payload in the format specified by Format.
	Image []byte
	// Format declares the image content type (e.g., image/png).
	Format ImageFormat
	// PageIndex links the input back to the zero-based page index of a
	// multi-page source, if there is one.
	PageIndex int
	// DPI carries the effective dots-per-inch for the image. Providers such as
	// Tesseract use this for scaling and layout heuristics; zero means unknown.
	DPI int
	// Languages is a list of language hints (e.g., "eng", "deu") that
	// providers can use to select trained data.
	Languages []string
	// Region restricts recognition to a subsection of the image. Nil means the
	// full image should be processed.
	Region *Region
	// Metadata allows callers to pass through engine-specific knobs (e.g.,
	// "tessedit_pageseg_mode" for Tesseract) without hard-coding them into the
	// API surface.
	Metadata map[string]string
}

// TextWord represents a single recognized token.
type TextWord struct {
	Text       string
	Bounds     Region
	Confidence float64
}

// TextLine groups words that share a baseline.
type TextLine struct {
	Text       string
	Bounds     Region
	Words      []TextWord
	Confidence float64
}

// TextParagraph groups consecutive lines of one paragraph.
type TextParagraph struct {
	Text       string
	Bounds     Region
	Lines      []TextLine
	Confidence float64
}

// TextBlock aggregates the paragraphs of one layout block (column,
// heading, caption, etc).
type TextBlock struct {
	Text       string
	Bounds     Region
	Paragraphs []TextParagraph
	Confidence float64
}

// Result captures OCR output for a single input image.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// PlainText contains the linearized text extracted from the image.
	PlainText string
	// Blocks carries the structured layout with positional metadata.
	Blocks []TextBlock
	// Language indicates the dominant language detected, if known.
	Language string
}

// Engine is the simplest OCR provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// BatchEngine handles multiple images in a single call, enabling providers that
// amortize setup costs or remote round-trips.
type BatchEngine interface {
	Engine
	RecognizeBatch(ctx context.Context, inputs []Input) ([]Result, error)
}
