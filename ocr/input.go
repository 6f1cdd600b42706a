package ocr

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// InputOption mutates an OCR input before submission.
type InputOption func(*Input)

// WithLanguages sets language hints on the OCR input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithRegion sets the recognition region on the OCR input.
func WithRegion(region Region) InputOption {
	return func(in *Input) {
		if region.IsEmpty() {
			in.Region = nil
			return
		}
		in.Region = &region
	}
}

// WithDPI overrides the DPI value on the OCR input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithPageIndex records the zero-based page the image originated from.
func WithPageIndex(page int) InputOption {
	return func(in *Input) { in.PageIndex = page }
}

// WithMetadata sets provider-specific metadata for the input.
func WithMetadata(metadata map[string]string) InputOption {
	return func(in *Input) {
		if len(metadata) == 0 {
			in.Metadata = nil
			return
		}
		in.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			in.Metadata[k] = v
		}
	}
}

// WithTesseractPSM sets the page segmentation mode (PSM) variable for Tesseract.
// See https://tesseract-ocr.github.io/tessdoc/ImproveQuality.html#page-segmentation-method for values.
func WithTesseractPSM(mode int) InputOption {
	return func(in *Input) {
		if in.Metadata == nil {
			in.Metadata = make(map[string]string)
		}
		in.Metadata["tessedit_pageseg_mode"] = strconv.Itoa(mode)
	}
}

// WithTesseractWhitelist restricts recognition to the provided characters.
func WithTesseractWhitelist(chars string) InputOption {
	return func(in *Input) {
		if in.Metadata == nil {
			in.Metadata = make(map[string]string)
		}
		in.Metadata["tessedit_char_whitelist"] = chars
	}
}

// NewInput wraps encoded image bytes as an OCR input.
func NewInput(id string, data []byte, format ImageFormat, opts ...InputOption) Input {
	in := Input{ID: id, Image: data, Format: format}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// NewInputFromFile reads an image file, deriving the format from the
// file extension and the input ID from the file name.
func NewInputFromFile(path string, opts ...InputOption) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, fmt.Errorf("read image: %w", err)
	}
	format, err := FormatForPath(path)
	if err != nil {
		return Input{}, err
	}
	return NewInput(filepath.Base(path), data, format, opts...), nil
}

// FormatForPath maps a file extension to an image format.
func FormatForPath(path string) (ImageFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return ImageFormatPNG, nil
	case ".jpg", ".jpeg":
		return ImageFormatJPEG, nil
	case ".tif", ".tiff":
		return ImageFormatTIFF, nil
	default:
		return "", fmt.Errorf("unsupported image extension %q", filepath.Ext(path))
	}
}
