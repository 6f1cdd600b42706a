package ocr

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTesseractOptions(t *testing.T) {
	in := Input{}
	WithTesseractPSM(6)(&in)
	if got := in.Metadata["tessedit_pageseg_mode"]; got != "6" {
		t.Fatalf("expected PSM to be set, got %q", got)
	}
	WithTesseractWhitelist("ABC")(&in)
	if got := in.Metadata["tessedit_char_whitelist"]; got != "ABC" {
		t.Fatalf("expected whitelist to be set, got %q", got)
	}
}

func TestNewInputAppliesOptions(t *testing.T) {
	in := NewInput("img-1", []byte{1, 2}, ImageFormatPNG,
		WithLanguages("eng", "deu"),
		WithDPI(300),
		WithPageIndex(2),
		WithRegion(Region{X: 1, Y: 2, Width: 3, Height: 4}),
	)
	if in.ID != "img-1" || in.Format != ImageFormatPNG || len(in.Image) != 2 {
		t.Fatalf("unexpected input: %+v", in)
	}
	if len(in.Languages) != 2 || in.Languages[0] != "eng" {
		t.Errorf("languages = %v", in.Languages)
	}
	if in.DPI != 300 || in.PageIndex != 2 {
		t.Errorf("dpi/page = %d/%d", in.DPI, in.PageIndex)
	}
	if in.Region == nil || in.Region.Width != 3 {
		t.Errorf("region = %+v", in.Region)
	}

	WithRegion(Region{})(&in)
	if in.Region != nil {
		t.Errorf("empty region should clear the restriction")
	}
}

func TestWithMetadataCopies(t *testing.T) {
	meta := map[string]string{"tessedit_pageseg_mode": "6"}
	in := Input{}
	WithMetadata(meta)(&in)
	meta["tessedit_pageseg_mode"] = "3"
	if got := in.Metadata["tessedit_pageseg_mode"]; got != "6" {
		t.Fatalf("metadata not copied, got %q", got)
	}
}

func TestNewInputFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")
	if err := os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	in, err := NewInputFromFile(path, WithLanguages("eng"))
	if err != nil {
		t.Fatalf("NewInputFromFile() error = %v", err)
	}
	if in.ID != "scan.png" {
		t.Errorf("ID = %q, want file name", in.ID)
	}
	if in.Format != ImageFormatPNG || len(in.Image) != 4 {
		t.Errorf("format/image = %q/%d bytes", in.Format, len(in.Image))
	}

	if _, err := NewInputFromFile(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    ImageFormat
		wantErr bool
	}{
		{path: "a.png", want: ImageFormatPNG},
		{path: "b.JPG", want: ImageFormatJPEG},
		{path: "c.jpeg", want: ImageFormatJPEG},
		{path: "d.tif", want: ImageFormatTIFF},
		{path: "e.tiff", want: ImageFormatTIFF},
		{path: "f.bmp", wantErr: true},
		{path: "noext", wantErr: true},
	}
	for _, tt := range tests {
		got, err := FormatForPath(tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("FormatForPath(%q) expected error", tt.path)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("FormatForPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}
