// Package profile loads recognition profiles, the file-shaped
// configuration the command line consumes. A profile collects the
// settings of one recognition run so they can be versioned next to the
// scans they apply to.
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mathiasimmer/pyocr/ocr"
)

// Profile models one recognition profile file.
type Profile struct {
	Engine    string   `yaml:"engine"`
	Languages []string `yaml:"languages"`
	DPI       int      `yaml:"dpi"`
	PSM       int      `yaml:"psm"`
	Levels    []string `yaml:"levels"`
	Format    string   `yaml:"format"`
}

// Default returns the profile used when no file is given: the tesseract
// engine, English, automatic page segmentation, full hierarchy, JSON
// output.
func Default() Profile {
	return Profile{
		Engine:    "tesseract",
		Languages: []string{"eng"},
		PSM:       3,
		Levels:    []string{"block", "paragraph", "line", "word"},
		Format:    "json",
	}
}

// Load reads a profile file. Fields absent from the file keep their
// defaults; unknown fields are rejected. A missing file surfaces the
// underlying fs.ErrNotExist so callers can tell it from a malformed one.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	p := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}

	p.applyDefaults()
	if err := p.validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

func (p *Profile) applyDefaults() {
	def := Default()
	if p.Engine == "" {
		p.Engine = def.Engine
	}
	if len(p.Languages) == 0 {
		p.Languages = def.Languages
	}
	if len(p.Levels) == 0 {
		p.Levels = def.Levels
	}
	if p.Format == "" {
		p.Format = def.Format
	}
}

func (p Profile) validate() error {
	if p.PSM < 0 || p.PSM > 13 {
		return fmt.Errorf("psm %d out of range", p.PSM)
	}
	if p.DPI < 0 {
		return fmt.Errorf("dpi %d out of range", p.DPI)
	}
	switch p.Format {
	case "json", "text", "hocr", "markdown":
	default:
		return fmt.Errorf("unknown format %q", p.Format)
	}
	for _, lv := range p.Levels {
		switch lv {
		case string(ocr.LevelBlock), string(ocr.LevelParagraph), string(ocr.LevelLine), string(ocr.LevelWord), string(ocr.LevelSymbol):
		default:
			return fmt.Errorf("unknown level %q", lv)
		}
	}
	return nil
}

// InputOptions converts the profile into the per-input options an
// engine consumes.
func (p Profile) InputOptions() []ocr.InputOption {
	var opts []ocr.InputOption
	if len(p.Languages) > 0 {
		opts = append(opts, ocr.WithLanguages(p.Languages...))
	}
	if p.DPI > 0 {
		opts = append(opts, ocr.WithDPI(p.DPI))
	}
	opts = append(opts, ocr.WithTesseractPSM(p.PSM))
	return opts
}
