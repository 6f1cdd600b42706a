package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/mathiasimmer/pyocr/export"
	"github.com/mathiasimmer/pyocr/hocr"
	"github.com/mathiasimmer/pyocr/ocr"
	"github.com/mathiasimmer/pyocr/profile"

	_ "github.com/mathiasimmer/pyocr/ocr/tesseract" // registers the default engine
)

type options struct {
	profilePath string
	langs       string
	dpi         int
	psm         int
	format      string
	outDir      string
	paths       []string
	set         map[string]bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ocrscan: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "ocrscan: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: ocrscan [flags] <image>...\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&opts.langs, "lang", "eng", "Comma-separated language hints")
	flag.IntVar(&opts.dpi, "dpi", 0, "Dots per inch of the source images (0 leaves it to the engine)")
	flag.IntVar(&opts.psm, "psm", 3, "Tesseract page segmentation mode")
	flag.StringVar(&opts.format, "format", "json", "Output format: json, text, hocr or markdown")
	flag.StringVar(&opts.profilePath, "profile", "", "Recognition profile file")
	flag.StringVar(&opts.outDir, "out", "", "Directory for output files (default stdout)")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return options{}, fmt.Errorf("missing image path")
	}
	opts.paths = flag.Args()
	opts.set = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

func run(opts options) error {
	prof := profile.Default()
	if opts.profilePath != "" {
		loaded, err := profile.Load(opts.profilePath)
		if err != nil {
			return err
		}
		prof = loaded
	}

	// Explicit flags override profile values.
	if opts.set["lang"] {
		prof.Languages = splitList(opts.langs)
	}
	if opts.set["dpi"] {
		prof.DPI = opts.dpi
	}
	if opts.set["psm"] {
		prof.PSM = opts.psm
	}
	if opts.set["format"] {
		prof.Format = opts.format
	}
	if prof.PSM < 0 || prof.PSM > 13 {
		return fmt.Errorf("psm %d out of range", prof.PSM)
	}
	switch prof.Format {
	case "json", "text", "hocr", "markdown":
	default:
		return fmt.Errorf("unknown format %q", prof.Format)
	}

	inputs := make([]ocr.Input, 0, len(opts.paths))
	for _, path := range opts.paths {
		in, err := ocr.NewInputFromFile(path, prof.InputOptions()...)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		inputs = append(inputs, in)
	}

	results, err := ocr.RecognizeAll(context.Background(), ocr.DefaultEngine(), inputs)
	if err != nil {
		return err
	}

	for _, res := range results {
		payload, err := render(res, prof)
		if err != nil {
			return err
		}
		if opts.outDir == "" {
			fmt.Printf("== %s ==\n%s\n\n", res.InputID, payload)
			continue
		}
		if err := writeResult(opts.outDir, res.InputID, prof.Format, payload); err != nil {
			return err
		}
	}
	return nil
}

func render(res ocr.Result, prof profile.Profile) ([]byte, error) {
	switch prof.Format {
	case "json":
		view := jsonView(res, prof.Levels)
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", res.InputID, err)
		}
		return data, nil
	case "text":
		return []byte(export.Text(res)), nil
	case "hocr":
		return hocr.Generate(res, image.Rectangle{}), nil
	case "markdown":
		return export.Markdown(res), nil
	}
	return nil, fmt.Errorf("unknown format %q", prof.Format)
}

// jsonView trims the result to the coarsest level the profile asks for,
// mirroring the text, line box and word box output shapes.
func jsonView(res ocr.Result, levels []string) interface{} {
	has := func(name string) bool {
		for _, l := range levels {
			if l == name {
				return true
			}
		}
		return false
	}
	switch {
	case has("block") || has("paragraph") || len(levels) == 0:
		return res
	case has("line"):
		var lines []ocr.TextLine
		for _, b := range res.Blocks {
			for _, p := range b.Paragraphs {
				lines = append(lines, p.Lines...)
			}
		}
		return lines
	default:
		var words []ocr.TextWord
		for _, b := range res.Blocks {
			for _, p := range b.Paragraphs {
				for _, l := range p.Lines {
					words = append(words, l.Words...)
				}
			}
		}
		return words
	}
}

func writeResult(dir, inputID, format string, payload []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	name := strings.TrimSuffix(inputID, filepath.Ext(inputID))
	path := filepath.Join(dir, safeName(name)+"."+formatExt(format))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

func formatExt(format string) string {
	switch format {
	case "json":
		return "json"
	case "text":
		return "txt"
	case "hocr":
		return "hocr"
	case "markdown":
		return "md"
	}
	return format
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func safeName(name string) string {
	if name == "" {
		return "unnamed"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
