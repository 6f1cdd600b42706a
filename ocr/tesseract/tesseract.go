package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
	_ "golang.org/x/image/tiff"

	"github.com/mathiasimmer/pyocr/builder"
	"github.com/mathiasimmer/pyocr/observability"
	"github.com/mathiasimmer/pyocr/ocr"
)

func init() {
	ocr.SetDefaultEngine(NewTesseractEngine())
}

// TesseractEngine implements Engine and BatchEngine using the gosseract client
// as the default OCR provider.
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
	log           observability.Logger
}

// Option configures the engine.
type Option func(*TesseractEngine)

// WithClientFactory substitutes the gosseract client constructor, for
// non-default tessdata locations or for tests.
func WithClientFactory(f func() *gosseract.Client) Option {
	return func(e *TesseractEngine) { e.clientFactory = f }
}

// WithLogger attaches a logger for per-recognition diagnostics.
func WithLogger(log observability.Logger) Option {
	return func(e *TesseractEngine) { e.log = log }
}

// NewTesseractEngine constructs a Tesseract-backed OCR engine.
func NewTesseractEngine(opts ...Option) *TesseractEngine {
	e := &TesseractEngine{
		clientFactory: gosseract.NewClient,
		log:           observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize performs OCR on a single image input.
func (e *TesseractEngine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	c := e.clientFactory()
	defer c.Close()
	return e.recognizeWithClient(ctx, c, in)
}

// RecognizeBatch processes multiple inputs sequentially. Each input gets a
// fresh client, so a failure never leaks state into the next image.
func (e *TesseractEngine) RecognizeBatch(ctx context.Context, inputs []ocr.Input) ([]ocr.Result, error) {
	results := make([]ocr.Result, 0, len(inputs))
	for _, in := range inputs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		c := e.clientFactory()
		res, err := e.recognizeWithClient(ctx, c, in)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
		}
		c.Close()
		results = append(results, res)
	}
	return results, nil
}

func (e *TesseractEngine) recognizeWithClient(ctx context.Context, c *gosseract.Client, in ocr.Input) (ocr.Result, error) {
	start := time.Now()

	imgData, origin, err := cropImage(in.Image, in.Region)
	if err != nil {
		return ocr.Result{}, err
	}
	if err := c.SetImageFromBytes(imgData); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return ocr.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return ocr.Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range in.Metadata {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return ocr.Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}
	plain := strings.TrimSpace(text)

	words, err := wordStream(c, origin)
	if err != nil {
		return ocr.Result{}, err
	}
	blocks, err := builder.Document(ocr.NewWordCursor(words))
	if err != nil {
		return ocr.Result{}, fmt.Errorf("assemble blocks: %w", err)
	}

	e.log.Debug("recognized input",
		observability.String("input", in.ID),
		observability.Int(observability.MetricWordCount, len(words)),
		observability.Int64(observability.MetricRecognizeTime, time.Since(start).Milliseconds()),
	)

	return ocr.Result{
		InputID:   in.ID,
		PlainText: plain,
		Blocks:    blocks,
		Language:  firstLanguage(in.Languages),
	}, nil
}

// wordStream flattens the recognized page into the ordinal-annotated word
// stream the assembly pass consumes. Boxes come back relative to the image
// handed to the client; origin shifts them into source coordinates when a
// region was cropped out.
func wordStream(c *gosseract.Client, origin image.Point) ([]ocr.WordBox, error) {
	boxes, err := c.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("page layout: %w", err)
	}
	words := make([]ocr.WordBox, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, ocr.WordBox{
			Text:       b.Word,
			Confidence: b.Confidence / 100,
			Box:        b.Box.Add(origin),
			Block:      b.BlockNum,
			Paragraph:  b.ParNum,
			Line:       b.LineNum,
			Word:       b.WordNum,
		})
	}
	return words, nil
}

// Version reports the version triple of the linked Tesseract library.
// Development builds carry a "dev" marker after the digits; everything
// from the marker on is ignored.
func (e *TesseractEngine) Version() (major, minor, patch int, err error) {
	c := e.clientFactory()
	defer c.Close()
	return parseVersion(c.Version())
}

func parseVersion(raw string) (major, minor, patch int, err error) {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "dev"); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexAny(s, "-_ "); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return 0, 0, 0, fmt.Errorf("unparsable tesseract version %q", raw)
	}
	if major, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("unparsable tesseract version %q", raw)
	}
	if minor, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("unparsable tesseract version %q", raw)
	}
	if len(parts) > 2 {
		if patch, err = strconv.Atoi(parts[2]); err != nil {
			return 0, 0, 0, fmt.Errorf("unparsable tesseract version %q", raw)
		}
	}
	return major, minor, patch, nil
}

// Available reports whether a usable Tesseract install is linked.
// Releases before 3.04 lack the page iterator API and are rejected.
func (e *TesseractEngine) Available() bool {
	major, minor, _, err := e.Version()
	if err != nil {
		return false
	}
	return major > 3 || (major == 3 && minor >= 4)
}

// Languages lists the trained languages the install can load.
func (e *TesseractEngine) Languages() ([]string, error) {
	langs, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	return langs, nil
}

func firstLanguage(langs []string) string {
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}

// cropImage cuts the region out of the encoded image. The returned point
// is the origin of the crop in the source image, for shifting recognized
// boxes back.
func cropImage(data []byte, region *ocr.Region) ([]byte, image.Point, error) {
	if region == nil || region.IsEmpty() {
		return data, image.Point{}, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("decode for region: %w", err)
	}
	rect := image.Rect(
		int(math.Round(region.X)),
		int(math.Round(region.Y)),
		int(math.Round(region.X+region.Width)),
		int(math.Round(region.Y+region.Height)),
	).Intersect(img.Bounds())
	if rect.Empty() {
		return nil, image.Point{}, fmt.Errorf("region outside image bounds")
	}
	subImg, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return nil, image.Point{}, fmt.Errorf("image does not support sub-image")
	}
	cropped := subImg.SubImage(rect)
	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, image.Point{}, fmt.Errorf("encode cropped image: %w", err)
	}
	return buf.Bytes(), rect.Min, nil
}
