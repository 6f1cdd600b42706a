package ocr

import (
	"context"
	"fmt"
)

var defaultEngine Engine = &noopEngine{}

// DefaultEngine returns the library's default OCR engine. Linking the
// tesseract package registers it here; otherwise a noop engine answers.
func DefaultEngine() Engine {
	return defaultEngine
}

// SetDefaultEngine sets the library's default OCR engine.
func SetDefaultEngine(engine Engine) {
	defaultEngine = engine
}

// Recognize runs a single input through the default engine.
func Recognize(ctx context.Context, input Input) (Result, error) {
	return DefaultEngine().Recognize(ctx, input)
}

// RecognizeAll invokes the provided engine for every input. If the
// engine supports batch operation, it is used; otherwise calls are
// executed sequentially.
func RecognizeAll(ctx context.Context, engine Engine, inputs []Input) ([]Result, error) {
	if b, ok := engine.(BatchEngine); ok {
		return b.RecognizeBatch(ctx, inputs)
	}
	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		res, err := engine.Recognize(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

type noopEngine struct{}

func (n noopEngine) Name() string {
	return "noop"
}

func (n noopEngine) Recognize(ctx context.Context, input Input) (Result, error) {
	return Result{InputID: input.ID}, nil
}
