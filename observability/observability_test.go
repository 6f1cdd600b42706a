package observability

import (
	"context"
	"errors"
	"testing"
)

func TestFields(t *testing.T) {
	cases := []struct {
		field Field
		key   string
		value interface{}
	}{
		{String("engine", "tesseract"), "engine", "tesseract"},
		{Int("words", 42), "words", 42},
		{Int64("bytes", int64(1 << 40)), "bytes", int64(1 << 40)},
		{Float64("confidence", 0.87), "confidence", 0.87},
	}
	for _, tc := range cases {
		if tc.field.Key() != tc.key {
			t.Errorf("key = %q, want %q", tc.field.Key(), tc.key)
		}
		if tc.field.Value() != tc.value {
			t.Errorf("value for %q = %v, want %v", tc.key, tc.field.Value(), tc.value)
		}
	}

	err := errors.New("boom")
	if f := Error("err", err); f.Key() != "err" || f.Value() != err {
		t.Errorf("error field = %q %v", f.Key(), f.Value())
	}
}

func TestNopLogger(t *testing.T) {
	var log Logger = NopLogger{}
	log = log.With(String("engine", "tesseract"))
	log.Debug("ignored")
	log.Info("ignored", Int("words", 1))
	log.Warn("ignored")
	log.Error("ignored", Error("err", errors.New("boom")))
}

func TestNopTracer(t *testing.T) {
	tracer := NopTracer()
	ctx := context.Background()
	ctx2, span := tracer.StartSpan(ctx, "test")
	if ctx2 != ctx {
		t.Fatalf("nop tracer should return same context")
	}
	span.SetTag("key", "value")
	span.SetError(nil)
	span.Finish()
}
