package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeEngine struct {
	calls []string
	err   error
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(ctx context.Context, input Input) (Result, error) {
	f.calls = append(f.calls, input.ID)
	if f.err != nil {
		return Result{}, f.err
	}
	return Result{InputID: input.ID, PlainText: "text:" + input.ID}, nil
}

type fakeBatchEngine struct {
	fakeEngine
	batches int
}

func (f *fakeBatchEngine) RecognizeBatch(ctx context.Context, inputs []Input) ([]Result, error) {
	f.batches++
	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		res, err := f.Recognize(ctx, in)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func TestDefaultEngineFallsBackToNoop(t *testing.T) {
	if got := DefaultEngine().Name(); got != "noop" {
		t.Fatalf("DefaultEngine().Name() = %q, want noop", got)
	}
	res, err := Recognize(context.Background(), Input{ID: "scan-1"})
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if res.InputID != "scan-1" || res.PlainText != "" {
		t.Errorf("noop result = %+v", res)
	}
}

func TestSetDefaultEngine(t *testing.T) {
	prev := DefaultEngine()
	defer SetDefaultEngine(prev)

	fake := &fakeEngine{}
	SetDefaultEngine(fake)

	res, err := Recognize(context.Background(), Input{ID: "scan-2"})
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if res.PlainText != "text:scan-2" {
		t.Errorf("result not produced by the registered engine: %+v", res)
	}
}

func TestRecognizeAllSequential(t *testing.T) {
	fake := &fakeEngine{}
	inputs := []Input{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	results, err := RecognizeAll(context.Background(), fake, inputs)
	if err != nil {
		t.Fatalf("RecognizeAll() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, in := range inputs {
		if results[i].InputID != in.ID {
			t.Errorf("result %d = %q, want %q", i, results[i].InputID, in.ID)
		}
	}
	if len(fake.calls) != 3 || fake.calls[0] != "a" {
		t.Errorf("engine calls = %v", fake.calls)
	}
}

func TestRecognizeAllWrapsEngineError(t *testing.T) {
	boom := errors.New("boom")
	fake := &fakeEngine{err: boom}

	_, err := RecognizeAll(context.Background(), fake, []Input{{ID: "bad.png"}})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want the engine failure", err)
	}
	if !strings.Contains(err.Error(), "bad.png") {
		t.Errorf("error %q does not name the failing input", err)
	}
}

func TestRecognizeAllHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &fakeEngine{}
	_, err := RecognizeAll(ctx, fake, []Input{{ID: "a"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("engine called %d times after cancellation", len(fake.calls))
	}
}

func TestRecognizeAllPrefersBatch(t *testing.T) {
	fake := &fakeBatchEngine{}

	results, err := RecognizeAll(context.Background(), fake, []Input{{ID: "a"}, {ID: "b"}})
	if err != nil {
		t.Fatalf("RecognizeAll() error = %v", err)
	}
	if fake.batches != 1 {
		t.Errorf("RecognizeBatch called %d times, want 1", fake.batches)
	}
	if len(results) != 2 || results[0].InputID != "a" || results[1].InputID != "b" {
		t.Errorf("batch results = %+v", results)
	}
}
