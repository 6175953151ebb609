package ml

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type memoryHistory struct {
	entries []HistoryEntry
	err     error
}

func (m *memoryHistory) Record(ctx context.Context, entry HistoryEntry) error {
	m.entries = append(m.entries, entry)
	return m.err
}

func TestPredictorRun(t *testing.T) {
	stub := &stubClassifier{label: 1, confidence: 0.7}
	history := &memoryHistory{}
	p, err := NewPredictor(NewCodec(newTestBundle(t, stub, testScaler(t))), WithCache(8), WithHistory(history))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := p.Run(context.Background(), sampleInput())
	if !res.OK() {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Outcome != OutcomeAbove50K {
		t.Fatalf("expected %s, got %s", OutcomeAbove50K, res.Outcome)
	}
	if res.Encoded == nil || !res.Encoded.Scaled {
		t.Fatal("expected scaled encoded vector")
	}
	if res.Decoded == nil || res.Decoded.Workclass != "Private" {
		t.Fatalf("expected decoded workclass Private, got %+v", res.Decoded)
	}
	if len(res.Fields) != len(FeatureNames()) {
		t.Fatalf("expected %d fields, got %d", len(FeatureNames()), len(res.Fields))
	}

	again := p.Run(context.Background(), sampleInput())
	if !again.Cached || again.Outcome != OutcomeAbove50K {
		t.Fatalf("expected cached outcome, got %+v", again)
	}
	if stub.calls != 1 {
		t.Fatalf("expected 1 classifier call, got %d", stub.calls)
	}
	if len(history.entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history.entries))
	}
	if history.entries[0].Failed || history.entries[0].Outcome != OutcomeAbove50K {
		t.Fatalf("unexpected history entry: %+v", history.entries[0])
	}
}

func TestPredictorRunEncodeFailure(t *testing.T) {
	stub := &stubClassifier{label: 1}
	history := &memoryHistory{}
	p, _ := NewPredictor(NewCodec(newTestBundle(t, stub, nil)), WithHistory(history))

	in := sampleInput()
	in.NativeCountry = "Atlantis"
	res := p.Run(context.Background(), in)
	if res.OK() {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(res.Error, "Prediction failed: ") {
		t.Fatalf("unexpected message: %q", res.Error)
	}
	if res.Outcome != "" || res.Encoded != nil {
		t.Fatalf("expected no partial result, got %+v", res)
	}
	if stub.calls != 0 {
		t.Fatal("classifier should not be called")
	}
	if len(history.entries) != 1 || !history.entries[0].Failed {
		t.Fatalf("expected one failed history entry, got %+v", history.entries)
	}
}

func TestPredictorRunClassifierFailure(t *testing.T) {
	p, _ := NewPredictor(NewCodec(newTestBundle(t, &stubClassifier{err: errStub}, nil)))
	res := p.Run(context.Background(), sampleInput())
	if res.OK() || !strings.Contains(res.Error, errStub.Error()) {
		t.Fatalf("expected classifier failure, got %+v", res)
	}
	if res.Outcome != "" {
		t.Fatalf("expected no outcome, got %s", res.Outcome)
	}
}

func TestPredictorRunRecoversPanic(t *testing.T) {
	p, _ := NewPredictor(NewCodec(newTestBundle(t, &stubClassifier{panicWith: "boom"}, nil)))
	res := p.Run(context.Background(), sampleInput())
	if res.OK() || !strings.Contains(res.Error, "boom") {
		t.Fatalf("expected recovered panic, got %+v", res)
	}
	if res.Encoded != nil {
		t.Fatal("expected no partial result after panic")
	}
}

func TestPredictorHistoryErrorIgnored(t *testing.T) {
	history := &memoryHistory{err: errors.New("disk full")}
	p, _ := NewPredictor(NewCodec(newTestBundle(t, nil, nil)), WithHistory(history))
	res := p.Run(context.Background(), sampleInput())
	if !res.OK() {
		t.Fatalf("history failure must not fail prediction: %s", res.Error)
	}
}

func TestPredictorMultipleSinks(t *testing.T) {
	failing := &memoryHistory{err: errors.New("disk full")}
	second := &memoryHistory{}
	p, _ := NewPredictor(NewCodec(newTestBundle(t, nil, nil)), WithHistory(failing), WithHistory(nil), WithHistory(second))
	p.Run(context.Background(), sampleInput())
	if len(failing.entries) != 1 || len(second.entries) != 1 {
		t.Fatalf("expected every sink to see the run, got %d and %d", len(failing.entries), len(second.entries))
	}
}

func TestPredictorPreview(t *testing.T) {
	p, _ := NewPredictor(NewCodec(newTestBundle(t, nil, nil)))
	preview, err := p.Preview(sampleInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preview.Decoded.Workclass != "Private" || preview.Input.Workclass != "Private Sector" {
		t.Fatalf("unexpected preview: %+v", preview)
	}
	if _, err := NewPredictor(nil); !errors.Is(err, ErrModelNotLoaded) {
		t.Fatalf("expected ErrModelNotLoaded, got %v", err)
	}
}
