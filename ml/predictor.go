package ml

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// HistoryEntry summarises one prediction run. It carries no input values.
type HistoryEntry struct {
	Outcome Outcome
	Failed  bool
	Error   string
	Latency time.Duration
	At      time.Time
}

// HistorySink receives an entry for every run.
type HistorySink interface {
	Record(ctx context.Context, entry HistoryEntry) error
}

// Preview is the encoded view of an input, shown before prediction.
type Preview struct {
	Input   RawInput `json:"input"`
	Encoded Vector   `json:"encoded"`
	Decoded Record   `json:"decoded"`
	Fields  []Field  `json:"fields"`
}

// Result is the outcome of one prediction request. Error is set instead of
// Outcome when any step failed.
type Result struct {
	Input      RawInput `json:"input"`
	Encoded    *Vector  `json:"encoded,omitempty"`
	Decoded    *Record  `json:"decoded,omitempty"`
	Fields     []Field  `json:"fields,omitempty"`
	Outcome    Outcome  `json:"outcome,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
	Cached     bool     `json:"cached,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func (r Result) OK() bool {
	return r.Error == ""
}

type cachedOutcome struct {
	outcome    Outcome
	confidence float64
}

// Predictor runs encode, decode and classify for form requests.
type Predictor struct {
	codec   *Codec
	cache   *lru.Cache[string, cachedOutcome]
	history []HistorySink
	logger  *zap.Logger
	now     func() time.Time
}

type PredictorOption func(*Predictor) error

// WithCache memoises outcomes per encoded vector. size <= 0 disables it.
func WithCache(size int) PredictorOption {
	return func(p *Predictor) error {
		if size <= 0 {
			return nil
		}
		cache, err := lru.New[string, cachedOutcome](size)
		if err != nil {
			return err
		}
		p.cache = cache
		return nil
	}
}

// WithHistory adds a sink that receives every run. May be given more than once.
func WithHistory(sink HistorySink) PredictorOption {
	return func(p *Predictor) error {
		if sink != nil {
			p.history = append(p.history, sink)
		}
		return nil
	}
}

func WithLogger(logger *zap.Logger) PredictorOption {
	return func(p *Predictor) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

func NewPredictor(codec *Codec, opts ...PredictorOption) (*Predictor, error) {
	if codec == nil || codec.bundle == nil {
		return nil, ErrModelNotLoaded
	}
	p := &Predictor{
		codec:  codec,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Predictor) Codec() *Codec {
	return p.codec
}

// Preview encodes the input and decodes it back for display.
func (p *Predictor) Preview(in RawInput) (Preview, error) {
	vec, err := p.codec.Encode(in)
	if err != nil {
		return Preview{}, err
	}
	rec, err := p.codec.DecodeForDisplay(vec)
	if err != nil {
		return Preview{}, err
	}
	return Preview{
		Input:   in,
		Encoded: vec,
		Decoded: rec,
		Fields:  rec.Fields(vec.Columns),
	}, nil
}

// Run predicts the income bracket of in. It never fails: errors and panics
// from any step end up in Result.Error.
func (p *Predictor) Run(ctx context.Context, in RawInput) (res Result) {
	start := p.now()
	res.Input = in

	defer func() {
		if r := recover(); r != nil {
			res = Result{Input: in, Error: failureMessage(fmt.Errorf("panic: %v", r))}
			p.logger.Error("prediction panicked", zap.Any("panic", r))
		}
		p.record(ctx, res, p.now().Sub(start))
	}()

	preview, err := p.Preview(in)
	if err != nil {
		res.Error = failureMessage(err)
		p.logger.Warn("prediction input rejected", zap.Error(err))
		return res
	}
	res.Encoded = &preview.Encoded
	res.Decoded = &preview.Decoded
	res.Fields = preview.Fields

	key := cacheKey(preview.Encoded)
	if p.cache != nil {
		if hit, ok := p.cache.Get(key); ok {
			res.Outcome = hit.outcome
			res.Confidence = hit.confidence
			res.Cached = true
			return res
		}
	}

	outcome, confidence, err := p.codec.Predict(preview.Encoded)
	if err != nil {
		res.Error = failureMessage(err)
		p.logger.Error("prediction failed", zap.Error(err))
		return res
	}
	res.Outcome = outcome
	res.Confidence = confidence
	if p.cache != nil {
		p.cache.Add(key, cachedOutcome{outcome: outcome, confidence: confidence})
	}
	return res
}

func (p *Predictor) record(ctx context.Context, res Result, latency time.Duration) {
	if len(p.history) == 0 {
		return
	}
	entry := HistoryEntry{
		Outcome: res.Outcome,
		Failed:  !res.OK(),
		Error:   res.Error,
		Latency: latency,
		At:      p.now().UTC(),
	}
	for _, sink := range p.history {
		if err := sink.Record(ctx, entry); err != nil {
			p.logger.Warn("failed to record prediction history", zap.Error(err))
		}
	}
}

func failureMessage(err error) string {
	return "Prediction failed: " + err.Error()
}

func cacheKey(vec Vector) string {
	var b strings.Builder
	for i, v := range vec.Values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}
