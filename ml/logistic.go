package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// LogisticRegression is a fitted linear model over the encoded vector.
type LogisticRegression struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
	Threshold float64   `json:"threshold,omitempty"`
}

func (lr *LogisticRegression) Predict(features []float64) (int, float64, error) {
	if len(lr.Weights) == 0 {
		return 0, 0, ErrModelNotLoaded
	}
	if len(features) != len(lr.Weights) {
		return 0, 0, fmt.Errorf("%w: got %d features, want %d", ErrColumnMismatch, len(features), len(lr.Weights))
	}
	z := lr.Intercept
	for i, w := range lr.Weights {
		z += w * features[i]
	}
	p := 1 / (1 + math.Exp(-z))
	threshold := lr.Threshold
	if threshold <= 0 || threshold >= 1 {
		threshold = 0.5
	}
	if p >= threshold {
		return 1, p, nil
	}
	return 0, 1 - p, nil
}

func (lr *LogisticRegression) CheckWidth(n int) error {
	if len(lr.Weights) != n {
		return fmt.Errorf("%w: model has %d weights, bundle has %d columns", ErrColumnMismatch, len(lr.Weights), n)
	}
	return nil
}

func (lr *LogisticRegression) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var loaded LogisticRegression
	if err := json.Unmarshal(payload, &loaded); err != nil {
		return err
	}
	if len(loaded.Weights) == 0 {
		return errors.New("logistic regression has no weights")
	}
	*lr = loaded
	return nil
}
