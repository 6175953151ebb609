package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Scaler is a fitted per-column affine transform.
type Scaler interface {
	Transform(values []float64) ([]float64, error)
	InverseTransform(values []float64) ([]float64, error)
	Width() int
}

// StandardScaler maps x to (x - mean) / scale.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 || len(mean) != len(scale) {
		return nil, errors.New("standard scaler: mean/scale length mismatch")
	}
	for i, s := range scale {
		if s == 0 {
			return nil, fmt.Errorf("standard scaler: zero scale at column %d", i)
		}
	}
	return &StandardScaler{
		mean:  append([]float64(nil), mean...),
		scale: append([]float64(nil), scale...),
	}, nil
}

func (s *StandardScaler) Width() int {
	return len(s.mean)
}

func (s *StandardScaler) Transform(values []float64) ([]float64, error) {
	if len(values) != len(s.mean) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrScalerMismatch, len(values), len(s.mean))
	}
	result := make([]float64, len(values))
	for i, v := range values {
		result[i] = (v - s.mean[i]) / s.scale[i]
	}
	return result, nil
}

func (s *StandardScaler) InverseTransform(values []float64) ([]float64, error) {
	if len(values) != len(s.mean) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrScalerMismatch, len(values), len(s.mean))
	}
	result := make([]float64, len(values))
	for i, v := range values {
		result[i] = v*s.scale[i] + s.mean[i]
	}
	return result, nil
}

// MinMaxScaler maps each column onto [0, 1] using the fitted min and max.
type MinMaxScaler struct {
	mins []float64
	maxs []float64
}

func NewMinMaxScaler(mins, maxs []float64) (*MinMaxScaler, error) {
	if len(mins) == 0 || len(mins) != len(maxs) {
		return nil, errors.New("minmax scaler: mins/maxs length mismatch")
	}
	for i := range mins {
		if maxs[i] == mins[i] {
			return nil, fmt.Errorf("minmax scaler: zero range at column %d", i)
		}
	}
	return &MinMaxScaler{
		mins: append([]float64(nil), mins...),
		maxs: append([]float64(nil), maxs...),
	}, nil
}

func (s *MinMaxScaler) Width() int {
	return len(s.mins)
}

func (s *MinMaxScaler) Transform(values []float64) ([]float64, error) {
	if len(values) != len(s.mins) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrScalerMismatch, len(values), len(s.mins))
	}
	result := make([]float64, len(values))
	for i := range values {
		result[i] = NormalizeFeature(values[i], s.mins[i], s.maxs[i])
	}
	return result, nil
}

func (s *MinMaxScaler) InverseTransform(values []float64) ([]float64, error) {
	if len(values) != len(s.mins) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrScalerMismatch, len(values), len(s.mins))
	}
	result := make([]float64, len(values))
	for i, v := range values {
		result[i] = v*(s.maxs[i]-s.mins[i]) + s.mins[i]
	}
	return result, nil
}

// NormalizeFeature maps value onto [0, 1] for the given range. A degenerate
// range yields 0.
func NormalizeFeature(value, min, max float64) float64 {
	if max == min {
		return 0
	}
	return (value - min) / (max - min)
}

type scalerFile struct {
	Kind  string    `json:"kind"`
	Mean  []float64 `json:"mean,omitempty"`
	Scale []float64 `json:"scale,omitempty"`
	Min   []float64 `json:"min,omitempty"`
	Max   []float64 `json:"max,omitempty"`
}

// LoadScaler reads a fitted scaler from a JSON artifact.
func LoadScaler(path string) (Scaler, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file scalerFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return nil, fmt.Errorf("parse scaler %s: %w", path, err)
	}
	switch file.Kind {
	case "standard", "":
		return NewStandardScaler(file.Mean, file.Scale)
	case "minmax":
		return NewMinMaxScaler(file.Min, file.Max)
	default:
		return nil, fmt.Errorf("unsupported scaler kind %q", file.Kind)
	}
}
