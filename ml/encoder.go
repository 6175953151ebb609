package ml

import (
	"fmt"
	"math"
)

// LabelEncoder is a fitted label<->code bijection for one field. The code of a
// label is its index in Classes.
type LabelEncoder struct {
	field   string
	classes []string
	codes   map[string]int
}

// NewLabelEncoder builds an encoder from the fitted classes of a field.
func NewLabelEncoder(field string, classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("encoder %s: no classes", field)
	}
	codes := make(map[string]int, len(classes))
	for i, label := range classes {
		if _, dup := codes[label]; dup {
			return nil, fmt.Errorf("encoder %s: duplicate class %q", field, label)
		}
		codes[label] = i
	}
	return &LabelEncoder{
		field:   field,
		classes: append([]string(nil), classes...),
		codes:   codes,
	}, nil
}

func (e *LabelEncoder) Field() string {
	return e.field
}

// Classes returns a copy of the fitted labels in code order.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

func (e *LabelEncoder) Transform(label string) (int, error) {
	code, ok := e.codes[label]
	if !ok {
		return 0, fmt.Errorf("%w: %s=%q", ErrUnknownCategory, e.field, label)
	}
	return code, nil
}

func (e *LabelEncoder) InverseTransform(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", fmt.Errorf("%w: %s=%d", ErrUnknownCode, e.field, code)
	}
	return e.classes[code], nil
}

// inverseFloat maps a vector value back to a label. The value must sit on an
// integer code, within tolerance of the scaler round trip.
func (e *LabelEncoder) inverseFloat(value float64) (string, error) {
	code, ok := nearestInt(value)
	if !ok {
		return "", fmt.Errorf("%w: %s=%g", ErrUnknownCode, e.field, value)
	}
	return e.InverseTransform(code)
}

// encoderSet indexes the fitted encoders by field name.
type encoderSet map[string]*LabelEncoder

func newEncoderSet(classes map[string][]string) (encoderSet, error) {
	set := make(encoderSet, len(classes))
	for field, labels := range classes {
		enc, err := NewLabelEncoder(field, labels)
		if err != nil {
			return nil, err
		}
		set[field] = enc
	}
	for _, field := range CategoricalFields() {
		if _, ok := set[field]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingEncoder, field)
		}
	}
	return set, nil
}

func (s encoderSet) get(field string) (*LabelEncoder, error) {
	enc, ok := s[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingEncoder, field)
	}
	return enc, nil
}

const codeTolerance = 1e-6

func nearestInt(value float64) (int, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	rounded := math.Round(value)
	if rounded < math.MinInt32 || rounded > math.MaxInt32 {
		return 0, false
	}
	if diff := value - rounded; diff > codeTolerance || diff < -codeTolerance {
		return 0, false
	}
	return int(rounded), true
}
