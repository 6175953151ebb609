package ml

import (
	"fmt"
	"math"
)

// Vector is an encoded feature vector in bundle column order.
type Vector struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
	Scaled  bool      `json:"scaled"`
}

// Codec converts between form input and classifier features using the
// artifacts of one bundle.
type Codec struct {
	bundle *Bundle
}

func NewCodec(bundle *Bundle) *Codec {
	return &Codec{bundle: bundle}
}

func (c *Codec) Bundle() *Bundle {
	return c.bundle
}

// Encode maps a raw input onto the classifier's feature vector, scaling it
// when the bundle carries a scaler.
func (c *Codec) Encode(in RawInput) (Vector, error) {
	if err := in.Validate(); err != nil {
		return Vector{}, err
	}
	workclass, err := ParseWorkclass(in.Workclass)
	if err != nil {
		return Vector{}, err
	}

	categories := map[string]string{
		FieldGender:        in.Gender,
		FieldWorkclass:     workclass.Category(),
		FieldOccupation:    in.Occupation,
		FieldNativeCountry: in.NativeCountry,
		FieldMaritalStatus: in.MaritalStatus,
		FieldEducation:     in.Education,
	}
	byName := map[string]float64{
		FieldAge:          float64(in.Age),
		FieldHoursPerWeek: float64(in.HoursPerWeek),
		FieldNetCapital:   float64(in.NetCapital),
	}
	for _, field := range CategoricalFields() {
		enc, err := c.bundle.encoders.get(field)
		if err != nil {
			return Vector{}, err
		}
		code, err := enc.Transform(categories[field])
		if err != nil {
			return Vector{}, err
		}
		byName[field] = float64(code)
	}

	values := make([]float64, len(c.bundle.columns))
	for i, name := range c.bundle.columns {
		v, ok := byName[name]
		if !ok {
			return Vector{}, fmt.Errorf("%w: no value for column %q", ErrColumnMismatch, name)
		}
		values[i] = v
	}

	vec := Vector{Columns: c.bundle.Columns(), Values: values}
	if c.bundle.scaler != nil {
		scaled, err := c.bundle.scaler.Transform(values)
		if err != nil {
			return Vector{}, err
		}
		vec.Values = scaled
		vec.Scaled = true
	}
	return vec, nil
}

// DecodeForDisplay undoes Encode. Categorical values come back as encoder
// categories; the workclass display label is not restored.
func (c *Codec) DecodeForDisplay(vec Vector) (Record, error) {
	values, err := c.unscaled(vec)
	if err != nil {
		return Record{}, err
	}

	var rec Record
	for i, name := range c.bundle.columns {
		v := values[i]
		switch name {
		case FieldAge, FieldHoursPerWeek, FieldNetCapital:
			n, ok := roundInt64(v)
			if !ok {
				return Record{}, fmt.Errorf("%w: %s=%g outside int64 range", ErrUnknownCode, name, v)
			}
			switch name {
			case FieldAge:
				rec.Age = int(n)
			case FieldHoursPerWeek:
				rec.HoursPerWeek = int(n)
			default:
				rec.NetCapital = n
			}
		default:
			enc, err := c.bundle.encoders.get(name)
			if err != nil {
				return Record{}, err
			}
			label, err := enc.inverseFloat(v)
			if err != nil {
				return Record{}, err
			}
			rec.set(name, label)
		}
	}
	return rec, nil
}

// Predict runs the classifier on an encoded vector.
func (c *Codec) Predict(vec Vector) (Outcome, float64, error) {
	if err := c.checkColumns(vec); err != nil {
		return "", 0, err
	}
	if vec.Scaled != c.bundle.Scaled() {
		return "", 0, fmt.Errorf("%w: vector scaled=%t, bundle scaled=%t", ErrScalerMismatch, vec.Scaled, c.bundle.Scaled())
	}
	label, confidence, err := c.bundle.classifier.Predict(vec.Values)
	if err != nil {
		return "", 0, fmt.Errorf("classifier: %w", err)
	}
	return OutcomeForLabel(label), confidence, nil
}

// roundInt64 rounds v to the nearest int64. NaN, infinities and values past
// the int64 range are rejected.
func roundInt64(v float64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	rounded := math.Round(v)
	if rounded < math.MinInt64 || rounded >= math.MaxInt64 {
		return 0, false
	}
	return int64(rounded), true
}

func (c *Codec) unscaled(vec Vector) ([]float64, error) {
	if err := c.checkColumns(vec); err != nil {
		return nil, err
	}
	if !vec.Scaled {
		return vec.Values, nil
	}
	if c.bundle.scaler == nil {
		return nil, fmt.Errorf("%w: vector is scaled but bundle has no scaler", ErrScalerMismatch)
	}
	return c.bundle.scaler.InverseTransform(vec.Values)
}

func (c *Codec) checkColumns(vec Vector) error {
	if len(vec.Values) != len(c.bundle.columns) {
		return fmt.Errorf("%w: got %d values, want %d", ErrColumnMismatch, len(vec.Values), len(c.bundle.columns))
	}
	if vec.Columns == nil {
		return nil
	}
	if len(vec.Columns) != len(c.bundle.columns) {
		return fmt.Errorf("%w: got %d columns, want %d", ErrColumnMismatch, len(vec.Columns), len(c.bundle.columns))
	}
	for i, name := range vec.Columns {
		if name != c.bundle.columns[i] {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrColumnMismatch, i, name, c.bundle.columns[i])
		}
	}
	return nil
}

func (r *Record) set(field, label string) {
	switch field {
	case FieldWorkclass:
		r.Workclass = label
	case FieldEducation:
		r.Education = label
	case FieldMaritalStatus:
		r.MaritalStatus = label
	case FieldOccupation:
		r.Occupation = label
	case FieldGender:
		r.Gender = label
	case FieldNativeCountry:
		r.NativeCountry = label
	}
}
