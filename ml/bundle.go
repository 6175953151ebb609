package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// BundleConfig names the artifacts of a trained model. Relative paths are
// resolved against Dir. Scaler is optional.
type BundleConfig struct {
	Dir       string
	ModelType string
	Model     string
	Encoders  string
	Scaler    string
	Columns   string
}

func (c BundleConfig) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) || c.Dir == "" {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// Bundle is the set of fitted artifacts loaded at startup. It is never
// mutated after NewBundle returns.
type Bundle struct {
	classifier Classifier
	encoders   encoderSet
	scaler     Scaler
	columns    []string
	index      map[string]int
}

// LoadBundle reads every artifact named by cfg and validates them against
// each other.
func LoadBundle(cfg BundleConfig) (*Bundle, error) {
	classifier, err := LoadModel(cfg.ModelType, cfg.resolve(cfg.Model))
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	classes, err := loadEncoderClasses(cfg.resolve(cfg.Encoders))
	if err != nil {
		return nil, fmt.Errorf("load encoders: %w", err)
	}

	columns, err := loadColumns(cfg.resolve(cfg.Columns))
	if err != nil {
		return nil, fmt.Errorf("load columns: %w", err)
	}

	var scaler Scaler
	if cfg.Scaler != "" {
		scaler, err = LoadScaler(cfg.resolve(cfg.Scaler))
		if err != nil {
			return nil, fmt.Errorf("load scaler: %w", err)
		}
	}

	return NewBundle(classifier, classes, scaler, columns)
}

// NewBundle assembles a bundle from artifacts already in memory. scaler may be
// nil.
func NewBundle(classifier Classifier, classes map[string][]string, scaler Scaler, columns []string) (*Bundle, error) {
	if classifier == nil {
		return nil, ErrModelNotLoaded
	}
	encoders, err := newEncoderSet(classes)
	if err != nil {
		return nil, err
	}
	index, err := indexColumns(columns)
	if err != nil {
		return nil, err
	}
	if scaler != nil && scaler.Width() != len(columns) {
		return nil, fmt.Errorf("%w: scaler has %d columns, bundle has %d", ErrScalerMismatch, scaler.Width(), len(columns))
	}
	if wc, ok := classifier.(WidthChecker); ok {
		if err := wc.CheckWidth(len(columns)); err != nil {
			return nil, err
		}
	}
	return &Bundle{
		classifier: classifier,
		encoders:   encoders,
		scaler:     scaler,
		columns:    append([]string(nil), columns...),
		index:      index,
	}, nil
}

// indexColumns requires columns to be an ordering of FeatureNames.
func indexColumns(columns []string) (map[string]int, error) {
	if len(columns) != len(FeatureNames()) {
		return nil, fmt.Errorf("%w: got %d columns, want %d", ErrColumnMismatch, len(columns), len(FeatureNames()))
	}
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if !isKnownField(name) {
			return nil, fmt.Errorf("%w: unknown column %q", ErrColumnMismatch, name)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrColumnMismatch, name)
		}
		index[name] = i
	}
	return index, nil
}

func (b *Bundle) Columns() []string {
	return append([]string(nil), b.columns...)
}

func (b *Bundle) Scaled() bool {
	return b.scaler != nil
}

func (b *Bundle) Classifier() Classifier {
	return b.classifier
}

// Classes returns the fitted labels of a categorical field.
func (b *Bundle) Classes(field string) ([]string, error) {
	enc, err := b.encoders.get(field)
	if err != nil {
		return nil, err
	}
	return enc.Classes(), nil
}

func loadEncoderClasses(path string) (map[string][]string, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var classes map[string][]string
	if err := json.Unmarshal(payload, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func loadColumns(path string) ([]string, error) {
	if path == "" {
		return FeatureNames(), nil
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var columns []string
	if err := json.Unmarshal(payload, &columns); err != nil {
		return nil, err
	}
	return columns, nil
}
