package ml

import "errors"

var (
	ErrUnknownCategory     = errors.New("unknown category")
	ErrUnknownCode         = errors.New("unknown code")
	ErrUnknownDisplayLabel = errors.New("unknown display label")
	ErrColumnMismatch      = errors.New("column mismatch")
	ErrOutOfRange          = errors.New("value out of range")
	ErrMissingEncoder      = errors.New("missing encoder")
	ErrScalerMismatch      = errors.New("scaler/vector length mismatch")
	ErrModelNotLoaded      = errors.New("model not loaded")
)
