package ml

import (
	"errors"
	"testing"
)

type stubClassifier struct {
	label      int
	confidence float64
	err        error
	panicWith  interface{}
	calls      int
	last       []float64
}

func (s *stubClassifier) Predict(features []float64) (int, float64, error) {
	s.calls++
	s.last = append([]float64(nil), features...)
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	return s.label, s.confidence, s.err
}

var errStub = errors.New("stub failure")

func testClasses() map[string][]string {
	return map[string][]string{
		FieldGender:        {"Female", "Male"},
		FieldWorkclass:     {"Federal-gov", "Local-gov", "Other", "Private", "Self-emp-inc", "Self-emp-not-inc", "State-gov"},
		FieldOccupation:    {"Adm-clerical", "Exec-managerial", "Prof-specialty", "Sales", "Tech-support"},
		FieldNativeCountry: {"Canada", "India", "Mexico", "United-States"},
		FieldMaritalStatus: {"Divorced", "Married-civ-spouse", "Never-married"},
		FieldEducation:     {"Bachelors", "HS-grad", "Masters"},
	}
}

func testScaler(t *testing.T) Scaler {
	t.Helper()
	scaler, err := NewStandardScaler(
		[]float64{38.5, 3.1, 1.2, 1.4, 2.2, 0.67, 980.0, 40.4, 2.8},
		[]float64{13.6, 1.4, 0.8, 0.7, 1.5, 0.47, 7400.0, 12.3, 0.6},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return scaler
}

func newTestBundle(t *testing.T, classifier Classifier, scaler Scaler) *Bundle {
	t.Helper()
	if classifier == nil {
		classifier = &stubClassifier{label: 1, confidence: 0.9}
	}
	bundle, err := NewBundle(classifier, testClasses(), scaler, FeatureNames())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return bundle
}

func sampleInput() RawInput {
	return RawInput{
		Age:           30,
		Gender:        "Male",
		Workclass:     "Private Sector",
		Occupation:    "Tech-support",
		HoursPerWeek:  40,
		NativeCountry: "United-States",
		MaritalStatus: "Never-married",
		Education:     "Bachelors",
		NetCapital:    0,
	}
}
