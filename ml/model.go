package ml

// Classifier is a pre-trained binary classifier. Predict returns the class
// label and the confidence of that label.
type Classifier interface {
	Predict(features []float64) (int, float64, error)
}

// WidthChecker is implemented by classifiers that can tell whether they accept
// vectors of n columns.
type WidthChecker interface {
	CheckWidth(n int) error
}

// Outcome is the predicted income bracket.
type Outcome string

const (
	OutcomeAbove50K   Outcome = ">50K"
	OutcomeAtMost50K  Outcome = "<=50K"
	positiveClassCode         = 1
)

// OutcomeForLabel maps a classifier label onto an income bracket.
func OutcomeForLabel(label int) Outcome {
	if label == positiveClassCode {
		return OutcomeAbove50K
	}
	return OutcomeAtMost50K
}
