package ml

const (
	FieldAge           = "age"
	FieldWorkclass     = "workclass"
	FieldEducation     = "education"
	FieldMaritalStatus = "marital-status"
	FieldOccupation    = "occupation"
	FieldGender        = "gender"
	FieldNetCapital    = "net-capital"
	FieldHoursPerWeek  = "hours-per-week"
	FieldNativeCountry = "native-country"
)

// FeatureNames returns the column order the classifier was trained with.
// A bundle may carry its own column list; this is the default.
func FeatureNames() []string {
	return []string{
		FieldAge,
		FieldWorkclass,
		FieldEducation,
		FieldMaritalStatus,
		FieldOccupation,
		FieldGender,
		FieldNetCapital,
		FieldHoursPerWeek,
		FieldNativeCountry,
	}
}

// CategoricalFields lists the fields that go through a fitted label encoder.
func CategoricalFields() []string {
	return []string{
		FieldGender,
		FieldWorkclass,
		FieldOccupation,
		FieldNativeCountry,
		FieldMaritalStatus,
		FieldEducation,
	}
}

func isCategorical(name string) bool {
	for _, f := range CategoricalFields() {
		if f == name {
			return true
		}
	}
	return false
}

func isKnownField(name string) bool {
	for _, f := range FeatureNames() {
		if f == name {
			return true
		}
	}
	return false
}
