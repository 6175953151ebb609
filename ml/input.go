package ml

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Slider bounds and defaults offered by the form.
const (
	MinAge     = 18
	MaxAge     = 75
	DefaultAge = 30

	MinHoursPerWeek     = 30
	MaxHoursPerWeek     = 70
	DefaultHoursPerWeek = 40

	// MaxNetCapital is the largest magnitude a float64 feature holds exactly.
	MaxNetCapital = 1 << 53
)

// RawInput is one set of values entered in the form. Workclass holds the
// display label, not the encoder category.
type RawInput struct {
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	Workclass     string `json:"workclass"`
	Occupation    string `json:"occupation"`
	HoursPerWeek  int    `json:"hours-per-week"`
	NativeCountry string `json:"native-country"`
	MaritalStatus string `json:"marital-status"`
	Education     string `json:"education"`
	NetCapital    int64  `json:"net-capital"`
}

// Validate checks the slider bounds. Category membership is checked by the
// encoders.
func (in RawInput) Validate() error {
	if in.Age < MinAge || in.Age > MaxAge {
		return fmt.Errorf("%w: age %d not in [%d, %d]", ErrOutOfRange, in.Age, MinAge, MaxAge)
	}
	if in.HoursPerWeek < MinHoursPerWeek || in.HoursPerWeek > MaxHoursPerWeek {
		return fmt.Errorf("%w: hours-per-week %d not in [%d, %d]", ErrOutOfRange, in.HoursPerWeek, MinHoursPerWeek, MaxHoursPerWeek)
	}
	if in.NetCapital < -MaxNetCapital || in.NetCapital > MaxNetCapital {
		return fmt.Errorf("%w: net-capital %d not in [%d, %d]", ErrOutOfRange, in.NetCapital, int64(-MaxNetCapital), int64(MaxNetCapital))
	}
	return nil
}

// Record is the human-readable view of a feature vector: numeric values in
// their original magnitude and categorical values as encoder categories.
type Record struct {
	Age           int    `json:"age"`
	Workclass     string `json:"workclass"`
	Education     string `json:"education"`
	MaritalStatus string `json:"marital-status"`
	Occupation    string `json:"occupation"`
	Gender        string `json:"gender"`
	NetCapital    int64  `json:"net-capital"`
	HoursPerWeek  int    `json:"hours-per-week"`
	NativeCountry string `json:"native-country"`
}

// Field is one named cell of a Record, in column order.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

var displayPrinter = message.NewPrinter(language.English)

// Fields lists the record in the given column order, formatted for display.
func (r Record) Fields(columns []string) []Field {
	fields := make([]Field, 0, len(columns))
	for _, name := range columns {
		fields = append(fields, Field{Name: name, Value: r.format(name)})
	}
	return fields
}

func (r Record) format(name string) string {
	switch name {
	case FieldAge:
		return displayPrinter.Sprintf("%d", r.Age)
	case FieldWorkclass:
		return r.Workclass
	case FieldEducation:
		return r.Education
	case FieldMaritalStatus:
		return r.MaritalStatus
	case FieldOccupation:
		return r.Occupation
	case FieldGender:
		return r.Gender
	case FieldNetCapital:
		return displayPrinter.Sprintf("%d", r.NetCapital)
	case FieldHoursPerWeek:
		return displayPrinter.Sprintf("%d", r.HoursPerWeek)
	case FieldNativeCountry:
		return r.NativeCountry
	}
	return ""
}
