package ml

// Slider describes a bounded integer input.
type Slider struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// NumberInput describes an integer input limited to what a feature holds
// exactly.
type NumberInput struct {
	Min     int64 `json:"min"`
	Max     int64 `json:"max"`
	Default int64 `json:"default"`
	Step    int64 `json:"step"`
}

// Options is the widget configuration of the form.
type Options struct {
	Age           Slider      `json:"age"`
	Gender        []string    `json:"gender"`
	Workclass     []string    `json:"workclass"`
	Occupation    []string    `json:"occupation"`
	HoursPerWeek  Slider      `json:"hours-per-week"`
	NativeCountry []string    `json:"native-country"`
	MaritalStatus []string    `json:"marital-status"`
	Education     []string    `json:"education"`
	NetCapital    NumberInput `json:"net-capital"`
}

// FormOptions builds the form choices from the fitted encoders. Workclass
// choices are the display labels, everything else the encoder classes.
func FormOptions(b *Bundle) (Options, error) {
	opts := Options{
		Age:          Slider{Min: MinAge, Max: MaxAge, Default: DefaultAge},
		Workclass:    WorkclassLabels(),
		HoursPerWeek: Slider{Min: MinHoursPerWeek, Max: MaxHoursPerWeek, Default: DefaultHoursPerWeek},
		NetCapital:   NumberInput{Min: -MaxNetCapital, Max: MaxNetCapital, Default: 0, Step: 1},
	}
	targets := []struct {
		field string
		dst   *[]string
	}{
		{FieldGender, &opts.Gender},
		{FieldOccupation, &opts.Occupation},
		{FieldNativeCountry, &opts.NativeCountry},
		{FieldMaritalStatus, &opts.MaritalStatus},
		{FieldEducation, &opts.Education},
	}
	for _, t := range targets {
		classes, err := b.Classes(t.field)
		if err != nil {
			return Options{}, err
		}
		*t.dst = classes
	}
	return opts, nil
}

// DefaultInput is the form's initial state: slider defaults and the first
// choice of every list.
func (o Options) DefaultInput() RawInput {
	return RawInput{
		Age:           o.Age.Default,
		Gender:        first(o.Gender),
		Workclass:     first(o.Workclass),
		Occupation:    first(o.Occupation),
		HoursPerWeek:  o.HoursPerWeek.Default,
		NativeCountry: first(o.NativeCountry),
		MaritalStatus: first(o.MaritalStatus),
		Education:     first(o.Education),
		NetCapital:    o.NetCapital.Default,
	}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
