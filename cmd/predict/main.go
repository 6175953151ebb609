package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"salarypredict/config"
	"salarypredict/ml"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	age := flag.Int("age", ml.DefaultAge, "age")
	gender := flag.String("gender", "Male", "gender")
	workclass := flag.String("workclass", "Private Sector", "workclass display label")
	occupation := flag.String("occupation", "Tech-support", "occupation")
	hours := flag.Int("hours", ml.DefaultHoursPerWeek, "hours per week")
	country := flag.String("country", "United-States", "native country")
	marital := flag.String("marital", "Never-married", "marital status")
	education := flag.String("education", "Bachelors", "education")
	capital := flag.Int64("capital", 0, "net capital (gain - loss)")
	listOptions := flag.Bool("options", false, "print the accepted values and exit")
	flag.Parse()

	cfg, err := config.Load(config.Locate(*configPath))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	bundle, err := ml.LoadBundle(cfg.Bundle())
	if err != nil {
		log.Fatalf("failed to load model artifacts: %v", err)
	}

	if *listOptions {
		if err := printOptions(bundle); err != nil {
			log.Fatalf("failed to list options: %v", err)
		}
		return
	}

	predictor, err := ml.NewPredictor(ml.NewCodec(bundle))
	if err != nil {
		log.Fatalf("failed to create predictor: %v", err)
	}

	result := predictor.Run(context.Background(), ml.RawInput{
		Age:           *age,
		Gender:        *gender,
		Workclass:     *workclass,
		Occupation:    *occupation,
		HoursPerWeek:  *hours,
		NativeCountry: *country,
		MaritalStatus: *marital,
		Education:     *education,
		NetCapital:    *capital,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if result.Encoded != nil {
		fmt.Fprintln(w, "column\tencoded\tvalue")
		for i, f := range result.Fields {
			fmt.Fprintf(w, "%s\t%.6g\t%s\n", f.Name, result.Encoded.Values[i], f.Value)
		}
		w.Flush()
		fmt.Println()
	}
	if !result.OK() {
		fmt.Fprintln(os.Stderr, result.Error)
		os.Exit(1)
	}
	fmt.Printf("Predicted Salary Range: %s (confidence %.2f)\n", result.Outcome, result.Confidence)
}

func printOptions(bundle *ml.Bundle) error {
	opts, err := ml.FormOptions(bundle)
	if err != nil {
		return err
	}
	fmt.Printf("age: %d..%d (default %d)\n", opts.Age.Min, opts.Age.Max, opts.Age.Default)
	fmt.Printf("hours: %d..%d (default %d)\n", opts.HoursPerWeek.Min, opts.HoursPerWeek.Max, opts.HoursPerWeek.Default)
	lists := []struct {
		name   string
		values []string
	}{
		{"gender", opts.Gender},
		{"workclass", opts.Workclass},
		{"occupation", opts.Occupation},
		{"country", opts.NativeCountry},
		{"marital", opts.MaritalStatus},
		{"education", opts.Education},
	}
	for _, l := range lists {
		fmt.Printf("%s:\n", l.name)
		for _, v := range l.values {
			fmt.Printf("  %s\n", v)
		}
	}
	return nil
}
