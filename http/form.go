package http

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"salarypredict/ml"
)

//go:embed templates/*.html static/*
var assets embed.FS

var formTemplate = template.Must(template.ParseFS(assets, "templates/form.html"))

type formPage struct {
	Options      ml.Options
	Input        ml.RawInput
	Preview      *ml.Preview
	PreviewError string
	Result       *ml.Result
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// handleForm renders the form with its default values and the input table.
func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	page := formPage{Options: h.options, Input: h.options.DefaultInput()}
	h.fillPreview(&page)
	h.render(w, http.StatusOK, page)
}

// handleFormSubmit runs a prediction and renders the page again. Failures are
// shown on the page; the form stays usable.
func (h *Handler) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	page := formPage{Options: h.options}
	in, err := parseForm(r.PostForm, h.options.DefaultInput())
	page.Input = in
	if err != nil {
		page.Result = &ml.Result{Input: in, Error: "Prediction failed: " + err.Error()}
		h.render(w, http.StatusOK, page)
		return
	}
	h.fillPreview(&page)
	result := h.predictor.Run(r.Context(), in)
	page.Result = &result
	h.render(w, http.StatusOK, page)
}

func (h *Handler) fillPreview(page *formPage) {
	preview, err := h.predictor.Preview(page.Input)
	if err != nil {
		page.PreviewError = err.Error()
		return
	}
	page.Preview = &preview
}

func (h *Handler) render(w http.ResponseWriter, status int, page formPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, page); err != nil {
		h.logger.Error("failed to render form", zap.Error(err))
	}
}

// parseForm reads a submitted form. Missing fields keep their defaults.
func parseForm(values url.Values, defaults ml.RawInput) (ml.RawInput, error) {
	in := defaults
	var err error
	if in.Age, err = formInt(values, ml.FieldAge, in.Age); err != nil {
		return in, err
	}
	if in.HoursPerWeek, err = formInt(values, ml.FieldHoursPerWeek, in.HoursPerWeek); err != nil {
		return in, err
	}
	if s := values.Get(ml.FieldNetCapital); s != "" {
		n, perr := strconv.ParseInt(s, 10, 64)
		if perr != nil {
			return in, fmt.Errorf("%s: %q is not an integer", ml.FieldNetCapital, s)
		}
		in.NetCapital = n
	}
	formString(values, ml.FieldGender, &in.Gender)
	formString(values, ml.FieldWorkclass, &in.Workclass)
	formString(values, ml.FieldOccupation, &in.Occupation)
	formString(values, ml.FieldNativeCountry, &in.NativeCountry)
	formString(values, ml.FieldMaritalStatus, &in.MaritalStatus)
	formString(values, ml.FieldEducation, &in.Education)
	return in, nil
}

func formInt(values url.Values, name string, fallback int) (int, error) {
	s := values.Get(name)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback, fmt.Errorf("%s: %q is not an integer", name, s)
	}
	return n, nil
}

func formString(values url.Values, name string, dst *string) {
	if _, ok := values[name]; ok {
		*dst = values.Get(name)
	}
}
