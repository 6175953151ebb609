package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"salarypredict/db"
	"salarypredict/ml"
	"salarypredict/monitoring"
)

// HistoryReader serves the prediction history endpoints.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]db.Prediction, error)
	Summary(ctx context.Context) (db.Summary, error)
}

// MetricsSource serves the metrics endpoints.
type MetricsSource interface {
	Snapshot() monitoring.Snapshot
	Handler() http.Handler
}

// Handler serves the form and the JSON API of one predictor.
type Handler struct {
	predictor *ml.Predictor
	options   ml.Options
	history   HistoryReader
	metrics   MetricsSource
	logger    *zap.Logger
}

// NewHandler builds the form options from the predictor's bundle. history may
// be nil, which disables the history endpoints.
func NewHandler(predictor *ml.Predictor, history HistoryReader, logger *zap.Logger) (*Handler, error) {
	if predictor == nil {
		return nil, errors.New("predictor is required")
	}
	options, err := ml.FormOptions(predictor.Codec().Bundle())
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		predictor: predictor,
		options:   options,
		history:   history,
		logger:    logger,
	}, nil
}

// SetMetrics enables GET /metrics and GET /api/metrics. Call before
// RegisterHandlers.
func (h *Handler) SetMetrics(metrics MetricsSource) {
	h.metrics = metrics
}

func (h *Handler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleForm)
	mux.HandleFunc("POST /{$}", h.handleFormSubmit)
	mux.Handle("GET /static/", staticHandler())

	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/options", h.handleOptions)
	mux.HandleFunc("POST /api/encode", h.handleEncode)
	mux.HandleFunc("POST /api/predict", h.handlePredict)
	mux.HandleFunc("GET /api/predictions", h.handlePredictions)
	mux.HandleFunc("GET /api/predictions/summary", h.handlePredictionSummary)
	mux.HandleFunc("GET /api/ws/form", h.handleFormSocket)

	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
		mux.HandleFunc("GET /api/metrics", h.handleMetrics)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.options)
}

func (h *Handler) handleEncode(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	preview, err := h.predictor.Preview(in)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, preview)
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	result := h.predictor.Run(r.Context(), in)
	status := http.StatusOK
	if !result.OK() {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, result)
}

func (h *Handler) handlePredictions(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, http.StatusServiceUnavailable, "prediction history disabled")
		return
	}
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		l, err := strconv.Atoi(s)
		if err != nil || l <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = l
	}
	predictions, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to load prediction history", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load prediction history")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"predictions": predictions,
	})
}

func (h *Handler) handlePredictionSummary(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, http.StatusServiceUnavailable, "prediction history disabled")
		return
	}
	summary, err := h.history.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to summarise prediction history", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load prediction history")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.metrics.Snapshot())
}

func decodeInput(r *http.Request) (ml.RawInput, error) {
	var in ml.RawInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return ml.RawInput{}, errors.New("invalid input: " + err.Error())
	}
	return in, nil
}

// respondJSON 统一JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
