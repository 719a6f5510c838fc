package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/yourusername/clever-tips/internal/models"
	"github.com/yourusername/clever-tips/internal/strategy"
)

const dateLayout = "2006-01-02"

// PredictRequest is the body of POST /v1/predictions
type PredictRequest struct {
	strategy.Input
	Strategy string `json:"strategy,omitempty"`
}

// PredictionsResponse is the body of GET /v1/predictions
type PredictionsResponse struct {
	Date        string                    `json:"date"`
	Count       int                       `json:"count"`
	Predictions []*models.MatchPrediction `json:"predictions"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Predictor == nil {
		respondError(w, http.StatusServiceUnavailable, "predictions are not available", nil)
		return
	}

	var req PredictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	pred, err := s.cfg.Predictor.PredictFixture(r.Context(), req.Input, req.Strategy)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			s.logger.WithError(err).Error("Prediction failed")
		}
		respondError(w, status, "prediction failed", err)
		return
	}

	respondJSON(w, http.StatusOK, pred)
}

func (s *Server) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Predictions == nil {
		respondError(w, http.StatusServiceUnavailable, "prediction storage is not available", nil)
		return
	}

	day := time.Now().In(s.cfg.Location)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, s.cfg.Location)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
			return
		}
		day = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	preds, err := s.cfg.Predictions.GetByDate(ctx, day)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load predictions")
		respondError(w, http.StatusInternalServerError, "failed to retrieve predictions", err)
		return
	}
	if preds == nil {
		preds = []*models.MatchPrediction{}
	}

	respondJSON(w, http.StatusOK, PredictionsResponse{
		Date:        day.Format(dateLayout),
		Count:       len(preds),
		Predictions: preds,
	})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	out := make([]strategy.StrategyMetadata, 0, len(strategy.Names()))
	for _, name := range strategy.Names() {
		strat, err := strategy.Resolve(name, strategy.Options{})
		if err != nil {
			continue
		}
		out = append(out, strategy.Describe(strat, ""))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Stream == nil {
		respondError(w, http.StatusServiceUnavailable, "stream is not available", nil)
		return
	}
	s.cfg.Stream.ServeWS(w, r)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidForm),
		errors.Is(err, models.ErrInvalidFixture),
		errors.Is(err, models.ErrUnknownStrategy):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
