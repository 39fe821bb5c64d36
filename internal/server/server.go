// Package server is the thin HTTP hosting surface around the pipeline. All
// contract logic lives in the pipeline packages; this layer only decodes
// requests, maps terminal states to status codes, and exposes health and
// metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	stderrors "answer-pipeline/internal/common/errors"
	"answer-pipeline/internal/common/logger"
	"answer-pipeline/internal/common/observability"
	"answer-pipeline/internal/pipeline"
	"answer-pipeline/internal/record"
)

type AnswerRequest struct {
	Question string `json:"question"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Bank is the outbound banking consumer; accepted records are handed to it
// after the response is composed.
type Bank interface {
	Store(ctx context.Context, out *record.OutputRecord) error
}

type Server struct {
	pipe   *pipeline.Pipeline
	bank   Bank
	obs    *observability.Observability
	logger logger.Logger
}

func New(pipe *pipeline.Pipeline, bank Bank, obs *observability.Observability, log logger.Logger) *Server {
	return &Server{
		pipe: pipe,
		bank: bank,
		obs:  obs,
		logger: log.With(map[string]interface{}{
			"component": "server",
		}),
	}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/answers", s.handleAnswer)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use POST")
		return
	}

	requestID := uuid.New().String()
	log := s.logger.With(map[string]interface{}{"requestId": requestID})

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", "body must be a JSON object with a question field")
		return
	}

	start := time.Now()
	result, err := s.pipe.Run(r.Context(), req.Question)
	if err != nil {
		state := string(pipeline.StateRejected)
		status, code, msg := mapError(err)
		if status == http.StatusServiceUnavailable {
			state = "unavailable"
		}
		s.record(r.Context(), state, time.Since(start))
		log.WithError(err).Warn("request failed", map[string]interface{}{"status": status})
		s.writeError(w, status, code, msg)
		return
	}

	s.record(r.Context(), string(result.State), time.Since(start))
	log.Info("request accepted", map[string]interface{}{
		"slug":         result.Record.VaultNode.Slug,
		"repairRounds": result.RepairRounds,
	})

	if s.bank != nil {
		// Banking is outbound; a sink failure is logged, not surfaced.
		if err := s.bank.Store(r.Context(), result.Record); err != nil {
			log.WithError(err).Warn("banking failed", nil)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-Id", requestID)
	_ = json.NewEncoder(w).Encode(result.Record)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) record(ctx context.Context, state string, elapsed time.Duration) {
	if s.obs != nil {
		s.obs.RecordRequest(ctx, state)
		s.obs.RecordRequestDuration(ctx, elapsed, state)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Code: code, Message: message})
}

func mapError(err error) (int, string, string) {
	var stdErr *stderrors.StandardError
	if errors.As(err, &stdErr) {
		switch stdErr.Code {
		case stderrors.ErrCodeEmptyInput:
			return http.StatusBadRequest, string(stdErr.Code), stdErr.Message
		case stderrors.ErrCodeRecordRejected:
			return http.StatusUnprocessableEntity, string(stdErr.Code), stdErr.Message
		case stderrors.ErrCodeGeneratorTimeout, stderrors.ErrCodeGeneratorUnavailable:
			return http.StatusServiceUnavailable, string(stdErr.Code), stdErr.Message
		}
		return http.StatusInternalServerError, string(stdErr.Code), stdErr.Message
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", err.Error()
}
