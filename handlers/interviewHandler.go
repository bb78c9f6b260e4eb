package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"interviewcoach/db"
	"interviewcoach/models"
	"interviewcoach/services/interview"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// LogLoader reads back persisted interview logs.
type LogLoader interface {
	GetLog(id string) (*models.InterviewLog, error)
}

type InterviewHandler struct {
	registry *interview.Registry
	logs     LogLoader
	logger   *zap.Logger
}

func NewInterviewHandler(registry *interview.Registry, logs LogLoader, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{registry: registry, logs: logs, logger: logger}
}

func (h *InterviewHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/interviews", h.CreateInterview).Methods("POST")
	router.HandleFunc("/interviews/{id}", h.GetInterview).Methods("GET")
	router.HandleFunc("/interviews/{id}/start", h.StartInterview).Methods("POST")
	router.HandleFunc("/interviews/{id}/turns", h.ProcessTurn).Methods("POST")
	router.HandleFunc("/interviews/{id}/finish", h.FinishInterview).Methods("POST")
	router.HandleFunc("/interviews/{id}/feedback", h.GenerateFeedback).Methods("POST")
	router.HandleFunc("/interviews/{id}/log", h.GetLog).Methods("GET")
}

func (h *InterviewHandler) CreateInterview(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Received interview creation request")

	var req models.CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode interview request JSON", zap.Error(err))
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	id, err := h.registry.Create(models.CandidateProfile{
		Name:       req.Name,
		Position:   req.Position,
		Grade:      req.Grade,
		Experience: req.Experience,
	})
	if err != nil && id == "" {
		h.writeError(w, err)
		return
	}

	h.logger.Info("Interview created successfully", zap.String("session_id", id))
	h.writeJSONResponse(w, http.StatusCreated, models.CreateInterviewResponse{ID: id, PersistenceError: errorText(err)})
}

func (h *InterviewHandler) GetInterview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var status models.InterviewStatus
	err := h.withSession(id, func(o *interview.Orchestrator) error {
		var err error
		status, err = o.Status()
		return err
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	status.ID = id
	h.writeJSONResponse(w, http.StatusOK, status)
}

func (h *InterviewHandler) StartInterview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var greeting string
	err := h.withSession(id, func(o *interview.Orchestrator) error {
		var err error
		greeting, err = o.Start(r.Context())
		return err
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.MessageResponse{Message: greeting})
}

// ProcessTurn detaches from the request context: a turn that has started
// always runs to one of its exits and is recorded.
func (h *InterviewHandler) ProcessTurn(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode turn request JSON", zap.Error(err))
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	var resp models.TurnResponse
	err := h.withSession(id, func(o *interview.Orchestrator) error {
		message, err := o.ProcessTurn(context.WithoutCancel(r.Context()), req.Message)
		if err != nil && !isPersistenceError(err) {
			return err
		}

		state, stateErr := o.State()
		if stateErr != nil {
			return stateErr
		}
		resp = models.TurnResponse{
			TurnID:           state.CurrentTurnID,
			Message:          message,
			Complete:         state.Complete,
			PersistenceError: errorText(err),
		}
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, resp)
}

func (h *InterviewHandler) FinishInterview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var summary string
	err := h.withSession(id, func(o *interview.Orchestrator) error {
		if err := o.Finish(); err != nil {
			return err
		}
		summary = o.QuickSummary()
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.MessageResponse{Message: summary})
}

func (h *InterviewHandler) GenerateFeedback(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.logger.Info("Received feedback request", zap.String("session_id", id))

	var resp models.FeedbackResponse
	err := h.withSession(id, func(o *interview.Orchestrator) error {
		feedback, err := o.GenerateFinalFeedback(context.WithoutCancel(r.Context()))
		if err != nil && !isPersistenceError(err) {
			return err
		}
		resp = models.FeedbackResponse{
			Feedback:         feedback,
			Summary:          o.QuickSummary(),
			PersistenceError: errorText(err),
		}
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, resp)
}

func (h *InterviewHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	log, err := h.logs.GetLog(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, log)
}

func (h *InterviewHandler) withSession(id string, fn func(o *interview.Orchestrator) error) error {
	session, err := h.registry.Get(id)
	if err != nil {
		return err
	}
	return session.Do(fn)
}

func isPersistenceError(err error) bool {
	var persistErr *interview.PersistenceError
	return errors.As(err, &persistErr)
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (h *InterviewHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound), errors.Is(err, db.ErrLogNotFound):
		h.writeErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, interview.ErrInvalidProfile):
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, interview.ErrPrecondition):
		h.writeErrorResponse(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("Interview request failed", zap.Error(err))
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *InterviewHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *InterviewHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
