package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/costs-service/internal/logger"
	"max.ks1230/costs-service/internal/model/costs"
	"max.ks1230/costs-service/internal/model/customerr"
)

type addCostRequest struct {
	Description string     `json:"description"`
	Category    string     `json:"category"`
	UserID      string     `json:"userid"`
	Sum         *float64   `json:"sum"`
	CreatedAt   *time.Time `json:"created_at"`
}

type teamMember struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

var team = []teamMember{
	{FirstName: "Roee", LastName: "Levi"},
	{FirstName: "Omer", LastName: "Trabulski"},
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, &customerr.ValidationError{Err: "invalid JSON body"})
		return
	}

	saved, err := s.recorder.AddCost(r.Context(), costs.NewCost{
		Description: req.Description,
		Category:    req.Category,
		UserID:      req.UserID,
		Sum:         req.Sum,
		CreatedAt:   req.CreatedAt,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, saved)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	id, yearStr, monthStr := query.Get("id"), query.Get("year"), query.Get("month")
	if id == "" || yearStr == "" || monthStr == "" {
		s.writeError(w, &customerr.ValidationError{Err: "missing query params: id, year, month"})
		return
	}

	year, yearErr := strconv.Atoi(yearStr)
	month, monthErr := strconv.Atoi(monthStr)
	if yearErr != nil || monthErr != nil {
		s.writeError(w, &customerr.ValidationError{Err: "invalid year or month"})
		return
	}

	report, err := s.reports.MonthlyReport(r.Context(), id, year, month)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, report)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	summary, err := s.summaries.Summary(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, summary)
}

func (s *Server) handleAbout(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, team)
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}

// writeError maps the error taxonomy onto status codes: client mistakes
// (bad input, unknown user) are 400, store failures are 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	var validationErr *customerr.ValidationError
	var notFoundErr *customerr.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		message = validationErr.Err
	case errors.As(err, &notFoundErr):
		status = http.StatusBadRequest
		message = notFoundErr.Err
	default:
		logger.Error("request failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(map[string]string{"error": message}); encErr != nil {
		logger.Error("failed to write error response", zap.Error(encErr))
	}
}
