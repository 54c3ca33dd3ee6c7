package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"surveyflow/internal/service"
	"surveyflow/internal/survey"
)

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error      string              `json:"error"`
	Violations map[string][]string `json:"violations,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps domain errors onto status codes
func writeServiceError(w http.ResponseWriter, err error) {
	var failed *survey.ValidationFailedError
	switch {
	case errors.As(err, &failed):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:      survey.ErrValidationFailed.Error(),
			Violations: failed.Violations,
		})
	case errors.Is(err, survey.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, survey.ErrUnknownQuestion),
		errors.Is(err, service.ErrSurveyNotFound),
		errors.Is(err, service.ErrResponseNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidSurvey):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
