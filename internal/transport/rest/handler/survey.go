package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"surveyflow/internal/model"
	"surveyflow/internal/service"
	"surveyflow/internal/transport/rest/middleware"
)

// SurveyHandler handles host-facing survey endpoints
type SurveyHandler struct {
	surveySvc   *service.SurveyService
	responseSvc *service.ResponseService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveySvc *service.SurveyService, responseSvc *service.ResponseService) *SurveyHandler {
	return &SurveyHandler{
		surveySvc:   surveySvc,
		responseSvc: responseSvc,
	}
}

// Create handles POST /v1/surveys
//
//	@Summary	Create a survey definition
//	@Tags		surveys
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		model.Survey	true	"definition"
//	@Success	201		{object}	map[string]string
//	@Failure	400		{object}	ErrorResponse
//	@Router		/surveys [post]
func (h *SurveyHandler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var def model.Survey
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.surveySvc.Create(r.Context(), hostID, &def)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"surveyId": id})
}

// Update handles PUT /v1/surveys/{surveyId}
//
//	@Summary	Replace a survey definition
//	@Tags		surveys
//	@Security	BearerAuth
//	@Param		surveyId	path		string			true	"survey id"
//	@Param		body		body		model.Survey	true	"definition"
//	@Success	200			{object}	model.Survey
//	@Router		/surveys/{surveyId} [put]
func (h *SurveyHandler) Update(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var def model.Survey
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	def.ID = surveyID

	if err := h.surveySvc.Update(r.Context(), hostID, &def); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, def)
}

// Get handles GET /v1/surveys/{surveyId}
//
//	@Summary	Get a survey definition
//	@Tags		surveys
//	@Security	BearerAuth
//	@Param		surveyId	path		string	true	"survey id"
//	@Success	200			{object}	model.Survey
//	@Failure	404			{object}	ErrorResponse
//	@Router		/surveys/{surveyId} [get]
func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	def, err := h.surveySvc.GetOwned(r.Context(), middleware.GetHostID(r.Context()), surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, def)
}

// Delete handles DELETE /v1/surveys/{surveyId}
//
//	@Summary	Delete a survey definition
//	@Tags		surveys
//	@Security	BearerAuth
//	@Param		surveyId	path	string	true	"survey id"
//	@Success	204
//	@Router		/surveys/{surveyId} [delete]
func (h *SurveyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	if err := h.surveySvc.Delete(r.Context(), middleware.GetHostID(r.Context()), surveyID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /v1/surveys
//
//	@Summary	List the host's surveys
//	@Tags		surveys
//	@Security	BearerAuth
//	@Success	200	{object}	map[string][]model.Survey
//	@Router		/surveys [get]
func (h *SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	surveys, err := h.surveySvc.GetByHostID(r.Context(), hostID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"surveys": surveys})
}

// Responses handles GET /v1/surveys/{surveyId}/responses
//
//	@Summary	List submitted responses
//	@Tags		surveys
//	@Security	BearerAuth
//	@Param		surveyId	path		string	true	"survey id"
//	@Param		limit		query		int		false	"max responses"
//	@Success	200			{object}	map[string][]model.Response
//	@Router		/surveys/{surveyId}/responses [get]
func (h *SurveyHandler) Responses(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	if _, err := h.surveySvc.GetOwned(r.Context(), middleware.GetHostID(r.Context()), surveyID); err != nil {
		writeServiceError(w, err)
		return
	}

	var limit int64 = 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	responses, err := h.responseSvc.ListSubmitted(r.Context(), surveyID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"responses": responses})
}

// Stats handles GET /v1/surveys/{surveyId}/stats
//
//	@Summary	Session counters for a survey
//	@Tags		surveys
//	@Security	BearerAuth
//	@Param		surveyId	path		string	true	"survey id"
//	@Success	200			{object}	model.SurveyStats
//	@Router		/surveys/{surveyId}/stats [get]
func (h *SurveyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	if _, err := h.surveySvc.GetOwned(r.Context(), middleware.GetHostID(r.Context()), surveyID); err != nil {
		writeServiceError(w, err)
		return
	}

	stats, err := h.responseSvc.Stats(r.Context(), surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
