package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"surveyflow/internal/model"
	"surveyflow/internal/service"
)

// ResponseHandler handles respondent endpoints
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// StartRequest is the optional body for starting a response
type StartRequest struct {
	RespondentID string `json:"respondentId"`
}

// AnswerRequest is the body for recording an answer
type AnswerRequest struct {
	Value model.Value `json:"value"`
}

// ValidateResponse lists violations for the currently visible questions
type ValidateResponse struct {
	Valid      bool                `json:"valid"`
	Violations map[string][]string `json:"violations"`
}

// Start handles POST /v1/surveys/{surveyId}/responses
//
//	@Summary	Start a response session
//	@Tags		responses
//	@Accept		json
//	@Produce	json
//	@Param		surveyId	path		string			true	"survey id"
//	@Param		body		body		StartRequest	false	"respondent"
//	@Success	201			{object}	model.StartResponse
//	@Failure	404			{object}	ErrorResponse
//	@Router		/surveys/{surveyId}/responses [post]
func (h *ResponseHandler) Start(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.responseSvc.Start(r.Context(), surveyID, req.RespondentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/responses/{responseId}
//
//	@Summary	Current session view
//	@Tags		responses
//	@Security	BearerAuth
//	@Param		responseId	path		string	true	"response id"
//	@Success	200			{object}	model.SessionView
//	@Router		/responses/{responseId} [get]
func (h *ResponseHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.responseSvc.Get(r.Context(), mux.Vars(r)["responseId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetAnswer handles PUT /v1/responses/{responseId}/answers/{questionId}
//
//	@Summary	Record an answer
//	@Tags		responses
//	@Security	BearerAuth
//	@Param		responseId	path		string			true	"response id"
//	@Param		questionId	path		string			true	"question id"
//	@Param		body		body		AnswerRequest	true	"answer"
//	@Success	200			{object}	model.SessionView
//	@Failure	409			{object}	ErrorResponse
//	@Router		/responses/{responseId}/answers/{questionId} [put]
func (h *ResponseHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Value.IsNone() {
		writeError(w, http.StatusBadRequest, "value is required; use skip or clear instead")
		return
	}

	view, err := h.responseSvc.SetAnswer(r.Context(), vars["responseId"], vars["questionId"], req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Skip handles POST /v1/responses/{responseId}/answers/{questionId}/skip
//
//	@Summary	Skip a question
//	@Tags		responses
//	@Security	BearerAuth
//	@Param		responseId	path		string	true	"response id"
//	@Param		questionId	path		string	true	"question id"
//	@Success	200			{object}	model.SessionView
//	@Router		/responses/{responseId}/answers/{questionId}/skip [post]
func (h *ResponseHandler) Skip(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := h.responseSvc.Skip(r.Context(), vars["responseId"], vars["questionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Clear handles DELETE /v1/responses/{responseId}/answers/{questionId}
//
//	@Summary	Clear an answer
//	@Tags		responses
//	@Security	BearerAuth
//	@Param		responseId	path		string	true	"response id"
//	@Param		questionId	path		string	true	"question id"
//	@Success	200			{object}	model.SessionView
//	@Router		/responses/{responseId}/answers/{questionId} [delete]
func (h *ResponseHandler) Clear(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := h.responseSvc.Clear(r.Context(), vars["responseId"], vars["questionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Validate handles POST /v1/responses/{responseId}/validate
//
//	@Summary	Dry-run validation
//	@Tags		responses
//	@Security	BearerAuth
//	@Param		responseId	path		string	true	"response id"
//	@Success	200			{object}	ValidateResponse
//	@Router		/responses/{responseId}/validate [post]
func (h *ResponseHandler) Validate(w http.ResponseWriter, r *http.Request) {
	violations, err := h.responseSvc.Validate(r.Context(), mux.Vars(r)["responseId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: len(violations) == 0, Violations: violations})
}

// Submit handles POST /v1/responses/{responseId}/submit
//
//	@Summary	Submit a response
//	@Tags		responses
//	@Security	BearerAuth
//	@Param		responseId	path		string	true	"response id"
//	@Success	200			{object}	model.Response
//	@Failure	422			{object}	ErrorResponse
//	@Router		/responses/{responseId}/submit [post]
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	resp, err := h.responseSvc.Submit(r.Context(), mux.Vars(r)["responseId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Abandon handles POST /v1/responses/{responseId}/abandon
//
//	@Summary	Abandon a response
//	@Tags		responses
//	@Security	BearerAuth
//	@Param		responseId	path	string	true	"response id"
//	@Success	204
//	@Router		/responses/{responseId}/abandon [post]
func (h *ResponseHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.responseSvc.Abandon(r.Context(), mux.Vars(r)["responseId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
