package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"qaforum/application/services"
	"qaforum/pkg/auth"
	"qaforum/pkg/common"
	"qaforum/pkg/utils"
)

// AnswerHandler handles answer and comment HTTP requests
type AnswerHandler struct {
	answerService *services.AnswerService
	acceptService *services.AcceptanceService
	logger        *zap.Logger
}

// NewAnswerHandler creates a new answer handler
func NewAnswerHandler(
	answerService *services.AnswerService,
	acceptService *services.AcceptanceService,
	logger *zap.Logger,
) *AnswerHandler {
	return &AnswerHandler{
		answerService: answerService,
		acceptService: acceptService,
		logger:        logger,
	}
}

// CreateAnswerRequest represents the request body for posting an answer
type CreateAnswerRequest struct {
	Content string `json:"content" validate:"required,min=10"`
}

// UpdateAnswerRequest represents the request body for editing an answer
type UpdateAnswerRequest struct {
	Content string `json:"content" validate:"required,min=10"`
}

// AddCommentRequest represents the request body for commenting on an answer
type AddCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// AcceptRequest represents the request body for changing acceptance state
type AcceptRequest struct {
	Accepted bool `json:"accepted"`
}

// Create handles POST /questions/{questionID}/answers
func (h *AnswerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAnswerRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondUnauthorized(w)
		return
	}

	answer, err := h.answerService.Create(r.Context(), chi.URLParam(r, "questionID"), userCtx.UserID, req.Content)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, answer)
}

// ListByQuestion handles GET /questions/{questionID}/answers
func (h *AnswerHandler) ListByQuestion(w http.ResponseWriter, r *http.Request) {
	answers, pagination, err := h.answerService.ListByQuestion(r.Context(), chi.URLParam(r, "questionID"), common.ExtractPaginationParams(r))
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"answers":    answers,
		"pagination": pagination,
	})
}

// Get handles GET /answers/{answerID}
func (h *AnswerHandler) Get(w http.ResponseWriter, r *http.Request) {
	answer, err := h.answerService.Get(r.Context(), chi.URLParam(r, "answerID"))
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, answer)
}

// Update handles PUT /answers/{answerID}
func (h *AnswerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateAnswerRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondUnauthorized(w)
		return
	}

	answer, err := h.answerService.Update(r.Context(), chi.URLParam(r, "answerID"), userCtx.UserID, req.Content)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, answer)
}

// Delete handles DELETE /answers/{answerID}
func (h *AnswerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondUnauthorized(w)
		return
	}

	if err := h.answerService.Delete(r.Context(), chi.URLParam(r, "answerID"), userCtx.UserID); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "answer deleted"})
}

// AddComment handles POST /answers/{answerID}/comments
func (h *AnswerHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req AddCommentRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondUnauthorized(w)
		return
	}

	answer, err := h.answerService.AddComment(r.Context(), chi.URLParam(r, "answerID"), userCtx.UserID, req.Content)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, answer)
}

// SetAccepted handles PUT /questions/{questionID}/answers/{answerID}/accept
func (h *AnswerHandler) SetAccepted(w http.ResponseWriter, r *http.Request) {
	var req AcceptRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondUnauthorized(w)
		return
	}

	questionID := chi.URLParam(r, "questionID")
	answerID := chi.URLParam(r, "answerID")

	var answer interface{}
	if req.Accepted {
		answer, err = h.acceptService.Accept(r.Context(), questionID, answerID, userCtx.UserID)
	} else {
		answer, err = h.acceptService.Unaccept(r.Context(), questionID, answerID, userCtx.UserID)
	}
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, answer)
}
