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

// QuestionHandler handles question-related HTTP requests
type QuestionHandler struct {
	questionService *services.QuestionService
	answerService   *services.AnswerService
	logger          *zap.Logger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(
	questionService *services.QuestionService,
	answerService *services.AnswerService,
	logger *zap.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		answerService:   answerService,
		logger:          logger,
	}
}

// CreateQuestionRequest represents the request body for posting a question
type CreateQuestionRequest struct {
	Title       string   `json:"title" validate:"required,min=5,max=200"`
	Description string   `json:"description" validate:"required,min=10"`
	Tags        []string `json:"tags" validate:"required,min=1,max=5,dive,min=1,max=50"`
}

// UpdateQuestionRequest represents the request body for editing a question.
// Omitted fields are left untouched.
type UpdateQuestionRequest struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=5,max=200"`
	Description string   `json:"description,omitempty" validate:"omitempty,min=10"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,min=1,max=5,dive,min=1,max=50"`
}

// Create handles POST /questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
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

	question, err := h.questionService.Create(r.Context(), userCtx.UserID, req.Title, req.Description, req.Tags)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, question)
}

// List handles GET /questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	params := services.ListQuestionsParams{
		Search:     r.URL.Query().Get("search"),
		Tag:        r.URL.Query().Get("tag"),
		Pagination: common.ExtractPaginationParams(r),
	}

	questions, pagination, err := h.questionService.List(r.Context(), params)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"questions":  questions,
		"pagination": pagination,
	})
}

// Get handles GET /questions/{questionID}. The response carries the
// question and one page of its answers.
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "questionID")

	question, err := h.questionService.Get(r.Context(), questionID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	answers, pagination, err := h.answerService.ListByQuestion(r.Context(), questionID, common.ExtractPaginationParams(r))
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"question":   question,
		"answers":    answers,
		"pagination": pagination,
	})
}

// Update handles PUT /questions/{questionID}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuestionRequest
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

	question, err := h.questionService.Update(r.Context(), chi.URLParam(r, "questionID"), userCtx.UserID, req.Title, req.Description, req.Tags)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, question)
}

// Delete handles DELETE /questions/{questionID}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondUnauthorized(w)
		return
	}

	if err := h.questionService.Delete(r.Context(), chi.URLParam(r, "questionID"), userCtx.UserID); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "question deleted"})
}
