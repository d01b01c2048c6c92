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

// UserHandler handles profile HTTP requests
type UserHandler struct {
	userService *services.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// UpdateProfileRequest represents the request body for editing a profile.
// Omitted fields are left untouched.
type UpdateProfileRequest struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=200"`
	Avatar   string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// Get handles GET /users/{userID}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userService.GetProfile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, profile)
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondUnauthorized(w)
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userCtx.UserID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, profile)
}

// Update handles PUT /users/me
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
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

	user, err := h.userService.UpdateProfile(r.Context(), userCtx.UserID, userCtx.UserID, req.Username, req.Email, req.Bio, req.Avatar)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, user)
}

// ListQuestions handles GET /users/{userID}/questions
func (h *UserHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, pagination, err := h.userService.ListQuestions(r.Context(), chi.URLParam(r, "userID"), common.ExtractPaginationParams(r))
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"questions":  questions,
		"pagination": pagination,
	})
}

// ListAnswers handles GET /users/{userID}/answers
func (h *UserHandler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	answers, pagination, err := h.userService.ListAnswers(r.Context(), chi.URLParam(r, "userID"), common.ExtractPaginationParams(r))
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"answers":    answers,
		"pagination": pagination,
	})
}
