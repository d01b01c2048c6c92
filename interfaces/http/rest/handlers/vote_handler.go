package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"qaforum/application/services"
	"qaforum/domain/core/entities"
	"qaforum/pkg/auth"
	"qaforum/pkg/common"
	"qaforum/pkg/utils"
)

// VoteHandler handles voting HTTP requests
type VoteHandler struct {
	voteService *services.VoteService
	logger      *zap.Logger
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(voteService *services.VoteService, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
		logger:      logger,
	}
}

// CastVoteRequest represents the request body for casting a vote. Casting
// the same direction twice removes the vote.
type CastVoteRequest struct {
	TargetType string `json:"targetType" validate:"required,oneof=question answer"`
	TargetID   string `json:"targetId" validate:"required"`
	Direction  string `json:"direction" validate:"required,oneof=upvote downvote"`
}

// Cast handles POST /votes
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	var req CastVoteRequest
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

	result, err := h.voteService.Apply(r.Context(), req.TargetType, req.TargetID, userCtx.UserID, entities.VoteDirection(req.Direction))
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetForQuestion handles GET /votes?questionId=...; it returns the
// caller's current vote directions on the question and its answers
func (h *VoteHandler) GetForQuestion(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondUnauthorized(w)
		return
	}

	questionID := r.URL.Query().Get("questionId")
	if questionID == "" {
		respondBadRequest(w, "questionId is required")
		return
	}

	votes, err := h.voteService.GetVotesForQuestion(r.Context(), userCtx.UserID, questionID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"votes": votes})
}

// Stats handles GET /votes/stats; it returns the votes received across
// the caller's content and their derived reputation
func (h *VoteHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondUnauthorized(w)
		return
	}

	stats, err := h.voteService.UserVoteStats(r.Context(), userCtx.UserID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, stats)
}
