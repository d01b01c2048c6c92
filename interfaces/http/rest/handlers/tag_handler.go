package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"qaforum/application/services"
	"qaforum/pkg/common"
)

// TagHandler handles tag HTTP requests
type TagHandler struct {
	tagService *services.TagService
	logger     *zap.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService *services.TagService, logger *zap.Logger) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		logger:     logger,
	}
}

// List handles GET /tags
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.List(r.Context())
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}

// Get handles GET /tags/{tag}
func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")

	questions, pagination, err := h.tagService.Get(r.Context(), tag, common.ExtractPaginationParams(r))
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"tag":        tag,
		"questions":  questions,
		"pagination": pagination,
	})
}
