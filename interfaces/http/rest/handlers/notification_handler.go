package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"qaforum/application/services"
	"qaforum/pkg/auth"
	"qaforum/pkg/common"
)

// NotificationHandler handles notification HTTP requests. Every endpoint
// is scoped to the authenticated recipient.
type NotificationHandler struct {
	notificationService *services.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List handles GET /notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondUnauthorized(w)
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	feed, err := h.notificationService.List(r.Context(), userCtx.UserID, unreadOnly, common.ExtractPaginationParams(r))
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, feed)
}

// MarkRead handles PUT /notifications/{notificationID}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondUnauthorized(w)
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), userCtx.UserID, chi.URLParam(r, "notificationID")); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "notification marked read"})
}

// MarkAllRead handles PUT /notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondUnauthorized(w)
		return
	}

	if err := h.notificationService.MarkAllRead(r.Context(), userCtx.UserID); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "all notifications marked read"})
}

// Delete handles DELETE /notifications/{notificationID}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondUnauthorized(w)
		return
	}

	if err := h.notificationService.Delete(r.Context(), userCtx.UserID, chi.URLParam(r, "notificationID")); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "notification deleted"})
}
