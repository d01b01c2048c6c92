package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"qaforum/pkg/common"
	pkgerrors "qaforum/pkg/errors"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// respondAppError renders a service error in the standard shape. Unknown
// errors become a generic internal error; their detail stays in the logs.
func respondAppError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.Error("Request failed", zap.Error(err))
			common.RespondError(w, appErr.HTTPStatus, string(appErr.Type), "internal server error")
			return
		}
		common.RespondError(w, appErr.HTTPStatus, string(appErr.Type), appErr.Message)
		return
	}

	logger.Error("Unhandled error", zap.Error(err))
	common.RespondError(w, http.StatusInternalServerError, string(pkgerrors.ErrorTypeInternal), "internal server error")
}

// respondBadRequest renders a request parsing or validation failure
func respondBadRequest(w http.ResponseWriter, message string) {
	common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation), message)
}

// respondUnauthorized renders a missing or unusable identity
func respondUnauthorized(w http.ResponseWriter) {
	common.RespondError(w, http.StatusUnauthorized, string(pkgerrors.ErrorTypeUnauthorized), "unauthorized")
}
