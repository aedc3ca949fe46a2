package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"maskoff-server/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP statuses. Anything unmapped is a
// 500 with a generic body; the detail goes to the log, not the client.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidVerification),
		errors.Is(err, service.ErrInvalidResetToken):
		status, msg = http.StatusUnauthorized, err.Error()

	case errors.Is(err, service.ErrNotPostOwner),
		errors.Is(err, service.ErrNotCommentOwner),
		errors.Is(err, service.ErrNotJobOwner),
		errors.Is(err, service.ErrNotParticipant),
		errors.Is(err, service.ErrNotSender):
		status, msg = http.StatusForbidden, err.Error()

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrFriendUserAbsent),
		errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrJobNotFound),
		errors.Is(err, service.ErrApplicationNotFound),
		errors.Is(err, service.ErrChatNotFound),
		errors.Is(err, service.ErrMessageNotFound):
		status, msg = http.StatusNotFound, err.Error()

	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrMaskIDTaken),
		errors.Is(err, service.ErrAlreadyFriends),
		errors.Is(err, service.ErrRequestExists),
		errors.Is(err, service.ErrAlreadyApplied):
		status, msg = http.StatusConflict, err.Error()

	case errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrUnderage),
		errors.Is(err, service.ErrInvalidDOB),
		errors.Is(err, service.ErrSelfFriend),
		errors.Is(err, service.ErrNotFriends),
		errors.Is(err, service.ErrSelfChat),
		errors.Is(err, service.ErrBadChatType),
		errors.Is(err, service.ErrNotJobChat),
		errors.Is(err, service.ErrOwnJobApplication),
		errors.Is(err, service.ErrBadApplicationState):
		status, msg = http.StatusBadRequest, err.Error()
	}

	if status == http.StatusInternalServerError {
		slog.Error("Request handler error", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": msg})
}
