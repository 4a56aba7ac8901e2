package handlers

import (
	"errors"
	"log"
	"net/http"

	"ieltsprep/services"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrAuthenticationRequired),
		errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrTestNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrAnswerNotFound),
		errors.Is(err, services.ErrHistoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidSessionState),
		errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, services.ErrDuplicateAnswer):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrMalformedAIResponse),
		errors.Is(err, services.ErrAIUnavailable),
		errors.Is(err, services.ErrSynthesisFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}

	var malformed *services.MalformedResponseError
	if errors.As(err, &malformed) {
		body["error"] = services.ErrMalformedAIResponse.Error()
		body["problems"] = malformed.Problems
	}
	if status == http.StatusInternalServerError {
		log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		body["error"] = "Internal server error"
	}

	c.JSON(status, body)
}

// currentUserID returns the authenticated user, writing a 401 when absent.
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		respondError(c, services.ErrAuthenticationRequired)
		return 0, false
	}
	id, ok := userID.(uint)
	if !ok || id == 0 {
		respondError(c, services.ErrAuthenticationRequired)
		return 0, false
	}
	return id, true
}
