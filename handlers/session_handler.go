package handlers

import (
	"net/http"

	"ieltsprep/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *services.SessionService
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) StartTest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	testID, ok := parseID(c, "id")
	if !ok {
		return
	}

	history, err := h.sessionService.StartSession(c.Request.Context(), userID, testID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, history)
}

func (h *SessionHandler) SubmitTest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	historyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.SubmitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.sessionService.SubmitSession(c.Request.Context(), userID, historyID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SessionHandler) GetUserHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	histories, err := h.sessionService.ListHistory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, histories)
}

func (h *SessionHandler) GetHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	historyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	history, err := h.sessionService.GetHistory(c.Request.Context(), userID, historyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *SessionHandler) GetResult(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	historyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.sessionService.GetResult(c.Request.Context(), userID, historyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
