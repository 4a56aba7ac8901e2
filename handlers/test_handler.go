package handlers

import (
	"net/http"
	"strconv"

	"ieltsprep/services"

	"github.com/gin-gonic/gin"
)

type TestHandler struct {
	testService *services.TestService
}

func NewTestHandler(testService *services.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// GenerateTest answers with the redacted view; the revealed one stays
// server side.
func (h *TestHandler) GenerateTest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.GenerateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.testService.GenerateTest(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	failures := result.SynthesisFailures
	if failures == nil {
		failures = []services.SynthesisFailure{}
	}
	c.JSON(http.StatusCreated, gin.H{
		"test":               services.ToTestView(result.Test, false),
		"synthesis_failures": failures,
	})
}

func (h *TestHandler) ListTests(c *gin.Context) {
	tests, err := h.testService.ListTests(c.Request.Context(), c.Query("skill"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tests)
}

func (h *TestHandler) GetTest(c *gin.Context) {
	testID, ok := parseID(c, "id")
	if !ok {
		return
	}

	test, err := h.testService.GetTest(c.Request.Context(), testID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, test)
}

func (h *TestHandler) DeleteTest(c *gin.Context) {
	testID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.testService.DeleteTest(c.Request.Context(), testID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Test deleted successfully"})
}
