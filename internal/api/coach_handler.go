package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/coach"

	"github.com/gin-gonic/gin"
)

type CoachHandler struct {
	coach coach.Coach
}

func NewCoachHandler(c coach.Coach) *CoachHandler {
	return &CoachHandler{coach: c}
}

type ChatRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type ChatResponse struct {
	Text string `json:"text"`
}

// Chat godoc
// @Summary Ask the AI coach a free-text question
// @Description Proxies one prompt to the coaching collaborator. Failures here never affect plans or check-ins.
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chat body ChatRequest true "Prompt"
// @Success 200 {object} ChatResponse "Coach reply"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 502 {object} gin.H "Coach collaborator unavailable"
// @Router /coach/chat [post]
func (h *CoachHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	text, err := h.coach.Chat(c.Request.Context(), req.Prompt)
	if err != nil {
		log.Printf("WARN: coach chat failed: %v", err)
		if errors.Is(err, coach.ErrCoachUnavailable) {
			abortWithError(c, http.StatusBadGateway, "Coach is unavailable right now.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to reach the coach.")
		}
		return
	}
	c.JSON(http.StatusOK, ChatResponse{Text: text})
}
