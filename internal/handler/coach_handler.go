package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/derece-app/derece-api/internal/dto"
	"github.com/derece-app/derece-api/internal/models"
	appErrors "github.com/derece-app/derece-api/pkg/errors"
	"github.com/derece-app/derece-api/pkg/response"
)

type coachService interface {
	HandleMessage(ctx context.Context, userID string, req dto.SendMessageRequest) (dto.SendMessageResponse, error)
	Transcript(ctx context.Context, userID string, date time.Time) ([]models.ChatMessage, error)
	Today() time.Time
}

// CoachHandler exposes the read-only coach chat.
type CoachHandler struct {
	service coachService
}

// NewCoachHandler constructs handler.
func NewCoachHandler(svc coachService) *CoachHandler {
	return &CoachHandler{service: svc}
}

// SendMessage godoc
// @Summary Send a message to the coach
// @Tags Coach
// @Accept json
// @Produce json
// @Param payload body dto.SendMessageRequest true "Message payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /coach/messages [post]
func (h *CoachHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.Message == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "message is required"))
		return
	}

	resp, err := h.service.HandleMessage(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Transcript godoc
// @Summary List one day's coach conversation
// @Tags Coach
// @Produce json
// @Param date query string false "Transcript date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /coach/messages [get]
func (h *CoachHandler) Transcript(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	date := h.service.Today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	messages, err := h.service.Transcript(c.Request.Context(), userID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, nil)
}
