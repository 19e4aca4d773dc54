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

type assistantService interface {
	HandleMessage(ctx context.Context, userID string, req dto.SendMessageRequest) (dto.SendMessageResponse, error)
	History(ctx context.Context, userID string) ([]models.ChatMessage, error)
	Transcript(ctx context.Context, userID string, date time.Time) ([]models.ChatMessage, error)
}

// AssistantHandler exposes the program assistant chat.
type AssistantHandler struct {
	service assistantService
}

// NewAssistantHandler constructs handler.
func NewAssistantHandler(svc assistantService) *AssistantHandler {
	return &AssistantHandler{service: svc}
}

// SendMessage godoc
// @Summary Send a message to the program assistant
// @Tags Assistant
// @Accept json
// @Produce json
// @Param payload body dto.SendMessageRequest true "Message payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /assistant/messages [post]
func (h *AssistantHandler) SendMessage(c *gin.Context) {
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

// History godoc
// @Summary List assistant conversation
// @Tags Assistant
// @Produce json
// @Param date query string false "Transcript date (YYYY-MM-DD); omit for active program history"
// @Success 200 {object} response.Envelope
// @Router /assistant/messages [get]
func (h *AssistantHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD"))
			return
		}
		messages, err := h.service.Transcript(c.Request.Context(), userID, date)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, messages, nil)
		return
	}

	messages, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, nil)
}
