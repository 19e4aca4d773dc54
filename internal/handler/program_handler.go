package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/derece-app/derece-api/internal/models"
	appErrors "github.com/derece-app/derece-api/pkg/errors"
	"github.com/derece-app/derece-api/pkg/response"
)

type programService interface {
	EntriesByDate(ctx context.Context, userID string, date time.Time) ([]models.EntryWithTopic, error)
	EntriesForWeek(ctx context.Context, userID string, date time.Time) ([]models.EntryWithTopic, error)
	ScheduledDates(ctx context.Context, userID string) ([]time.Time, error)
	SetCompleted(ctx context.Context, userID, entryID string, completed bool) error
	Reset(ctx context.Context, userID string) (*models.Program, error)
}

type plannerClock interface {
	Today() time.Time
}

// ProgramHandler serves the schedule read API plus completion toggles
// and program resets.
type ProgramHandler struct {
	service programService
	planner plannerClock
}

// NewProgramHandler constructs handler.
func NewProgramHandler(svc programService, planner plannerClock) *ProgramHandler {
	return &ProgramHandler{service: svc, planner: planner}
}

func (h *ProgramHandler) queryDate(c *gin.Context) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return h.planner.Today(), nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}
	return date, nil
}

// EntriesByDate godoc
// @Summary List schedule entries for one date
// @Tags Program
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /program/entries [get]
func (h *ProgramHandler) EntriesByDate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	date, err := h.queryDate(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.service.EntriesByDate(c.Request.Context(), userID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// EntriesForWeek godoc
// @Summary List schedule entries for the week containing a date
// @Tags Program
// @Produce json
// @Param date query string false "Any date inside the week (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /program/week [get]
func (h *ProgramHandler) EntriesForWeek(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	date, err := h.queryDate(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.service.EntriesForWeek(c.Request.Context(), userID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// ScheduledDates godoc
// @Summary List distinct dates holding entries
// @Tags Program
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /program/dates [get]
func (h *ProgramHandler) ScheduledDates(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	dates, err := h.service.ScheduledDates(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dates, nil)
}

type setCompletedRequest struct {
	Completed bool `json:"completed"`
}

// SetCompleted godoc
// @Summary Mark an entry completed or pending
// @Tags Program
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body setCompletedRequest true "Completion flag"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /program/entries/{id}/complete [patch]
func (h *ProgramHandler) SetCompleted(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req setCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.SetCompleted(c.Request.Context(), userID, c.Param("id"), req.Completed); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reset godoc
// @Summary Archive the active program and start a fresh one
// @Tags Program
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /program/reset [post]
func (h *ProgramHandler) Reset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	program, err := h.service.Reset(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, program)
}
