package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derece-app/derece-api/internal/dto"
	"github.com/derece-app/derece-api/internal/middleware"
	"github.com/derece-app/derece-api/internal/models"
	appErrors "github.com/derece-app/derece-api/pkg/errors"
)

type assistantServiceMock struct {
	resp             dto.SendMessageResponse
	respErr          error
	history          []models.ChatMessage
	historyErr       error
	transcript       []models.ChatMessage
	transcriptErr    error
	lastUserID       string
	lastReq          dto.SendMessageRequest
	lastDate         time.Time
	handleCalled     bool
	historyCalled    bool
	transcriptCalled bool
}

func (m *assistantServiceMock) HandleMessage(ctx context.Context, userID string, req dto.SendMessageRequest) (dto.SendMessageResponse, error) {
	m.handleCalled = true
	m.lastUserID = userID
	m.lastReq = req
	return m.resp, m.respErr
}

func (m *assistantServiceMock) History(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	m.historyCalled = true
	m.lastUserID = userID
	return m.history, m.historyErr
}

func (m *assistantServiceMock) Transcript(ctx context.Context, userID string, date time.Time) ([]models.ChatMessage, error) {
	m.transcriptCalled = true
	m.lastUserID = userID
	m.lastDate = date
	return m.transcript, m.transcriptErr
}

func TestAssistantHandlerSendMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assistantServiceMock{
		resp: dto.SendMessageResponse{Content: "Salı günü 09:00-10:30 arasına ekledim."},
	}
	handler := NewAssistantHandler(mockSvc)

	payload, _ := json.Marshal(dto.SendMessageRequest{Message: "salı 9'dan 10 buçuğa matematik türev ekle"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/assistant/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

	handler.SendMessage(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.handleCalled)
	assert.Equal(t, "user-1", mockSvc.lastUserID)
	assert.Contains(t, w.Body.String(), "ekledim")
}

func TestAssistantHandlerSendMessageUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assistantServiceMock{}
	handler := NewAssistantHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/assistant/messages", bytes.NewBufferString(`{"message":"selam"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.SendMessage(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, mockSvc.handleCalled)
}

func TestAssistantHandlerSendMessageInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAssistantHandler(&assistantServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/assistant/messages", bytes.NewBufferString(`{"message":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

	handler.SendMessage(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistantHandlerSendMessageEmptyMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assistantServiceMock{}
	handler := NewAssistantHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/assistant/messages", bytes.NewBufferString(`{"message":""}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

	handler.SendMessage(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.handleCalled)
}

func TestAssistantHandlerSendMessageOracleDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assistantServiceMock{respErr: appErrors.ErrOracleUnavailable}
	handler := NewAssistantHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/assistant/messages", bytes.NewBufferString(`{"message":"selam"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

	handler.SendMessage(c)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAssistantHandlerHistory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assistantServiceMock{
		history: []models.ChatMessage{{ID: "msg-1", Content: "selam"}},
	}
	handler := NewAssistantHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/assistant/messages", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

	handler.History(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.historyCalled)
	assert.False(t, mockSvc.transcriptCalled)
}

func TestAssistantHandlerHistoryWithDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assistantServiceMock{}
	handler := NewAssistantHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/assistant/messages?date=2026-01-05", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

	handler.History(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.transcriptCalled)
	assert.False(t, mockSvc.historyCalled)
	assert.Equal(t, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), mockSvc.lastDate)
}

func TestAssistantHandlerHistoryBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assistantServiceMock{}
	handler := NewAssistantHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/assistant/messages?date=05.01.2026", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})

	handler.History(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.transcriptCalled)
}
