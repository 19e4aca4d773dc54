package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/derece-app/derece-api/internal/dto"
	"github.com/derece-app/derece-api/internal/models"
	appErrors "github.com/derece-app/derece-api/pkg/errors"
)

// Oracle abstracts the tool-calling language-model provider.
type Oracle interface {
	// StartChat opens a conversation seeded with a system prompt and
	// prior turns. withTools registers the schedule-mutation tool
	// schemas; the coach chat runs without them.
	StartChat(system string, history []dto.ChatTurn, withTools bool) OracleChat
}

// OracleChat is one open conversation with the provider.
type OracleChat interface {
	Send(ctx context.Context, message string) (dto.OracleReply, error)
	SendToolResults(ctx context.Context, results []dto.ToolResult) (string, error)
}

type messageStore interface {
	Insert(ctx context.Context, msg *models.ChatMessage) error
	ListByProgram(ctx context.Context, userID, programID string, kind models.MessageKind, limit int) ([]models.ChatMessage, error)
	ListByDate(ctx context.Context, userID string, kind models.MessageKind, date time.Time) ([]models.ChatMessage, error)
}

const oracleFallbackReply = "Üzgünüm, şu an yanıt veremiyorum. Biraz sonra tekrar dener misin?"

// AssistantService orchestrates one message cycle of the program
// assistant: send the user's text to the provider, execute any tool
// calls it emits in order, hand the outcomes back for rephrasing and
// persist the transcript.
type AssistantService struct {
	planner      *PlannerService
	oracle       Oracle
	messages     messageStore
	cache        *CacheService
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	historyLimit int
}

// NewAssistantService constructs the orchestrator. cache, metrics and
// validate may be nil.
func NewAssistantService(planner *PlannerService, oracle Oracle, messages messageStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, historyLimit int, logger *zap.Logger) *AssistantService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &AssistantService{
		planner:      planner,
		oracle:       oracle,
		messages:     messages,
		cache:        cache,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		historyLimit: historyLimit,
	}
}

// HandleMessage runs one full assistant cycle for the user's message
// and returns the final user-visible reply. Provider failure before any
// tool execution leaves the schedule untouched.
func (s *AssistantService) HandleMessage(ctx context.Context, userID string, req dto.SendMessageRequest) (dto.SendMessageResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SendMessageResponse{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message")
	}

	program, _, err := s.planner.EnsureActiveProgram(ctx, userID)
	if err != nil {
		return dto.SendMessageResponse{}, err
	}

	prior, err := s.messages.ListByProgram(ctx, userID, program.ID, models.MessageKindAssistant, s.historyLimit)
	if err != nil {
		return dto.SendMessageResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "transcript lookup failed")
	}
	history := toChatTurns(prior)

	sessionDate := s.sessionDate(req.SessionDate)
	if err := s.messages.Insert(ctx, &models.ChatMessage{
		UserID:      userID,
		ProgramID:   &program.ID,
		Kind:        models.MessageKindAssistant,
		Role:        models.RoleUser,
		Content:     req.Message,
		SessionDate: sessionDate,
	}); err != nil {
		return dto.SendMessageResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "transcript insert failed")
	}

	today := s.planner.Today()
	chat := s.oracle.StartChat(AssistantPrompt(formatTurkishDate(today)), history, true)

	start := time.Now()
	reply, err := chat.Send(ctx, req.Message)
	if s.metrics != nil {
		s.metrics.ObserveOracleCall("assistant", time.Since(start), err)
	}
	if err != nil {
		s.logger.Error("oracle send failed", zap.String("user_id", userID), zap.Error(err))
		return dto.SendMessageResponse{}, appErrors.Wrap(err, appErrors.ErrOracleUnavailable.Code, appErrors.ErrOracleUnavailable.Status, appErrors.ErrOracleUnavailable.Message)
	}

	final := reply.Text
	if len(reply.Calls) > 0 {
		final, err = s.executeCalls(ctx, chat, program, userID, reply.Calls)
		if err != nil {
			return dto.SendMessageResponse{}, err
		}
	}
	if strings.TrimSpace(final) == "" {
		final = oracleFallbackReply
	}

	if err := s.messages.Insert(ctx, &models.ChatMessage{
		UserID:      userID,
		ProgramID:   &program.ID,
		Kind:        models.MessageKindAssistant,
		Role:        models.RoleAssistant,
		Content:     final,
		SessionDate: sessionDate,
	}); err != nil {
		return dto.SendMessageResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "transcript insert failed")
	}

	return dto.SendMessageResponse{Content: final}, nil
}

// executeCalls runs the tool calls sequentially and asks the provider
// to rephrase the outcomes. A storage failure mid-sequence aborts the
// cycle; earlier applied calls stay applied.
func (s *AssistantService) executeCalls(ctx context.Context, chat OracleChat, program *models.Program, userID string, calls []dto.ToolCall) (string, error) {
	results := make([]dto.ToolResult, 0, len(calls))
	mutated := false

	for _, call := range calls {
		intent, err := dto.ParseIntent(call)
		if err != nil {
			s.logger.Warn("unparseable tool call", zap.String("tool", call.Name), zap.Error(err))
			if s.metrics != nil {
				s.metrics.RecordMutation(call.Name, "failed")
			}
			results = append(results, dto.ToolResult{Name: call.Name, Message: "İsteği anlayamadım, lütfen tekrar dener misin?", Success: false})
			continue
		}

		result, err := s.planner.Apply(ctx, program, intent)
		if err != nil {
			if s.metrics != nil {
				s.metrics.RecordMutation(call.Name, "failed")
			}
			if result.PartiallyApplied {
				s.logger.Warn("mutation failed after side effects", zap.String("tool", call.Name), zap.String("user_id", userID))
			}
			return "", err
		}

		outcome := "rejected"
		if result.Success {
			outcome = "applied"
			mutated = true
		}
		if s.metrics != nil {
			s.metrics.RecordMutation(call.Name, outcome)
		}
		results = append(results, dto.ToolResult{Name: call.Name, Message: result.Message, Success: result.Success})
	}

	if mutated && s.cache != nil {
		if err := s.cache.Invalidate(ctx, coachSummaryPattern(userID)); err != nil {
			s.logger.Warn("summary cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	start := time.Now()
	text, err := chat.SendToolResults(ctx, results)
	if s.metrics != nil {
		s.metrics.ObserveOracleCall("assistant", time.Since(start), err)
	}
	if err != nil {
		// The mutations already happened; fall back to the raw outcome
		// messages instead of hiding applied work behind an error.
		s.logger.Warn("tool result rephrase failed", zap.String("user_id", userID), zap.Error(err))
		return joinResultMessages(results), nil
	}
	return text, nil
}

// History returns the assistant conversation for the user's active
// program, oldest first. Users without a program get an empty history.
func (s *AssistantService) History(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	program, err := s.planner.programs.FindActive(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "program lookup failed")
	}
	if program == nil {
		return []models.ChatMessage{}, nil
	}
	messages, err := s.messages.ListByProgram(ctx, userID, program.ID, models.MessageKindAssistant, s.historyLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "transcript lookup failed")
	}
	return messages, nil
}

// Transcript returns one day's assistant conversation.
func (s *AssistantService) Transcript(ctx context.Context, userID string, date time.Time) ([]models.ChatMessage, error) {
	messages, err := s.messages.ListByDate(ctx, userID, models.MessageKindAssistant, CivilDate(date))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "transcript lookup failed")
	}
	return messages, nil
}

func (s *AssistantService) sessionDate(raw string) time.Time {
	if raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			return CivilDate(parsed)
		}
	}
	return s.planner.Today()
}

func toChatTurns(messages []models.ChatMessage) []dto.ChatTurn {
	turns := make([]dto.ChatTurn, 0, len(messages))
	for _, msg := range messages {
		turns = append(turns, dto.ChatTurn{Role: string(msg.Role), Content: msg.Content})
	}
	return turns
}

func joinResultMessages(results []dto.ToolResult) string {
	parts := make([]string, 0, len(results))
	for _, result := range results {
		if result.Message != "" {
			parts = append(parts, result.Message)
		}
	}
	if len(parts) == 0 {
		return oracleFallbackReply
	}
	return strings.Join(parts, "\n")
}

func formatTurkishDate(t time.Time) string {
	return fmt.Sprintf("%s, %s", WeekDays[DayIndexOf(t)], t.Format("02.01.2006"))
}

func coachSummaryPattern(userID string) string {
	return fmt.Sprintf("coach:summary:%s:*", userID)
}
