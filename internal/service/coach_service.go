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

// CoachService runs the read-only coach chat. The coach sees a summary
// of the student's day embedded in its system prompt but registers no
// tools, so it can never mutate the schedule.
type CoachService struct {
	programs     programStore
	entries      entryStore
	oracle       Oracle
	messages     messageStore
	cache        *CacheService
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	historyLimit int
	summaryTTL   time.Duration
	loc          *time.Location
	now          func() time.Time
}

// CoachOption configures the service.
type CoachOption func(*CoachService)

// WithCoachClock overrides the wall clock, used by tests.
func WithCoachClock(now func() time.Time) CoachOption {
	return func(s *CoachService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewCoachService constructs the coach. cache, metrics and validate may
// be nil; without a cache the summary is rebuilt on every message.
func NewCoachService(programs programStore, entries entryStore, oracle Oracle, messages messageStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, historyLimit int, summaryTTL time.Duration, loc *time.Location, logger *zap.Logger, opts ...CoachOption) *CoachService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	if historyLimit <= 0 {
		historyLimit = 50
	}
	if summaryTTL <= 0 {
		summaryTTL = 5 * time.Minute
	}
	svc := &CoachService{
		programs:     programs,
		entries:      entries,
		oracle:       oracle,
		messages:     messages,
		cache:        cache,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		historyLimit: historyLimit,
		summaryTTL:   summaryTTL,
		loc:          loc,
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Today returns the current civil date in the configured timezone.
func (s *CoachService) Today() time.Time {
	return CivilDate(s.now().In(s.loc))
}

// HandleMessage runs one coach exchange and returns the reply.
func (s *CoachService) HandleMessage(ctx context.Context, userID string, req dto.SendMessageRequest) (dto.SendMessageResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SendMessageResponse{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message")
	}

	sessionDate := s.Today()
	if req.SessionDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.SessionDate); err == nil {
			sessionDate = CivilDate(parsed)
		}
	}

	summary, program, err := s.programSummary(ctx, userID, sessionDate)
	if err != nil {
		return dto.SendMessageResponse{}, err
	}

	prior, err := s.messages.ListByDate(ctx, userID, models.MessageKindCoach, sessionDate)
	if err != nil {
		return dto.SendMessageResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "transcript lookup failed")
	}
	if len(prior) > s.historyLimit {
		prior = prior[len(prior)-s.historyLimit:]
	}

	var programID *string
	if program != nil {
		programID = &program.ID
	}
	if err := s.messages.Insert(ctx, &models.ChatMessage{
		UserID:      userID,
		ProgramID:   programID,
		Kind:        models.MessageKindCoach,
		Role:        models.RoleUser,
		Content:     req.Message,
		SessionDate: sessionDate,
	}); err != nil {
		return dto.SendMessageResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "transcript insert failed")
	}

	chat := s.oracle.StartChat(CoachPrompt(summary), toChatTurns(prior), false)

	start := time.Now()
	reply, err := chat.Send(ctx, req.Message)
	if s.metrics != nil {
		s.metrics.ObserveOracleCall("coach", time.Since(start), err)
	}
	if err != nil {
		s.logger.Error("oracle send failed", zap.String("user_id", userID), zap.Error(err))
		return dto.SendMessageResponse{}, appErrors.Wrap(err, appErrors.ErrOracleUnavailable.Code, appErrors.ErrOracleUnavailable.Status, appErrors.ErrOracleUnavailable.Message)
	}

	final := strings.TrimSpace(reply.Text)
	if final == "" {
		final = oracleFallbackReply
	}

	if err := s.messages.Insert(ctx, &models.ChatMessage{
		UserID:      userID,
		ProgramID:   programID,
		Kind:        models.MessageKindCoach,
		Role:        models.RoleAssistant,
		Content:     final,
		SessionDate: sessionDate,
	}); err != nil {
		return dto.SendMessageResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "transcript insert failed")
	}

	return dto.SendMessageResponse{Content: final}, nil
}

// Transcript returns one day's coach conversation.
func (s *CoachService) Transcript(ctx context.Context, userID string, date time.Time) ([]models.ChatMessage, error) {
	messages, err := s.messages.ListByDate(ctx, userID, models.MessageKindCoach, CivilDate(date))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "transcript lookup failed")
	}
	return messages, nil
}

// programSummary builds (or serves from cache) the day summary the
// coach prompt embeds. A user without an active program gets an empty
// summary and the plain persona.
func (s *CoachService) programSummary(ctx context.Context, userID string, date time.Time) (string, *models.Program, error) {
	program, err := s.programs.FindActive(ctx, userID)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "program lookup failed")
	}
	if program == nil {
		return "", nil, nil
	}

	key := fmt.Sprintf("coach:summary:%s:%s", userID, date.Format("2006-01-02"))
	if s.cache.Enabled() {
		var cached string
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return cached, program, nil
		}
	}

	entries, err := s.entries.ListByDate(ctx, program.ID, date)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "entry lookup failed")
	}
	summary := buildProgramSummary(date, entries)

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, summary, s.summaryTTL); err != nil {
			s.logger.Warn("summary cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return summary, program, nil
}

func buildProgramSummary(date time.Time, entries []models.EntryWithTopic) string {
	if len(entries) == 0 {
		return fmt.Sprintf("%s için planlanmış ders yok.", formatTurkishDate(date))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Tarih: %s\n", formatTurkishDate(date))
	for _, entry := range entries {
		marker := "⭕ [BEKLİYOR]"
		if entry.IsCompleted {
			marker = "✅ [BİTTİ]"
		}
		fmt.Fprintf(&b, "- %s-%s %s - %s %s\n",
			FormatClock(entry.StartMinute()), FormatClock(entry.EndMinute()), entry.Subject, entry.Title, marker)
	}
	return strings.TrimRight(b.String(), "\n")
}
