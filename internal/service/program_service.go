package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/derece-app/derece-api/internal/models"
	appErrors "github.com/derece-app/derece-api/pkg/errors"
)

type entryBrowser interface {
	ListByDate(ctx context.Context, programID string, date time.Time) ([]models.EntryWithTopic, error)
	ListByDateRange(ctx context.Context, programID string, from, to time.Time) ([]models.EntryWithTopic, error)
	ListDates(ctx context.Context, programID string) ([]time.Time, error)
	SetCompleted(ctx context.Context, programID, id string, completed bool) (bool, error)
}

// ProgramService serves the read side of the schedule plus the two
// non-conversational writes: completion toggles and program resets.
type ProgramService struct {
	planner *PlannerService
	entries entryBrowser
	cache   *CacheService
	logger  *zap.Logger
}

// NewProgramService constructs the service. cache may be nil.
func NewProgramService(planner *PlannerService, entries entryBrowser, cache *CacheService, logger *zap.Logger) *ProgramService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{planner: planner, entries: entries, cache: cache, logger: logger}
}

// EntriesByDate returns the user's entries for one civil date,
// auto-creating a program when none exists.
func (s *ProgramService) EntriesByDate(ctx context.Context, userID string, date time.Time) ([]models.EntryWithTopic, error) {
	program, _, err := s.planner.EnsureActiveProgram(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByDate(ctx, program.ID, CivilDate(date))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "entry lookup failed")
	}
	return entries, nil
}

// EntriesForWeek returns entries for the seven days starting at the
// Monday of the week containing date.
func (s *ProgramService) EntriesForWeek(ctx context.Context, userID string, date time.Time) ([]models.EntryWithTopic, error) {
	program, _, err := s.planner.EnsureActiveProgram(ctx, userID)
	if err != nil {
		return nil, err
	}
	day := CivilDate(date)
	monday := day.AddDate(0, 0, -DayIndexOf(day))
	entries, err := s.entries.ListByDateRange(ctx, program.ID, monday, monday.AddDate(0, 0, 6))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "entry lookup failed")
	}
	return entries, nil
}

// ScheduledDates returns the distinct dates holding at least one entry.
func (s *ProgramService) ScheduledDates(ctx context.Context, userID string) ([]time.Time, error) {
	program, _, err := s.planner.EnsureActiveProgram(ctx, userID)
	if err != nil {
		return nil, err
	}
	dates, err := s.entries.ListDates(ctx, program.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "date lookup failed")
	}
	return dates, nil
}

// SetCompleted flips one entry's completion flag and invalidates the
// coach summary cache, since the summary includes completion markers.
func (s *ProgramService) SetCompleted(ctx context.Context, userID, entryID string, completed bool) error {
	program, _, err := s.planner.EnsureActiveProgram(ctx, userID)
	if err != nil {
		return err
	}
	updated, err := s.entries.SetCompleted(ctx, program.ID, entryID, completed)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "completion update failed")
	}
	if !updated {
		return appErrors.ErrNotFound
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, coachSummaryPattern(userID)); err != nil {
			s.logger.Warn("summary cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return nil
}

// Reset archives the active program and starts a fresh one.
func (s *ProgramService) Reset(ctx context.Context, userID string) (*models.Program, error) {
	program, err := s.planner.ResetProgram(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, coachSummaryPattern(userID)); err != nil {
			s.logger.Warn("summary cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return program, nil
}
