package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/derece-app/derece-api/internal/dto"
	"github.com/derece-app/derece-api/internal/models"
	appErrors "github.com/derece-app/derece-api/pkg/errors"
)

// TimeHintToleranceMinutes is how far an entry's start may sit from a
// parsed time hint and still be considered the session the user meant.
const TimeHintToleranceMinutes = 60

// defaultProgramValidity is the window given to auto-created programs.
const defaultProgramValidity = 365 * 24 * time.Hour

type programStore interface {
	FindActive(ctx context.Context, userID string) (*models.Program, error)
	Create(ctx context.Context, program *models.Program) error
	Archive(ctx context.Context, programID string) error
}

type entryStore interface {
	ListByDate(ctx context.Context, programID string, date time.Time) ([]models.EntryWithTopic, error)
	Insert(ctx context.Context, entry *models.ProgramEntry) error
	Delete(ctx context.Context, ids []string) error
	UpdatePlacement(ctx context.Context, id string, patch models.EntryPatch) error
}

type topicNormalizer interface {
	NormalizeTopic(ctx context.Context, subjectFreeText, topicFreeText string) (*models.Topic, bool, error)
	EnsureTeacher(ctx context.Context, userID, name string) (*models.Teacher, bool, error)
	EnsureResource(ctx context.Context, userID, title string) (*models.Resource, bool, error)
}

// PlannerService executes the three schedule mutations. Each operation
// re-reads the day's entries immediately before writing, so calls on one
// conversation turn must run sequentially; the conflict check is
// best-effort under concurrent requests.
type PlannerService struct {
	programs programStore
	entries  entryStore
	topics   topicNormalizer
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

// PlannerOption configures the service.
type PlannerOption func(*PlannerService)

// WithClock overrides the wall clock, used by tests for a fixed "now".
func WithClock(now func() time.Time) PlannerOption {
	return func(s *PlannerService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewPlannerService constructs the service. loc is the single civil
// timezone all "today" computations use.
func NewPlannerService(programs programStore, entries entryStore, topics topicNormalizer, loc *time.Location, logger *zap.Logger, opts ...PlannerOption) *PlannerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	svc := &PlannerService{
		programs: programs,
		entries:  entries,
		topics:   topics,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Today returns the current civil date in the configured timezone.
func (s *PlannerService) Today() time.Time {
	return CivilDate(s.now().In(s.loc))
}

// EnsureActiveProgram returns the user's active program, creating one
// with the default validity window when none exists. The second return
// reports whether a program was created.
func (s *PlannerService) EnsureActiveProgram(ctx context.Context, userID string) (*models.Program, bool, error) {
	program, err := s.programs.FindActive(ctx, userID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "program lookup failed")
	}
	if program != nil {
		return program, false, nil
	}

	today := s.Today()
	program = &models.Program{
		UserID:    userID,
		Status:    models.ProgramStatusActive,
		StartDate: today,
		EndDate:   today.Add(defaultProgramValidity),
	}
	if err := s.programs.Create(ctx, program); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "program creation failed")
	}
	s.logger.Info("program auto-created", zap.String("user_id", userID), zap.String("program_id", program.ID))
	return program, true, nil
}

// ResetProgram archives the user's active program (if any) and creates
// a fresh one. Archive-then-create is two store calls, not a
// transaction; a crash between them leaves the user with no active
// program until the next ensure call.
func (s *PlannerService) ResetProgram(ctx context.Context, userID string) (*models.Program, error) {
	current, err := s.programs.FindActive(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "program lookup failed")
	}
	if current != nil {
		if err := s.programs.Archive(ctx, current.ID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "program archive failed")
		}
	}
	program, _, err := s.EnsureActiveProgram(ctx, userID)
	return program, err
}

// Apply dispatches one intent to its operation. The type switch is
// exhaustive over the Intent variants.
func (s *PlannerService) Apply(ctx context.Context, program *models.Program, intent dto.Intent) (dto.MutationResult, error) {
	switch it := intent.(type) {
	case dto.AddSession:
		return s.AddSession(ctx, program, it)
	case dto.DeleteSession:
		return s.DeleteSession(ctx, program, it)
	case dto.MoveSession:
		return s.MoveSession(ctx, program, it)
	default:
		return dto.MutationResult{}, fmt.Errorf("unhandled intent type %T", intent)
	}
}

func reject(message string) dto.MutationResult {
	return dto.MutationResult{Success: false, Message: message}
}

// AddSession schedules a new block after resolving the day, validating
// the window, normalizing the topic and checking conflicts.
func (s *PlannerService) AddSession(ctx context.Context, program *models.Program, it dto.AddSession) (dto.MutationResult, error) {
	today := s.Today()

	day, err := ResolveDay(it.Day, today)
	if err != nil {
		return reject("Hangi gün olduğunu anlayamadım. Lütfen 'Bugün', 'Yarın' veya gün adı belirt."), nil
	}
	if day.Date.Before(today) {
		return reject("Geçmiş günlere ders ekleyemem."), nil
	}

	start, err := ParseClock(it.StartTime)
	if err != nil {
		return reject("Başlangıç saatini anlayamadım. Lütfen SS:DD biçiminde yaz."), nil
	}
	end, err := ParseClock(it.EndTime)
	if err != nil {
		return reject("Bitiş saatini anlayamadım. Lütfen SS:DD biçiminde yaz."), nil
	}
	if end <= start {
		return reject("Bitiş saati başlangıçtan sonra olmalı."), nil
	}

	topic, topicCreated, err := s.topics.NormalizeTopic(ctx, it.Subject, it.TopicName)
	if err != nil {
		return dto.MutationResult{}, err
	}
	partial := topicCreated

	var teacherID, resourceID *string
	if it.Teacher != "" {
		teacher, created, err := s.topics.EnsureTeacher(ctx, program.UserID, it.Teacher)
		if err != nil {
			return dto.MutationResult{Success: false, PartiallyApplied: partial, Message: "Teknik bir hata oluştu."}, err
		}
		partial = partial || created
		teacherID = &teacher.ID
	}
	if it.Resource != "" {
		resource, created, err := s.topics.EnsureResource(ctx, program.UserID, it.Resource)
		if err != nil {
			return dto.MutationResult{Success: false, PartiallyApplied: partial, Message: "Teknik bir hata oluştu."}, err
		}
		partial = partial || created
		resourceID = &resource.ID
	}

	existing, err := s.entries.ListByDate(ctx, program.ID, day.Date)
	if err != nil {
		return dto.MutationResult{Success: false, PartiallyApplied: partial, Message: "Teknik bir hata oluştu."},
			appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "entry lookup failed")
	}
	if conflict := FindConflict(Interval{Start: start, End: end}, existing, ""); conflict != nil {
		return reject(fmt.Sprintf("Bu saat aralığında (%s-%s) zaten bir dersin var. Lütfen başka bir saat seç.",
			FormatClock(conflict.StartMinute()), FormatClock(conflict.EndMinute()))), nil
	}

	activity := models.ActivityStudy
	switch models.ActivityType(it.ActivityType) {
	case models.ActivityTest:
		activity = models.ActivityTest
	case models.ActivityReview:
		activity = models.ActivityReview
	}

	entry := &models.ProgramEntry{
		ProgramID:       program.ID,
		SessionDate:     day.Date,
		DayIndex:        day.DayIndex,
		SlotIndex:       start,
		DurationMinutes: end - start,
		ActivityType:    activity,
		TopicID:         topic.ID,
		TeacherID:       teacherID,
		ResourceID:      resourceID,
	}
	if err := s.entries.Insert(ctx, entry); err != nil {
		// Topic or enrichment rows created above stay behind; surface
		// that instead of pretending the rejection was clean.
		return dto.MutationResult{Success: false, PartiallyApplied: partial, Message: "Ders programa eklenirken teknik bir hata oluştu."},
			appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "entry insert failed")
	}

	message := fmt.Sprintf("%s (%s) günü %s-%s arasına \"%s - %s\" başarıyla eklendi.",
		WeekDays[day.DayIndex], day.Date.Format("02.01.2006"), FormatClock(start), FormatClock(end), it.Subject, it.TopicName)
	if it.Teacher != "" {
		message += fmt.Sprintf(" Hoca: %s.", it.Teacher)
	}
	if it.Resource != "" {
		message += fmt.Sprintf(" Kaynak: %s.", it.Resource)
	}
	return dto.MutationResult{Success: true, Message: message}, nil
}

// DeleteSession removes entries on a day. An explicit minute range wins
// over hints; otherwise the topic hint narrows first and the time hint
// narrows the remainder.
func (s *PlannerService) DeleteSession(ctx context.Context, program *models.Program, it dto.DeleteSession) (dto.MutationResult, error) {
	day, err := ResolveDay(it.Day, s.Today())
	if err != nil {
		return reject("Günü anlayamadım."), nil
	}

	entries, err := s.entries.ListByDate(ctx, program.ID, day.Date)
	if err != nil {
		return dto.MutationResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "entry lookup failed")
	}
	if len(entries) == 0 {
		return reject("O gün için programında ders bulunmuyor."), nil
	}

	if it.StartRange != "" || it.EndRange != "" {
		if it.StartRange == "" || it.EndRange == "" {
			return reject("Silinecek saat aralığının başlangıcını ve bitişini birlikte belirt."), nil
		}
		startRange, err := ParseClock(it.StartRange)
		if err != nil {
			return reject("Saat aralığını anlayamadım. Lütfen SS:DD biçiminde yaz."), nil
		}
		endRange, err := ParseClock(it.EndRange)
		if err != nil || endRange <= startRange {
			return reject("Saat aralığını anlayamadım. Lütfen SS:DD biçiminde yaz."), nil
		}

		window := Interval{Start: startRange, End: endRange}
		var ids []string
		for _, entry := range entries {
			if Overlaps(window, Interval{Start: entry.StartMinute(), End: entry.EndMinute()}) {
				ids = append(ids, entry.ID)
			}
		}
		if len(ids) == 0 {
			return reject(fmt.Sprintf("%s-%s aralığında silinecek bir ders bulamadım.", FormatClock(startRange), FormatClock(endRange))), nil
		}
		if err := s.entries.Delete(ctx, ids); err != nil {
			return dto.MutationResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "entry delete failed")
		}
		return dto.MutationResult{Success: true, Message: fmt.Sprintf("%s gününden %d ders silindi.", WeekDays[day.DayIndex], len(ids))}, nil
	}

	if it.TopicHint == "" && it.TimeHint == "" {
		return reject("Lütfen silinecek dersi veya konuyu belirt. (Örn: 'Matematik dersini sil')"), nil
	}

	matched := entries
	if it.TopicHint != "" {
		matched = filterByTopicHint(matched, it.TopicHint)
		if len(matched) == 0 {
			return reject(fmt.Sprintf("%q ile eşleşen bir ders bulamadım.", it.TopicHint)), nil
		}
	}
	if it.TimeHint != "" {
		hint, err := ParseClock(it.TimeHint)
		if err != nil {
			return reject("Saati anlayamadım. Lütfen SS:DD biçiminde yaz."), nil
		}
		matched = filterByTimeHint(matched, hint)
		if len(matched) == 0 {
			return reject("O saat civarında bir ders bulamadım."), nil
		}
	}

	ids := make([]string, 0, len(matched))
	for _, entry := range matched {
		ids = append(ids, entry.ID)
	}
	if err := s.entries.Delete(ctx, ids); err != nil {
		return dto.MutationResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "entry delete failed")
	}
	return dto.MutationResult{Success: true, Message: fmt.Sprintf("%s gününden %d ders silindi.", WeekDays[day.DayIndex], len(ids))}, nil
}

// MoveSession relocates one entry to a new day and window, preserving
// its identity. Moving out of the past is allowed; moving into the past
// is not.
func (s *PlannerService) MoveSession(ctx context.Context, program *models.Program, it dto.MoveSession) (dto.MutationResult, error) {
	today := s.Today()

	from, err := ResolveDay(it.FromDay, today)
	if err != nil {
		return reject("Taşınacak dersin gününü anlayamadım."), nil
	}
	to, err := ResolveDay(it.ToDay, today)
	if err != nil {
		return reject("Hedef günü anlayamadım."), nil
	}
	if to.Date.Before(today) {
		return reject("Geçmiş bir tarihe ders taşıyamam."), nil
	}

	source, err := s.entries.ListByDate(ctx, program.ID, from.Date)
	if err != nil {
		return dto.MutationResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "entry lookup failed")
	}
	if len(source) == 0 {
		return reject(fmt.Sprintf("%s günü için programında ders bulunmuyor.", WeekDays[from.DayIndex])), nil
	}

	selected, rejection := selectMoveSource(source, it.TopicHint, it.FromTime)
	if selected == nil {
		return reject(rejection), nil
	}

	start, err := ParseClock(it.ToStartTime)
	if err != nil {
		return reject("Hedef başlangıç saatini anlayamadım. Lütfen SS:DD biçiminde yaz."), nil
	}
	end, err := ParseClock(it.ToEndTime)
	if err != nil {
		return reject("Hedef bitiş saatini anlayamadım. Lütfen SS:DD biçiminde yaz."), nil
	}
	if end <= start {
		return reject("Bitiş saati başlangıçtan sonra olmalı."), nil
	}

	destination := source
	if !to.Date.Equal(from.Date) {
		destination, err = s.entries.ListByDate(ctx, program.ID, to.Date)
		if err != nil {
			return dto.MutationResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "entry lookup failed")
		}
	}
	if conflict := FindConflict(Interval{Start: start, End: end}, destination, selected.ID); conflict != nil {
		return reject(fmt.Sprintf("Hedef saat aralığında (%s-%s) zaten bir dersin var. Lütfen başka bir saat seç.",
			FormatClock(conflict.StartMinute()), FormatClock(conflict.EndMinute()))), nil
	}

	patch := models.EntryPatch{
		SessionDate:     to.Date,
		DayIndex:        to.DayIndex,
		SlotIndex:       start,
		DurationMinutes: end - start,
	}
	if err := s.entries.UpdatePlacement(ctx, selected.ID, patch); err != nil {
		return dto.MutationResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "entry move failed")
	}

	message := fmt.Sprintf("\"%s - %s\" dersini %s (%s) günü %s-%s aralığına taşıdım.",
		selected.Subject, selected.Title, WeekDays[to.DayIndex], to.Date.Format("02.01.2006"), FormatClock(start), FormatClock(end))
	return dto.MutationResult{Success: true, Message: message}, nil
}

func filterByTopicHint(entries []models.EntryWithTopic, hint string) []models.EntryWithTopic {
	lowerHint := lowerTR(hint)
	var matched []models.EntryWithTopic
	for _, entry := range entries {
		if containsTR(entry.Subject, lowerHint) || containsTR(entry.Title, lowerHint) {
			matched = append(matched, entry)
		}
	}
	return matched
}

func filterByTimeHint(entries []models.EntryWithTopic, hint int) []models.EntryWithTopic {
	var matched []models.EntryWithTopic
	for _, entry := range entries {
		if absInt(entry.StartMinute()-hint) <= TimeHintToleranceMinutes {
			matched = append(matched, entry)
		}
	}
	return matched
}

// selectMoveSource picks exactly one entry to relocate: a unique topic
// match first, then the closest start within the hint tolerance, then
// an implicit pick when the day holds a single entry and no hints were
// given. Anything else is ambiguous.
func selectMoveSource(entries []models.EntryWithTopic, topicHint, fromTime string) (*models.EntryWithTopic, string) {
	const ambiguous = "Hangi dersi taşıyacağımı anlayamadım. Lütfen konu veya saat belirt."

	candidates := entries
	if topicHint != "" {
		candidates = filterByTopicHint(candidates, topicHint)
		if len(candidates) == 0 {
			return nil, fmt.Sprintf("%q ile eşleşen bir ders bulamadım.", topicHint)
		}
		if len(candidates) == 1 {
			return &candidates[0], ""
		}
		if fromTime == "" {
			return nil, ambiguous
		}
	} else if fromTime == "" {
		if len(candidates) == 1 {
			return &candidates[0], ""
		}
		return nil, ambiguous
	}

	hint, err := ParseClock(fromTime)
	if err != nil {
		return nil, "Saati anlayamadım. Lütfen SS:DD biçiminde yaz."
	}

	var best *models.EntryWithTopic
	bestDistance := TimeHintToleranceMinutes + 1
	for i := range candidates {
		distance := absInt(candidates[i].StartMinute() - hint)
		if distance < bestDistance {
			best = &candidates[i]
			bestDistance = distance
		}
	}
	if best == nil {
		return nil, "O saat civarında bir ders bulamadım."
	}
	return best, ""
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func containsTR(haystack, lowerNeedle string) bool {
	return lowerNeedle != "" && strings.Contains(lowerTR(haystack), lowerNeedle)
}
