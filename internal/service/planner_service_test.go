package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derece-app/derece-api/internal/dto"
	"github.com/derece-app/derece-api/internal/models"
)

type mockProgramStore struct {
	active   *models.Program
	created  []*models.Program
	archived []string
	findErr  error
}

func (m *mockProgramStore) FindActive(ctx context.Context, userID string) (*models.Program, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.active == nil || m.active.UserID != userID {
		return nil, nil
	}
	cp := *m.active
	return &cp, nil
}

func (m *mockProgramStore) Create(ctx context.Context, program *models.Program) error {
	if program.ID == "" {
		program.ID = "program-generated"
	}
	cp := *program
	m.active = &cp
	m.created = append(m.created, &cp)
	return nil
}

func (m *mockProgramStore) Archive(ctx context.Context, programID string) error {
	m.archived = append(m.archived, programID)
	if m.active != nil && m.active.ID == programID {
		m.active = nil
	}
	return nil
}

type mockEntryStore struct {
	entries   []models.EntryWithTopic
	topics    *mockTopicStore
	nextID    int
	insertErr error
	listErr   error
	deleteErr error
}

func (m *mockEntryStore) ListByDate(ctx context.Context, programID string, date time.Time) ([]models.EntryWithTopic, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.EntryWithTopic
	for _, entry := range m.entries {
		if entry.ProgramID == programID && entry.SessionDate.Equal(date) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (m *mockEntryStore) ListByDateRange(ctx context.Context, programID string, from, to time.Time) ([]models.EntryWithTopic, error) {
	var out []models.EntryWithTopic
	for _, entry := range m.entries {
		if entry.ProgramID == programID && !entry.SessionDate.Before(from) && !entry.SessionDate.After(to) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (m *mockEntryStore) ListDates(ctx context.Context, programID string) ([]time.Time, error) {
	seen := map[time.Time]bool{}
	var dates []time.Time
	for _, entry := range m.entries {
		if entry.ProgramID == programID && !seen[entry.SessionDate] {
			seen[entry.SessionDate] = true
			dates = append(dates, entry.SessionDate)
		}
	}
	return dates, nil
}

func (m *mockEntryStore) Insert(ctx context.Context, entry *models.ProgramEntry) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if entry.ID == "" {
		m.nextID++
		entry.ID = fmt.Sprintf("entry-%d", m.nextID)
	}
	withTopic := models.EntryWithTopic{ProgramEntry: *entry}
	// The real list queries join the topic row.
	if m.topics != nil {
		for _, topic := range m.topics.topics {
			if topic.ID == entry.TopicID {
				withTopic.Subject = topic.Subject
				withTopic.Title = topic.Title
			}
		}
	}
	m.entries = append(m.entries, withTopic)
	return nil
}

func (m *mockEntryStore) Delete(ctx context.Context, ids []string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	drop := map[string]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	var kept []models.EntryWithTopic
	for _, entry := range m.entries {
		if !drop[entry.ID] {
			kept = append(kept, entry)
		}
	}
	m.entries = kept
	return nil
}

func (m *mockEntryStore) UpdatePlacement(ctx context.Context, id string, patch models.EntryPatch) error {
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries[i].SessionDate = patch.SessionDate
			m.entries[i].DayIndex = patch.DayIndex
			m.entries[i].SlotIndex = patch.SlotIndex
			m.entries[i].DurationMinutes = patch.DurationMinutes
			return nil
		}
	}
	return errors.New("entry not found")
}

func (m *mockEntryStore) SetCompleted(ctx context.Context, programID, id string, completed bool) (bool, error) {
	for i := range m.entries {
		if m.entries[i].ID == id && m.entries[i].ProgramID == programID {
			m.entries[i].IsCompleted = completed
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEntryStore) add(entry models.EntryWithTopic) {
	m.entries = append(m.entries, entry)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestPlanner(programs *mockProgramStore, entries *mockEntryStore) *PlannerService {
	topicStore := &mockTopicStore{}
	entries.topics = topicStore
	topics := NewTopicService(topicStore, &mockEnrichmentStore{}, nil)
	return NewPlannerService(programs, entries, topics, time.UTC, nil, WithClock(fixedClock(monday)))
}

func activeProgram() *models.Program {
	return &models.Program{
		ID:        "program-1",
		UserID:    "user-1",
		Status:    models.ProgramStatusActive,
		StartDate: monday,
		EndDate:   monday.AddDate(1, 0, 0),
	}
}

func TestEnsureActiveProgramCreates(t *testing.T) {
	programs := &mockProgramStore{}
	planner := newTestPlanner(programs, &mockEntryStore{})

	program, created, err := planner.EnsureActiveProgram(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, monday, program.StartDate)
	assert.Equal(t, monday.Add(defaultProgramValidity), program.EndDate)

	again, created, err := planner.EnsureActiveProgram(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, program.ID, again.ID)
}

func TestResetProgramArchivesThenCreates(t *testing.T) {
	programs := &mockProgramStore{active: activeProgram()}
	planner := newTestPlanner(programs, &mockEntryStore{})

	fresh, err := planner.ResetProgram(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, "program-1", fresh.ID)
	assert.Equal(t, []string{"program-1"}, programs.archived)
}

func TestAddSession(t *testing.T) {
	entries := &mockEntryStore{}
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.AddSession(context.Background(), activeProgram(), dto.AddSession{
		Day:       "Salı",
		StartTime: "09:00",
		EndTime:   "10:30",
		Subject:   "AYT Matematik",
		TopicName: "Türev",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "Salı")
	assert.Contains(t, result.Message, "09:00-10:30")
	assert.Contains(t, result.Message, "Türev")

	require.Len(t, entries.entries, 1)
	entry := entries.entries[0]
	assert.Equal(t, monday.AddDate(0, 0, 1), entry.SessionDate)
	assert.Equal(t, 1, entry.DayIndex)
	assert.Equal(t, 540, entry.SlotIndex)
	assert.Equal(t, 90, entry.DurationMinutes)
	assert.Equal(t, models.ActivityStudy, entry.ActivityType)
	assert.NotEmpty(t, entry.TopicID)
}

func TestAddSessionPastDayRejected(t *testing.T) {
	entries := &mockEntryStore{}
	topics := NewTopicService(&mockTopicStore{}, &mockEnrichmentStore{}, nil)
	// From Wednesday, "geçen salı" resolves to yesterday.
	planner := NewPlannerService(&mockProgramStore{active: activeProgram()}, entries, topics, time.UTC, nil,
		WithClock(fixedClock(monday.AddDate(0, 0, 2))))

	result, err := planner.AddSession(context.Background(), activeProgram(), dto.AddSession{
		Day:       "geçen salı",
		StartTime: "09:00",
		EndTime:   "10:00",
		Subject:   "Fizik",
		TopicName: "Optik",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Geçmiş günlere ders ekleyemem.", result.Message)
	assert.Empty(t, entries.entries)
}

func TestAddSessionInvalidWindowRejected(t *testing.T) {
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, &mockEntryStore{})

	result, err := planner.AddSession(context.Background(), activeProgram(), dto.AddSession{
		Day:       "Bugün",
		StartTime: "10:00",
		EndTime:   "09:00",
		Subject:   "Fizik",
		TopicName: "Optik",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Bitiş saati başlangıçtan sonra olmalı.", result.Message)
}

func TestAddSessionOverlapRejected(t *testing.T) {
	entries := &mockEntryStore{}
	entries.add(models.EntryWithTopic{
		ProgramEntry: models.ProgramEntry{ID: "e1", ProgramID: "program-1", SessionDate: monday, SlotIndex: 540, DurationMinutes: 90},
		Subject:      "Matematik", Title: "Türev",
	})
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.AddSession(context.Background(), activeProgram(), dto.AddSession{
		Day:       "Bugün",
		StartTime: "10:00",
		EndTime:   "11:00",
		Subject:   "Fizik",
		TopicName: "Optik",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "09:00-10:30")
	require.Len(t, entries.entries, 1)
}

func TestAddSessionBackToBackAllowed(t *testing.T) {
	entries := &mockEntryStore{}
	entries.add(models.EntryWithTopic{
		ProgramEntry: models.ProgramEntry{ID: "e1", ProgramID: "program-1", SessionDate: monday, SlotIndex: 540, DurationMinutes: 60},
	})
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.AddSession(context.Background(), activeProgram(), dto.AddSession{
		Day:       "Bugün",
		StartTime: "10:00",
		EndTime:   "11:00",
		Subject:   "Fizik",
		TopicName: "Optik",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, entries.entries, 2)
}

func TestAddSessionWithTeacherAndResource(t *testing.T) {
	entries := &mockEntryStore{}
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.AddSession(context.Background(), activeProgram(), dto.AddSession{
		Day:          "Yarın",
		StartTime:    "13:00",
		EndTime:      "14:00",
		Subject:      "TYT Türkçe",
		TopicName:    "Fiilimsiler",
		ActivityType: "test",
		Teacher:      "Ahmet Hoca",
		Resource:     "345 TYT Türkçe",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "Ahmet Hoca")

	require.Len(t, entries.entries, 1)
	entry := entries.entries[0]
	assert.Equal(t, models.ActivityTest, entry.ActivityType)
	require.NotNil(t, entry.TeacherID)
	require.NotNil(t, entry.ResourceID)
}

func TestAddSessionInsertFailureReportsPartial(t *testing.T) {
	entries := &mockEntryStore{insertErr: errors.New("disk full")}
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.AddSession(context.Background(), activeProgram(), dto.AddSession{
		Day:       "Bugün",
		StartTime: "09:00",
		EndTime:   "10:00",
		Subject:   "Kimya",
		TopicName: "Mol Kavramı",
	})
	require.Error(t, err)
	assert.False(t, result.Success)
	// The auto-created topic stayed behind.
	assert.True(t, result.PartiallyApplied)
}

func seedDay(entries *mockEntryStore) {
	entries.add(models.EntryWithTopic{
		ProgramEntry: models.ProgramEntry{ID: "e1", ProgramID: "program-1", SessionDate: monday, DayIndex: 0, SlotIndex: 540, DurationMinutes: 90},
		Subject:      "Matematik", Title: "Türev",
	})
	entries.add(models.EntryWithTopic{
		ProgramEntry: models.ProgramEntry{ID: "e2", ProgramID: "program-1", SessionDate: monday, DayIndex: 0, SlotIndex: 840, DurationMinutes: 60},
		Subject:      "Fizik", Title: "Optik",
	})
}

func TestDeleteSessionByTopicHint(t *testing.T) {
	entries := &mockEntryStore{}
	seedDay(entries)
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.DeleteSession(context.Background(), activeProgram(), dto.DeleteSession{
		Day:       "Bugün",
		TopicHint: "matematik",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "1 ders silindi")
	require.Len(t, entries.entries, 1)
	assert.Equal(t, "e2", entries.entries[0].ID)
}

func TestDeleteSessionByTimeHintTolerance(t *testing.T) {
	entries := &mockEntryStore{}
	seedDay(entries)
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	// 13:30 is within an hour of the 14:00 physics block, not the
	// 09:00 math block.
	result, err := planner.DeleteSession(context.Background(), activeProgram(), dto.DeleteSession{
		Day:      "Bugün",
		TimeHint: "13:30",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, entries.entries, 1)
	assert.Equal(t, "e1", entries.entries[0].ID)
}

func TestDeleteSessionByRange(t *testing.T) {
	entries := &mockEntryStore{}
	seedDay(entries)
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.DeleteSession(context.Background(), activeProgram(), dto.DeleteSession{
		Day:        "Bugün",
		StartRange: "08:00",
		EndRange:   "15:00",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "2 ders silindi")
	assert.Empty(t, entries.entries)
}

func TestDeleteSessionByRangeSparesOutside(t *testing.T) {
	entries := &mockEntryStore{}
	seedDay(entries)
	// Starts exactly at the range end, so it must survive.
	entries.add(models.EntryWithTopic{
		ProgramEntry: models.ProgramEntry{ID: "e3", ProgramID: "program-1", SessionDate: monday, DayIndex: 0, SlotIndex: 960, DurationMinutes: 60},
		Subject:      "Tarih", Title: "Kurtuluş Savaşı",
	})
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.DeleteSession(context.Background(), activeProgram(), dto.DeleteSession{
		Day:        "Bugün",
		StartRange: "08:00",
		EndRange:   "16:00",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "2 ders silindi")
	require.Len(t, entries.entries, 1)
	assert.Equal(t, "e3", entries.entries[0].ID)
}

func TestDeleteSessionWithoutHintsPrompts(t *testing.T) {
	entries := &mockEntryStore{}
	seedDay(entries)
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.DeleteSession(context.Background(), activeProgram(), dto.DeleteSession{Day: "Bugün"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "silinecek dersi veya konuyu belirt")
	assert.Len(t, entries.entries, 2)
}

func TestDeleteSessionNoMatch(t *testing.T) {
	entries := &mockEntryStore{}
	seedDay(entries)
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.DeleteSession(context.Background(), activeProgram(), dto.DeleteSession{
		Day:       "Bugün",
		TopicHint: "Biyoloji",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "eşleşen bir ders bulamadım")
}

func TestDeleteSessionEmptyDay(t *testing.T) {
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, &mockEntryStore{})

	result, err := planner.DeleteSession(context.Background(), activeProgram(), dto.DeleteSession{
		Day:       "Çarşamba",
		TopicHint: "Matematik",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "O gün için programında ders bulunmuyor.", result.Message)
}

func TestMoveSession(t *testing.T) {
	entries := &mockEntryStore{}
	seedDay(entries)
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.MoveSession(context.Background(), activeProgram(), dto.MoveSession{
		FromDay:     "Bugün",
		TopicHint:   "Matematik",
		ToDay:       "Çarşamba",
		ToStartTime: "15:00",
		ToEndTime:   "16:30",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "Çarşamba")
	assert.Contains(t, result.Message, "15:00-16:30")

	moved := entries.entries[0]
	assert.Equal(t, "e1", moved.ID)
	assert.Equal(t, monday.AddDate(0, 0, 2), moved.SessionDate)
	assert.Equal(t, 2, moved.DayIndex)
	assert.Equal(t, 900, moved.SlotIndex)
	assert.Equal(t, 90, moved.DurationMinutes)
}

func TestMoveSessionByTimeHint(t *testing.T) {
	entries := &mockEntryStore{}
	seedDay(entries)
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.MoveSession(context.Background(), activeProgram(), dto.MoveSession{
		FromDay:     "Bugün",
		FromTime:    "14:15",
		ToDay:       "Yarın",
		ToStartTime: "09:00",
		ToEndTime:   "10:00",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, monday.AddDate(0, 0, 1), entries.entries[1].SessionDate)
}

func TestMoveSessionAmbiguous(t *testing.T) {
	entries := &mockEntryStore{}
	seedDay(entries)
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.MoveSession(context.Background(), activeProgram(), dto.MoveSession{
		FromDay:     "Bugün",
		ToDay:       "Yarın",
		ToStartTime: "09:00",
		ToEndTime:   "10:00",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Hangi dersi taşıyacağımı anlayamadım")
}

func TestMoveSessionDestinationConflict(t *testing.T) {
	entries := &mockEntryStore{}
	seedDay(entries)
	entries.add(models.EntryWithTopic{
		ProgramEntry: models.ProgramEntry{ID: "e3", ProgramID: "program-1", SessionDate: monday.AddDate(0, 0, 2), DayIndex: 2, SlotIndex: 900, DurationMinutes: 60},
		Subject:      "Tarih", Title: "Kurtuluş Savaşı",
	})
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.MoveSession(context.Background(), activeProgram(), dto.MoveSession{
		FromDay:     "Bugün",
		TopicHint:   "Matematik",
		ToDay:       "Çarşamba",
		ToStartTime: "15:00",
		ToEndTime:   "16:00",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "zaten bir dersin var")
	// Source entry untouched.
	assert.Equal(t, monday, entries.entries[0].SessionDate)
}

func TestMoveSessionSameDayReschedule(t *testing.T) {
	entries := &mockEntryStore{}
	seedDay(entries)
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	// Moving within the day ignores the entry's own old window.
	result, err := planner.MoveSession(context.Background(), activeProgram(), dto.MoveSession{
		FromDay:     "Bugün",
		TopicHint:   "Matematik",
		ToDay:       "Bugün",
		ToStartTime: "09:30",
		ToEndTime:   "11:00",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 570, entries.entries[0].SlotIndex)
}

func TestMoveSessionIntoPastRejected(t *testing.T) {
	entries := &mockEntryStore{}
	seedDay(entries)
	topics := NewTopicService(&mockTopicStore{}, &mockEnrichmentStore{}, nil)
	planner := NewPlannerService(&mockProgramStore{active: activeProgram()}, entries, topics, time.UTC, nil,
		WithClock(fixedClock(monday.AddDate(0, 0, 2))))

	result, err := planner.MoveSession(context.Background(), activeProgram(), dto.MoveSession{
		FromDay:     "Bugün",
		TopicHint:   "Matematik",
		ToDay:       "geçen salı",
		ToStartTime: "09:00",
		ToEndTime:   "10:00",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Geçmiş bir tarihe ders taşıyamam.", result.Message)
}

func TestApplyDispatch(t *testing.T) {
	entries := &mockEntryStore{}
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)

	result, err := planner.Apply(context.Background(), activeProgram(), dto.AddSession{
		Day:       "Bugün",
		StartTime: "09:00",
		EndTime:   "10:00",
		Subject:   "Matematik",
		TopicName: "Limit",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	result, err = planner.Apply(context.Background(), activeProgram(), dto.DeleteSession{
		Day:       "Bugün",
		TopicHint: "Limit",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, entries.entries)
}

func TestWeeklyRescheduleFlow(t *testing.T) {
	entries := &mockEntryStore{}
	planner := newTestPlanner(&mockProgramStore{active: activeProgram()}, entries)
	program := activeProgram()
	ctx := context.Background()

	added, err := planner.AddSession(ctx, program, dto.AddSession{
		Day:       "Salı",
		StartTime: "14:00",
		EndTime:   "15:00",
		Subject:   "AYT Matematik",
		TopicName: "Türev",
	})
	require.NoError(t, err)
	require.True(t, added.Success)

	conflict, err := planner.AddSession(ctx, program, dto.AddSession{
		Day:       "Salı",
		StartTime: "14:30",
		EndTime:   "15:30",
		Subject:   "Fizik",
		TopicName: "Optik",
	})
	require.NoError(t, err)
	assert.False(t, conflict.Success)
	assert.Contains(t, conflict.Message, "14:00-15:00")

	moved, err := planner.MoveSession(ctx, program, dto.MoveSession{
		FromDay:     "Salı",
		TopicHint:   "Türev",
		ToDay:       "Çarşamba",
		ToStartTime: "09:00",
		ToEndTime:   "10:00",
	})
	require.NoError(t, err)
	assert.True(t, moved.Success)

	tuesday, err := entries.ListByDate(ctx, program.ID, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, tuesday)

	wednesday, err := entries.ListByDate(ctx, program.ID, monday.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, wednesday, 1)
	assert.Equal(t, 540, wednesday[0].SlotIndex)
	assert.Equal(t, 60, wednesday[0].DurationMinutes)
	assert.Equal(t, "Türev", wednesday[0].Title)
}
