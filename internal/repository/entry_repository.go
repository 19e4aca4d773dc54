package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/derece-app/derece-api/internal/models"
)

const entryColumns = `e.id, e.program_id, e.session_date, e.day_index, e.slot_index, e.duration_minutes, e.activity_type, e.topic_id, e.teacher_id, e.resource_id, e.is_completed, e.created_at, e.updated_at, t.subject, t.title`

// EntryRepository provides persistence for program entries.
type EntryRepository struct {
	db *sqlx.DB
}

// NewEntryRepository creates a new entry repository.
func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// ListByDate returns all entries on one civil date, joined with their
// topic, ordered by start offset.
func (r *EntryRepository) ListByDate(ctx context.Context, programID string, date time.Time) ([]models.EntryWithTopic, error) {
	query := fmt.Sprintf(`SELECT %s FROM program_entries e JOIN topics t ON t.id = e.topic_id WHERE e.program_id = $1 AND e.session_date = $2 ORDER BY e.slot_index ASC`, entryColumns)
	var entries []models.EntryWithTopic
	if err := r.db.SelectContext(ctx, &entries, query, programID, date); err != nil {
		return nil, fmt.Errorf("list entries by date: %w", err)
	}
	return entries, nil
}

// ListByDateRange returns entries within [from, to] ordered by date and
// start offset.
func (r *EntryRepository) ListByDateRange(ctx context.Context, programID string, from, to time.Time) ([]models.EntryWithTopic, error) {
	query := fmt.Sprintf(`SELECT %s FROM program_entries e JOIN topics t ON t.id = e.topic_id WHERE e.program_id = $1 AND e.session_date BETWEEN $2 AND $3 ORDER BY e.session_date ASC, e.slot_index ASC`, entryColumns)
	var entries []models.EntryWithTopic
	if err := r.db.SelectContext(ctx, &entries, query, programID, from, to); err != nil {
		return nil, fmt.Errorf("list entries by range: %w", err)
	}
	return entries, nil
}

// ListDates returns the distinct session dates that hold entries.
func (r *EntryRepository) ListDates(ctx context.Context, programID string) ([]time.Time, error) {
	const query = `SELECT DISTINCT session_date FROM program_entries WHERE program_id = $1 ORDER BY session_date ASC`
	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, programID); err != nil {
		return nil, fmt.Errorf("list entry dates: %w", err)
	}
	return dates, nil
}

// Insert stores a new program entry.
func (r *EntryRepository) Insert(ctx context.Context, entry *models.ProgramEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO program_entries (id, program_id, session_date, day_index, slot_index, duration_minutes, activity_type, topic_id, teacher_id, resource_id, is_completed, created_at, updated_at) VALUES (:id, :program_id, :session_date, :day_index, :slot_index, :duration_minutes, :activity_type, :topic_id, :teacher_id, :resource_id, :is_completed, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// Delete removes the given entries.
func (r *EntryRepository) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM program_entries WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("build delete entries: %w", err)
	}
	query = r.db.Rebind(query)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	return nil
}

// UpdatePlacement moves an entry to a new date and window in place,
// leaving identity, completion state and enrichment untouched.
func (r *EntryRepository) UpdatePlacement(ctx context.Context, id string, patch models.EntryPatch) error {
	const query = `UPDATE program_entries SET session_date = $2, day_index = $3, slot_index = $4, duration_minutes = $5, updated_at = $6 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, patch.SessionDate, patch.DayIndex, patch.SlotIndex, patch.DurationMinutes, time.Now().UTC()); err != nil {
		return fmt.Errorf("update entry placement: %w", err)
	}
	return nil
}

// SetCompleted toggles an entry's completion flag. The program scope
// keeps a user from flipping entries outside their own program.
func (r *EntryRepository) SetCompleted(ctx context.Context, programID, id string, completed bool) (bool, error) {
	const query = `UPDATE program_entries SET is_completed = $3, updated_at = $4 WHERE id = $1 AND program_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, programID, completed, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("set entry completed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set entry completed: %w", err)
	}
	return affected > 0, nil
}
