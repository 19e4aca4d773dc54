package models

import "time"

// ProgramStatus is the lifecycle state of a study program.
type ProgramStatus string

const (
	ProgramStatusActive   ProgramStatus = "active"
	ProgramStatusArchived ProgramStatus = "archived"
)

// ActivityType classifies what the student does in a session.
type ActivityType string

const (
	ActivityStudy  ActivityType = "study"
	ActivityTest   ActivityType = "test"
	ActivityReview ActivityType = "review"
)

// Program is a user's study schedule container. Exactly one program per
// user is active at any time; superseded programs are archived, never
// deleted.
type Program struct {
	ID        string        `db:"id" json:"id"`
	UserID    string        `db:"user_id" json:"user_id"`
	Status    ProgramStatus `db:"status" json:"status"`
	StartDate time.Time     `db:"start_date" json:"start_date"`
	EndDate   time.Time     `db:"end_date" json:"end_date"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// ProgramEntry is one scheduled study block. SlotIndex is minutes since
// local midnight; DayIndex is 0=Pazartesi through 6=Pazar and is derived
// from SessionDate, kept for fast filtering.
type ProgramEntry struct {
	ID              string       `db:"id" json:"id"`
	ProgramID       string       `db:"program_id" json:"program_id"`
	SessionDate     time.Time    `db:"session_date" json:"session_date"`
	DayIndex        int          `db:"day_index" json:"day_index"`
	SlotIndex       int          `db:"slot_index" json:"slot_index"`
	DurationMinutes int          `db:"duration_minutes" json:"duration_minutes"`
	ActivityType    ActivityType `db:"activity_type" json:"activity_type"`
	TopicID         string       `db:"topic_id" json:"topic_id"`
	TeacherID       *string      `db:"teacher_id" json:"teacher_id,omitempty"`
	ResourceID      *string      `db:"resource_id" json:"resource_id,omitempty"`
	IsCompleted     bool         `db:"is_completed" json:"is_completed"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}

// StartMinute returns the entry's start offset in minutes since midnight.
func (e ProgramEntry) StartMinute() int { return e.SlotIndex }

// EndMinute returns the exclusive end offset of the entry's interval.
func (e ProgramEntry) EndMinute() int { return e.SlotIndex + e.DurationMinutes }

// EntryWithTopic joins an entry with its topic's subject and title for
// hint matching and daily summaries.
type EntryWithTopic struct {
	ProgramEntry
	Subject string `db:"subject" json:"subject"`
	Title   string `db:"title" json:"title"`
}

// EntryPatch carries the fields Move updates in place. Identity,
// completion state and enrichment references are preserved.
type EntryPatch struct {
	SessionDate     time.Time
	DayIndex        int
	SlotIndex       int
	DurationMinutes int
}
