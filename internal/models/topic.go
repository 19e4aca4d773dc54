package models

import "time"

// TopicCategory is the exam track a topic belongs to.
type TopicCategory string

const (
	CategoryTYT TopicCategory = "TYT"
	CategoryAYT TopicCategory = "AYT"
	CategoryYDT TopicCategory = "YDT"
)

// Topic is a canonical (category, subject, title) curriculum entry.
// Entries reference topics by id and never copy them, so a topic is
// immutable once referenced.
type Topic struct {
	ID          string        `db:"id" json:"id"`
	Category    TopicCategory `db:"category" json:"category"`
	Subject     string        `db:"subject" json:"subject"`
	Title       string        `db:"title" json:"title"`
	Slug        string        `db:"slug" json:"slug"`
	Description string        `db:"description" json:"description"`
	StudyHours  int           `db:"study_hours" json:"study_hours"`
	TestHours   int           `db:"test_hours" json:"test_hours"`
	ReviewHours int           `db:"review_hours" json:"review_hours"`
	OrderIndex  int           `db:"order_index" json:"order_index"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}
