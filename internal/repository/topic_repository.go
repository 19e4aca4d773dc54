package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/derece-app/derece-api/internal/models"
)

// TopicRepository provides persistence for curriculum topics.
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository creates a new topic repository.
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// FindBySubjectTitle looks up a topic case-insensitively by subject and
// title. Returns nil when no topic matches.
func (r *TopicRepository) FindBySubjectTitle(ctx context.Context, subject, title string) (*models.Topic, error) {
	const query = `SELECT id, category, subject, title, slug, description, study_hours, test_hours, review_hours, order_index, created_at FROM topics WHERE LOWER(subject) = LOWER($1) AND LOWER(title) = LOWER($2) LIMIT 1`
	var topic models.Topic
	if err := r.db.GetContext(ctx, &topic, query, subject, title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find topic: %w", err)
	}
	return &topic, nil
}

// Create stores a new topic.
func (r *TopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO topics (id, category, subject, title, slug, description, study_hours, test_hours, review_hours, order_index, created_at) VALUES (:id, :category, :subject, :title, :slug, :description, :study_hours, :test_hours, :review_hours, :order_index, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, topic); err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}
