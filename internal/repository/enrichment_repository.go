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

// EnrichmentRepository persists the user-scoped teacher and resource
// annotations attached to sessions.
type EnrichmentRepository struct {
	db *sqlx.DB
}

// NewEnrichmentRepository creates a new enrichment repository.
func NewEnrichmentRepository(db *sqlx.DB) *EnrichmentRepository {
	return &EnrichmentRepository{db: db}
}

// FindTeacherByName looks up a teacher case-insensitively within the
// user's scope. Returns nil when absent.
func (r *EnrichmentRepository) FindTeacherByName(ctx context.Context, userID, name string) (*models.Teacher, error) {
	const query = `SELECT id, user_id, name, created_at FROM teachers WHERE user_id = $1 AND LOWER(name) = LOWER($2) LIMIT 1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, userID, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find teacher: %w", err)
	}
	return &teacher, nil
}

// CreateTeacher stores a new teacher annotation.
func (r *EnrichmentRepository) CreateTeacher(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teachers (id, user_id, name, created_at) VALUES (:id, :user_id, :name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// FindResourceByTitle looks up a resource case-insensitively within the
// user's scope. Returns nil when absent.
func (r *EnrichmentRepository) FindResourceByTitle(ctx context.Context, userID, title string) (*models.Resource, error) {
	const query = `SELECT id, user_id, title, created_at FROM resources WHERE user_id = $1 AND LOWER(title) = LOWER($2) LIMIT 1`
	var resource models.Resource
	if err := r.db.GetContext(ctx, &resource, query, userID, title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find resource: %w", err)
	}
	return &resource, nil
}

// CreateResource stores a new resource annotation.
func (r *EnrichmentRepository) CreateResource(ctx context.Context, resource *models.Resource) error {
	if resource.ID == "" {
		resource.ID = uuid.NewString()
	}
	if resource.CreatedAt.IsZero() {
		resource.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO resources (id, user_id, title, created_at) VALUES (:id, :user_id, :title, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, resource); err != nil {
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}
