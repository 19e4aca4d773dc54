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

// ProgramRepository provides persistence for study programs.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository creates a new program repository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// FindActive returns the user's active program, or nil when none exists.
func (r *ProgramRepository) FindActive(ctx context.Context, userID string) (*models.Program, error) {
	const query = `SELECT id, user_id, status, start_date, end_date, created_at, updated_at FROM programs WHERE user_id = $1 AND status = 'active' LIMIT 1`
	var program models.Program
	if err := r.db.GetContext(ctx, &program, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active program: %w", err)
	}
	return &program, nil
}

// Create stores a new program record.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if program.CreatedAt.IsZero() {
		program.CreatedAt = now
	}
	program.UpdatedAt = now
	if program.Status == "" {
		program.Status = models.ProgramStatusActive
	}

	const query = `INSERT INTO programs (id, user_id, status, start_date, end_date, created_at, updated_at) VALUES (:id, :user_id, :status, :start_date, :end_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

// Archive marks a program as archived. Programs are never deleted.
func (r *ProgramRepository) Archive(ctx context.Context, programID string) error {
	const query = `UPDATE programs SET status = 'archived', updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, programID, time.Now().UTC()); err != nil {
		return fmt.Errorf("archive program: %w", err)
	}
	return nil
}
