package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/derece-app/derece-api/internal/models"
)

// MessageRepository persists chat transcripts.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Insert appends one transcript line.
func (r *MessageRepository) Insert(ctx context.Context, msg *models.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO chat_messages (id, user_id, program_id, kind, role, content, session_date, created_at) VALUES (:id, :user_id, :program_id, :kind, :role, :content, :session_date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// ListByProgram returns the most recent transcript lines for a program
// and kind, in ascending order.
func (r *MessageRepository) ListByProgram(ctx context.Context, userID, programID string, kind models.MessageKind, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT id, user_id, program_id, kind, role, content, session_date, created_at FROM chat_messages WHERE user_id = $1 AND program_id = $2 AND kind = $3 ORDER BY created_at ASC LIMIT $4`
	var messages []models.ChatMessage
	if err := r.db.SelectContext(ctx, &messages, query, userID, programID, kind, limit); err != nil {
		return nil, fmt.Errorf("list messages by program: %w", err)
	}
	return messages, nil
}

// ListByDate returns one day's transcript for a kind, ascending.
func (r *MessageRepository) ListByDate(ctx context.Context, userID string, kind models.MessageKind, date time.Time) ([]models.ChatMessage, error) {
	const query = `SELECT id, user_id, program_id, kind, role, content, session_date, created_at FROM chat_messages WHERE user_id = $1 AND kind = $2 AND session_date = $3 ORDER BY created_at ASC`
	var messages []models.ChatMessage
	if err := r.db.SelectContext(ctx, &messages, query, userID, kind, date); err != nil {
		return nil, fmt.Errorf("list messages by date: %w", err)
	}
	return messages, nil
}
