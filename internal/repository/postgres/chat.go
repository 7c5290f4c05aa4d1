package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
)

type chatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Append(ctx context.Context, message *model.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (
			id, user_id, author, text, verified, sources, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	message.ID = uuid.New()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		message.ID,
		message.UserID,
		message.Author,
		message.Text,
		message.Verified,
		pq.Array([]string(message.Sources)),
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

// ListRecent returns the newest messages for a user in chronological order.
func (r *chatRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.ChatMessage, error) {
	query := `
		SELECT id, user_id, author, text, verified, sources, created_at
		FROM (
			SELECT id, user_id, author, text, verified, sources, created_at
			FROM chat_messages
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`
	var messages []*model.ChatMessage
	err := r.db.SelectContext(ctx, &messages, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}
