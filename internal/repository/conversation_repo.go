package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serenity-backend/internal/models"
)

type ConversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

// GetOrCreate returns the user's conversation, creating it on first use.
// conversations.user_id carries a unique constraint, so concurrent callers
// converge on the same row.
func (r *ConversationRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO conversations (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`,
		uuid.New(), userID,
	)
	if err != nil {
		return nil, err
	}

	conv := &models.Conversation{}
	err = r.pool.QueryRow(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM conversations WHERE user_id = $1`,
		userID,
	).Scan(&conv.ID, &conv.UserID, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// AppendExchange appends the user message and the bot reply, in that
// order, inside one transaction. The conversation row is locked for the
// duration so concurrent sends from the same user cannot interleave
// positions within an exchange.
func (r *ConversationRepo) AppendExchange(ctx context.Context, conversationID uuid.UUID, userText, botText string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var next int64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(position), 0) + 1
		FROM messages
		WHERE conversation_id = (
			SELECT id FROM conversations WHERE id = $1 FOR UPDATE
		)`,
		conversationID,
	).Scan(&next)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO messages (id, conversation_id, sender, body, position)
		VALUES ($1, $2, $3, $4, $5), ($6, $2, $7, $8, $9)`,
		uuid.New(), conversationID, models.SenderUser, userText, next,
		uuid.New(), models.SenderBot, botText, next+1,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, "UPDATE conversations SET updated_at = NOW() WHERE id = $1", conversationID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListMessages returns the user's messages in append order. A user who
// has never chatted gets an empty slice, not an error.
func (r *ConversationRepo) ListMessages(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.conversation_id, m.sender, m.body, m.position, m.created_at
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE c.user_id = $1
		ORDER BY m.position`,
		userID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []models.Message{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if scanErr := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Text, &m.Position, &m.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
