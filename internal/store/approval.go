package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type chatApprovalStore struct {
	pool *pgxpool.Pool
}

func NewChatApprovalStore(pool *pgxpool.Pool) ApprovalStore {
	return &chatApprovalStore{pool: pool}
}

// IsApproved reports whether a chat has been approved for the trusted
// conversation path. A chat the store has never seen is simply unapproved,
// not an error.
func (s *chatApprovalStore) IsApproved(ctx context.Context, chatID int64) (bool, error) {
	var approved bool
	err := s.pool.QueryRow(ctx,
		`SELECT is_approved FROM chats WHERE chat_id = $1`,
		chatID,
	).Scan(&approved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("querying chat approval: %w", err)
	}
	return approved, nil
}
