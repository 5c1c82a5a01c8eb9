package repository

import (
	"context"
	"sync"
	"time"

	"meo-pos/internal/models"
)

// MemorySessionRepository keeps session state in-process. It backs local
// runs without Redis and serves as the failover target.
type MemorySessionRepository struct {
	sessions sync.Map
	ttl      time.Duration
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		ttl: ttl,
	}
}

func (r *MemorySessionRepository) GetSession(ctx context.Context, chatID int64) (*models.SessionState, error) {
	val, ok := r.sessions.Load(chatID)
	if !ok {
		return nil, nil
	}
	return val.(*models.SessionState), nil
}

func (r *MemorySessionRepository) SetSession(ctx context.Context, state *models.SessionState) error {
	r.sessions.Store(state.ChatID, state)
	return nil
}

func (r *MemorySessionRepository) ClearSession(ctx context.Context, chatID int64) error {
	r.sessions.Delete(chatID)
	return nil
}
