package repository

import (
	"context"
	"sync/atomic"
	"time"

	"meo-pos/internal/domain"
	"meo-pos/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSessionRepository prefers the primary (Redis) store and falls
// back to memory when it errors, probing the primary again after a
// cool-down. Losing session state degrades the dialog, never the basket.
type FailoverSessionRepository struct {
	primary   domain.SessionRepository
	fallback  domain.SessionRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverSessionRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSessionRepository) GetSession(ctx context.Context, chatID int64) (*models.SessionState, error) {
	if !r.isDown.Load() {
		state, err := r.primary.GetSession(ctx, chatID)
		if err == nil {
			return state, nil
		}
		r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		state, err := r.primary.GetSession(ctx, chatID)
		if err == nil {
			r.isDown.Store(false)
			return state, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetSession(ctx, chatID)
}

func (r *FailoverSessionRepository) SetSession(ctx context.Context, state *models.SessionState) error {
	if !r.isDown.Load() {
		err := r.primary.SetSession(ctx, state)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.SetSession(ctx, state)
}

func (r *FailoverSessionRepository) ClearSession(ctx context.Context, chatID int64) error {
	if !r.isDown.Load() {
		err := r.primary.ClearSession(ctx, chatID)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.ClearSession(ctx, chatID)
}
