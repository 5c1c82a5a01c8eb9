package bot

import (
	"runtime/debug"
	"sync"

	"meo-pos/internal/config"

	"golang.org/x/time/rate"
)

// chatLimiter throttles updates per user so a single chat cannot flood the
// handlers. Limiters are created lazily and never evicted; the map is
// bounded by the number of users who ever talked to the bot.
type chatLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newChatLimiter(cfg config.BotConfig) *chatLimiter {
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = 1
	}
	messages := cfg.RateLimitMessages
	if messages <= 0 {
		messages = 1
	}

	return &chatLimiter{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Limit(float64(messages) / float64(window)),
		burst:    messages,
	}
}

func (l *chatLimiter) allow(userID int64) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}

// withRecovery keeps a panicking handler from taking down the update loop.
func (b *Bot) withRecovery(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if b.metrics != nil {
				b.metrics.HandlerPanics.Inc()
			}
			b.logger.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("Recovered from panic in update handler")
		}
	}()
	fn()
}
