package models

// Dialog steps for the bot session state machine.
const (
	StepSales      = "sales"
	StepAdmin      = "admin"
	StepEnterName  = "admin_enter_name"
	StepEnterPrice = "admin_enter_price"
)

const (
	// DefaultTaxRateBps is the tax rate in basis points (8%).
	DefaultTaxRateBps = 800

	// DefaultClickGuardWindowMs suppresses duplicate adds for the same
	// item arriving inside this window.
	DefaultClickGuardWindowMs = 250

	// DefaultSessionTTL lifetime of session state in Redis (seconds).
	DefaultSessionTTL = 24 * 60 * 60

	// DefaultPaginationSize menu items per bot page.
	DefaultPaginationSize = 8

	// RateLimitMessages / RateLimitWindow per-chat flood protection.
	RateLimitMessages = 20
	RateLimitWindow   = 60 // seconds

	// WorkerQueueSize size of the sheets sync queue.
	WorkerQueueSize = 256

	// OrderSource is stamped into order meta so the backend can tell
	// which front end produced the order.
	OrderSource = "pos"
)
