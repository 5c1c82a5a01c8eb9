package bot

import (
	"errors"

	"meo-pos/internal/basket"
	"meo-pos/internal/client"
)

// errorMessage maps backend and basket errors to what the cashier sees.
// Request errors are surfaced verbatim so the operator can read the status
// and body straight from the chat.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, basket.ErrEmptyBasket) {
		return "🧺 Basket is empty. Add something from the menu first."
	}

	var reqErr *client.RequestError
	if errors.As(err, &reqErr) {
		return "⚠️ " + reqErr.Error()
	}

	var netErr *client.NetworkError
	if errors.As(err, &netErr) {
		return "⚠️ Cannot reach the backend. Check the connection and try again."
	}

	if errors.Is(err, client.ErrBadEnvelope) {
		return "⚠️ The backend returned an unexpected menu format."
	}

	return "⚠️ Something went wrong. Please try again."
}
