package client

import (
	"context"
	"net/http"

	"meo-pos/internal/models"
)

// CreateOrder submits an order. Submission is fire-once: a timeout here is
// surfaced to the caller and never retried, since a blind retry could
// duplicate the order server-side.
func (c *Client) CreateOrder(ctx context.Context, req models.OrderRequest) (models.OrderConfirmation, error) {
	var conf models.OrderConfirmation
	err := c.do(ctx, "create_order", http.MethodPost, "/api/orders", req, &conf)
	return conf, err
}
