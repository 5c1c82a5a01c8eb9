package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"meo-pos/internal/models"
)

// FetchMenu returns the full menu list. The backend answers either with a
// bare array or a {"data": [...]} envelope; anything else is rejected with
// ErrBadEnvelope instead of being coerced to an empty list.
func (c *Client) FetchMenu(ctx context.Context) ([]models.MenuItem, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "fetch_menu", http.MethodGet, "/api/menu", nil, &raw); err != nil {
		return nil, err
	}
	return parseMenuList(raw)
}

// CreateMenuItem creates a menu item and returns the server copy.
func (c *Client) CreateMenuItem(ctx context.Context, payload models.MenuItemPayload) (models.MenuItem, error) {
	var item models.MenuItem
	err := c.do(ctx, "create_menu_item", http.MethodPost, "/api/menu", payload, &item)
	return item, err
}

// UpdateMenuItem replaces the item with the given id.
func (c *Client) UpdateMenuItem(ctx context.Context, id int64, payload models.MenuItemPayload) (models.MenuItem, error) {
	var item models.MenuItem
	err := c.do(ctx, "update_menu_item", http.MethodPut, fmt.Sprintf("/api/menu/%d", id), payload, &item)
	return item, err
}

// DeleteMenuItem removes the item with the given id.
func (c *Client) DeleteMenuItem(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_menu_item", http.MethodDelete, fmt.Sprintf("/api/menu/%d", id), nil, nil)
}

type menuEnvelope struct {
	Data *[]models.MenuItem `json:"data"`
}

func parseMenuList(raw json.RawMessage) ([]models.MenuItem, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, ErrBadEnvelope
	}

	switch trimmed[0] {
	case '[':
		var items []models.MenuItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode menu list: %w", err)
		}
		return items, nil
	case '{':
		var env menuEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode menu envelope: %w", err)
		}
		if env.Data == nil {
			return nil, ErrBadEnvelope
		}
		return *env.Data, nil
	default:
		return nil, ErrBadEnvelope
	}
}
