package models

import "time"

// JournalEntry is a locally recorded, successfully submitted order. The
// journal is bookkeeping only; the backend remains the source of truth.
type JournalEntry struct {
	ID        int64         `json:"id"`
	RemoteID  int64         `json:"remote_id"`
	SessionID string        `json:"session_id"`
	Subtotal  int64         `json:"subtotal"`
	Tax       int64         `json:"tax"`
	Total     int64         `json:"total"`
	Lines     []JournalLine `json:"lines"`
	CreatedAt time.Time     `json:"created_at"`
}

// JournalLine snapshots one basket line at submission time, including the
// price the operator saw.
type JournalLine struct {
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Qty        int64  `json:"qty"`
}
