package models

// MenuItem is the server-owned menu entry. Prices are VND minor units,
// kept as int64 so totals never touch floating point.
type MenuItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description,omitempty"`
}

// MenuItemPayload is the write shape for create/update calls.
type MenuItemPayload struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description,omitempty"`
}
