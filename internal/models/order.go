package models

// OrderLine references a menu item by id only; the server owns pricing.
type OrderLine struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int64 `json:"quantity"`
}

// OrderRequest is the POST /api/orders body. Items keep basket order.
type OrderRequest struct {
	Items []OrderLine       `json:"items"`
	Meta  map[string]string `json:"meta,omitempty"`
}

// OrderConfirmation is the server acknowledgement for a created order.
type OrderConfirmation struct {
	ID int64 `json:"id"`
}
