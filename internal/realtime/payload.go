package realtime

// OrderUpdate is the payload for the "order:update" event.
type OrderUpdate struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CustomOrderUpdate is the payload for the "customOrder:update" event.
// Deleted is set instead of Status when the record has been removed.
type CustomOrderUpdate struct {
	ID      string `json:"id"`
	Status  string `json:"status,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

// StockLow is the payload for the "stock:low" event, emitted when a variant's
// stock is between one and three units after a product update.
type StockLow struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Variant   StockLowVariant `json:"variant"`
}

type StockLowVariant struct {
	Size     string `json:"size"`
	Color    string `json:"color"`
	Material string `json:"material"`
	Stock    int    `json:"stock"`
}
