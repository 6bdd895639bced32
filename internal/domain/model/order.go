package model

import "time"

// Order is a shop order awaiting notification. Optional fields arrive as
// pointers because the shop writes them only when the checkout supplies them.
type Order struct {
	ID             int64
	Client         *string
	Total          *float64
	IPAddress      *string
	AffiliateToken *string
	Notified       bool
	CreatedAt      time.Time
}
