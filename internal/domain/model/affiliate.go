package model

import "time"

// Affiliate describes a referral partner registered over the chat channel.
type Affiliate struct {
	ID          int64
	PhoneNumber string
	Token       string
	IsActive    bool
	CreatedAt   time.Time
}
