package dto

import "time"

// StatusResponse carries runtime counters for operators.
type StatusResponse struct {
	UptimeSeconds       int64     `json:"uptime_seconds"`
	ProcessedOrders     int64     `json:"processed_orders"`
	ActiveConversations int       `json:"active_conversations"`
	PollIterations      int64     `json:"poll_iterations"`
	LastPoll            time.Time `json:"last_poll,omitempty"`
}
