package model

// InboundMessage is a single decoded chat envelope: who wrote and what.
type InboundMessage struct {
	Sender string
	Body   string
}
