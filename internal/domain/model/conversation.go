package model

// ConversationState tags where a sender currently is in a multi-step flow.
type ConversationState string

const (
	StateNone                 ConversationState = ""
	StateAwaitingCredential   ConversationState = "AWAITING_CREDENTIAL"
	StateAwaitingMerchantCode ConversationState = "AWAITING_MERCHANT_CODE"
)

// ConversationScratch bridges steps of the credential registration flow.
type ConversationScratch struct {
	CredentialID    string
	CredentialValue string
}
