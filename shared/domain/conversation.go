package domain

import "time"

// Conversation is a derived, local-only view. There is no on-ledger
// conversation entity: a conversation "exists" the moment any record
// references its id, and this summary is recomputed from records on every
// load rather than cached.
type Conversation struct {
	Id           string    `json:"id"`
	Participants []Address `json:"participants"`
	LastMessage  *Message  `json:"last_message,omitempty"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
}
