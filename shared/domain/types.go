package domain

import "time"

type (
	ConversationId = string
	BlobId         = string
	Address        = string
)

// Identity is the author of a message: the application-level user id plus the
// wallet address the ledger indexes by.
type Identity struct {
	Id      string
	Address Address
}

// BlobRef identifies stored content in the blob network. The id is assigned
// by the store at write time; the core never assumes it is deterministic.
type BlobRef struct {
	BlobId    BlobId    `json:"blob_id"`
	Size      int64     `json:"size"`
	Timestamp time.Time `json:"timestamp"`
}

// TxRef identifies a submitted ledger transaction. Submission does not imply
// confirmation.
type TxRef struct {
	TxId string `json:"tx_id"`
}

// MessageRecord is the on-ledger metadata row for one message. The ledger is
// authoritative for existence and ordering: a message whose record was never
// written is not sent, even if its blob exists.
type MessageRecord struct {
	BlobId         BlobId      `json:"blob_id"`
	ConversationId string      `json:"conversation_id"`
	Sender         Address     `json:"sender"`
	MessageType    MessageType `json:"message_type"`
	Timestamp      time.Time   `json:"timestamp"`
	// AuxA/AuxB carry the payment amount and token symbol for payment-typed
	// records; the contract treats them as opaque strings.
	AuxA string `json:"aux_a,omitempty"`
	AuxB string `json:"aux_b,omitempty"`
}
