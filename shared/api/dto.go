package api

import (
	"github.com/mathieulrl/world-chat-sub000/shared/domain"
)

// Request DTOs

type SendMessageRequest struct {
	ConversationId string                        `validate:"required" json:"conversation_id"`
	Content        string                        `validate:"required" json:"content"`
	MessageType    domain.MessageType            `json:"message_type,omitempty"`
	Payment        *domain.PaymentDetails        `json:"payment,omitempty"`
	PaymentRequest *domain.PaymentRequestDetails `json:"payment_request,omitempty"`
}

// ReindexRequest retries the ledger half of a send whose blob write already
// succeeded. The blob reference comes from the failed send's response.
type ReindexRequest struct {
	BlobId         string             `validate:"required" json:"blob_id"`
	ConversationId string             `validate:"required" json:"conversation_id"`
	MessageType    domain.MessageType `json:"message_type,omitempty"`
	Timestamp      int64              `json:"timestamp,omitempty"` // unix seconds
	AuxA           string             `json:"aux_a,omitempty"`
	AuxB           string             `json:"aux_b,omitempty"`
}

// Response DTOs

// SendMessageResponse returns both halves of the dual write. TxId is empty
// when the index write failed; callers must treat such a message as not sent
// and may retry via /messages/reindex with the returned blob reference.
type SendMessageResponse struct {
	MessageId string `json:"message_id"`
	BlobId    string `json:"blob_id"`
	TxId      string `json:"tx_id,omitempty"`
}

type MessagesResponse struct {
	Messages []domain.Message `json:"messages"`
}

type ConversationsResponse struct {
	Conversations []string `json:"conversations"`
}

type MessageCountResponse struct {
	Count uint64 `json:"count"`
}

type ConversationSummariesResponse struct {
	Conversations []domain.Conversation `json:"conversations"`
}
