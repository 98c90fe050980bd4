package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	TextMessage           MessageType = "text"
	PaymentMessage        MessageType = "payment"
	PaymentRequestMessage MessageType = "payment_request"
)

// RequestStatus tracks the lifecycle of a money request. Status changes are
// sent as new messages referencing the original request; persisted content is
// never mutated.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestDeclined RequestStatus = "declined"
)

// Message is the unit of conversation content. It is immutable once sent:
// the body lives as a blob in the storage network and only its metadata is
// indexed on the ledger.
type Message struct {
	Id             string      `json:"id"`
	ConversationId string      `json:"conversation_id"`
	SenderId       string      `json:"sender_id"`
	SenderAddress  string      `json:"sender_address"`
	Content        string      `json:"content"`
	Timestamp      time.Time   `json:"timestamp"`
	MessageType    MessageType `json:"message_type"`

	Payment        *PaymentDetails        `json:"payment,omitempty"`
	PaymentRequest *PaymentRequestDetails `json:"payment_request,omitempty"`

	// ContentMissing marks a synthesized fallback: the ledger record exists
	// but its blob could not be retrieved. Fallbacks are never persisted.
	ContentMissing bool `json:"content_missing,omitempty"`
}

type PaymentDetails struct {
	Amount    string `json:"amount"`
	Token     string `json:"token"`
	Recipient string `json:"recipient"`
	TxRef     string `json:"tx_ref,omitempty"`
}

type PaymentRequestDetails struct {
	Amount string        `json:"amount"`
	Token  string        `json:"token"`
	Status RequestStatus `json:"status"`
	// RequestId points at the original payment_request message when this
	// message records a status change.
	RequestId string `json:"request_id,omitempty"`
}

func NewTextMessage(conversationId string, sender Identity, content string) Message {
	return Message{
		Id:             uuid.NewString(),
		ConversationId: conversationId,
		SenderId:       sender.Id,
		SenderAddress:  sender.Address,
		Content:        content,
		Timestamp:      time.Now().UTC(),
		MessageType:    TextMessage,
	}
}

func NewPaymentMessage(conversationId string, sender Identity, content string, payment PaymentDetails) Message {
	m := NewTextMessage(conversationId, sender, content)
	m.MessageType = PaymentMessage
	m.Payment = &payment
	return m
}

func NewPaymentRequestMessage(conversationId string, sender Identity, content string, request PaymentRequestDetails) Message {
	m := NewTextMessage(conversationId, sender, content)
	m.MessageType = PaymentRequestMessage
	request.Status = RequestPending
	m.PaymentRequest = &request
	return m
}

// NewPaymentRequestResponseMessage records an accept/decline as a fresh
// message. The details must reference the original request by id and carry
// the responder's status; persisted content is never mutated, so the original
// request message stays pending on the wire forever.
func NewPaymentRequestResponseMessage(conversationId string, sender Identity, content string, request PaymentRequestDetails) Message {
	m := NewTextMessage(conversationId, sender, content)
	m.MessageType = PaymentRequestMessage
	m.PaymentRequest = &request
	return m
}

// NewPaymentRequestStatusMessage is the convenience form of
// NewPaymentRequestResponseMessage for callers holding the original message.
func NewPaymentRequestStatusMessage(original Message, sender Identity, status RequestStatus) Message {
	details := PaymentRequestDetails{
		Status:    status,
		RequestId: original.Id,
	}
	if original.PaymentRequest != nil {
		details.Amount = original.PaymentRequest.Amount
		details.Token = original.PaymentRequest.Token
	}
	return NewPaymentRequestResponseMessage(original.ConversationId, sender, string(status), details)
}
