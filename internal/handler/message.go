package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	internal_errors "github.com/mathieulrl/world-chat-sub000/internal/errors"
	"github.com/mathieulrl/world-chat-sub000/internal/middleware"
	"github.com/mathieulrl/world-chat-sub000/internal/utils"
	"github.com/mathieulrl/world-chat-sub000/shared/api"
	"github.com/mathieulrl/world-chat-sub000/shared/domain"
)

// SendMessage runs the dual write. A 502 response with a blob_id in the body
// means the content half succeeded: the caller can retry with /messages/reindex
// instead of re-uploading.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body api.SendMessageRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	msg, err := messageFromRequest(body, identity)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	receipt, err := h.messaging.Send(r.Context(), msg, identity)
	if err != nil {
		if errors.Is(err, internal_errors.ErrIndexWriteFailed) && receipt.BlobRef.BlobId != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			writeJSONBody(w, api.SendMessageResponse{
				MessageId: receipt.MessageId,
				BlobId:    receipt.BlobRef.BlobId,
			})
			return
		}
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSONBody(w, api.SendMessageResponse{
		MessageId: receipt.MessageId,
		BlobId:    receipt.BlobRef.BlobId,
		TxId:      receipt.TxRef.TxId,
	})
}

// ReindexMessage retries the ledger half of a send whose blob write already
// succeeded.
func (h *Handler) ReindexMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body api.ReindexRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	messageType := body.MessageType
	if messageType == "" {
		messageType = domain.TextMessage
	}
	var ts time.Time
	if body.Timestamp > 0 {
		ts = time.Unix(body.Timestamp, 0).UTC()
	}
	record := domain.MessageRecord{
		BlobId:         body.BlobId,
		ConversationId: body.ConversationId,
		Sender:         identity.Address,
		MessageType:    messageType,
		Timestamp:      ts,
		AuxA:           body.AuxA,
		AuxB:           body.AuxB,
	}

	tx, err := h.messaging.ReindexBlob(r.Context(), record, identity)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.SendMessageResponse{BlobId: body.BlobId, TxId: tx.TxId})
}

// GetUserMessages loads every message a user has sent, resolving blobs and
// degrading unreachable ones to fallback items.
func (h *Handler) GetUserMessages(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	messages, err := h.messaging.LoadUser(r.Context(), address)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.MessagesResponse{Messages: messages})
}

// GetUserMessageCount returns the ledger's record count for a user. It counts
// index records, so it includes messages whose blobs are unreachable.
func (h *Handler) GetUserMessageCount(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	count, err := h.messaging.MessageCount(r.Context(), address)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.MessageCountResponse{Count: count})
}

// GetConversationMessages loads a conversation's messages in timestamp order.
func (h *Handler) GetConversationMessages(w http.ResponseWriter, r *http.Request) {
	conversationId := chi.URLParam(r, "conversation")
	messages, err := h.messaging.LoadConversation(r.Context(), conversationId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.MessagesResponse{Messages: messages})
}

func messageFromRequest(body api.SendMessageRequest, identity domain.Identity) (domain.Message, error) {
	switch body.MessageType {
	case "", domain.TextMessage:
		return domain.NewTextMessage(body.ConversationId, identity, body.Content), nil
	case domain.PaymentMessage:
		if body.Payment == nil {
			return domain.Message{}, &internal_errors.ErrorWithStatusCode{Message: "payment payload required", StatusCode: http.StatusBadRequest}
		}
		return domain.NewPaymentMessage(body.ConversationId, identity, body.Content, *body.Payment), nil
	case domain.PaymentRequestMessage:
		if body.PaymentRequest == nil {
			return domain.Message{}, &internal_errors.ErrorWithStatusCode{Message: "payment_request payload required", StatusCode: http.StatusBadRequest}
		}
		// A request_id marks this as a response to an earlier request; the
		// responder's status must survive as-is.
		if body.PaymentRequest.RequestId != "" {
			switch body.PaymentRequest.Status {
			case domain.RequestAccepted, domain.RequestDeclined:
			default:
				return domain.Message{}, &internal_errors.ErrorWithStatusCode{Message: "payment_request response status must be accepted or declined", StatusCode: http.StatusBadRequest}
			}
			return domain.NewPaymentRequestResponseMessage(body.ConversationId, identity, body.Content, *body.PaymentRequest), nil
		}
		return domain.NewPaymentRequestMessage(body.ConversationId, identity, body.Content, *body.PaymentRequest), nil
	default:
		return domain.Message{}, &internal_errors.ErrorWithStatusCode{Message: "unknown message type", StatusCode: http.StatusBadRequest}
	}
}
