// Package service holds the persistence orchestrator: it sequences the blob
// write and the ledger write for send, and the ledger read plus per-record
// blob reads for load. It owns no state of its own — every call is
// independent and safe to run concurrently.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	internal_errors "github.com/mathieulrl/world-chat-sub000/internal/errors"
	"github.com/mathieulrl/world-chat-sub000/shared/domain"
	"github.com/mathieulrl/world-chat-sub000/shared/logger"
)

type MessagingService interface {
	Send(ctx context.Context, msg domain.Message, sender domain.Identity) (Receipt, error)
	ReindexBlob(ctx context.Context, record domain.MessageRecord, sender domain.Identity) (domain.TxRef, error)
	LoadUser(ctx context.Context, address domain.Address) ([]domain.Message, error)
	LoadConversation(ctx context.Context, conversationId string) ([]domain.Message, error)
	Conversations(ctx context.Context, address domain.Address) ([]string, error)
	ConversationSummaries(ctx context.Context, address domain.Address) ([]domain.Conversation, error)
	MessageCount(ctx context.Context, address domain.Address) (uint64, error)
}

// BlobStorage is the slice of the blob store the orchestrator needs.
type BlobStorage interface {
	Store(ctx context.Context, data []byte, ownerHint string) (domain.BlobRef, error)
	Retrieve(ctx context.Context, blobId string) ([]byte, error)
}

// LedgerIndex is the slice of the ledger client the orchestrator needs.
type LedgerIndex interface {
	WriteRecord(ctx context.Context, record domain.MessageRecord, sender domain.Identity) (domain.TxRef, error)
	ReadUserRecords(ctx context.Context, address domain.Address) ([]domain.MessageRecord, error)
	ReadConversationRecords(ctx context.Context, conversationId string) ([]domain.MessageRecord, error)
	DeriveUserConversations(ctx context.Context, address domain.Address) ([]string, error)
	ReadUserMessageCount(ctx context.Context, address domain.Address) (uint64, error)
}

// Receipt reports the outcome of a send. On an index failure BlobRef is
// still populated: the blob exists but is invisible until indexed, and the
// caller may retry via ReindexBlob with the same blob id.
type Receipt struct {
	MessageId string
	BlobRef   domain.BlobRef
	TxRef     domain.TxRef
}

type Messaging struct {
	blobs      BlobStorage
	index      LedgerIndex
	fetchLimit int
}

func NewMessaging(blobs BlobStorage, index LedgerIndex, blobFetchLimit int) MessagingService {
	if blobFetchLimit <= 0 {
		blobFetchLimit = 8
	}
	return &Messaging{blobs, index, blobFetchLimit}
}

// Send persists a message: content first, then the index record. Visibility
// is gated solely by the ledger write — a stored blob without a record is
// permanently invisible unless the caller retries indexing.
func (s *Messaging) Send(ctx context.Context, msg domain.Message, sender domain.Identity) (Receipt, error) {
	if msg.MessageType == "" {
		msg.MessageType = domain.TextMessage
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: serializing message: %v", internal_errors.ErrContentWriteFailed, err)
	}

	ref, err := s.blobs.Store(ctx, payload, sender.Address)
	if err != nil {
		sendFailures.WithLabelValues("content").Inc()
		// No ledger write is attempted: content must exist before it is indexed.
		return Receipt{}, fmt.Errorf("%w: %w", internal_errors.ErrContentWriteFailed, err)
	}

	record := recordForMessage(msg, ref)
	tx, err := s.index.WriteRecord(ctx, record, sender)
	if err != nil {
		sendFailures.WithLabelValues("index").Inc()
		logger.Component("orchestrator").Warn("blob stored but index write failed",
			"blob", ref.BlobId, "conversation", msg.ConversationId, "err", err)
		return Receipt{MessageId: msg.Id, BlobRef: ref},
			fmt.Errorf("%w: %w", internal_errors.ErrIndexWriteFailed, err)
	}

	messagesSent.Inc()
	return Receipt{MessageId: msg.Id, BlobRef: ref, TxRef: tx}, nil
}

// ReindexBlob retries the ledger half of a failed send against a retained
// blob reference. Re-indexing the same blob id is safe; the worst outcome of
// retrying after an unacknowledged success is a duplicate visible record.
func (s *Messaging) ReindexBlob(ctx context.Context, record domain.MessageRecord, sender domain.Identity) (domain.TxRef, error) {
	tx, err := s.index.WriteRecord(ctx, record, sender)
	if err != nil {
		sendFailures.WithLabelValues("index").Inc()
		return domain.TxRef{}, fmt.Errorf("%w: %w", internal_errors.ErrIndexWriteFailed, err)
	}
	return tx, nil
}

func (s *Messaging) LoadUser(ctx context.Context, address domain.Address) ([]domain.Message, error) {
	records, err := s.index.ReadUserRecords(ctx, address)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, records)
}

func (s *Messaging) LoadConversation(ctx context.Context, conversationId string) ([]domain.Message, error) {
	records, err := s.index.ReadConversationRecords(ctx, conversationId)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, records)
}

// Conversations lists the distinct conversation ids in a user's records.
// An unindexed address is an empty list, not an error.
func (s *Messaging) Conversations(ctx context.Context, address domain.Address) ([]string, error) {
	return s.index.DeriveUserConversations(ctx, address)
}

// MessageCount reports how many records the ledger holds for an address. It
// counts records, not resolvable blobs, so it can exceed what a load returns
// with readable content.
func (s *Messaging) MessageCount(ctx context.Context, address domain.Address) (uint64, error) {
	return s.index.ReadUserMessageCount(ctx, address)
}

// ConversationSummaries builds the local-only conversation view from a full
// user load. It is derived on every call and never persisted, so it cannot
// drift from the ledger's ground truth.
func (s *Messaging) ConversationSummaries(ctx context.Context, address domain.Address) ([]domain.Conversation, error) {
	messages, err := s.LoadUser(ctx, address)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0)
	byId := make(map[string]*domain.Conversation)
	for i := range messages {
		msg := messages[i]
		if msg.ConversationId == "" {
			continue
		}
		conv, ok := byId[msg.ConversationId]
		if !ok {
			conv = &domain.Conversation{Id: msg.ConversationId}
			byId[msg.ConversationId] = conv
			order = append(order, msg.ConversationId)
		}
		conv.MessageCount++
		if addr := msg.SenderAddress; addr != "" && !containsAddress(conv.Participants, addr) {
			conv.Participants = append(conv.Participants, addr)
		}
		// Messages arrive sorted ascending, so the last seen one is current.
		conv.LastMessage = &messages[i]
		conv.LastActivity = msg.Timestamp
	}

	conversations := make([]domain.Conversation, 0, len(order))
	for _, id := range order {
		conversations = append(conversations, *byId[id])
	}
	return conversations, nil
}

// resolve fans out blob retrievals for a record set with bounded concurrency
// and reassembles an ordered message list. A record whose blob cannot be
// fetched degrades to a fallback item; only ledger-read failures (handled by
// the callers) fail a load outright.
func (s *Messaging) resolve(ctx context.Context, records []domain.MessageRecord) ([]domain.Message, error) {
	start := time.Now()
	defer func() { loadDuration.Observe(time.Since(start).Seconds()) }()

	if len(records) == 0 {
		return []domain.Message{}, nil
	}

	messages := make([]domain.Message, len(records))
	sem := make(chan struct{}, s.fetchLimit)
	var wg sync.WaitGroup
	for i, record := range records {
		// Cancellation stops issuing further fetches; in-flight ones are
		// abandoned to their context.
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int, record domain.MessageRecord) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			messages[i] = s.resolveOne(ctx, record)
		}(i, record)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		// Partially-completed results are discarded; the caller retries the
		// whole load.
		return nil, err
	}

	// Ledger read order is not chronological; always re-sort.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages, nil
}

func (s *Messaging) resolveOne(ctx context.Context, record domain.MessageRecord) domain.Message {
	data, err := s.blobs.Retrieve(ctx, record.BlobId)
	if err == nil {
		var msg domain.Message
		if err = json.Unmarshal(data, &msg); err == nil {
			if msg.Timestamp.IsZero() {
				msg.Timestamp = record.Timestamp
			}
			return msg
		}
	}

	blobFetchFailures.Inc()
	logger.Component("orchestrator").Warn("substituting fallback record",
		"blob", record.BlobId, "conversation", record.ConversationId, "err", err)
	return fallbackMessage(record)
}

// fallbackMessage synthesizes an in-memory stand-in from the ledger record
// so an unresolvable blob is never hidden from the user. It is never
// persisted.
func fallbackMessage(record domain.MessageRecord) domain.Message {
	return domain.Message{
		ConversationId: record.ConversationId,
		SenderId:       record.Sender,
		SenderAddress:  record.Sender,
		Content:        fmt.Sprintf("[content unavailable: blob %s]", record.BlobId),
		Timestamp:      record.Timestamp,
		MessageType:    record.MessageType,
		ContentMissing: true,
	}
}

// recordForMessage projects the ledger-indexed fields out of a message. The
// aux slots carry the payment amount and token so payment rows remain
// meaningful even when their blob is unreachable.
func recordForMessage(msg domain.Message, ref domain.BlobRef) domain.MessageRecord {
	record := domain.MessageRecord{
		BlobId:         ref.BlobId,
		ConversationId: msg.ConversationId,
		Sender:         msg.SenderAddress,
		MessageType:    msg.MessageType,
		Timestamp:      msg.Timestamp,
	}
	switch {
	case msg.Payment != nil:
		record.AuxA = msg.Payment.Amount
		record.AuxB = msg.Payment.Token
	case msg.PaymentRequest != nil:
		record.AuxA = msg.PaymentRequest.Amount
		record.AuxB = msg.PaymentRequest.Token
	}
	return record
}

func containsAddress(addrs []domain.Address, addr domain.Address) bool {
	for _, a := range addrs {
		if a == addr {
			return true
		}
	}
	return false
}
