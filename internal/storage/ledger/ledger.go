// Package ledger is the index client: it writes MessageRecords through the
// signing capability and reads them back with free contract view calls. The
// ledger is authoritative for existence and ordering of messages; this
// client is the only place timestamp units are converted.
package ledger

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	internal_errors "github.com/mathieulrl/world-chat-sub000/internal/errors"
	"github.com/mathieulrl/world-chat-sub000/internal/signer"
	"github.com/mathieulrl/world-chat-sub000/shared/domain"
	"github.com/mathieulrl/world-chat-sub000/shared/logger"
)

// CallBackend executes read-only contract calls. *ethclient.Client
// satisfies it; tests inject a fake.
type CallBackend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type Client struct {
	contract common.Address
	backend  CallBackend
	signer   signer.Signer
	abi      abi.ABI
}

func New(contractAddress string, backend CallBackend, s signer.Signer) (*Client, error) {
	if !common.IsHexAddress(contractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", contractAddress)
	}
	parsed, err := abi.JSON(strings.NewReader(messagingABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse messaging ABI: %w", err)
	}
	return &Client{
		contract: common.HexToAddress(contractAddress),
		backend:  backend,
		signer:   s,
		abi:      parsed,
	}, nil
}

// WriteRecord packs a storeMessage call and hands it to the signer.
// Completion means submitted, not confirmed. The contract does not
// deduplicate: a caller retry after an unacknowledged success may create a
// duplicate visible record, which is an accepted artifact.
func (c *Client) WriteRecord(ctx context.Context, record domain.MessageRecord, sender domain.Identity) (domain.TxRef, error) {
	data, err := c.abi.Pack("storeMessage",
		record.BlobId,
		record.ConversationId,
		string(record.MessageType),
		record.AuxA,
		record.AuxB,
	)
	if err != nil {
		return domain.TxRef{}, fmt.Errorf("%w: packing storeMessage: %v", internal_errors.ErrWriteRejected, err)
	}

	submission, err := c.signer.Submit(ctx, signer.Call{To: c.contract.Hex(), Data: data})
	if err != nil {
		// The signer adapter already distinguishes rejection from transport.
		return domain.TxRef{}, err
	}

	logger.Component("ledger").Debug("record submitted",
		"tx", submission.TxId, "blob", record.BlobId, "sender", sender.Address)
	return domain.TxRef{TxId: submission.TxId}, nil
}

// ReadUserRecords queries the per-user index. An unindexed user or an empty
// contract yields an empty list, not an error; only transport/RPC failures
// surface as ErrReadUnavailable.
func (c *Client) ReadUserRecords(ctx context.Context, address domain.Address) ([]domain.MessageRecord, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid user address %q", address)
	}
	return c.readRecords(ctx, "getUserMessages", common.HexToAddress(address))
}

// ReadConversationRecords queries the per-conversation index with the same
// empty-vs-error distinction as ReadUserRecords.
func (c *Client) ReadConversationRecords(ctx context.Context, conversationId string) ([]domain.MessageRecord, error) {
	return c.readRecords(ctx, "getConversationMessages", conversationId)
}

// ReadUserMessageCount returns the ledger's record count for an address.
func (c *Client) ReadUserMessageCount(ctx context.Context, address domain.Address) (uint64, error) {
	if !common.IsHexAddress(address) {
		return 0, fmt.Errorf("invalid user address %q", address)
	}
	out, empty, err := c.call(ctx, "getUserMessageCount", common.HexToAddress(address))
	if err != nil {
		return 0, err
	}
	if empty {
		return 0, nil
	}
	count, ok := out[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("%w: unexpected getUserMessageCount result", internal_errors.ErrReadUnavailable)
	}
	return count.Uint64(), nil
}

// DeriveUserConversations is not a native ledger query: conversations exist
// only as the distinct conversation ids referenced by a user's records. The
// projection preserves first-seen order and skips records with an empty id.
// It is idempotent and side-effect-free.
func (c *Client) DeriveUserConversations(ctx context.Context, address domain.Address) ([]string, error) {
	records, err := c.ReadUserRecords(ctx, address)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(records))
	conversations := make([]string, 0, len(records))
	for _, record := range records {
		if record.ConversationId == "" {
			continue
		}
		if _, ok := seen[record.ConversationId]; ok {
			continue
		}
		seen[record.ConversationId] = struct{}{}
		conversations = append(conversations, record.ConversationId)
	}
	return conversations, nil
}

func (c *Client) readRecords(ctx context.Context, method string, arg interface{}) ([]domain.MessageRecord, error) {
	out, empty, err := c.call(ctx, method, arg)
	if err != nil {
		return nil, err
	}
	if empty {
		return []domain.MessageRecord{}, nil
	}
	rows := *abi.ConvertType(out[0], new([]recordTuple)).(*[]recordTuple)
	return recordsFromTuples(rows), nil
}

// call packs, executes and unpacks a view call. empty reports a zero-byte
// return, which the contract produces for nothing-there queries and which
// must not be treated as a failure.
func (c *Client) call(ctx context.Context, method string, args ...interface{}) (out []interface{}, empty bool, err error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, false, fmt.Errorf("packing %s: %w", method, err)
	}

	raw, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", internal_errors.ErrReadUnavailable, method, err)
	}
	if len(raw) == 0 {
		return nil, true, nil
	}

	out, err = c.abi.Unpack(method, raw)
	if err != nil {
		return nil, false, fmt.Errorf("%w: decoding %s result: %v", internal_errors.ErrReadUnavailable, method, err)
	}
	return out, false, nil
}
