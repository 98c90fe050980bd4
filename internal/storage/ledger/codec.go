package ledger

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mathieulrl/world-chat-sub000/shared/domain"
)

// messagingABI is the function-level contract surface this core consumes.
// The contract assigns each record's timestamp from the block, which is why
// timestamps come back as integer seconds.
const messagingABI = `[
  {"type":"function","name":"storeMessage","stateMutability":"nonpayable",
   "inputs":[
     {"name":"blobId","type":"string"},
     {"name":"conversationId","type":"string"},
     {"name":"messageType","type":"string"},
     {"name":"auxA","type":"string"},
     {"name":"auxB","type":"string"}],
   "outputs":[]},
  {"type":"function","name":"getUserMessages","stateMutability":"view",
   "inputs":[{"name":"user","type":"address"}],
   "outputs":[{"name":"","type":"tuple[]","components":[
     {"name":"blobId","type":"string"},
     {"name":"conversationId","type":"string"},
     {"name":"sender","type":"address"},
     {"name":"messageType","type":"string"},
     {"name":"timestamp","type":"uint256"},
     {"name":"auxA","type":"string"},
     {"name":"auxB","type":"string"}]}]},
  {"type":"function","name":"getConversationMessages","stateMutability":"view",
   "inputs":[{"name":"conversationId","type":"string"}],
   "outputs":[{"name":"","type":"tuple[]","components":[
     {"name":"blobId","type":"string"},
     {"name":"conversationId","type":"string"},
     {"name":"sender","type":"address"},
     {"name":"messageType","type":"string"},
     {"name":"timestamp","type":"uint256"},
     {"name":"auxA","type":"string"},
     {"name":"auxB","type":"string"}]}]},
  {"type":"function","name":"getUserMessageCount","stateMutability":"view",
   "inputs":[{"name":"user","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]}
]`

// recordTuple mirrors the on-wire MessageRecord tuple.
type recordTuple struct {
	BlobId         string
	ConversationId string
	Sender         common.Address
	MessageType    string
	Timestamp      *big.Int
	AuxA           string
	AuxB           string
}

// recordFromTuple is the single place ledger seconds become time.Time.
// No other layer converts timestamp units.
func recordFromTuple(row recordTuple) domain.MessageRecord {
	var ts time.Time
	if row.Timestamp != nil && row.Timestamp.Sign() > 0 {
		ts = time.Unix(row.Timestamp.Int64(), 0).UTC()
	}
	return domain.MessageRecord{
		BlobId:         row.BlobId,
		ConversationId: row.ConversationId,
		Sender:         row.Sender.Hex(),
		MessageType:    domain.MessageType(row.MessageType),
		Timestamp:      ts,
		AuxA:           row.AuxA,
		AuxB:           row.AuxB,
	}
}

func recordsFromTuples(rows []recordTuple) []domain.MessageRecord {
	records := make([]domain.MessageRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordFromTuple(row))
	}
	return records
}
