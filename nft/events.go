package nft

import (
	"fmt"
	"time"

	"github.com/MixinNetwork/mixin/common"
)

const (
	EventKindClaim          = "claim"
	EventKindTransfer       = "transfer"
	EventKindBurn           = "burn"
	EventKindLock           = "lock"
	EventKindSignerUpdated  = "signer_updated"
	EventKindBaseURIUpdated = "base_uri_updated"
)

type Event interface {
	Kind() string
}

type ClaimEvent struct {
	NftId     uint32
	Recipient Identity
	Timestamp int64
}

type TransferEvent struct {
	NftId    uint32
	From     Identity
	To       Identity
	Operator Identity
}

type BurnEvent struct {
	NftId    uint32
	Operator Identity
}

type LockEvent struct {
	Operator  Identity
	Timestamp int64
}

type SignerUpdatedEvent struct {
	OldSigner Identity
	NewSigner Identity
	Operator  Identity
}

type BaseUriUpdatedEvent struct {
	OldBaseURI string
	NewBaseURI string
	Operator   Identity
}

func (*ClaimEvent) Kind() string          { return EventKindClaim }
func (*TransferEvent) Kind() string       { return EventKindTransfer }
func (*BurnEvent) Kind() string           { return EventKindBurn }
func (*LockEvent) Kind() string           { return EventKindLock }
func (*SignerUpdatedEvent) Kind() string  { return EventKindSignerUpdated }
func (*BaseUriUpdatedEvent) Kind() string { return EventKindBaseURIUpdated }

// EventRecord is the persisted envelope of an event, written in the same
// transaction as the state change it reports.
type EventRecord struct {
	Id         string
	Kind       string
	Index      int
	Collection Identity
	Payload    []byte
	CreatedAt  time.Time
}

func NewEventRecord(id string, index int, collection Identity, ev Event, createdAt time.Time) *EventRecord {
	return &EventRecord{
		Id:         id,
		Index:      index,
		Kind:       ev.Kind(),
		Collection: collection,
		Payload:    common.MsgpackMarshalPanic(ev),
		CreatedAt:  createdAt,
	}
}

func (r *EventRecord) Event() (Event, error) {
	var ev Event
	switch r.Kind {
	case EventKindClaim:
		ev = new(ClaimEvent)
	case EventKindTransfer:
		ev = new(TransferEvent)
	case EventKindBurn:
		ev = new(BurnEvent)
	case EventKindLock:
		ev = new(LockEvent)
	case EventKindSignerUpdated:
		ev = new(SignerUpdatedEvent)
	case EventKindBaseURIUpdated:
		ev = new(BaseUriUpdatedEvent)
	default:
		return nil, fmt.Errorf("unknown event kind %s", r.Kind)
	}
	err := common.MsgpackUnmarshal(r.Payload, ev)
	return ev, err
}

func (r *EventRecord) String() string {
	ev, err := r.Event()
	if err != nil {
		return fmt.Sprintf("%s %s %v", r.Kind, r.Id, err)
	}
	switch e := ev.(type) {
	case *ClaimEvent:
		return fmt.Sprintf("NFT #%d claimed by %s", e.NftId, e.Recipient)
	case *TransferEvent:
		return fmt.Sprintf("NFT #%d transferred from %s to %s by operator", e.NftId, e.From, e.To)
	case *BurnEvent:
		return fmt.Sprintf("NFT #%d burned by operator", e.NftId)
	case *LockEvent:
		return fmt.Sprintf("Contract %s locked permanently by operator", r.Collection)
	case *SignerUpdatedEvent:
		return fmt.Sprintf("Signer updated from %s to %s by operator", e.OldSigner, e.NewSigner)
	case *BaseUriUpdatedEvent:
		return fmt.Sprintf("Base URI updated from %s to %s by operator", e.OldBaseURI, e.NewBaseURI)
	}
	panic(r.Kind)
}
