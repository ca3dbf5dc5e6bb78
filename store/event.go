package store

import (
	"fmt"

	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/tickets/nft"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixEventPayload = "TICKETS:EVENT:PAYLOAD:"
	prefixEventQueue   = "TICKETS:EVENT:QUEUE:"
)

func (t *badgerTxn) WriteEvent(ev *nft.EventRecord) error {
	old, err := readEvent(t.txn, ev.Id)
	if err != nil {
		return err
	} else if old != nil {
		return fmt.Errorf("%w: event %s", nft.ErrConflict, ev.Id)
	}
	key := []byte(prefixEventPayload + ev.Id)
	val := common.MsgpackMarshalPanic(ev)
	err = t.txn.Set(key, val)
	if err != nil {
		return err
	}
	return t.txn.Set(buildEventTimedKey(ev), []byte{1})
}

func (bs *BadgerStore) ReadEvent(id string) (*nft.EventRecord, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return readEvent(txn, id)
}

// ListEvents returns the events queued after the checkpoint event, an empty
// checkpoint lists from the beginning. Events are queued by unit timestamp
// and then instruction index.
func (bs *BadgerStore) ListEvents(checkpoint string, limit int) ([]*nft.EventRecord, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefixEventQueue)
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := opts.Prefix
	if checkpoint != "" {
		old, err := readEvent(txn, checkpoint)
		if err != nil {
			return nil, err
		}
		if old == nil {
			return nil, fmt.Errorf("checkpoint event %s not found", checkpoint)
		}
		seek = buildEventTimedKey(old)
	}

	var events []*nft.EventRecord
	for it.Seek(seek); it.Valid(); it.Next() {
		key := it.Item().Key()
		id := string(key[len(opts.Prefix)+12:])
		if id == checkpoint {
			continue
		}
		ev, err := readEvent(txn, id)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func readEvent(txn *badger.Txn, id string) (*nft.EventRecord, error) {
	key := []byte(prefixEventPayload + id)
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var ev nft.EventRecord
	err = common.MsgpackUnmarshal(val, &ev)
	return &ev, err
}

func buildEventTimedKey(ev *nft.EventRecord) []byte {
	key := append([]byte(prefixEventQueue), tsToBytes(ev.CreatedAt)...)
	key = append(key, idToBytes(uint32(ev.Index))...)
	return append(key, []byte(ev.Id)...)
}
