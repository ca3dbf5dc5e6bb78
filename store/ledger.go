package store

import (
	"errors"
	"fmt"

	"github.com/MixinNetwork/tickets/nft"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixCollectionAccount = "TICKETS:COLLECTION:ACCOUNT:"
	prefixTicketAccount     = "TICKETS:TICKET:ACCOUNT:"
	prefixTicketCollection  = "TICKETS:TICKET:COLLECTION:"
)

type badgerTxn struct {
	txn *badger.Txn
}

func (bs *BadgerStore) RunTransaction(fn func(nft.Txn) error) error {
	err := bs.db.Update(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn})
	})
	if errors.Is(err, badger.ErrConflict) {
		return fmt.Errorf("%w: %v", nft.ErrConflict, err)
	}
	return err
}

func (bs *BadgerStore) ReadCollection(addr nft.Identity) (*nft.Collection, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return readCollection(txn, addr)
}

func (bs *BadgerStore) ReadTicket(collection nft.Identity, id uint32) (*nft.Ticket, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return readTicket(txn, collection, id)
}

func (bs *BadgerStore) ListTickets(collection nft.Identity, offset uint32, limit int) ([]*nft.Ticket, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = append([]byte(prefixTicketCollection), collection[:]...)
	it := txn.NewIterator(opts)
	defer it.Close()

	var tickets []*nft.Ticket
	for it.Seek(append(opts.Prefix, idToBytes(offset)...)); it.Valid(); it.Next() {
		key := it.Item().Key()
		id := bytesToId(key[len(opts.Prefix):])
		t, err := readTicket(txn, collection, id)
		if err != nil {
			return nil, err
		}
		if t == nil {
			panic(id)
		}
		tickets = append(tickets, t)
		if len(tickets) == limit {
			break
		}
	}
	return tickets, nil
}

func (t *badgerTxn) ReadCollection(addr nft.Identity) (*nft.Collection, error) {
	return readCollection(t.txn, addr)
}

func (t *badgerTxn) CreateCollection(c *nft.Collection) error {
	old, err := readCollection(t.txn, c.Address)
	if err != nil {
		return err
	} else if old != nil {
		return fmt.Errorf("%w: collection %s", nft.ErrConflict, c.Address)
	}
	return t.WriteCollection(c)
}

func (t *badgerTxn) WriteCollection(c *nft.Collection) error {
	val, err := c.MarshalBinary()
	if err != nil {
		return err
	}
	return t.txn.Set(collectionKey(c.Address), val)
}

func (t *badgerTxn) ReadTicket(collection nft.Identity, id uint32) (*nft.Ticket, error) {
	return readTicket(t.txn, collection, id)
}

func (t *badgerTxn) CreateTicket(tk *nft.Ticket) error {
	old, err := readTicket(t.txn, tk.Collection, tk.Id)
	if err != nil {
		return err
	} else if old != nil {
		return fmt.Errorf("%w: ticket %s", nft.ErrConflict, tk.Address())
	}
	err = t.WriteTicket(tk)
	if err != nil {
		return err
	}
	return t.txn.Set(ticketCollectionKey(tk.Collection, tk.Id), []byte{1})
}

func (t *badgerTxn) WriteTicket(tk *nft.Ticket) error {
	val, err := tk.MarshalBinary()
	if err != nil {
		return err
	}
	return t.txn.Set(ticketKey(tk.Collection, tk.Id), val)
}

func (t *badgerTxn) DeleteTicket(tk *nft.Ticket) error {
	old, err := readTicket(t.txn, tk.Collection, tk.Id)
	if err != nil {
		return err
	} else if old == nil {
		return fmt.Errorf("%w: %d", nft.ErrTicketNotFound, tk.Id)
	}
	err = t.txn.Delete(ticketKey(tk.Collection, tk.Id))
	if err != nil {
		return err
	}
	return t.txn.Delete(ticketCollectionKey(tk.Collection, tk.Id))
}

func readCollection(txn *badger.Txn, addr nft.Identity) (*nft.Collection, error) {
	item, err := txn.Get(collectionKey(addr))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	c := &nft.Collection{Address: addr}
	err = c.UnmarshalBinary(val)
	return c, err
}

func readTicket(txn *badger.Txn, collection nft.Identity, id uint32) (*nft.Ticket, error) {
	item, err := txn.Get(ticketKey(collection, id))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var t nft.Ticket
	err = t.UnmarshalBinary(val)
	if err != nil {
		return nil, err
	}
	if t.Id != id || t.Collection != collection {
		panic(fmt.Errorf("ticket account %d %s at %d %s", t.Id, t.Collection, id, collection))
	}
	return &t, nil
}

func collectionKey(addr nft.Identity) []byte {
	return append([]byte(prefixCollectionAccount), addr[:]...)
}

// ticketKey locates the account by its derived address only, so the same
// collection and id always collide.
func ticketKey(collection nft.Identity, id uint32) []byte {
	addr := nft.TicketAddress(collection, id)
	return append([]byte(prefixTicketAccount), addr[:]...)
}

func ticketCollectionKey(collection nft.Identity, id uint32) []byte {
	key := append([]byte(prefixTicketCollection), collection[:]...)
	return append(key, idToBytes(id)...)
}
