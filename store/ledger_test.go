package store

import (
	"testing"
	"time"

	"github.com/MixinNetwork/tickets/nft"
	"github.com/stretchr/testify/require"
)

func testIdentity(b byte) nft.Identity {
	var id nft.Identity
	for i := range id {
		id[i] = b
	}
	return id
}

func testStore(t *testing.T) *BadgerStore {
	bs, err := OpenBadgerMemory()
	require.Nil(t, err)
	t.Cleanup(func() { bs.Close() })
	return bs
}

func TestCollectionAndTickets(t *testing.T) {
	require := require.New(t)
	bs := testStore(t)

	addr := testIdentity(9)
	c, err := bs.ReadCollection(addr)
	require.Nil(err)
	require.Nil(c)

	c, err = nft.NewCollection(addr, testIdentity(1), testIdentity(2), "https://tickets")
	require.Nil(err)
	err = bs.RunTransaction(func(txn nft.Txn) error {
		err := txn.CreateCollection(c)
		if err != nil {
			return err
		}
		for _, id := range []uint32{300, 2, 9999, 17} {
			err = txn.CreateTicket(nft.NewTicket(id, testIdentity(3), addr))
			if err != nil {
				return err
			}
		}
		return nil
	})
	require.Nil(err)

	err = bs.RunTransaction(func(txn nft.Txn) error {
		return txn.CreateCollection(c)
	})
	require.ErrorIs(err, nft.ErrConflict)
	err = bs.RunTransaction(func(txn nft.Txn) error {
		return txn.CreateTicket(nft.NewTicket(17, testIdentity(4), addr))
	})
	require.ErrorIs(err, nft.ErrConflict)

	stored, err := bs.ReadCollection(addr)
	require.Nil(err)
	require.Equal(addr, stored.Address)
	require.Equal("https://tickets", stored.BaseURI)

	tickets, err := bs.ListTickets(addr, 0, 10)
	require.Nil(err)
	require.Len(tickets, 4)
	for i, id := range []uint32{2, 17, 300, 9999} {
		require.Equal(id, tickets[i].Id)
		require.Equal(testIdentity(3), tickets[i].Owner)
	}
	tickets, err = bs.ListTickets(addr, 17, 2)
	require.Nil(err)
	require.Len(tickets, 2)
	require.Equal(uint32(17), tickets[0].Id)
	require.Equal(uint32(300), tickets[1].Id)
	tickets, err = bs.ListTickets(testIdentity(8), 0, 10)
	require.Nil(err)
	require.Len(tickets, 0)

	err = bs.RunTransaction(func(txn nft.Txn) error {
		return txn.DeleteTicket(nft.NewTicket(300, testIdentity(3), addr))
	})
	require.Nil(err)
	tk, err := bs.ReadTicket(addr, 300)
	require.Nil(err)
	require.Nil(tk)
	tickets, err = bs.ListTickets(addr, 0, 10)
	require.Nil(err)
	require.Len(tickets, 3)

	err = bs.RunTransaction(func(txn nft.Txn) error {
		return txn.DeleteTicket(nft.NewTicket(300, testIdentity(3), addr))
	})
	require.ErrorIs(err, nft.ErrTicketNotFound)
}

func TestTransactionConflict(t *testing.T) {
	require := require.New(t)
	bs := testStore(t)

	addr := testIdentity(9)
	c, err := nft.NewCollection(addr, testIdentity(1), testIdentity(2), "")
	require.Nil(err)
	err = bs.RunTransaction(func(txn nft.Txn) error {
		return txn.CreateCollection(c)
	})
	require.Nil(err)

	err = bs.RunTransaction(func(txn nft.Txn) error {
		c, err := txn.ReadCollection(addr)
		if err != nil {
			return err
		}
		err = bs.RunTransaction(func(other nft.Txn) error {
			c, err := other.ReadCollection(addr)
			if err != nil {
				return err
			}
			err = other.CreateTicket(nft.NewTicket(1, testIdentity(3), addr))
			if err != nil {
				return err
			}
			err = c.IncrementSupply()
			if err != nil {
				return err
			}
			return other.WriteCollection(c)
		})
		if err != nil {
			return err
		}
		err = txn.CreateTicket(nft.NewTicket(1, testIdentity(4), addr))
		if err != nil {
			return err
		}
		err = c.IncrementSupply()
		if err != nil {
			return err
		}
		return txn.WriteCollection(c)
	})
	require.ErrorIs(err, nft.ErrConflict)

	stored, err := bs.ReadCollection(addr)
	require.Nil(err)
	require.Equal(uint32(1), stored.TotalSupply)
	tk, err := bs.ReadTicket(addr, 1)
	require.Nil(err)
	require.Equal(testIdentity(3), tk.Owner)
}

func TestEventQueue(t *testing.T) {
	require := require.New(t)
	bs := testStore(t)

	addr := testIdentity(9)
	base := time.Unix(1700000000, 0)
	records := []*nft.EventRecord{
		nft.NewEventRecord("c", 2, addr, &nft.BurnEvent{NftId: 1}, base),
		nft.NewEventRecord("a", 1, addr, &nft.ClaimEvent{NftId: 1}, base),
		nft.NewEventRecord("b", 0, addr, &nft.LockEvent{}, base.Add(time.Second)),
	}
	err := bs.RunTransaction(func(txn nft.Txn) error {
		for _, r := range records {
			err := txn.WriteEvent(r)
			if err != nil {
				return err
			}
		}
		return nil
	})
	require.Nil(err)

	events, err := bs.ListEvents("", 10)
	require.Nil(err)
	require.Len(events, 3)
	require.Equal("a", events[0].Id)
	require.Equal("c", events[1].Id)
	require.Equal("b", events[2].Id)
	require.True(base.Equal(events[0].CreatedAt))

	events, err = bs.ListEvents("a", 1)
	require.Nil(err)
	require.Len(events, 1)
	require.Equal("c", events[0].Id)
	events, err = bs.ListEvents("b", 10)
	require.Nil(err)
	require.Len(events, 0)

	ev, err := bs.ReadEvent("c")
	require.Nil(err)
	require.Equal(nft.EventKindBurn, ev.Kind)
	ev, err = bs.ReadEvent("d")
	require.Nil(err)
	require.Nil(ev)

	err = bs.RunTransaction(func(txn nft.Txn) error {
		return txn.WriteEvent(records[0])
	})
	require.ErrorIs(err, nft.ErrConflict)
	events, err = bs.ListEvents("", 10)
	require.Nil(err)
	require.Len(events, 3)

	_, err = bs.ListEvents("missing", 10)
	require.NotNil(err)
}

func TestProperty(t *testing.T) {
	require := require.New(t)
	bs := testStore(t)

	val, err := bs.ReadProperty([]byte("KEY"))
	require.Nil(err)
	require.Nil(val)
	require.Nil(bs.WriteProperty([]byte("KEY"), []byte("value")))
	val, err = bs.ReadProperty([]byte("KEY"))
	require.Nil(err)
	require.Equal([]byte("value"), val)
}
