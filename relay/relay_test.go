package relay

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MixinNetwork/tickets/nft"
	"github.com/MixinNetwork/tickets/store"
	"github.com/stretchr/testify/require"
)

type recordSink struct {
	ids  []string
	fail string
}

func (s *recordSink) Publish(ctx context.Context, ev *nft.EventRecord) error {
	if ev.Id == s.fail {
		return errors.New("sink unavailable")
	}
	s.ids = append(s.ids, ev.Id)
	return nil
}

func writeEvents(t *testing.T, bs *store.BadgerStore, n int) {
	base := time.Unix(1700000000, 0)
	err := bs.RunTransaction(func(txn nft.Txn) error {
		for i := 0; i < n; i++ {
			ev := &nft.ClaimEvent{NftId: uint32(i)}
			rec := nft.NewEventRecord(fmt.Sprintf("event-%d", i), 0, nft.Identity{}, ev, base.Add(time.Duration(i)*time.Second))
			err := txn.WriteEvent(rec)
			if err != nil {
				return err
			}
		}
		return nil
	})
	require.Nil(t, err)
}

func TestDrain(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	bs, err := store.OpenBadgerMemory()
	require.Nil(err)
	defer bs.Close()
	writeEvents(t, bs, 5)

	sink := &recordSink{fail: "event-3"}
	r := NewRelay(bs)
	r.AddSink(LoggerSink{})
	r.AddSink(sink)

	n, err := r.Drain(ctx, 2)
	require.Nil(err)
	require.Equal(2, n)
	require.Equal([]string{"event-0", "event-1"}, sink.ids)

	n, err = r.Drain(ctx, 10)
	require.NotNil(err)
	require.Equal(1, n)
	require.Equal([]string{"event-0", "event-1", "event-2"}, sink.ids)

	sink.fail = ""
	n, err = r.Drain(ctx, 10)
	require.Nil(err)
	require.Equal(2, n)
	require.Equal([]string{"event-0", "event-1", "event-2", "event-3", "event-4"}, sink.ids)

	// the checkpoint is persisted, a new relay continues from it
	r = NewRelay(bs)
	r.AddSink(sink)
	n, err = r.Drain(ctx, 10)
	require.Nil(err)
	require.Equal(0, n)

	err = bs.RunTransaction(func(txn nft.Txn) error {
		rec := nft.NewEventRecord("event-5", 0, nft.Identity{}, &nft.LockEvent{}, time.Unix(1700000100, 0))
		return txn.WriteEvent(rec)
	})
	require.Nil(err)
	n, err = r.Drain(ctx, 10)
	require.Nil(err)
	require.Equal(1, n)
	require.Equal("event-5", sink.ids[len(sink.ids)-1])
}

type chanSink chan string

func (s chanSink) Publish(ctx context.Context, ev *nft.EventRecord) error {
	s <- ev.Id
	return nil
}

func TestDrainStaleCheckpoint(t *testing.T) {
	require := require.New(t)

	bs, err := store.OpenBadgerMemory()
	require.Nil(err)
	defer bs.Close()
	writeEvents(t, bs, 1)

	r := NewRelay(bs)
	require.Nil(r.writeCheckpoint("event-9"))
	n, err := r.Drain(context.Background(), 10)
	require.NotNil(err)
	require.Equal(0, n)
}

func TestRunStops(t *testing.T) {
	require := require.New(t)

	bs, err := store.OpenBadgerMemory()
	require.Nil(err)
	defer bs.Close()
	writeEvents(t, bs, 3)

	sink := make(chanSink, 3)
	r := NewRelay(bs)
	r.AddSink(sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	for i := 0; i < 3; i++ {
		require.Equal(fmt.Sprintf("event-%d", i), <-sink)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("relay did not stop")
	}
}
