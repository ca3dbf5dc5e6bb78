package relay

import (
	"context"
	"time"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/tickets/nft"
)

const eventsRelayCheckpointKey = "RELAY:EVENTS:CHECKPOINT"

type Store interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)
	ListEvents(checkpoint string, limit int) ([]*nft.EventRecord, error)
}

// Sink receives every event exactly in queue order, a failed publish is
// retried from the same event on the next drain.
type Sink interface {
	Publish(ctx context.Context, ev *nft.EventRecord) error
}

type Relay struct {
	store Store
	sinks []Sink
}

func NewRelay(store Store) *Relay {
	return &Relay{store: store}
}

func (r *Relay) AddSink(s Sink) {
	r.sinks = append(r.sinks, s)
}

func (r *Relay) Run(ctx context.Context) {
	for {
		n, err := r.Drain(ctx, 100)
		if err != nil {
			logger.Printf("Relay.Drain() => %d %v\n", n, err)
		}
		if n > 0 && err == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(3 * time.Second):
		}
	}
}

// Drain publishes at most batch events and returns how many were relayed.
func (r *Relay) Drain(ctx context.Context, batch int) (int, error) {
	checkpoint, err := r.readCheckpoint()
	if err != nil {
		return 0, err
	}
	events, err := r.store.ListEvents(checkpoint, batch)
	if err != nil {
		return 0, err
	}

	var relayed int
	for _, ev := range events {
		for _, s := range r.sinks {
			err = s.Publish(ctx, ev)
			if err != nil {
				return relayed, err
			}
		}
		err = r.writeCheckpoint(ev.Id)
		if err != nil {
			return relayed, err
		}
		relayed++
	}
	return relayed, nil
}

func (r *Relay) readCheckpoint() (string, error) {
	val, err := r.store.ReadProperty([]byte(eventsRelayCheckpointKey))
	return string(val), err
}

func (r *Relay) writeCheckpoint(id string) error {
	return r.store.WriteProperty([]byte(eventsRelayCheckpointKey), []byte(id))
}

type LoggerSink struct{}

func (LoggerSink) Publish(ctx context.Context, ev *nft.EventRecord) error {
	logger.Printf("%s %s %s\n", ev.CreatedAt.Format(time.RFC3339Nano), ev.Collection, ev)
	return nil
}
