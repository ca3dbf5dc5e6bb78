package host

import (
	"encoding/binary"
	"sync"
	"time"
)

const clockStorePropertyKey = "HOST:CLOCK:MONOTONIC"

type PropertyStore interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)
}

// Clock never goes backwards, not even across restarts, so event timestamps
// and queue keys keep their order.
type Clock struct {
	sync.Mutex
	store PropertyStore
	now   time.Time
}

func NewClock(store PropertyStore) (*Clock, error) {
	bs, err := store.ReadProperty([]byte(clockStorePropertyKey))
	if err != nil {
		return nil, err
	}
	ts := time.Now()
	if len(bs) == 8 {
		last := time.Unix(0, int64(binary.BigEndian.Uint64(bs)))
		if last.After(ts) {
			ts = last
		}
	}
	clock := new(Clock)
	clock.store = store
	clock.now = ts
	return clock, nil
}

func (c *Clock) Now() time.Time {
	c.Lock()
	defer c.Unlock()

	for {
		now := time.Now()
		if now.After(c.now) {
			c.now = now
			break
		}
		time.Sleep(time.Millisecond)
	}

	val := binary.BigEndian.AppendUint64(nil, uint64(c.now.UnixNano()))
	for {
		err := c.store.WriteProperty([]byte(clockStorePropertyKey), val)
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	return c.now
}
