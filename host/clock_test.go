package host

import (
	"testing"

	"github.com/MixinNetwork/tickets/store"
	"github.com/stretchr/testify/require"
)

func TestClock(t *testing.T) {
	require := require.New(t)

	bs, err := store.OpenBadgerMemory()
	require.Nil(err)
	defer bs.Close()

	clock, err := NewClock(bs)
	require.Nil(err)
	a := clock.Now()
	b := clock.Now()
	require.True(b.After(a))

	restarted, err := NewClock(bs)
	require.Nil(err)
	require.False(restarted.now.Before(b))
	require.True(restarted.Now().After(b))
}
