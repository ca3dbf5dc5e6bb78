package config

import (
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/MixinNetwork/tickets/proof"
	"github.com/stretchr/testify/require"
)

const testConfig = `
log-level = 1

[collection]
address = "3mJr7AoUXx2Wqd9WrqkoFmVHePmb6dr2UqBbxPZzTJCd"
authority = "6mfzKkngeptJoiVH7oYdSPSxnNpt3dBs94CMNkfw5oyG"
base-uri = "https://ticketsnft.fight.foundation/"

[signer]
private-key = "US517G5965aydkZ46HS38QLi7UQiSojurfbQfKCELFx"

[messenger]
client-id = "d0ea2a6f-c1c4-4f5c-8d53-b9b5b3b5a0c2"
conversation-id = "7e3c0a3a-7b1c-4e2c-9e1a-0f8c7b1f2a55"
`

func TestParse(t *testing.T) {
	require := require.New(t)

	conf, err := Parse([]byte(testConfig))
	require.Nil(err)
	require.Equal(1, conf.LogLevel)
	require.Equal("https://ticketsnft.fight.foundation/", conf.Collection.BaseURI)
	require.Equal("6mfzKkngeptJoiVH7oYdSPSxnNpt3dBs94CMNkfw5oyG", conf.Collection.Authority)
	require.True(conf.Messenger.Enabled())

	signer, err := conf.Signer.Signer()
	require.Nil(err)
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = 7
	}
	require.Equal(proof.NewSigner(ed25519.NewKeyFromSeed(seed)).PublicKey(), signer.PublicKey())

	conf, err = Parse([]byte("[collection]\n"))
	require.Nil(err)
	require.Equal(2, conf.LogLevel)
	require.False(conf.Messenger.Enabled())
	_, err = conf.Signer.Signer()
	require.NotNil(err)

	long := "[collection]\nbase-uri = \"" + strings.Repeat("u", 201) + "\"\n"
	_, err = Parse([]byte(long))
	require.NotNil(err)

	_, err = Parse([]byte("log-level = ["))
	require.NotNil(err)
}
