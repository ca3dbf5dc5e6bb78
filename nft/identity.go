package nft

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
)

// Identity is a 32 bytes ed25519 public key, also used as an account address.
type Identity [32]byte

func IdentityFromString(s string) (Identity, error) {
	var id Identity
	b, err := base58.Decode(s)
	if err != nil {
		return id, err
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("invalid identity length %d", len(b))
	}
	copy(id[:], b)
	return id, nil
}

func MustIdentity(s string) Identity {
	id, err := IdentityFromString(s)
	if err != nil {
		panic(s)
	}
	return id
}

func (id Identity) String() string {
	return base58.Encode(id[:])
}

func (id Identity) HasValue() bool {
	return id != Identity{}
}

// DeriveAddress hashes the seeds with the owning program, so that records
// are always located by their content and never by a caller supplied address.
func DeriveAddress(program Identity, seeds ...[]byte) Identity {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write(program[:])
	h.Write([]byte("ProgramDerivedAddress"))
	var id Identity
	copy(id[:], h.Sum(nil))
	return id
}

func TicketAddress(collection Identity, id uint32) Identity {
	return DeriveAddress(ProgramID, []byte(ticketSeed), collection[:], encodeTicketId(id))
}

func encodeTicketId(id uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, id)
}
