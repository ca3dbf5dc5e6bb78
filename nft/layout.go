package nft

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Accounts are allocated up front with a fixed size, the trailing bytes are
// reserved and always zero.
const (
	discriminatorSize = 8

	CollectionSize = discriminatorSize + 32 + 32 + 1 + 4 + (4 + MaxBaseURILength) + 100
	TicketSize     = discriminatorSize + 4 + 32 + 32 + 50
)

var (
	collectionDiscriminator = accountDiscriminator("Collection")
	ticketDiscriminator     = accountDiscriminator("Ticket")
)

func accountDiscriminator(name string) []byte {
	sum := sha256.Sum256([]byte("account:" + name))
	return sum[:discriminatorSize]
}

func (c *Collection) MarshalBinary() ([]byte, error) {
	if len(c.BaseURI) > MaxBaseURILength {
		return nil, fmt.Errorf("%w: %d", ErrBaseURITooLong, len(c.BaseURI))
	}
	buf := make([]byte, 0, CollectionSize)
	buf = append(buf, collectionDiscriminator...)
	buf = append(buf, c.Authority[:]...)
	buf = append(buf, c.Signer[:]...)
	buf = append(buf, byte(c.state))
	buf = binary.LittleEndian.AppendUint32(buf, c.TotalSupply)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(c.BaseURI)))
	buf = append(buf, c.BaseURI...)
	return buf[:CollectionSize], nil
}

// UnmarshalBinary leaves Address untouched, the address is the storage key
// and not part of the account data.
func (c *Collection) UnmarshalBinary(data []byte) error {
	if len(data) != CollectionSize {
		return fmt.Errorf("invalid collection account size %d", len(data))
	}
	if !bytes.Equal(data[:discriminatorSize], collectionDiscriminator) {
		return fmt.Errorf("invalid collection account discriminator %x", data[:discriminatorSize])
	}
	data = data[discriminatorSize:]
	copy(c.Authority[:], data[0:32])
	copy(c.Signer[:], data[32:64])
	switch lockState(data[64]) {
	case stateUnlocked, stateLocked:
		c.state = lockState(data[64])
	default:
		return fmt.Errorf("invalid collection lock state %d", data[64])
	}
	c.TotalSupply = binary.LittleEndian.Uint32(data[65:69])
	size := binary.LittleEndian.Uint32(data[69:73])
	if size > MaxBaseURILength {
		return fmt.Errorf("%w: %d", ErrBaseURITooLong, size)
	}
	c.BaseURI = string(data[73 : 73+size])
	return nil
}

func (t *Ticket) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, TicketSize)
	buf = append(buf, ticketDiscriminator...)
	buf = binary.LittleEndian.AppendUint32(buf, t.Id)
	buf = append(buf, t.Owner[:]...)
	buf = append(buf, t.Collection[:]...)
	return buf[:TicketSize], nil
}

func (t *Ticket) UnmarshalBinary(data []byte) error {
	if len(data) != TicketSize {
		return fmt.Errorf("invalid ticket account size %d", len(data))
	}
	if !bytes.Equal(data[:discriminatorSize], ticketDiscriminator) {
		return fmt.Errorf("invalid ticket account discriminator %x", data[:discriminatorSize])
	}
	data = data[discriminatorSize:]
	t.Id = binary.LittleEndian.Uint32(data[0:4])
	copy(t.Owner[:], data[4:36])
	copy(t.Collection[:], data[36:68])
	return nil
}
