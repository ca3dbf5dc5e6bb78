package nft

import (
	"fmt"
	"math"
)

const MaxBaseURILength = 200

// lockState only ever moves from unlocked to locked, there is no method
// which brings a locked collection back.
type lockState uint8

const (
	stateUnlocked lockState = iota
	stateLocked
)

type Collection struct {
	Address     Identity
	Authority   Identity
	Signer      Identity
	TotalSupply uint32
	BaseURI     string

	state lockState
}

func NewCollection(addr, authority, signer Identity, baseURI string) (*Collection, error) {
	if len(baseURI) > MaxBaseURILength {
		return nil, fmt.Errorf("%w: %d", ErrBaseURITooLong, len(baseURI))
	}
	return &Collection{
		Address:   addr,
		Authority: authority,
		Signer:    signer,
		BaseURI:   baseURI,
		state:     stateUnlocked,
	}, nil
}

func (c *Collection) Locked() bool {
	return c.state == stateLocked
}

func (c *Collection) AssertUnlocked() error {
	if c.Locked() {
		return ErrContractLocked
	}
	return nil
}

func (c *Collection) AssertAuthority(caller Identity) error {
	if caller != c.Authority {
		return ErrUnauthorized
	}
	return nil
}

func (c *Collection) IncrementSupply() error {
	if c.TotalSupply == math.MaxUint32 {
		return fmt.Errorf("%w: overflow", ErrSupplyInvariant)
	}
	c.TotalSupply += 1
	return nil
}

func (c *Collection) DecrementSupply() error {
	if c.TotalSupply == 0 {
		return fmt.Errorf("%w: underflow", ErrSupplyInvariant)
	}
	c.TotalSupply -= 1
	return nil
}

func (c *Collection) setSigner(signer Identity) Identity {
	old := c.Signer
	c.Signer = signer
	return old
}

func (c *Collection) setBaseURI(uri string) (string, error) {
	if len(uri) > MaxBaseURILength {
		return "", fmt.Errorf("%w: %d", ErrBaseURITooLong, len(uri))
	}
	old := c.BaseURI
	c.BaseURI = uri
	return old, nil
}

func (c *Collection) lock() {
	c.state = stateLocked
}
