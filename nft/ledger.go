package nft

import (
	"fmt"
	"time"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/tickets/proof"
	"github.com/fox-one/mixin-sdk-go"
)

var ProgramID = MustIdentity("6mfzKkngeptJoiVH7oYdSPSxnNpt3dBs94CMNkfw5oyG")

// Invocation is what the host exposes to a single ledger instruction.
type Invocation struct {
	Txn          Txn
	Signers      []Identity
	Instructions proof.Introspector
	Timestamp    time.Time

	// Unit and Index identify the instruction in its execution unit, the
	// emitted event id is derived from them.
	Unit  string
	Index int
}

func (inv *Invocation) IsSigner(id Identity) bool {
	for _, s := range inv.Signers {
		if s == id {
			return true
		}
	}
	return false
}

func (inv *Invocation) emit(collection Identity, ev Event) error {
	id := mixin.UniqueConversationID(inv.Unit, fmt.Sprintf("EVENT:%d", inv.Index))
	rec := NewEventRecord(id, inv.Index, collection, ev, inv.Timestamp)
	logger.Verbosef("Ledger.emit(%s) => %s\n", id, rec)
	return inv.Txn.WriteEvent(rec)
}

type VerifyFunc func(sig proof.Signature, recipient proof.PublicKey, id uint32, signer proof.PublicKey, in proof.Introspector) error

type Ledger struct {
	verify VerifyFunc
}

func NewLedger() *Ledger {
	return &Ledger{verify: proof.Verify}
}

// NewLedgerWithVerifier replaces the proof binding check, only tests should
// need this.
func NewLedgerWithVerifier(verify VerifyFunc) *Ledger {
	return &Ledger{verify: verify}
}

func (l *Ledger) Initialize(inv *Invocation, addr, authority, signer Identity, baseURI string) error {
	if !inv.IsSigner(authority) {
		return ErrUnauthorized
	}
	c, err := NewCollection(addr, authority, signer, baseURI)
	if err != nil {
		return err
	}
	err = inv.Txn.CreateCollection(c)
	if err != nil {
		return err
	}
	logger.Printf("NFT Collection %s initialized with authority: %s\n", addr, authority)
	return nil
}

func (l *Ledger) Claim(inv *Invocation, addr Identity, sig proof.Signature, id uint32, recipient Identity) error {
	c, err := readCollection(inv.Txn, addr)
	if err != nil {
		return err
	}
	err = c.AssertUnlocked()
	if err != nil {
		return err
	}
	if id >= MaxSupply {
		return fmt.Errorf("%w: %d", ErrNftIdOutOfRange, id)
	}

	old, err := inv.Txn.ReadTicket(addr, id)
	if err != nil {
		return err
	} else if old != nil {
		return fmt.Errorf("%w: ticket %d is live", ErrConflict, id)
	}

	err = l.verify(sig, proof.PublicKey(recipient), id, proof.PublicKey(c.Signer), inv.Instructions)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}

	t := NewTicket(id, recipient, addr)
	err = inv.Txn.CreateTicket(t)
	if err != nil {
		return err
	}
	err = c.IncrementSupply()
	if err != nil {
		return err
	}
	err = inv.Txn.WriteCollection(c)
	if err != nil {
		return err
	}
	return inv.emit(addr, &ClaimEvent{
		NftId:     id,
		Recipient: recipient,
		Timestamp: inv.Timestamp.Unix(),
	})
}

func (l *Ledger) Transfer(inv *Invocation, addr Identity, id uint32, from, to, operator Identity) error {
	c, err := l.readOperatorCollection(inv, addr, operator)
	if err != nil {
		return err
	}
	t, err := readTicket(inv.Txn, addr, id)
	if err != nil {
		return err
	}
	if t.Owner != from {
		return fmt.Errorf("%w: %s", ErrInvalidOwner, from)
	}
	old := t.SetOwner(to)
	err = inv.Txn.WriteTicket(t)
	if err != nil {
		return err
	}
	return inv.emit(c.Address, &TransferEvent{
		NftId:    id,
		From:     old,
		To:       to,
		Operator: operator,
	})
}

func (l *Ledger) Burn(inv *Invocation, addr Identity, id uint32, operator Identity) error {
	c, err := l.readOperatorCollection(inv, addr, operator)
	if err != nil {
		return err
	}
	t, err := readTicket(inv.Txn, addr, id)
	if err != nil {
		return err
	}
	err = c.DecrementSupply()
	if err != nil {
		return err
	}
	err = inv.Txn.DeleteTicket(t)
	if err != nil {
		return err
	}
	err = inv.Txn.WriteCollection(c)
	if err != nil {
		return err
	}
	return inv.emit(addr, &BurnEvent{
		NftId:    id,
		Operator: operator,
	})
}

func (l *Ledger) UpdateSigner(inv *Invocation, addr, signer, operator Identity) error {
	c, err := l.readOperatorCollection(inv, addr, operator)
	if err != nil {
		return err
	}
	old := c.setSigner(signer)
	err = inv.Txn.WriteCollection(c)
	if err != nil {
		return err
	}
	return inv.emit(addr, &SignerUpdatedEvent{
		OldSigner: old,
		NewSigner: signer,
		Operator:  operator,
	})
}

func (l *Ledger) UpdateBaseURI(inv *Invocation, addr Identity, uri string, operator Identity) error {
	c, err := l.readOperatorCollection(inv, addr, operator)
	if err != nil {
		return err
	}
	old, err := c.setBaseURI(uri)
	if err != nil {
		return err
	}
	err = inv.Txn.WriteCollection(c)
	if err != nil {
		return err
	}
	return inv.emit(addr, &BaseUriUpdatedEvent{
		OldBaseURI: old,
		NewBaseURI: uri,
		Operator:   operator,
	})
}

// Lock is not gated by the lock itself, locking a locked collection again
// only emits another event.
func (l *Ledger) Lock(inv *Invocation, addr, operator Identity) error {
	c, err := readCollection(inv.Txn, addr)
	if err != nil {
		return err
	}
	err = assertOperator(inv, c, operator)
	if err != nil {
		return err
	}
	c.lock()
	err = inv.Txn.WriteCollection(c)
	if err != nil {
		return err
	}
	return inv.emit(addr, &LockEvent{
		Operator:  operator,
		Timestamp: inv.Timestamp.Unix(),
	})
}

func (l *Ledger) readOperatorCollection(inv *Invocation, addr, operator Identity) (*Collection, error) {
	c, err := readCollection(inv.Txn, addr)
	if err != nil {
		return nil, err
	}
	err = c.AssertUnlocked()
	if err != nil {
		return nil, err
	}
	return c, assertOperator(inv, c, operator)
}

func assertOperator(inv *Invocation, c *Collection, operator Identity) error {
	if !inv.IsSigner(operator) {
		return ErrUnauthorized
	}
	return c.AssertAuthority(operator)
}

func readCollection(txn Txn, addr Identity) (*Collection, error) {
	c, err := txn.ReadCollection(addr)
	if err != nil {
		return nil, err
	} else if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, addr)
	}
	return c, nil
}

func readTicket(txn Txn, addr Identity, id uint32) (*Ticket, error) {
	t, err := txn.ReadTicket(addr, id)
	if err != nil {
		return nil, err
	} else if t == nil {
		return nil, fmt.Errorf("%w: %d", ErrTicketNotFound, id)
	}
	return t, nil
}
