package host

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/tickets/nft"
	"github.com/MixinNetwork/tickets/proof"
	"github.com/gofrs/uuid"
)

var ErrUnknownProgram = errors.New("unknown program")

type Timer interface {
	Now() time.Time
}

type Runtime struct {
	store  nft.Store
	ledger *nft.Ledger
	clock  Timer
}

func NewRuntime(store nft.Store, ledger *nft.Ledger, clock Timer) *Runtime {
	return &Runtime{
		store:  store,
		ledger: ledger,
		clock:  clock,
	}
}

// Execute runs the unit, the native signature checks first and then all
// ledger instructions in a single store transaction. Any failure discards
// every write of the unit.
func (r *Runtime) Execute(ctx context.Context, u *Unit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if u.Id == "" {
		u.Id = uuid.Must(uuid.NewV4()).String()
	}
	if len(u.Instructions) == 0 {
		return fmt.Errorf("unit %s without instructions", u.Id)
	}
	for i, ix := range u.Instructions {
		if ix.Program != proof.Ed25519ProgramID {
			continue
		}
		err := verifyEd25519Instruction(u, i)
		if err != nil {
			return fmt.Errorf("unit %s instruction %d: %w", u.Id, i, err)
		}
	}

	now := r.clock.Now()
	err := r.store.RunTransaction(func(txn nft.Txn) error {
		for i, ix := range u.Instructions {
			if ix.Program == proof.Ed25519ProgramID {
				continue
			}
			if nft.Identity(ix.Program) != nft.ProgramID {
				return fmt.Errorf("instruction %d: %w %s", i, ErrUnknownProgram, nft.Identity(ix.Program))
			}
			call, err := DecodeCall(ix.Data)
			if err != nil {
				return fmt.Errorf("instruction %d: %w", i, err)
			}
			inv := &nft.Invocation{
				Txn:          txn,
				Signers:      u.Signers,
				Instructions: u,
				Timestamp:    now,
				Unit:         u.Id,
				Index:        i,
			}
			err = r.dispatch(inv, call)
			if err != nil {
				return fmt.Errorf("instruction %d %s: %w", i, call.Method, err)
			}
		}
		return nil
	})
	logger.Verbosef("Runtime.Execute(%s, %d) => %v\n", u.Id, len(u.Instructions), err)
	return err
}

func (r *Runtime) dispatch(inv *nft.Invocation, c *Call) error {
	switch c.Method {
	case MethodInitialize:
		return r.ledger.Initialize(inv, c.Collection, c.Authority, c.Signer, c.BaseURI)
	case MethodClaim:
		return r.ledger.Claim(inv, c.Collection, c.Proof, c.NftId, c.Recipient)
	case MethodTransfer:
		return r.ledger.Transfer(inv, c.Collection, c.NftId, c.From, c.To, c.Authority)
	case MethodBurn:
		return r.ledger.Burn(inv, c.Collection, c.NftId, c.Authority)
	case MethodUpdateSigner:
		return r.ledger.UpdateSigner(inv, c.Collection, c.Signer, c.Authority)
	case MethodUpdateBaseURI:
		return r.ledger.UpdateBaseURI(inv, c.Collection, c.BaseURI, c.Authority)
	case MethodLock:
		return r.ledger.Lock(inv, c.Collection, c.Authority)
	}
	panic(c.Method)
}
