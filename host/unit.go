package host

import (
	"fmt"

	"github.com/MixinNetwork/tickets/nft"
	"github.com/MixinNetwork/tickets/proof"
)

// Unit is an execution unit, its instructions run in order and commit
// together or not at all.
type Unit struct {
	Id           string
	Signers      []nft.Identity
	Instructions []*proof.Instruction
}

func NewUnit(signers ...nft.Identity) *Unit {
	return &Unit{Signers: signers}
}

func (u *Unit) Add(ix ...*proof.Instruction) *Unit {
	u.Instructions = append(u.Instructions, ix...)
	return u
}

func (u *Unit) InstructionAt(index int) (*proof.Instruction, error) {
	if index < 0 || index >= len(u.Instructions) {
		return nil, fmt.Errorf("instruction index %d out of %d", index, len(u.Instructions))
	}
	ix := u.Instructions[index]
	return &proof.Instruction{
		Program: ix.Program,
		Data:    append([]byte{}, ix.Data...),
	}, nil
}
