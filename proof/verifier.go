package proof

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// RecordPosition is where the sibling verification instruction must sit
// in the execution unit.
const RecordPosition = 0

var (
	ErrWrongVerifier = errors.New("verification record not produced by the ed25519 program")
	ErrMalformed     = errors.New("malformed verification record")
	ErrMismatch      = errors.New("verification record does not match the claim")
)

var Ed25519ProgramID = mustProgramID("Ed25519SigVerify111111111111111111111111111")

type Instruction struct {
	Program [32]byte
	Data    []byte
}

// Introspector exposes the instructions of the running execution unit. The
// native ed25519 program has already checked every signature of the unit
// before any instruction is introspected.
type Introspector interface {
	InstructionAt(index int) (*Instruction, error)
}

// Verify binds an already verified signature to the claim parameters. The
// digest is always recomputed from recipient and id, so a valid signature of
// another recipient or id never matches.
func Verify(sig Signature, recipient PublicKey, id uint32, signer PublicKey, in Introspector) error {
	ix, err := in.InstructionAt(RecordPosition)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrongVerifier, err)
	}
	if ix.Program != Ed25519ProgramID {
		return ErrWrongVerifier
	}
	att, err := ParseRecord(ix.Data)
	if err != nil {
		return err
	}
	for _, i := range []uint16{att.SignatureInstruction, att.PublicKeyInstruction, att.MessageInstruction} {
		if i != CurrentInstruction && i != RecordPosition {
			return fmt.Errorf("%w: data in instruction %d", ErrMalformed, i)
		}
	}

	digest := ClaimDigest(recipient, id)
	if att.Signature != sig {
		return fmt.Errorf("%w: signature", ErrMismatch)
	}
	if att.PublicKey != signer {
		return fmt.Errorf("%w: public key", ErrMismatch)
	}
	if !bytes.Equal(att.Message, digest[:]) {
		return fmt.Errorf("%w: message", ErrMismatch)
	}
	return nil
}

func mustProgramID(s string) [32]byte {
	var id [32]byte
	b, err := base58.Decode(s)
	if err != nil || len(b) != len(id) {
		panic(s)
	}
	copy(id[:], b)
	return id
}
