package host

import (
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/MixinNetwork/tickets/proof"
)

const ed25519OffsetsSize = 14

var ErrSignatureVerification = errors.New("ed25519 signature verification failed")

func NewEd25519Instruction(sig proof.Signature, pub proof.PublicKey, msg []byte) *proof.Instruction {
	return &proof.Instruction{
		Program: proof.Ed25519ProgramID,
		Data:    proof.EncodeRecord(sig, pub, msg),
	}
}

// verifyEd25519Instruction is the native verification program, it checks
// every signature declared by the instruction at index and may read the
// signature, key and message from any instruction of the unit.
func verifyEd25519Instruction(u *Unit, index int) error {
	data := u.Instructions[index].Data
	if len(data) < 2 {
		return fmt.Errorf("%w: instruction %d size %d", ErrSignatureVerification, index, len(data))
	}
	count := int(data[0])
	if count == 0 && len(data) > 2 {
		return fmt.Errorf("%w: instruction %d without signatures", ErrSignatureVerification, index)
	}
	if len(data) < 2+count*ed25519OffsetsSize {
		return fmt.Errorf("%w: instruction %d size %d", ErrSignatureVerification, index, len(data))
	}
	for i := 0; i < count; i++ {
		offsets := data[2+i*ed25519OffsetsSize:]
		sig, err := u.instructionSlice(index, offsets[0:4], proof.SignatureSize)
		if err != nil {
			return err
		}
		pub, err := u.instructionSlice(index, offsets[4:8], proof.PublicKeySize)
		if err != nil {
			return err
		}
		size := int(binary.LittleEndian.Uint16(offsets[10:12]))
		msg, err := u.instructionSlice(index, append(offsets[8:10:10], offsets[12:14]...), size)
		if err != nil {
			return err
		}
		if !ed25519.Verify(ed25519.PublicKey(pub), msg, sig) {
			return fmt.Errorf("%w: instruction %d signature %d", ErrSignatureVerification, index, i)
		}
	}
	return nil
}

// instructionSlice resolves a little endian offset and owning instruction
// index pair, the maximum uint16 index means the current instruction.
func (u *Unit) instructionSlice(current int, ref []byte, size int) ([]byte, error) {
	offset := int(binary.LittleEndian.Uint16(ref[0:2]))
	index := int(binary.LittleEndian.Uint16(ref[2:4]))
	if index == proof.CurrentInstruction {
		index = current
	}
	if index >= len(u.Instructions) {
		return nil, fmt.Errorf("%w: instruction index %d", ErrSignatureVerification, index)
	}
	data := u.Instructions[index].Data
	if offset+size > len(data) {
		return nil, fmt.Errorf("%w: offset %d size %d", ErrSignatureVerification, offset, size)
	}
	return data[offset : offset+size], nil
}
