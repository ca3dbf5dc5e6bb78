package proof

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
)

const (
	SignatureSize = 64
	PublicKeySize = 32
	DigestSize    = 32
	MessageSize   = PublicKeySize + 4

	// RecordHeaderSize covers the signature count, one padding byte and
	// seven little endian uint16 offsets of a single signature record.
	RecordHeaderSize = 16

	// CurrentInstruction is the owning instruction index meaning the record
	// carries its own signature, public key and message.
	CurrentInstruction = math.MaxUint16
)

type Signature [SignatureSize]byte

type PublicKey [PublicKeySize]byte

type Attestation struct {
	Signature Signature
	PublicKey PublicKey
	Message   []byte

	SignatureInstruction uint16
	PublicKeyInstruction uint16
	MessageInstruction   uint16
}

// BuildMessage is the recipient public key followed by the little endian id,
// both fields have fixed width so no separator is needed.
func BuildMessage(recipient PublicKey, id uint32) []byte {
	msg := make([]byte, 0, MessageSize)
	msg = append(msg, recipient[:]...)
	return binary.LittleEndian.AppendUint32(msg, id)
}

func Digest(msg []byte) [DigestSize]byte {
	return sha256.Sum256(msg)
}

func ClaimDigest(recipient PublicKey, id uint32) [DigestSize]byte {
	return Digest(BuildMessage(recipient, id))
}

func ParseRecord(data []byte) (*Attestation, error) {
	if len(data) < RecordHeaderSize {
		return nil, fmt.Errorf("%w: record size %d", ErrMalformed, len(data))
	}
	if data[0] != 1 {
		return nil, fmt.Errorf("%w: signatures count %d", ErrMalformed, data[0])
	}
	sigOffset := int(binary.LittleEndian.Uint16(data[2:4]))
	sigIndex := binary.LittleEndian.Uint16(data[4:6])
	pubOffset := int(binary.LittleEndian.Uint16(data[6:8]))
	pubIndex := binary.LittleEndian.Uint16(data[8:10])
	msgOffset := int(binary.LittleEndian.Uint16(data[10:12]))
	msgSize := int(binary.LittleEndian.Uint16(data[12:14]))
	msgIndex := binary.LittleEndian.Uint16(data[14:16])

	if sigOffset+SignatureSize > len(data) {
		return nil, fmt.Errorf("%w: signature offset %d", ErrMalformed, sigOffset)
	}
	if pubOffset+PublicKeySize > len(data) {
		return nil, fmt.Errorf("%w: public key offset %d", ErrMalformed, pubOffset)
	}
	if msgOffset+msgSize > len(data) {
		return nil, fmt.Errorf("%w: message offset %d size %d", ErrMalformed, msgOffset, msgSize)
	}
	if msgSize != DigestSize {
		return nil, fmt.Errorf("%w: message size %d", ErrMalformed, msgSize)
	}

	att := &Attestation{
		Message:              make([]byte, msgSize),
		SignatureInstruction: sigIndex,
		PublicKeyInstruction: pubIndex,
		MessageInstruction:   msgIndex,
	}
	copy(att.Signature[:], data[sigOffset:sigOffset+SignatureSize])
	copy(att.PublicKey[:], data[pubOffset:pubOffset+PublicKeySize])
	copy(att.Message, data[msgOffset:msgOffset+msgSize])
	return att, nil
}

// EncodeRecord lays out a single signature record the way clients build the
// sibling verification instruction, all data inline after the header.
func EncodeRecord(sig Signature, pub PublicKey, msg []byte) []byte {
	if len(msg) > math.MaxUint16-RecordHeaderSize-SignatureSize-PublicKeySize {
		panic(len(msg))
	}
	sigOffset := RecordHeaderSize
	pubOffset := sigOffset + SignatureSize
	msgOffset := pubOffset + PublicKeySize

	data := make([]byte, 0, msgOffset+len(msg))
	data = append(data, 1, 0)
	data = binary.LittleEndian.AppendUint16(data, uint16(sigOffset))
	data = binary.LittleEndian.AppendUint16(data, CurrentInstruction)
	data = binary.LittleEndian.AppendUint16(data, uint16(pubOffset))
	data = binary.LittleEndian.AppendUint16(data, CurrentInstruction)
	data = binary.LittleEndian.AppendUint16(data, uint16(msgOffset))
	data = binary.LittleEndian.AppendUint16(data, uint16(len(msg)))
	data = binary.LittleEndian.AppendUint16(data, CurrentInstruction)
	data = append(data, sig[:]...)
	data = append(data, pub[:]...)
	return append(data, msg...)
}
