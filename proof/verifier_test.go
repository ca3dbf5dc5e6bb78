package proof

import (
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeIntrospector []*Instruction

func (fi fakeIntrospector) InstructionAt(index int) (*Instruction, error) {
	if index >= len(fi) {
		return nil, errors.New("missing instruction")
	}
	return fi[index], nil
}

func testSigner(seed byte) *Signer {
	s := make([]byte, ed25519.SeedSize)
	for i := range s {
		s[i] = seed
	}
	return NewSigner(ed25519.NewKeyFromSeed(s))
}

func testIdentity(b byte) PublicKey {
	var pub PublicKey
	for i := range pub {
		pub[i] = b
	}
	return pub
}

func ed25519Record(data []byte) fakeIntrospector {
	return fakeIntrospector{{Program: Ed25519ProgramID, Data: data}}
}

func TestVerify(t *testing.T) {
	require := require.New(t)

	signer := testSigner(7)
	recipient := testIdentity(1)
	sig, record := signer.Record(recipient, 3)

	err := Verify(sig, recipient, 3, signer.PublicKey(), ed25519Record(record))
	require.Nil(err)

	err = Verify(sig, recipient, 3, signer.PublicKey(), fakeIntrospector{})
	require.ErrorIs(err, ErrWrongVerifier)

	other := fakeIntrospector{{Program: testIdentity(9), Data: record}}
	err = Verify(sig, recipient, 3, signer.PublicKey(), other)
	require.ErrorIs(err, ErrWrongVerifier)

	err = Verify(sig, recipient, 3, signer.PublicKey(), ed25519Record(record[:20]))
	require.ErrorIs(err, ErrMalformed)
}

func TestVerifyMismatch(t *testing.T) {
	require := require.New(t)

	signer := testSigner(7)
	recipient := testIdentity(1)
	attacker := testIdentity(2)
	sig, record := signer.Record(recipient, 3)

	// a valid signature for another recipient or id never binds
	err := Verify(sig, attacker, 3, signer.PublicKey(), ed25519Record(record))
	require.ErrorIs(err, ErrMismatch)
	err = Verify(sig, recipient, 4, signer.PublicKey(), ed25519Record(record))
	require.ErrorIs(err, ErrMismatch)

	err = Verify(sig, recipient, 3, testSigner(8).PublicKey(), ed25519Record(record))
	require.ErrorIs(err, ErrMismatch)

	forged := sig
	forged[0] ^= 0xff
	err = Verify(forged, recipient, 3, signer.PublicKey(), ed25519Record(record))
	require.ErrorIs(err, ErrMismatch)

	// the record signed by an attacker key does not match the registered signer
	evil := testSigner(9)
	evilSig, evilRecord := evil.Record(attacker, 3)
	err = Verify(evilSig, attacker, 3, signer.PublicKey(), ed25519Record(evilRecord))
	require.ErrorIs(err, ErrMismatch)
}

func TestVerifyForeignInstructionData(t *testing.T) {
	require := require.New(t)

	signer := testSigner(7)
	recipient := testIdentity(1)
	sig, record := signer.Record(recipient, 3)
	binary.LittleEndian.PutUint16(record[14:16], 1)

	err := Verify(sig, recipient, 3, signer.PublicKey(), ed25519Record(record))
	require.ErrorIs(err, ErrMalformed)

	binary.LittleEndian.PutUint16(record[14:16], RecordPosition)
	err = Verify(sig, recipient, 3, signer.PublicKey(), ed25519Record(record))
	require.Nil(err)
}

func TestSignerFromString(t *testing.T) {
	require := require.New(t)

	signer := testSigner(5)
	restored, err := SignerFromString(signer.String())
	require.Nil(err)
	require.Equal(signer.PublicKey(), restored.PublicKey())

	digest := ClaimDigest(testIdentity(1), 9)
	sig := restored.Sign(testIdentity(1), 9)
	pub := signer.PublicKey()
	require.True(ed25519.Verify(ed25519.PublicKey(pub[:]), digest[:], sig[:]))

	_, err = SignerFromString("3mJr7AoUXx2Wqd")
	require.NotNil(err)
	_, err = SignerFromString("0OIl")
	require.NotNil(err)
}
