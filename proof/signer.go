package proof

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// Signer issues claim proofs, it holds the private key whose public key is
// registered as the collection signer.
type Signer struct {
	key ed25519.PrivateKey
}

func NewSigner(key ed25519.PrivateKey) *Signer {
	return &Signer{key: key}
}

// SignerFromString accepts a base58 encoded 64 bytes secret key, or a 32
// bytes seed.
func SignerFromString(s string) (*Signer, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}
	switch len(b) {
	case ed25519.PrivateKeySize:
		key := ed25519.PrivateKey(b)
		seeded := ed25519.NewKeyFromSeed(key.Seed())
		if !seeded.Equal(key) {
			return nil, fmt.Errorf("inconsistent secret key")
		}
		return NewSigner(key), nil
	case ed25519.SeedSize:
		return NewSigner(ed25519.NewKeyFromSeed(b)), nil
	}
	return nil, fmt.Errorf("invalid secret key length %d", len(b))
}

func (s *Signer) PublicKey() PublicKey {
	var pub PublicKey
	copy(pub[:], s.key.Public().(ed25519.PublicKey))
	return pub
}

func (s *Signer) String() string {
	return base58.Encode(s.key)
}

func (s *Signer) Sign(recipient PublicKey, id uint32) Signature {
	digest := ClaimDigest(recipient, id)
	var sig Signature
	copy(sig[:], ed25519.Sign(s.key, digest[:]))
	return sig
}

// Record signs the claim and returns the proof together with the sibling
// verification record expected at the head of the execution unit.
func (s *Signer) Record(recipient PublicKey, id uint32) (Signature, []byte) {
	sig := s.Sign(recipient, id)
	digest := ClaimDigest(recipient, id)
	return sig, EncodeRecord(sig, s.PublicKey(), digest[:])
}
