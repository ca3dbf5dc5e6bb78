package host

import (
	"fmt"

	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/tickets/nft"
	"github.com/MixinNetwork/tickets/proof"
)

const (
	MethodInitialize    = "initialize"
	MethodClaim         = "claim"
	MethodTransfer      = "transfer"
	MethodBurn          = "burn"
	MethodUpdateSigner  = "update_signer"
	MethodUpdateBaseURI = "update_base_uri"
	MethodLock          = "lock_contract"
)

// Call is the msgpack payload of a ledger program instruction.
type Call struct {
	Method     string
	Collection nft.Identity
	Authority  nft.Identity
	Signer     nft.Identity
	BaseURI    string `msgpack:",omitempty"`
	Proof      proof.Signature
	NftId      uint32 `msgpack:",omitempty"`
	Recipient  nft.Identity
	From       nft.Identity
	To         nft.Identity
}

func (c *Call) Instruction() *proof.Instruction {
	return &proof.Instruction{
		Program: nft.ProgramID,
		Data:    common.MsgpackMarshalPanic(c),
	}
}

func DecodeCall(data []byte) (*Call, error) {
	var c Call
	err := common.MsgpackUnmarshal(data, &c)
	if err != nil {
		return nil, err
	}
	switch c.Method {
	case MethodInitialize, MethodClaim, MethodTransfer, MethodBurn,
		MethodUpdateSigner, MethodUpdateBaseURI, MethodLock:
		return &c, nil
	}
	return nil, fmt.Errorf("unknown method %s", c.Method)
}

func Initialize(collection, authority, signer nft.Identity, baseURI string) *proof.Instruction {
	c := &Call{Method: MethodInitialize, Collection: collection, Authority: authority, Signer: signer, BaseURI: baseURI}
	return c.Instruction()
}

func Claim(collection nft.Identity, sig proof.Signature, id uint32, recipient nft.Identity) *proof.Instruction {
	c := &Call{Method: MethodClaim, Collection: collection, Proof: sig, NftId: id, Recipient: recipient}
	return c.Instruction()
}

func Transfer(collection nft.Identity, id uint32, from, to, authority nft.Identity) *proof.Instruction {
	c := &Call{Method: MethodTransfer, Collection: collection, NftId: id, From: from, To: to, Authority: authority}
	return c.Instruction()
}

func Burn(collection nft.Identity, id uint32, authority nft.Identity) *proof.Instruction {
	c := &Call{Method: MethodBurn, Collection: collection, NftId: id, Authority: authority}
	return c.Instruction()
}

func UpdateSigner(collection, signer, authority nft.Identity) *proof.Instruction {
	c := &Call{Method: MethodUpdateSigner, Collection: collection, Signer: signer, Authority: authority}
	return c.Instruction()
}

func UpdateBaseURI(collection nft.Identity, uri string, authority nft.Identity) *proof.Instruction {
	c := &Call{Method: MethodUpdateBaseURI, Collection: collection, BaseURI: uri, Authority: authority}
	return c.Instruction()
}

func Lock(collection, authority nft.Identity) *proof.Instruction {
	c := &Call{Method: MethodLock, Collection: collection, Authority: authority}
	return c.Instruction()
}

// ClaimUnit is the claim with its sibling verification record in front.
func ClaimUnit(payer, collection nft.Identity, sig proof.Signature, signer proof.PublicKey, id uint32, recipient nft.Identity) *Unit {
	digest := proof.ClaimDigest(proof.PublicKey(recipient), id)
	return NewUnit(payer).Add(
		NewEd25519Instruction(sig, signer, digest[:]),
		Claim(collection, sig, id, recipient),
	)
}
