package nft

import "errors"

var (
	ErrInvalidProof    = errors.New("invalid proof signature")
	ErrNftIdOutOfRange = errors.New("nft id out of range (must be 0-9999)")
	ErrUnauthorized    = errors.New("unauthorized: only operator can perform this action")
	ErrContractLocked  = errors.New("contract is locked")
	ErrInvalidOwner    = errors.New("invalid owner")
	ErrSupplyInvariant = errors.New("total supply invariant violated")

	ErrConflict           = errors.New("account already in use")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrBaseURITooLong     = errors.New("base uri too long")
)
