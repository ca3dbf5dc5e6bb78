package nft

const (
	MaxSupply = 10000

	ticketSeed = "nft"
)

type Ticket struct {
	Id         uint32
	Owner      Identity
	Collection Identity
}

func NewTicket(id uint32, owner, collection Identity) *Ticket {
	return &Ticket{
		Id:         id,
		Owner:      owner,
		Collection: collection,
	}
}

func (t *Ticket) SetOwner(owner Identity) Identity {
	old := t.Owner
	t.Owner = owner
	return old
}

func (t *Ticket) Address() Identity {
	return TicketAddress(t.Collection, t.Id)
}
