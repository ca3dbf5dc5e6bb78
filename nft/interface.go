package nft

type Store interface {
	RunTransaction(fn func(Txn) error) error

	ReadCollection(addr Identity) (*Collection, error)
	ReadTicket(collection Identity, id uint32) (*Ticket, error)
	ListTickets(collection Identity, offset uint32, limit int) ([]*Ticket, error)
}

// Txn is a single atomic unit, all writes commit together or not at all.
// Read methods return nil, nil for absent records.
type Txn interface {
	ReadCollection(addr Identity) (*Collection, error)
	CreateCollection(c *Collection) error
	WriteCollection(c *Collection) error

	ReadTicket(collection Identity, id uint32) (*Ticket, error)
	CreateTicket(t *Ticket) error
	WriteTicket(t *Ticket) error
	DeleteTicket(t *Ticket) error

	WriteEvent(rec *EventRecord) error
}
