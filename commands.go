package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/MixinNetwork/tickets/host"
	"github.com/MixinNetwork/tickets/nft"
	"github.com/MixinNetwork/tickets/proof"
	"github.com/MixinNetwork/tickets/relay"
	"github.com/mr-tron/base58"
	"github.com/spf13/pflag"
)

type command struct {
	usage   string
	offline bool
	run     func(ctx context.Context, app *App, args []string) error
}

var commands = map[string]*command{
	"keygen":          {usage: "generate an ed25519 key pair", offline: true, run: runKeygen},
	"initialize":      {usage: "create the ticket collection", run: runInitialize},
	"proof":           {usage: "sign a claim proof with the configured signer", run: runProof},
	"claim":           {usage: "claim a ticket with a proof", run: runClaim},
	"transfer":        {usage: "move a ticket to a new owner (operator only)", run: runTransfer},
	"burn":            {usage: "destroy a ticket (operator only)", run: runBurn},
	"update-signer":   {usage: "rotate the proof signer (operator only)", run: runUpdateSigner},
	"update-base-uri": {usage: "change the metadata base uri (operator only)", run: runUpdateBaseURI},
	"lock":            {usage: "lock the collection permanently (operator only)", run: runLock},
	"inspect":         {usage: "show the collection and its tickets", run: runInspect},
	"relay":           {usage: "relay collection events to the log and messenger", run: runRelay},
}

func commandNames() []string {
	var names []string
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func runKeygen(ctx context.Context, _ *App, args []string) error {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}
	fmt.Printf("public: %s\nsecret: %s\n", base58.Encode(pub), base58.Encode(priv))
	return nil
}

func runInitialize(ctx context.Context, app *App, args []string) error {
	fs := pflag.NewFlagSet("initialize", pflag.ContinueOnError)
	collection := fs.String("collection", app.conf.Collection.Address, "collection address, a fresh one is generated if empty")
	authority := fs.String("authority", app.conf.Collection.Authority, "operator identity")
	signer := fs.String("signer", "", "proof signer public key, defaults to the configured signer")
	uri := fs.String("base-uri", app.conf.Collection.BaseURI, "metadata base uri")
	err := fs.Parse(args)
	if err != nil {
		return err
	}

	if *collection == "" {
		pub, _, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return err
		}
		*collection = base58.Encode(pub)
	}
	if *signer == "" {
		s, err := app.conf.Signer.Signer()
		if err != nil {
			return err
		}
		*signer = nft.Identity(s.PublicKey()).String()
	}
	ids, err := parseIdentities(*collection, *authority, *signer)
	if err != nil {
		return err
	}

	u := host.NewUnit(ids[1]).Add(host.Initialize(ids[0], ids[1], ids[2], *uri))
	err = app.runtime.Execute(ctx, u)
	if err != nil {
		return err
	}
	fmt.Printf("collection: %s\nauthority: %s\nsigner: %s\nbase uri: %s\n", ids[0], ids[1], ids[2], *uri)
	return nil
}

func runProof(ctx context.Context, app *App, args []string) error {
	fs := pflag.NewFlagSet("proof", pflag.ContinueOnError)
	recipient := fs.String("recipient", "", "recipient identity")
	id := fs.Uint32("id", 0, "ticket id")
	err := fs.Parse(args)
	if err != nil {
		return err
	}
	r, err := nft.IdentityFromString(*recipient)
	if err != nil {
		return fmt.Errorf("recipient %s: %w", *recipient, err)
	}
	if *id >= nft.MaxSupply {
		return fmt.Errorf("%w: %d", nft.ErrNftIdOutOfRange, *id)
	}
	signer, err := app.conf.Signer.Signer()
	if err != nil {
		return err
	}
	sig, record := signer.Record(proof.PublicKey(r), *id)
	fmt.Printf("signer: %s\nproof: %s\nrecord: %s\n", nft.Identity(signer.PublicKey()), hex.EncodeToString(sig[:]), hex.EncodeToString(record))
	return nil
}

func runClaim(ctx context.Context, app *App, args []string) error {
	fs := pflag.NewFlagSet("claim", pflag.ContinueOnError)
	collection := fs.String("collection", app.conf.Collection.Address, "collection address")
	recipient := fs.String("recipient", "", "recipient identity")
	payer := fs.String("payer", "", "payer identity, defaults to the recipient")
	id := fs.Uint32("id", 0, "ticket id")
	hexProof := fs.String("proof", "", "hex encoded proof, signed with the configured signer if empty")
	err := fs.Parse(args)
	if err != nil {
		return err
	}
	if *payer == "" {
		*payer = *recipient
	}
	ids, err := parseIdentities(*collection, *recipient, *payer)
	if err != nil {
		return err
	}
	c, err := app.readCollection(ids[0])
	if err != nil {
		return err
	}

	var sig proof.Signature
	if *hexProof == "" {
		signer, err := app.conf.Signer.Signer()
		if err != nil {
			return err
		}
		sig = signer.Sign(proof.PublicKey(ids[1]), *id)
	} else {
		b, err := hex.DecodeString(*hexProof)
		if err != nil || len(b) != proof.SignatureSize {
			return fmt.Errorf("invalid proof %s", *hexProof)
		}
		copy(sig[:], b)
	}

	u := host.ClaimUnit(ids[2], ids[0], sig, proof.PublicKey(c.Signer), *id, ids[1])
	err = app.runtime.Execute(ctx, u)
	if err != nil {
		return err
	}
	fmt.Printf("NFT #%d claimed by %s in unit %s\n", *id, ids[1], u.Id)
	return nil
}

func runTransfer(ctx context.Context, app *App, args []string) error {
	fs := pflag.NewFlagSet("transfer", pflag.ContinueOnError)
	collection, authority := app.operatorFlags(fs)
	id := fs.Uint32("id", 0, "ticket id")
	from := fs.String("from", "", "current owner")
	to := fs.String("to", "", "new owner")
	err := fs.Parse(args)
	if err != nil {
		return err
	}
	ids, err := parseIdentities(*collection, *authority, *from, *to)
	if err != nil {
		return err
	}
	u := host.NewUnit(ids[1]).Add(host.Transfer(ids[0], *id, ids[2], ids[3], ids[1]))
	return app.runtime.Execute(ctx, u)
}

func runBurn(ctx context.Context, app *App, args []string) error {
	fs := pflag.NewFlagSet("burn", pflag.ContinueOnError)
	collection, authority := app.operatorFlags(fs)
	id := fs.Uint32("id", 0, "ticket id")
	err := fs.Parse(args)
	if err != nil {
		return err
	}
	ids, err := parseIdentities(*collection, *authority)
	if err != nil {
		return err
	}
	u := host.NewUnit(ids[1]).Add(host.Burn(ids[0], *id, ids[1]))
	return app.runtime.Execute(ctx, u)
}

func runUpdateSigner(ctx context.Context, app *App, args []string) error {
	fs := pflag.NewFlagSet("update-signer", pflag.ContinueOnError)
	collection, authority := app.operatorFlags(fs)
	signer := fs.String("signer", "", "new proof signer public key")
	err := fs.Parse(args)
	if err != nil {
		return err
	}
	ids, err := parseIdentities(*collection, *authority, *signer)
	if err != nil {
		return err
	}
	u := host.NewUnit(ids[1]).Add(host.UpdateSigner(ids[0], ids[2], ids[1]))
	return app.runtime.Execute(ctx, u)
}

func runUpdateBaseURI(ctx context.Context, app *App, args []string) error {
	fs := pflag.NewFlagSet("update-base-uri", pflag.ContinueOnError)
	collection, authority := app.operatorFlags(fs)
	uri := fs.String("base-uri", "", "new metadata base uri")
	err := fs.Parse(args)
	if err != nil {
		return err
	}
	ids, err := parseIdentities(*collection, *authority)
	if err != nil {
		return err
	}
	u := host.NewUnit(ids[1]).Add(host.UpdateBaseURI(ids[0], *uri, ids[1]))
	return app.runtime.Execute(ctx, u)
}

func runLock(ctx context.Context, app *App, args []string) error {
	fs := pflag.NewFlagSet("lock", pflag.ContinueOnError)
	collection, authority := app.operatorFlags(fs)
	err := fs.Parse(args)
	if err != nil {
		return err
	}
	ids, err := parseIdentities(*collection, *authority)
	if err != nil {
		return err
	}
	u := host.NewUnit(ids[1]).Add(host.Lock(ids[0], ids[1]))
	return app.runtime.Execute(ctx, u)
}

func runInspect(ctx context.Context, app *App, args []string) error {
	fs := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
	collection := fs.String("collection", app.conf.Collection.Address, "collection address")
	id := fs.Int64("id", -1, "show a single ticket")
	offset := fs.Uint32("offset", 0, "first ticket id to list")
	limit := fs.Int("limit", 100, "maximum tickets to list")
	err := fs.Parse(args)
	if err != nil {
		return err
	}
	ids, err := parseIdentities(*collection)
	if err != nil {
		return err
	}
	c, err := app.readCollection(ids[0])
	if err != nil {
		return err
	}
	fmt.Printf("collection: %s\nauthority: %s\nsigner: %s\nlocked: %t\ntotal supply: %d\nbase uri: %s\n",
		c.Address, c.Authority, c.Signer, c.Locked(), c.TotalSupply, c.BaseURI)

	var tickets []*nft.Ticket
	if *id >= 0 {
		t, err := app.store.ReadTicket(ids[0], uint32(*id))
		if err != nil {
			return err
		} else if t == nil {
			return fmt.Errorf("%w: %d", nft.ErrTicketNotFound, *id)
		}
		tickets = append(tickets, t)
	} else {
		tickets, err = app.store.ListTickets(ids[0], *offset, *limit)
		if err != nil {
			return err
		}
	}
	for _, t := range tickets {
		fmt.Printf("NFT #%d owner %s account %s\n", t.Id, t.Owner, t.Address())
	}
	return nil
}

func runRelay(ctx context.Context, app *App, args []string) error {
	r := relay.NewRelay(app.store)
	r.AddSink(relay.LoggerSink{})
	if app.conf.Messenger.Enabled() {
		ms, err := NewMessengerSink(&app.conf.Messenger)
		if err != nil {
			return err
		}
		r.AddSink(ms)
	}
	r.Run(ctx)
	return nil
}

func (app *App) operatorFlags(fs *pflag.FlagSet) (*string, *string) {
	collection := fs.String("collection", app.conf.Collection.Address, "collection address")
	authority := fs.String("authority", app.conf.Collection.Authority, "operator identity")
	return collection, authority
}

func (app *App) readCollection(addr nft.Identity) (*nft.Collection, error) {
	c, err := app.store.ReadCollection(addr)
	if err != nil {
		return nil, err
	} else if c == nil {
		return nil, fmt.Errorf("%w: %s", nft.ErrCollectionNotFound, addr)
	}
	return c, nil
}

func parseIdentities(ss ...string) ([]nft.Identity, error) {
	ids := make([]nft.Identity, len(ss))
	for i, s := range ss {
		id, err := nft.IdentityFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid identity %q: %w", s, err)
		}
		ids[i] = id
	}
	return ids, nil
}
