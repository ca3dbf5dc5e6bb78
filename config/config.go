package config

import (
	"fmt"
	"os"

	"github.com/MixinNetwork/tickets/nft"
	"github.com/MixinNetwork/tickets/proof"
	"github.com/pelletier/go-toml"
)

type Configuration struct {
	Collection CollectionConfiguration `toml:"collection"`
	Signer     SignerConfiguration     `toml:"signer"`
	Messenger  MessengerConfiguration  `toml:"messenger"`
	LogLevel   int                     `toml:"log-level"`
}

type CollectionConfiguration struct {
	Address   string `toml:"address"`
	Authority string `toml:"authority"`
	BaseURI   string `toml:"base-uri"`
}

// SignerConfiguration holds the proof issuing key, keep it apart from the
// collection authority.
type SignerConfiguration struct {
	PrivateKey string `toml:"private-key"`
}

type MessengerConfiguration struct {
	ClientId       string `toml:"client-id"`
	SessionId      string `toml:"session-id"`
	PrivateKey     string `toml:"private-key"`
	PinToken       string `toml:"pin-token"`
	ConversationId string `toml:"conversation-id"`
}

func Setup(path string) (*Configuration, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(f)
}

func Parse(data []byte) (*Configuration, error) {
	var conf Configuration
	err := toml.Unmarshal(data, &conf)
	if err != nil {
		return nil, err
	}
	if conf.LogLevel == 0 {
		conf.LogLevel = 2
	}
	if len(conf.Collection.BaseURI) > nft.MaxBaseURILength {
		return nil, fmt.Errorf("base uri too long %d", len(conf.Collection.BaseURI))
	}
	return &conf, nil
}

func (c *SignerConfiguration) Signer() (*proof.Signer, error) {
	if c.PrivateKey == "" {
		return nil, fmt.Errorf("signer private key not configured")
	}
	return proof.SignerFromString(c.PrivateKey)
}

func (c *MessengerConfiguration) Enabled() bool {
	return c.ClientId != "" && c.ConversationId != ""
}
