package main

import (
	"context"
	"encoding/base64"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/tickets/config"
	"github.com/MixinNetwork/tickets/nft"
	"github.com/fox-one/mixin-sdk-go"
)

// MessengerSink posts every relayed event as a plain text message to the
// configured conversation, so operators can follow the collection in Mixin
// Messenger.
type MessengerSink struct {
	client         *mixin.Client
	conversationId string
}

func NewMessengerSink(conf *config.MessengerConfiguration) (*MessengerSink, error) {
	s := &mixin.Keystore{
		ClientID:   conf.ClientId,
		SessionID:  conf.SessionId,
		PrivateKey: conf.PrivateKey,
		PinToken:   conf.PinToken,
	}
	client, err := mixin.NewFromKeystore(s)
	if err != nil {
		return nil, err
	}
	return &MessengerSink{
		client:         client,
		conversationId: conf.ConversationId,
	}, nil
}

func (ms *MessengerSink) Publish(ctx context.Context, ev *nft.EventRecord) error {
	text := ev.String()
	mr := &mixin.MessageRequest{
		ConversationID: ms.conversationId,
		Category:       mixin.MessageCategoryPlainText,
		MessageID:      mixin.UniqueConversationID(ev.Id, ms.conversationId),
		Data:           base64.RawURLEncoding.EncodeToString([]byte(text)),
	}
	err := ms.client.SendMessage(ctx, mr)
	logger.Verbosef("MessengerSink.Publish(%s, %s) => %v\n", ev.Id, text, err)
	return err
}
