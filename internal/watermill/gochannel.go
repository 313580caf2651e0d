package watermillutil

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// GoChannelBus is an in-process publisher and subscriber backed by watermill's
// gochannel pub/sub.
type GoChannelBus struct {
	pubsub *gochannel.GoChannel
}

// NewGoChannelBus creates an in-process event bus. Messages published before a
// topic has subscribers are dropped.
func NewGoChannelBus(logger *slog.Logger) *GoChannelBus {
	return &GoChannelBus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, watermill.NewSlogLogger(logger)),
	}
}

// Publish publishes messages to the specified topic.
func (b *GoChannelBus) Publish(topic string, messages ...*message.Message) error {
	return b.pubsub.Publish(topic, messages...)
}

func (b *GoChannelBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

func (b *GoChannelBus) Close() error {
	if err := b.pubsub.Close(); err != nil {
		return fmt.Errorf("failed to close pubsub: %w", err)
	}
	return nil
}

// NopPublisher discards every message. Used by commands that run without a router.
type NopPublisher struct{}

func (NopPublisher) Publish(string, ...*message.Message) error { return nil }
func (NopPublisher) Close() error                             { return nil }

var (
	_ message.Publisher  = (*GoChannelBus)(nil)
	_ message.Subscriber = (*GoChannelBus)(nil)
	_ message.Publisher  = NopPublisher{}
)
