package pubsub

import "context"

// Pack is one message published to a topic.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher which drops every message. It is used when no
// broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, *Pack) error {
	return nil
}
