// Package notify delivers outbound messages to the operator and to
// clients. Delivery is best effort everywhere: a failed send is logged
// and forgotten, it never fails the request that triggered it.
package notify

import "context"

type Message struct {
	To      string
	Subject string
	Text    string
}

type Notifier interface {
	Send(ctx context.Context, m Message) error
}

// Noop swallows messages when no channel is configured.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) Send(context.Context, Message) error {
	return nil
}
