package notify

import (
	"context"
	"log"
)

// Console logs messages instead of sending them; the dev default.
type Console struct{}

func NewConsole() *Console {
	return &Console{}
}

func (*Console) Send(_ context.Context, m Message) error {
	log.Printf("[notify] to=%s :: %s :: %s", m.To, m.Subject, m.Text)
	return nil
}
