package notify

import (
	"context"
	"log"
	"time"
)

// Dispatcher queues messages and sends them from a single worker, the
// same shape as the audit dispatcher: enqueue never blocks, a full
// queue drops the message.
type Dispatcher struct {
	notifier Notifier
	queue    chan Message
}

func NewDispatcher(notifier Notifier) *Dispatcher {
	d := &Dispatcher{
		notifier: notifier,
		queue:    make(chan Message, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for m := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := d.notifier.Send(ctx, m); err != nil {
			log.Println("notify error:", err)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(m Message) {
	if m.To == "" {
		return
	}
	select {
	case d.queue <- m:
	default:
		log.Println("notify queue full, dropping message")
	}
}
