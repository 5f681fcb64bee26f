// Package payments creates hosted checkout links for bookings and
// reads payment results back during webhook handling.
package payments

import (
	"context"
	"errors"
)

var ErrDisabled = errors.New("payments: no access token configured")

// Link is a hosted checkout created for one booking.
type Link struct {
	URL        string
	Preference string
}

// Payment is the slice of gateway state the webhook needs.
type Payment struct {
	Status            string
	ExternalReference string
}

type Provider interface {
	CreateLink(ctx context.Context, in LinkInput) (*Link, error)
	GetPayment(ctx context.Context, id string) (*Payment, error)
}

type LinkInput struct {
	Title     string
	Amount    float64
	Currency  string
	Reference string
	NotifyURL string
}

// Disabled stands in when MP_ACCESS_TOKEN is absent.
type Disabled struct{}

var _ Provider = Disabled{}

func (Disabled) CreateLink(context.Context, LinkInput) (*Link, error) {
	return nil, ErrDisabled
}

func (Disabled) GetPayment(context.Context, string) (*Payment, error) {
	return nil, ErrDisabled
}
