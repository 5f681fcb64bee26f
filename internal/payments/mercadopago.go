package payments

import (
	"context"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type MercadoPago struct {
	preferences preference.Client
	payments    payment.Client
}

var _ Provider = (*MercadoPago)(nil)

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}
	return &MercadoPago{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
	}, nil
}

func (p *MercadoPago) CreateLink(ctx context.Context, in LinkInput) (*Link, error) {
	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:      in.Title,
				Quantity:   1,
				UnitPrice:  in.Amount,
				CurrencyID: in.Currency,
			},
		},
		ExternalReference: in.Reference,
		NotificationURL:   in.NotifyURL,
	}

	res, err := p.preferences.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Link{URL: res.InitPoint, Preference: res.ID}, nil
}

func (p *MercadoPago) GetPayment(ctx context.Context, id string) (*Payment, error) {
	numID, err := strconv.Atoi(id)
	if err != nil {
		return nil, err
	}

	res, err := p.payments.Get(ctx, numID)
	if err != nil {
		return nil, err
	}

	return &Payment{
		Status:            res.Status,
		ExternalReference: res.ExternalReference,
	}, nil
}
