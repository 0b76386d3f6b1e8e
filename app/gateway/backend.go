package gateway

import (
	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// stripeBackend is the slice of the provider SDK the gateway drives. Keeping
// it narrow lets tests exercise the normalization layer with fakes instead
// of the network.
type stripeBackend interface {
	NewCharge(params *stripe.ChargeParams) (*stripe.Charge, error)
	GetCharge(id string, params *stripe.ChargeParams) (*stripe.Charge, error)
	CaptureCharge(id string, params *stripe.CaptureParams) (*stripe.Charge, error)
	NewRefund(params *stripe.RefundParams) (*stripe.Refund, error)
	NewToken(params *stripe.TokenParams) (*stripe.Token, error)
	NewCustomer(params *stripe.CustomerParams) (*stripe.Customer, error)
	GetCustomer(id string, params *stripe.CustomerParams) (*stripe.Customer, error)
	NewPlan(params *stripe.PlanParams) (*stripe.Plan, error)
	GetPlan(id string, params *stripe.PlanParams) (*stripe.Plan, error)
	NewSubscription(params *stripe.SubscriptionParams) (*stripe.Subscription, error)
	GetBalance(params *stripe.BalanceParams) (*stripe.Balance, error)
}

type apiBackend struct {
	api *client.API
}

func (b *apiBackend) NewCharge(params *stripe.ChargeParams) (*stripe.Charge, error) {
	return b.api.Charges.New(params)
}

func (b *apiBackend) GetCharge(id string, params *stripe.ChargeParams) (*stripe.Charge, error) {
	return b.api.Charges.Get(id, params)
}

func (b *apiBackend) CaptureCharge(id string, params *stripe.CaptureParams) (*stripe.Charge, error) {
	return b.api.Charges.Capture(id, params)
}

func (b *apiBackend) NewRefund(params *stripe.RefundParams) (*stripe.Refund, error) {
	return b.api.Refunds.New(params)
}

func (b *apiBackend) NewToken(params *stripe.TokenParams) (*stripe.Token, error) {
	return b.api.Tokens.New(params)
}

func (b *apiBackend) NewCustomer(params *stripe.CustomerParams) (*stripe.Customer, error) {
	return b.api.Customers.New(params)
}

func (b *apiBackend) GetCustomer(id string, params *stripe.CustomerParams) (*stripe.Customer, error) {
	return b.api.Customers.Get(id, params)
}

func (b *apiBackend) NewPlan(params *stripe.PlanParams) (*stripe.Plan, error) {
	return b.api.Plans.New(params)
}

func (b *apiBackend) GetPlan(id string, params *stripe.PlanParams) (*stripe.Plan, error) {
	return b.api.Plans.Get(id, params)
}

func (b *apiBackend) NewSubscription(params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	return b.api.Subscriptions.New(params)
}

func (b *apiBackend) GetBalance(params *stripe.BalanceParams) (*stripe.Balance, error) {
	return b.api.Balance.Get(params)
}
