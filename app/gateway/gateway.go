package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"

	"github.com/vibast-solutions/lib-go-stripe/app/factory"
	"github.com/vibast-solutions/lib-go-stripe/app/types"
	"github.com/vibast-solutions/lib-go-stripe/config"
)

// ChargeRequest describes a charge creation. Amount is in major currency
// units; the minor-unit conversion happens here, at the provider boundary.
type ChargeRequest struct {
	Amount         decimal.Decimal
	Currency       string
	Capture        bool
	Description    string
	Card           types.CardDetails
	IdempotencyKey string
}

type CustomerRequest struct {
	TokenID     string
	Email       string
	Description string
}

// PlanRequest is filtered to the fields the provider accepts for plan
// creation; callers cannot smuggle unknown parameters onto the wire.
type PlanRequest struct {
	ID              string
	Amount          decimal.Decimal
	Currency        string
	Interval        types.BillingInterval
	IntervalCount   int64
	Name            string
	TrialPeriodDays int64
}

// Gateway payloads. Provider SDK types stay inside this package; successful
// Results carry these instead.
type Charge struct {
	ID       string
	Amount   int64
	Currency string
	Captured bool
	Refunds  []Refund
}

type Refund struct {
	ID     string
	Amount int64
}

type Token struct {
	ID string
}

type Customer struct {
	ID    string
	Email string
}

type Plan struct {
	ID string
}

type Subscription struct {
	ID         string
	CustomerID string
	PlanID     string
}

// ToMinorUnits converts a major-unit amount into the provider's integer
// minor-unit representation, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ToMajorUnits is the inverse conversion for amounts reported by the
// provider.
func ToMajorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(100))
}

// Client is a stateless wrapper over the provider API. The credential is
// fixed at construction; there is no per-call key switching, no internal
// retry, and no caching.
type Client struct {
	backend stripeBackend
	log     *logrus.Entry
}

func NewClient(cfg config.StripeConfig) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
	})

	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})

	return newClientWithBackend(&apiBackend{api: api})
}

func newClientWithBackend(backend stripeBackend) *Client {
	return &Client{
		backend: backend,
		log:     factory.NewModuleLogger("stripe-gateway"),
	}
}

// CreateCharge creates a charge, authorized only (capture=false) or captured
// immediately.
func (c *Client) CreateCharge(ctx context.Context, req ChargeRequest) Result {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(ToMinorUnits(req.Amount)),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Capture:     stripe.Bool(req.Capture),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(req.IdempotencyKey)
	}
	if err := params.SetSource(cardParams(req.Card)); err != nil {
		return Failure(err.Error(), types.ResponseCodeInvalidRequest, types.ReasonCodeInvalid)
	}

	charge, err := c.backend.NewCharge(params)
	if err != nil {
		return c.failure("create charge", err)
	}
	return Success(chargeFromStripe(charge))
}

// CaptureCharge retrieves a previously authorized charge and captures it.
func (c *Client) CaptureCharge(ctx context.Context, chargeID string) Result {
	getParams := &stripe.ChargeParams{}
	getParams.Context = ctx
	charge, err := c.backend.GetCharge(chargeID, getParams)
	if err != nil {
		return c.failure("retrieve charge", err)
	}

	captureParams := &stripe.CaptureParams{}
	captureParams.Context = ctx
	captured, err := c.backend.CaptureCharge(charge.ID, captureParams)
	if err != nil {
		return c.failure("capture charge", err)
	}
	return Success(chargeFromStripe(captured))
}

// RefundCharge refunds part or all of a charge. The application fee is never
// refunded. On success the refreshed charge is returned so callers can read
// the refund list.
func (c *Client) RefundCharge(ctx context.Context, chargeID string, amount decimal.Decimal) Result {
	getParams := &stripe.ChargeParams{}
	getParams.Context = ctx
	charge, err := c.backend.GetCharge(chargeID, getParams)
	if err != nil {
		return c.failure("retrieve charge", err)
	}

	refundParams := &stripe.RefundParams{
		Charge:               stripe.String(charge.ID),
		Amount:               stripe.Int64(ToMinorUnits(amount)),
		RefundApplicationFee: stripe.Bool(false),
	}
	refundParams.Context = ctx
	if _, err := c.backend.NewRefund(refundParams); err != nil {
		return c.failure("refund charge", err)
	}

	refreshed, err := c.backend.GetCharge(charge.ID, getParams)
	if err != nil {
		return c.failure("retrieve refunded charge", err)
	}
	return Success(chargeFromStripe(refreshed))
}

// CreateCardToken creates a reusable token for the card so retried recurring
// setups never resubmit raw card data.
func (c *Client) CreateCardToken(ctx context.Context, card types.CardDetails) Result {
	params := &stripe.TokenParams{Card: cardParams(card)}
	params.Context = ctx

	token, err := c.backend.NewToken(params)
	if err != nil {
		return c.failure("create token", err)
	}
	return Success(Token{ID: token.ID})
}

func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) Result {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	if req.Email != "" {
		params.Email = stripe.String(req.Email)
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.TokenID != "" {
		if err := params.SetSource(req.TokenID); err != nil {
			return Failure(err.Error(), types.ResponseCodeInvalidRequest, types.ReasonCodeInvalid)
		}
	}

	customer, err := c.backend.NewCustomer(params)
	if err != nil {
		return c.failure("create customer", err)
	}
	return Success(customerFromStripe(customer))
}

func (c *Client) GetCustomer(ctx context.Context, customerID string) Result {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	customer, err := c.backend.GetCustomer(customerID, params)
	if err != nil {
		return c.failure("retrieve customer", err)
	}
	return Success(customerFromStripe(customer))
}

// CreatePlan creates a subscription plan. The interval must have a provider
// mapping; unsupported intervals fail before any network call.
func (c *Client) CreatePlan(ctx context.Context, req PlanRequest) Result {
	interval, ok := req.Interval.ProviderInterval()
	if !ok {
		message := fmt.Sprintf("billing interval %q has no provider mapping", req.Interval)
		return Failure(message, types.ResponseCodeInvalidRequest, types.ReasonCodeInvalid)
	}

	intervalCount := req.IntervalCount
	if intervalCount <= 0 {
		intervalCount = 1
	}
	name := req.Name
	if name == "" {
		name = req.ID
	}

	params := &stripe.PlanParams{
		ID:            stripe.String(req.ID),
		Amount:        stripe.Int64(ToMinorUnits(req.Amount)),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		Interval:      stripe.String(interval),
		IntervalCount: stripe.Int64(intervalCount),
		Nickname:      stripe.String(name),
		Product:       &stripe.PlanProductParams{Name: stripe.String(name)},
	}
	params.Context = ctx
	if req.TrialPeriodDays > 0 {
		params.TrialPeriodDays = stripe.Int64(req.TrialPeriodDays)
	}

	plan, err := c.backend.NewPlan(params)
	if err != nil {
		return c.failure("create plan", err)
	}
	return Success(Plan{ID: plan.ID})
}

func (c *Client) GetPlan(ctx context.Context, planID string) Result {
	params := &stripe.PlanParams{}
	params.Context = ctx

	plan, err := c.backend.GetPlan(planID, params)
	if err != nil {
		return c.failure("retrieve plan", err)
	}
	return Success(Plan{ID: plan.ID})
}

func (c *Client) CreateSubscription(ctx context.Context, customerID, planID string) Result {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Plan: stripe.String(planID)},
		},
	}
	params.Context = ctx

	subscription, err := c.backend.NewSubscription(params)
	if err != nil {
		return c.failure("create subscription", err)
	}

	result := Subscription{ID: subscription.ID, PlanID: planID}
	if subscription.Customer != nil {
		result.CustomerID = subscription.Customer.ID
	}
	return Success(result)
}

// CheckCredentials issues a harmless read-only balance call. Callers only
// need a health check here, so the outcome is a plain boolean rather than a
// classified Result.
func (c *Client) CheckCredentials(ctx context.Context) bool {
	params := &stripe.BalanceParams{}
	params.Context = ctx

	if _, err := c.backend.GetBalance(params); err != nil {
		c.log.WithError(err).Warn("credential check failed")
		return false
	}
	return true
}

func (c *Client) failure(operation string, err error) Result {
	result := NormalizeError(err)
	c.log.WithFields(logrus.Fields{
		"operation":     operation,
		"response_code": result.ResponseCode(),
		"reason_code":   result.ReasonCode(),
	}).Warn("provider call failed")
	return result
}

func cardParams(card types.CardDetails) *stripe.CardParams {
	params := &stripe.CardParams{
		Name:     stripe.String(card.Name),
		Number:   stripe.String(card.Number),
		ExpMonth: stripe.String(card.ExpMonth),
		ExpYear:  stripe.String(card.ExpYear),
		CVC:      stripe.String(card.CVC),
	}

	if card.AddressLine1 != "" {
		params.AddressLine1 = stripe.String(card.AddressLine1)
	}
	if card.AddressLine2 != "" {
		params.AddressLine2 = stripe.String(card.AddressLine2)
	}
	if card.AddressCity != "" {
		params.AddressCity = stripe.String(card.AddressCity)
	}
	if card.AddressState != "" {
		params.AddressState = stripe.String(card.AddressState)
	}
	if card.AddressCountry != "" {
		params.AddressCountry = stripe.String(card.AddressCountry)
	}
	if card.AddressZip != "" {
		params.AddressZip = stripe.String(card.AddressZip)
	}

	return params
}

func chargeFromStripe(charge *stripe.Charge) Charge {
	result := Charge{
		ID:       charge.ID,
		Amount:   charge.Amount,
		Currency: string(charge.Currency),
		Captured: charge.Captured,
	}
	if charge.Refunds != nil {
		for _, refund := range charge.Refunds.Data {
			if refund == nil {
				continue
			}
			result.Refunds = append(result.Refunds, Refund{ID: refund.ID, Amount: refund.Amount})
		}
	}
	return result
}

func customerFromStripe(customer *stripe.Customer) Customer {
	return Customer{ID: customer.ID, Email: customer.Email}
}
