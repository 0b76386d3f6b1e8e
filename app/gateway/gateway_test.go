package gateway

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v72"

	"github.com/vibast-solutions/lib-go-stripe/app/types"
)

type fakeBackend struct {
	chargeParams  *stripe.ChargeParams
	refundParams  *stripe.RefundParams
	tokenParams   *stripe.TokenParams
	planParams    *stripe.PlanParams
	getChargeIDs  []string
	newPlanCalls  int
	newTokenCalls int

	charge       *stripe.Charge
	chargeErr    error
	getCharge    *stripe.Charge
	getChargeErr error
	captured     *stripe.Charge
	capturedErr  error
	refund       *stripe.Refund
	refundErr    error
	token        *stripe.Token
	tokenErr     error
	customer     *stripe.Customer
	customerErr  error
	plan         *stripe.Plan
	planErr      error
	subscription *stripe.Subscription
	subErr       error
	balance      *stripe.Balance
	balanceErr   error
}

func (b *fakeBackend) NewCharge(params *stripe.ChargeParams) (*stripe.Charge, error) {
	b.chargeParams = params
	return b.charge, b.chargeErr
}

func (b *fakeBackend) GetCharge(id string, _ *stripe.ChargeParams) (*stripe.Charge, error) {
	b.getChargeIDs = append(b.getChargeIDs, id)
	return b.getCharge, b.getChargeErr
}

func (b *fakeBackend) CaptureCharge(_ string, _ *stripe.CaptureParams) (*stripe.Charge, error) {
	return b.captured, b.capturedErr
}

func (b *fakeBackend) NewRefund(params *stripe.RefundParams) (*stripe.Refund, error) {
	b.refundParams = params
	return b.refund, b.refundErr
}

func (b *fakeBackend) NewToken(params *stripe.TokenParams) (*stripe.Token, error) {
	b.newTokenCalls++
	b.tokenParams = params
	return b.token, b.tokenErr
}

func (b *fakeBackend) NewCustomer(_ *stripe.CustomerParams) (*stripe.Customer, error) {
	return b.customer, b.customerErr
}

func (b *fakeBackend) GetCustomer(_ string, _ *stripe.CustomerParams) (*stripe.Customer, error) {
	return b.customer, b.customerErr
}

func (b *fakeBackend) NewPlan(params *stripe.PlanParams) (*stripe.Plan, error) {
	b.newPlanCalls++
	b.planParams = params
	return b.plan, b.planErr
}

func (b *fakeBackend) GetPlan(_ string, _ *stripe.PlanParams) (*stripe.Plan, error) {
	return b.plan, b.planErr
}

func (b *fakeBackend) NewSubscription(_ *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	return b.subscription, b.subErr
}

func (b *fakeBackend) GetBalance(_ *stripe.BalanceParams) (*stripe.Balance, error) {
	return b.balance, b.balanceErr
}

func TestAmountConversionRoundTrip(t *testing.T) {
	for _, raw := range []string{"0", "0.01", "0.1", "1", "73.57", "19.99", "100", "12345.67"} {
		amount := decimal.RequireFromString(raw)
		minor := ToMinorUnits(amount)
		if again := ToMinorUnits(ToMajorUnits(minor)); again != minor {
			t.Fatalf("round trip broke for %s: %d != %d", raw, again, minor)
		}
	}

	if ToMinorUnits(decimal.RequireFromString("73.57")) != 7357 {
		t.Fatal("expected 73.57 to convert to 7357 minor units")
	}
	if !ToMajorUnits(7357).Equal(decimal.RequireFromString("73.57")) {
		t.Fatal("expected 7357 minor units to convert to 73.57")
	}
}

func TestCreateChargeBuildsMinorUnitRequest(t *testing.T) {
	backend := &fakeBackend{charge: &stripe.Charge{ID: "ch_1", Amount: 7357, Currency: "usd", Captured: true}}
	client := newClientWithBackend(backend)

	result := client.CreateCharge(context.Background(), ChargeRequest{
		Amount:         decimal.RequireFromString("73.57"),
		Currency:       "USD",
		Capture:        true,
		Description:    "order 42",
		IdempotencyKey: "key-1",
		Card: types.CardDetails{
			Name:     "Jane Cardholder",
			Number:   "4242424242424242",
			ExpMonth: "11",
			ExpYear:  "2030",
			CVC:      "123",
		},
	})

	if !result.IsSuccess() {
		t.Fatalf("expected success, got %s", result.ErrorMessage())
	}

	params := backend.chargeParams
	if *params.Amount != 7357 {
		t.Fatalf("expected minor-unit amount 7357, got %d", *params.Amount)
	}
	if *params.Currency != "usd" {
		t.Fatalf("expected lower-cased currency, got %q", *params.Currency)
	}
	if !*params.Capture {
		t.Fatal("expected capture flag")
	}
	if *params.Description != "order 42" {
		t.Fatalf("unexpected description: %q", *params.Description)
	}
	if params.IdempotencyKey == nil || *params.IdempotencyKey != "key-1" {
		t.Fatal("expected idempotency key on the request")
	}
	if params.Source == nil {
		t.Fatal("expected card source on the request")
	}

	charge := result.Payload().(Charge)
	if charge.ID != "ch_1" || charge.Amount != 7357 || !charge.Captured {
		t.Fatalf("unexpected charge payload: %+v", charge)
	}
}

func TestCreateChargeOmitsEmptyAddressFields(t *testing.T) {
	card := types.CardDetails{
		Name:     "Jane Cardholder",
		Number:   "4242424242424242",
		ExpMonth: "11",
		ExpYear:  "2030",
		CVC:      "123",
	}

	params := cardParams(card)
	if params.AddressLine1 != nil || params.AddressCity != nil || params.AddressCountry != nil {
		t.Fatal("expected address fields to be omitted when not collected")
	}

	card.AddressLine1 = "1 Main St"
	card.AddressCountry = "US"
	params = cardParams(card)
	if params.AddressLine1 == nil || *params.AddressLine1 != "1 Main St" {
		t.Fatal("expected address line to be sent when collected")
	}
	if params.AddressCountry == nil || *params.AddressCountry != "US" {
		t.Fatal("expected country to be sent when collected")
	}
}

func TestCreateChargeDecline(t *testing.T) {
	backend := &fakeBackend{chargeErr: &stripe.Error{
		Type: stripe.ErrorTypeCard,
		Code: stripe.ErrorCodeCardDeclined,
		Msg:  "Your card was declined.",
	}}
	client := newClientWithBackend(backend)

	result := client.CreateCharge(context.Background(), ChargeRequest{
		Amount:   decimal.RequireFromString("10.00"),
		Currency: "USD",
		Card:     types.CardDetails{Number: "4000000000000002"},
	})

	if result.IsSuccess() {
		t.Fatal("expected failure")
	}
	if result.ReasonCode() != types.ReasonCodeCardDeclined {
		t.Fatalf("unexpected reason code: %q", result.ReasonCode())
	}
	if result.ResponseCode() != string(stripe.ErrorTypeCard) {
		t.Fatalf("unexpected response code: %q", result.ResponseCode())
	}
}

func TestCaptureChargeMissingCharge(t *testing.T) {
	backend := &fakeBackend{getChargeErr: &stripe.Error{
		Type: stripe.ErrorTypeInvalidRequest,
		Msg:  "No such charge: ch_missing",
	}}
	client := newClientWithBackend(backend)

	result := client.CaptureCharge(context.Background(), "ch_missing")
	if result.IsSuccess() {
		t.Fatal("expected failure for missing charge")
	}
	if result.ReasonCode() != types.ReasonCodeInvalid {
		t.Fatalf("unexpected reason code: %q", result.ReasonCode())
	}
}

func TestCaptureChargeSuccess(t *testing.T) {
	backend := &fakeBackend{
		getCharge: &stripe.Charge{ID: "ch_1", Amount: 7357, Captured: false},
		captured:  &stripe.Charge{ID: "ch_1", Amount: 7357, Captured: true},
	}
	client := newClientWithBackend(backend)

	result := client.CaptureCharge(context.Background(), "ch_1")
	if !result.IsSuccess() {
		t.Fatalf("expected success, got %s", result.ErrorMessage())
	}
	if !result.Payload().(Charge).Captured {
		t.Fatal("expected captured charge payload")
	}
}

func TestRefundChargeBuildsRequestAndReturnsRefreshedCharge(t *testing.T) {
	refreshed := &stripe.Charge{
		ID:     "ch_1",
		Amount: 7357,
		Refunds: &stripe.RefundList{Data: []*stripe.Refund{
			{ID: "re_1", Amount: 1000},
			{ID: "re_2", Amount: 2357},
		}},
	}
	backend := &fakeBackend{
		getCharge: refreshed,
		refund:    &stripe.Refund{ID: "re_2", Amount: 2357},
	}
	client := newClientWithBackend(backend)

	result := client.RefundCharge(context.Background(), "ch_1", decimal.RequireFromString("23.57"))
	if !result.IsSuccess() {
		t.Fatalf("expected success, got %s", result.ErrorMessage())
	}

	params := backend.refundParams
	if *params.Amount != 2357 {
		t.Fatalf("expected minor-unit refund amount 2357, got %d", *params.Amount)
	}
	if *params.RefundApplicationFee {
		t.Fatal("application fee must never be refunded")
	}
	if *params.Charge != "ch_1" {
		t.Fatalf("unexpected charge id: %q", *params.Charge)
	}

	charge := result.Payload().(Charge)
	if len(charge.Refunds) != 2 || charge.Refunds[1].ID != "re_2" {
		t.Fatalf("expected refund list on payload, got %+v", charge.Refunds)
	}
}

func TestCreatePlanUnsupportedIntervalFailsBeforeNetwork(t *testing.T) {
	backend := &fakeBackend{}
	client := newClientWithBackend(backend)

	result := client.CreatePlan(context.Background(), PlanRequest{
		ID:       "plan_1",
		Amount:   decimal.RequireFromString("9.99"),
		Currency: "USD",
		Interval: types.BillingInterval("daily"),
	})

	if result.IsSuccess() {
		t.Fatal("expected failure for unsupported interval")
	}
	if backend.newPlanCalls != 0 {
		t.Fatal("unsupported interval must not reach the provider")
	}
}

func TestCreatePlanMapsIntervalAndFiltersFields(t *testing.T) {
	backend := &fakeBackend{plan: &stripe.Plan{ID: "plan_1"}}
	client := newClientWithBackend(backend)

	result := client.CreatePlan(context.Background(), PlanRequest{
		ID:              "plan_1",
		Amount:          decimal.RequireFromString("9.99"),
		Currency:        "USD",
		Interval:        types.BillingIntervalMonthly,
		IntervalCount:   1,
		Name:            "Gold",
		TrialPeriodDays: 14,
	})

	if !result.IsSuccess() {
		t.Fatalf("expected success, got %s", result.ErrorMessage())
	}

	params := backend.planParams
	if *params.Interval != "month" {
		t.Fatalf("expected provider interval month, got %q", *params.Interval)
	}
	if *params.Amount != 999 {
		t.Fatalf("expected minor-unit amount 999, got %d", *params.Amount)
	}
	if *params.TrialPeriodDays != 14 {
		t.Fatalf("unexpected trial period: %d", *params.TrialPeriodDays)
	}
	if *params.Nickname != "Gold" {
		t.Fatalf("unexpected nickname: %q", *params.Nickname)
	}
}

func TestCreateCardToken(t *testing.T) {
	backend := &fakeBackend{token: &stripe.Token{ID: "tok_1"}}
	client := newClientWithBackend(backend)

	result := client.CreateCardToken(context.Background(), types.CardDetails{Number: "4242424242424242"})
	if !result.IsSuccess() {
		t.Fatalf("expected success, got %s", result.ErrorMessage())
	}
	if result.Payload().(Token).ID != "tok_1" {
		t.Fatal("expected token id payload")
	}
	if backend.tokenParams.Card == nil {
		t.Fatal("expected card params on token request")
	}
}

func TestCreateSubscription(t *testing.T) {
	backend := &fakeBackend{subscription: &stripe.Subscription{
		ID:       "sub_1",
		Customer: &stripe.Customer{ID: "cus_1"},
	}}
	client := newClientWithBackend(backend)

	result := client.CreateSubscription(context.Background(), "cus_1", "plan_1")
	if !result.IsSuccess() {
		t.Fatalf("expected success, got %s", result.ErrorMessage())
	}
	subscription := result.Payload().(Subscription)
	if subscription.ID != "sub_1" || subscription.CustomerID != "cus_1" || subscription.PlanID != "plan_1" {
		t.Fatalf("unexpected subscription payload: %+v", subscription)
	}
}

func TestCheckCredentials(t *testing.T) {
	client := newClientWithBackend(&fakeBackend{balance: &stripe.Balance{}})
	if !client.CheckCredentials(context.Background()) {
		t.Fatal("expected credentials to check out")
	}

	client = newClientWithBackend(&fakeBackend{balanceErr: &stripe.Error{
		Type:           stripe.ErrorTypeInvalidRequest,
		Msg:            "Invalid API Key provided",
		HTTPStatusCode: 401,
	}})
	if client.CheckCredentials(context.Background()) {
		t.Fatal("expected credential check to fail")
	}
}
