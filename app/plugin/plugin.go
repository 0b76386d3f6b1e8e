package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vibast-solutions/lib-go-stripe/app/factory"
	"github.com/vibast-solutions/lib-go-stripe/app/gateway"
	"github.com/vibast-solutions/lib-go-stripe/app/mapper"
	"github.com/vibast-solutions/lib-go-stripe/app/types"
	"github.com/vibast-solutions/lib-go-stripe/app/validation"
)

// PaymentSystemName is the payment method this plugin processes.
const PaymentSystemName = "stripe_credit_card"

type gatewayClient interface {
	CreateCharge(ctx context.Context, req gateway.ChargeRequest) gateway.Result
	CaptureCharge(ctx context.Context, chargeID string) gateway.Result
	RefundCharge(ctx context.Context, chargeID string, amount decimal.Decimal) gateway.Result
	CreateCardToken(ctx context.Context, card types.CardDetails) gateway.Result
	CreateCustomer(ctx context.Context, req gateway.CustomerRequest) gateway.Result
	GetCustomer(ctx context.Context, customerID string) gateway.Result
	CreatePlan(ctx context.Context, req gateway.PlanRequest) gateway.Result
	GetPlan(ctx context.Context, planID string) gateway.Result
	CreateSubscription(ctx context.Context, customerID, planID string) gateway.Result
}

// RecurringOptions carries the caller-supplied plan parameters for recurring
// setup. Only the fields named here ever reach the provider.
type RecurringOptions struct {
	PlanID          string
	PlanName        string
	Interval        types.BillingInterval
	IntervalCount   int64
	TrialPeriodDays int64
}

// CreditCardPlugin drives the gateway client and translates its Results into
// transaction state mutations. Operations on a given transaction are
// serialized by the calling framework.
type CreditCardPlugin struct {
	gateway gatewayClient
	log     *logrus.Entry
}

func NewCreditCardPlugin(gw gatewayClient) *CreditCardPlugin {
	return &CreditCardPlugin{
		gateway: gw,
		log:     factory.NewModuleLogger("stripe-plugin"),
	}
}

func (p *CreditCardPlugin) Processes(paymentSystemName string) bool {
	return paymentSystemName == PaymentSystemName
}

// CheckPaymentInstruction validates the card and billing fields found in the
// transaction's extended data. No network call is made here.
func (p *CreditCardPlugin) CheckPaymentInstruction(tx types.Transaction) error {
	violations := validation.Validate(mapper.FieldsFromData(tx.ExtendedData()))
	if len(violations) > 0 {
		return &InvalidInstructionError{Violations: violations}
	}
	return nil
}

// Approve authorizes the requested amount without capturing it.
func (p *CreditCardPlugin) Approve(ctx context.Context, tx types.Transaction) error {
	return p.chargeCard(ctx, tx, false)
}

// ApproveAndDeposit charges with immediate capture.
func (p *CreditCardPlugin) ApproveAndDeposit(ctx context.Context, tx types.Transaction) error {
	return p.chargeCard(ctx, tx, true)
}

func (p *CreditCardPlugin) chargeCard(ctx context.Context, tx types.Transaction, capture bool) error {
	data := tx.ExtendedData()

	result := p.gateway.CreateCharge(ctx, gateway.ChargeRequest{
		Amount:         tx.RequestedAmount(),
		Currency:       tx.Currency(),
		Capture:        capture,
		Description:    data.Get(types.DataPaymentDescription),
		Card:           mapper.CardDetailsFromData(data),
		IdempotencyKey: p.idempotencyKey(data),
	})
	if !result.IsSuccess() {
		return p.fail(tx, result)
	}

	charge, ok := result.Payload().(gateway.Charge)
	if !ok {
		return p.failPayload(tx)
	}

	data.Set(types.DataChargeID, charge.ID)
	p.complete(tx, charge.ID, gateway.ToMajorUnits(charge.Amount))
	return nil
}

// Deposit captures a previously approved charge.
func (p *CreditCardPlugin) Deposit(ctx context.Context, tx types.Transaction) error {
	data := tx.ExtendedData()
	if !data.Has(types.DataChargeID) {
		return fmt.Errorf("%w: deposit requires a prior approve", ErrMissingChargeID)
	}

	result := p.gateway.CaptureCharge(ctx, data.Get(types.DataChargeID))
	if !result.IsSuccess() {
		return p.fail(tx, result)
	}

	charge, ok := result.Payload().(gateway.Charge)
	if !ok {
		return p.failPayload(tx)
	}

	p.complete(tx, charge.ID, gateway.ToMajorUnits(charge.Amount))
	return nil
}

// Credit refunds the requested amount against the recorded charge. Calling
// it without a prior charge is a caller contract violation and never reaches
// the network.
func (p *CreditCardPlugin) Credit(ctx context.Context, tx types.Transaction) error {
	data := tx.ExtendedData()
	if !data.Has(types.DataChargeID) {
		return fmt.Errorf("%w: credit requires a prior charge", ErrMissingChargeID)
	}

	result := p.gateway.RefundCharge(ctx, data.Get(types.DataChargeID), tx.RequestedAmount())
	if !result.IsSuccess() {
		return p.fail(tx, result)
	}

	charge, ok := result.Payload().(gateway.Charge)
	if !ok {
		return p.failPayload(tx)
	}
	if len(charge.Refunds) == 0 {
		return p.fail(tx, gateway.Failure(
			"refund was not recorded on the charge",
			types.ResponseCodeCommunication,
			types.ReasonCodeInvalid,
		))
	}

	latest := charge.Refunds[len(charge.Refunds)-1]
	p.complete(tx, latest.ID, gateway.ToMajorUnits(latest.Amount))
	return nil
}

// InitializeRecurring sets up a subscription: find-or-create the card token,
// the plan, and the customer, then subscribe the customer to the plan. Every
// provider-side id is recorded in extended data as soon as it exists, so a
// retried initialization reuses it instead of creating a duplicate.
func (p *CreditCardPlugin) InitializeRecurring(ctx context.Context, tx types.Transaction, opts RecurringOptions) error {
	if !p.IntervalSupported(opts.Interval) {
		return fmt.Errorf("%w: %q", ErrUnsupportedInterval, opts.Interval)
	}

	data := tx.ExtendedData()

	cardID, err := p.findOrCreateCardID(ctx, tx)
	if err != nil {
		return err
	}

	planID, err := p.findOrCreatePlan(ctx, tx, opts)
	if err != nil {
		return err
	}

	customerID, err := p.findOrCreateCustomer(ctx, tx, cardID)
	if err != nil {
		return err
	}

	if data.Has(types.DataSubscriptionID) {
		p.complete(tx, data.Get(types.DataSubscriptionID), tx.RequestedAmount())
		return nil
	}

	result := p.gateway.CreateSubscription(ctx, customerID, planID)
	if !result.IsSuccess() {
		return p.fail(tx, result)
	}

	subscription, ok := result.Payload().(gateway.Subscription)
	if !ok {
		return p.failPayload(tx)
	}

	data.Set(types.DataSubscriptionID, subscription.ID)
	p.complete(tx, subscription.ID, tx.RequestedAmount())
	return nil
}

// IntervalSupported reports whether the billing interval has a provider
// mapping. Pure query; no network.
func (p *CreditCardPlugin) IntervalSupported(interval types.BillingInterval) bool {
	_, ok := interval.ProviderInterval()
	return ok
}

func (p *CreditCardPlugin) findOrCreateCardID(ctx context.Context, tx types.Transaction) (string, error) {
	data := tx.ExtendedData()
	if data.Has(types.DataChargeID) {
		return data.Get(types.DataChargeID), nil
	}

	result := p.gateway.CreateCardToken(ctx, mapper.CardDetailsFromData(data))
	if !result.IsSuccess() {
		return "", p.fail(tx, result)
	}

	token, ok := result.Payload().(gateway.Token)
	if !ok {
		return "", p.failPayload(tx)
	}

	data.Set(types.DataChargeID, token.ID)
	return token.ID, nil
}

func (p *CreditCardPlugin) findOrCreatePlan(ctx context.Context, tx types.Transaction, opts RecurringOptions) (string, error) {
	data := tx.ExtendedData()
	if data.Has(types.DataPlanID) {
		return data.Get(types.DataPlanID), nil
	}

	if opts.PlanID != "" {
		if result := p.gateway.GetPlan(ctx, opts.PlanID); result.IsSuccess() {
			if plan, ok := result.Payload().(gateway.Plan); ok {
				data.Set(types.DataPlanID, plan.ID)
				return plan.ID, nil
			}
		}
		// The caller-supplied plan does not exist on the provider side;
		// fall through and create it.
	}

	planID := opts.PlanID
	if planID == "" {
		planID = derivePlanID(tx, opts)
	}

	result := p.gateway.CreatePlan(ctx, gateway.PlanRequest{
		ID:              planID,
		Amount:          tx.RequestedAmount(),
		Currency:        tx.Currency(),
		Interval:        opts.Interval,
		IntervalCount:   opts.IntervalCount,
		Name:            opts.PlanName,
		TrialPeriodDays: opts.TrialPeriodDays,
	})
	if !result.IsSuccess() {
		return "", p.fail(tx, result)
	}

	plan, ok := result.Payload().(gateway.Plan)
	if !ok {
		return "", p.failPayload(tx)
	}

	data.Set(types.DataPlanID, plan.ID)
	return plan.ID, nil
}

func (p *CreditCardPlugin) findOrCreateCustomer(ctx context.Context, tx types.Transaction, cardID string) (string, error) {
	data := tx.ExtendedData()
	if data.Has(types.DataCustomerID) {
		customerID := data.Get(types.DataCustomerID)
		if result := p.gateway.GetCustomer(ctx, customerID); result.IsSuccess() {
			return customerID, nil
		}
		// The recorded customer is gone on the provider side; create a
		// fresh one below.
	}

	result := p.gateway.CreateCustomer(ctx, gateway.CustomerRequest{
		TokenID:     cardID,
		Email:       data.Get(types.DataEmail),
		Description: data.Get(types.DataPaymentDescription),
	})
	if !result.IsSuccess() {
		return "", p.fail(tx, result)
	}

	customer, ok := result.Payload().(gateway.Customer)
	if !ok {
		return "", p.failPayload(tx)
	}

	data.Set(types.DataCustomerID, customer.ID)
	return customer.ID, nil
}

// idempotencyKey returns the key recorded for this logical attempt, minting
// one on first use. A framework-level retry of the same transaction reuses
// the key, so charge creation cannot double-bill.
func (p *CreditCardPlugin) idempotencyKey(data types.ExtendedData) string {
	if data.Has(types.DataIdempotencyKey) {
		return data.Get(types.DataIdempotencyKey)
	}
	key := uuid.NewString()
	data.Set(types.DataIdempotencyKey, key)
	return key
}

func (p *CreditCardPlugin) complete(tx types.Transaction, reference string, processed decimal.Decimal) {
	tx.SetReferenceNumber(reference)
	tx.SetProcessedAmount(processed)
	tx.SetResponseCode(types.ResponseCodeSuccess)
	tx.SetReasonCode(types.ReasonCodeSuccess)
}

func (p *CreditCardPlugin) fail(tx types.Transaction, result gateway.Result) error {
	tx.SetResponseCode(result.ResponseCode())
	tx.SetReasonCode(result.ReasonCode())

	p.log.WithFields(logrus.Fields{
		"response_code": result.ResponseCode(),
		"reason_code":   result.ReasonCode(),
	}).Warn("provider call failed")

	return &FinancialError{
		Message:      result.ErrorMessage(),
		ResponseCode: result.ResponseCode(),
		ReasonCode:   result.ReasonCode(),
	}
}

func (p *CreditCardPlugin) failPayload(tx types.Transaction) error {
	return p.fail(tx, gateway.Failure(
		"unexpected provider payload",
		types.ResponseCodeCommunication,
		types.ReasonCodeInvalid,
	))
}

func derivePlanID(tx types.Transaction, opts RecurringOptions) string {
	intervalCount := opts.IntervalCount
	if intervalCount <= 0 {
		intervalCount = 1
	}
	return fmt.Sprintf("plan_%d_%s_%s_%d",
		gateway.ToMinorUnits(tx.RequestedAmount()),
		strings.ToLower(tx.Currency()),
		opts.Interval,
		intervalCount,
	)
}
