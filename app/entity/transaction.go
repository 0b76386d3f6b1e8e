package entity

import (
	"github.com/shopspring/decimal"

	"github.com/vibast-solutions/lib-go-stripe/app/types"
)

// Data is a map-backed extended-data store. Frameworks with their own
// persistence supply their own types.ExtendedData implementation; this one
// serves embedders and tests.
type Data struct {
	values map[string]string
}

func NewData() *Data {
	return &Data{values: map[string]string{}}
}

func (d *Data) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

func (d *Data) Get(key string) string {
	return d.values[key]
}

func (d *Data) Set(key, value string) {
	d.values[key] = value
}

// FinancialTransaction is a reference implementation of types.Transaction.
type FinancialTransaction struct {
	requestedAmount decimal.Decimal
	processedAmount decimal.Decimal
	currency        string
	data            *Data
	referenceNumber string
	responseCode    string
	reasonCode      string
}

func NewFinancialTransaction(requestedAmount decimal.Decimal, currency string) *FinancialTransaction {
	return &FinancialTransaction{
		requestedAmount: requestedAmount,
		currency:        currency,
		data:            NewData(),
	}
}

func (t *FinancialTransaction) RequestedAmount() decimal.Decimal {
	return t.requestedAmount
}

func (t *FinancialTransaction) Currency() string {
	return t.currency
}

func (t *FinancialTransaction) ExtendedData() types.ExtendedData {
	return t.data
}

func (t *FinancialTransaction) SetProcessedAmount(amount decimal.Decimal) {
	t.processedAmount = amount
}

func (t *FinancialTransaction) SetReferenceNumber(reference string) {
	t.referenceNumber = reference
}

func (t *FinancialTransaction) SetResponseCode(code string) {
	t.responseCode = code
}

func (t *FinancialTransaction) SetReasonCode(code string) {
	t.reasonCode = code
}

func (t *FinancialTransaction) ProcessedAmount() decimal.Decimal {
	return t.processedAmount
}

func (t *FinancialTransaction) ReferenceNumber() string {
	return t.referenceNumber
}

func (t *FinancialTransaction) ResponseCode() string {
	return t.responseCode
}

func (t *FinancialTransaction) ReasonCode() string {
	return t.reasonCode
}
