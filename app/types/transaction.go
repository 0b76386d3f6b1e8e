package types

import "github.com/shopspring/decimal"

// ExtendedData is the framework-owned string key-value store attached to a
// transaction. It is the only state that survives across retries of the same
// logical operation.
type ExtendedData interface {
	Has(key string) bool
	Get(key string) string
	Set(key, value string)
}

// Transaction is the slice of the framework's financial transaction the
// adapter reads and mutates. Amounts are in major currency units; the
// framework serializes operations per transaction, so implementations need
// no internal locking.
type Transaction interface {
	RequestedAmount() decimal.Decimal
	Currency() string
	ExtendedData() ExtendedData

	SetProcessedAmount(amount decimal.Decimal)
	SetReferenceNumber(reference string)
	SetResponseCode(code string)
	SetReasonCode(code string)
}
