package plugin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vibast-solutions/lib-go-stripe/app/validation"
)

// Caller contract violations. These fail deterministically before any
// network call is issued.
var (
	ErrMissingChargeID     = errors.New("transaction has no recorded charge id")
	ErrUnsupportedInterval = errors.New("billing interval is not supported")
)

// InvalidInstructionError reports every field-level violation found while
// checking a payment instruction, never just the first.
type InvalidInstructionError struct {
	Violations []validation.Violation
}

func (e *InvalidInstructionError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "invalid payment instruction: " + strings.Join(parts, "; ")
}

// FinancialError is a classified provider-side failure. The transaction's
// response and reason codes are always stamped before this is returned, so
// callers can inspect the outcome even after unwinding.
type FinancialError struct {
	Message      string
	ResponseCode string
	ReasonCode   string
}

func (e *FinancialError) Error() string {
	if e.Message == "" {
		return "financial transaction failed"
	}
	return e.Message
}
