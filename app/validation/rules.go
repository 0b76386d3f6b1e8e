package validation

import (
	"strconv"
	"strings"
	"time"

	"github.com/vibast-solutions/lib-go-stripe/app/types"
)

const (
	msgRequired          = "Required"
	msgInvalidCardNumber = "Invalid card number"
	msgInvalidCodeValue  = "Invalid code value"
	msgInvalidDate       = "Invalid date"
)

// Fields is the raw field set extracted from a transaction's extended data.
type Fields map[string]string

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string
	Message string
}

// rule is one predicate-guarded constraint. when gates whether the rule
// applies at all; check returns an empty message when the value is valid.
type rule struct {
	field string
	when  func(Fields) bool
	check func(value string) string
}

var addressFields = []string{
	types.DataAddressLine1,
	types.DataAddressLine2,
	types.DataAddressCity,
	types.DataAddressState,
	types.DataAddressCountry,
	types.DataAddressZip,
}

func always(Fields) bool { return true }

// hasAddress reports whether any billing address field was collected. The
// address block as a whole is optional; supplying any part of it activates
// the conditional requirements.
func hasAddress(fields Fields) bool {
	for _, field := range addressFields {
		if strings.TrimSpace(fields[field]) != "" {
			return true
		}
	}
	return false
}

func isUS(fields Fields) bool {
	return strings.EqualFold(strings.TrimSpace(fields[types.DataAddressCountry]), "US")
}

func required(value string) string {
	if strings.TrimSpace(value) == "" {
		return msgRequired
	}
	return ""
}

func cardNumber(value string) string {
	if msg := required(value); msg != "" {
		return msg
	}
	if len(value) < 12 || len(value) > 19 {
		return msgInvalidCardNumber
	}
	if !luhnValid(value) {
		return msgInvalidCardNumber
	}
	return ""
}

func intInRange(min, max int, message string) func(string) string {
	return func(value string) string {
		if msg := required(value); msg != "" {
			return msg
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < min || n > max {
			return message
		}
		return ""
	}
}

func lengthInRange(min, max int, message string) func(string) string {
	return func(value string) string {
		if msg := required(value); msg != "" {
			return msg
		}
		if len(value) < min || len(value) > max {
			return message
		}
		return ""
	}
}

func rules(now time.Time) []rule {
	year := now.Year()

	return []rule{
		{field: types.DataName, when: always, check: required},
		{field: types.DataNumber, when: always, check: cardNumber},
		{field: types.DataExpMonth, when: always, check: intInRange(1, 12, msgInvalidCodeValue)},
		{field: types.DataExpYear, when: always, check: intInRange(year, year+20, msgInvalidDate)},
		{field: types.DataCVC, when: always, check: lengthInRange(3, 4, msgInvalidCodeValue)},
		{field: types.DataAddressLine1, when: hasAddress, check: required},
		{field: types.DataAddressCity, when: hasAddress, check: required},
		{field: types.DataAddressState, when: func(f Fields) bool { return hasAddress(f) && isUS(f) }, check: required},
		{field: types.DataAddressCountry, when: hasAddress, check: required},
		{field: types.DataAddressZip, when: func(f Fields) bool { return hasAddress(f) || isUS(f) }, check: required},
	}
}

// Validate applies every rule whose predicate holds and accumulates all
// violations; it never short-circuits on the first failure.
func Validate(fields Fields) []Violation {
	return validateAt(fields, time.Now())
}

func validateAt(fields Fields, now time.Time) []Violation {
	var violations []Violation
	for _, r := range rules(now) {
		if !r.when(fields) {
			continue
		}
		if msg := r.check(fields[r.field]); msg != "" {
			violations = append(violations, Violation{Field: r.field, Message: msg})
		}
	}
	return violations
}
