package gateway

import (
	"errors"
	"net/http"

	stripe "github.com/stripe/stripe-go/v72"

	"github.com/vibast-solutions/lib-go-stripe/app/types"
)

// Result is the uniform outcome of a provider call: either a success carrying
// a gateway-owned payload, or a failure carrying the normalized error message
// plus the response/reason codes the framework dispatches on. Exactly one
// variant is populated.
type Result struct {
	payload      any
	errorMessage string
	responseCode string
	reasonCode   string
	failed       bool
}

func Success(payload any) Result {
	return Result{payload: payload}
}

func Failure(message, responseCode, reasonCode string) Result {
	if reasonCode == "" {
		reasonCode = types.ReasonCodeInvalid
	}
	return Result{
		errorMessage: message,
		responseCode: responseCode,
		reasonCode:   reasonCode,
		failed:       true,
	}
}

func (r Result) IsSuccess() bool {
	return !r.failed
}

func (r Result) Payload() any {
	return r.payload
}

func (r Result) ErrorMessage() string {
	return r.errorMessage
}

func (r Result) ResponseCode() string {
	return r.responseCode
}

func (r Result) ReasonCode() string {
	return r.reasonCode
}

// NormalizeError classifies a provider error into a Failure. Card declines
// keep the provider's specific code as the reason and its error category as
// the response code; credential problems get the fixed authentication
// reason; everything else degrades to the generic invalid reason. Provider
// error types never leave this package.
func NormalizeError(err error) Result {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return Failure(err.Error(), types.ResponseCodeCommunication, types.ReasonCodeInvalid)
	}

	responseCode := string(stripeErr.Type)

	var authErr *stripe.AuthenticationError
	switch {
	case stripeErr.Type == stripe.ErrorTypeCard:
		return Failure(stripeErr.Msg, responseCode, string(stripeErr.Code))
	case errors.As(stripeErr.Err, &authErr), stripeErr.HTTPStatusCode == http.StatusUnauthorized:
		return Failure(stripeErr.Msg, responseCode, types.ReasonCodeAuthentication)
	case stripeErr.Type == stripe.ErrorTypeInvalidRequest:
		return Failure(stripeErr.Msg, responseCode, types.ReasonCodeInvalid)
	default:
		return Failure(stripeErr.Msg, responseCode, types.ReasonCodeInvalid)
	}
}
