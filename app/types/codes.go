package types

// Response and reason codes reported back to the payment framework on every
// completed attempt. The vocabulary is fixed; callers dispatch on it.
const (
	ResponseCodeSuccess = "Success"
	ReasonCodeSuccess   = "none"

	// ReasonCodeInvalid is the generic fallback when the provider does not
	// supply a machine-readable code.
	ReasonCodeInvalid = "invalid"

	ReasonCodeAuthentication = "authentication_error"

	ResponseCodeCommunication  = "communication_error"
	ResponseCodeInvalidRequest = "invalid_request_error"

	// Decline reasons pass through from the provider. The common ones are
	// named here so callers can match on them.
	ReasonCodeCardDeclined    = "card_declined"
	ReasonCodeIncorrectCVC    = "incorrect_cvc"
	ReasonCodeExpiredCard     = "expired_card"
	ReasonCodeProcessingError = "processing_error"
)
