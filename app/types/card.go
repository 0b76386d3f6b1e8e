package types

// Extended-data keys. The card and billing fields are written by the payment
// form; the id keys are the adapter's scratch space, persisted by the
// framework so retried operations reuse provider-side resources instead of
// creating duplicates.
const (
	DataName           = "name"
	DataNumber         = "number"
	DataExpMonth       = "exp_month"
	DataExpYear        = "exp_year"
	DataCVC            = "cvc"
	DataAddressLine1   = "address_line1"
	DataAddressLine2   = "address_line2"
	DataAddressCity    = "address_city"
	DataAddressState   = "address_state"
	DataAddressCountry = "address_country"
	DataAddressZip     = "address_zip"

	DataPaymentDescription = "payment_description"
	DataEmail              = "email"

	DataChargeID       = "charge_id"
	DataCustomerID     = "customer_id"
	DataSubscriptionID = "subscription_id"
	DataPlanID         = "plan_id"
	DataIdempotencyKey = "idempotency_key"
)

// CardDetails is the structured card and billing field set sent to the
// provider. Address fields are optional; empty means not collected.
type CardDetails struct {
	Name     string
	Number   string
	ExpMonth string
	ExpYear  string
	CVC      string

	AddressLine1   string
	AddressLine2   string
	AddressCity    string
	AddressState   string
	AddressCountry string
	AddressZip     string
}
