package types

// BillingInterval is the framework's billing interval vocabulary for
// recurring payments.
type BillingInterval string

const (
	BillingIntervalWeekly   BillingInterval = "weekly"
	BillingIntervalMonthly  BillingInterval = "monthly"
	BillingIntervalAnnually BillingInterval = "annually"
)

// ProviderInterval maps the framework interval onto the provider's interval
// vocabulary. The second return is false for intervals the provider cannot
// bill on; callers must check it before building any plan request.
func (i BillingInterval) ProviderInterval() (string, bool) {
	switch i {
	case BillingIntervalWeekly:
		return "week", true
	case BillingIntervalMonthly:
		return "month", true
	case BillingIntervalAnnually:
		return "year", true
	default:
		return "", false
	}
}
