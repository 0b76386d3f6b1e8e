package mapper

import (
	"github.com/vibast-solutions/lib-go-stripe/app/types"
	"github.com/vibast-solutions/lib-go-stripe/app/validation"
)

var cardFieldKeys = []string{
	types.DataName,
	types.DataNumber,
	types.DataExpMonth,
	types.DataExpYear,
	types.DataCVC,
	types.DataAddressLine1,
	types.DataAddressLine2,
	types.DataAddressCity,
	types.DataAddressState,
	types.DataAddressCountry,
	types.DataAddressZip,
}

// CardDetailsFromData builds the structured card field set from a
// transaction's extended data. Absent keys map to empty fields; the gateway
// omits empty address fields from provider requests.
func CardDetailsFromData(data types.ExtendedData) types.CardDetails {
	return types.CardDetails{
		Name:     data.Get(types.DataName),
		Number:   data.Get(types.DataNumber),
		ExpMonth: data.Get(types.DataExpMonth),
		ExpYear:  data.Get(types.DataExpYear),
		CVC:      data.Get(types.DataCVC),

		AddressLine1:   data.Get(types.DataAddressLine1),
		AddressLine2:   data.Get(types.DataAddressLine2),
		AddressCity:    data.Get(types.DataAddressCity),
		AddressState:   data.Get(types.DataAddressState),
		AddressCountry: data.Get(types.DataAddressCountry),
		AddressZip:     data.Get(types.DataAddressZip),
	}
}

// FieldsFromData extracts the validatable field set from extended data.
func FieldsFromData(data types.ExtendedData) validation.Fields {
	fields := make(validation.Fields, len(cardFieldKeys))
	for _, key := range cardFieldKeys {
		if data.Has(key) {
			fields[key] = data.Get(key)
		}
	}
	return fields
}
