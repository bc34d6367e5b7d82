package model

// BusinessRecord captures the business-formalization indicators declared for
// a creator. One record per creator, or none at all.
type BusinessRecord struct {
	CreatorID         string            `json:"creator_id"`
	EntityType        string            `json:"business_entity,omitempty"` // "LLC", "SoleProp", ... ; "Unknown"/"NotApplicable" mean no entity
	AgencyAffiliation string            `json:"agency_affiliation,omitempty"`
	PricingVisible    PricingVisibility `json:"pricing_visible,omitempty"`
	Shopfronts        []string          `json:"shopfronts,omitempty"`
	PaymentMethods    []string          `json:"payment_methods,omitempty"`
}

// Entity-type placeholders that count as "no registered entity"
const (
	EntityUnknown       = "Unknown"
	EntityNotApplicable = "NotApplicable"
)

// PricingVisibility describes whether a creator publishes pricing
type PricingVisibility string

const (
	PricingYes     PricingVisibility = "Yes"
	PricingPartial PricingVisibility = "Partial"
	PricingNo      PricingVisibility = "No"
	PricingUnknown PricingVisibility = "Unknown"
)

// Valid reports whether the visibility is a recognized value; the empty
// string is accepted as unknown
func (p PricingVisibility) Valid() bool {
	switch p {
	case PricingYes, PricingPartial, PricingNo, PricingUnknown, "":
		return true
	}
	return false
}
