package models

// PlanDetail describes a subscription tier as presented on the pricing page.
type PlanDetail struct {
	ID         Plan   `json:"id"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Quality    string `json:"quality"`
	Resolution string `json:"resolution"`
	Devices    string `json:"devices"`
	Popular    bool   `json:"popular,omitempty"`
}

// PlanCatalog returns the static plan catalog. Prices and tiers are fixed by
// the product, not served by the API.
func PlanCatalog() []PlanDetail {
	return []PlanDetail{
		{
			ID:         PlanMobile,
			Name:       "Mobile",
			Price:      "Rp54.000",
			Quality:    "Good",
			Resolution: "480p",
			Devices:    "Phone, Tablet",
		},
		{
			ID:         PlanBasic,
			Name:       "Basic",
			Price:      "Rp65.000",
			Quality:    "Good",
			Resolution: "720p",
			Devices:    "All devices",
		},
		{
			ID:         PlanStandard,
			Name:       "Standard",
			Price:      "Rp120.000",
			Quality:    "Better",
			Resolution: "1080p",
			Devices:    "All devices",
		},
		{
			ID:         PlanPremium,
			Name:       "Premium",
			Price:      "Rp186.000",
			Quality:    "Best",
			Resolution: "4K + HDR",
			Devices:    "All devices",
			Popular:    true,
		},
	}
}
