package suppliers

// StorageKey is the kv slot holding the full supplier directory as a JSON array.
const StorageKey = "health-optimised:suppliers"

// Supplier is the directory record for a single vendor.
type Supplier struct {
	ID                 string  `json:"id"`
	Brand              string  `json:"brand"`
	Website            string  `json:"website"`
	DiscountCode       string  `json:"discount_code"`
	OfferDetails       string  `json:"offer_details"`
	VerificationStatus bool    `json:"verification_status"`
	VerificationNotes  string  `json:"verification_notes"`
	VerifiedBy         string  `json:"verified_by"`
	DateVerified       string  `json:"date_verified"`
	AverageRating      float64 `json:"average_rating"`
	TotalReviews       int     `json:"total_reviews"`
}

// Seed returns the starter directory used when storage is empty or unreadable.
func Seed() []Supplier {
	return []Supplier{
		{
			ID:                 "ayve",
			Brand:              "Ayve",
			Website:            "https://ayve.co.uk",
			DiscountCode:       "PEPTOK20",
			OfferDetails:       "Code 20% off with PEPTOK20",
			VerificationStatus: true,
			VerificationNotes:  "Verified COA - Good range, nice packaging, excellent results",
			VerifiedBy:         "Aurora (Admin)",
			DateVerified:       "2025-11-07",
			AverageRating:      4.8,
			TotalReviews:       142,
		},
		{
			ID:                 "retarelief",
			Brand:              "RetaRelief",
			Website:            "https://retarelief.com",
			DiscountCode:       "PEPTOK20",
			OfferDetails:       "Code 20% off with PEPTOK20 + free BAC water",
			VerificationStatus: true,
			VerificationNotes:  "Verified COA",
			VerifiedBy:         "Aurora (Admin)",
			DateVerified:       "2025-11-07",
			AverageRating:      4.6,
			TotalReviews:       97,
		},
		{
			ID:                 "researchism",
			Brand:              "Researchism",
			Website:            "https://researchism.store",
			DiscountCode:       "PEPTOK5",
			OfferDetails:       "Code PEPTOK5 for £5 off + BAC water",
			VerificationStatus: true,
			VerificationNotes:  "Verified COA - Bundle deal",
			VerifiedBy:         "Aurora (Admin)",
			DateVerified:       "2025-11-07",
			AverageRating:      4.7,
			TotalReviews:       121,
		},
	}
}

func clone(list []Supplier) []Supplier {
	out := make([]Supplier, len(list))
	copy(out, list)
	return out
}
