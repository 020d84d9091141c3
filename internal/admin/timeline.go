package admin

// TimelineEntry is one line in the verification activity feed. The feed is
// held in memory only; it reseeds on restart.
type TimelineEntry struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Admin  string `json:"admin"`
	Date   string `json:"date"`
}

func timelineSeed() []TimelineEntry {
	return []TimelineEntry{
		{
			ID:     "evt-3",
			Title:  "RetaRelief COA audited",
			Detail: "Lot RR-221 cross-checked and confirmed. Packaging photos archived to compliance drive.",
			Admin:  "Aurora (Admin)",
			Date:   "2025-11-07",
		},
		{
			ID:     "evt-2",
			Title:  "Researchism shipping update",
			Detail: "Delivery times validated with 3 anonymous reviewers. Tracking IDs anonymised and stored.",
			Admin:  "Aurora (Admin)",
			Date:   "2025-11-04",
		},
		{
			ID:     "evt-1",
			Title:  "Ayve verification refresh",
			Detail: "New documentation uploaded. BAC water sourcing verified with supplier statement.",
			Admin:  "Aurora (Admin)",
			Date:   "2025-11-01",
		},
	}
}
