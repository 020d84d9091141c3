package admin

import "github.com/health-optimised/directory-backend/internal/suppliers"

// QueueStorageKey is the kv slot holding the verification queue as a JSON array.
const QueueStorageKey = "health-optimised:queue"

// QueueEntry is one outstanding verification ticket. SupplierID back-references
// the directory record when the entry was raised for a known supplier.
type QueueEntry struct {
	ID         string `json:"id"`
	SupplierID string `json:"supplierId,omitempty"`
	Brand      string `json:"brand"`
	Ticket     string `json:"ticket"`
	Submitted  string `json:"submitted"`
	Note       string `json:"note"`
}

func queueSeed() []QueueEntry {
	return []QueueEntry{
		{
			ID:        "queue-1",
			Brand:     "Soma Labs",
			Ticket:    "RQ-5842",
			Submitted: "2025-11-06",
			Note:      "Awaiting COA PDF upload from supplier contact.",
		},
		{
			ID:        "queue-2",
			Brand:     "NanoPeptide EU",
			Ticket:    "RQ-5837",
			Submitted: "2025-11-05",
			Note:      "Need follow-up on customs documentation. User reports delayed shipping.",
		},
	}
}

// matchesSupplier pairs a queue entry with a supplier. The back-reference
// wins when present; legacy entries fall back to brand equality.
func matchesSupplier(entry QueueEntry, supplier suppliers.Supplier) bool {
	if entry.SupplierID != "" {
		return entry.SupplierID == supplier.ID
	}
	return entry.Brand == supplier.Brand
}
