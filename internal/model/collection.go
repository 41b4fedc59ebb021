package model

import "time"

// Collection represents one money-collection entry from the dashboard
// ledger. Free-text fields CollectedBy and Description are what member
// records are joined against.
type Collection struct {
	ID          string    `json:"id,omitempty"`
	MongoID     string    `json:"_id,omitempty"`
	Amount      float64   `json:"amount"`
	CollectedBy string    `json:"collectedBy,omitempty"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	ReceiptNo   string    `json:"receiptNo,omitempty"`
	Date        time.Time `json:"date"`

	// Status is populated by the status deriver on copies only.
	Status DerivedStatus `json:"-"`
}

// Key returns the stable identifier for the collection entry.
func (c Collection) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.MongoID
}

// DisplayName returns the text shown as the row title.
func (c Collection) DisplayName() string {
	if c.CollectedBy != "" {
		return c.CollectedBy
	}
	return c.Description
}
