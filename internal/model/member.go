// Package model defines the domain records served by the mahal backend.
package model

import "time"

// Member represents a registered mahal member.
//
// The backend is inconsistent about identifiers: newer records carry "id",
// older Mongo-era records only "_id". Key resolves whichever is present.
type Member struct {
	ID             string    `json:"id,omitempty"`
	MongoID        string    `json:"_id,omitempty"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
	RegNo          string    `json:"regNo,omitempty"`
	HouseName      string    `json:"houseName,omitempty"`
	Category       string    `json:"category,omitempty"`
	MayyathuStatus bool      `json:"mayyathuStatus"`
	JoinedAt       time.Time `json:"joinedAt,omitempty"`

	// Status is populated by the status deriver on copies only.
	Status DerivedStatus `json:"-"`
}

// Key returns the stable identifier for the member.
func (m Member) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return m.MongoID
}

// DisplayName returns the name shown in list rows and used by the
// collection join.
func (m Member) DisplayName() string {
	return m.Name
}
