package model

// DerivedStatus is the payment standing computed by joining a record against
// the money-collection ledger. It is never stored on the backend; it exists
// only on annotated copies handed to the view layer.
type DerivedStatus string

// Derived statuses.
const (
	StatusUnknown DerivedStatus = ""
	StatusPaid    DerivedStatus = "paid"
	StatusDue     DerivedStatus = "due"
	StatusOverdue DerivedStatus = "overdue"
)

// Valid reports whether s is one of the known statuses.
func (s DerivedStatus) Valid() bool {
	switch s {
	case StatusPaid, StatusDue, StatusOverdue:
		return true
	default:
		return false
	}
}
