package listsync

import "github.com/faisalkp/mahaldesk/internal/model"

// Traits describes how the engine reads a row type: its stable key, the
// name shown and joined on, the fields search terms match against, and the
// value the category filter compares with.
type Traits[T any] struct {
	Key          func(T) string
	DisplayName  func(T) string
	SearchFields func(T) []string
	Category     func(T) string
}

// MemberRows adapts model.Member for the engine. The category filter on the
// members screen selects by derived payment status, so Category reads the
// annotated status field.
var MemberRows = Traits[model.Member]{
	Key:         model.Member.Key,
	DisplayName: model.Member.DisplayName,
	SearchFields: func(m model.Member) []string {
		return []string{m.Name, m.Phone, m.RegNo}
	},
	Category: func(m model.Member) string {
		return string(m.Status)
	},
}

// CollectionRows adapts model.Collection. Collections filter by their
// ledger category; search also covers the receipt number.
var CollectionRows = Traits[model.Collection]{
	Key:         model.Collection.Key,
	DisplayName: model.Collection.DisplayName,
	SearchFields: func(c model.Collection) []string {
		return []string{c.CollectedBy, c.Description, c.ReceiptNo}
	},
	Category: func(c model.Collection) string {
		return c.Category
	},
}
