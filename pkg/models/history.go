package models

// PayeeTransaction is the slice of a historical YNAB transaction the
// suggestion engine needs: which category it was filed under. An empty
// CategoryID means the transaction was uncategorized.
type PayeeTransaction struct {
	CategoryID string
}

// GroupTransaction is a historical SettleUp expense: a free-text purpose and
// the category symbol it was tagged with. Callers with other record shapes
// map their fields onto these two.
type GroupTransaction struct {
	Purpose  string
	Category string
}
