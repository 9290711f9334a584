package models

// Dataset is an immutable snapshot of every input feed the suggestion engine
// derives from. Feeds arrive from the YNAB and SettleUp collaborators (or
// from a fixtures file); the engine never mutates them.
type Dataset struct {
	Payees            []Payee
	Locations         []PayeeLocation
	CategoryGroups    []CategoryGroup
	PayeeHistory      map[string][]PayeeTransaction
	GroupTransactions []GroupTransaction
}
