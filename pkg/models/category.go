package models

// Category is a single budget category. Hidden and deleted categories are
// kept in the flat lookup but excluded from display.
type Category struct {
	ID      string
	Name    string
	Hidden  bool
	Deleted bool
}

// CategoryGroup is an ordered set of categories. A category belongs to
// exactly one group.
type CategoryGroup struct {
	ID         string
	Name       string
	Categories []Category
}
