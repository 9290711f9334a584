package suggest

import "github.com/SThor/spendform/pkg/models"

// Flatten reduces a nested category-group tree into a flat lookup slice and
// the grouped structure the autocomplete displays. The flat slice keeps every
// category in group order then in-group order; the display groups exclude
// deleted and hidden categories, and groups left empty are omitted.
func Flatten(groups []models.CategoryGroup) ([]models.Category, []models.SuggestionGroup) {
	var flat []models.Category
	var display []models.SuggestionGroup

	for _, group := range groups {
		flat = append(flat, group.Categories...)

		var items []models.SuggestionItem
		for _, cat := range group.Categories {
			if cat.Deleted || cat.Hidden {
				continue
			}
			items = append(items, models.SuggestionItem{Value: cat.ID, Label: cat.Name})
		}
		if len(items) > 0 {
			display = append(display, models.SuggestionGroup{Label: group.Name, Items: items})
		}
	}
	return flat, display
}

// OwningGroup returns the first group containing a category with the given
// id, or nil. First-match keeps the result deterministic even if the input
// violates the one-group-per-category invariant.
func OwningGroup(categoryID string, groups []models.CategoryGroup) *models.CategoryGroup {
	for i := range groups {
		for _, cat := range groups[i].Categories {
			if cat.ID == categoryID {
				return &groups[i]
			}
		}
	}
	return nil
}
