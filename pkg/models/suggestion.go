package models

// SuggestionItem is one selectable entry in an autocomplete control.
type SuggestionItem struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SuggestionGroup is a labeled, ordered bucket of suggestion items. Item
// order within a group is the rank order.
type SuggestionGroup struct {
	Label string           `json:"label"`
	Items []SuggestionItem `json:"items"`
}
