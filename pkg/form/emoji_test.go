package form

import "testing"

func TestLeadingPictograph(t *testing.T) {
	tests := []struct {
		label string
		want  string
		ok    bool
	}{
		{"🍕 Dining", "🍕", true},
		{"🛒 Groceries", "🛒", true},
		{"✂️ Haircuts", "✂️", true},
		{"🇫🇷 Travel", "🇫🇷", true},
		{"👨‍👩‍👧 Family", "👨‍👩‍👧", true},
		{"Snacks", "", false},
		{"", "", false},
		{"1. Rent", "", false},
		{"Électricité", "", false},
	}

	for _, tt := range tests {
		got, ok := LeadingPictograph(tt.label)
		if ok != tt.ok || got != tt.want {
			t.Errorf("LeadingPictograph(%q) = %q, %v; want %q, %v", tt.label, got, ok, tt.want, tt.ok)
		}
	}
}
