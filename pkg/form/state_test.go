package form

import (
	"reflect"
	"testing"

	"github.com/SThor/spendform/pkg/models"
)

var testDefaults = Defaults{CategorySymbol: "❓", SwileAmountMilli: -25000}

func TestSelectCategoryDerivesSettleUpSymbol(t *testing.T) {
	state := New(testDefaults)

	next := state.SelectCategory("🍕 Dining", &models.SuggestionItem{Value: "c1", Label: "🍕 Dining"})

	if next.CategoryID != "c1" {
		t.Errorf("Expected category id c1, got %q", next.CategoryID)
	}
	if next.SettleUpCategory != "🍕" {
		t.Errorf("Expected derived symbol 🍕, got %q", next.SettleUpCategory)
	}
}

func TestSelectCategoryNeverOverwritesCustomSymbol(t *testing.T) {
	state := New(testDefaults).SetSettleUpCategory("🎁")

	next := state.SelectCategory("🍕 Dining", &models.SuggestionItem{Value: "c1", Label: "🍕 Dining"})

	if next.SettleUpCategory != "🎁" {
		t.Errorf("User symbol must survive a category pick, got %q", next.SettleUpCategory)
	}
}

func TestSelectCategoryWithoutPictographKeepsPlaceholder(t *testing.T) {
	state := New(testDefaults)

	next := state.SelectCategory("Snacks", &models.SuggestionItem{Value: "c2", Label: "Snacks"})

	if next.SettleUpCategory != "❓" {
		t.Errorf("Expected placeholder to remain, got %q", next.SettleUpCategory)
	}
}

func TestSelectPayee(t *testing.T) {
	state := New(testDefaults)

	next := state.SelectPayee("Monoprix", &models.SuggestionItem{Value: "p1", Label: "Monoprix"})
	if next.PayeeText != "Monoprix" || next.PayeeID != "p1" {
		t.Errorf("Unexpected payee state: %q %q", next.PayeeText, next.PayeeID)
	}

	// Free text without a resolved item clears the id.
	next = next.SelectPayee("Monopri", nil)
	if next.PayeeID != "" {
		t.Errorf("Expected cleared payee id, got %q", next.PayeeID)
	}
}

func TestClearingPayeeResetsSettleUpSymbol(t *testing.T) {
	state := New(testDefaults).
		SelectCategory("🍕 Dining", &models.SuggestionItem{Value: "c1", Label: "🍕 Dining"})
	if state.SettleUpCategory != "🍕" {
		t.Fatalf("Setup failed, symbol is %q", state.SettleUpCategory)
	}

	next := state.SelectPayee("", nil)
	if next.SettleUpCategory != "❓" {
		t.Errorf("Expected placeholder after clearing payee, got %q", next.SettleUpCategory)
	}
}

func TestToggleTarget(t *testing.T) {
	state := New(testDefaults)
	if !state.Targets[TargetYNAB] {
		t.Fatal("Expected YNAB enabled by default")
	}

	next := state.ToggleTarget(TargetYNAB)
	if next.Targets[TargetYNAB] {
		t.Errorf("Expected YNAB disabled after toggle")
	}
	if !state.Targets[TargetYNAB] {
		t.Errorf("Toggle must not mutate the previous state")
	}
}

func TestToggleAccountResetsSwileAmountWhenBothEnabled(t *testing.T) {
	state := New(testDefaults).
		ToggleAccount(AccountSwile).
		SetSwileAmount(-9000)

	next := state.ToggleAccount(AccountBourso)

	if next.SwileAmountMilli != testDefaults.SwileAmountMilli {
		t.Errorf("Expected Swile amount reset to %d, got %d", testDefaults.SwileAmountMilli, next.SwileAmountMilli)
	}
}

func TestToggleAccountKeepsSwileAmountOtherwise(t *testing.T) {
	state := New(testDefaults).
		ToggleAccount(AccountSwile).
		SetSwileAmount(-9000)

	// Toggling swile off does not make both enabled, no reset.
	next := state.ToggleAccount(AccountSwile)
	if next.SwileAmountMilli != -9000 {
		t.Errorf("Expected Swile amount kept, got %d", next.SwileAmountMilli)
	}
}

func TestSectionsVisibility(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Sections
	}{
		{
			name:  "zero amount hides everything",
			state: New(testDefaults),
			want:  Sections{},
		},
		{
			name:  "amount with ynab shows accounts only",
			state: New(testDefaults).SetAmount(-12000),
			want:  Sections{Accounts: true},
		},
		{
			name:  "amount without ynab shows details",
			state: New(testDefaults).SetAmount(-12000).ToggleTarget(TargetYNAB),
			want:  Sections{Details: true},
		},
		{
			name:  "bourso enabled shows details",
			state: New(testDefaults).SetAmount(-12000).ToggleAccount(AccountBourso),
			want:  Sections{Accounts: true, Details: true},
		},
		{
			name:  "swile enabled shows swile amount",
			state: New(testDefaults).SetAmount(-12000).ToggleAccount(AccountSwile),
			want:  Sections{Accounts: true, Details: true, SwileAmount: true},
		},
		{
			name:  "swile without ynab hides swile amount",
			state: New(testDefaults).SetAmount(-12000).ToggleAccount(AccountSwile).ToggleTarget(TargetYNAB),
			want:  Sections{Details: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Sections(); got != tt.want {
				t.Errorf("Sections() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEventsAreIdempotent(t *testing.T) {
	state := New(testDefaults).SetAmount(-12000)
	item := &models.SuggestionItem{Value: "c1", Label: "🍕 Dining"}

	once := state.SelectCategory("🍕 Dining", item)
	twice := once.SelectCategory("🍕 Dining", item)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Applying the same event twice diverged:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}
