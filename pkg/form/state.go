// Package form holds the expense form's single mutable aggregate and the
// event transitions that advance it. Transitions are pure: each one takes the
// current State by value and returns the next one, so applying the same
// event twice yields the same result as applying it once.
package form

import "github.com/SThor/spendform/pkg/models"

// Target and account names used in the toggle maps.
const (
	TargetYNAB     = "ynab"
	TargetSettleUp = "settleup"

	AccountBourso = "bourso"
	AccountSwile  = "swile"
)

// Defaults carries the configured placeholder values a fresh form starts
// from.
type Defaults struct {
	CategorySymbol   string
	SwileAmountMilli int64
}

// State is the authoritative form record. Amounts are milliunits (1000 per
// currency unit, negative for outflows).
type State struct {
	AmountMilli      int64           `json:"amount_milliunits"`
	PayeeText        string          `json:"payee_text"`
	PayeeID          string          `json:"payee_id"`
	CategoryText     string          `json:"category_text"`
	CategoryID       string          `json:"category_id"`
	SettleUpCategory string          `json:"settleup_category"`
	Targets          map[string]bool `json:"targets"`
	Accounts         map[string]bool `json:"accounts"`
	SwileAmountMilli int64           `json:"swile_amount_milliunits"`

	defaults Defaults
}

// New returns a fresh State with both targets enabled, no accounts enabled,
// and the SettleUp category at its placeholder symbol.
func New(defaults Defaults) State {
	return State{
		SettleUpCategory: defaults.CategorySymbol,
		Targets:          map[string]bool{TargetYNAB: true, TargetSettleUp: true},
		Accounts:         map[string]bool{AccountBourso: false, AccountSwile: false},
		SwileAmountMilli: defaults.SwileAmountMilli,
		defaults:         defaults,
	}
}

// SetAmount records the expense amount in milliunits.
func (s State) SetAmount(milliunits int64) State {
	next := s.clone()
	next.AmountMilli = milliunits
	return next
}

// SelectPayee records the payee text and, when the autocomplete resolved an
// item, its id. Clearing the text resets the SettleUp category back to the
// placeholder.
func (s State) SelectPayee(text string, item *models.SuggestionItem) State {
	next := s.clone()
	next.PayeeText = text
	next.PayeeID = ""
	if item != nil {
		next.PayeeID = item.Value
	}
	if text == "" {
		next.SettleUpCategory = s.defaults.CategorySymbol
	}
	return next
}

// SelectCategory records the category text and id. When the SettleUp
// category still shows the placeholder and the picked label starts with a
// pictograph, that pictograph becomes the SettleUp category. A symbol the
// user already customized is never overwritten.
func (s State) SelectCategory(text string, item *models.SuggestionItem) State {
	next := s.clone()
	next.CategoryText = text
	next.CategoryID = ""
	if item != nil {
		next.CategoryID = item.Value
		if next.SettleUpCategory == s.defaults.CategorySymbol {
			if symbol, ok := LeadingPictograph(item.Label); ok {
				next.SettleUpCategory = symbol
			}
		}
	}
	return next
}

// SetSettleUpCategory records a symbol the user picked explicitly.
func (s State) SetSettleUpCategory(symbol string) State {
	next := s.clone()
	next.SettleUpCategory = symbol
	return next
}

// ToggleTarget flips a submission destination on or off.
func (s State) ToggleTarget(name string) State {
	next := s.clone()
	next.Targets[name] = !next.Targets[name]
	return next
}

// ToggleAccount flips a funding account on or off. When the flip makes both
// accounts enabled at once, the Swile-paid amount resets to its configured
// default rather than keeping a stale split.
func (s State) ToggleAccount(name string) State {
	bothBefore := s.Accounts[AccountBourso] && s.Accounts[AccountSwile]
	next := s.clone()
	next.Accounts[name] = !next.Accounts[name]
	if !bothBefore && next.Accounts[AccountBourso] && next.Accounts[AccountSwile] {
		next.SwileAmountMilli = s.defaults.SwileAmountMilli
	}
	return next
}

// SetSwileAmount records how much of the expense the Swile account paid.
func (s State) SetSwileAmount(milliunits int64) State {
	next := s.clone()
	next.SwileAmountMilli = milliunits
	return next
}

// Sections is the visibility projection over the current state. It holds no
// history: each flag is a pure predicate over the state's fields.
type Sections struct {
	Accounts    bool `json:"accounts"`
	Details     bool `json:"details"`
	SwileAmount bool `json:"swile_amount"`
}

// Sections derives which conditional parts of the form are visible.
func (s State) Sections() Sections {
	hasAmount := s.AmountMilli != 0
	ynab := s.Targets[TargetYNAB]
	anyAccount := s.Accounts[AccountBourso] || s.Accounts[AccountSwile]
	return Sections{
		Accounts:    ynab && hasAmount,
		Details:     hasAmount && (!ynab || anyAccount),
		SwileAmount: ynab && hasAmount && s.Accounts[AccountSwile],
	}
}

func (s State) clone() State {
	next := s
	next.Targets = make(map[string]bool, len(s.Targets))
	for k, v := range s.Targets {
		next.Targets[k] = v
	}
	next.Accounts = make(map[string]bool, len(s.Accounts))
	for k, v := range s.Accounts {
		next.Accounts[k] = v
	}
	return next
}
