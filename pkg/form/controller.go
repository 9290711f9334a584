package form

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SThor/spendform/pkg/models"
	"github.com/SThor/spendform/pkg/suggest"
)

// Controller is the single writer of a form's State. Every mutation goes
// through an event method under its lock; readers get value copies. The
// debounced autofill also applies its result through the controller, so the
// single-writer discipline holds across goroutines.
type Controller struct {
	mu       sync.Mutex
	state    State
	logger   *log.Logger
	autofill *Autofill
}

// NewController builds a controller over a fresh State. The group history
// feeds the debounced SettleUp category autofill; pass nil history to
// disable it.
func NewController(logger *log.Logger, defaults Defaults, history []models.GroupTransaction, delay time.Duration) *Controller {
	c := &Controller{
		state:  New(defaults),
		logger: logger,
	}
	c.autofill = NewAutofill(delay,
		func(query string) (string, bool, error) {
			category, ok := suggest.MostCommonCategory(history, query, suggest.MatchContains)
			return category, ok, nil
		},
		c.applyAutofill,
	)
	return c
}

// State returns a copy of the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// SelectPayee applies a payee pick and schedules the SettleUp category
// autofill for the new text.
func (c *Controller) SelectPayee(text string, item *models.SuggestionItem) State {
	c.mu.Lock()
	c.state = c.state.SelectPayee(text, item)
	next := c.state.clone()
	c.mu.Unlock()

	c.autofill.QueryChanged(text)
	return next
}

// SelectCategory applies a category pick.
func (c *Controller) SelectCategory(text string, item *models.SuggestionItem) State {
	return c.apply(func(s State) State { return s.SelectCategory(text, item) })
}

// SetAmount applies an amount change.
func (c *Controller) SetAmount(milliunits int64) State {
	return c.apply(func(s State) State { return s.SetAmount(milliunits) })
}

// SetSwileAmount applies a Swile split change.
func (c *Controller) SetSwileAmount(milliunits int64) State {
	return c.apply(func(s State) State { return s.SetSwileAmount(milliunits) })
}

// SetSettleUpCategory applies an explicit symbol pick.
func (c *Controller) SetSettleUpCategory(symbol string) State {
	return c.apply(func(s State) State { return s.SetSettleUpCategory(symbol) })
}

// ToggleTarget flips a destination toggle.
func (c *Controller) ToggleTarget(name string) State {
	return c.apply(func(s State) State { return s.ToggleTarget(name) })
}

// ToggleAccount flips an account toggle.
func (c *Controller) ToggleAccount(name string) State {
	return c.apply(func(s State) State { return s.ToggleAccount(name) })
}

// Close cancels any pending autofill.
func (c *Controller) Close() {
	c.autofill.Stop()
}

func (c *Controller) apply(transition func(State) State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = transition(c.state)
	return c.state.clone()
}

// applyAutofill fills the SettleUp category from history, but only while the
// user has not customized it away from the placeholder.
func (c *Controller) applyAutofill(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.SettleUpCategory != c.state.defaults.CategorySymbol {
		return
	}
	c.logger.Debug("autofill settleup category", "category", category)
	c.state = c.state.SetSettleUpCategory(category)
}
