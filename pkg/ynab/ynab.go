package ynab

import (
	"github.com/brunomvsouza/ynab.go"
	"github.com/brunomvsouza/ynab.go/api/budget"

	"github.com/SThor/spendform/pkg/geo"
	"github.com/SThor/spendform/pkg/models"
)

// Client wraps the YNAB API client and converts its resources into the
// engine's input types.
type Client struct {
	client ynab.ClientServicer
}

func New(token string) *Client {
	return &Client{
		client: ynab.NewClient(token),
	}
}

func (c *Client) Budget() *budget.Service {
	return c.client.Budget()
}

// Payees fetches the budget's payees, excluding deleted ones. A payee backed
// by a transfer account shows up in the "Payments and Transfers" bucket.
func (c *Client) Payees(budgetID string) ([]models.Payee, error) {
	snapshot, err := c.client.Payee().GetPayees(budgetID, nil)
	if err != nil {
		return nil, err
	}

	payees := make([]models.Payee, 0, len(snapshot.Payees))
	for _, p := range snapshot.Payees {
		if p.Deleted {
			continue
		}
		payees = append(payees, models.Payee{
			ID:       p.ID,
			Name:     p.Name,
			Transfer: p.TransferAccountID != nil,
		})
	}
	return payees, nil
}

// PayeeLocations fetches the budget's payee locations. The SDK already
// coerces the API's string coordinates into numbers; entries missing either
// coordinate are dropped so ranking never sees a partial location.
func (c *Client) PayeeLocations(budgetID string) ([]models.PayeeLocation, error) {
	locations, err := c.client.Payee().GetPayeeLocations(budgetID)
	if err != nil {
		return nil, err
	}

	result := make([]models.PayeeLocation, 0, len(locations))
	for _, loc := range locations {
		if loc.Deleted || loc.Latitude == nil || loc.Longitude == nil {
			continue
		}
		result = append(result, models.PayeeLocation{
			PayeeID:    loc.PayeeID,
			Coordinate: geo.Coordinate{Lat: *loc.Latitude, Lng: *loc.Longitude},
		})
	}
	return result, nil
}

// CategoryGroups fetches the budget's category tree. Deleted groups are
// skipped entirely; hidden or deleted categories are kept so the flat lookup
// can still resolve them, display filtering happens downstream.
func (c *Client) CategoryGroups(budgetID string) ([]models.CategoryGroup, error) {
	snapshot, err := c.client.Category().GetCategories(budgetID, nil)
	if err != nil {
		return nil, err
	}

	groups := make([]models.CategoryGroup, 0, len(snapshot.GroupWithCategories))
	for _, g := range snapshot.GroupWithCategories {
		if g.Deleted {
			continue
		}
		group := models.CategoryGroup{ID: g.ID, Name: g.Name}
		for _, cat := range g.Categories {
			group.Categories = append(group.Categories, models.Category{
				ID:      cat.ID,
				Name:    cat.Name,
				Hidden:  cat.Hidden,
				Deleted: cat.Deleted,
			})
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// PayeeHistory fetches the payee's past transactions reduced to the category
// they were filed under. Uncategorized transactions come through with an
// empty CategoryID and are ignored by the suggester.
func (c *Client) PayeeHistory(budgetID, payeeID string) ([]models.PayeeTransaction, error) {
	hybrids, err := c.client.Transaction().GetTransactionsByPayee(budgetID, payeeID, nil)
	if err != nil {
		return nil, err
	}

	history := make([]models.PayeeTransaction, 0, len(hybrids))
	for _, tx := range hybrids {
		categoryID := ""
		if tx.CategoryID != nil {
			categoryID = *tx.CategoryID
		}
		history = append(history, models.PayeeTransaction{CategoryID: categoryID})
	}
	return history, nil
}
