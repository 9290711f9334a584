package fixtures

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SThor/spendform/pkg/geo"
	"github.com/SThor/spendform/pkg/models"
)

// Snapshot is an offline capture of every collaborator feed, so the CLI and
// tests can run without YNAB or SettleUp access. Latitude/longitude are kept
// as strings to mirror the wire shape; non-numeric values drop the location.
type Snapshot struct {
	Payees            []Payee             `yaml:"payees"`
	Locations         []Location          `yaml:"locations"`
	CategoryGroups    []CategoryGroup     `yaml:"category_groups"`
	PayeeHistory      map[string][]string `yaml:"payee_history"`
	GroupTransactions []GroupTransaction  `yaml:"group_transactions"`
}

type Payee struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Transfer bool   `yaml:"transfer"`
}

type Location struct {
	PayeeID   string `yaml:"payee_id"`
	Latitude  string `yaml:"lat"`
	Longitude string `yaml:"lng"`
}

type CategoryGroup struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	Categories []Category `yaml:"categories"`
}

type Category struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Hidden  bool   `yaml:"hidden"`
	Deleted bool   `yaml:"deleted"`
}

type GroupTransaction struct {
	Purpose  string `yaml:"purpose"`
	Category string `yaml:"category"`
}

// Load reads a snapshot from a YAML file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures file: %w", err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(snap.Payees) == 0 {
		return nil, fmt.Errorf("fixtures have no payees")
	}
	return &snap, nil
}

// Dataset converts the snapshot into the engine's input types. Locations
// with non-numeric coordinates are dropped here, the same coercion the YNAB
// adapter applies.
func (s *Snapshot) Dataset() models.Dataset {
	ds := models.Dataset{
		PayeeHistory: make(map[string][]models.PayeeTransaction, len(s.PayeeHistory)),
	}

	for _, p := range s.Payees {
		ds.Payees = append(ds.Payees, models.Payee{ID: p.ID, Name: p.Name, Transfer: p.Transfer})
	}
	for _, l := range s.Locations {
		coord, ok := geo.Parse(l.Latitude, l.Longitude)
		if !ok {
			continue
		}
		ds.Locations = append(ds.Locations, models.PayeeLocation{PayeeID: l.PayeeID, Coordinate: coord})
	}
	for _, g := range s.CategoryGroups {
		group := models.CategoryGroup{ID: g.ID, Name: g.Name}
		for _, c := range g.Categories {
			group.Categories = append(group.Categories, models.Category{
				ID: c.ID, Name: c.Name, Hidden: c.Hidden, Deleted: c.Deleted,
			})
		}
		ds.CategoryGroups = append(ds.CategoryGroups, group)
	}
	for payeeID, categoryIDs := range s.PayeeHistory {
		for _, id := range categoryIDs {
			ds.PayeeHistory[payeeID] = append(ds.PayeeHistory[payeeID], models.PayeeTransaction{CategoryID: id})
		}
	}
	for _, tx := range s.GroupTransactions {
		ds.GroupTransactions = append(ds.GroupTransactions, models.GroupTransaction{
			Purpose: tx.Purpose, Category: tx.Category,
		})
	}
	return ds
}

// Print writes a short preview of the snapshot to stdout.
func (s *Snapshot) Print() {
	fmt.Printf("payees=%d locations=%d category_groups=%d group_transactions=%d\n",
		len(s.Payees), len(s.Locations), len(s.CategoryGroups), len(s.GroupTransactions))
}
