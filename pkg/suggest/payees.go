package suggest

import (
	"sort"
	"strings"

	"github.com/SThor/spendform/pkg/geo"
	"github.com/SThor/spendform/pkg/models"
)

// Number of proximity-ranked payees surfaced in the "Closest to you" group.
const closestLimit = 3

// Autocomplete group labels, in display order.
const (
	GroupClosest   = "Closest to you"
	GroupSaved     = "Saved Payees"
	GroupTransfers = "Payments and Transfers"
)

// Rank orders payees by proximity to the user position, falling back to
// case-insensitive name order. The comparator is a total order: payees with a
// resolved location sort before those without (when a position is known),
// equal tiers fall through to the strict name comparison.
func Rank(payees []models.Payee, locations []models.PayeeLocation, position *geo.Coordinate) []models.Payee {
	ranked := make([]models.Payee, len(payees))
	copy(ranked, payees)

	resolved := resolveAll(ranked, locations, position)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		la, lb := resolved[a.ID], resolved[b.ID]
		if position != nil {
			if la != nil && lb != nil && la.DistanceMeters != lb.DistanceMeters {
				return la.DistanceMeters < lb.DistanceMeters
			}
			if la != nil && lb == nil {
				return true
			}
			if la == nil && lb != nil {
				return false
			}
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return ranked
}

// GroupForAutocomplete partitions payees into the autocomplete display
// groups: the closest payees, the remaining saved payees and the transfer
// payees. Every payee lands in exactly one group; empty groups are omitted.
func GroupForAutocomplete(payees []models.Payee, locations []models.PayeeLocation, position *geo.Coordinate) []models.SuggestionGroup {
	resolved := resolveAll(payees, locations, position)

	var located []models.Payee
	for _, p := range payees {
		if resolved[p.ID] != nil {
			located = append(located, p)
		}
	}
	closest := Rank(located, locations, position)
	if len(closest) > closestLimit {
		closest = closest[:closestLimit]
	}
	inClosest := make(map[string]bool, len(closest))
	for _, p := range closest {
		inClosest[p.ID] = true
	}

	var saved, transfers []models.Payee
	for _, p := range payees {
		if inClosest[p.ID] {
			continue
		}
		if p.Transfer {
			transfers = append(transfers, p)
		} else {
			saved = append(saved, p)
		}
	}

	var groups []models.SuggestionGroup
	for _, g := range []struct {
		label  string
		payees []models.Payee
	}{
		{GroupClosest, closest},
		{GroupSaved, Rank(saved, locations, position)},
		{GroupTransfers, Rank(transfers, locations, position)},
	} {
		if len(g.payees) == 0 {
			continue
		}
		items := make([]models.SuggestionItem, 0, len(g.payees))
		for _, p := range g.payees {
			items = append(items, models.SuggestionItem{Value: p.ID, Label: p.Name})
		}
		groups = append(groups, models.SuggestionGroup{Label: g.label, Items: items})
	}
	return groups
}

func resolveAll(payees []models.Payee, locations []models.PayeeLocation, position *geo.Coordinate) map[string]*models.RankedLocation {
	resolved := make(map[string]*models.RankedLocation, len(payees))
	for _, p := range payees {
		resolved[p.ID] = Closest(p.ID, locations, position)
	}
	return resolved
}
