// Package suggest contains the pure derivation core of the expense form:
// proximity ranking of payees, autocomplete grouping, category tree
// flattening and history-based category suggestions. Everything here is
// stateless and deterministic over its input snapshot, so the same inputs
// always produce the same output sequence.
package suggest

import (
	"github.com/SThor/spendform/pkg/geo"
	"github.com/SThor/spendform/pkg/models"
)

// Closest returns the nearest known location of payeeID relative to the user
// position, or nil when the position is unknown or the payee has no usable
// location. Ties keep the first-encountered location.
func Closest(payeeID string, locations []models.PayeeLocation, position *geo.Coordinate) *models.RankedLocation {
	if position == nil {
		return nil
	}

	var best *models.RankedLocation
	for _, loc := range locations {
		if loc.PayeeID != payeeID {
			continue
		}
		d := geo.Distance(loc.Coordinate, *position)
		if best == nil || d < best.DistanceMeters {
			best = &models.RankedLocation{Location: loc, DistanceMeters: d}
		}
	}
	return best
}
