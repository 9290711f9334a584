package models

import "github.com/SThor/spendform/pkg/geo"

// Payee represents a recipient the user can book an expense against.
type Payee struct {
	ID       string
	Name     string
	Transfer bool
}

// PayeeLocation is a known geo position for a payee. A payee can have many.
type PayeeLocation struct {
	PayeeID    string
	Coordinate geo.Coordinate
}

// RankedLocation pairs a payee location with its distance from the user.
type RankedLocation struct {
	Location       PayeeLocation
	DistanceMeters float64
}
