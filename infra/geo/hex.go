// Package geo wraps the H3 hexagonal grid library behind a small resolver
// used by the feature pipeline and the prediction API.
package geo

import (
	"fmt"

	h3 "github.com/uber/h3-go/v4"
)

// DefaultResolution yields hexagons of roughly 0.74 km², a good fit for
// city-level demand analysis.
const DefaultResolution = 8

// Resolver derives hexagonal cells at a fixed resolution.
type Resolver struct {
	res int
}

// NewResolver returns a Resolver for the given H3 resolution.
func NewResolver(res int) (*Resolver, error) {
	if res < 0 || res > 15 {
		return nil, fmt.Errorf("h3 resolution %d out of range 0..15", res)
	}
	return &Resolver{res: res}, nil
}

// Resolution returns the configured H3 resolution.
func (r *Resolver) Resolution() int { return r.res }

// CellID returns the canonical string id of the cell containing the point.
// The derivation is deterministic for any valid coordinate pair.
func (r *Resolver) CellID(lat, lon float64) string {
	return h3.LatLngToCell(h3.NewLatLng(lat, lon), r.res).String()
}

// CellCenter returns the center coordinates of the cell containing the point.
func (r *Resolver) CellCenter(lat, lon float64) (float64, float64) {
	c := h3.CellToLatLng(h3.LatLngToCell(h3.NewLatLng(lat, lon), r.res))
	return c.Lat, c.Lng
}

// ParseCell validates a cell id in string form and returns it normalized.
func ParseCell(id string) (string, error) {
	c := h3.Cell(h3.IndexFromString(id))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid h3 cell id %q", id)
	}
	return c.String(), nil
}
