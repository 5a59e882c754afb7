// Package geo provides geospatial utilities including H3 hexagonal indexing.
package geo

import (
	"fmt"

	"github.com/uber/h3-go/v4"
)

// H3Resolution defines the H3 resolution levels.
// Resolution 9: ~0.11 km² average hexagon area (~0.17 km edge)
// Resolution 11: ~2150 m² average hexagon area (~25 m edge)
type H3Resolution int

const (
	// H3ResolutionBlock is for block-level operations (resolution 9)
	H3ResolutionBlock H3Resolution = 9
	// H3ResolutionParcel is roughly one building footprint (resolution 11)
	H3ResolutionParcel H3Resolution = 11
)

// H3Index wraps H3 functionality for location bucketing.
type H3Index struct {
	resolution int
}

// NewH3Index creates a new H3 indexer with the specified resolution.
func NewH3Index(resolution H3Resolution) *H3Index {
	return &H3Index{
		resolution: int(resolution),
	}
}

// Resolution returns the configured resolution.
func (h *H3Index) Resolution() int {
	return h.resolution
}

// LatLngToCell converts a location to an H3 cell.
func (h *H3Index) LatLngToCell(l Location) h3.Cell {
	return h3.LatLngToCell(h3.LatLng{Lat: l.Lat, Lng: l.Lng}, h.resolution)
}

// CellToLocation converts an H3 cell to its center point.
func (h *H3Index) CellToLocation(cell h3.Cell) Location {
	latLng := h3.CellToLatLng(cell)
	return Location{Lat: latLng.Lat, Lng: latLng.Lng}
}

// CellString returns the H3 cell string for a location.
func (h *H3Index) CellString(l Location) string {
	return h.LatLngToCell(l).String()
}

// ValidateH3Cell validates an H3 cell string.
func ValidateH3Cell(cellStr string) error {
	index := h3.IndexFromString(cellStr)
	if index == 0 {
		return fmt.Errorf("invalid H3 cell: %s", cellStr)
	}
	return nil
}
