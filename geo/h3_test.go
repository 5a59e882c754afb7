// Package geo provides geospatial utilities including H3 hexagonal indexing.
package geo

import (
	"testing"
)

func TestNewH3Index(t *testing.T) {
	idx := NewH3Index(H3ResolutionParcel)
	if idx == nil {
		t.Fatal("NewH3Index returned nil")
	}
	if idx.Resolution() != 11 {
		t.Errorf("expected resolution 11, got %d", idx.Resolution())
	}
}

func TestH3Index_CellString(t *testing.T) {
	idx := NewH3Index(H3ResolutionParcel)

	cell := idx.CellString(bangkok)
	if cell == "" {
		t.Fatal("CellString returned empty string")
	}
	if err := ValidateH3Cell(cell); err != nil {
		t.Errorf("CellString returned invalid cell: %v", err)
	}

	// A few meters away lands in the same parcel-sized cell most of the time,
	// but the exact same point must always match.
	if idx.CellString(bangkok) != cell {
		t.Error("same point should return same cell")
	}
}

func TestH3Index_CellToLocation(t *testing.T) {
	idx := NewH3Index(H3ResolutionBlock)

	cell := idx.LatLngToCell(bangkok)
	center := idx.CellToLocation(cell)

	if d := DistanceMeters(bangkok, center); d > 500 {
		t.Errorf("cell center too far from original: %f meters", d)
	}
}

func TestValidateH3Cell(t *testing.T) {
	if err := ValidateH3Cell("not-a-cell"); err == nil {
		t.Error("expected error for invalid cell")
	}
}
