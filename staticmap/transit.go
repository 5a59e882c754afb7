package staticmap

import (
	"strings"

	"github.com/mycobrun/geoengine/geo"
)

// TransitStyle is how one transit type is drawn and named.
type TransitStyle struct {
	Color       string `json:"color"`
	Label       string `json:"label"`
	DisplayName string `json:"display_name"`
}

// TransitStyles is the single lookup table for transit markers and legends.
var TransitStyles = map[string]TransitStyle{
	"bts":     {Color: "blue", Label: "B", DisplayName: "BTS Skytrain"},
	"mrt":     {Color: "purple", Label: "M", DisplayName: "MRT Subway"},
	"bus":     {Color: "green", Label: "S", DisplayName: "Bus Stop"},
	"taxi":    {Color: "yellow", Label: "T", DisplayName: "Taxi Stand"},
	"train":   {Color: "red", Label: "R", DisplayName: "Train Station"},
	"ferry":   {Color: "cyan", Label: "F", DisplayName: "Ferry Pier"},
	"airport": {Color: "orange", Label: "A", DisplayName: "Airport"},
}

// UnknownTransitStyle is used for types missing from TransitStyles.
var UnknownTransitStyle = TransitStyle{Color: "gray", Label: "X", DisplayName: "Other"}

// TransitStyleFor returns the style for a transit type, case-insensitively.
func TransitStyleFor(transitType string) TransitStyle {
	if s, ok := TransitStyles[strings.ToLower(strings.TrimSpace(transitType))]; ok {
		return s
	}
	return UnknownTransitStyle
}

// TransitStop is a transportation stop near a property.
type TransitStop struct {
	Location geo.Location `json:"location"`
	Type     string       `json:"type"`
	Name     string       `json:"name,omitempty"`
}

// LegendEntry describes one transit type shown on a transportation map.
type LegendEntry struct {
	Type string `json:"type"`
	TransitStyle
	Count int `json:"count"`
}

// TransitLegend lists the transit types present in stops in order of first
// appearance. Unknown types share one "other" entry.
func TransitLegend(stops []TransitStop) []LegendEntry {
	index := make(map[string]int)
	var legend []LegendEntry
	for _, stop := range stops {
		key := strings.ToLower(strings.TrimSpace(stop.Type))
		if _, ok := TransitStyles[key]; !ok {
			key = "other"
		}
		if i, ok := index[key]; ok {
			legend[i].Count++
			continue
		}
		index[key] = len(legend)
		legend = append(legend, LegendEntry{Type: key, TransitStyle: TransitStyleFor(key), Count: 1})
	}
	return legend
}
