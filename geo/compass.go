package geo

// compassSectors are the 8 compass keys starting at north, each 45 degrees wide.
var compassSectors = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// directionNames are the display strings for compassSectors, index for index.
var directionNames = [8]string{
	"North", "Northeast", "East", "Southeast",
	"South", "Southwest", "West", "Northwest",
}

// compassSector returns the sector index for a bearing. Sector boundaries sit
// at odd multiples of 22.5 degrees; a boundary belongs to the sector clockwise of it.
func compassSector(bearing float64) int {
	b := NormalizeBearing(bearing)
	return int((b+22.5)/45.0) % 8
}

// BearingToCompass returns the 8-way compass key (N, NE, ... NW) for a bearing.
func BearingToCompass(bearing float64) string {
	return compassSectors[compassSector(bearing)]
}

// BearingToDirectionName returns the display name ("North", "Northeast", ...)
// for a bearing. It shares sector boundaries with BearingToCompass.
func BearingToDirectionName(bearing float64) string {
	return directionNames[compassSector(bearing)]
}

// DirectionTo returns the compass key from one location to another.
func DirectionTo(from, to Location) string {
	return BearingToCompass(Bearing(from, to))
}
