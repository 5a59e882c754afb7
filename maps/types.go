package maps

import "github.com/mycobrun/geoengine/geo"

// Geometry wraps a provider location.
type Geometry struct {
	Location geo.Location `json:"location"`
}

// Photo is a provider photo reference.
type Photo struct {
	Reference        string   `json:"photo_reference"`
	Width            int      `json:"width"`
	Height           int      `json:"height"`
	HTMLAttributions []string `json:"html_attributions,omitempty"`
}

// Candidate is a raw place from a nearby or text search.
type Candidate struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Geometry         Geometry `json:"geometry"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	PriceLevel       *int     `json:"price_level,omitempty"`
	Types            []string `json:"types"`
	Vicinity         string   `json:"vicinity,omitempty"`
	FormattedAddress string   `json:"formatted_address,omitempty"`
	BusinessStatus   string   `json:"business_status,omitempty"`
	Photos           []Photo  `json:"photos,omitempty"`
}

// Location returns the candidate's coordinates.
func (c Candidate) Location() geo.Location {
	return c.Geometry.Location
}

// Address returns the best available address line.
func (c Candidate) Address() string {
	if c.FormattedAddress != "" {
		return c.FormattedAddress
	}
	return c.Vicinity
}

// SearchResult is the candidate list of a nearby or text search. Status is
// OK or ZERO_RESULTS.
type SearchResult struct {
	Status        string      `json:"status"`
	Candidates    []Candidate `json:"results"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

// TimeOfWeek is one end of an opening period.
type TimeOfWeek struct {
	Day  int    `json:"day"`
	Time string `json:"time"`
}

// OpeningPeriod is an open/close pair. Close is absent for places open 24/7.
type OpeningPeriod struct {
	Open  TimeOfWeek  `json:"open"`
	Close *TimeOfWeek `json:"close,omitempty"`
}

// OpeningHours is the provider's weekly schedule.
type OpeningHours struct {
	OpenNow     bool            `json:"open_now"`
	WeekdayText []string        `json:"weekday_text,omitempty"`
	Periods     []OpeningPeriod `json:"periods,omitempty"`
}

// Review is a provider review.
type Review struct {
	AuthorName              string `json:"author_name"`
	Rating                  int    `json:"rating"`
	RelativeTimeDescription string `json:"relative_time_description"`
	Text                    string `json:"text"`
	Time                    int64  `json:"time"`
	Language                string `json:"language,omitempty"`
}

// PlaceDetails is the full record returned by a place details call.
type PlaceDetails struct {
	PlaceID                  string        `json:"place_id"`
	Name                     string        `json:"name"`
	FormattedAddress         string        `json:"formatted_address"`
	FormattedPhoneNumber     string        `json:"formatted_phone_number,omitempty"`
	InternationalPhoneNumber string        `json:"international_phone_number,omitempty"`
	Website                  string        `json:"website,omitempty"`
	Geometry                 Geometry      `json:"geometry"`
	Rating                   *float64      `json:"rating,omitempty"`
	UserRatingsTotal         int           `json:"user_ratings_total"`
	PriceLevel               *int          `json:"price_level,omitempty"`
	Types                    []string      `json:"types"`
	BusinessStatus           string        `json:"business_status,omitempty"`
	OpeningHours             *OpeningHours `json:"opening_hours,omitempty"`
	Photos                   []Photo       `json:"photos,omitempty"`
	Reviews                  []Review      `json:"reviews,omitempty"`
}

// Phone returns the local phone number, falling back to the international one.
func (d PlaceDetails) Phone() string {
	if d.FormattedPhoneNumber != "" {
		return d.FormattedPhoneNumber
	}
	return d.InternationalPhoneNumber
}

// AddressComponent is one component of a geocoded address.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// GeocodeResult is a forward or reverse geocode match.
type GeocodeResult struct {
	PlaceID           string             `json:"place_id"`
	FormattedAddress  string             `json:"formatted_address"`
	Location          geo.Location       `json:"location"`
	LocationType      string             `json:"location_type,omitempty"`
	Types             []string           `json:"types"`
	AddressComponents []AddressComponent `json:"address_components"`
}

// Component returns the long name of the first component carrying typ.
func (g GeocodeResult) Component(typ string) string {
	for _, comp := range g.AddressComponents {
		for _, t := range comp.Types {
			if t == typ {
				return comp.LongName
			}
		}
	}
	return ""
}
