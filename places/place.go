// Package places enriches nearby and text search candidates with place
// details, computes distances from the search origin and ranks the result.
package places

import (
	"github.com/mycobrun/geoengine/geo"
	"github.com/mycobrun/geoengine/maps"
)

const (
	// MaxPhotos is the number of photo URLs resolved per place.
	MaxPhotos = 5
	// MaxReviews is the number of reviews kept per place.
	MaxReviews = 5

	fallbackPrimaryType = "establishment"
)

// BusinessStatus is the operating state reported by the provider.
type BusinessStatus string

const (
	BusinessOperational       BusinessStatus = "OPERATIONAL"
	BusinessClosedTemporarily BusinessStatus = "CLOSED_TEMPORARILY"
	BusinessClosedPermanently BusinessStatus = "CLOSED_PERMANENTLY"
	BusinessUnknown           BusinessStatus = "UNKNOWN"
)

// ParseBusinessStatus maps a provider value onto BusinessStatus.
func ParseBusinessStatus(s string) BusinessStatus {
	switch BusinessStatus(s) {
	case BusinessOperational, BusinessClosedTemporarily, BusinessClosedPermanently:
		return BusinessStatus(s)
	default:
		return BusinessUnknown
	}
}

// PrimaryTypePriority ranks place types when deriving a primary type.
// Earlier entries win.
var PrimaryTypePriority = []string{
	"tourist_attraction",
	"restaurant",
	"shopping_mall",
	"hospital",
	"school",
	"transit_station",
	"lodging",
	"amusement_park",
	"establishment",
	"point_of_interest",
}

var primaryTypeRank = func() map[string]int {
	rank := make(map[string]int, len(PrimaryTypePriority))
	for i, t := range PrimaryTypePriority {
		rank[t] = i
	}
	return rank
}()

// PrimaryType picks the highest priority type from types. With no ranked
// type it returns the first raw type, or "establishment" for none.
func PrimaryType(types []string) string {
	best, bestRank := "", len(PrimaryTypePriority)
	for _, t := range types {
		if r, ok := primaryTypeRank[t]; ok && r < bestRank {
			best, bestRank = t, r
		}
	}
	if best != "" {
		return best
	}
	if len(types) > 0 {
		return types[0]
	}
	return fallbackPrimaryType
}

// Photo is a resolved place photo.
type Photo struct {
	Reference string `json:"reference"`
	URL       string `json:"url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Review is a place review in provider relevance order.
type Review struct {
	AuthorName       string `json:"author_name"`
	Rating           int    `json:"rating"`
	RelativeTimeText string `json:"relative_time_text"`
	Text             string `json:"text"`
	Timestamp        int64  `json:"timestamp"`
}

// OpeningHours is a weekly schedule.
type OpeningHours struct {
	OpenNow     bool                 `json:"open_now"`
	WeekdayText []string             `json:"weekday_text,omitempty"`
	Periods     []maps.OpeningPeriod `json:"periods,omitempty"`
}

// Place is an enriched point of interest. DistanceMeters is always
// computed from the search origin.
type Place struct {
	PlaceID         string         `json:"place_id"`
	Name            string         `json:"name"`
	Address         string         `json:"address,omitempty"`
	Phone           string         `json:"phone,omitempty"`
	Website         string         `json:"website,omitempty"`
	Location        geo.Location   `json:"location"`
	DistanceMeters  float64        `json:"distance_meters"`
	Rating          *float64       `json:"rating,omitempty"`
	RatingCount     int            `json:"rating_count"`
	PriceLevel      *int           `json:"price_level,omitempty"`
	Types           []string       `json:"types"`
	PrimaryType     string         `json:"primary_type"`
	Photos          []Photo        `json:"photos"`
	Reviews         []Review       `json:"reviews"`
	OpeningHours    *OpeningHours  `json:"opening_hours,omitempty"`
	BusinessStatus  BusinessStatus `json:"business_status"`
	EnrichmentError string         `json:"enrichment_error,omitempty"`
}

// IsEnriched reports whether the details call succeeded for the place.
func (p Place) IsEnriched() bool {
	return p.EnrichmentError == ""
}

// Outcome is the result of enriching one candidate: either Enriched or
// Partial.
type Outcome interface {
	result() Place
}

// Enriched is a place with full details.
type Enriched struct {
	Place Place
}

// Partial is a place built from search data only because the details call
// failed or was never issued.
type Partial struct {
	Basic Place
	Cause error
}

func (e Enriched) result() Place {
	return e.Place
}

func (p Partial) result() Place {
	place := p.Basic
	place.Photos = []Photo{}
	place.Reviews = []Review{}
	place.OpeningHours = nil
	place.EnrichmentError = "details unavailable"
	if p.Cause != nil {
		place.EnrichmentError = "details unavailable: " + p.Cause.Error()
	}
	return place
}

// PlaceOf flattens an outcome into a Place. Partial outcomes carry their
// cause in EnrichmentError.
func PlaceOf(o Outcome) Place {
	return o.result()
}

// basicPlace builds a place from search candidate fields.
func basicPlace(c maps.Candidate) Place {
	return Place{
		PlaceID:        c.PlaceID,
		Name:           c.Name,
		Address:        c.Address(),
		Location:       c.Location(),
		Rating:         c.Rating,
		RatingCount:    c.UserRatingsTotal,
		PriceLevel:     c.PriceLevel,
		Types:          nonNil(c.Types),
		PrimaryType:    PrimaryType(c.Types),
		Photos:         []Photo{},
		Reviews:        []Review{},
		BusinessStatus: ParseBusinessStatus(c.BusinessStatus),
	}
}

// withDetails merges a details record into a basic place. Location and
// distance stay those of the search candidate.
func withDetails(basic Place, d *maps.PlaceDetails, photoURL func(string) string) Place {
	place := basic
	if d.Name != "" {
		place.Name = d.Name
	}
	if d.FormattedAddress != "" {
		place.Address = d.FormattedAddress
	}
	place.Phone = d.Phone()
	place.Website = d.Website
	if d.Rating != nil {
		place.Rating = d.Rating
	}
	if d.UserRatingsTotal > 0 {
		place.RatingCount = d.UserRatingsTotal
	}
	if d.PriceLevel != nil {
		place.PriceLevel = d.PriceLevel
	}
	if len(d.Types) > 0 {
		place.Types = d.Types
		place.PrimaryType = PrimaryType(d.Types)
	}
	if d.BusinessStatus != "" {
		place.BusinessStatus = ParseBusinessStatus(d.BusinessStatus)
	}
	if d.OpeningHours != nil {
		place.OpeningHours = &OpeningHours{
			OpenNow:     d.OpeningHours.OpenNow,
			WeekdayText: d.OpeningHours.WeekdayText,
			Periods:     d.OpeningHours.Periods,
		}
	}

	photos := d.Photos
	if len(photos) > MaxPhotos {
		photos = photos[:MaxPhotos]
	}
	place.Photos = make([]Photo, 0, len(photos))
	for _, ph := range photos {
		place.Photos = append(place.Photos, Photo{
			Reference: ph.Reference,
			URL:       photoURL(ph.Reference),
			Width:     min(ph.Width, maps.PhotoMaxWidth),
			Height:    min(ph.Height, maps.PhotoMaxHeight),
		})
	}

	reviews := d.Reviews
	if len(reviews) > MaxReviews {
		reviews = reviews[:MaxReviews]
	}
	place.Reviews = make([]Review, 0, len(reviews))
	for _, r := range reviews {
		place.Reviews = append(place.Reviews, Review{
			AuthorName:       r.AuthorName,
			Rating:           r.Rating,
			RelativeTimeText: r.RelativeTimeDescription,
			Text:             r.Text,
			Timestamp:        r.Time,
		})
	}

	return place
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
