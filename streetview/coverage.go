// Package streetview scores how well a set of panoramic captures covers a
// property and builds street-level image URLs.
package streetview

import (
	"math"
	"sort"
	"strings"

	"github.com/mycobrun/geoengine/geo"
	"github.com/mycobrun/geoengine/validation"
)

// Capture is one panoramic image of a property.
type Capture struct {
	Heading float64 `json:"heading"`
	Pitch   float64 `json:"pitch"`
	FOV     float64 `json:"fov"`
	URL     string  `json:"url,omitempty"`
}

// Label is a qualitative coverage rating.
type Label string

const (
	LabelNone      Label = "none"
	LabelPartial   Label = "partial"
	LabelFair      Label = "fair"
	LabelGood      Label = "good"
	LabelExcellent Label = "excellent"
	LabelComplete  Label = "complete"
)

// DefaultFOV is used for recommended captures.
const DefaultFOV = 90.0

// cardinalBuckets are the headings captures are snapped to.
var cardinalBuckets = []float64{0, 90, 180, 270}

// RequiredHeadings maps a property type to the headings it must be seen
// from. Unknown types require all four cardinals.
var RequiredHeadings = map[string][]float64{
	"detached":       {0, 90, 180, 270},
	"detached_house": {0, 90, 180, 270},
	"house":          {0, 90, 180, 270},
	"corner":         {0, 90, 180, 270},
	"corner_unit":    {0, 90, 180, 270},
	"end":            {0, 90, 180},
	"end_unit":       {0, 90, 180},
	"middle":         {0, 180},
	"middle_unit":    {0, 180},
	"row_house":      {0, 180},
	"townhouse":      {0, 180},
	"front_only":     {0},
}

// Recommendation is a capture that would fill a missing heading.
type Recommendation struct {
	Heading   float64 `json:"heading"`
	Direction string  `json:"direction"`
	Capture   Capture `json:"capture"`
}

// CoverageReport summarizes directional coverage.
type CoverageReport struct {
	ScorePercent      int              `json:"score_percent"`
	RequiredHeadings  []float64        `json:"required_headings"`
	AvailableHeadings []float64        `json:"available_headings"`
	MissingHeadings   []float64        `json:"missing_headings"`
	Label             Label            `json:"label"`
	Recommendations   []Recommendation `json:"recommendations"`
}

// RequiredFor returns the required headings for a property type hint.
func RequiredFor(propertyType string) []float64 {
	key := strings.ToLower(strings.TrimSpace(propertyType))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if req, ok := RequiredHeadings[key]; ok {
		return req
	}
	return cardinalBuckets
}

// Coverage scores captures against the headings required for the property
// type. Headings are snapped to the nearest cardinal before comparison.
func Coverage(captures []Capture, propertyType string) CoverageReport {
	required := RequiredFor(propertyType)

	available := make(map[float64]bool)
	for _, c := range captures {
		available[Bucket(c.Heading)] = true
	}

	covered := 0
	missing := []float64{}
	for _, h := range required {
		if available[h] {
			covered++
		} else {
			missing = append(missing, h)
		}
	}

	score := int(math.Round(100 * float64(covered) / float64(len(required))))

	report := CoverageReport{
		ScorePercent:      score,
		RequiredHeadings:  append([]float64(nil), required...),
		AvailableHeadings: sortedKeys(available),
		MissingHeadings:   missing,
		Label:             LabelFor(score),
		Recommendations:   make([]Recommendation, 0, len(missing)),
	}
	for _, h := range missing {
		report.Recommendations = append(report.Recommendations, Recommendation{
			Heading:   h,
			Direction: geo.BearingToDirectionName(h),
			Capture:   Capture{Heading: h, Pitch: 0, FOV: DefaultFOV},
		})
	}
	return report
}

// Bucket snaps a heading to the nearest of 0, 90, 180 and 270, wrapping at
// 360. Exact ties go to the counter-clockwise cardinal, so 45 snaps to 0
// and 315 to 270.
func Bucket(heading float64) float64 {
	h := validation.NormalizeHeading(heading)
	best, bestDist := cardinalBuckets[0], math.Inf(1)
	for _, b := range cardinalBuckets {
		d := angularDistance(h, b)
		if d < bestDist || (d == bestDist && math.Mod(h-b+360, 360) < 180) {
			best, bestDist = b, d
		}
	}
	return best
}

// LabelFor maps a score to its qualitative label.
func LabelFor(score int) Label {
	switch {
	case score >= 100:
		return LabelComplete
	case score >= 75:
		return LabelExcellent
	case score >= 50:
		return LabelGood
	case score >= 25:
		return LabelFair
	case score > 0:
		return LabelPartial
	default:
		return LabelNone
	}
}

func angularDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

func sortedKeys(m map[float64]bool) []float64 {
	keys := make([]float64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	return keys
}
