package streetview

import (
	"reflect"
	"testing"
)

func TestCoverage_Detached(t *testing.T) {
	report := Coverage([]Capture{{Heading: 0}, {Heading: 88}, {Heading: 181}}, "detached")

	if report.ScorePercent != 75 {
		t.Errorf("ScorePercent = %d, want 75", report.ScorePercent)
	}
	if !reflect.DeepEqual(report.MissingHeadings, []float64{270}) {
		t.Errorf("MissingHeadings = %v, want [270]", report.MissingHeadings)
	}
	if !reflect.DeepEqual(report.AvailableHeadings, []float64{0, 90, 180}) {
		t.Errorf("AvailableHeadings = %v", report.AvailableHeadings)
	}
	if report.Label != LabelExcellent {
		t.Errorf("Label = %q, want excellent", report.Label)
	}
	if len(report.Recommendations) != 1 || report.Recommendations[0].Direction != "West" {
		t.Errorf("Recommendations = %+v", report.Recommendations)
	}
	if report.Recommendations[0].Capture.FOV != DefaultFOV {
		t.Errorf("recommended FOV = %v", report.Recommendations[0].Capture.FOV)
	}
}

func TestCoverage_PropertyTypes(t *testing.T) {
	all := []Capture{{Heading: 0}, {Heading: 90}, {Heading: 180}, {Heading: 270}}

	tests := []struct {
		name     string
		hint     string
		captures []Capture
		score    int
		label    Label
		missing  []float64
	}{
		{"end unit complete", "end_unit", all[:3], 100, LabelComplete, []float64{}},
		{"end unit one side", "End Unit", []Capture{{Heading: 355}}, 33, LabelFair, []float64{90, 180}},
		{"row house front", "row-house", []Capture{{Heading: 10}}, 50, LabelGood, []float64{180}},
		{"middle unit side captures ignored", "middle_unit", []Capture{{Heading: 90}, {Heading: 270}}, 0, LabelNone, []float64{0, 180}},
		{"front only", "front_only", []Capture{{Heading: 359.9}}, 100, LabelComplete, []float64{}},
		{"unknown hint uses cardinals", "castle", all[:1], 25, LabelFair, []float64{90, 180, 270}},
		{"no captures", "detached", nil, 0, LabelNone, []float64{0, 90, 180, 270}},
		{"duplicates count once", "corner", []Capture{{Heading: 1}, {Heading: 2}, {Heading: 358}}, 25, LabelFair, []float64{90, 180, 270}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Coverage(tt.captures, tt.hint)
			if report.ScorePercent != tt.score {
				t.Errorf("ScorePercent = %d, want %d", report.ScorePercent, tt.score)
			}
			if report.Label != tt.label {
				t.Errorf("Label = %q, want %q", report.Label, tt.label)
			}
			if !reflect.DeepEqual(report.MissingHeadings, tt.missing) {
				t.Errorf("MissingHeadings = %v, want %v", report.MissingHeadings, tt.missing)
			}
		})
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		heading float64
		want    float64
	}{
		{0, 0},
		{44, 0},
		{45, 0},
		{46, 90},
		{88, 90},
		{181, 180},
		{224, 180},
		{135, 90},
		{225, 180},
		{226, 270},
		{315, 270},
		{-45, 270},
		{316, 0},
		{359, 0},
		{-10, 0},
		{-80, 270},
		{450, 90},
	}
	for _, tt := range tests {
		if got := Bucket(tt.heading); got != tt.want {
			t.Errorf("Bucket(%v) = %v, want %v", tt.heading, got, tt.want)
		}
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		score int
		want  Label
	}{
		{100, LabelComplete},
		{99, LabelExcellent},
		{75, LabelExcellent},
		{74, LabelGood},
		{50, LabelGood},
		{49, LabelFair},
		{25, LabelFair},
		{24, LabelPartial},
		{1, LabelPartial},
		{0, LabelNone},
	}
	for _, tt := range tests {
		if got := LabelFor(tt.score); got != tt.want {
			t.Errorf("LabelFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
