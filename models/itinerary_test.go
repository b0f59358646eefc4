package models

import (
	"errors"
	"testing"
)

func twoDayItinerary() Itinerary {
	return Itinerary{
		TripSummary: "2-day trip to Rome",
		Days: []Day{
			{Day: 1, Date: "2026-10-01", Schedule: []Activity{
				{Time: "09:00", Activity: "Colosseum", Type: ActivityCultural, CostEstimate: 18},
			}},
			{Day: 2, Date: "2026-10-02", Schedule: []Activity{
				{Time: "12:00", Activity: "Trastevere lunch", Type: ActivityDining, CostEstimate: 25},
			}},
		},
		TotalEstimatedCost: 43,
		AdjustmentReasons:  []string{"initial plan"},
	}
}

func TestValidate(t *testing.T) {
	if err := twoDayItinerary().Validate(); err != nil {
		t.Errorf("valid itinerary rejected: %v", err)
	}

	if err := (Itinerary{}).Validate(); !errors.Is(err, ErrInvalidItinerary) {
		t.Errorf("empty itinerary: err = %v, want ErrInvalidItinerary", err)
	}

	bad := twoDayItinerary()
	bad.Days[1].Day = 5
	if err := bad.Validate(); err == nil {
		t.Error("mismatched day numbering accepted")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := twoDayItinerary()
	clone := orig.Clone()

	clone.Days[0].Schedule[0].Activity = "Pantheon"
	clone.Days[1].Schedule = append(clone.Days[1].Schedule, Activity{Activity: "Gelato"})
	clone.AdjustmentReasons = append(clone.AdjustmentReasons, "swapped morning stop")

	if orig.Days[0].Schedule[0].Activity != "Colosseum" {
		t.Error("clone mutation reached the original schedule entry")
	}
	if len(orig.Days[1].Schedule) != 1 {
		t.Error("clone append reached the original schedule slice")
	}
	if len(orig.AdjustmentReasons) != 1 {
		t.Error("clone append reached the original adjustment reasons")
	}
}

func TestRecomputeTotalCost(t *testing.T) {
	it := twoDayItinerary()
	if got := it.RecomputeTotalCost(); got != 43 {
		t.Errorf("RecomputeTotalCost() = %v, want 43", got)
	}

	it.Days[0].Schedule = append(it.Days[0].Schedule, Activity{CostEstimate: 7})
	if got := it.RecomputeTotalCost(); got != 50 {
		t.Errorf("after append: RecomputeTotalCost() = %v, want 50", got)
	}
	if it.TotalEstimatedCost != 43 {
		t.Error("RecomputeTotalCost mutated the stored total")
	}
}

func TestGenerationRequestDuration(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
		wantErr    bool
	}{
		{"2026-10-01", "2026-10-03", 3, false},
		{"2026-10-01", "2026-10-01", 1, false},
		{"2026-10-03", "2026-10-01", 0, true},
		{"not-a-date", "2026-10-01", 0, true},
		{"2026-10-01", "10/05/2026", 0, true},
	}
	for _, tc := range cases {
		got, err := (GenerationRequest{StartDate: tc.start, EndDate: tc.end}).Duration()
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s..%s: want error", tc.start, tc.end)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("%s..%s: got %d, %v; want %d", tc.start, tc.end, got, err, tc.want)
		}
	}
}
