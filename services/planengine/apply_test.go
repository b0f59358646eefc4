package planengine

import (
	"reflect"
	"testing"

	"tripmate/models"
)

func sampleItinerary() models.Itinerary {
	return models.Itinerary{
		TripSummary:        "2-day trip to Paris with a budget of $900",
		TotalEstimatedCost: 450,
		Days: []models.Day{
			{
				Day:  1,
				Date: "2026-09-01",
				Schedule: []models.Activity{
					{Time: "09:00", Activity: "Visit Louvre Museum", Type: models.ActivityCultural, Duration: "3h", CostEstimate: 20, Location: models.GeoPoint{Lat: 48.8606, Lng: 2.3376}, Notes: "Book skip-the-line tickets online."},
					{Time: "13:00", Activity: "Lunch at Le Marais", Type: models.ActivityDining, Duration: "1h", CostEstimate: 35},
				},
			},
			{
				Day:  2,
				Date: "2026-09-02",
				Schedule: []models.Activity{
					{Time: "10:00", Activity: "Eiffel Tower", Type: models.ActivitySightseeing, Duration: "2h", CostEstimate: 30},
				},
			},
		},
		MapPoints:         []models.MapPoint{{Name: "Louvre Museum", Lat: 48.8606, Lng: 2.3376}},
		AdjustmentReasons: []string{},
		BookingLinks:      []string{},
		Warnings:          []string{},
	}
}

func strp(s string) *string   { return &s }
func fltp(f float64) *float64 { return &f }

func fullPatch(name string) models.ActivityPatch {
	return models.ActivityPatch{
		Time:         strp("16:00"),
		Activity:     strp(name),
		Type:         strp(models.ActivityOutdoor),
		Duration:     strp("2h"),
		CostEstimate: fltp(12),
		Location:     &models.GeoPoint{Lat: 48.85, Lng: 2.35},
		Notes:        strp("Bring water"),
	}
}

func TestApplyEdit_AddAppendsToTargetDayOnly(t *testing.T) {
	engine := &DefaultPlanEngine{}
	doc := sampleItinerary()

	updated, outcome := engine.ApplyEdit(doc, models.EditInstruction{
		EditType:    models.EditAdd,
		Day:         1,
		NewActivity: fullPatch("Seine river walk"),
	})

	if !outcome.Applied {
		t.Fatalf("expected edit to apply, got reason %q", outcome.Reason)
	}
	if got, want := len(updated.Days[0].Schedule), len(doc.Days[0].Schedule)+1; got != want {
		t.Fatalf("day 1 schedule length = %d, want %d", got, want)
	}
	last := updated.Days[0].Schedule[len(updated.Days[0].Schedule)-1]
	if last.Activity != "Seine river walk" || last.Time != "16:00" {
		t.Errorf("appended activity = %+v", last)
	}
	if !reflect.DeepEqual(updated.Days[1], doc.Days[1]) {
		t.Error("day 2 should be untouched by an add to day 1")
	}
	wantNote := "Added activity to day 1"
	if got := updated.AdjustmentReasons[len(updated.AdjustmentReasons)-1]; got != wantNote {
		t.Errorf("adjustment note = %q, want %q", got, wantNote)
	}
}

func TestApplyEdit_AddDoesNotMutateInput(t *testing.T) {
	engine := &DefaultPlanEngine{}
	doc := sampleItinerary()
	before := sampleItinerary()

	engine.ApplyEdit(doc, models.EditInstruction{
		EditType:    models.EditAdd,
		Day:         1,
		NewActivity: fullPatch("Seine river walk"),
	})

	if !reflect.DeepEqual(doc, before) {
		t.Error("input document was mutated in place")
	}
}

func TestApplyEdit_DayOutOfRangeIsNoOp(t *testing.T) {
	engine := &DefaultPlanEngine{}
	doc := sampleItinerary()

	updated, outcome := engine.ApplyEdit(doc, models.EditInstruction{
		EditType:    models.EditAdd,
		Day:         7,
		NewActivity: fullPatch("Ghost activity"),
	})

	if outcome.Applied {
		t.Fatal("edit to a nonexistent day must not apply")
	}
	if outcome.Reason != models.ReasonTargetOutOfRange {
		t.Errorf("reason = %q, want %q", outcome.Reason, models.ReasonTargetOutOfRange)
	}
	if !reflect.DeepEqual(updated, doc) {
		t.Error("document changed despite out-of-range target")
	}
}

func TestApplyEdit_RemoveDeletesByIndex(t *testing.T) {
	engine := &DefaultPlanEngine{}
	doc := sampleItinerary()

	updated, outcome := engine.ApplyEdit(doc, models.EditInstruction{
		EditType:      models.EditRemove,
		Day:           1,
		ActivityIndex: 0,
	})

	if !outcome.Applied {
		t.Fatalf("expected remove to apply, got reason %q", outcome.Reason)
	}
	if len(updated.Days[0].Schedule) != 1 {
		t.Fatalf("day 1 schedule length = %d, want 1", len(updated.Days[0].Schedule))
	}
	if updated.Days[0].Schedule[0].Activity != "Lunch at Le Marais" {
		t.Errorf("wrong activity removed, remaining %q", updated.Days[0].Schedule[0].Activity)
	}
	wantNote := "Removed activity from day 1"
	if got := updated.AdjustmentReasons[len(updated.AdjustmentReasons)-1]; got != wantNote {
		t.Errorf("adjustment note = %q, want %q", got, wantNote)
	}
}

func TestApplyEdit_RemoveIndexOutOfRangeIsNoOp(t *testing.T) {
	engine := &DefaultPlanEngine{}
	doc := sampleItinerary()

	for _, idx := range []int{-1, 2, 99} {
		updated, outcome := engine.ApplyEdit(doc, models.EditInstruction{
			EditType:      models.EditRemove,
			Day:           1,
			ActivityIndex: idx,
		})
		if outcome.Applied {
			t.Errorf("index %d: remove must not apply", idx)
		}
		if !reflect.DeepEqual(updated, doc) {
			t.Errorf("index %d: document changed", idx)
		}
	}
}

// Removing and re-adding the same activity restores the schedule length but
// not necessarily its order: adds always append.
func TestApplyEdit_RemoveThenAddRestoresLengthNotOrder(t *testing.T) {
	engine := &DefaultPlanEngine{}
	doc := sampleItinerary()
	originalLen := len(doc.Days[0].Schedule)
	first := doc.Days[0].Schedule[0]

	removed, outcome := engine.ApplyEdit(doc, models.EditInstruction{
		EditType:      models.EditRemove,
		Day:           1,
		ActivityIndex: 0,
	})
	if !outcome.Applied {
		t.Fatal("remove did not apply")
	}

	patch := models.ActivityPatch{
		Time:         strp(first.Time),
		Activity:     strp(first.Activity),
		Type:         strp(first.Type),
		Duration:     strp(first.Duration),
		CostEstimate: fltp(first.CostEstimate),
		Location:     &first.Location,
		Notes:        strp(first.Notes),
	}
	readded, outcome := engine.ApplyEdit(removed, models.EditInstruction{
		EditType:    models.EditAdd,
		Day:         1,
		NewActivity: patch,
	})
	if !outcome.Applied {
		t.Fatal("re-add did not apply")
	}

	if len(readded.Days[0].Schedule) != originalLen {
		t.Fatalf("schedule length = %d, want %d", len(readded.Days[0].Schedule), originalLen)
	}
	if readded.Days[0].Schedule[0].Activity == first.Activity {
		t.Error("re-added activity landed back at index 0; adds should append")
	}
}

func TestApplyEdit_ModifyMergesOnlySpecifiedFields(t *testing.T) {
	engine := &DefaultPlanEngine{}
	doc := sampleItinerary()

	updated, outcome := engine.ApplyEdit(doc, models.EditInstruction{
		EditType:      models.EditModify,
		Day:           1,
		ActivityIndex: 0,
		NewActivity: models.ActivityPatch{
			Time:         strp("11:00"),
			CostEstimate: fltp(0),
		},
	})

	if !outcome.Applied {
		t.Fatalf("expected modify to apply, got reason %q", outcome.Reason)
	}
	got := updated.Days[0].Schedule[0]
	if got.Time != "11:00" {
		t.Errorf("time = %q, want 11:00", got.Time)
	}
	if got.CostEstimate != 0 {
		t.Errorf("cost = %v, want 0", got.CostEstimate)
	}
	// Untouched fields keep their values.
	if got.Activity != "Visit Louvre Museum" || got.Type != models.ActivityCultural || got.Notes != "Book skip-the-line tickets online." {
		t.Errorf("unspecified fields changed: %+v", got)
	}
	wantNote := "Modified activity on day 1"
	if gotNote := updated.AdjustmentReasons[len(updated.AdjustmentReasons)-1]; gotNote != wantNote {
		t.Errorf("adjustment note = %q, want %q", gotNote, wantNote)
	}
}

func TestApplyEdit_MoveIsExplicitlyUnimplemented(t *testing.T) {
	engine := &DefaultPlanEngine{}
	doc := sampleItinerary()

	for _, et := range []models.EditType{models.EditMove, models.EditReschedule} {
		updated, outcome := engine.ApplyEdit(doc, models.EditInstruction{
			EditType:      et,
			Day:           1,
			ActivityIndex: 0,
		})
		if outcome.Applied {
			t.Errorf("%s: must not apply", et)
		}
		if outcome.Reason != models.ReasonNotImplemented {
			t.Errorf("%s: reason = %q, want %q", et, outcome.Reason, models.ReasonNotImplemented)
		}
		if !reflect.DeepEqual(updated, doc) {
			t.Errorf("%s: document changed", et)
		}
	}
}

func TestApplyEdit_NeverRecomputesTotalCost(t *testing.T) {
	engine := &DefaultPlanEngine{}
	doc := sampleItinerary()

	updated, _ := engine.ApplyEdit(doc, models.EditInstruction{
		EditType:    models.EditAdd,
		Day:         1,
		NewActivity: fullPatch("Expensive dinner"),
	})

	if updated.TotalEstimatedCost != doc.TotalEstimatedCost {
		t.Errorf("total cost changed from %v to %v; it is advisory", doc.TotalEstimatedCost, updated.TotalEstimatedCost)
	}
	// Callers that want a derived total opt in explicitly.
	want := doc.RecomputeTotalCost() + 12
	if got := updated.RecomputeTotalCost(); got != want {
		t.Errorf("RecomputeTotalCost = %v, want %v", got, want)
	}
}
