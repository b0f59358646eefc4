package models

import (
	"errors"
	"fmt"
	"time"
)

// GeoPoint is a plain lat/lng coordinate pair.
type GeoPoint struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// MapPoint is a named coordinate shown on the trip map.
type MapPoint struct {
	Name string  `bson:"name" json:"name"`
	Lat  float64 `bson:"lat" json:"lat"`
	Lng  float64 `bson:"lng" json:"lng"`
}

// Activity type values accepted in a schedule entry.
const (
	ActivityCultural      = "cultural"
	ActivityDining        = "dining"
	ActivitySightseeing   = "sightseeing"
	ActivityEntertainment = "entertainment"
	ActivityShopping      = "shopping"
	ActivityOutdoor       = "outdoor"
)

// Activity is a single scheduled item within a day.
type Activity struct {
	Time         string   `bson:"time" json:"time"`         // "HH:MM"
	Activity     string   `bson:"activity" json:"activity"` // display name
	Type         string   `bson:"type" json:"type"`
	Duration     string   `bson:"duration" json:"duration"` // "<N>h"
	CostEstimate float64  `bson:"cost_estimate" json:"cost_estimate"`
	Location     GeoPoint `bson:"location" json:"location"`
	Notes        string   `bson:"notes" json:"notes"`
}

// Day holds the chronological schedule for one trip day. Day numbers are
// 1-based and must match the day's position in the itinerary.
type Day struct {
	Day      int        `bson:"day" json:"day"`
	Date     string     `bson:"date" json:"date"` // "YYYY-MM-DD"
	Schedule []Activity `bson:"schedule" json:"schedule"`
}

// Itinerary is the structured multi-day plan being generated and edited.
// The number of days is fixed at generation time; chat edits only grow or
// shrink the per-day schedules. Engine code treats an Itinerary as an
// immutable value: edits are applied to a clone and the new value returned.
type Itinerary struct {
	TripSummary        string     `bson:"trip_summary" json:"trip_summary"`
	Days               []Day      `bson:"days" json:"days"`
	TotalEstimatedCost float64    `bson:"total_estimated_cost" json:"total_estimated_cost"`
	MapPoints          []MapPoint `bson:"map_points" json:"map_points"`
	AdjustmentReasons  []string   `bson:"adjustment_reasons" json:"adjustment_reasons"`
	BookingLinks       []string   `bson:"booking_links" json:"booking_links"`
	Warnings           []string   `bson:"warnings" json:"warnings"`
}

// ErrInvalidItinerary signals an itinerary that violates the document shape
// contract (no days). This is an upstream contract breach, never a normal
// runtime condition.
var ErrInvalidItinerary = errors.New("itinerary document has no days")

// Validate checks the document shape precondition: the itinerary must carry
// at least one day and every day number must match its 1-based position.
func (it Itinerary) Validate() error {
	if len(it.Days) == 0 {
		return ErrInvalidItinerary
	}
	for i, d := range it.Days {
		if d.Day != i+1 {
			return fmt.Errorf("day at position %d carries number %d", i+1, d.Day)
		}
	}
	return nil
}

// Clone returns a deep copy of the itinerary. Schedules and the other
// slices are copied so mutations of the clone never reach the original.
func (it Itinerary) Clone() Itinerary {
	out := it
	out.Days = make([]Day, len(it.Days))
	for i, d := range it.Days {
		nd := d
		nd.Schedule = append([]Activity(nil), d.Schedule...)
		out.Days[i] = nd
	}
	out.MapPoints = append([]MapPoint(nil), it.MapPoints...)
	out.AdjustmentReasons = append([]string(nil), it.AdjustmentReasons...)
	out.BookingLinks = append([]string(nil), it.BookingLinks...)
	out.Warnings = append([]string(nil), it.Warnings...)
	return out
}

// RecomputeTotalCost sums every activity's cost estimate. The applier never
// calls this: TotalEstimatedCost stays advisory after edits, and callers
// that want a derived total opt in explicitly.
func (it Itinerary) RecomputeTotalCost() float64 {
	var total float64
	for _, d := range it.Days {
		for _, a := range d.Schedule {
			total += a.CostEstimate
		}
	}
	return total
}

// StoredItinerary is the persisted row wrapping an itinerary document with
// the request parameters it was generated from.
type StoredItinerary struct {
	ID          string            `bson:"id" json:"id"`
	Title       string            `bson:"title" json:"title"`
	Destination string            `bson:"destination" json:"destination"`
	StartDate   string            `bson:"start_date" json:"start_date"`
	EndDate     string            `bson:"end_date" json:"end_date"`
	Budget      float64           `bson:"budget" json:"budget"`
	Interests   []string          `bson:"interests" json:"interests"`
	Constraints map[string]string `bson:"constraints" json:"constraints"`
	Data        Itinerary         `bson:"itinerary_data" json:"itinerary_data"`
	IsActive    bool              `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `bson:"updated_at" json:"updated_at"`
}

// GenerationRequest is the input for generating a fresh itinerary.
type GenerationRequest struct {
	Destination string            `json:"destination" binding:"required"`
	StartDate   string            `json:"start_date" binding:"required"`
	EndDate     string            `json:"end_date" binding:"required"`
	Budget      float64           `json:"budget" binding:"required"`
	Interests   []string          `json:"interests"`
	Constraints map[string]string `json:"constraints"`
}

// Duration returns the trip length in days, inclusive of both endpoints.
func (r GenerationRequest) Duration() (int, error) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end_date: %w", err)
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 0, errors.New("end_date precedes start_date")
	}
	return days, nil
}
