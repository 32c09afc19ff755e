// ABOUTME: Route directions (curated regional routes) and the day-by-day templates derived from them
// ABOUTME: Templates seed new trips; the server fills the itinerary from the template's POIs
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Seasonality struct {
	BestMonths  []int             `json:"bestMonths"`
	AvoidMonths []int             `json:"avoidMonths"`
	Weather     map[string]string `json:"weather,omitempty"`
}

type RouteRiskProfile struct {
	Level            string   `json:"level"`
	Factors          []string `json:"factors"`
	AltitudeSickness bool     `json:"altitudeSickness,omitempty"`
	RoadClosure      bool     `json:"roadClosure,omitempty"`
}

type SignaturePOI struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type SkeletonDay struct {
	Day        int      `json:"day"`
	Regions    []string `json:"regions"`
	Highlights []string `json:"highlights"`
}

type ItinerarySkeleton struct {
	Days      int           `json:"days"`
	DailyPlan []SkeletonDay `json:"dailyPlan"`
}

type RouteDirection struct {
	ID                int64              `json:"id"`
	UUID              string             `json:"uuid"`
	CountryCode       string             `json:"countryCode"`
	Name              string             `json:"name"`
	NameCN            string             `json:"nameCN"`
	NameEN            string             `json:"nameEN,omitempty"`
	Description       string             `json:"description,omitempty"`
	Tags              []string           `json:"tags"`
	Regions           []string           `json:"regions"`
	Seasonality       *Seasonality       `json:"seasonality,omitempty"`
	Constraints       json.RawMessage    `json:"constraints,omitempty"`
	RiskProfile       *RouteRiskProfile  `json:"riskProfile,omitempty"`
	SignaturePOIs     []SignaturePOI     `json:"signaturePois,omitempty"`
	ItinerarySkeleton *ItinerarySkeleton `json:"itinerarySkeleton,omitempty"`
	EntryHubs         []string           `json:"entryHubs,omitempty"`
	Status            string             `json:"status,omitempty"`
	CreatedAt         string             `json:"createdAt,omitempty"`
	UpdatedAt         string             `json:"updatedAt,omitempty"`
}

// DisplayName prefers the Chinese name, then English, then the internal name.
func (d RouteDirection) DisplayName() string {
	switch {
	case d.NameCN != "":
		return d.NameCN
	case d.NameEN != "":
		return d.NameEN
	}
	return d.Name
}

// Ref is the short form embedded in templates.
func (d RouteDirection) Ref() *RouteDirectionRef {
	return &RouteDirectionRef{ID: d.ID, NameCN: d.NameCN, NameEN: d.NameEN, CountryCode: d.CountryCode, Tags: d.Tags}
}

// RouteDirectionQuery filters GET /route-directions. Tags are sent comma-joined.
type RouteDirectionQuery struct {
	CountryCode string
	Tag         string
	Tags        []string
	IsActive    *bool
	Month       int
}

type RouteDirectionCard struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	NameCN         string   `json:"nameCN"`
	NameEN         string   `json:"nameEN,omitempty"`
	Description    string   `json:"description,omitempty"`
	Tags           []string `json:"tags"`
	Score          *float64 `json:"score,omitempty"`
	MatchedSignals []string `json:"matchedSignals,omitempty"`
	Seasonality    *struct {
		IsBestMonth bool `json:"isBestMonth"`
		Month       int  `json:"month"`
	} `json:"seasonality,omitempty"`
}

// RouteMatchQuery ranks directions of one country against traveller preferences.
type RouteMatchQuery struct {
	CountryCode   string
	Month         int
	Preferences   []string
	Pace          string
	RiskTolerance string
}

type RouteDirectionInteraction struct {
	Direction      RouteDirectionCard `json:"direction"`
	Score          float64            `json:"score"`
	ScoreBreakdown json.RawMessage    `json:"scoreBreakdown,omitempty"`
	Explanation    string             `json:"explanation"`
	WhyNotOthers   []struct {
		RouteID int64  `json:"routeId"`
		Reason  string `json:"reason"`
	} `json:"whyNotOthers,omitempty"`
}

type RouteDirectionInteractions struct {
	Directions  []RouteDirectionInteraction `json:"directions"`
	CountryCode string                      `json:"countryCode"`
	Month       int                         `json:"month,omitempty"`
	Preferences []string                    `json:"preferences"`
}

type RouteDirectionsByCountry struct {
	Active     []RouteDirection `json:"active"`
	Deprecated []RouteDirection `json:"deprecated,omitempty"`
}

type DayPlanPOI struct {
	ID              int64           `json:"id"`
	UUID            string          `json:"uuid,omitempty"`
	NameCN          string          `json:"nameCN"`
	NameEN          string          `json:"nameEN,omitempty"`
	Category        string          `json:"category,omitempty"`
	Address         string          `json:"address,omitempty"`
	Rating          *float64        `json:"rating,omitempty"`
	Description     string          `json:"description,omitempty"`
	Required        bool            `json:"required,omitempty"`
	Order           *int            `json:"order,omitempty"`
	DurationMinutes *int            `json:"durationMinutes,omitempty"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
}

type DayPlan struct {
	Day                int          `json:"day"`
	Theme              string       `json:"theme,omitempty"`
	MaxIntensity       string       `json:"maxIntensity,omitempty"`
	MaxElevationM      *float64     `json:"maxElevationM,omitempty"`
	OptionalActivities []string     `json:"optionalActivities,omitempty"`
	POIs               []DayPlanPOI `json:"pois,omitempty"`
}

type RouteDirectionRef struct {
	ID          int64    `json:"id"`
	NameCN      string   `json:"nameCN"`
	NameEN      string   `json:"nameEN,omitempty"`
	CountryCode string   `json:"countryCode"`
	Tags        []string `json:"tags,omitempty"`
}

type RouteTemplate struct {
	ID                    int64              `json:"id"`
	UUID                  string             `json:"uuid"`
	RouteDirectionID      int64              `json:"routeDirectionId"`
	DurationDays          int                `json:"durationDays"`
	Name                  string             `json:"name,omitempty"`
	NameCN                string             `json:"nameCN,omitempty"`
	NameEN                string             `json:"nameEN,omitempty"`
	DayPlans              []DayPlan          `json:"dayPlans"`
	DefaultPacePreference string             `json:"defaultPacePreference,omitempty"`
	Metadata              json.RawMessage    `json:"metadata,omitempty"`
	IsActive              *bool              `json:"isActive,omitempty"`
	CreatedAt             string             `json:"createdAt,omitempty"`
	UpdatedAt             string             `json:"updatedAt,omitempty"`
	RouteDirection        *RouteDirectionRef `json:"routeDirection,omitempty"`
}

// Active treats a missing flag as active.
func (t RouteTemplate) Active() bool {
	return t.IsActive == nil || *t.IsActive
}

// DisplayName prefers the Chinese name, then English, then the compatibility name.
func (t RouteTemplate) DisplayName() string {
	switch {
	case t.NameCN != "":
		return t.NameCN
	case t.NameEN != "":
		return t.NameEN
	case t.Name != "":
		return t.Name
	}
	return fmt.Sprintf("template %d", t.ID)
}

// CountryCode comes from the embedded direction when the server included it.
func (t RouteTemplate) CountryCode() string {
	if t.RouteDirection == nil {
		return ""
	}
	return t.RouteDirection.CountryCode
}

// POICount counts POIs across every day plan.
func (t RouteTemplate) POICount() int {
	n := 0
	for _, d := range t.DayPlans {
		n += len(d.POIs)
	}
	return n
}

// TemplateEndDate returns the inclusive last day of a trip of days days starting at start (YYYY-MM-DD).
func TemplateEndDate(start string, days int) (string, error) {
	if days < 1 {
		return "", fmt.Errorf("template duration must be at least one day, got %d", days)
	}
	t, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return "", fmt.Errorf("start date %q: %w", start, err)
	}
	return t.AddDate(0, 0, days-1).Format(time.DateOnly), nil
}

// RouteTemplateQuery filters GET /route-directions/templates.
type RouteTemplateQuery struct {
	RouteDirectionID int64
	DurationDays     int
	IsActive         *bool
	Limit            int
	Offset           int
}

type UpdateRouteTemplateRequest struct {
	RouteDirectionID      *int64          `json:"routeDirectionId,omitempty"`
	DurationDays          *int            `json:"durationDays,omitempty"`
	Name                  *string         `json:"name,omitempty"`
	NameCN                *string         `json:"nameCN,omitempty"`
	NameEN                *string         `json:"nameEN,omitempty"`
	DayPlans              []DayPlan       `json:"dayPlans,omitempty"`
	DefaultPacePreference string          `json:"defaultPacePreference,omitempty"`
	Metadata              json.RawMessage `json:"metadata,omitempty"`
	IsActive              *bool           `json:"isActive,omitempty"`
}

type TemplateTraveler struct {
	Type        string `json:"type"`
	MobilityTag string `json:"mobilityTag"`
}

type TemplateTripConstraints struct {
	WithChildren        bool     `json:"withChildren,omitempty"`
	WithElderly         bool     `json:"withElderly,omitempty"`
	EarlyRiser          bool     `json:"earlyRiser,omitempty"`
	DietaryRestrictions []string `json:"dietaryRestrictions,omitempty"`
	AvoidCategories     []string `json:"avoidCategories,omitempty"`
}

type CreateTripFromTemplateRequest struct {
	Destination    string                   `json:"destination"`
	StartDate      string                   `json:"startDate"`
	EndDate        string                   `json:"endDate"`
	TotalBudget    *decimal.Decimal         `json:"totalBudget,omitempty"`
	PacePreference string                   `json:"pacePreference,omitempty"`
	Intensity      string                   `json:"intensity,omitempty"`
	Transport      string                   `json:"transport,omitempty"`
	Travelers      []TemplateTraveler       `json:"travelers,omitempty"`
	Constraints    *TemplateTripConstraints `json:"constraints,omitempty"`
}

// Validate checks the fields the server requires.
func (r CreateTripFromTemplateRequest) Validate() error {
	if r.Destination == "" || r.StartDate == "" || r.EndDate == "" {
		return fmt.Errorf("destination, start date and end date are required")
	}
	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return fmt.Errorf("start date %q: %w", r.StartDate, err)
	}
	end, err := time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		return fmt.Errorf("end date %q: %w", r.EndDate, err)
	}
	if end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s", r.EndDate, r.StartDate)
	}
	return nil
}

type GeneratedItineraryItem struct {
	PlaceID   int64  `json:"placeId"`
	Type      string `json:"type"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Note      string `json:"note,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type GeneratedDay struct {
	Day   int                      `json:"day"`
	Date  string                   `json:"date"`
	Items []GeneratedItineraryItem `json:"items"`
}

type TemplateTripStats struct {
	TotalDays     int `json:"totalDays"`
	TotalItems    int `json:"totalItems"`
	PlacesMatched int `json:"placesMatched"`
	PlacesMissing int `json:"placesMissing"`
}

type CreatedTrip struct {
	ID          string          `json:"id"`
	Destination string          `json:"destination"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	TotalBudget decimal.Decimal `json:"totalBudget"`
	Status      string          `json:"status"`
}

type CreateTripFromTemplateResult struct {
	Trip           CreatedTrip       `json:"trip"`
	GeneratedItems []GeneratedDay    `json:"generatedItems"`
	Stats          TemplateTripStats `json:"stats"`
	Warnings       []string          `json:"warnings,omitempty"`
}
