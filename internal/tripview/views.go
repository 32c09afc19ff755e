// ABOUTME: Persona views over server-computed trip data: safety (Abu), pacing (Dr.Dre), repair (Neptune) and Auto
// ABOUTME: Views only select and group what the backend returned; they never derive risk or repairs themselves
package tripview

import (
	"slices"
	"strings"

	"github.com/tripnara/tripnara-go/internal/gate"
	"github.com/tripnara/tripnara-go/internal/models"
)

// SafetyItem is an itinerary item carrying at least one active risk.
type SafetyItem struct {
	Item      models.ItineraryItem
	Date      string
	Conflicts []models.TripConflict
	Alerts    []models.PersonaAlert
	Status    gate.Status
}

type SafetyView struct {
	Items []SafetyItem
	// Alerts are Abu alerts not tied to a single item.
	Alerts []models.PersonaAlert
	// Gate is the worst status across items and alerts, ALLOW when nothing is flagged.
	Gate gate.Status
}

// Abu keeps the items referenced by a conflict or by an Abu alert.
func Abu(trip *models.TripDetail, conflicts []models.TripConflict, alerts []models.PersonaAlert) SafetyView {
	byItem := make(map[string][]models.TripConflict)
	for _, c := range conflicts {
		for _, id := range c.AffectedItemIDs {
			byItem[id] = append(byItem[id], c)
		}
	}
	alertsByItem := make(map[string][]models.PersonaAlert)
	view := SafetyView{Gate: gate.Allow}
	for _, a := range alerts {
		if a.Persona != models.PersonaAbu {
			continue
		}
		view.Gate = gate.Worst(view.Gate, a.GateStatus())
		if a.Metadata != nil && a.Metadata.ItemID != "" {
			alertsByItem[a.Metadata.ItemID] = append(alertsByItem[a.Metadata.ItemID], a)
			continue
		}
		view.Alerts = append(view.Alerts, a)
	}

	eachItem(trip, func(date string, item models.ItineraryItem) {
		cs, as := byItem[item.ID], alertsByItem[item.ID]
		if len(cs) == 0 && len(as) == 0 {
			return
		}
		status := gate.Allow
		for _, c := range cs {
			status = gate.Worst(status, gate.FromSeverity(c.Severity))
		}
		for _, a := range as {
			status = gate.Worst(status, a.GateStatus())
		}
		view.Gate = gate.Worst(view.Gate, status)
		view.Items = append(view.Items, SafetyItem{Item: item, Date: date, Conflicts: cs, Alerts: as, Status: status})
	})
	return view
}

// Pacing reasons.
const (
	ReasonFatigue   = "fatigue"
	ReasonLowBuffer = "low_buffer"
)

type PacingDay struct {
	Date    string
	Metrics models.DayMetrics
	Reasons []string
	Items   []models.ItineraryItem
}

type PacingView struct {
	// Days lists only flagged days, in trip order.
	Days   []PacingDay
	Alerts []models.PersonaAlert
	Locked []string
}

// Flagged reports whether any day crossed a threshold.
func (v PacingView) Flagged() bool {
	return len(v.Days) > 0
}

// DrDre flags days whose server-reported metrics cross the thresholds.
func DrDre(trip *models.TripDetail, metrics *models.TripMetrics, alerts []models.PersonaAlert, th Thresholds, locks *LockSet) PacingView {
	itemsByDate := make(map[string][]models.ItineraryItem)
	eachItem(trip, func(date string, item models.ItineraryItem) {
		itemsByDate[date] = append(itemsByDate[date], item)
	})

	var view PacingView
	if metrics != nil {
		for _, d := range metrics.Days {
			var reasons []string
			if d.Metrics.Fatigue > th.EffortThreshold {
				reasons = append(reasons, ReasonFatigue)
			}
			if d.Metrics.Buffer < th.MinBufferMinutes {
				reasons = append(reasons, ReasonLowBuffer)
			}
			if len(reasons) == 0 {
				continue
			}
			view.Days = append(view.Days, PacingDay{Date: d.Date, Metrics: d.Metrics, Reasons: reasons, Items: itemsByDate[d.Date]})
		}
	}
	view.Alerts = byPersona(alerts, models.PersonaDrDre)
	if locks != nil {
		view.Locked = locks.IDs()
	}
	return view
}

// Repair is one Neptune suggestion attached to an item.
type Repair struct {
	Suggestion models.Suggestion
	Status     gate.Status
}

type RepairItem struct {
	Item    models.ItineraryItem
	Repairs []Repair
}

type RepairView struct {
	Items []RepairItem
	// Unscoped holds Neptune suggestions for the whole trip or a day.
	Unscoped []Repair
}

// Critical counts blocker repairs across the view.
func (v RepairView) Critical() int {
	n := 0
	for _, it := range v.Items {
		for _, r := range it.Repairs {
			if r.Status == gate.Reject {
				n++
			}
		}
	}
	for _, r := range v.Unscoped {
		if r.Status == gate.Reject {
			n++
		}
	}
	return n
}

// RepairStatus maps a suggestion severity (info, warn, blocker) onto the lattice.
func RepairStatus(severity string) gate.Status {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "blocker":
		return gate.Reject
	case "warn", "warning":
		return gate.SuggestReplace
	case "info":
		return gate.Allow
	default:
		return gate.NeedConfirm
	}
}

// Neptune groups Neptune suggestions by the item they target. Items with critical repairs come first.
func Neptune(trip *models.TripDetail, suggestions []models.Suggestion) RepairView {
	byItem := make(map[string][]Repair)
	var view RepairView
	for _, s := range suggestions {
		if s.Persona != models.PersonaNeptune {
			continue
		}
		r := Repair{Suggestion: s, Status: RepairStatus(s.Severity)}
		if s.Scope == "item" && s.ScopeID != "" {
			byItem[s.ScopeID] = append(byItem[s.ScopeID], r)
			continue
		}
		view.Unscoped = append(view.Unscoped, r)
	}

	eachItem(trip, func(_ string, item models.ItineraryItem) {
		if rs := byItem[item.ID]; len(rs) > 0 {
			sortRepairs(rs)
			view.Items = append(view.Items, RepairItem{Item: item, Repairs: rs})
		}
	})
	slices.SortStableFunc(view.Items, func(a, b RepairItem) int {
		return b.Repairs[0].Status.Rank() - a.Repairs[0].Status.Rank()
	})
	sortRepairs(view.Unscoped)
	return view
}

func sortRepairs(rs []Repair) {
	slices.SortStableFunc(rs, func(a, b Repair) int {
		return b.Status.Rank() - a.Status.Rank()
	})
}

// AutoEntry is a warning alert with its inferred status.
type AutoEntry struct {
	Alert  models.PersonaAlert
	Status gate.Status
}

// Auto keeps the warning alerts of every persona.
func Auto(alerts []models.PersonaAlert) []AutoEntry {
	var out []AutoEntry
	for _, a := range alerts {
		if !strings.EqualFold(a.Severity, "warning") {
			continue
		}
		out = append(out, AutoEntry{Alert: a, Status: a.GateStatus()})
	}
	return out
}

func byPersona(alerts []models.PersonaAlert, p models.Persona) []models.PersonaAlert {
	var out []models.PersonaAlert
	for _, a := range alerts {
		if a.Persona == p {
			out = append(out, a)
		}
	}
	return out
}

func eachItem(trip *models.TripDetail, fn func(date string, item models.ItineraryItem)) {
	if trip == nil {
		return
	}
	for _, d := range trip.Days {
		for _, it := range d.Items {
			fn(d.Date, it)
		}
	}
}
