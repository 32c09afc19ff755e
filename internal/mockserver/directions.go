// ABOUTME: Route direction and route template endpoints of the mock backend
// ABOUTME: Templates can be edited in memory and turned into a generated trip skeleton
package mockserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripnara/tripnara-go/internal/models"
)

// Place IDs at or above this floor are treated as missing from the place table.
const unknownPlaceFloor = 900

func (s *Server) loadDirections() error {
	if err := json.Unmarshal(s.static["route-directions"], &s.directions); err != nil {
		return fmt.Errorf("decoding route direction fixture: %w", err)
	}
	var templates []models.RouteTemplate
	if err := json.Unmarshal(s.static["route-templates"], &templates); err != nil {
		return fmt.Errorf("decoding route template fixture: %w", err)
	}
	for i := range templates {
		t := templates[i]
		s.templates = append(s.templates, &t)
	}
	return nil
}

func (s *Server) directionRoutes(r chi.Router) {
	r.Get("/", s.queryDirections)
	r.Get("/by-country/{code}", s.directionsByCountry)
	r.Get("/templates", s.queryTemplates)
	r.Get("/templates/{id}", s.getTemplate)
	r.Put("/templates/{id}", s.updateTemplate)
	r.Post("/templates/{id}/create-trip", s.createTripFromTemplate)
	r.Get("/{id}", s.getDirection)
}

func (s *Server) queryDirections(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	country := strings.ToUpper(q.Get("countryCode"))
	var tags []string
	if t := q.Get("tags"); t != "" {
		tags = strings.Split(t, ",")
	}
	if t := q.Get("tag"); t != "" {
		tags = append(tags, t)
	}
	out := []models.RouteDirection{}
	for _, d := range s.directions {
		if country != "" && d.CountryCode != country {
			continue
		}
		if q.Get("isActive") == "true" && d.Status != "active" {
			continue
		}
		if !hasAllTags(d.Tags, tags) {
			continue
		}
		out = append(out, d)
	}
	writeData(w, out)
}

func (s *Server) getDirection(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "route direction id must be numeric")
		return
	}
	for _, d := range s.directions {
		if d.ID == id {
			writeData(w, d)
			return
		}
	}
	writeError(w, http.StatusNotFound, "ROUTE_DIRECTION_NOT_FOUND", "route direction not found")
}

func (s *Server) directionsByCountry(w http.ResponseWriter, r *http.Request) {
	country := strings.ToUpper(chi.URLParam(r, "code"))
	out := models.RouteDirectionsByCountry{Active: []models.RouteDirection{}}
	for _, d := range s.directions {
		if d.CountryCode != country {
			continue
		}
		if d.Status == "deprecated" {
			out.Deprecated = append(out.Deprecated, d)
		} else {
			out.Active = append(out.Active, d)
		}
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 && len(out.Active) > limit {
		out.Active = out.Active[:limit]
	}
	writeData(w, out)
}

func (s *Server) queryTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.RouteTemplate{}
	for _, t := range s.templates {
		if v := q.Get("routeDirectionId"); v != "" && v != strconv.FormatInt(t.RouteDirectionID, 10) {
			continue
		}
		if v := q.Get("durationDays"); v != "" && v != strconv.Itoa(t.DurationDays) {
			continue
		}
		if v := q.Get("isActive"); v != "" && v != strconv.FormatBool(t.Active()) {
			continue
		}
		out = append(out, *t)
	}
	writeData(w, out)
}

func (s *Server) template(w http.ResponseWriter, r *http.Request) (*models.RouteTemplate, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "template id must be numeric")
		return nil, false
	}
	for _, t := range s.templates {
		if t.ID == id {
			return t, true
		}
	}
	writeError(w, http.StatusNotFound, "TEMPLATE_NOT_FOUND", "route template not found")
	return nil, false
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.template(w, r); ok {
		writeData(w, t)
	}
}

func (s *Server) updateTemplate(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRouteTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid template update")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.template(w, r)
	if !ok {
		return
	}
	if req.DurationDays != nil {
		if *req.DurationDays < 1 {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "durationDays must be positive")
			return
		}
		t.DurationDays = *req.DurationDays
	}
	if req.RouteDirectionID != nil {
		t.RouteDirectionID = *req.RouteDirectionID
	}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.NameCN != nil {
		t.NameCN = *req.NameCN
	}
	if req.NameEN != nil {
		t.NameEN = *req.NameEN
	}
	if req.DayPlans != nil {
		t.DayPlans = req.DayPlans
	}
	if req.DefaultPacePreference != "" {
		t.DefaultPacePreference = req.DefaultPacePreference
	}
	if req.IsActive != nil {
		active := *req.IsActive
		t.IsActive = &active
	}
	t.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	writeData(w, t)
}

func (s *Server) createTripFromTemplate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTripFromTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid create-trip request")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	s.mu.Lock()
	t, ok := s.template(w, r)
	var tpl models.RouteTemplate
	if ok {
		tpl = *t
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	if !tpl.Active() {
		writeError(w, http.StatusConflict, "TEMPLATE_INACTIVE", "route template is not active")
		return
	}

	start, _ := time.Parse(time.DateOnly, req.StartDate)
	end, _ := time.Parse(time.DateOnly, req.EndDate)
	days := int(end.Sub(start).Hours()/24) + 1
	res := models.CreateTripFromTemplateResult{
		Trip: models.CreatedTrip{
			ID:          "trip-" + uuid.NewString()[:8],
			Destination: req.Destination,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Status:      "PLANNING",
		},
		GeneratedItems: []models.GeneratedDay{},
		Stats:          models.TemplateTripStats{TotalDays: days},
	}
	if req.TotalBudget != nil {
		res.Trip.TotalBudget = *req.TotalBudget
	}

	for _, plan := range tpl.DayPlans {
		if plan.Day < 1 || plan.Day > days {
			continue
		}
		day := models.GeneratedDay{Day: plan.Day, Date: start.AddDate(0, 0, plan.Day-1).Format(time.DateOnly), Items: []models.GeneratedItineraryItem{}}
		clock := start.AddDate(0, 0, plan.Day-1).Add(9 * time.Hour)
		for _, poi := range plan.POIs {
			if poi.ID >= unknownPlaceFloor {
				res.Stats.PlacesMissing++
				continue
			}
			minutes := 60
			if poi.DurationMinutes != nil {
				minutes = *poi.DurationMinutes
			}
			finish := clock.Add(time.Duration(minutes) * time.Minute)
			day.Items = append(day.Items, models.GeneratedItineraryItem{
				PlaceID:   poi.ID,
				Type:      "ACTIVITY",
				StartTime: clock.Format(time.RFC3339),
				EndTime:   finish.Format(time.RFC3339),
				Reason:    plan.Theme,
			})
			res.Stats.PlacesMatched++
			res.Stats.TotalItems++
			clock = finish.Add(30 * time.Minute)
		}
		res.GeneratedItems = append(res.GeneratedItems, day)
	}
	if res.Stats.PlacesMissing > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d template place(s) were not found and were skipped", res.Stats.PlacesMissing))
	}
	if days < tpl.DurationDays {
		res.Warnings = append(res.Warnings, fmt.Sprintf("trip is %d day(s) but the template plans %d; later days were dropped", days, tpl.DurationDays))
	}
	writeData(w, res)
}

func hasAllTags(have, want []string) bool {
	for _, t := range want {
		if t = strings.TrimSpace(t); t != "" && !slices.Contains(have, t) {
			return false
		}
	}
	return true
}
