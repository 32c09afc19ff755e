// ABOUTME: Decision-draft endpoints of the mock backend: read, explain, replay, versions and edits
// ABOUTME: Step edits mutate the in-memory draft and append a version snapshot
package mockserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tripnara/tripnara-go/internal/gate"
	"github.com/tripnara/tripnara-go/internal/models"
)

func snapshot(d *models.DecisionDraft, n int, desc string) models.DecisionDraftVersion {
	steps := make([]models.DecisionStep, len(d.DecisionSteps))
	copy(steps, d.DecisionSteps)
	return models.DecisionDraftVersion{
		VersionID:     fmt.Sprintf("v%d", n),
		DraftID:       d.DraftID,
		VersionNumber: n,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		CreatedBy:     "mock",
		Description:   desc,
		DecisionSteps: steps,
	}
}

func (s *Server) getDraft(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.draft(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "DRAFT_NOT_FOUND", err.Error())
		return
	}
	out := *d
	if mode := models.UserMode(r.URL.Query().Get("mode")); mode.Valid() {
		out.UserMode = mode
	}
	writeData(w, map[string]any{"draft": out})
}

func (s *Server) explanation(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.draft(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "DRAFT_NOT_FOUND", err.Error())
		return
	}
	ex := models.Explanation{
		Summary:       fmt.Sprintf("%d decisions shaped this plan.", len(d.DecisionSteps)),
		DecisionCount: len(d.DecisionSteps),
	}
	for _, st := range d.DecisionSteps {
		if st.GateStatus() != gate.Allow {
			ex.KeyDecisions = append(ex.KeyDecisions, st)
		}
	}
	if models.UserMode(r.URL.Query().Get("mode")) == models.ModeExpert {
		ex.DecisionSteps = d.DecisionSteps
		for _, st := range d.DecisionSteps {
			ex.EvidenceChain = append(ex.EvidenceChain, st.Evidence...)
		}
	}
	writeData(w, map[string]any{"explanation": ex})
}

// replay emits one timeline item per step, in draft order.
func (s *Server) replay(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.draft(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "DRAFT_NOT_FOUND", err.Error())
		return
	}
	start, _ := time.Parse(time.RFC3339, d.Metadata.CreatedAt)
	rp := models.DecisionReplay{Timeline: make([]models.ReplayTimelineItem, 0, len(d.DecisionSteps))}
	for i := range d.DecisionSteps {
		st := d.DecisionSteps[i]
		item := models.ReplayTimelineItem{
			Timestamp:     start.Add(time.Duration(i) * time.Minute).UTC().Format(time.RFC3339),
			Step:          st.OrchestrationStep,
			DecisionStep:  &st,
			EvidenceAdded: st.Evidence,
		}
		if st.GateStatus() != gate.Allow {
			item.DecisionMade = &models.DecisionLogEntry{
				Timestamp: item.Timestamp,
				Action:    string(st.GateStatus()),
				Reasoning: st.Description,
			}
		}
		rp.Timeline = append(rp.Timeline, item)
	}
	rp.DurationMS = int64(len(rp.Timeline)) * time.Minute.Milliseconds()
	writeData(w, map[string]any{"replay": rp})
}

func (s *Server) versions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.history[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "DRAFT_NOT_FOUND", errNoDraft.Error())
		return
	}
	writeData(w, map[string]any{"versions": h})
}

func (s *Server) compare(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.history[chi.URLParam(r, "id")]
	find := func(id string) (models.DecisionDraftVersion, bool) {
		for _, v := range h {
			if v.VersionID == id {
				return v, true
			}
		}
		return models.DecisionDraftVersion{}, false
	}
	a, okA := find(chi.URLParam(r, "v1"))
	b, okB := find(chi.URLParam(r, "v2"))
	if !okA || !okB {
		writeError(w, http.StatusNotFound, "VERSION_NOT_FOUND", "version not found")
		return
	}
	writeData(w, models.VersionComparison{Version1: a, Version2: b, Diff: diff(a.DecisionSteps, b.DecisionSteps)})
}

func diff(from, to []models.DecisionStep) models.VersionDiff {
	old := make(map[string]models.DecisionStep, len(from))
	for _, st := range from {
		old[st.ID] = st
	}
	d := models.VersionDiff{
		Added:    []models.DecisionStep{},
		Removed:  []models.DecisionStep{},
		Modified: []models.DecisionStep{},
	}
	seen := map[string]bool{}
	for _, st := range to {
		seen[st.ID] = true
		prev, ok := old[st.ID]
		switch {
		case !ok:
			d.Added = append(d.Added, st)
		case prev.Status != st.Status || prev.Title != st.Title || prev.Description != st.Description:
			d.Modified = append(d.Modified, st)
		}
	}
	for _, st := range from {
		if !seen[st.ID] {
			d.Removed = append(d.Removed, st)
		}
	}
	return d
}

func (s *Server) previewImpact(w http.ResponseWriter, r *http.Request) {
	var req models.PreviewImpactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StepID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "step_id is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.draft(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "DRAFT_NOT_FOUND", err.Error())
		return
	}
	if _, ok := d.Step(req.StepID); !ok {
		writeError(w, http.StatusNotFound, "STEP_NOT_FOUND", "step not found")
		return
	}
	affected := downstream(d.DecisionSteps, req.StepID)
	var evidence []string
	for _, id := range affected {
		st, _ := d.Step(id)
		for _, ev := range st.Evidence {
			evidence = append(evidence, ev.EvidenceID)
		}
	}
	writeData(w, map[string]any{"impact": models.ImpactPreviewResult{
		AffectedSteps:    affected,
		AffectedEvidence: append([]string{}, evidence...),
		ImpactSummary:    fmt.Sprintf("Changing %s affects %d later decision(s).", req.StepID, len(affected)),
		ConfidenceChange: -0.05 * float64(len(affected)),
	}})
}

// downstream walks output-to-input links from id and returns the reachable steps in draft order.
func downstream(steps []models.DecisionStep, id string) []string {
	reached := map[string]bool{id: true}
	for changed := true; changed; {
		changed = false
		outputs := map[string]bool{}
		for _, st := range steps {
			if reached[st.ID] {
				for _, o := range st.Outputs {
					outputs[o.Name] = true
				}
			}
		}
		for _, st := range steps {
			if reached[st.ID] {
				continue
			}
			for _, in := range st.Inputs {
				if outputs[in.Name] {
					reached[st.ID] = true
					changed = true
					break
				}
			}
		}
	}
	out := []string{}
	for _, st := range steps {
		if st.ID != id && reached[st.ID] {
			out = append(out, st.ID)
		}
	}
	return out
}

func (s *Server) updateStep(w http.ResponseWriter, r *http.Request) {
	var upd models.UpdateStepRequest
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid step update")
		return
	}
	if upd.Status != nil && !upd.Status.Valid() {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown status "+string(*upd.Status))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.draft(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "DRAFT_NOT_FOUND", err.Error())
		return
	}
	stepID := chi.URLParam(r, "stepId")
	for i := range d.DecisionSteps {
		st := &d.DecisionSteps[i]
		if st.ID != stepID {
			continue
		}
		var changed []string
		if upd.Title != nil {
			st.Title = *upd.Title
			changed = append(changed, "title")
		}
		if upd.Description != nil {
			st.Description = *upd.Description
			changed = append(changed, "description")
		}
		if upd.Status != nil {
			st.Status = string(*upd.Status)
			changed = append(changed, "status")
		}
		if upd.Confidence != nil {
			st.Confidence = *upd.Confidence
			changed = append(changed, "confidence")
		}
		if upd.UserFeedback != nil {
			st.UserFeedback = &models.UserFeedback{Action: upd.UserFeedback.Action, Reasoning: upd.UserFeedback.Reasoning}
			changed = append(changed, "feedback")
		}
		if upd.Outputs != nil {
			st.Outputs = upd.Outputs
			changed = append(changed, "outputs")
		}
		now := time.Now().UTC().Format(time.RFC3339)
		st.UpdatedAt, d.Metadata.UpdatedAt = now, now
		h := s.history[d.DraftID]
		s.history[d.DraftID] = append(h, snapshot(d, len(h)+1, "edited "+stepID+" "+strings.Join(changed, ",")))
		writeData(w, map[string]any{"step": *st})
		return
	}
	writeError(w, http.StatusNotFound, "STEP_NOT_FOUND", "step not found")
}
