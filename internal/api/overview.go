// ABOUTME: Trip overview fan-out: detail, state, persona alerts, conflicts and metrics fetched in parallel
// ABOUTME: Parts settle independently so one failing endpoint never hides the others
package api

import (
	"context"
	"sort"
	"sync"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
	"golang.org/x/sync/errgroup"
)

// Overview parts, used as keys of TripOverview.Errors.
const (
	PartDetail    = "detail"
	PartState     = "state"
	PartAlerts    = "alerts"
	PartConflicts = "conflicts"
	PartMetrics   = "metrics"
)

// Parts lists every overview part in display order.
var Parts = []string{PartDetail, PartState, PartAlerts, PartConflicts, PartMetrics}

// TripOverview is the partial result of Load. A nil field means its part failed; see Errors.
type TripOverview struct {
	Detail    *models.TripDetail
	State     *models.TripState
	Alerts    []models.PersonaAlert
	Conflicts *models.ConflictsResponse
	Metrics   *models.TripMetrics
	Errors    map[string]error
}

// Failed lists the parts that errored, sorted.
func (o *TripOverview) Failed() []string {
	parts := make([]string, 0, len(o.Errors))
	for p := range o.Errors {
		parts = append(parts, p)
	}
	sort.Strings(parts)
	return parts
}

// AllFailed reports whether no part loaded at all.
func (o *TripOverview) AllFailed() bool {
	return len(o.Errors) == len(Parts)
}

// OK reports whether every part loaded.
func (o *TripOverview) OK() bool {
	return len(o.Errors) == 0
}

type OverviewService struct {
	trips *TripsService
}

// Load fetches every part concurrently. It returns an error only when ctx is canceled;
// per-part failures are reported in TripOverview.Errors.
func (s *OverviewService) Load(ctx context.Context, tripID string) (*TripOverview, error) {
	out := &TripOverview{Errors: map[string]error{}}
	var mu sync.Mutex
	settle := func(part string, err error) {
		if err == nil {
			return
		}
		mu.Lock()
		out.Errors[part] = err
		mu.Unlock()
	}

	// Part functions never return their error to the group, so no sibling is canceled.
	var g errgroup.Group
	g.Go(func() error {
		d, err := s.trips.Get(ctx, tripID)
		out.Detail = d
		settle(PartDetail, err)
		return nil
	})
	g.Go(func() error {
		st, err := s.trips.State(ctx, tripID)
		out.State = st
		settle(PartState, err)
		return nil
	})
	g.Go(func() error {
		a, err := s.trips.PersonaAlerts(ctx, tripID)
		out.Alerts = a
		settle(PartAlerts, err)
		return nil
	})
	g.Go(func() error {
		c, err := s.trips.Conflicts(ctx, tripID)
		out.Conflicts = c
		settle(PartConflicts, err)
		return nil
	})
	g.Go(func() error {
		m, err := s.trips.Metrics(ctx, tripID)
		out.Metrics = m
		settle(PartMetrics, err)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return out, err
	}
	for _, err := range out.Errors {
		if httpclient.IsCanceled(err) {
			return out, err
		}
	}
	return out, nil
}
