// ABOUTME: Typed contract layer over the shared HTTP client, one service per backend resource group
// ABOUTME: New wires every service and picks the decision backend generation once
package api

import (
	"fmt"
	"net/url"
	"time"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"go.uber.org/zap"
)

// Long-running endpoints get their own deadlines; everything else uses the client default.
const (
	EngineTimeout      = 60 * time.Second
	MultiPlanTimeout   = 120 * time.Second
	PlanningV2BasePath = "/agent/planning-assistant/v2"
)

// Options configures New.
type Options struct {
	// DecisionEngineV1 routes decision calls through /decision-engine/v1 and adapts the results.
	DecisionEngineV1 bool
	Logger           *zap.Logger
	// TaskPollInterval and TaskPollAttempts bound Plans.WaitForTask.
	TaskPollInterval time.Duration
	TaskPollAttempts int
}

// API groups every resource service.
type API struct {
	Auth            *AuthService
	Trips           *TripsService
	Places          *PlacesService
	Hotels          *HotelsService
	Trails          *TrailsService
	PlaceImages     *PlaceImagesService
	Countries       *CountriesService
	RouteDirections *RouteDirectionsService
	Weather         *WeatherService
	Fitness         *FitnessService
	LegacyDecision  *LegacyDecisionService
	DecisionEngine  *DecisionEngineService
	Decision        DecisionBackend
	Drafts          *DraftsService
	DraftAdmin      *DraftAdminService
	Execution       *ExecutionService
	Upload          *UploadService
	Plans           *PlansService
	Overview        *OverviewService

	client *httpclient.Client
}

// New builds the contract layer on top of c.
func New(c *httpclient.Client, opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &API{
		Auth:            &AuthService{c: c},
		Trips:           &TripsService{c: c},
		Places:          &PlacesService{c: c},
		Hotels:          &HotelsService{c: c},
		Trails:          &TrailsService{c: c},
		PlaceImages:     &PlaceImagesService{c: c, logger: logger},
		Countries:       &CountriesService{c: c},
		RouteDirections: &RouteDirectionsService{c: c, logger: logger},
		Weather:         &WeatherService{c: c},
		Fitness:         &FitnessService{c: c},
		LegacyDecision:  &LegacyDecisionService{c: c},
		DecisionEngine:  &DecisionEngineService{c: c},
		Drafts:          &DraftsService{c: c},
		DraftAdmin:      &DraftAdminService{c: c},
		Execution:       &ExecutionService{c: c},
		Upload:          &UploadService{c: c},
		Plans: &PlansService{
			c:            c,
			pollInterval: opts.TaskPollInterval,
			pollAttempts: opts.TaskPollAttempts,
		},
		client: c,
	}
	a.Overview = &OverviewService{trips: a.Trips}
	a.Decision = NewDecisionBackend(opts.DecisionEngineV1, a.LegacyDecision, a.DecisionEngine)
	logger.Debug("api initialized",
		zap.String("base_url", c.BaseURL()),
		zap.String("decision_backend", a.Decision.Name()),
	)
	return a
}

// Client returns the underlying HTTP client.
func (a *API) Client() *httpclient.Client {
	return a.client
}

func esc(s string) string {
	return url.PathEscape(s)
}

func pathf(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = esc(id)
	}
	return fmt.Sprintf(format, args...)
}
