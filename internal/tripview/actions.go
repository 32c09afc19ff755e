// ABOUTME: User-triggered mutations from the persona views, delegated to the trips API
package tripview

import (
	"context"
	"errors"

	"github.com/tripnara/tripnara-go/internal/models"
)

// TripMutator is the part of the trips API the views call into.
type TripMutator interface {
	Regenerate(ctx context.Context, id string, req models.RegenerateRequest) (*models.RegenerateResponse, error)
	ReplaceItem(ctx context.Context, id, itemID string, req models.ReplaceItemRequest) (*models.ReplaceItemResponse, error)
	ApplySuggestion(ctx context.Context, id, suggestionID string, req models.ApplySuggestionRequest) (*models.ApplySuggestionResponse, error)
}

var ErrNoAction = errors.New("suggestion offers no action")

type Actions struct {
	trips  TripMutator
	tripID string
}

func NewActions(trips TripMutator, tripID string) *Actions {
	return &Actions{trips: trips, tripID: tripID}
}

// Regenerate asks for a new plan keeping every locked item in place.
func (a *Actions) Regenerate(ctx context.Context, locks *LockSet) (*models.RegenerateResponse, error) {
	req := models.RegenerateRequest{}
	if locks != nil {
		req.LockedItemIDs = locks.IDs()
	}
	return a.trips.Regenerate(ctx, a.tripID, req)
}

func (a *Actions) Replace(ctx context.Context, itemID, reason string) (*models.ReplaceItemResponse, error) {
	return a.trips.ReplaceItem(ctx, a.tripID, itemID, models.ReplaceItemRequest{Reason: reason})
}

// ApplyRepair runs the repair's first action unless actionID names another one.
func (a *Actions) ApplyRepair(ctx context.Context, r Repair, actionID string, preview bool) (*models.ApplySuggestionResponse, error) {
	if actionID == "" {
		if len(r.Suggestion.Actions) == 0 {
			return nil, ErrNoAction
		}
		actionID = r.Suggestion.Actions[0].ID
	}
	return a.trips.ApplySuggestion(ctx, a.tripID, r.Suggestion.ID, models.ApplySuggestionRequest{ActionID: actionID, Preview: preview})
}
