// ABOUTME: Plan generation command, synchronous or as a polled background task
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tripnara/tripnara-go/internal/api"
	"github.com/tripnara/tripnara-go/internal/models"
	"github.com/tripnara/tripnara-go/internal/poll"
	"github.com/tripnara/tripnara-go/internal/ui"
)

// NewPlansCmd creates the plans command group
func NewPlansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Generate candidate plans",
	}
	cmd.AddCommand(newPlansGenerateCmd())
	return cmd
}

func newPlansGenerateCmd() *cobra.Command {
	var destination, pace, session string
	var days, adults, children int
	var budget float64
	var interests []string
	var async bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate candidate plans for a destination",
		Long: `Generate candidate plans for a destination.

With --async the request runs as a background task and the command polls
its status until it finishes (bounded by task_poll_attempts).`,
		Example: `  tripnara plans generate --destination Iceland --days 7 --budget 3000 --adults 2
  tripnara plans generate --destination Iceland --days 7 --budget 3000 --async`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(destination) == "" {
				return fmt.Errorf("--destination is required")
			}
			if err := validatePositiveInt(days, "days"); err != nil {
				return err
			}
			if err := validatePositiveInt(adults, "adults"); err != nil {
				return err
			}
			if session == "" {
				session = uuid.NewString()
			}
			req := models.GeneratePlansRequest{
				SessionID:   session,
				Destination: destination,
				Duration:    days,
				Budget:      budget,
				Travelers:   models.Travelers{Adults: adults, Children: children},
			}
			if pace != "" || len(interests) > 0 {
				req.Preferences = &models.PlanPreferences{Pace: pace, Interests: interests}
			}

			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if !async {
					plans, err := a.api.Plans.Generate(ctx, req)
					if err != nil {
						return err
					}
					return printPlans(cmd, plans)
				}
				task, err := a.api.Plans.GenerateAsync(ctx, req)
				if err != nil {
					return err
				}
				notef(cmd, "Task %s queued; waiting for it to finish...", task.TaskID)
				st, err := a.api.Plans.WaitForTask(ctx, task.TaskID)
				switch {
				case errors.Is(err, poll.ErrAttemptsExceeded):
					return fmt.Errorf("task %s still running; check again later: %w", task.TaskID, err)
				case errors.Is(err, api.ErrTaskFailed):
					return fmt.Errorf("task %s: %w", task.TaskID, err)
				case err != nil:
					return err
				}
				if st.Result == nil {
					notef(cmd, "Task %s completed without plans.", task.TaskID)
					return nil
				}
				return printPlans(cmd, st.Result)
			})
		},
	}
	cmd.Flags().StringVar(&destination, "destination", "", "Where to go")
	cmd.Flags().IntVar(&days, "days", 5, "Trip length in days")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Total budget")
	cmd.Flags().IntVar(&adults, "adults", 1, "Adult travelers")
	cmd.Flags().IntVar(&children, "children", 0, "Child travelers")
	cmd.Flags().StringVar(&pace, "pace", "", "Preferred pace: relaxed, moderate or intense")
	cmd.Flags().StringSliceVar(&interests, "interest", nil, "Interest to favor (repeatable)")
	cmd.Flags().StringVar(&session, "session", "", "Planning session ID (default: a new one)")
	cmd.Flags().BoolVar(&async, "async", false, "Run as a background task and poll for the result")
	return cmd
}

func printPlans(cmd *cobra.Command, plans *models.GeneratedPlans) error {
	if jsonOutput() {
		return printJSON(cmd, plans)
	}
	if len(plans.Plans) == 0 {
		notef(cmd, "No candidate plans.")
		return nil
	}
	t := ui.NewTable("ID", "Name", "Days", "Pace", "Budget", "Score")
	for _, p := range plans.Plans {
		t.AddRow(p.ID, truncate(p.Name, 36), fmt.Sprint(p.Duration), p.Pace,
			fmt.Sprintf("%.0f", p.EstimatedBudget.Total), fmt.Sprintf("%.2f", p.Suitability.Score))
	}
	return renderTable(cmd, t)
}
