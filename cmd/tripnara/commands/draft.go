// ABOUTME: Decision draft commands: filtered canvas, explanations, replay, versions, impact preview and edits
// ABOUTME: Edits go through an impact preview first; nothing is written without --apply or edit
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tripnara/tripnara-go/internal/api"
	"github.com/tripnara/tripnara-go/internal/draft"
	"github.com/tripnara/tripnara-go/internal/gate"
	"github.com/tripnara/tripnara-go/internal/models"
	"github.com/tripnara/tripnara-go/internal/ui"
)

// NewDraftCmd creates the decision draft command group
func NewDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect and edit decision drafts",
		Long: `Inspect the decision draft behind a plan.

A draft is a graph of decision steps, each with inputs, outputs, evidence
and a gate status. These commands filter and lay out the steps, replay how
they were reached, compare versions and edit steps after previewing the
downstream impact.`,
	}
	cmd.PersistentFlags().String("mode", string(models.ModeToC), "Detail level: toc, expert or studio")
	cmd.AddCommand(
		newDraftShowCmd(),
		newDraftExplainCmd(),
		newDraftReplayCmd(),
		newDraftVersionsCmd(),
		newDraftCompareCmd(),
		newDraftPreviewCmd(),
		newDraftEditCmd(),
	)
	return cmd
}

func draftMode(cmd *cobra.Command) (models.UserMode, error) {
	raw, _ := cmd.Flags().GetString("mode")
	m := models.UserMode(strings.ToLower(strings.TrimSpace(raw)))
	if !m.Valid() {
		return "", fmt.Errorf("invalid mode %q: use toc, expert or studio", raw)
	}
	return m, nil
}

func drafts(a *app) *api.DraftsService {
	return a.draftsAPI.Drafts
}

func newDraftShowCmd() *cobra.Command {
	var query, status, stepType, layout string
	cmd := &cobra.Command{
		Use:   "show <draft-id>",
		Short: "Show the decision steps of a draft",
		Long: `Show the decision steps of a draft, filtered and laid out.

Filters combine: a step must match the text query, the gate status and the
decision type. Status accepts any gate spelling (blocked, warn,
SUGGEST_REPLACE...) or "all".`,
		Example: `  tripnara draft show draft-iceland --status blocked
  tripnara draft show draft-iceland --query glacier --layout hierarchical`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := draftMode(cmd)
			if err != nil {
				return err
			}
			lt, ok := draft.ParseLayoutType(layout)
			if !ok {
				return fmt.Errorf("invalid layout %q: use grid, hierarchical or force", layout)
			}
			filter := draft.Filter{Query: query, Type: models.DecisionType(stepType)}
			if status != "" && status != draft.All {
				s, ok := gate.Parse(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				filter.Status = s
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				d, err := drafts(a).Get(ctx, args[0], mode)
				if err != nil {
					return err
				}
				canvas := draft.View{Filter: filter, Layout: lt, Options: draft.DefaultLayoutOptions()}.Render(d)
				if jsonOutput() {
					return printJSON(cmd, canvas)
				}

				st := stylesFor(cmd)
				fmt.Fprintln(cmd.OutOrStdout(), st.Title.Render(fmt.Sprintf("Draft %s · plan %s v%d", d.DraftID, d.PlanID, d.PlanVersion)))
				if len(canvas.Steps) == 0 {
					notef(cmd, "No steps match (%d hidden).", canvas.Hidden)
					return nil
				}
				t := ui.NewTable("Step", "Status", "Type", "Title", "Confidence", "Position")
				for _, s := range canvas.Steps {
					p := canvas.Positions[s.ID]
					t.AddRow(s.ID, ui.Badge(s.GateStatus(), styled(cmd)), string(s.Type), truncate(s.Title, 40),
						fmt.Sprintf("%.0f%%", s.Confidence*100), fmt.Sprintf("%.0f,%.0f", p.X, p.Y))
				}
				if err := renderTable(cmd, t); err != nil {
					return err
				}
				if canvas.Hidden > 0 {
					notef(cmd, "%d step(s) hidden by filters.", canvas.Hidden)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "Text to match in title, description or type")
	cmd.Flags().StringVar(&status, "status", "", "Gate status to keep, or all")
	cmd.Flags().StringVar(&stepType, "type", "", "Decision type to keep, or all")
	cmd.Flags().StringVar(&layout, "layout", string(draft.LayoutGrid), "Canvas layout: grid, hierarchical or force")
	return cmd
}

func newDraftExplainCmd() *cobra.Command {
	var step string
	cmd := &cobra.Command{
		Use:   "explain <draft-id>",
		Short: "Explain how a draft reached its decisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := draftMode(cmd)
			if err != nil {
				return err
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				var exp *models.Explanation
				if step != "" {
					exp, err = drafts(a).StepExplanation(ctx, args[0], step, mode)
				} else {
					exp, err = drafts(a).Explanation(ctx, args[0], mode)
				}
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, exp)
				}
				return printExplanation(cmd, exp)
			})
		},
	}
	cmd.Flags().StringVar(&step, "step", "", "Explain a single step")
	return cmd
}

func printExplanation(cmd *cobra.Command, exp *models.Explanation) error {
	w := cmd.OutOrStdout()
	st := stylesFor(cmd)
	fmt.Fprintln(w, exp.Summary)
	steps := exp.KeyDecisions
	if len(exp.DecisionSteps) > 0 {
		steps = exp.DecisionSteps
	}
	if len(steps) > 0 {
		t := ui.NewTable("Step", "Status", "Title")
		for _, s := range steps {
			t.AddRow(s.ID, ui.Badge(s.GateStatus(), styled(cmd)), truncate(s.Title, 50))
		}
		if err := renderTable(cmd, t); err != nil {
			return err
		}
	}
	evidence := exp.KeyEvidence
	if len(exp.EvidenceChain) > 0 {
		evidence = exp.EvidenceChain
	}
	for _, ev := range evidence {
		fmt.Fprintf(w, "  %s %s %s\n", st.Muted.Render(ev.EvidenceID), ev.SourceTitle, st.Muted.Render(truncate(ev.Excerpt, 60)))
	}
	if pm := exp.PerformanceMetrics; pm != nil {
		fmt.Fprintf(w, "Generation %dms, %d LLM calls, %d skill calls\n", pm.GenerationTimeMS, pm.LLMCallsCount, pm.SkillCallsCount)
	}
	return nil
}

func newDraftReplayCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "replay <draft-id>",
		Short: "Replay the orchestration timeline of a draft",
		Long: `Replay how a draft was built, step by step.

Interactive keys: space play/pause, ←/→ step, r reset, 1/2/4 speed, q quit.
Use --plain (or a non-terminal output) to print the timeline instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				replay, err := drafts(a).Replay(ctx, args[0])
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, replay)
				}
				if plain || !styled(cmd) {
					return printTimeline(cmd, replay)
				}
				m := ui.NewReplayModel("Replay · "+args[0], replay, nil)
				defer m.Player().Close()
				_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout())).Run()
				if err != nil && ctx.Err() == nil {
					return fmt.Errorf("running replay: %w", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print the timeline without the interactive player")
	return cmd
}

func printTimeline(cmd *cobra.Command, replay *models.DecisionReplay) error {
	if len(replay.Timeline) == 0 {
		notef(cmd, "This draft has no replay timeline.")
		return nil
	}
	t := ui.NewTable("#", "Time", "Stage", "Step", "Decision")
	for i, item := range replay.Timeline {
		step, decision := "-", "-"
		if item.DecisionStep != nil {
			step = truncate(item.DecisionStep.Title, 36)
		}
		if item.DecisionMade != nil {
			decision = truncate(item.DecisionMade.Action, 30)
		}
		t.AddRow(fmt.Sprint(i+1), clock(item.Timestamp), string(item.Step), step, decision)
	}
	return renderTable(cmd, t)
}

func newDraftVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions <draft-id>",
		Short: "List the saved versions of a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				vs, err := drafts(a).Versions(ctx, args[0])
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, vs)
				}
				t := ui.NewTable("Version", "#", "Created", "By", "Steps", "Description")
				for _, v := range vs {
					t.AddRow(v.VersionID, fmt.Sprint(v.VersionNumber), formatTime(v.CreatedAt), orDash(v.CreatedBy),
						fmt.Sprint(len(v.DecisionSteps)), truncate(orDash(v.Description), 40))
				}
				return renderTable(cmd, t)
			})
		},
	}
}

func newDraftCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <draft-id> <version-a> <version-b>",
		Short: "Diff two versions of a draft",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				cmp, err := drafts(a).CompareVersions(ctx, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, cmp)
				}
				t := ui.NewTable("Change", "Step", "Title")
				for _, s := range cmp.Diff.Added {
					t.AddRow("added", s.ID, truncate(s.Title, 50))
				}
				for _, s := range cmp.Diff.Removed {
					t.AddRow("removed", s.ID, truncate(s.Title, 50))
				}
				for _, s := range cmp.Diff.Modified {
					t.AddRow("modified", s.ID, truncate(s.Title, 50))
				}
				if len(t.Rows) == 0 {
					notef(cmd, "%s and %s are identical.", args[1], args[2])
					return nil
				}
				return renderTable(cmd, t)
			})
		},
	}
}

var errNothingToChange = errors.New("nothing to change: pass --title, --description, --status or --confidence")

// stepEdit collects the flags shared by preview and edit.
type stepEdit struct {
	title, description, status string
	confidence                 float64
}

func (e *stepEdit) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&e.title, "title", "", "New step title")
	cmd.Flags().StringVar(&e.description, "description", "", "New step description")
	cmd.Flags().StringVar(&e.status, "status", "", "New gate status")
	cmd.Flags().Float64Var(&e.confidence, "confidence", -1, "New confidence between 0 and 1")
}

// request builds the partial update and the value sent to the impact preview.
func (e *stepEdit) request(cmd *cobra.Command) (models.UpdateStepRequest, any, error) {
	var upd models.UpdateStepRequest
	changed := map[string]any{}
	if cmd.Flags().Changed("title") {
		upd.Title = &e.title
		changed["title"] = e.title
	}
	if cmd.Flags().Changed("description") {
		upd.Description = &e.description
		changed["description"] = e.description
	}
	if cmd.Flags().Changed("status") {
		s, ok := gate.Parse(e.status)
		if !ok {
			return upd, nil, fmt.Errorf("unknown status %q", e.status)
		}
		upd.Status = &s
		changed["status"] = s
	}
	if cmd.Flags().Changed("confidence") {
		if e.confidence < 0 || e.confidence > 1 {
			return upd, nil, fmt.Errorf("confidence must be between 0 and 1, got %v", e.confidence)
		}
		upd.Confidence = &e.confidence
		changed["confidence"] = e.confidence
	}
	if len(changed) == 0 {
		return upd, nil, errNothingToChange
	}
	return upd, changed, nil
}

func newDraftPreviewCmd() *cobra.Command {
	var edit stepEdit
	var apply bool
	cmd := &cobra.Command{
		Use:   "preview <draft-id> <step-id>",
		Short: "Preview which steps an edit would affect",
		Long: `Preview the downstream impact of editing a step.

Nothing is written unless --apply is given, in which case the previewed
edit is saved after the impact is shown.`,
		Example: `  tripnara draft preview draft-iceland step-route --status pending
  tripnara draft preview draft-iceland step-route --title "Ring road south" --apply`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd, value, err := edit.request(cmd)
			if err != nil {
				return err
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				p := draft.NewImpactPreview(drafts(a), args[0])
				defer p.Discard()
				pending, err := p.Preview(ctx, args[1], value, upd)
				if err != nil {
					return err
				}
				var saved *models.DecisionStep
				if apply {
					if saved, err = p.Apply(ctx); err != nil {
						return err
					}
				}
				if jsonOutput() {
					return printJSON(cmd, struct {
						Impact  models.ImpactPreviewResult `json:"impact"`
						Applied *models.DecisionStep       `json:"applied,omitempty"`
					}{pending.Impact, saved})
				}
				printImpact(cmd, pending.Impact)
				if saved != nil {
					notef(cmd, "Saved %s.", saved.ID)
				} else {
					notef(cmd, "Preview only; rerun with --apply to save.")
				}
				return nil
			})
		},
	}
	edit.register(cmd)
	cmd.Flags().BoolVar(&apply, "apply", false, "Save the edit after previewing it")
	return cmd
}

func printImpact(cmd *cobra.Command, imp models.ImpactPreviewResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, orDash(imp.ImpactSummary))
	fmt.Fprintf(w, "Affected steps: %s\n", orDash(strings.Join(imp.AffectedSteps, ", ")))
	fmt.Fprintf(w, "Affected evidence: %s\n", orDash(strings.Join(imp.AffectedEvidence, ", ")))
	fmt.Fprintf(w, "Confidence change: %+.2f\n", imp.ConfidenceChange)
}

func newDraftEditCmd() *cobra.Command {
	var edit stepEdit
	var feedback string
	cmd := &cobra.Command{
		Use:   "edit <draft-id> <step-id>",
		Short: "Update a step directly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd, _, err := edit.request(cmd)
			if err != nil && !(errors.Is(err, errNothingToChange) && feedback != "") {
				return err
			}
			if feedback != "" {
				upd.UserFeedback = &models.FeedbackInput{Action: "comment", Reasoning: feedback}
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				step, err := drafts(a).UpdateStep(ctx, args[0], args[1], upd)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, step)
				}
				notef(cmd, "Updated %s: %s %s", step.ID, ui.Badge(step.GateStatus(), styled(cmd)), step.Title)
				return nil
			})
		},
	}
	edit.register(cmd)
	cmd.Flags().StringVar(&feedback, "feedback", "", "Feedback to attach to the step")
	return cmd
}
