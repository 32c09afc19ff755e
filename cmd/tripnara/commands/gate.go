// ABOUTME: Gate status commands: normalize any spelling to the canonical status and list the lattice
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripnara/tripnara-go/internal/gate"
	"github.com/tripnara/tripnara-go/internal/ui"
)

// NewGateCmd creates the gate command group
func NewGateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Inspect gate statuses",
		Long: `Gate statuses order every decision: ALLOW < NEED_CONFIRM < SUGGEST_REPLACE < REJECT.

Backends and older clients spell them in many ways (PASSED, WARN,
BLOCKED, approved, pending...); normalize maps any of them to the canonical value.`,
	}
	cmd.AddCommand(newGateNormalizeCmd(), newGateListCmd())
	return cmd
}

type gateJSON struct {
	Input      string      `json:"input,omitempty"`
	Status     gate.Status `json:"status"`
	Recognised bool        `json:"recognised"`
	Label      string      `json:"label"`
	LabelEn    string      `json:"label_en"`
	Icon       string      `json:"icon"`
}

func describeGate(input string) gateJSON {
	s, ok := gate.Parse(input)
	if !ok {
		s = gate.Normalize(input)
	}
	return gateJSON{
		Input:      input,
		Status:     s,
		Recognised: ok,
		Label:      gate.Label(s),
		LabelEn:    gate.LabelEn(s),
		Icon:       string(gate.Icon(s)),
	}
}

func newGateNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "normalize <status>...",
		Short:   "Map status spellings to canonical gate statuses",
		Example: `  tripnara gate normalize BLOCKED pending ALLOW`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make([]gateJSON, 0, len(args))
			for _, raw := range args {
				out = append(out, describeGate(raw))
			}
			if jsonOutput() {
				return printJSON(cmd, out)
			}
			t := ui.NewTable("Input", "Status", "Label", "Recognised")
			for _, g := range out {
				t.AddRow(g.Input, ui.Badge(g.Status, styled(cmd)), g.Label, fmt.Sprint(g.Recognised))
			}
			return renderTable(cmd, t)
		},
	}
}

func newGateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List gate statuses from least to most severe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := gate.Statuses()
			if jsonOutput() {
				out := make([]gateJSON, 0, len(statuses))
				for _, s := range statuses {
					out = append(out, describeGate(string(s)))
				}
				return printJSON(cmd, out)
			}
			t := ui.NewTable("Rank", "Status", "Label", "Icon")
			for _, s := range statuses {
				t.AddRow(fmt.Sprint(s.Rank()), ui.Badge(s, styled(cmd)), gate.Label(s), string(gate.Icon(s)))
			}
			return renderTable(cmd, t)
		},
	}
}

