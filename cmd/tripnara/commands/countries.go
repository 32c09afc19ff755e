// ABOUTME: Country reference commands: list with search and the aggregate country profile
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tripnara/tripnara-go/internal/models"
	"github.com/tripnara/tripnara-go/internal/ui"
)

// NewCountriesCmd creates the countries command group
func NewCountriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "Country reference data: currency, payment and terrain",
	}
	cmd.AddCommand(newCountriesListCmd(), newCountriesProfileCmd(), newCountriesCurrencyCmd())
	return cmd
}

func newCountriesListCmd() *cobra.Command {
	var query string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				list, err := a.api.Countries.List(ctx, models.CountryQuery{Q: query, Limit: limit, Offset: offset})
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, list)
				}
				t := ui.NewTable("Code", "Name", "Currency", "Payment", "Rate (CNY)")
				for _, c := range list.Countries {
					rate := "-"
					if c.ExchangeRateToCNY != nil {
						rate = fmt.Sprintf("%.4f", *c.ExchangeRateToCNY)
					}
					t.AddRow(c.IsoCode, c.NameEN, c.CurrencyCode, c.PaymentType, rate)
				}
				if err := renderTable(cmd, t); err != nil {
					return err
				}
				if list.HasMore {
					notef(cmd, "Showing %d of %d; use --offset for more.", len(list.Countries), list.Total)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "Filter by name or code")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Skip this many results")
	return cmd
}

func newCountriesProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <iso-code>",
		Short: "Show the aggregate profile of a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				profile, err := a.api.Countries.Profile(ctx, args[0])
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, profile)
				}
				sections := make([]string, 0, len(profile))
				for k := range profile {
					sections = append(sections, k)
				}
				sort.Strings(sections)
				st := stylesFor(cmd)
				for _, k := range sections {
					fmt.Fprintln(cmd.OutOrStdout(), st.Header.Render(k))
					var pretty any
					if err := json.Unmarshal(profile[k], &pretty); err != nil {
						fmt.Fprintf(cmd.OutOrStdout(), "%s\n", profile[k])
						continue
					}
					data, _ := json.MarshalIndent(pretty, "  ", "  ")
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", data)
				}
				return nil
			})
		},
	}
}

func newCountriesCurrencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "currency <iso-code>",
		Short: "Show currency and payment advice for a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				cs, err := a.api.Countries.CurrencyStrategy(ctx, args[0])
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(cmd, cs)
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "%s: %s (%s), %s\n", cs.CountryName, cs.CurrencyName, cs.CurrencyCode, cs.PaymentType)
				if cs.QuickRule != "" {
					fmt.Fprintln(w, cs.QuickRule)
				}
				if len(cs.QuickTable) > 0 {
					t := ui.NewTable("Local", "Home")
					for _, r := range cs.QuickTable {
						t.AddRow(fmt.Sprintf("%.2f", r.Local), fmt.Sprintf("%.2f", r.Home))
					}
					return renderTable(cmd, t)
				}
				return nil
			})
		},
	}
}
