// ABOUTME: Output helpers shared by commands: format selection, JSON printing and failure reporting
// ABOUTME: Blocking API failures print a banner and exit non-zero; soft ones print a notice and succeed
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/ui"
)

// ErrReported marks an error whose message was already written to stderr.
var ErrReported = errors.New("error already reported")

func jsonOutput() bool {
	return outputFormat == "json"
}

// styled reports whether w gets lipgloss styling: auto format on a terminal only.
func styled(cmd *cobra.Command) bool {
	if outputFormat != "auto" {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func stylesFor(cmd *cobra.Command) ui.Styles {
	if styled(cmd) {
		return ui.DefaultStyles()
	}
	return ui.PlainStyles()
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
	return nil
}

func renderTable(cmd *cobra.Command, t *ui.Table) error {
	return t.Render(cmd.OutOrStdout(), styled(cmd))
}

// notef prints a status line unless --quiet is set.
func notef(cmd *cobra.Command, format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}

// report maps a command error onto CLI behavior. Canceled calls end silently.
func report(cmd *cobra.Command, err error) error {
	if err == nil || httpclient.IsCanceled(err) {
		return nil
	}
	st := stylesFor(cmd)
	if errors.Is(err, httpclient.ErrSessionExpired) {
		ui.Failure(cmd.ErrOrStderr(), st, "Login required", "run 'tripnara auth login' to sign in again")
		return ErrReported
	}
	var apiErr *httpclient.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if !apiErr.Blocking() {
		ui.Notice(cmd.ErrOrStderr(), st, apiErr.Title()+": "+apiErr.Message)
		return nil
	}
	ui.Failure(cmd.ErrOrStderr(), st, apiErr.Title(), err.Error())
	return ErrReported
}
