// ABOUTME: Tests for MCP command structure
// ABOUTME: Verifies MCP command configuration and flags

package commands

import (
	"strings"
	"testing"
)

func TestNewMCPCmd(t *testing.T) {
	cmd := NewMCPCmd()

	if cmd.Use != "mcp" {
		t.Errorf("Use = %q, want %q", cmd.Use, "mcp")
	}
	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}
	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}
}

func TestMCPCmd_Description(t *testing.T) {
	cmd := NewMCPCmd()

	for _, want := range []string{"MCP", "LLM", "stdio"} {
		if !strings.Contains(cmd.Long, want) {
			t.Errorf("Long description should mention %s", want)
		}
	}
}

func TestMCPCmd_Example(t *testing.T) {
	cmd := NewMCPCmd()

	if !strings.Contains(cmd.Example, "claude_desktop_config") {
		t.Error("Example should show the desktop client configuration")
	}
	if !strings.Contains(cmd.Example, "tripnara mcp") {
		t.Error("Example should show the tripnara mcp command")
	}
}

func TestMCPCmd_MetricsFlag(t *testing.T) {
	cmd := NewMCPCmd()

	flag := cmd.Flags().Lookup("metrics-addr")
	if flag == nil {
		t.Fatal("--metrics-addr flag not found")
	}
	if flag.DefValue != "" {
		t.Errorf("--metrics-addr default = %q, want empty", flag.DefValue)
	}
}
