package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "webnav "+version+"\n", out)

	out, err = execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "webnav "+version+"\n", out)
}

func TestArgumentValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "run without request", args: []string{"run"}},
		{name: "batch without file", args: []string{"batch"}},
		{name: "serve with args", args: []string{"serve", "extra"}},
		{name: "unknown command", args: []string{"fly"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestChatRejectsVerboseTUI(t *testing.T) {
	_, err := execute(t, "chat", "--tui", "--verbose")
	assert.ErrorContains(t, err, "--verbose cannot be combined with --tui")
}

func TestBatchMissingFile(t *testing.T) {
	_, err := execute(t, "batch", t.TempDir()+"/missing.yaml")
	assert.ErrorContains(t, err, "failed to read batch file")
}

func TestPrintResult(t *testing.T) {
	ok := types.TaskResult{
		Success: true,
		Request: "find laptops and save as json",
		Summary: types.SummaryResult{Text: "✅ Saved.", Format: types.FormatJSON, FilePath: "outputs/laptops.json"},
	}

	var out bytes.Buffer
	require.NoError(t, printResult(&out, ok, false))
	assert.Contains(t, out.String(), "✅ Saved.")
	assert.Contains(t, out.String(), "Saved JSON to outputs/laptops.json")

	out.Reset()
	require.NoError(t, printResult(&out, ok, true))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "laptops.json", decoded["file_name"])

	out.Reset()
	failed := types.TaskResult{Error: "failed to start browser session: no chromium"}
	err := printResult(&out, failed, false)
	assert.ErrorContains(t, err, "no chromium")
	assert.Empty(t, out.String())
}

func TestProgressPrinter(t *testing.T) {
	var out bytes.Buffer
	sink := progressPrinter(&out)
	action := types.Action{Kind: types.ActionScroll, Description: "Scroll down"}

	sink(types.NewPlanningEvent("t", "laptops"))
	sink(types.NewPlanReadyEvent("t", 1))
	sink(types.NewActionStartEvent("t", 1, 1, action))
	sink(types.NewActionDoneEvent("t", 1, 1, types.NewFailedOutcome(action, "Failed to scroll")))

	assert.Equal(t, "🧠 Planning actions...\n📋 1 actions planned\n  [1/1] scroll: Scroll down\n  ⚠ Failed to scroll\n", out.String())
}
