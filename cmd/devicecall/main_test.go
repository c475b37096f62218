package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devicecall/internal/testutils"
)

// execute runs the CLI with args in test mode and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	testutils.ResetTestCounters()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--test-mode", "--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCall_Success(t *testing.T) {
	out, err := execute(t, "call", "light", "state", "on", "user=ops")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "✓ light state: 0", lines[0])

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &record))
	assert.Equal(t, "light state on user=ops", record["call"])
	assert.Equal(t, "2025-01-01 00:00:00 UTC", record["dt"])
	assert.Equal(t, "ops", record["user"])
	assert.Equal(t, true, record["on"])
}

func TestCall_Failure(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown command", []string{"call", "nothing"}, "code -4"},
		{"empty call", []string{"call"}, "code -2"},
		{"ambiguous", []string{"call", "state", "on"}, "code -3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			assert.ErrorContains(t, err, tt.wantErr)
			assert.Contains(t, out, "✗")
		})
	}
}

func TestCall_JSONOutput(t *testing.T) {
	out, err := execute(t, "--json", "call", "ping")
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &record))
	assert.Equal(t, float64(1), record["pong"])
	assert.Equal(t, "", record["m"])
}

func TestCall_PublishesEvents(t *testing.T) {
	out, err := execute(t, "--events", "-", "call", "pump", "start")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)

	var event struct {
		Event string `json:"event"`
		Data  struct {
			ID      string           `json:"id"`
			Records []map[string]any `json:"b"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &event))
	assert.Equal(t, "publish-test", event.Event)
	assert.Equal(t, "00000001-0000-4000-8000-000000000001", event.Data.ID)
	require.Len(t, event.Data.Records, 1)
	assert.Equal(t, "pump start", event.Data.Records[0]["call"])
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "calls.txt")
	require.NoError(t, os.WriteFile(script, []byte(`# bring the pump up
pump start
pump speed 50 %

light dim 20
`), 0o600))

	out, err := execute(t, "batch", script)
	assert.ErrorContains(t, err, "1 of 3 calls failed", "dimming fails while the light is off")
	assert.Contains(t, out, "✓ pump start: 0")
	assert.Contains(t, out, "✓ pump speed: 0")
	assert.Contains(t, out, "✗ light dim: -110")

	_, err = execute(t, "batch", filepath.Join(dir, "missing.txt"))
	assert.ErrorContains(t, err, "failed to open batch file")
}

func TestCommands(t *testing.T) {
	out, err := execute(t, "commands")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "commands", lines[0])
	assert.True(t, json.Valid([]byte(lines[1])))
	assert.Contains(t, lines[1], `"light":[{"c":"state","v":["on","off"]}`)

	out, err = execute(t, "commands", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "light:\n")
	assert.Contains(t, out, "pump:\n")
}

func TestCommands_Truncated(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "devicecall.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("function:\n  max_variable_length: 50\n"), 0o600))

	out, err := execute(t, "--config", configPath, "commands")
	require.NoError(t, err)
	assert.Contains(t, out, `"trunc":true`)

	out, err = execute(t, "--config", configPath, "commands", "--all")
	require.NoError(t, err)
	assert.NotContains(t, out, `"trunc"`)
}

func TestLastCalls(t *testing.T) {
	out, err := execute(t, "last-calls", "light state on", "light dim 40", "nothing")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "last_calls", lines[0])

	var calls []map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &calls))
	require.Len(t, calls, 3)
	assert.Equal(t, float64(40), calls[1]["vnum"])
	assert.Equal(t, float64(-4), calls[2]["ret"])

	out, err = execute(t, "last-calls", "--yaml", "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "  call: ping\n")
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "devicecall.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("function:\n  params: [ret]\n"), 0o600))

	_, err := execute(t, "--config", configPath, "call", "ping")
	assert.ErrorContains(t, err, "clashes with a call record key")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "devicecall v"))
}
