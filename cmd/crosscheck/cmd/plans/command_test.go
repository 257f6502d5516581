package plans_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revenueops/crosscheck/cmd/application"
	"github.com/revenueops/crosscheck/cmd/crosscheck/cmd/plans"
	"github.com/revenueops/crosscheck/pkg/commission"
	"github.com/revenueops/crosscheck/pkg/records"
)

// mockApp returns a mock application fixed to the given output format.
func mockApp(format string) *application.Mock {
	return &application.Mock{OutputFormatFunc: func() string { return format }}
}

// execute runs the command with the given args and returns its stdout.
func execute(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := plans.NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlansCommandJSON(t *testing.T) {
	out, err := execute(t, mockApp("json"))
	require.NoError(t, err)

	var loaded []commission.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &loaded))
	require.Len(t, loaded, 3)
	assert.Equal(t, 2023, loaded[0].Year)
	assert.InDelta(t, 0.073, loaded[0].Rates[records.DealTypeSoftware], 0.0001)
	assert.Len(t, loaded[2].Kickers, 5)
}

func TestPlansCommandTable(t *testing.T) {
	out, err := execute(t, mockApp("table"))
	require.NoError(t, err)

	assert.Contains(t, out, "2024")
	assert.Contains(t, out, "7.3%")
	assert.Contains(t, out, "120%: 1.2x")
	assert.Contains(t, out, "€1,700,000.00")
}

func TestPlansCommandYAML(t *testing.T) {
	out, err := execute(t, mockApp("yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "year: 2023")
	assert.Contains(t, out, "annual_quota:")
}

func TestPlansCommandOverride(t *testing.T) {
	content := `plans:
  - year: 2026
    rates:
      software: 0.08
    ps_rate: 0.01
    annual_quota: 2000000
`
	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out, err := execute(t, mockApp("json"), "--plans", path)
	require.NoError(t, err)

	var loaded []commission.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &loaded))
	require.Len(t, loaded, 1)
	assert.Equal(t, 2026, loaded[0].Year)
}

func TestPlansCommandBadOverride(t *testing.T) {
	_, err := execute(t, mockApp("json"), "--plans", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
