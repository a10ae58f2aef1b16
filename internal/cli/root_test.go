package cli

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const healthApp = `package app

// routemap::module -Controllers=HealthController -Imports=UserModule
type AppModule struct{}

// routemap::controller
type HealthController struct{}

// routemap::route GET health
func (h *HealthController) Check() {}

// routemap::module -Controllers=UsersController
type UserModule struct{}

// routemap::controller -Prefix=/users
type UsersController struct{}

// routemap::route GET
func (u *UsersController) List() {}
`

func writeApp(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.go")
	require.NoError(t, os.WriteFile(path, []byte(healthApp), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

type jsonReport map[string][]struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Handler string `json:"handler"`
}

func TestRunTextReport(t *testing.T) {
	stdout, _, err := runCommand(t, writeApp(t), "--no-color")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Discovered routes")
	assert.Contains(t, stdout, "[HealthController]")
	assert.Contains(t, stdout, "GET     /health")
	assert.Contains(t, stdout, "[UsersController]")
	assert.Contains(t, stdout, "GET     /users")
	assert.Contains(t, stdout, "2 routes across 2 controllers")
}

func TestRunJSONReport(t *testing.T) {
	stdout, _, err := runCommand(t, writeApp(t), "--json")
	require.NoError(t, err)

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Len(t, report["HealthController"], 1)
	assert.Equal(t, "GET", report["HealthController"][0].Method)
	assert.Equal(t, "/health", report["HealthController"][0].Path)
	assert.Equal(t, "HealthController.Check", report["HealthController"][0].Handler)
}

func TestModuleNameArgument(t *testing.T) {
	stdout, _, err := runCommand(t, writeApp(t), "UserModule", "--json")
	require.NoError(t, err)

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Len(t, report, 1)
	assert.Contains(t, report, "UsersController")
}

func TestGlobalPrefix(t *testing.T) {
	stdout, _, err := runCommand(t, writeApp(t), "--json", "--prefix", "/api/v2")
	require.NoError(t, err)

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "/api/v2/health", report["HealthController"][0].Path)
	assert.Equal(t, "/api/v2/users", report["UsersController"][0].Path)
}

func TestManifestEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.toml")
	manifest := `[[module]]
name = "AppModule"
controllers = ["HealthController"]

[[controller]]
name = "HealthController"

[[controller.route]]
name = "Check"
method = "GET"
path = "health"
`
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	stdout, _, err := runCommand(t, path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stdout, "GET     /health")
}

func TestMissingEntryPath(t *testing.T) {
	stdout, stderr, err := runCommand(t, filepath.Join(t.TempDir(), "gone.go"), "--no-color")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, stderrors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "[ERROR]")
	assert.Contains(t, stderr, "no such file")
}

func TestUnknownModule(t *testing.T) {
	_, stderr, err := runCommand(t, writeApp(t), "ApiModule", "--no-color")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, stderrors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Contains(t, stderr, `module "ApiModule" not found`)
	assert.Contains(t, stderr, "available modules: AppModule, UserModule")
}

func TestUnloadableEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.go")
	require.NoError(t, os.WriteFile(path, []byte("package app\n\nfunc (\n"), 0o644))

	_, stderr, err := runCommand(t, path, "--no-color")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, stderrors.As(err, &exitErr))
	assert.Equal(t, 4, exitErr.Code)
	assert.Contains(t, stderr, "attempted strategies")
}

func TestQuietSuppressesProgress(t *testing.T) {
	_, stderr, err := runCommand(t, writeApp(t), "--quiet", "--no-color")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "[INFO]")
	assert.NotContains(t, stderr, "[OK]")
}

func TestVerboseTraces(t *testing.T) {
	_, stderr, err := runCommand(t, writeApp(t), "--verbose", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stderr, "visiting module")
	assert.Contains(t, stderr, "exports")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("ROUTEMAP_JSON", "true")

	stdout, _, err := runCommand(t, writeApp(t))
	require.NoError(t, err)

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Contains(t, report, "HealthController")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "routemap.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("json = true\nprefix = \"/api\"\n"), 0o644))

	stdout, _, err := runCommand(t, writeApp(t), "--config", cfgPath)
	require.NoError(t, err)

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "/api/health", report["HealthController"][0].Path)
}

func TestMissingArguments(t *testing.T) {
	_, _, err := runCommand(t)
	require.Error(t, err)

	var exitErr *ExitError
	assert.False(t, stderrors.As(err, &exitErr))
}
