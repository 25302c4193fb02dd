package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/suru/internal/entries"
	"github.com/idilsaglam/suru/internal/store/sqlitestore"
	"github.com/idilsaglam/suru/internal/ui"
)

type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	for _, k := range []string{"SURU_BACKEND", "SURU_THEME", "SURU_REFRESH_ON_APPEND", "SURU_ATOMIC_APPEND", "SURU_CONFIG_DIR", "SURU_DATA_DIR"} {
		t.Setenv(k, "")
	}
	t.Cleanup(func() { ui.SetTheme("classic") })
	return env{configDir: t.TempDir(), dataDir: t.TempDir()}
}

func (e env) run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir, "--theme", "mono"}, args...)
	code = Run(full, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestAddThenListJSON(t *testing.T) {
	e := newEnv(t)

	code, out, _ := e.run(t, "add", "buy", "milk")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "added (1 items)")

	code, out, _ = e.run(t, "add", "walk dog")
	require.Equal(t, exitOK, code)

	code, out, _ = e.run(t, "ls", "--json")
	require.Equal(t, exitOK, code)
	got, err := entries.Decode(out)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "buy milk", got.Items[0].Text)
	assert.Equal(t, "walk dog", got.Items[1].Text)
	assert.GreaterOrEqual(t, got.Items[1].DateCreated, got.Items[0].DateCreated)

	_, err = os.Stat(filepath.Join(e.dataDir, "suru.json"))
	assert.NoError(t, err)
}

func TestAddEmptyString(t *testing.T) {
	e := newEnv(t)
	code, _, _ := e.run(t, "add", "")
	require.Equal(t, exitOK, code)

	_, out, _ := e.run(t, "ls", "--json")
	got, err := entries.Decode(out)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "", got.Items[0].Text)
}

func TestListPanel(t *testing.T) {
	e := newEnv(t)
	_, _, _ = e.run(t, "add", "buy milk")

	code, out, _ := e.run(t, "ls")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "buy milk")
	assert.Contains(t, out, "Total 1")
}

func TestListEmpty(t *testing.T) {
	e := newEnv(t)
	code, out, _ := e.run(t, "ls")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "nothing yet")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "add without text", args: []string{"add"}},
		{name: "unknown subcommand", args: []string{"frobnicate"}},
		{name: "unknown flag", args: []string{"ls", "--nope"}},
		{name: "unknown backend", args: []string{"--backend", "postgres", "ls"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			code, _, stderr := e.run(t, tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestSQLiteBackendAtomic(t *testing.T) {
	e := newEnv(t)

	code, _, stderr := e.run(t, "--backend", "sqlite", "add", "--atomic", "one")
	require.Equal(t, exitOK, code, stderr)
	code, _, stderr = e.run(t, "--backend", "sqlite", "add", "two")
	require.Equal(t, exitOK, code, stderr)

	_, err := os.Stat(filepath.Join(e.dataDir, sqlitestore.DBFileName))
	require.NoError(t, err)

	_, out, _ := e.run(t, "--backend", "sqlite", "ls", "--json")
	got, err := entries.Decode(out)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "one", got.Items[0].Text)
	assert.Equal(t, "two", got.Items[1].Text)
}

func TestAtomicOnJSONBackendFails(t *testing.T) {
	e := newEnv(t)
	code, _, stderr := e.run(t, "add", "--atomic", "x")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "cannot do atomic appends")
}

func TestStatusReportsCorruptData(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.dataDir, "suru.json"), []byte("not json"), 0o644))

	code, out, _ := e.run(t, "status")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "status:     corrupt")
	assert.Contains(t, out, "items:      0")
	assert.Contains(t, out, "cause:")

	// ls stays quiet about it
	code, out, _ = e.run(t, "ls", "--json")
	require.Equal(t, exitOK, code)
	assert.JSONEq(t, `{"items":[]}`, out)
}

func TestStatusMissing(t *testing.T) {
	e := newEnv(t)
	code, out, _ := e.run(t, "status")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "status:     missing")
	assert.Contains(t, out, "backend:    json")
	assert.Contains(t, out, "key:        suru")
}

func TestDefaultConfigWritten(t *testing.T) {
	e := newEnv(t)
	_, _, _ = e.run(t, "status")

	b, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "backend: json")
}

func TestConfigFileSelectsBackend(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte("backend: sqlite\n"), 0o644))

	code, out, _ := e.run(t, "status")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "backend:    sqlite")

	// flag beats file
	_, out, _ = e.run(t, "--backend", "memory", "status")
	assert.Contains(t, out, "backend:    memory")
}

func TestEnvSelectsBackend(t *testing.T) {
	e := newEnv(t)
	t.Setenv("SURU_BACKEND", "memory")

	_, out, _ := e.run(t, "status")
	assert.Contains(t, out, "backend:    memory")
}

func TestDataDirFromConfigFile(t *testing.T) {
	e := newEnv(t)
	dataDir := filepath.Join(t.TempDir(), "from-config")
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"),
		[]byte("data_dir: "+dataDir+"\n"), 0o644))

	var out, errOut bytes.Buffer
	code := Run([]string{"--config-dir", e.configDir, "--theme", "mono", "add", "x"}, &out, &errOut)
	require.Equal(t, exitOK, code, errOut.String())

	_, err := os.Stat(filepath.Join(dataDir, "suru.json"))
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	code, out, _ := e.run(t, "version")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "suru v"+Version+"\n", out)
}
