package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test. It stands in for
// testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), DoltctlDir)
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte(content), 0644))
	return root
}

func TestLoadFrom(t *testing.T) {
	root := writeConfig(t, `
host = "db.internal"
port = 3307
user = "app"
database = "inventory"
author = "Deploy Bot <deploy@example.com>"
`)

	cfg, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, "db.internal:3307", cfg.Addr())
	assert.Equal(t, "inventory", cfg.Database)
	assert.Equal(t, "Deploy Bot <deploy@example.com>", cfg.Author)
	assert.Equal(t, "origin", cfg.DefaultRemote)
	assert.Equal(t, "/admin/dolt", cfg.AdminPrefix)
}

func TestLoadFrom_Defaults(t *testing.T) {
	root := writeConfig(t, `database = "app"`)

	cfg, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:3306", cfg.Addr())
	assert.Equal(t, "root", cfg.User)
}

func TestLoadFrom_EnvCredentials(t *testing.T) {
	t.Setenv(EnvRemoteUser, "deploy")
	t.Setenv(EnvAdminToken, "tok")
	t.Setenv(EnvPassword, "dbpass")

	root := writeConfig(t, `database = "app"`)
	cfg, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, "deploy", cfg.RemoteUser)
	assert.Equal(t, "tok", cfg.AdminToken)
	assert.Equal(t, "dbpass", cfg.Password)
}

func TestSave_ExcludesCredentials(t *testing.T) {
	root := writeConfig(t, `database = "app"`)
	cfg, err := LoadFrom(root)
	require.NoError(t, err)

	cfg.AdminToken = "secret"
	cfg.Password = "dbpass"
	require.NoError(t, cfg.Save())

	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "dbpass")
}

func TestInitialize(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Initialize(Config{Database: "app"})
	require.NoError(t, err)
	assert.DirExists(t, cfg.Path())

	// Second init fails
	_, err = Initialize(Config{Database: "app"})
	assert.Error(t, err)
}

func TestFindRoot_WalksUp(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, DoltctlDir)
	require.NoError(t, os.MkdirAll(root, 0755))
	nested := filepath.Join(base, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	chdir(t, nested)

	found, err := FindRoot()
	require.NoError(t, err)
	// Resolve symlinks: macOS TempDir lives under /var -> /private/var.
	expected, _ := filepath.EvalSymlinks(root)
	actual, _ := filepath.EvalSymlinks(found)
	assert.Equal(t, expected, actual)
}
