package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("pebble-dbml", pflag.ContinueOnError)
	flags.String("file", "", "")
	flags.String("table-format", "identity", "")
	flags.String("table-prefix", "", "")
	flags.String("table-filter", "", "")
	flags.String("db-name", "database", "")
	flags.String("db-type", "PostgreSQL", "")
	flags.String("db-note", "", "")
	flags.StringSlice("models", nil, "")
	flags.StringSlice("manifest", nil, "")
	flags.StringSlice("type-map", nil, "")
	flags.Bool("strict", false, "")
	flags.String("log-format", "console", "")
	return flags
}

// chdir runs the test from an empty directory so no stray .env or config
// file is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)
	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--models", "./models"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "identity", cfg.TableFormat)
	assert.Equal(t, "database", cfg.Project.Name)
	assert.Equal(t, "PostgreSQL", cfg.Project.DatabaseType)
	assert.Empty(t, cfg.Project.Note)
	assert.Empty(t, cfg.TableFilter)
	assert.Equal(t, []string{"./models"}, cfg.Models)
	assert.False(t, cfg.Strict)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Output)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdir(t)
	content := `
table_format: schema_prefixed
table_prefix: app_
table_filter: [audit, tmp]
db_name: shop
db_note: Shop schema
manifest: [models.yaml]
type_map: ["PointField=geometry"]
strict: true
log:
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pebble-dbml.yaml"), []byte(content), 0o644))

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--table-prefix", "cli_"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "schema_prefixed", cfg.TableFormat)
	assert.Equal(t, "cli_", cfg.TablePrefix, "flags win over the config file")
	assert.Equal(t, []string{"audit", "tmp"}, cfg.TableFilter)
	assert.Equal(t, "shop", cfg.Project.Name)
	assert.Equal(t, "Shop schema", cfg.Project.Note)
	assert.Equal(t, []string{"models.yaml"}, cfg.Manifests)
	assert.Equal(t, []string{"PointField=geometry"}, cfg.TypeMap)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Environment(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PEBBLE_DBML_DB_TYPE=MySQL\n"), 0o644))
	t.Setenv("PEBBLE_DBML_TABLE_FILTER", "bar,,baz")
	t.Setenv("PEBBLE_DBML_MANIFEST", "a.yaml")
	t.Setenv("PEBBLE_DBML_LOG_LEVEL", "debug")
	t.Cleanup(func() { os.Unsetenv("PEBBLE_DBML_DB_TYPE") })

	cfg, err := Load("", newFlags())
	require.NoError(t, err)

	assert.Equal(t, "MySQL", cfg.Project.DatabaseType, ".env is loaded")
	assert.Equal(t, []string{"bar", "baz"}, cfg.TableFilter)
	assert.Equal(t, []string{"a.yaml"}, cfg.Manifests)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	dir := chdir(t)

	t.Run("explicit file missing", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.yaml"), newFlags())
		assert.ErrorContains(t, err, "error reading config file")
	})

	t.Run("model sources are optional", func(t *testing.T) {
		cfg, err := Load("", newFlags())
		require.NoError(t, err)
		assert.Empty(t, cfg.Models)
		assert.Empty(t, cfg.Manifests)
	})

	t.Run("empty project name", func(t *testing.T) {
		flags := newFlags()
		require.NoError(t, flags.Parse([]string{"--models", ".", "--db-name", ""}))
		_, err := Load("", flags)
		assert.ErrorContains(t, err, "db_name")
	})
}
