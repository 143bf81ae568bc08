package migrate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		filename string
		version  int
		name     string
		hasError bool
	}{
		{"0001_platform_settings.sql", 1, "platform_settings", false},
		{"0012_add_index.sql", 12, "add_index", false},
		{"7_short.sql", 7, "short", false},
		{"no_version.sql", 0, "", true},
		{"_leading.sql", 0, "", true},
		{"0003.sql", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			m, err := parseFilename(tt.filename)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.version, m.Version)
			assert.Equal(t, tt.name, m.Name)
		})
	}
}

func TestLoadFromOrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0010_later.sql":  {Data: []byte("SELECT 10;")},
		"migrations/0002_second.sql": {Data: []byte("SELECT 2;")},
		"migrations/0001_first.sql":  {Data: []byte("SELECT 1;")},
		"migrations/README.md":       {Data: []byte("ignored")},
	}

	migrations, err := loadFrom(fsys, "migrations")
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	assert.Equal(t, []int{1, 2, 10}, []int{migrations[0].Version, migrations[1].Version, migrations[2].Version})
	assert.Equal(t, "first", migrations[0].Name)
	assert.Equal(t, "SELECT 1;", migrations[0].SQL)
}

func TestLoadFromRejectsDuplicateVersions(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0001_a.sql": {Data: []byte("SELECT 1;")},
		"migrations/0001_b.sql": {Data: []byte("SELECT 1;")},
	}

	_, err := loadFrom(fsys, "migrations")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate migration version")
}

func TestEmbeddedMigrations(t *testing.T) {
	migrations, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	// The settings tables must exist before the settings initializers run.
	assert.Equal(t, "platform_settings", migrations[0].Name)
	names := make(map[string]bool)
	for _, m := range migrations {
		names[m.Name] = true
		assert.NotEmpty(t, m.SQL)
	}
	assert.True(t, names["referral_settings"])
	assert.True(t, names["users"])
	assert.True(t, names["bootstrap_runs"])
}
