package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyreuse/backend/migrations"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add reviews table", "add_reviews_table"},
		{"Add-Reviews-Table", "add_reviews_table"},
		{"ADD__REVIEWS__TABLE", "add_reviews_table"},
		{"Index 2 orders", "index_2_orders"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add item tags", "Tag table for items")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.Equal(t, mf.Version+"_add_item_tags.up.sql", filepath.Base(mf.UpPath))
	assert.Equal(t, mf.Version+"_add_item_tags.down.sql", filepath.Base(mf.DownPath))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add item tags")
	assert.Contains(t, string(up), "-- Description: Tag table for items")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	names, err := ListMigrations(os.DirFS(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{mf.Version + "_add_item_tags"}, names)
}

func TestCreateMigration_InvalidName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"20250102000000_b.up.sql":   {},
		"20250102000000_b.down.sql": {},
		"20250101000000_a.up.sql":   {},
		"20250101000000_a.down.sql": {},
		"README.md":                 {},
	}

	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"20250101000000_a", "20250102000000_b"}, names)

	empty, err := ListMigrations(fstest.MapFS{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		_, err := migrations.FS.Open(name + ".down.sql")
		assert.NoError(t, err, name)
		assert.False(t, strings.ContainsAny(name, " -"), name)
	}
}
