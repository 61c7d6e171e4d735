package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/erp/tilestock/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add reorder level", "add_reorder_level"},
		{"Add-Reorder-Level", "add_reorder_level"},
		{"ADD_REORDER_LEVEL", "add_reorder_level"},
		{"add__tile__size", "add_tile_size"},
		{"Add Index 123", "add_index_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "init schema", "")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_init_schema.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_init_schema.down.sql"), first.DownPath)

	second, err := CreateMigration(dir, "add image url", "Product images")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)

	content, err := os.ReadFile(second.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "-- Migration: add image url")
	assert.Contains(t, string(content), "-- Product images")

	down, err := os.ReadFile(second.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "-- Rollback: add image url")

	names, err := ListMigrations(os.DirFS(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init_schema", "000002_add_image_url"}, names)
	assert.NoError(t, CheckPairs(os.DirFS(dir)))
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestCreateMigration_NonNumericVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc_bad.up.sql"), nil, 0o644))

	_, err := CreateMigration(dir, "next", "")
	assert.ErrorContains(t, err, "non-numeric version")
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_b.up.sql":   {},
		"000002_b.down.sql": {},
		"000001_a.up.sql":   {},
		"000001_a.down.sql": {},
		"README.md":         {},
		"sub/000003.up.sql": {},
	}

	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_a", "000002_b"}, names)

	missing, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "nope")))
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestCheckPairs(t *testing.T) {
	err := CheckPairs(fstest.MapFS{
		"000001_a.up.sql":   {},
		"000002_b.down.sql": {},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000001_a.down.sql")
	assert.Contains(t, err.Error(), "000002_b.up.sql")
}

func TestEmbeddedMigrations(t *testing.T) {
	require.NoError(t, CheckPairs(migrations.FS))

	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "000001_init_schema", names[0])

	up, err := migrations.FS.ReadFile("000001_init_schema.up.sql")
	require.NoError(t, err)
	for _, table := range []string{"products", "customers", "suppliers", "warehouses", "inventory",
		"sales_orders", "sales_order_items", "purchase_orders", "purchase_order_items"} {
		assert.Contains(t, string(up), "CREATE TABLE "+table+" (")
	}
	assert.Contains(t, names, "000002_widen_quantities")
	assert.Contains(t, names, "000003_create_leads")
}
