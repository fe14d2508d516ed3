package migration

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("writes a timestamped up and down pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "Create stock documents", "stock document and line tables")
		require.NoError(t, err)

		assert.Regexp(t, regexp.MustCompile(`^\d{14}$`), mf.Version)
		assert.Equal(t, "create_stock_documents", mf.Name)
		assert.Equal(t, filepath.Join(dir, mf.Version+"_create_stock_documents.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, mf.Version+"_create_stock_documents.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), mf.Version+"_create_stock_documents.up.sql")
		assert.Contains(t, string(up), "stock document and line tables")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "reverts: stock document and line tables")
	})

	t.Run("defaults the description to the name", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add payments table", "")
		require.NoError(t, err)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "add payments table")
	})

	t.Run("creates a missing migrations directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "db", "migrations")

		_, err := CreateMigration(dir, "seed roles", "")
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("rejects names with no usable characters", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "!!!", "")

		assert.Error(t, err)
	})
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"create articles", "create_articles"},
		{"Create Stock Documents", "create_stock_documents"},
		{"add--payments--table", "add_payments_table"},
		{"  seed roles  ", "seed_roles"},
		{"drop_v2_index", "drop_v2_index"},
		{"ADD   reception   reports", "add_reception_reports"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.input))
		})
	}
}

func TestListMigrations(t *testing.T) {
	t.Run("lists pairs sorted by version", func(t *testing.T) {
		dir := t.TempDir()
		seed := []string{
			"20250301100100_create_stock_documents",
			"20250301100000_create_catalog",
			"20250301100400_create_identity",
		}
		for _, name := range seed {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name+".up.sql"), []byte("--"), 0644))
			require.NoError(t, os.WriteFile(filepath.Join(dir, name+".down.sql"), []byte("--"), 0644))
		}

		names, err := ListMigrations(dir)
		require.NoError(t, err)

		assert.Equal(t, []string{
			"20250301100000_create_catalog",
			"20250301100100_create_stock_documents",
			"20250301100400_create_identity",
		}, names)
	})

	t.Run("ignores files that are not up migrations", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "20250301100300_create_payments.down.sql"), []byte("--"), 0644))

		names, err := ListMigrations(dir)
		require.NoError(t, err)

		assert.Empty(t, names)
	})

	t.Run("missing directory lists as empty", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(t.TempDir(), "nowhere"))

		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
