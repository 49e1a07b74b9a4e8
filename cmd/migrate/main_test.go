package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigration(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractMigrationPart(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE mesa (id int);
ALTER TABLE mesa ADD COLUMN estado text;

-- +migrate Down
DROP TABLE mesa;
`
	t.Run("Extract Up", func(t *testing.T) {
		up := extractMigrationPart(content, "Up")
		assert.Contains(t, up, "CREATE TABLE mesa")
		assert.Contains(t, up, "ALTER TABLE mesa")
		assert.NotContains(t, up, "DROP TABLE mesa")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("Extract Down", func(t *testing.T) {
		down := extractMigrationPart(content, "Down")
		assert.Contains(t, down, "DROP TABLE mesa")
		assert.NotContains(t, down, "CREATE TABLE mesa")
	})
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "0002_b.sql", "")
	writeMigration(t, dir, "0001_a.sql", "")
	writeMigration(t, dir, "notes.txt", "")

	files, err := listMigrations(dir)

	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "0001_a.sql", filepath.Base(files[0]))
	assert.Equal(t, "0002_b.sql", filepath.Base(files[1]))
}

func TestRunMigrationsUp(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		dir := t.TempDir()
		applied := writeMigration(t, dir, "0001_init.sql", "-- +migrate Up\nCREATE TABLE old (id int);")
		pending := writeMigration(t, dir, "0002_mesa.sql", "-- +migrate Up\nCREATE TABLE mesa (id int);")

		mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
			WithArgs("0001_init.sql").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
			WithArgs("0002_mesa.sql").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE mesa").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO schema_migrations").
			WithArgs("0002_mesa.sql").
			WillReturnResult(sqlmock.NewResult(1, 1))

		var out bytes.Buffer
		err = runMigrationsUp(db, &out, []string{applied, pending})

		assert.NoError(t, err)
		assert.Contains(t, out.String(), "skip    0001_init.sql")
		assert.Contains(t, out.String(), "1 migration(s) applied")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingUp", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		file := writeMigration(t, t.TempDir(), "0001_empty.sql", "-- +migrate Down\nDROP TABLE x;")
		mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
			WithArgs("0001_empty.sql").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err = runMigrationsUp(db, &bytes.Buffer{}, []string{file})

		assert.ErrorContains(t, err, "no Up section")
	})
}

func TestRunMigrationsDown(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		file := writeMigration(t, t.TempDir(), "0001_init.sql", "-- +migrate Up\nCREATE TABLE mesa (id int);\n-- +migrate Down\nDROP TABLE mesa;")

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0001_init.sql"))
		mock.ExpectExec("DROP TABLE mesa").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM schema_migrations").
			WithArgs("0001_init.sql").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = runMigrationsDown(db, &bytes.Buffer{}, []string{file})

		assert.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NothingApplied", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}))

		var out bytes.Buffer
		err = runMigrationsDown(db, &out, nil)

		assert.NoError(t, err)
		assert.Contains(t, out.String(), "no migrations to roll back")
	})
}

func TestRun_UnknownMode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = run(db, &bytes.Buffer{}, "sideways", t.TempDir())

	assert.ErrorContains(t, err, "unknown mode")
}

func TestShippedMigrationsParse(t *testing.T) {
	files, err := listMigrations(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		content, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.NotEmpty(t, extractMigrationPart(string(content), "Up"), f)
		assert.NotEmpty(t, extractMigrationPart(string(content), "Down"), f)
	}
}
