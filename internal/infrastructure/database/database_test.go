package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestOpen verifies database connection establishment.
func TestOpen(t *testing.T) {
	t.Run("creates database file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		db, err := Open(Config{Path: dbPath, BusyTimeout: 5})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		// The file appears on first write.
		if _, err := db.ExecContext(context.Background(), "CREATE TABLE t (id INTEGER)"); err != nil {
			t.Fatalf("ExecContext() error = %v", err)
		}
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("creates directory if not exists", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

		db, err := Open(Config{Path: dbPath, BusyTimeout: 5})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
			t.Error("database directory was not created")
		}
	})

	t.Run("returns path", func(t *testing.T) {
		db := openTestDB(t)
		defer db.Close() //nolint:errcheck // Test cleanup

		if filepath.Base(db.Path()) != "test.db" {
			t.Errorf("Path() = %v, want a path ending in test.db", db.Path())
		}
		if db.ReadOnly() {
			t.Error("ReadOnly() = true, want false")
		}
	})
}

// TestOpen_ReadOnly verifies read-only connections.
func TestOpen_ReadOnly(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "missing.db")

		_, err := Open(Config{Path: dbPath, ReadOnly: true})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Open() error = %v, want %v", err, ErrNotFound)
		}
		if _, statErr := os.Stat(dbPath); !os.IsNotExist(statErr) {
			t.Error("read-only Open created the file")
		}
	})

	t.Run("directory", func(t *testing.T) {
		_, err := Open(Config{Path: t.TempDir(), ReadOnly: true})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Open() error = %v, want %v", err, ErrNotFound)
		}
	})

	t.Run("reads but refuses writes", func(t *testing.T) {
		ctx := context.Background()
		dbPath := filepath.Join(t.TempDir(), "ro.db")

		rw, err := Open(Config{Path: dbPath, BusyTimeout: 5})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if _, err := rw.ExecContext(ctx, "CREATE TABLE items (name TEXT)"); err != nil {
			t.Fatalf("CREATE TABLE error = %v", err)
		}
		if _, err := rw.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", "one"); err != nil {
			t.Fatalf("INSERT error = %v", err)
		}
		rw.Close() //nolint:errcheck // Test cleanup

		ro, err := Open(Config{Path: dbPath, ReadOnly: true, BusyTimeout: 5})
		if err != nil {
			t.Fatalf("Open() read-only error = %v", err)
		}
		defer ro.Close() //nolint:errcheck // Test cleanup

		if !ro.ReadOnly() {
			t.Error("ReadOnly() = false, want true")
		}

		var count int
		if err := ro.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&count); err != nil {
			t.Fatalf("SELECT error = %v", err)
		}
		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}

		if _, err := ro.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", "two"); err == nil {
			t.Error("INSERT on read-only connection succeeded, want error")
		}
	})
}

// TestOpen_SpecialCharacterPaths verifies file names that carry URI syntax.
func TestOpen_SpecialCharacterPaths(t *testing.T) {
	names := []string{"a#b.db", "a?b.db", "100%.db", "with space.db", "x?mode=rwc#y.db"}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			dbPath := filepath.Join(dir, name)

			rw, err := Open(Config{Path: dbPath, BusyTimeout: 5})
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if _, err := rw.ExecContext(ctx, "CREATE TABLE devices (serial_number TEXT)"); err != nil {
				t.Fatalf("CREATE TABLE error = %v", err)
			}
			rw.Close() //nolint:errcheck // Test cleanup

			ro, err := Open(Config{Path: dbPath, ReadOnly: true, BusyTimeout: 5})
			if err != nil {
				t.Fatalf("Open() read-only error = %v", err)
			}
			defer ro.Close() //nolint:errcheck // Test cleanup

			ok, err := ro.HasTable(ctx, "devices")
			if err != nil {
				t.Fatalf("HasTable() error = %v", err)
			}
			if !ok {
				t.Error("HasTable(devices) = false, read-only open reached a different file")
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("ReadDir() error = %v", err)
			}
			if len(entries) != 1 || entries[0].Name() != name {
				var got []string
				for _, e := range entries {
					got = append(got, e.Name())
				}
				t.Errorf("directory holds %v, want only %q", got, name)
			}
		})
	}
}

// TestHealthCheck verifies the health check functionality.
func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

// TestHasTable verifies table discovery.
func TestHasTable(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "CREATE TABLE devices (serial_number TEXT)"); err != nil {
		t.Fatalf("CREATE TABLE error = %v", err)
	}

	tests := []struct {
		table string
		want  bool
	}{
		{"devices", true},
		{"missing", false},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			got, err := db.HasTable(ctx, tt.table)
			if err != nil {
				t.Fatalf("HasTable() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("HasTable(%q) = %v, want %v", tt.table, got, tt.want)
			}
		})
	}
}

// TestClose verifies graceful shutdown.
func TestClose(t *testing.T) {
	db := openTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// Second close should not error (nil check)
	db.DB = nil
	if err := db.Close(); err != nil {
		t.Errorf("Close() on nil DB error = %v", err)
	}
}

// TestQueryContext verifies multi-row queries.
func TestQueryContext(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "CREATE TABLE q (name TEXT)"); err != nil {
		t.Fatalf("CREATE TABLE error = %v", err)
	}
	for _, n := range []string{"a", "b", "c"} {
		if _, err := db.ExecContext(ctx, "INSERT INTO q (name) VALUES (?)", n); err != nil {
			t.Fatalf("INSERT error = %v", err)
		}
	}

	rows, err := db.QueryContext(ctx, "SELECT name FROM q ORDER BY rowid")
	if err != nil {
		t.Fatalf("QueryContext() error = %v", err)
	}
	defer rows.Close()

	var got []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		got = append(got, n)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows.Err() = %v", err)
	}
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("rows = %v, want [a b c]", got)
	}

	if _, err := db.QueryContext(ctx, "SELECT nope FROM q"); err == nil {
		t.Error("QueryContext() on bad column succeeded, want error")
	}
}

// openTestDB creates a temporary database for testing.
func openTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(Config{
		Path:        dbPath,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	return db
}
