package db

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/robalobadob/circuitquest/apps/go-server/assets"
)

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.db")
	db, err := OpenAndMigrate(path, assets.Migrations())
	if err != nil {
		t.Fatalf("OpenAndMigrate: %v", err)
	}
	defer db.Close()

	if err := Migrate(db, assets.Migrations()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("recorded migrations = %d, want 1", n)
	}

	for _, table := range []string{"users", "rounds", "daily_results"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestMigrateRollsBackFailedScript(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	bad := fstest.MapFS{
		"001_ok.sql":  {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"002_bad.sql": {Data: []byte(`CREATE TABLE b (id INTEGER); NOT VALID SQL;`)},
	}
	if err := Migrate(db, bad); err == nil {
		t.Fatal("expected error from invalid migration")
	}

	var n int
	_ = db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n)
	if n != 1 {
		t.Errorf("recorded migrations = %d, want 1", n)
	}
	var name string
	if err := db.QueryRow(`SELECT name FROM sqlite_master WHERE name='b'`).Scan(&name); err == nil {
		t.Error("table b should have been rolled back")
	}
}
