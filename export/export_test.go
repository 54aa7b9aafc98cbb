package export

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/darianmavgo/csvsql/config"
)

func TestSnapshotWritesQueryableTables(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig(dir)
	content := "id" + string(cfg.UnitSep) + "nameFirst" + string(cfg.RecordSep) +
		"1" + string(cfg.UnitSep) + "Ty" + string(cfg.RecordSep) +
		"2" + string(cfg.UnitSep) + "Babe" + string(cfg.RecordSep)
	if err := os.WriteFile(filepath.Join(dir, "players.csv"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(dir, "snapshot.db")
	if err := Snapshot(cfg, dest); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	db, err := sql.Open("sqlite", dest)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT "id", "nameFirst" FROM "players" ORDER BY "id"`)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	defer rows.Close()

	var got [][2]string
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			t.Fatalf("Scan: %v", err)
		}
		got = append(got, [2]string{id, name})
	}
	want := [][2]string{{"1", "Ty"}, {"2", "Babe"}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSnapshotEmptyDatabaseCreatesNoTables(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig(dir)
	dest := filepath.Join(dir, "snapshot.db")
	if err := Snapshot(cfg, dest); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("snapshot file not created: %v", err)
	}
}
