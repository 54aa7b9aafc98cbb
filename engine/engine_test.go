package engine

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/darianmavgo/csvsql/config"
	"github.com/darianmavgo/csvsql/parser"
	"github.com/darianmavgo/csvsql/qerr"
	"github.com/darianmavgo/csvsql/query"
)

func newFixture(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig(dir)

	writeTable(t, cfg, "players", []string{"id", "nameFirst", "nameLast", "birthCountry"}, [][]string{
		{"1", "Ty", "Cobb", "USA"},
		{"2", "Babe", "Ruth", "USA"},
		{"3", "Jackie", "Robinson", "USA"},
	})
	writeTable(t, cfg, "batting", []string{"playerId", "yearId", "HR"}, [][]string{
		{"1", "1915", "3"},
		{"1", "1917", "6"},
		{"2", "1927", "60"},
		{"3", "1947", "12"},
	})
	return cfg
}

func writeTable(t *testing.T, cfg *config.Config, name string, headers []string, records [][]string) {
	t.Helper()
	rows := []string{join(headers, cfg)}
	for _, r := range records {
		rows = append(rows, join(r, cfg))
	}
	content := ""
	for _, r := range rows {
		content += r + string(cfg.RecordSep)
	}
	path := filepath.Join(cfg.DatabaseRoot, name+cfg.Extension)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeTable: %v", err)
	}
}

func join(cells []string, cfg *config.Config) string {
	out := ""
	for i, c := range cells {
		if i > 0 {
			out += string(cfg.UnitSep)
		}
		out += c
	}
	return out
}

func mustSelect(t *testing.T, cfg *config.Config, stmt string) [][]string {
	t.Helper()
	parsed, err := parser.Parse(stmt)
	if err != nil {
		t.Fatalf("parse %q: %v", stmt, err)
	}
	sel, ok := parsed.(*query.Select)
	if !ok {
		t.Fatalf("parse %q: got %T, want *query.Select", stmt, parsed)
	}
	rows, err := SelectExec(cfg, sel)
	if err != nil {
		t.Fatalf("SelectExec(%q): %v", stmt, err)
	}
	return rows
}

func TestScenario1LimitOrdersByScanOrder(t *testing.T) {
	cfg := newFixture(t)
	rows := mustSelect(t, cfg, `SELECT nameLast, nameFirst FROM players LIMIT 2`)
	want := [][]string{{"Cobb", "Ty"}, {"Ruth", "Babe"}}
	assertRows(t, rows, want)
}

func TestScenario2JoinWhereOrderBy(t *testing.T) {
	cfg := newFixture(t)
	rows := mustSelect(t, cfg, `SELECT nameLast, yearId, HR FROM players JOIN batting ON players.id = batting.playerId WHERE HR > "10" ORDER BY HR DESC`)
	want := [][]string{{"Ruth", "1927", "60"}, {"Robinson", "1947", "12"}}
	assertRows(t, rows, want)
}

func TestScenario3InsertThenSelectPreservesOrder(t *testing.T) {
	cfg := newFixture(t)
	parsed, err := parser.Parse(`INSERT INTO players (id, nameFirst, nameLast) VALUES ("4", "Hank", "Aaron")`)
	if err != nil {
		t.Fatalf("parse insert: %v", err)
	}
	if err := InsertExec(cfg, parsed.(*query.Insert)); err != nil {
		t.Fatalf("InsertExec: %v", err)
	}
	rows := mustSelect(t, cfg, `SELECT id FROM players`)
	want := [][]string{{"1"}, {"2"}, {"3"}, {"4"}}
	assertRows(t, rows, want)
}

func TestInsertLogsWhenVerbose(t *testing.T) {
	cfg := newFixture(t)
	cfg.Verbose = true
	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)
	parsed, err := parser.Parse(`INSERT INTO players (id, nameFirst, nameLast) VALUES ("4", "Hank", "Aaron")`)
	if err != nil {
		t.Fatalf("parse insert: %v", err)
	}
	if err := InsertExec(cfg, parsed.(*query.Insert)); err != nil {
		t.Fatalf("InsertExec: %v", err)
	}
	if !strings.Contains(logs.String(), "[CSVSQL] rewrote table players: 4 records") {
		t.Errorf("log output = %q, want the rewrite line for players", logs.String())
	}
	rows := mustSelect(t, cfg, `SELECT id FROM players`)
	want := [][]string{{"1"}, {"2"}, {"3"}, {"4"}}
	assertRows(t, rows, want)
}

func TestScenario4DuplicateInsertFailsAndLeavesFileUntouched(t *testing.T) {
	cfg := newFixture(t)
	path := filepath.Join(cfg.DatabaseRoot, "players.csv")
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := parser.Parse(`INSERT INTO players (id) VALUES ("1")`)
	if err != nil {
		t.Fatalf("parse insert: %v", err)
	}
	err = InsertExec(cfg, parsed.(*query.Insert))
	if _, ok := err.(*qerr.InsertError); !ok {
		t.Fatalf("got %#v, want InsertError", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Errorf("file changed after failed insert:\nbefore: %q\nafter:  %q", before, after)
	}
}

func TestScenario5UpdateRewritesAllMatches(t *testing.T) {
	cfg := newFixture(t)
	parsed, err := parser.Parse(`UPDATE players SET birthCountry = "USofA" WHERE birthCountry = "USA"`)
	if err != nil {
		t.Fatalf("parse update: %v", err)
	}
	if err := UpdateExec(cfg, parsed.(*query.Update)); err != nil {
		t.Fatalf("UpdateExec: %v", err)
	}
	rows := mustSelect(t, cfg, `SELECT birthCountry FROM players LIMIT 1`)
	assertRows(t, rows, [][]string{{"USofA"}})
}

func TestScenario6DeletePreservesOrder(t *testing.T) {
	cfg := newFixture(t)
	parsed, err := parser.Parse(`DELETE FROM players WHERE id = "2"`)
	if err != nil {
		t.Fatalf("parse delete: %v", err)
	}
	if err := DeleteExec(cfg, parsed.(*query.Delete)); err != nil {
		t.Fatalf("DeleteExec: %v", err)
	}
	rows := mustSelect(t, cfg, `SELECT id FROM players`)
	assertRows(t, rows, [][]string{{"1"}, {"3"}})
}

func TestSelectStarExpandsBothTablesInBindingOrder(t *testing.T) {
	cfg := newFixture(t)
	rows := mustSelect(t, cfg, `SELECT * FROM players JOIN batting ON players.id = batting.playerId LIMIT 1`)
	if len(rows[0]) != 7 {
		t.Errorf("len(row) = %d, want 7 (4 players + 3 batting)", len(rows[0]))
	}
}

func TestSelectAmbiguousColumnFails(t *testing.T) {
	cfg := newFixture(t)
	parsed, err := parser.Parse(`SELECT id FROM players JOIN players`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = SelectExec(cfg, parsed.(*query.Select))
	if _, ok := err.(*qerr.AmbiguousColumnName); !ok {
		t.Errorf("got %#v, want AmbiguousColumnName", err)
	}
}

func TestDescribeReturnsCasePreservedHeaders(t *testing.T) {
	cfg := newFixture(t)
	parsed, err := parser.Parse(`DESCRIBE players`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	headers, err := DescribeExec(cfg, parsed.(*query.Describe))
	if err != nil {
		t.Fatalf("DescribeExec: %v", err)
	}
	want := []string{"id", "nameFirst", "nameLast", "birthCountry"}
	assertStrings(t, headers, want)
}

func TestUpdateIntroducedDuplicateFails(t *testing.T) {
	cfg := newFixture(t)
	parsed, err := parser.Parse(`UPDATE players SET id = "1" WHERE id = "2"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	err = UpdateExec(cfg, parsed.(*query.Update))
	if _, ok := err.(*qerr.UpdateError); !ok {
		t.Fatalf("got %#v, want UpdateError", err)
	}
}

func TestOrderByEmptySortsLast(t *testing.T) {
	cfg := newFixture(t)
	parsed, err := parser.Parse(`UPDATE players SET birthCountry = "" WHERE id = "1"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := UpdateExec(cfg, parsed.(*query.Update)); err != nil {
		t.Fatalf("UpdateExec: %v", err)
	}
	rows := mustSelect(t, cfg, `SELECT id FROM players ORDER BY birthCountry`)
	if rows[len(rows)-1][0] != "1" {
		t.Errorf("last row id = %q, want 1 (empty birthCountry sorts last)", rows[len(rows)-1][0])
	}
}

func assertRows(t *testing.T, got, want [][]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		assertStrings(t, got[i], want[i])
	}
}

func assertStrings(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			return
		}
	}
}
