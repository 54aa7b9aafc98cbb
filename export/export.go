// Package export adds a one-way SQLite snapshot of a csvsql database:
// open (or create) a SQLite file, CREATE TABLE one statement per source
// table, and INSERT its records inside batched transactions. The snapshot
// is never read back by this program — every column is stored as TEXT,
// since typed column schemas are out of scope, and csvsql's own
// type-safe comparison semantics (package value) have no SQLite
// equivalent worth reproducing for a write-only export.
package export

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/darianmavgo/csvsql/config"
	"github.com/darianmavgo/csvsql/storage"
)

// batchSize caps rows committed per transaction so a large table doesn't
// hold one open transaction for its entire insert.
const batchSize = 1000

// Snapshot writes every table under cfg.DatabaseRoot into a fresh SQLite
// database at destPath.
func Snapshot(cfg *config.Config, destPath string) error {
	db := storage.New(cfg)
	names, err := db.ListTables()
	if err != nil {
		return err
	}

	conn, err := sql.Open("sqlite", destPath)
	if err != nil {
		return fmt.Errorf("csvsql: opening snapshot file: %w", err)
	}
	defer conn.Close()
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA page_size = 65536; PRAGMA cache_size = -2000;"); err != nil {
		return fmt.Errorf("csvsql: setting snapshot pragmas: %w", err)
	}

	for _, name := range names {
		t, err := db.Open(name)
		if err != nil {
			return err
		}
		if err := snapshotTable(conn, t); err != nil {
			return fmt.Errorf("csvsql: snapshotting table %s: %w", name, err)
		}
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func snapshotTable(conn *sql.DB, t *storage.Table) error {
	cols := make([]string, len(t.Headers))
	placeholders := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		cols[i] = quoteIdent(h) + " TEXT"
		placeholders[i] = "?"
	}
	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(t.Name), strings.Join(cols, ", "))
	if _, err := conn.Exec(createSQL); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	insertCols := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		insertCols[i] = quoteIdent(h)
	}
	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(t.Name), strings.Join(insertCols, ", "), strings.Join(placeholders, ", "))

	mainStmt, err := conn.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer mainStmt.Close()

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	stmt := tx.Stmt(mainStmt)

	for i, rec := range t.Records {
		args := make([]interface{}, len(rec))
		for j, cell := range rec {
			args[j] = cell
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting row: %w", err)
		}

		if (i+1)%batchSize == 0 {
			stmt.Close()
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("committing batch: %w", err)
			}
			tx, err = conn.Begin()
			if err != nil {
				return fmt.Errorf("beginning transaction: %w", err)
			}
			stmt = tx.Stmt(mainStmt)
		}
	}
	stmt.Close()
	return tx.Commit()
}
