// Package storage implements the tabular storage abstraction: loading and
// rewriting a single character-separated table file, grounded on
// my_sqlite/query.py's AbstractQuery.append_table/_parse_table/
// _serialize_table.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/darianmavgo/csvsql/config"
	"github.com/darianmavgo/csvsql/qerr"
)

// Table is a named, ordered collection of records backed by one file.
type Table struct {
	Name        string
	Path        string
	Headers     []string
	HeaderIndex map[string]int
	Records     [][]string
}

// Open resolves name to a file under cfg.DatabaseRoot and loads its header
// and records. It fails with *qerr.NoSuchTable if the file does not exist.
func Open(cfg *config.Config, name string) (*Table, error) {
	path := filepath.Join(cfg.DatabaseRoot, name+cfg.Extension)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &qerr.NoSuchTable{Table: name}
	}
	if err != nil {
		return nil, fmt.Errorf("csvsql: reading table %s: %w", name, err)
	}

	headers, records := parseContent(string(content), cfg)
	return &Table{
		Name:        name,
		Path:        path,
		Headers:     headers,
		HeaderIndex: indexHeaders(headers),
		Records:     records,
	}, nil
}

func indexHeaders(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(h)] = i
	}
	return idx
}

// parseContent splits raw file content into a header row and data rows
// using cfg's configured separators. A trailing record separator at
// end-of-file is tolerated.
func parseContent(content string, cfg *config.Config) (headers []string, records [][]string) {
	recSep := string(cfg.RecordSep)
	rows := strings.Split(content, recSep)
	// Drop a single trailing empty row produced by a trailing separator.
	if len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return nil, nil
	}
	headers = strings.Split(rows[0], string(cfg.UnitSep))
	records = make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, strings.Split(row, string(cfg.UnitSep)))
	}
	return headers, records
}

// serializeRecords renders records with cfg's separators. A trailing
// record separator is present iff at least one record is given.
func serializeRecords(cfg *config.Config, records [][]string) string {
	if len(records) == 0 {
		return ""
	}
	rendered := make([]string, len(records))
	for i, rec := range records {
		rendered[i] = strings.Join(rec, string(cfg.UnitSep))
	}
	return strings.Join(rendered, string(cfg.RecordSep)) + string(cfg.RecordSep)
}

// Write replaces the table file's entire contents with its header
// followed by records.
func (t *Table) Write(cfg *config.Config, records [][]string) error {
	body := strings.Join(t.Headers, string(cfg.UnitSep)) + string(cfg.RecordSep) + serializeRecords(cfg, records)
	if err := os.WriteFile(t.Path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("csvsql: rewriting table %s: %w", t.Name, err)
	}
	t.Records = records
	return nil
}

// Append adds records to the end of the table file without rewriting
// existing bytes.
func (t *Table) Append(cfg *config.Config, records [][]string) error {
	f, err := os.OpenFile(t.Path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("csvsql: appending to table %s: %w", t.Name, err)
	}
	defer f.Close()
	if _, err := f.WriteString(serializeRecords(cfg, records)); err != nil {
		return fmt.Errorf("csvsql: appending to table %s: %w", t.Name, err)
	}
	t.Records = append(t.Records, records...)
	return nil
}

// Arity is the number of columns in this table (len(Headers)).
func (t *Table) Arity() int { return len(t.Headers) }
