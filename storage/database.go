package storage

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/darianmavgo/csvsql/config"
)

// Database is the directory-level handle over a set of table files: it
// walks the directory and yields one table name per matching file.
type Database struct {
	Config *config.Config
}

// New returns a Database rooted at cfg.DatabaseRoot.
func New(cfg *config.Config) *Database {
	return &Database{Config: cfg}
}

// Open loads the named table.
func (d *Database) Open(name string) (*Table, error) {
	return Open(d.Config, name)
}

// ListTables enumerates the table names present in the database directory:
// every regular file directly under DatabaseRoot whose name ends in
// Config.Extension, with the extension stripped, sorted for stable output.
func (d *Database) ListTables() ([]string, error) {
	entries, err := os.ReadDir(d.Config.DatabaseRoot)
	if err != nil {
		return nil, fmt.Errorf("csvsql: listing tables: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, d.Config.Extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, d.Config.Extension))
	}
	sort.Strings(names)
	return names, nil
}
