// Package catalog implements the per-query name resolver: tracking the 1
// or 2 tables bound by FROM/JOIN and mapping qualified or unqualified
// column references to a (table-index, column-index) Key, grounded on
// my_sqlite/query.py's FilteredQuery._map_key/_map_keys/_get_key_set.
package catalog

import (
	"strings"

	"github.com/darianmavgo/csvsql/qerr"
	"github.com/darianmavgo/csvsql/storage"
)

// Key is the internal (table-index, column-index) address name resolution
// produces; it is the only address executors use.
type Key struct {
	Table  int
	Column int
}

// Catalog holds the tables bound by a single query, in binding order.
type Catalog struct {
	tables []*storage.Table
}

// New returns an empty catalog.
func New() *Catalog { return &Catalog{} }

// Bind appends tbl to the catalog and returns its positional index (0 or
// 1). A second binding sharing a name with the first remains addressable
// by column lookup (it is just another entry in tables); user-level
// `name.*`/`name.col` qualification always resolves to the first binding
// with that name; later bindings of the same name are not independently
// addressable by qualifier.
func (c *Catalog) Bind(tbl *storage.Table) int {
	c.tables = append(c.tables, tbl)
	return len(c.tables) - 1
}

// Table returns the binding at index i.
func (c *Catalog) Table(i int) *storage.Table { return c.tables[i] }

// Len reports how many tables are bound (1 or 2 for a valid query).
func (c *Catalog) Len() int { return len(c.tables) }

// firstBindingNamed returns the index of the first bound table whose name
// matches qualifier case-insensitively, or -1 if none does.
func (c *Catalog) firstBindingNamed(qualifier string) int {
	for i, t := range c.tables {
		if strings.EqualFold(t.Name, qualifier) {
			return i
		}
	}
	return -1
}

// Resolve implements the column-reference rules: a dotted reference `A.C`
// looks up C within the table named A (failing
// *qerr.NoSuchColumn if A isn't bound or lacks C); a bare `C` matches
// case-insensitively against every bound table's headers, requiring
// exactly one match.
func (c *Catalog) Resolve(ref string) (Key, error) {
	if dot := strings.IndexByte(ref, '.'); dot >= 0 {
		qualifier, column := ref[:dot], ref[dot+1:]
		idx := c.firstBindingNamed(qualifier)
		if idx < 0 {
			return Key{}, &qerr.NoSuchColumn{Ref: ref}
		}
		col, ok := c.tables[idx].HeaderIndex[strings.ToLower(column)]
		if !ok {
			return Key{}, &qerr.NoSuchColumn{Ref: ref}
		}
		return Key{Table: idx, Column: col}, nil
	}

	lower := strings.ToLower(ref)
	var matches []Key
	for i, t := range c.tables {
		if col, ok := t.HeaderIndex[lower]; ok {
			matches = append(matches, Key{Table: i, Column: col})
		}
	}
	switch len(matches) {
	case 0:
		return Key{}, &qerr.NoSuchColumn{Ref: ref}
	case 1:
		return matches[0], nil
	default:
		return Key{}, &qerr.AmbiguousColumnName{Ref: ref}
	}
}

// ResolveStar expands a star projection term. qualifier == "" expands to
// every column of every bound table, in binding order; a non-empty
// qualifier expands to every column of the named table and fails
// *qerr.NoSuchTable if no bound table has that name.
func (c *Catalog) ResolveStar(qualifier string) ([]Key, error) {
	if qualifier == "" {
		var keys []Key
		for i, t := range c.tables {
			for col := range t.Headers {
				keys = append(keys, Key{Table: i, Column: col})
			}
		}
		return keys, nil
	}
	idx := c.firstBindingNamed(qualifier)
	if idx < 0 {
		return nil, &qerr.NoSuchTable{Table: qualifier}
	}
	keys := make([]Key, len(c.tables[idx].Headers))
	for col := range c.tables[idx].Headers {
		keys[col] = Key{Table: idx, Column: col}
	}
	return keys, nil
}
