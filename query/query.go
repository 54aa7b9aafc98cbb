// Package query implements the typed query AST: one type per verb, built
// by the parser as struct values (Select and Insert through the NewSelect
// and NewInsert constructors), grounded on
// my_sqlite/builder.py's AbstractQueryBuilder hierarchy and
// my_sqlite/query.py's five query classes. Validation that needs an opened
// table (column-0-required, arity-vs-table-arity) happens in package
// engine, which is the first layer to actually open a table; everything
// checkable from parsed text alone is validated here.
package query

import "github.com/darianmavgo/csvsql/qerr"

// ColRef is an unresolved column reference as written by the user: either
// bare ("nameFirst") or qualified ("players.nameFirst").
type ColRef = string

// ProjTerm is one term of a SELECT projection list: either a plain column
// reference, or a star (optionally qualified by a table name).
type ProjTerm struct {
	Star      bool
	Qualifier string // only meaningful when Star is true; "" means unqualified *
	Column    ColRef // only meaningful when Star is false
}

// OrderTerm is one ORDER BY term.
type OrderTerm struct {
	Column    ColRef
	Ascending bool
}

// Where is an optional WHERE clause: a column reference, a comparison
// operator, and the literal right-hand side (already coercion-ready text).
type Where struct {
	Column  ColRef
	Op      string
	Literal string
}

// Join is an optional SELECT JOIN clause.
type Join struct {
	Table string
	On    *On // nil when JOIN has no ON
}

// On is a JOIN's equality condition between two column references.
type On struct {
	Left, Right ColRef
}

// Describe is `DESCRIBE <table>`.
type Describe struct {
	Table string
}

// Select is `SELECT ... FROM ... [JOIN ...] [WHERE ...] [ORDER BY ...] [LIMIT ...]`.
type Select struct {
	From       string
	Join       *Join
	Where      *Where
	Projection []ProjTerm // empty means "all columns of all bound tables"
	OrderBy    []OrderTerm
	Limit      int // negative disables the limit
}

// NewSelect builds a Select, applying the one assembly-time rule that
// doesn't need an opened table: a negative LIMIT disables the cap.
func NewSelect(from string, join *Join, where *Where, projection []ProjTerm, orderBy []OrderTerm, limit int) *Select {
	if limit < 0 {
		limit = -1
	}
	return &Select{From: from, Join: join, Where: where, Projection: projection, OrderBy: orderBy, Limit: limit}
}

// Insert is `INSERT INTO <table> [(<columns>)] VALUES (<row>), ...`.
type Insert struct {
	Table   string
	Columns []string // nil means "no explicit column list"
	Values  [][]string
}

// NewInsert validates the structural rules that don't require an opened
// table: VALUES must be non-empty, every row must have the same arity, and
// if an explicit column list is given every row's arity must match it.
// The column-0-required rule and the "no columns, so arity must match the
// table" rule are checked by package engine once the table is open.
func NewInsert(table string, columns []string, values [][]string) (*Insert, error) {
	if len(values) == 0 {
		return nil, &qerr.InsertError{Msg: "VALUES must supply at least one row"}
	}
	arity := len(values[0])
	for _, row := range values {
		if len(row) != arity {
			return nil, &qerr.InsertError{Msg: "all VALUES must have the same number of terms"}
		}
	}
	if columns != nil && len(columns) != arity {
		return nil, &qerr.InsertError{Msg: "the number of values must match the number of columns"}
	}
	return &Insert{Table: table, Columns: columns, Values: values}, nil
}

// Assignment is one `column = "value"` pair in an UPDATE's SET clause.
type Assignment struct {
	Column string
	Value  string
}

// Update is `UPDATE <table> SET <assignments> [WHERE ...]`.
type Update struct {
	Table string
	Set   []Assignment
	Where *Where
}

// Delete is `DELETE FROM <table> [WHERE ...]`.
type Delete struct {
	Table string
	Where *Where
}
