// Package qerr implements the closed taxonomy of user-visible query errors.
// Every executor and builder returns one of these (or nil); driver.Run
// passes them to its caller, and the REPL prints each one as a single line.
package qerr

import "fmt"

// NoSuchTable reports a reference to an unbound or non-existent table.
type NoSuchTable struct{ Table string }

func (e *NoSuchTable) Error() string { return fmt.Sprintf("Error: no such table: %s", e.Table) }

// NoSuchColumn reports a column reference that no bound table could resolve.
type NoSuchColumn struct{ Ref string }

func (e *NoSuchColumn) Error() string { return fmt.Sprintf("Error: no such column: %s", e.Ref) }

// AmbiguousColumnName reports an unqualified column present in more than
// one bound table.
type AmbiguousColumnName struct{ Ref string }

func (e *AmbiguousColumnName) Error() string {
	return fmt.Sprintf("Error: ambiguous column name: %s", e.Ref)
}

// InsertError reports an arity mismatch, a missing primary-key column, or
// a duplicate primary key on INSERT.
type InsertError struct{ Msg string }

func (e *InsertError) Error() string { return fmt.Sprintf("Error: %s", e.Msg) }

// UpdateError reports a post-update duplicate primary key.
type UpdateError struct{ Msg string }

func (e *UpdateError) Error() string { return fmt.Sprintf("Error: %s", e.Msg) }

// QuerySyntaxError reports any grammar violation, including "no verb
// pattern matched."
type QuerySyntaxError struct{ Msg string }

func (e *QuerySyntaxError) Error() string { return fmt.Sprintf("Error: %s: syntax error", e.Msg) }
