// Package driver implements the statement-boundary entry point: parse,
// execute, print or report — the only code path the REPL ever calls,
// grounded on my_sqlite/runner.py's Runner.execute and my_sqlite.py's
// top-level try/except around each statement.
package driver

import (
	"fmt"
	"strings"

	"github.com/darianmavgo/csvsql/config"
	"github.com/darianmavgo/csvsql/engine"
	"github.com/darianmavgo/csvsql/parser"
	"github.com/darianmavgo/csvsql/query"
)

// Run parses stmt, executes it against cfg's database, and returns the
// lines to print on success (empty for mutations). Any *qerr.* error, or
// any other failure, is returned for the caller to report — Run never
// panics and never partially prints a result.
func Run(cfg *config.Config, stmt string) ([]string, error) {
	parsed, err := parser.Parse(stmt)
	if err != nil {
		return nil, err
	}

	switch q := parsed.(type) {
	case *query.Select:
		rows, err := engine.SelectExec(cfg, q)
		if err != nil {
			return nil, err
		}
		lines := make([]string, len(rows))
		for i, row := range rows {
			lines[i] = strings.Join(row, string(cfg.DisplaySep))
		}
		return lines, nil

	case *query.Describe:
		headers, err := engine.DescribeExec(cfg, q)
		if err != nil {
			return nil, err
		}
		return []string{strings.Join(headers, " ")}, nil

	case *query.Insert:
		if err := engine.InsertExec(cfg, q); err != nil {
			return nil, err
		}
		return nil, nil

	case *query.Update:
		if err := engine.UpdateExec(cfg, q); err != nil {
			return nil, err
		}
		return nil, nil

	case *query.Delete:
		if err := engine.DeleteExec(cfg, q); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("csvsql: parser produced unknown query type %T", parsed)
	}
}
