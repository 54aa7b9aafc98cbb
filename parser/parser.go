// Package parser turns one trimmed statement string into a query AST
// value, grounded on my_sqlite/builder.py's five builder classes.
// Each verb gets one anchored, case-insensitive top-level regex whose
// groups capture clause text loosely (".+", "[\s\S]+?"); once that regex
// matches, the statement is committed to that verb and each clause's raw
// text is parsed on its own, failing with a precise *qerr.QuerySyntaxError
// if its shape is wrong. Go's regexp (RE2) has no lookaround, but none of
// these patterns actually need it — the quoted-literal body in literal.go
// guarantees unescaped-quote termination without a lookbehind assertion.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/darianmavgo/csvsql/qerr"
	"github.com/darianmavgo/csvsql/query"
)

var tableIdentPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
var colrefPattern = regexp.MustCompile(`^[A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)?$`)
var starPattern = regexp.MustCompile(`^(?:([A-Za-z0-9_]+)\.)?\*$`)
var orderTermPattern = regexp.MustCompile(`^([A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)?)(?:\s+(?i:(asc|desc)))?$`)
var wherePattern = regexp.MustCompile(`^\s*([A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)?)\s*(<=|<|!=|=|>=|>)\s*"(` + quotedBody + `)"\s*$`)

var describePattern = regexp.MustCompile(`^(?i:DESCRIBE)\s+(?P<table>.+)$`)

var selectPattern = regexp.MustCompile(
	`^(?i:SELECT)\s+(?P<select>.+)` +
		`\s+(?i:FROM)\s+(?P<from>.+?)` +
		`(?:\s+(?i:JOIN)\s+(?P<join>.+?)(?:\s+(?i:ON)\s+(?P<on>.+?))?)?` +
		`(?:\s+(?i:WHERE)\s+(?P<where>[\s\S]+?))?` +
		`(?:\s+(?i:ORDER\s+BY)\s+(?P<order_by>.+?))?` +
		`(?:\s+(?i:LIMIT)\s+(?P<limit>.+?))?$`)

var updatePattern = regexp.MustCompile(
	`^(?i:UPDATE)\s+(?P<table>.+?)` +
		`\s+(?i:SET)\s+(?P<set>[\s\S]+?)` +
		`(?:\s+(?i:WHERE)\s+(?P<where>[\s\S]+?))?$`)

var deletePattern = regexp.MustCompile(
	`^(?i:DELETE\s+FROM)\s+(?P<from>.+?)` +
		`(?:\s+(?i:WHERE)\s+(?P<where>[\s\S]+?))?$`)

var insertPattern = regexp.MustCompile(
	`^(?i:INSERT\s+INTO)\s+(?P<into>.+?)` +
		`(?:\s+\((?P<columns>.+)\))?` +
		`\s+(?i:VALUES)\s+(?P<values>[\s\S]+)$`)

var onPattern = regexp.MustCompile(`^\s*([A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)?)\s*=\s*([A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)?)\s*$`)

var setPairPattern = regexp.MustCompile(`([A-Za-z0-9_]+)\s*=\s*"(` + quotedBody + `)"`)
var setFullPattern = regexp.MustCompile(`^\s*[A-Za-z0-9_]+\s*=\s*"` + quotedBody + `"\s*(?:,\s*[A-Za-z0-9_]+\s*=\s*"` + quotedBody + `"\s*)*$`)

var valuePattern = regexp.MustCompile(`"(` + quotedBody + `)"`)
var rowPattern = regexp.MustCompile(`\(\s*"` + quotedBody + `"\s*(?:,\s*"` + quotedBody + `"\s*)*\)`)
var rowsFullPattern = regexp.MustCompile(`^\s*\(\s*"` + quotedBody + `"\s*(?:,\s*"` + quotedBody + `"\s*)*\)\s*(?:,\s*\(\s*"` + quotedBody + `"\s*(?:,\s*"` + quotedBody + `"\s*)*\)\s*)*$`)

// named looks up a capture group's text by name, returning "" if the group
// didn't participate in the match.
func named(re *regexp.Regexp, m []string, name string) string {
	for i, n := range re.SubexpNames() {
		if n == name {
			return m[i]
		}
	}
	return ""
}

// Parse dispatches stmt to the first verb pattern that fully matches its
// trimmed text, in the fixed order DESCRIBE, SELECT, UPDATE, DELETE,
// INSERT, returning one of *query.Describe, *query.Select, *query.Update,
// *query.Delete, *query.Insert. If no verb pattern matches at all, it
// reports *qerr.QuerySyntaxError.
func Parse(stmt string) (interface{}, error) {
	stmt = strings.TrimSpace(stmt)

	if m := describePattern.FindStringSubmatch(stmt); m != nil {
		return parseDescribe(m)
	}
	if m := selectPattern.FindStringSubmatch(stmt); m != nil {
		return parseSelect(m)
	}
	if m := updatePattern.FindStringSubmatch(stmt); m != nil {
		return parseUpdate(m)
	}
	if m := deletePattern.FindStringSubmatch(stmt); m != nil {
		return parseDelete(m)
	}
	if m := insertPattern.FindStringSubmatch(stmt); m != nil {
		return parseInsert(m)
	}
	return nil, &qerr.QuerySyntaxError{Msg: "input matches no known query"}
}

func parseDescribe(m []string) (*query.Describe, error) {
	table := strings.TrimSpace(named(describePattern, m, "table"))
	if !tableIdentPattern.MatchString(table) {
		return nil, &qerr.QuerySyntaxError{Msg: "DESCRIBE expects exactly one table name"}
	}
	return &query.Describe{Table: table}, nil
}

func splitTerms(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseProjection(raw string) []query.ProjTerm {
	var terms []query.ProjTerm
	for _, part := range splitTerms(raw) {
		if sm := starPattern.FindStringSubmatch(part); sm != nil {
			terms = append(terms, query.ProjTerm{Star: true, Qualifier: sm[1]})
			continue
		}
		terms = append(terms, query.ProjTerm{Column: part})
	}
	return terms
}

func parseWhere(raw string) (*query.Where, error) {
	if raw == "" {
		return nil, nil
	}
	m := wherePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, &qerr.QuerySyntaxError{Msg: `WHERE clause expects "<column> <op> \"<value>\"" where <op> is one of <, <=, =, !=, >=, >`}
	}
	return &query.Where{Column: m[1], Op: m[2], Literal: unescapeLiteral(m[3])}, nil
}

func parseOrderBy(raw string) ([]query.OrderTerm, error) {
	if raw == "" {
		return nil, nil
	}
	var terms []query.OrderTerm
	for _, part := range splitTerms(raw) {
		m := orderTermPattern.FindStringSubmatch(part)
		if m == nil {
			return nil, &qerr.QuerySyntaxError{Msg: "ORDER BY expects a column reference optionally followed by ASC or DESC"}
		}
		ascending := !strings.EqualFold(m[2], "desc")
		terms = append(terms, query.OrderTerm{Column: m[1], Ascending: ascending})
	}
	return terms, nil
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &qerr.QuerySyntaxError{Msg: "LIMIT expects exactly one integer"}
	}
	return n, nil
}

func parseJoin(rawJoin, rawOn string) (*query.Join, error) {
	if rawJoin == "" {
		return nil, nil
	}
	table := strings.TrimSpace(rawJoin)
	if !tableIdentPattern.MatchString(table) {
		return nil, &qerr.QuerySyntaxError{Msg: "JOIN expects exactly one table name"}
	}
	if rawOn == "" {
		return &query.Join{Table: table}, nil
	}
	m := onPattern.FindStringSubmatch(rawOn)
	if m == nil {
		return nil, &qerr.QuerySyntaxError{Msg: "ON expects exactly one column = column condition"}
	}
	return &query.Join{Table: table, On: &query.On{Left: m[1], Right: m[2]}}, nil
}

func parseSelect(m []string) (*query.Select, error) {
	from := strings.TrimSpace(named(selectPattern, m, "from"))
	if !tableIdentPattern.MatchString(from) {
		return nil, &qerr.QuerySyntaxError{Msg: "FROM expects exactly one table name"}
	}
	join, err := parseJoin(named(selectPattern, m, "join"), named(selectPattern, m, "on"))
	if err != nil {
		return nil, err
	}
	where, err := parseWhere(named(selectPattern, m, "where"))
	if err != nil {
		return nil, err
	}
	orderBy, err := parseOrderBy(named(selectPattern, m, "order_by"))
	if err != nil {
		return nil, err
	}
	limit, err := parseLimit(named(selectPattern, m, "limit"))
	if err != nil {
		return nil, err
	}
	projection := parseProjection(named(selectPattern, m, "select"))
	return query.NewSelect(from, join, where, projection, orderBy, limit), nil
}

func parseUpdate(m []string) (*query.Update, error) {
	table := strings.TrimSpace(named(updatePattern, m, "table"))
	if !tableIdentPattern.MatchString(table) {
		return nil, &qerr.QuerySyntaxError{Msg: "UPDATE expects exactly one table name"}
	}
	rawSet := named(updatePattern, m, "set")
	if !setFullPattern.MatchString(rawSet) {
		return nil, &qerr.QuerySyntaxError{Msg: `SET clause expects "<column> = \"<value>\"" pairs separated by commas`}
	}
	var assignments []query.Assignment
	for _, pm := range setPairPattern.FindAllStringSubmatch(rawSet, -1) {
		assignments = append(assignments, query.Assignment{Column: pm[1], Value: unescapeLiteral(pm[2])})
	}
	where, err := parseWhere(named(updatePattern, m, "where"))
	if err != nil {
		return nil, err
	}
	return &query.Update{Table: table, Set: assignments, Where: where}, nil
}

func parseDelete(m []string) (*query.Delete, error) {
	table := strings.TrimSpace(named(deletePattern, m, "from"))
	if !tableIdentPattern.MatchString(table) {
		return nil, &qerr.QuerySyntaxError{Msg: "DELETE FROM expects exactly one table name"}
	}
	where, err := parseWhere(named(deletePattern, m, "where"))
	if err != nil {
		return nil, err
	}
	return &query.Delete{Table: table, Where: where}, nil
}

func parseInsert(m []string) (*query.Insert, error) {
	table := strings.TrimSpace(named(insertPattern, m, "into"))
	if !tableIdentPattern.MatchString(table) {
		return nil, &qerr.QuerySyntaxError{Msg: "INSERT INTO expects exactly one table name"}
	}

	var columns []string
	if rawColumns := named(insertPattern, m, "columns"); rawColumns != "" {
		columns = splitTerms(rawColumns)
		for _, c := range columns {
			if !tableIdentPattern.MatchString(c) {
				return nil, &qerr.QuerySyntaxError{Msg: "column list expects plain column names"}
			}
		}
	}

	rawValues := named(insertPattern, m, "values")
	if !rowsFullPattern.MatchString(rawValues) {
		return nil, &qerr.QuerySyntaxError{Msg: `VALUES expects one or more ("<value>", ...) rows`}
	}
	var rows [][]string
	for _, rawRow := range rowPattern.FindAllString(rawValues, -1) {
		var row []string
		for _, vm := range valuePattern.FindAllStringSubmatch(rawRow, -1) {
			row = append(row, unescapeLiteral(vm[1]))
		}
		rows = append(rows, row)
	}

	return query.NewInsert(table, columns, rows)
}
