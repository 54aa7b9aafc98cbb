// Package repl implements the interactive input loop: reading statements
// across lines until one ends in `;`, splitting the buffered text on each
// `;` that lies outside a double-quoted string literal (a `\"` escape does
// not close the literal), and handing each resulting statement to package
// driver. Grounded on my_sqlite.py's top-level loop.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/darianmavgo/csvsql/config"
	"github.com/darianmavgo/csvsql/driver"
	"github.com/darianmavgo/csvsql/export"
	"github.com/darianmavgo/csvsql/storage"
)

const (
	promptFirst = "csvsql> "
	promptMore  = "   ...> "
)

// Run reads statements from in and writes prompts, results, and error
// messages to out until in reaches EOF, at which point it returns nil
// (clean exit, matching my_sqlite.py's EOFError -> sys.exit()).
func Run(cfg *config.Config, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, promptFirst)
		line, ok := nextLine(scanner)
		for ok && (line == "" || onlySemicolons(line)) {
			fmt.Fprint(out, promptFirst)
			line, ok = nextLine(scanner)
		}
		if !ok {
			return scanner.Err()
		}

		if isMeta(line) {
			runMeta(cfg, out, line)
			continue
		}

		lines := []string{line}
		for line == "" || line[len(line)-1] != ';' {
			fmt.Fprint(out, promptMore)
			next, ok := nextLine(scanner)
			if !ok {
				return scanner.Err()
			}
			line = next
			lines = append(lines, line)
		}

		buffered := strings.Join(lines, " ")
		var stmts []string
		inQuote, start := false, 0
		for i := 0; i < len(buffered); i++ {
			switch {
			case inQuote && buffered[i] == '\\':
				i++
			case buffered[i] == '"':
				inQuote = !inQuote
			case !inQuote && buffered[i] == ';':
				stmts = append(stmts, buffered[start:i])
				start = i + 1
			}
		}
		stmts = append(stmts, buffered[start:])
		for _, stmt := range stmts {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			runStatement(cfg, out, stmt)
		}
	}
}

func nextLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

func onlySemicolons(line string) bool {
	for _, r := range line {
		if r != ';' {
			return false
		}
	}
	return true
}

func runStatement(cfg *config.Config, out io.Writer, stmt string) {
	if cfg.Verbose {
		log.Printf("[CSVSQL] executing: %s", stmt)
	}
	lines, err := driver.Run(cfg, stmt)
	if err != nil {
		if cfg.Verbose {
			log.Printf("[CSVSQL] statement failed: %v", err)
		}
		fmt.Fprintln(out, err.Error())
		return
	}
	if cfg.Verbose {
		log.Printf("[CSVSQL] statement completed: %d lines returned", len(lines))
	}
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
}

func isMeta(line string) bool {
	return strings.HasPrefix(line, ".")
}

// runMeta handles the two meta-commands this implementation adds beyond
// the core five-verb dialect: ".tables" lists the database directory's
// tables, ".snapshot <path>" exports it to a SQLite file (package export).
func runMeta(cfg *config.Config, out io.Writer, line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ".tables":
		names, err := storage.New(cfg).ListTables()
		if err != nil {
			fmt.Fprintln(out, err.Error())
			return
		}
		fmt.Fprintln(out, strings.Join(names, " "))
	case ".snapshot":
		if len(fields) != 2 {
			fmt.Fprintln(out, "Error: .snapshot expects exactly one destination path")
			return
		}
		if err := export.Snapshot(cfg, fields[1]); err != nil {
			fmt.Fprintln(out, "Error: "+err.Error())
			return
		}
		fmt.Fprintf(out, "snapshot written to %s\n", fields[1])
	default:
		fmt.Fprintf(out, "Error: unrecognized command: %s\n", fields[0])
	}
}
