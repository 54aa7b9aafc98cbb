// Command csvsql is the CLI entry point: it takes the database directory
// as its one required positional argument, then hands stdin/stdout to the
// REPL. Flag parsing is hand-rolled over os.Args rather than reaching for
// a flag-parsing package.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/darianmavgo/csvsql/config"
	"github.com/darianmavgo/csvsql/export"
	"github.com/darianmavgo/csvsql/repl"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  csvsql [-init] [-config <path>] [-snapshot <path>] <database_dir>")
	fmt.Println("  -init               write a starter config file and exit")
	fmt.Println("  -config <path>      load settings from an HCL config file (default: <database_dir>/csvsql.hcl)")
	fmt.Println("  -snapshot <path>    write a one-shot SQLite snapshot and exit, instead of starting the REPL")
}

func main() {
	var (
		initFlag     bool
		configPath   string
		snapshotPath string
		dbDir        string
	)

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-init":
			initFlag = true
		case "-config":
			i++
			if i >= len(args) {
				usage()
				os.Exit(1)
			}
			configPath = args[i]
		case "-snapshot":
			i++
			if i >= len(args) {
				usage()
				os.Exit(1)
			}
			snapshotPath = args[i]
		default:
			if dbDir != "" {
				usage()
				os.Exit(1)
			}
			dbDir = args[i]
		}
	}

	if dbDir == "" {
		usage()
		os.Exit(1)
	}
	if configPath == "" {
		configPath = filepath.Join(dbDir, "csvsql.hcl")
	}

	if initFlag {
		if err := config.Export(configPath, config.DefaultConfig(dbDir)); err != nil {
			fmt.Printf("Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote starter config to %s\n", configPath)
		return
	}

	cfg, err := config.Load(configPath, dbDir)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if snapshotPath != "" {
		if err := export.Snapshot(cfg, snapshotPath); err != nil {
			fmt.Printf("Error writing snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote snapshot to %s\n", snapshotPath)
		return
	}

	if err := repl.Run(cfg, os.Stdin, os.Stdout); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
