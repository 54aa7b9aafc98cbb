// Package config holds the explicit settings threaded through every
// query: database root, storage separators, file extension, and
// verbosity are passed as a Config rather than read from process-wide
// state.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Config carries everything a query needs beyond the parsed statement text.
type Config struct {
	// DatabaseRoot is the directory holding one file per table. It always
	// comes from the CLI's positional argument, never from the HCL
	// override file.
	DatabaseRoot string

	Extension  string
	UnitSep    rune
	RecordSep  rune
	DisplaySep rune
	Verbose    bool
}

// fileConfig is the shape of the optional HCL override file. HCL has no
// rune type, so separators are decoded as their Unicode code point.
type fileConfig struct {
	Extension     *string `hcl:"extension,optional"`
	UnitSepCode   *int    `hcl:"unit_separator,optional"`
	RecordSepCode *int    `hcl:"record_separator,optional"`
	Verbose       *bool   `hcl:"verbose,optional"`
}

// DefaultConfig returns the default settings: extension ".csv", unit
// separator ASCII 0x1F, record separator newline (see DESIGN.md Open
// Question resolution — the source disagreed between newline and ASCII
// 0x1E; this implementation picks newline and uses it for both reads and
// writes), display separator '|'.
func DefaultConfig(databaseRoot string) *Config {
	return &Config{
		DatabaseRoot: databaseRoot,
		Extension:    ".csv",
		UnitSep:      0x1F,
		RecordSep:    '\n',
		DisplaySep:   '|',
	}
}

// Load overlays an HCL override file (extension, separators, verbosity) on
// top of DefaultConfig. The database root is supplied by the caller and is
// never read from the file. A missing file is not an error: the defaults
// stand.
func Load(path, databaseRoot string) (*Config, error) {
	cfg := DefaultConfig(databaseRoot)

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file: %s", diags.Error())
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config: %s", diags.Error())
	}

	if fc.Extension != nil {
		cfg.Extension = *fc.Extension
	}
	if fc.UnitSepCode != nil {
		cfg.UnitSep = rune(*fc.UnitSepCode)
	}
	if fc.RecordSepCode != nil {
		cfg.RecordSep = rune(*fc.RecordSepCode)
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	return cfg, nil
}

// Export writes cfg to path as an HCL starter file, used by the CLI's
// -init flag.
func Export(path string, cfg *Config) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	root.SetAttributeValue("extension", cty.StringVal(cfg.Extension))
	root.SetAttributeValue("unit_separator", cty.NumberIntVal(int64(cfg.UnitSep)))
	root.SetAttributeValue("record_separator", cty.NumberIntVal(int64(cfg.RecordSep)))
	root.SetAttributeValue("verbose", cty.BoolVal(cfg.Verbose))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(f.Bytes()); err != nil {
		return fmt.Errorf("failed to write config to file: %w", err)
	}
	return nil
}
