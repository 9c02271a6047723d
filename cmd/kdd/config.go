package main

import (
	"encoding/json"
	"fmt"

	"github.com/c360studio/kdd/config"
)

// resolveConfig builds configuration from defaults, then KDD_SPECS_PATH/
// KDD_INDEX_PATH, then CLI flags, in that order of increasing precedence.
func resolveConfig(flags *cliFlags) *config.Config {
	cfg := config.DefaultConfig()
	cfg.ApplyEnv()
	if flags.specsPath != "" {
		cfg.Index.SpecsPath = flags.specsPath
	}
	if flags.indexPath != "" {
		cfg.Index.IndexPath = flags.indexPath
	}
	return cfg
}

// printJSON writes v to stdout as indented JSON, the CLI's default
// output format per spec.md §6.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
