package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kompox/amlops/adapters/store/inmem"
	"github.com/kompox/amlops/adapters/store/rdb"
	"github.com/kompox/amlops/domain"
)

const defaultDBURL = "inmem:"

// getDBURL extracts the db-url flag value from command hierarchy.
func getDBURL(cmd *cobra.Command) string {
	f := findFlag(cmd, "db-url")
	if f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return defaultDBURL
}

// buildRunRepository creates the run journal repository based on db-url.
// "inmem:" keeps the journal for the lifetime of the process only.
func buildRunRepository(cmd *cobra.Command) (domain.RunRepository, error) {
	dbURL := getDBURL(cmd)

	switch {
	case dbURL == defaultDBURL:
		return inmem.NewRunRepository(), nil

	case strings.HasPrefix(dbURL, "sqlite:") || strings.HasPrefix(dbURL, "sqlite3:"):
		db, err := rdb.OpenFromURL(dbURL)
		if err != nil {
			return nil, err
		}
		if err := rdb.AutoMigrate(db); err != nil {
			return nil, err
		}
		return rdb.NewRunRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}
}

// findFlag recursively searches parents for a flag.
func findFlag(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return f
		}
	}
	return nil
}
