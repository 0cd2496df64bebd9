package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jordanvance/modseq"
	"github.com/jordanvance/modseq/internal/compatdb"
	"github.com/jordanvance/modseq/internal/config"
	"github.com/jordanvance/modseq/internal/semver"
)

func main() {
	var (
		configPath string
		rootDir    string
		apiVersion string
		compatPath string
	)

	rootCmd := &cobra.Command{
		Use:   "modseq",
		Short: "Discover, validate, and order game mods",
		Long: `modseq scans a mods directory, reads each mod's manifest, checks it
against a compatibility database, and prints the mods in dependency
order. It never loads or executes anything; it only reports what a mod
loader would do.`,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default ./modseq.yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Resolve the mod load order and print each mod's outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(configPath, rootDir, apiVersion, compatPath)
		},
	}
	listCmd.Flags().StringVar(&rootDir, "root", "", "Mods root directory (overrides config)")
	listCmd.Flags().StringVar(&apiVersion, "api-version", "", "Framework API version (overrides config)")
	listCmd.Flags().StringVar(&compatPath, "compat-db", "", "Compatibility database JSON file (overrides config)")

	rootCmd.AddCommand(listCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runList(configPath, rootDir, apiVersion, compatPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if rootDir != "" {
		cfg.Root = rootDir
	}
	if apiVersion != "" {
		cfg.APIVersion = apiVersion
	}
	if compatPath != "" {
		cfg.CompatDB = compatPath
	}

	api, err := semver.Parse(cfg.APIVersion)
	if err != nil {
		return fmt.Errorf("invalid api_version %q: %w", cfg.APIVersion, err)
	}

	opts := []modseq.Option{
		modseq.WithAPIVersion(api),
		modseq.WithLogger(newLogger(cfg.Log)),
	}
	if cfg.CompatDB != "" {
		db, err := compatdb.Load(cfg.CompatDB)
		if err != nil {
			return err
		}
		opts = append(opts, modseq.WithCompatibilityDatabase(db))
	}

	mods, err := modseq.Load(cfg.Root, opts...)
	if err != nil {
		return err
	}

	found, failed := 0, 0
	for _, m := range mods {
		if m.Status == modseq.Found {
			found++
			version := ""
			if m.Manifest != nil {
				version = " v" + m.Manifest.Version.String()
			}
			fmt.Printf("[found]  %s%s\n", m.DisplayName, version)
		} else {
			failed++
			fmt.Printf("[failed] %s: %s\n", m.DisplayName, m.Error)
		}
	}
	fmt.Printf("\n%d mods: %d found, %d failed\n", len(mods), found, failed)
	return nil
}

func newLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
