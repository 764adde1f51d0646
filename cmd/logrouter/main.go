// Package main provides the CLI entry point for logrouter, a defensive log
// router writing to console, plain-text, and HTML file facilities.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"go.jacobcolvin.com/logrouter/router"
	"go.jacobcolvin.com/logrouter/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "logrouter",
		Short:         "Route log messages to console, file, and HTML facilities",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(newPreviewCmd(), newSchemaCmd(), newVersionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newPreviewCmd() *cobra.Command {
	cfg := router.NewConfig()

	var (
		configPath string
		count      int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Emit sample records to every configured facility",
		Long: `preview builds a router from the YAML config and flags, registers the
declared facilities, and emits a rotating set of sample records so facility
output can be inspected visually.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreview(cmd, cfg, configPath, count)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of sample records to emit")
	cfg.RegisterFlags(cmd.Flags())

	completionErr := cfg.RegisterCompletions(cmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	return cmd
}

func runPreview(cmd *cobra.Command, cfg *router.Config, configPath string, count int) error {
	if configPath != "" {
		loaded, err := router.LoadConfig(configPath)
		if err != nil {
			return err
		}

		cfg = mergeFlags(cfg, loaded, cmd.Flags())
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		cfg.Color = false
	}

	r, err := cfg.NewRouter()
	if err != nil {
		return err
	}

	err = r.LogAvailableFacilities()
	if err != nil {
		return err
	}

	for range count {
		err = r.Preview()
		if err != nil {
			return err
		}
	}

	stats := r.ThrottleStats()
	if stats.DroppedTotal > 0 {
		fmt.Fprintf(os.Stderr, "throttle dropped %d write(s)\n", stats.DroppedTotal)
	}

	return nil
}

// mergeFlags lays explicitly set flag values over the loaded config file.
func mergeFlags(cfg, loaded *router.Config, flags *pflag.FlagSet) *router.Config {
	merged := *loaded
	names := cfg.Flags

	if flags.Changed(names.Level) {
		merged.Level = cfg.Level
	}

	if flags.Changed(names.Color) {
		merged.Color = cfg.Color
	}

	if flags.Changed(names.MaxMessageLength) {
		merged.MaxMessageLength = cfg.MaxMessageLength
	}

	if flags.Changed(names.MaxMessageLines) {
		merged.MaxMessageLines = cfg.MaxMessageLines
	}

	if flags.Changed(names.MaxLineLength) {
		merged.MaxLineLength = cfg.MaxLineLength
	}

	if flags.Changed(names.MaxHandlesPerCall) {
		merged.MaxHandlesPerCall = cfg.MaxHandlesPerCall
	}

	if flags.Changed(names.ColorizeBudgetMS) {
		merged.ColorizeBudgetMS = cfg.ColorizeBudgetMS
	}

	if flags.Changed(names.MaxHTMLDocumentBytes) {
		merged.MaxHTMLDocumentBytes = cfg.MaxHTMLDocumentBytes
	}

	if flags.Changed(names.MaxHTMLTitleLength) {
		merged.MaxHTMLTitleLength = cfg.MaxHTMLTitleLength
	}

	if flags.Changed(names.MaxWritesPerSecond) {
		merged.MaxWritesPerSecond = cfg.MaxWritesPerSecond
	}

	if flags.Changed(names.ThrottleWindowSeconds) {
		merged.ThrottleWindowSeconds = cfg.ThrottleWindowSeconds
	}

	if flags.Changed(names.MaxFileSizeBytes) {
		merged.MaxFileSizeBytes = cfg.MaxFileSizeBytes
	}

	return &merged
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the YAML config",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			schema, err := jsonschema.For[router.Config](nil)
			if err != nil {
				return fmt.Errorf("generating config schema: %w", err)
			}

			out, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding config schema: %w", err)
			}

			fmt.Println(string(out))

			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build metadata",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("logrouter %s (revision %s, %s)\n",
				version.Version, version.Revision, version.GoVersion)
		},
	}
}
