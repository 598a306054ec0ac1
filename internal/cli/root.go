// Package cli wires configuration, logging, storage and the HTTP server into
// the vecnode command line.
package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/viant/vecnode/config"
	"github.com/viant/vecnode/logging"
)

// flags shared by all subcommands
type globalFlags struct {
	configFile string
	dbPath     string
	port       int
}

// NewRootCommand creates the root command. Without a subcommand it serves
// HTTP, like "vecnode serve".
func NewRootCommand(version, commit, date string) *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "vecnode",
		Short: "Cold replica vector store node",
		Long: `vecnode stores fixed-dimension (10000-float) vectors in an embedded SQLite
database and reports its position in a replication chain over HTTP.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db-path", "", "data directory (overrides config and environment)")
	rootCmd.PersistentFlags().IntVarP(&flags.port, "port", "p", 0, "listen port (overrides config and environment)")

	rootCmd.AddCommand(newServeCommand(flags))
	rootCmd.AddCommand(newCountCommand(flags))
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// loadConfig resolves the configuration and applies command line overrides.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.NewLoader().LoadConfig(flags.configFile)
	if err != nil {
		return nil, err
	}
	if flags.dbPath != "" {
		cfg.Storage.Path = flags.dbPath
	}
	if flags.port != 0 {
		cfg.Server.Port = flags.port
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) (*logging.Logger, error) {
	return logging.New(w, cfg.Log.Format, cfg.Log.Level)
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "vecnode %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
