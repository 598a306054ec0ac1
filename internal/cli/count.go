package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/vecnode/service"
)

func newCountCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored vectors",
		Long:  "Open the configured store directly, without starting the HTTP server, and print the row count as JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			backend := service.OpenBackend(cmd.Context(), service.BackendOptions{
				Dir:    cfg.Storage.Path,
				File:   cfg.Storage.File,
				Engine: cfg.EngineOptions(),
			}, logger)
			defer backend.Close()
			if backend.Mode() == service.ModeDegraded {
				return fmt.Errorf("%w: %v", service.ErrUnavailable, backend.Reason())
			}

			res, err := service.New(backend, cfg.Replica()).Count(cmd.Context())
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(res)
		},
	}
}
