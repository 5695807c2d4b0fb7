package cli

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/lensfinder/backend/config"
	"github.com/lensfinder/backend/internal/app"
	httpDelivery "github.com/lensfinder/backend/internal/delivery/http"
	"github.com/lensfinder/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newLensesCommand(opts *options) *cobra.Command {
	var modality string
	cmd := &cobra.Command{
		Use:   "lenses",
		Short: "List the contact lens catalog.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			lenses, err := application.Catalog.Lenses(opts.catalogContext(cmd.Context(), cfg))
			if err != nil {
				return err
			}
			if modality != "" {
				lenses = usecase.FilterByModality(lenses, modality)
			}
			return writeLenses(cmd.OutOrStdout(), opts.output, lenses)
		},
	}
	cmd.Flags().StringVar(&modality, "modality", "", "only list lenses of this modality")
	return cmd
}

func newServeCommand() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			log.SetOutput(cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default LENSFINDER_SERVER_PORT or 8080)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	return httpDelivery.Run(ctx, cfg, httpDelivery.NewHandler(application.Calculator, application.Catalog))
}
