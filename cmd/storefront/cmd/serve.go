package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	sferrors "github.com/Aman-CERP/storefront/internal/errors"
	"github.com/Aman-CERP/storefront/internal/logging"
	"github.com/Aman-CERP/storefront/internal/mcp"
	"github.com/Aman-CERP/storefront/internal/storefront"
)

func newServeCmd() *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog to AI assistants over MCP",
		Long: `Start an MCP server on stdio exposing the tools search_catalog,
get_item, list_brands, storage_status and toggle_favorite, plus the catalog
and query statistics as resources.

stdout carries the protocol; logs go to ~/.storefront/logs/storefront.log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if transport == "" {
				transport = cfg.Server.Transport
			}
			if transport != "stdio" {
				return sferrors.ValidationError(fmt.Sprintf("unknown transport %q", transport), nil).
					WithSuggestion("Use --transport stdio")
			}

			cleanup, err := logging.SetupServeMode(cfg.Server.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to setup logging: %w", err)
			}
			defer cleanup()

			sess, err := storefront.Open(storefront.Options{Config: cfg})
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			srv, err := mcp.NewServer(sess)
			if err != nil {
				return err
			}
			defer func() { _ = srv.Close() }()

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				defer func() { _ = sess.Probe.Stop() }()
				return srv.Serve(ctx, transport)
			})
			g.Go(func() error {
				_ = sess.Probe.Start(ctx)
				return nil
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "", "Transport: stdio (default: server.transport)")

	return cmd
}
