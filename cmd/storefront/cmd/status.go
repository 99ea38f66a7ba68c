package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/storefront/internal/health"
	"github.com/Aman-CERP/storefront/internal/output"
	"github.com/Aman-CERP/storefront/internal/ui"
)

func newStatusCmd() *cobra.Command {
	var jsonOutput bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show storage health",
		Long: `Display whether durable storage accepts writes, how many favorites
are persisted and which theme is stored.

With --watch, print a status line every health.interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watch {
				return runStatusWatch(cmd.Context(), cmd)
			}
			return runStatus(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep printing status until interrupted")

	return cmd
}

func runStatus(cmd *cobra.Command, jsonOutput bool) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	snap := sess.Probe.Check()
	renderer := ui.NewStatusRenderer(cmd.OutOrStdout(), ui.NoColor(cmd.OutOrStdout()))
	if jsonOutput {
		return renderer.RenderJSON(snap)
	}

	if err := renderer.Render(snap); err != nil {
		return err
	}
	out := output.New(cmd.OutOrStdout())
	out.Newline()
	out.KeyValues(
		"Backend", sess.Config.Storage.Backend,
		"Path", sess.Config.Storage.Path,
		"Catalog", fmt.Sprintf("%d listings", sess.Catalog.Len()),
	)
	if d := sess.Degraded(); d != nil {
		out.Newline()
		out.Warning(d.Error())
	}
	return nil
}

func runStatusWatch(ctx context.Context, cmd *cobra.Command) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	renderer := ui.NewStatusRenderer(cmd.OutOrStdout(), ui.NoColor(cmd.OutOrStdout()))
	out := output.New(cmd.OutOrStdout())
	lines := make(chan health.Snapshot, 1)
	sess.Subscribe(func(s health.Snapshot) {
		select {
		case lines <- s:
		default:
		}
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sess.Probe.Start(ctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case s := <-lines:
				out.Line(renderer.Line(s))
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
