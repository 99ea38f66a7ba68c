package cmd

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/storefront/internal/ui"
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `Open the interactive catalog screen. Typing searches once the input
settles; arrow keys move, ctrl+f toggles a favorite, ctrl+t switches theme,
tab shows details and esc quits. The footer tracks storage health.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd.Context(), cmd)
		},
	}
}

func runBrowse(ctx context.Context, cmd *cobra.Command) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	model := ui.NewBrowseModel(ui.BrowseDeps{
		Catalog:    sess.Catalog,
		Engine:     sess.Engine,
		Favorites:  sess.Favorites,
		Theme:      sess.Theme,
		Debounce:   sess.Config.DebounceWindow(),
		MaxResults: sess.Config.Search.MaxResults,
		NoColor:    ui.DetectNoColor(),
	})
	defer model.Close()
	sess.Subscribe(model.OnSnapshot)

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Go(func() error {
		return sess.Probe.Start(ctx)
	})
	g.Go(func() error {
		defer cancel()
		p := tea.NewProgram(model,
			tea.WithAltScreen(),
			tea.WithContext(ctx),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()))
		_, err := p.Run()
		return err
	})

	err = g.Wait()
	slog.Debug("browse_closed", slog.Int("favorites", sess.Favorites.Count()))
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
