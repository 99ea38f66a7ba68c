package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	sferrors "github.com/Aman-CERP/storefront/internal/errors"
	"github.com/Aman-CERP/storefront/internal/output"
	"github.com/Aman-CERP/storefront/internal/ui"
)

func newFavCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage favorites",
		Long: `Favorites are kept in durable storage and survive restarts.

Examples:
  storefront fav toggle s24-ultra
  storefront fav list
  storefront fav clear`,
	}

	cmd.AddCommand(newFavToggleCmd())
	cmd.AddCommand(newFavListCmd())
	cmd.AddCommand(newFavClearCmd())

	return cmd
}

func newFavToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Add a listing to favorites, or remove it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			it, ok := sess.Catalog.ByID(args[0])
			if !ok {
				return sferrors.NotFound(args[0]).
					WithSuggestion("Run 'storefront list' to see catalog ids")
			}

			out := output.New(cmd.OutOrStdout())
			if sess.Favorites.Toggle(it.ID) {
				out.Successf("Added %s to favorites", it.Name)
			} else {
				out.Successf("Removed %s from favorites", it.Name)
			}
			warnIfNotPersisted(out, sess.Degraded(), sess.LastError())
			return nil
		},
	}
}

func newFavListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			items := sess.FavoriteItems()
			out := output.New(cmd.OutOrStdout())
			if jsonOutput {
				doc := make([]itemJSON, 0, len(items))
				for _, it := range items {
					doc = append(doc, toItemJSON(it, true))
				}
				return out.JSON(doc)
			}

			if len(items) == 0 {
				out.Status("", "No favorites yet. Add one with 'storefront fav toggle <id>'.")
				return nil
			}
			r := ui.NewItemRenderer(ui.NoColor(cmd.OutOrStdout()))
			_, err = fmt.Fprint(cmd.OutOrStdout(), r.List(items, "", sess.Favorites.IsFavorite))
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newFavClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			n := sess.Favorites.Count()
			sess.Favorites.Clear()

			out := output.New(cmd.OutOrStdout())
			out.Successf("Cleared %d favorites", n)
			warnIfNotPersisted(out, sess.Degraded(), sess.LastError())
			return nil
		},
	}
}

// warnIfNotPersisted tells the user a change lives only in this process.
func warnIfNotPersisted(out *output.Writer, degraded, lastErr error) {
	switch {
	case degraded != nil:
		out.Warning("Storage is disabled; the change was not saved")
	case lastErr != nil:
		out.Warningf("The change could not be saved: %s", sferrors.FormatForCLI(lastErr))
	}
}
