package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	sferrors "github.com/Aman-CERP/storefront/internal/errors"
	"github.com/Aman-CERP/storefront/internal/output"
	"github.com/Aman-CERP/storefront/internal/ui"
)

func newShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a listing in full",
		Long: `Show every variant, color, spec, pro and con of one listing.

Example:
  storefront show s24-ultra`,
		Args: cobra.ExactArgs(1),
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
			fav := sess.Favorites.IsFavorite(it.ID)

			if jsonOutput {
				return output.New(cmd.OutOrStdout()).JSON(it)
			}
			r := ui.NewItemRenderer(ui.NoColor(cmd.OutOrStdout()))
			_, err = fmt.Fprint(cmd.OutOrStdout(), r.Detail(it, fav))
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
