package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/storefront/internal/output"
)

func newBrandsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "brands",
		Short: "List catalog brands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			out := output.New(cmd.OutOrStdout())
			brands := sess.Catalog.Brands()
			if jsonOutput {
				return out.JSON(brands)
			}
			for _, b := range brands {
				out.Line(b)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
