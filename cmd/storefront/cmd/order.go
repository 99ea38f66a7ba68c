package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/storefront/internal/checkout"
	"github.com/Aman-CERP/storefront/internal/output"
	"github.com/Aman-CERP/storefront/internal/ui"
)

type orderOptions struct {
	variant    string
	color      string
	name       string
	phone      string
	jsonOutput bool
}

func newOrderCmd() *cobra.Command {
	var opts orderOptions

	cmd := &cobra.Command{
		Use:   "order <id>",
		Short: "Validate a purchase and print the order",
		Long: `Validate the chosen variant and color of a listing together with
the customer's name and mobile number, then print the order for hand-off.
Without --variant or --color the listing's first option is used.

Example:
  storefront order s24-ultra --variant 12-512 --color black --name "Mona" --phone 01012345678`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.variant, "variant", "", "Variant id (default: first variant)")
	cmd.Flags().StringVar(&opts.color, "color", "", "Color key (default: first color)")
	cmd.Flags().StringVar(&opts.name, "name", "", "Customer name")
	cmd.Flags().StringVar(&opts.phone, "phone", "", "Customer mobile number, e.g. 01012345678")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the order as JSON")

	return cmd
}

func runOrder(ctx context.Context, cmd *cobra.Command, id string, opts orderOptions) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	order, err := checkout.Build(sess.Catalog,
		checkout.Selection{ItemID: id, VariantID: opts.variant, ColorKey: opts.color},
		checkout.Customer{Name: opts.name, Phone: opts.phone})
	if err != nil {
		return err
	}

	handoff := printHandoff(cmd.OutOrStdout(), opts.jsonOutput)
	if err := checkout.Submit(ctx, handoff, order); err != nil {
		return err
	}

	slog.Info("order_handed_off",
		slog.String("id", order.ItemID),
		slog.String("variant", order.Variant.ID),
		slog.String("color", order.Color.Key))
	return nil
}

// printHandoff delivers orders by printing them to w.
func printHandoff(w io.Writer, jsonOutput bool) checkout.Handoff {
	return checkout.HandoffFunc(func(_ context.Context, o checkout.Order) error {
		out := output.New(w)
		if jsonOutput {
			return out.JSON(o)
		}
		out.Success("Order ready")
		out.Newline()
		out.KeyValues(
			"Phone", o.Name,
			"Variant", o.Variant.Label(),
			"Color", o.Color.Label,
			"Price", ui.FormatPrice(o.Price()),
			"Customer", fmt.Sprintf("%s (%s)", o.Customer.Name, o.Customer.Phone),
		)
		return nil
	})
}
