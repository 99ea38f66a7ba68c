package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/storefront/internal/catalog"
	sferrors "github.com/Aman-CERP/storefront/internal/errors"
	"github.com/Aman-CERP/storefront/internal/output"
	"github.com/Aman-CERP/storefront/internal/search"
	"github.com/Aman-CERP/storefront/internal/storefront"
	"github.com/Aman-CERP/storefront/internal/ui"
)

// searchOptions holds CLI flags for search and list.
type searchOptions struct {
	brand     string
	available bool
	limit     int
	format    string // "text", "json"
}

// itemJSON is one listing in JSON output.
type itemJSON struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	FromPrice float64 `json:"from_price"`
	InStock   bool    `json:"in_stock"`
	Favorite  bool    `json:"favorite"`
}

type resultsJSON struct {
	Query   string     `json:"query,omitempty"`
	Total   int        `json:"total"`
	Results []itemJSON `json:"results"`
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog",
		Long: `Search phone listings. Every word of the query must appear in the
listing's name, brand, variants, colors or keywords. Arabic letter variants,
diacritics and Arabic-Indic digits are normalized before matching.

Examples:
  storefront search galaxy
  storefront search "جالاكسي" --brand samsung
  storefront search 256gb --available --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd.Context(), cmd, query, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.brand, "brand", "b", "", "Only listings of this brand")
	cmd.Flags().BoolVarP(&opts.available, "available", "a", false, "Only listings in stock")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (default: search.max_results)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func newListCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		Long: `List every listing in catalog order, optionally narrowed by brand
and availability.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.brand, "brand", "b", "", "Only listings of this brand")
	cmd.Flags().BoolVarP(&opts.available, "available", "a", false, "Only listings in stock")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func validateFormat(format string) error {
	if format != "text" && format != "json" {
		return sferrors.ValidationError(fmt.Sprintf("unknown format %q", format), nil).
			WithSuggestion("Use --format text or --format json")
	}
	return nil
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	limit := opts.limit
	if limit <= 0 {
		limit = sess.Config.Search.MaxResults
	}

	resp, err := sess.Query(ctx, search.Request{
		Query:         query,
		Brand:         opts.brand,
		AvailableOnly: opts.available,
		Limit:         limit,
	})
	if err != nil {
		return err
	}

	slog.Info("search_complete",
		slog.String("query", query),
		slog.Int("results", len(resp.Items)),
		slog.Int("total", resp.Total),
		slog.Duration("duration", resp.Duration))

	return printResults(cmd, sess, query, resp, opts.format)
}

func runList(ctx context.Context, cmd *cobra.Command, opts searchOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	resp, err := sess.Query(ctx, search.Request{
		Brand:         opts.brand,
		AvailableOnly: opts.available,
		Browse:        true,
	})
	if err != nil {
		return err
	}
	return printResults(cmd, sess, "", resp, opts.format)
}

func printResults(cmd *cobra.Command, sess *storefront.Session, query string, resp *search.Response, format string) error {
	out := output.New(cmd.OutOrStdout())

	if format == "json" {
		doc := resultsJSON{Query: query, Total: resp.Total, Results: make([]itemJSON, 0, len(resp.Items))}
		for _, it := range resp.Items {
			doc.Results = append(doc.Results, toItemJSON(it, sess.Favorites.IsFavorite(it.ID)))
		}
		return out.JSON(doc)
	}

	if len(resp.Items) == 0 {
		if strings.TrimSpace(query) == "" {
			out.Status("", "No phones match the filters.")
		} else {
			out.Statusf("", "No phones match %q", query)
		}
		return nil
	}

	r := ui.NewItemRenderer(ui.NoColor(cmd.OutOrStdout()))
	_, _ = fmt.Fprint(cmd.OutOrStdout(), r.List(resp.Items, query, sess.Favorites.IsFavorite))
	if len(resp.Items) < resp.Total {
		out.Newline()
		out.Linef("Showing %d of %d. Use --limit to see more.", len(resp.Items), resp.Total)
	}
	return nil
}

func toItemJSON(it catalog.Item, fav bool) itemJSON {
	return itemJSON{
		ID:        it.ID,
		Name:      it.Name,
		Brand:     it.Brand,
		FromPrice: it.MinPrice(),
		InStock:   it.InStock(),
		Favorite:  fav,
	}
}
