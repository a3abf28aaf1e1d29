package main

import (
	"fmt"
	"io"
	"net/url"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ArtfulStore/internal/catalog"
	"ArtfulStore/internal/money"
)

func (a *app) productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
	}

	var category, search, minPrice, maxPrice string
	list := &cobra.Command{
		Use:   "list",
		Short: "List products matching all given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			crit, err := catalog.ParseCriteria(url.Values{
				"category": {category},
				"search":   {search},
				"min":      {minPrice},
				"max":      {maxPrice},
			})
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), a.catalog.Filter(crit), a.money)
			return nil
		},
	}
	list.Flags().StringVar(&category, "category", "", "portrait or handicraft")
	list.Flags().StringVar(&search, "search", "", "Match name, description, artist or tag")
	list.Flags().StringVar(&minPrice, "min", "", "Minimum base price")
	list.Flags().StringVar(&maxPrice, "max", "", "Maximum base price")

	featured := &cobra.Command{
		Use:   "featured",
		Short: "List featured products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printProducts(cmd.OutOrStdout(), a.catalog.Featured(), a.money)
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := a.catalog.GetByID(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", catalog.ErrNotFound, args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", p.ID, p.Name)
			fmt.Fprintf(out, "by %s, %s\n", p.ArtistName, p.Category)
			fmt.Fprintf(out, "%s (%s base), %d in stock\n", a.money.Format(p.Price), p.Price.StringFixed(2), p.StockQuantity)
			fmt.Fprintln(out, p.Description)
			return nil
		},
	}

	cmd.AddCommand(list, featured, get)
	return cmd
}

func printProducts(w io.Writer, ps []catalog.Product, conv money.Converter) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range ps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, conv.Format(p.Price), p.StockQuantity)
	}
	_ = tw.Flush()
}
