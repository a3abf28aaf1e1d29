package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ArtfulStore/internal/cart"
	"ArtfulStore/internal/catalog"
	"ArtfulStore/internal/money"
)

func (a *app) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the local cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCart(cmd, func(_ context.Context, m *cart.Manager) (cart.State, error) {
				return m.State(), nil
			})
		},
	}

	var qty int
	add := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := a.catalog.GetByID(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", catalog.ErrNotFound, args[0])
			}
			return a.withCart(cmd, func(ctx context.Context, m *cart.Manager) (cart.State, error) {
				return m.AddItem(ctx, p, qty)
			})
		},
	}
	add.Flags().IntVar(&qty, "qty", 1, "Quantity to add")

	update := &cobra.Command{
		Use:   "update <id> <qty>",
		Short: "Set the quantity of a cart item; below 1 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity %q: %w", args[1], err)
			}
			return a.withCart(cmd, func(ctx context.Context, m *cart.Manager) (cart.State, error) {
				return m.UpdateQuantity(ctx, args[0], q)
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an item from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCart(cmd, func(ctx context.Context, m *cart.Manager) (cart.State, error) {
				return m.RemoveItem(ctx, args[0]), nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCart(cmd, func(ctx context.Context, m *cart.Manager) (cart.State, error) {
				return m.ClearCart(ctx), nil
			})
		},
	}

	cmd.AddCommand(show, add, update, remove, clearCmd)
	return cmd
}

func printCart(w io.Writer, st cart.State, conv money.Converter) {
	if st.Len() == 0 {
		fmt.Fprintln(w, "Your cart is empty")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, it := range st.Items() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", it.ID, it.Name, it.Quantity, conv.Format(it.Price), conv.Format(it.Subtotal()))
	}
	_ = tw.Flush()

	sum := conv.Summarize(st.TotalPrice())
	fmt.Fprintf(w, "\nItems: %d\n", st.TotalItems())
	fmt.Fprintf(w, "Subtotal: %s%s\n", conv.Symbol, sum.Subtotal.StringFixed(2))
	fmt.Fprintf(w, "Tax: %s%s\n", conv.Symbol, sum.Tax.StringFixed(2))
	fmt.Fprintf(w, "Shipping: Free\n")
	fmt.Fprintf(w, "Total: %s%s %s\n", conv.Symbol, sum.Total.StringFixed(2), sum.Currency)
}
