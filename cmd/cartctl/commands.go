package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"iwingmobile-store/models"
	"iwingmobile-store/service"
	"iwingmobile-store/utils"
)

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printCart(cmd.OutOrStdout(), c.cart.State())
			return nil
		},
	}
}

func newAddCmd(c *cli) *cobra.Command {
	var (
		item    models.CartItem
		images  []string
		kind    string
		inStock bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one unit of a product",
		Long: `Add one unit of a product to the cart.

If the product id is already in the cart its quantity goes up by one and the
stored name, brand, price and images are kept.`,
		Example: `  cartctl add --id pixel-8 --name "Pixel 8" --brand Google --price 699 --image https://cdn.example.com/pixel8.jpg`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			item.ID = strings.TrimSpace(item.ID)
			if item.ID == "" {
				return errors.New("--id is required")
			}
			if item.Price < 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
				return fmt.Errorf("--price must be a non-negative amount, got %v", item.Price)
			}
			if kind != "" {
				item.Type = models.ProductType(kind)
				if !item.Type.Valid() {
					return fmt.Errorf("--type must be 'phone' or 'accessory', got %q", kind)
				}
			}
			for i, url := range images {
				item.Images = append(item.Images, models.ProductImage{URL: url, Alt: item.Name, IsPrimary: i == 0})
			}
			if item.Images == nil {
				item.Images = []models.ProductImage{}
			}
			item.InStock = &inStock

			state := c.cart.AddItem(cmd.Context(), item)
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s x%d in cart\n", displayName(item), state.Quantity(item.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&item.ID, "id", "", "product id (required)")
	cmd.Flags().StringVar(&item.Name, "name", "", "product name")
	cmd.Flags().StringVar(&item.Brand, "brand", "", "brand")
	cmd.Flags().Float64Var(&item.Price, "price", 0, "unit price in USD")
	cmd.Flags().StringArrayVar(&images, "image", nil, "image URL, repeatable; the first is primary")
	cmd.Flags().StringVar(&item.Category, "category", "", "category")
	cmd.Flags().StringVar(&kind, "type", "", "phone or accessory")
	cmd.Flags().BoolVar(&inStock, "in-stock", true, "whether the product is in stock")
	return cmd
}

func newRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.cart.IsItemInCart(args[0]) {
				color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "%s is not in the cart\n", args[0])
				return nil
			}
			c.cart.RemoveItem(cmd.Context(), args[0])
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ removed %s\n", args[0])
			return nil
		},
	}
}

func newSetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <quantity>",
		Short: "Set the quantity of a line; 0 or less removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be an integer, got %q", args[1])
			}
			state, ok := c.cart.UpdateExisting(cmd.Context(), args[0], qty)
			if !ok {
				return fmt.Errorf("%s is not in the cart", args[0])
			}
			if qty <= 0 {
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ removed %s\n", args[0])
				return nil
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s x%d\n", args[0], state.Quantity(args[0]))
			return nil
		},
	}
}

func newClearCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.cart.Clear(cmd.Context())
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ cart cleared")
			return nil
		},
	}
}

func newCheckoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Show the amount due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := c.cart.State()
			if state.Len() == 0 {
				return service.ErrEmptyCart
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total due: %s (%d items)\n", utils.FormatUSD(state.Total()), state.ItemCount())
			color.New(color.FgYellow).Fprintln(out, service.CheckoutPlaceholderMessage)
			return nil
		},
	}
}
