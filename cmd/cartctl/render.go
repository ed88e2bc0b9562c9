package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"iwingmobile-store/cart"
	"iwingmobile-store/models"
	"iwingmobile-store/utils"
)

func displayName(item models.CartItem) string {
	if item.Name == "" {
		return item.ID
	}
	return item.Name
}

// printCart writes the cart as a table followed by the totals
func printCart(out io.Writer, state cart.State) {
	if state.Len() == 0 {
		color.New(color.FgYellow).Fprintln(out, "Your cart is empty")
		return
	}

	// escape codes would skew tabwriter's column widths, so the table stays uncolored
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tBRAND\tPRICE\tQTY\tSUBTOTAL")
	for _, item := range state.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			item.ID, displayName(item), item.Brand,
			utils.FormatUSD(item.Price), item.Quantity, utils.FormatUSD(item.LineTotal()))
	}
	tw.Flush()

	fmt.Fprintf(out, "\nItems: %d\n", state.ItemCount())
	color.New(color.FgGreen, color.Bold).Fprintf(out, "Total: %s\n", utils.FormatUSD(state.Total()))
}
