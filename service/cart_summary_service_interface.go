package service

import (
	"context"

	"iwingmobile-store/cart"
)

// CartSummaryServiceInterface defines the contract for printable cart summaries
type CartSummaryServiceInterface interface {
	RenderHTML(state cart.State) (string, error)
	GeneratePDF(ctx context.Context, state cart.State) ([]byte, error)
}

var _ CartSummaryServiceInterface = (*CartSummaryService)(nil)
