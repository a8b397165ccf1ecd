package gst

import (
	"log/slog"
	"strconv"
)

// ClassifyTransaction reports whether a supply between the two states is
// inter-state. Empty states classify as intra-state.
func (c *Calculator) ClassifyTransaction(sellerState, buyerState string) bool {
	return c.Classify(sellerState, buyerState).InterState
}

// Classify resolves both states to GST state codes and compares them.
// When either side cannot be resolved the result is flagged Degraded and the
// normalized names are compared instead; an empty side always classifies as
// intra-state.
func (c *Calculator) Classify(sellerState, buyerState string) Classification {
	seller, sellerOK := StateCode(sellerState)
	buyer, buyerOK := StateCode(buyerState)

	if sellerOK && buyerOK {
		return Classification{
			InterState: seller != buyer,
			SellerCode: seller,
			BuyerCode:  buyer,
		}
	}

	sellerName, buyerName := NormalizeState(sellerState), NormalizeState(buyerState)
	inter := sellerName != "" && buyerName != "" && sellerName != buyerName

	c.logger.Warn("gst: unresolved state, comparing names",
		slog.String("seller_state", sellerState),
		slog.String("buyer_state", buyerState),
		slog.Bool("seller_resolved", sellerOK),
		slog.Bool("buyer_resolved", buyerOK),
		slog.Bool("inter_state", inter),
	)
	return Classification{
		InterState: inter,
		Degraded:   true,
		SellerCode: seller,
		BuyerCode:  buyer,
	}
}

// ValidateContext checks that IsInterState agrees with the two states.
// If either state cannot be resolved the supplied flag is kept and the
// classification is flagged Degraded.
func (c *Calculator) ValidateContext(tc TransactionContext) (Classification, error) {
	class := c.Classify(tc.SellerState, tc.BuyerState)
	if class.Degraded {
		class.InterState = tc.IsInterState
		return class, nil
	}

	if class.InterState != tc.IsInterState {
		return class, &ValidationError{
			Index:  ContextIndex,
			Field:  "isInterState",
			Value:  strconv.FormatBool(tc.IsInterState),
			Reason: "does not match seller state " + class.SellerCode + " and buyer state " + class.BuyerCode,
		}
	}
	return class, nil
}
