package main

import (
	"tokoku.id/tokoku-web/internal/cart"
	"tokoku.id/tokoku-web/internal/format"
	"tokoku.id/tokoku-web/internal/order"
)

// CartView aggregates the cart panel plus the checkout form state.
type CartView struct {
	Items        []CartLineView
	Empty        bool
	ItemCount    int
	TotalDisplay string
	Checkout     CheckoutFormView
}

// CartLineView is one row of the cart panel.
type CartLineView struct {
	ProductID       int64
	Title           string
	Image           string
	PriceDisplay    string
	Quantity        int
	SubtotalDisplay string
}

// CheckoutFormView carries the checkout form, its method options, the
// selected-method transfer hint and any validation failures to surface.
type CheckoutFormView struct {
	Draft   order.Draft
	Methods []CheckoutMethodOption
	Hint    string
	Errors  []string
}

// CheckoutMethodOption is one entry of the payment method select.
type CheckoutMethodOption struct {
	Value    string
	Selected bool
}

// OrderReviewView is the confirmation step before the messaging handoff.
type OrderReviewView struct {
	Ref         string
	Text        string
	SellerPhone string
}

// HandoffView closes the flow: the deep link is opened in a new context and
// the cart is already cleared.
type HandoffView struct {
	Ref         string
	WhatsAppURL string
}

// buildCartView assembles the cart panel from the session's cart snapshot.
func buildCartView(sessionID string) CartView {
	lines := carts.Snapshot(sessionID)

	view := CartView{
		Empty:    len(lines) == 0,
		Checkout: buildCheckoutForm(order.Draft{}, nil),
	}
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
		view.ItemCount += l.Quantity
		view.Items = append(view.Items, newCartLineView(l))
	}
	view.TotalDisplay = format.Rupiah(total)
	return view
}

func newCartLineView(l cart.Line) CartLineView {
	return CartLineView{
		ProductID:       l.ProductID,
		Title:           order.Truncate(l.Title, cfg.UI.CartTitleBudget),
		Image:           l.Image,
		PriceDisplay:    format.Rupiah(l.Price),
		Quantity:        l.Quantity,
		SubtotalDisplay: format.Rupiah(l.Subtotal()),
	}
}

// buildCheckoutForm fills the form view, keeping the buyer's input across a
// failed validation or a cancelled review.
func buildCheckoutForm(draft order.Draft, validationErrs []order.ValidationError) CheckoutFormView {
	view := CheckoutFormView{
		Draft: draft,
		Hint:  formatter.TransferHint(draft.Method),
	}
	for _, m := range cfg.Payments.Methods {
		view.Methods = append(view.Methods, CheckoutMethodOption{
			Value:    m,
			Selected: m == draft.Method,
		})
	}
	for _, e := range validationErrs {
		view.Errors = append(view.Errors, e.Reason)
	}
	return view
}
