package main

import (
	"net/http"
	"strings"

	mw "tokoku.id/tokoku-web/internal/middleware"
	"tokoku.id/tokoku-web/internal/order"
)

// CheckoutSubmitHandler runs the cart -> order review transition. On
// validation failure the flow stays on the cart with the failures surfaced
// and no store touched; on success the draft is parked in the session and
// the review step renders the exact outgoing message.
func CheckoutSubmitHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	draft := order.Draft{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Address: strings.TrimSpace(r.PostFormValue("address")),
		Phone:   strings.TrimSpace(r.PostFormValue("phone")),
		Method:  strings.TrimSpace(r.PostFormValue("method")),
	}

	lines := carts.Snapshot(sess.ID)
	if errs := formatter.Validate(draft, lines); len(errs) != 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
		renderTemplate(w, r, "frag_checkout_form", buildCheckoutForm(draft, errs))
		return
	}

	msg, err := formatter.Format(draft, lines)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	sess.Pending = &mw.PendingOrder{
		Ref:     msg.Ref,
		Name:    draft.Name,
		Address: draft.Address,
		Phone:   draft.Phone,
		Method:  draft.Method,
		Text:    msg.Text,
	}
	sess.MarkDirty()

	renderTemplate(w, r, "frag_order_review", OrderReviewView{
		Ref:         msg.Ref,
		Text:        msg.Text,
		SellerPhone: cfg.Seller.Phone,
	})
}

// CheckoutConfirmHandler completes the handoff: the deep link is built, the
// cart and the draft are dropped immediately, and the browser opens the link
// in a new context. Delivery is fire-and-forget.
func CheckoutConfirmHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	pending := sess.Pending
	if pending == nil {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	link := order.WhatsAppLink(cfg.Seller.WhatsAppHost, cfg.Seller.Phone, pending.Text)

	carts.Clear(sess.ID)
	sess.Pending = nil
	sess.MarkDirty()

	renderTemplate(w, r, "frag_order_handoff", HandoffView{
		Ref:         pending.Ref,
		WhatsAppURL: link,
	})
}

// CheckoutCancelHandler declines the review step: the draft is discarded,
// the cart stays intact, and the form comes back pre-filled.
func CheckoutCancelHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	draft := order.Draft{}
	if p := sess.Pending; p != nil {
		draft = order.Draft{Name: p.Name, Address: p.Address, Phone: p.Phone, Method: p.Method}
		sess.Pending = nil
		sess.MarkDirty()
	}
	renderTemplate(w, r, "frag_checkout_form", buildCheckoutForm(draft, nil))
}

// CheckoutPaymentHintFrag re-renders the inline transfer instructions when
// the payment method select changes; COD renders nothing.
func CheckoutPaymentHintFrag(w http.ResponseWriter, r *http.Request) {
	method := strings.TrimSpace(r.URL.Query().Get("method"))
	renderTemplate(w, r, "frag_payment_hint", formatter.TransferHint(method))
}
