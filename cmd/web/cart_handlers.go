package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tokoku.id/tokoku-web/internal/cart"
	handlersPkg "tokoku.id/tokoku-web/internal/handlers"
	mw "tokoku.id/tokoku-web/internal/middleware"
	"tokoku.id/tokoku-web/internal/nav"
)

// CartHandler renders the cart page: live cart snapshot, total, and the
// checkout form.
func CartHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	view := buildCartView(sess.ID)
	vm := handlersPkg.PageData{
		Title:          "Keranjang",
		Path:           r.URL.Path,
		Nav:            nav.Build(r.URL.Path),
		CartCount:      view.ItemCount,
		ToastTTLMillis: cfg.UI.ToastTTL.Milliseconds(),
		Cart:           view,
	}
	renderPage(w, r, "page_cart", vm)
}

// CartPanelFrag re-renders the cart panel after any cart mutation.
func CartPanelFrag(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	renderTemplate(w, r, "frag_cart_panel", buildCartView(sess.ID))
}

// CartAddHandler handles the grid "add" control. An unknown product id is a
// silent no-op: the badge re-renders unchanged and no toast fires.
func CartAddHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	if p, ok := catalogSt.ByID(pathProductID(r)); ok {
		carts.Mutate(sess.ID, func(c *cart.Cart) {
			c.Add(p, cfg.Currency.ConversionRate)
		})
		triggerToast(w, "Ditambahkan ke keranjang!")
	}
	renderTemplate(w, r, "frag_cart_badge", carts.ItemCount(sess.ID))
}

// CartIncrementHandler raises a line quantity by one.
func CartIncrementHandler(w http.ResponseWriter, r *http.Request) {
	mutateAndRenderPanel(w, r, func(c *cart.Cart, id int64) { c.Increment(id) })
}

// CartDecrementHandler lowers a line quantity by one; the line disappears at
// zero.
func CartDecrementHandler(w http.ResponseWriter, r *http.Request) {
	mutateAndRenderPanel(w, r, func(c *cart.Cart, id int64) { c.Decrement(id) })
}

// CartRemoveHandler deletes a line regardless of quantity.
func CartRemoveHandler(w http.ResponseWriter, r *http.Request) {
	mutateAndRenderPanel(w, r, func(c *cart.Cart, id int64) { c.Remove(id) })
}

func mutateAndRenderPanel(w http.ResponseWriter, r *http.Request, op func(c *cart.Cart, id int64)) {
	sess := mw.GetSession(r)
	// unknown line ids fall through as no-ops inside the cart
	carts.Mutate(sess.ID, func(c *cart.Cart) { op(c, pathProductID(r)) })
	renderTemplate(w, r, "frag_cart_panel", buildCartView(sess.ID))
}

func pathProductID(r *http.Request) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// triggerToast emits the stacking toast event; the client auto-dismisses
// each one after the configured delay.
func triggerToast(w http.ResponseWriter, msg string) {
	payload := map[string]any{
		"shop:toast": map[string]any{
			"message": msg,
			"ttl":     cfg.UI.ToastTTL.Milliseconds(),
		},
	}
	if raw, err := json.Marshal(payload); err == nil {
		w.Header().Set("HX-Trigger", string(raw))
	}
}
