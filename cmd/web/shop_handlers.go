package main

import (
	"net/http"

	handlersPkg "tokoku.id/tokoku-web/internal/handlers"
	mw "tokoku.id/tokoku-web/internal/middleware"
	"tokoku.id/tokoku-web/internal/nav"
)

// ShopHandler renders the storefront page: search box, category filter and
// the product grid.
func ShopHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	vm := handlersPkg.PageData{
		Title:          "TokoKu",
		Path:           r.URL.Path,
		Nav:            nav.Build(r.URL.Path),
		CartCount:      carts.ItemCount(sess.ID),
		ToastTTLMillis: cfg.UI.ToastTTL.Milliseconds(),
		Shop:           buildShopView(r.URL.Query()),
	}
	renderPage(w, r, "page_shop", vm)
}

// ShopGridFrag re-renders the grid when the search text or the category
// select changes, pushing the filter into the location bar.
func ShopGridFrag(w http.ResponseWriter, r *http.Request) {
	view := buildShopView(r.URL.Query())
	push := "/"
	if view.Query != "" {
		push = "/?" + view.Query
	}
	w.Header().Set("HX-Push-Url", push)
	renderTemplate(w, r, "frag_product_grid", view)
}
