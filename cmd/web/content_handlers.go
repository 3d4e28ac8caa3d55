package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tokoku.id/tokoku-web/internal/content"
	handlersPkg "tokoku.id/tokoku-web/internal/handlers"
	mw "tokoku.id/tokoku-web/internal/middleware"
	"tokoku.id/tokoku-web/internal/nav"
)

// ContentPageHandler serves the static store-info pages (cara belanja,
// tentang) rendered from local markdown.
func ContentPageHandler(w http.ResponseWriter, r *http.Request) {
	page, err := pages.Get(chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "content error", http.StatusInternalServerError)
		return
	}

	sess := mw.GetSession(r)
	vm := handlersPkg.PageData{
		Title:          page.Title,
		Path:           r.URL.Path,
		Nav:            nav.Build(r.URL.Path),
		CartCount:      carts.ItemCount(sess.ID),
		ToastTTLMillis: cfg.UI.ToastTTL.Milliseconds(),
		Content:        page,
	}
	w.Header().Set("Cache-Control", "public, max-age=600")
	renderPage(w, r, "page_content", vm)
}
