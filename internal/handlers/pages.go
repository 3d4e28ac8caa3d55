package handlers

import (
	"tokoku.id/tokoku-web/internal/nav"
)

// PageData is a generic view model for pages using the shared layout.
type PageData struct {
	Title string
	Path  string
	Nav   []nav.RenderedItem

	// CartCount feeds the header badge on every page.
	CartCount int
	// ToastTTLMillis is surfaced to the toast script.
	ToastTTLMillis int64

	// Optional per-page view model payloads
	Shop     any
	Cart     any
	Checkout any
	Handoff  any
	Content  any
}
