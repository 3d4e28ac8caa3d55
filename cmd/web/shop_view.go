package main

import (
	"math"
	"net/url"
	"strings"

	"tokoku.id/tokoku-web/internal/format"
	"tokoku.id/tokoku-web/internal/order"
)

// ShopView aggregates all data needed for the product grid page and fragment.
type ShopView struct {
	Search      string
	Category    string
	Categories  []ShopCategoryOption
	Products    []ShopProduct
	Unavailable bool
	Empty       bool
	Query       string
}

// ShopCategoryOption is one entry of the category select, plus the
// "all categories" pseudo-option at the top.
type ShopCategoryOption struct {
	Value    string
	Label    string
	Selected bool
}

// ShopProduct is a grid card view model.
type ShopProduct struct {
	ID           int64
	Title        string
	Category     string
	Image        string
	PriceDisplay string
}

// buildShopView assembles the grid view from the filter query parameters.
func buildShopView(q url.Values) ShopView {
	search := strings.TrimSpace(q.Get("q"))
	category := strings.TrimSpace(q.Get("category"))

	view := ShopView{
		Search:      search,
		Category:    category,
		Unavailable: !catalogSt.Loaded(),
	}

	options := []ShopCategoryOption{{Value: "", Label: "Semua Kategori", Selected: category == ""}}
	known := false
	for _, c := range catalogSt.Categories() {
		options = append(options, ShopCategoryOption{
			Value:    c.Value,
			Label:    c.Label,
			Selected: c.Value == category,
		})
		if c.Value == category {
			known = true
		}
	}
	view.Categories = options
	if category != "" && !known {
		category = ""
	}

	for _, p := range catalogSt.Filter(search, category) {
		view.Products = append(view.Products, ShopProduct{
			ID:           p.ID,
			Title:        order.Truncate(p.Title, cfg.UI.GridTitleBudget),
			Category:     p.Category,
			Image:        p.Image,
			PriceDisplay: format.Rupiah(int64(math.Round(p.Price * cfg.Currency.ConversionRate))),
		})
	}
	view.Empty = len(view.Products) == 0 && !view.Unavailable

	filter := url.Values{}
	if search != "" {
		filter.Set("q", search)
	}
	if category != "" {
		filter.Set("category", category)
	}
	view.Query = filter.Encode()

	return view
}
