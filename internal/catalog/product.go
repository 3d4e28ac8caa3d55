package catalog

// Product is a catalog record as returned by the remote API. Products are
// read-only after load; the cart snapshots the fields it needs.
type Product struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
}
