package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"tokoku.id/tokoku-web/internal/cart"
	"tokoku.id/tokoku-web/internal/catalog"
	"tokoku.id/tokoku-web/internal/config"
	"tokoku.id/tokoku-web/internal/content"
	"tokoku.id/tokoku-web/internal/order"
)

func testConfig() config.Config {
	return config.Config{
		ListenAddr: ":0",
		LogLevel:   "error",
		Catalog:    config.Catalog{Timeout: time.Second},
		Currency:   config.Currency{ConversionRate: 15000, Symbol: "Rp"},
		Seller:     config.Seller{Phone: "6289615170747", WhatsAppHost: "api.whatsapp.com"},
		Payments: config.Payments{
			CODMethod: "COD",
			Methods:   []string{"BCA", "BRI", "BNI", "DANA", "COD"},
			Accounts: map[string]string{
				"BCA":  "123-456-7890 a.n. TokoKu",
				"BRI":  "987-654-3210 a.n. TokoKu",
				"BNI":  "456-789-1230 a.n. TokoKu",
				"DANA": "0896-1517-0747 a.n. TokoKu",
			},
		},
		UI: config.UI{
			ToastTTL:           3 * time.Second,
			GridTitleBudget:    45,
			CartTitleBudget:    35,
			MessageTitleBudget: 25,
		},
	}
}

func testProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Title: "Test Shirt", Category: "clothing", Price: 10, Image: "https://img.example/shirt.jpg"},
		{ID: 2, Title: "Gold Ring", Category: "jewelery", Price: 25.5, Image: "https://img.example/ring.jpg"},
		{ID: 3, Title: "Mens Casual Premium Slim Fit Long Sleeve T-Shirt Special Edition", Category: "clothing", Price: 22.3, Image: "https://img.example/slim.jpg"},
	}
}

// newTestRouter builds a router like main() does, with the catalog loaded
// from fixtures instead of the remote API.
func newTestRouter(t *testing.T, products []catalog.Product) http.Handler {
	t.Helper()
	// reparse templates per request and point at the repo-root dirs
	devMode = true
	templatesDir = "../../templates"
	contentDir = "../../content"
	if _, err := parseTemplates(); err != nil {
		t.Fatalf("parseTemplates failed: %v", err)
	}

	cfg = testConfig()
	catalogSt = catalog.NewStore()
	if products != nil {
		catalogSt.Load(products)
	}
	carts = cart.NewStore()
	formatter = order.NewFormatter(
		cfg.Payments.CODMethod,
		cfg.Payments.Methods,
		cfg.Payments.Accounts,
		cfg.UI.MessageTitleBudget,
	)
	pages = content.NewStore(contentDir, time.Minute)

	return newRouter()
}

// testClient carries cookies and the CSRF token across requests like a
// browser would.
type testClient struct {
	t       *testing.T
	srv     http.Handler
	cookies map[string]*http.Cookie
	csrf    string
}

func newTestClient(t *testing.T, srv http.Handler) *testClient {
	t.Helper()
	c := &testClient{t: t, srv: srv, cookies: map[string]*http.Cookie{}}
	// prime session and CSRF cookies
	rec := c.get("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("priming GET / failed: %d; body=%s", rec.Code, rec.Body.String())
	}
	if c.csrf == "" {
		t.Fatal("no CSRF cookie after priming request")
	}
	return c
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.srv.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
		if ck.Name == "csrf_token" {
			c.csrf = ck.Value
		}
	}
	return rec
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *testClient) getHX(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("HX-Request", "true")
	return c.do(req)
}

func (c *testClient) post(path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(http.MethodPost, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("X-CSRF-Token", c.csrf)
	req.Header.Set("HX-Request", "true")
	return c.do(req)
}

func parseDoc(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("parse response HTML: %v", err)
	}
	return doc
}

func TestHealthzOK(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "ok" {
		t.Fatalf("expected body 'ok', got %q", got)
	}
}

func TestShopPageRendersGrid(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	c := newTestClient(t, srv)

	rec := c.get("/")
	doc := parseDoc(t, rec)

	if got := doc.Find("article.product-card").Length(); got != 3 {
		t.Fatalf("expected 3 product cards, got %d", got)
	}
	body, _ := doc.Html()
	if !strings.Contains(body, "Semua Kategori") {
		t.Fatal("expected the all-categories option")
	}
	// 10 USD at rate 15000 with id-ID dot grouping
	if !strings.Contains(body, "Rp 150.000") {
		t.Fatalf("expected formatted grid price; body=%s", body)
	}
	// product 3's title exceeds the grid budget and gets an ellipsis
	if !strings.Contains(body, "…") {
		t.Fatal("expected truncated long title with ellipsis")
	}
	if strings.Contains(body, "Special Edition") {
		t.Fatal("long title should have been truncated in the grid")
	}
}

func TestShopGridFilterAndPushURL(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	c := newTestClient(t, srv)

	rec := c.getHX("/shop/grid?q=shirt&category=clothing")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("HX-Push-Url"); got != "/?category=clothing&q=shirt" {
		t.Fatalf("unexpected HX-Push-Url %q", got)
	}
	doc := parseDoc(t, rec)
	if got := doc.Find("article.product-card").Length(); got != 2 {
		t.Fatalf("expected 2 shirt matches, got %d", got)
	}

	rec = c.getHX("/shop/grid?q=zzz-no-match")
	if !strings.Contains(rec.Body.String(), "Tidak ada produk yang cocok.") {
		t.Fatalf("expected empty-result copy; body=%s", rec.Body.String())
	}

	// an unknown category falls back to all products
	rec = c.getHX("/shop/grid?category=nope")
	doc = parseDoc(t, rec)
	if got := doc.Find("article.product-card").Length(); got != 3 {
		t.Fatalf("expected unknown category to reset to all, got %d cards", got)
	}
}

func TestShopUnavailableState(t *testing.T) {
	srv := newTestRouter(t, nil)
	c := newTestClient(t, srv)

	rec := c.get("/")
	if !strings.Contains(rec.Body.String(), "Produk tidak dapat dimuat") {
		t.Fatalf("expected unavailable copy; body=%s", rec.Body.String())
	}
}

func TestCartAddMergesLines(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	c := newTestClient(t, srv)

	rec := c.post("/cart/items/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "Ditambahkan ke keranjang!") {
		t.Fatalf("expected toast trigger, got %q", rec.Header().Get("HX-Trigger"))
	}
	rec = c.post("/cart/items/1", nil)
	doc := parseDoc(t, rec)
	if got := strings.TrimSpace(doc.Find("#cart-count").Text()); got != "2" {
		t.Fatalf("expected badge 2, got %q", got)
	}

	rec = c.get("/cart")
	doc = parseDoc(t, rec)
	if got := doc.Find("li.cart-item").Length(); got != 1 {
		t.Fatalf("expected a single merged line, got %d", got)
	}
	body, _ := doc.Html()
	if !strings.Contains(body, "Rp 300.000") {
		t.Fatalf("expected merged subtotal Rp 300.000; body=%s", body)
	}
}

func TestCartAddUnknownProductIsNoOp(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	c := newTestClient(t, srv)

	rec := c.post("/cart/items/999", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("HX-Trigger") != "" {
		t.Fatal("unknown product must not fire a toast")
	}
	doc := parseDoc(t, rec)
	if got := strings.TrimSpace(doc.Find("#cart-count").Text()); got != "0" {
		t.Fatalf("expected badge 0, got %q", got)
	}
}

func TestCartDecrementToZeroRemovesLine(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	c := newTestClient(t, srv)

	c.post("/cart/items/1", nil)
	rec := c.post("/cart/items/1/decrement", nil)
	if !strings.Contains(rec.Body.String(), "Keranjang masih kosong.") {
		t.Fatalf("expected empty-cart copy; body=%s", rec.Body.String())
	}
}

func TestCartRemoveIgnoresUnknownLine(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	c := newTestClient(t, srv)

	c.post("/cart/items/1", nil)
	rec := c.post("/cart/items/999/remove", nil)
	doc := parseDoc(t, rec)
	if got := doc.Find("li.cart-item").Length(); got != 1 {
		t.Fatalf("expected line untouched, got %d lines", got)
	}
}

func TestCheckoutValidationSurfacesAllFailures(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	c := newTestClient(t, srv)

	rec := c.post("/checkout", url.Values{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"nama wajib diisi",
		"alamat wajib diisi",
		"nomor HP wajib diisi",
		"pilih metode pembayaran",
		"keranjang masih kosong",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected failure %q in body=%s", want, body)
		}
	}
}

func TestCheckoutCODFlow(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	c := newTestClient(t, srv)

	c.post("/cart/items/1", nil)
	c.post("/cart/items/1", nil)

	rec := c.post("/checkout", url.Values{
		"name":    {"Budi Santoso"},
		"address": {"Jl. Melati 5, Bandung"},
		"phone":   {"081234567890"},
		"method":  {"COD"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{
		"*PESANAN BARU*",
		"Nama: Budi Santoso",
		"1. Test Shirt (2x) - Rp 300.000",
		"*Total:* Rp 300.000",
		"Terima kasih 🙏",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in review; body=%s", want, body)
		}
	}
	if strings.Contains(body, "Mohon transfer") {
		t.Fatal("COD must not include the transfer block")
	}

	rec = c.post("/checkout/confirm", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	doc := parseDoc(t, rec)
	href, ok := doc.Find("a[target='_blank']").Attr("href")
	if !ok {
		t.Fatal("expected the messaging deep link")
	}
	u, err := url.Parse(href)
	if err != nil {
		t.Fatalf("parse deep link: %v", err)
	}
	if u.Host != "api.whatsapp.com" {
		t.Fatalf("unexpected deep link host %q", u.Host)
	}
	if got := u.Query().Get("phone"); got != "6289615170747" {
		t.Fatalf("unexpected deep link phone %q", got)
	}
	if !strings.Contains(u.Query().Get("text"), "*PESANAN BARU*") {
		t.Fatal("deep link text must carry the order message")
	}

	// cart cleared, fire-and-forget
	rec = c.get("/cart")
	if !strings.Contains(rec.Body.String(), "Keranjang masih kosong.") {
		t.Fatalf("expected cleared cart; body=%s", rec.Body.String())
	}
}

func TestCheckoutTransferIncludesAccount(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	c := newTestClient(t, srv)

	c.post("/cart/items/2", nil)
	rec := c.post("/checkout", url.Values{
		"name":    {"Sari"},
		"address": {"Jl. Anggrek 2, Jakarta"},
		"phone":   {"0811111111"},
		"method":  {"BCA"},
	})
	body := rec.Body.String()
	if !strings.Contains(body, "Mohon transfer ke nomor: 123-456-7890 a.n. TokoKu") {
		t.Fatalf("expected BCA destination account; body=%s", body)
	}
	if !strings.Contains(body, "screenshot") {
		t.Fatalf("expected transfer proof instruction; body=%s", body)
	}
}

func TestCheckoutCancelKeepsCartAndDraft(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	c := newTestClient(t, srv)

	c.post("/cart/items/1", nil)
	rec := c.post("/checkout", url.Values{
		"name":    {"Budi"},
		"address": {"Jl. Melati 5"},
		"phone":   {"0812"},
		"method":  {"COD"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d", rec.Code)
	}

	rec = c.post("/checkout/cancel", nil)
	doc := parseDoc(t, rec)
	if got, _ := doc.Find("input[name='name']").Attr("value"); got != "Budi" {
		t.Fatalf("expected pre-filled name, got %q", got)
	}

	rec = c.get("/cart")
	doc = parseDoc(t, rec)
	if got := doc.Find("li.cart-item").Length(); got != 1 {
		t.Fatalf("cancel must keep the cart, got %d lines", got)
	}
}

func TestCheckoutConfirmWithoutPendingRedirects(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	c := newTestClient(t, srv)

	rec := c.post("/checkout/confirm", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/cart" {
		t.Fatalf("expected redirect to /cart, got %q", got)
	}
}

func TestPaymentHintFragment(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	c := newTestClient(t, srv)

	rec := c.getHX("/checkout/payment-hint?method=DANA")
	if !strings.Contains(rec.Body.String(), "0896-1517-0747 a.n. TokoKu") {
		t.Fatalf("expected DANA account in hint; body=%s", rec.Body.String())
	}

	rec = c.getHX("/checkout/payment-hint?method=COD")
	if strings.TrimSpace(rec.Body.String()) != "" {
		t.Fatalf("COD hint must be empty; body=%q", rec.Body.String())
	}
}

func TestContentPages(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	c := newTestClient(t, srv)

	rec := c.get("/pages/cara-belanja")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	doc := parseDoc(t, rec)
	if got := strings.TrimSpace(doc.Find("h1").Text()); got != "Cara Belanja" {
		t.Fatalf("unexpected page title %q", got)
	}

	rec = c.get("/pages/tidak-ada")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCSRFRejectsMissingToken(t *testing.T) {
	srv := newTestRouter(t, testProducts())
	c := newTestClient(t, srv)

	req := httptest.NewRequest(http.MethodPost, "/cart/items/1", nil)
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without token, got %d", rec.Code)
	}
}
