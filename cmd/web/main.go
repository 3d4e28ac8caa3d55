package main

import (
	"context"
	"flag"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tokoku.id/tokoku-web/internal/cart"
	"tokoku.id/tokoku-web/internal/catalog"
	"tokoku.id/tokoku-web/internal/config"
	"tokoku.id/tokoku-web/internal/content"
	"tokoku.id/tokoku-web/internal/format"
	mw "tokoku.id/tokoku-web/internal/middleware"
	"tokoku.id/tokoku-web/internal/order"
)

var (
	templatesDir = "templates"
	contentDir   = "content"
	// devMode reparses templates per request: TOKOKU_DEV (preferred) or DEV
	devMode   bool
	tmplCache *template.Template

	cfg       config.Config
	catalogSt *catalog.Store
	carts     *cart.Store
	formatter *order.Formatter
	pages     *content.Store
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	var (
		addr     string
		tmplPath string
		pagePath string
	)
	flag.StringVar(&addr, "addr", cfg.ListenAddr, "HTTP listen address")
	flag.StringVar(&tmplPath, "templates", templatesDir, "templates directory")
	flag.StringVar(&pagePath, "content", contentDir, "store-info markdown directory")
	flag.Parse()

	templatesDir = tmplPath
	contentDir = pagePath
	devMode = os.Getenv("TOKOKU_DEV") != "" || os.Getenv("DEV") != ""

	if !devMode {
		tc, err := parseTemplates()
		if err != nil {
			log.Fatal().Err(err).Msg("parse templates")
		}
		tmplCache = tc
	}

	catalogSt = catalog.NewStore()
	carts = cart.NewStore()
	formatter = order.NewFormatter(
		cfg.Payments.CODMethod,
		cfg.Payments.Methods,
		cfg.Payments.Accounts,
		cfg.UI.MessageTitleBudget,
	)
	pages = content.NewStore(contentDir, 5*time.Minute)

	fetchCatalog()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info().Str("addr", addr).Bool("devMode", devMode).Bool("catalog", catalogSt.Loaded()).Msg("web listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("listen")
	}
}

// fetchCatalog issues the one catalog fetch of the process. A failure leaves
// the shop in the degraded unavailable state; the page keeps serving.
func fetchCatalog() {
	client := catalog.NewClient(cfg.Catalog.APIURL, cfg.Catalog.Timeout)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Catalog.Timeout)
	defer cancel()

	products, err := client.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Str("url", cfg.Catalog.APIURL).Msg("catalog fetch failed; serving unavailable state")
		return
	}
	catalogSt.Load(products)
	log.Info().Int("products", len(products)).Msg("catalog loaded")
}

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.HTMX)
	r.Use(mw.Session)
	r.Use(mw.CSRF)
	r.Use(mw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", ShopHandler)
	r.Get("/shop/grid", ShopGridFrag)

	r.Get("/cart", CartHandler)
	r.Get("/cart/panel", CartPanelFrag)
	r.Post("/cart/items/{productID}", CartAddHandler)
	r.Post("/cart/items/{productID}/increment", CartIncrementHandler)
	r.Post("/cart/items/{productID}/decrement", CartDecrementHandler)
	r.Post("/cart/items/{productID}/remove", CartRemoveHandler)

	r.Get("/checkout/payment-hint", CheckoutPaymentHintFrag)
	r.Post("/checkout", CheckoutSubmitHandler)
	r.Post("/checkout/confirm", CheckoutConfirmHandler)
	r.Post("/checkout/cancel", CheckoutCancelHandler)

	r.Get("/pages/{slug}", ContentPageHandler)

	return r
}

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"now":        time.Now,
		"formatDate": format.Date,
	}
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

func lookupTemplates(w http.ResponseWriter) *template.Template {
	if devMode {
		tc, err := parseTemplates()
		if err != nil {
			http.Error(w, fmt.Sprintf("template parse error: %v", err), http.StatusInternalServerError)
			return nil
		}
		return tc
	}
	if tmplCache == nil {
		http.Error(w, "template not initialized", http.StatusInternalServerError)
		return nil
	}
	return tmplCache
}

// renderPage executes a full page template (a "page_*" define).
func renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	renderTemplate(w, r, name, data)
}

// renderTemplate executes a named template or fragment.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	t := lookupTemplates(w)
	if t == nil {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
	}
}
