// Package api exposes the adapter's HTTP surface: authentication, checkout
// and portal session creation, one-shot payments and the provider webhook
// receiver.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"go.vocdoni.io/dvote/log"

	"github.com/apiforge/stripe-adapter/db"
	"github.com/apiforge/stripe-adapter/engine"
)

const (
	jwtExpiration = 360 * time.Hour // 15 days
	passwordSalt  = "apiforge365"   // salt for password hashing
)

// Storage is the slice of the database layer the API needs. It is satisfied
// by db.MongoStorage.
type Storage interface {
	User(id uint64) (*db.User, error)
	UserByEmail(email string) (*db.User, error)
	Product(id uint64) (*db.Product, error)
	Transaction(id uint64) (*db.Transaction, error)
	SetTransaction(tx *db.Transaction) (uint64, error)
}

type Config struct {
	Host   string
	Port   int
	Secret string
	// Currency used to price inline products, e.g. "eur".
	Currency string
	// WebAppURL is where checkout and portal sessions return the user to.
	WebAppURL string
	// Domain tags checkout sessions so the webhook processor can tell this
	// deployment's events apart from other tenants sharing the account.
	Domain   string
	DB       Storage
	Provider engine.Provider
	// WebhookHandler receives verified provider events.
	WebhookHandler engine.WebhookHandler
}

// API type represents the API HTTP server with JWT authentication capabilities.
type API struct {
	db        Storage
	auth      *jwtauth.JWTAuth
	host      string
	port      int
	secret    string
	currency  string
	webAppURL string
	domain    string
	provider  engine.Provider
	webhook   engine.WebhookHandler
	router    *chi.Mux
}

// New creates a new API HTTP server. It does not start the server. Use Start() for that.
func New(conf *Config) *API {
	if conf == nil {
		return nil
	}
	return &API{
		db:        conf.DB,
		auth:      jwtauth.New("HS256", []byte(conf.Secret), nil),
		host:      conf.Host,
		port:      conf.Port,
		secret:    conf.Secret,
		currency:  conf.Currency,
		webAppURL: conf.WebAppURL,
		domain:    conf.Domain,
		provider:  conf.Provider,
		webhook:   conf.WebhookHandler,
	}
}

// Start starts the API HTTP server (non blocking).
func (a *API) Start() {
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", a.host, a.port), a.initRouter()); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() http.Handler {
	// Create the router with a basic middleware stack
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Throttle(100))
	r.Use(middleware.Timeout(45 * time.Second))

	// protected routes
	r.Group(func(r chi.Router) {
		// seek, verify and validate JWT tokens
		r.Use(jwtauth.Verifier(a.auth))
		// handle valid JWT tokens
		r.Use(a.authenticator)
		// create a checkout session
		log.Infow("new route", "method", "POST", "path", paymentCheckoutEndpoint)
		r.Post(paymentCheckoutEndpoint, a.checkoutHandler)
		// create a billing portal session
		log.Infow("new route", "method", "GET", "path", paymentPortalEndpoint)
		r.Get(paymentPortalEndpoint, a.portalHandler)
		// prepare a one-shot payment transaction
		log.Infow("new route", "method", "POST", "path", paymentPrepareEndpoint)
		r.Post(paymentPrepareEndpoint, a.prepareHandler)
		// execute a prepared transaction after the user returns
		log.Infow("new route", "method", "POST", "path", paymentExecuteEndpoint)
		r.Post(paymentExecuteEndpoint, a.executeHandler)
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte(".")); err != nil {
				log.Warnw("failed to write ping response", "error", err)
			}
		})
		// login
		log.Infow("new route", "method", "POST", "path", authLoginEndpoint)
		r.Post(authLoginEndpoint, a.authLoginHandler)
		// handle provider webhook
		log.Infow("new route", "method", "POST", "path", paymentWebhookEndpoint)
		r.Post(paymentWebhookEndpoint, a.webhookHandler)
	})
	a.router = r
	return r
}
