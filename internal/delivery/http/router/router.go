package router

import (
	"net/http"

	"go.uber.org/zap"

	"cameroonmark/internal/application/session"
	"cameroonmark/internal/delivery/http/handler"
	"cameroonmark/internal/delivery/http/middleware"
	"cameroonmark/internal/domain/user"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Session *handler.SessionHandler
	Cart    *handler.CartHandler
	Product *handler.ProductHandler
	Notice  *handler.NoticeHandler
	Page    *handler.PageHandler
}

// Options configures the cross-cutting middleware
type Options struct {
	AllowedOrigins []string
	Logger         *zap.Logger
}

// Setup configures all routes for the storefront server
func Setup(handlers Handlers, sessions session.Service, opts Options) *http.ServeMux {
	mux := http.NewServeMux()

	logging := middleware.Logger(opts.Logger)
	cors := middleware.CORS(middleware.CORSConfig{AllowedOrigins: opts.AllowedOrigins})
	authRequired := middleware.Auth(sessions)

	chain := func(h http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			h = middlewares[i](h)
		}
		return h
	}
	public := func(h http.HandlerFunc) http.HandlerFunc {
		return chain(h, logging, cors)
	}

	// Session
	mux.HandleFunc("/api/session", public(handlers.Session.Current))
	mux.HandleFunc("/api/session/login", public(handlers.Session.Login))
	mux.HandleFunc("/api/session/register", public(handlers.Session.Register))
	mux.HandleFunc("/api/session/logout", public(handlers.Session.Logout))
	mux.HandleFunc("/api/session/reset-password", public(handlers.Session.ResetPassword))
	mux.HandleFunc("/api/session/profile", chain(handlers.Session.UpdateProfile, logging, cors, authRequired))
	mux.HandleFunc("/api/session/password", chain(handlers.Session.ChangePassword, logging, cors, authRequired))

	// Cart
	mux.HandleFunc("/api/cart", public(handlers.Cart.Cart))
	mux.HandleFunc("/api/cart/items", public(handlers.Cart.AddItem))
	mux.HandleFunc("/api/cart/items/{id}", public(handlers.Cart.Item))

	// Catalog
	mux.HandleFunc("/api/products", public(handlers.Product.List))
	mux.HandleFunc("/api/products/{id}", public(handlers.Product.Get))

	mux.HandleFunc("/api/notices", public(handlers.Notice.List))

	// Guarded views
	views := []struct {
		path string
		name string
		role user.Role
	}{
		{"/checkout", "checkout", ""},
		{"/orders", "orders", ""},
		{"/profile", "profile", ""},
		{"/seller/dashboard", "seller-dashboard", user.RoleSeller},
		{"/seller/products/new", "seller-new-product", user.RoleSeller},
		{"/admin", "admin", user.RoleAdmin},
	}
	for _, v := range views {
		mux.HandleFunc(v.path, chain(handlers.Page.View(v.name), logging, middleware.Guard(sessions, v.role)))
	}

	return mux
}
