package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/artemisia-corp/storefront/api/controllers"
	"github.com/artemisia-corp/storefront/api/middleware"
	"github.com/artemisia-corp/storefront/internal/address"
	"github.com/artemisia-corp/storefront/internal/auth"
	"github.com/artemisia-corp/storefront/internal/orders"
	product "github.com/artemisia-corp/storefront/internal/products"
	"github.com/artemisia-corp/storefront/internal/users"
	"github.com/artemisia-corp/storefront/pkg/config"
	"github.com/artemisia-corp/storefront/pkg/enums"
	"github.com/artemisia-corp/storefront/pkg/logger"
	"github.com/artemisia-corp/storefront/pkg/redis"
)

type rateLimitStore interface {
	redis.Pinger
	middleware.RateLimitStore
}

// Deps is everything the HTTP surface is wired to.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	Redis      rateLimitStore
	Metrics    http.Handler
	Auth       auth.Service
	Users      users.Service
	Products   product.Service
	Addresses  address.Service
	Orders     orders.Service
	Workspaces controllers.WorkspaceSource
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	loginLimit := middleware.RateLimit(middleware.LoginRateLimitPolicy(cfg.AuthRateLimit), d.Redis, logg)
	registerLimit := middleware.RateLimit(middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit), d.Redis, logg)

	cookie := cfg.Session.CookieName
	requireSession := middleware.SessionAuth(cookie, d.Auth, logg)
	optionalSession := middleware.OptionalSession(cookie, d.Auth, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, logg, d.Redis))
	})
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimit).Post("/login", controllers.AuthLogin(d.Auth, cfg.Session, logg))
			r.Post("/logout", controllers.AuthLogout(d.Auth, cfg.Session, logg))
		})

		r.With(registerLimit).Post("/users", controllers.UserRegister(d.Users, logg))
		r.With(requireSession).Get("/users/me", controllers.UserProfile(d.Users, logg))

		r.Route("/products", func(r chi.Router) {
			r.Use(optionalSession)
			r.Get("/", controllers.ProductList(d.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(d.Products, logg))
			r.Post("/search", controllers.ProductSearch(d.Products, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Route("/seller/products", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleSeller))
				r.Get("/", controllers.SellerProductList(d.Products, logg))
				r.Post("/", controllers.SellerCreateProduct(d.Products, logg))
				r.Put("/{productId}", controllers.SellerUpdateProduct(d.Products, logg))
				r.Post("/{productId}/image", controllers.SellerUploadImage(d.Products, logg))
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(d.Addresses, logg))
				r.Post("/", controllers.AddressCreate(d.Addresses, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(d.Workspaces, logg))
				r.Post("/lines", controllers.CartAddLine(d.Workspaces, logg))
				r.Post("/lines/{productId}/decrement", controllers.CartDecrement(d.Workspaces, logg))
				r.Put("/address", controllers.CartSelectAddress(d.Workspaces, logg))
				r.Put("/currency", controllers.CartChangeCurrency(d.Workspaces, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", controllers.CheckoutStatus(d.Workspaces, logg))
				r.Post("/", controllers.CheckoutStart(d.Workspaces, logg))
				r.Delete("/", controllers.CheckoutClose(d.Workspaces, logg))
				r.Post("/verify", controllers.CheckoutVerify(d.Workspaces, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderHistory(d.Orders, logg))
				r.Get("/{orderId}", controllers.OrderReceipt(d.Orders, logg))
			})
		})
	})

	return r
}
