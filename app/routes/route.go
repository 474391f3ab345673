package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/amberique/storefront/app/handlers"
	"github.com/amberique/storefront/app/middlewares"
	"github.com/amberique/storefront/app/utils/sessions"
)

type Handlers struct {
	Catalog   *handlers.CatalogHandler
	Cart      *handlers.CartHandler
	Favorites *handlers.FavoritesHandler
	Checkout  *handlers.CheckoutHandler
	Auth      *handlers.AuthHandler
	Profile   *handlers.ProfileHandler
}

func NewRouter(sessionStore sessions.SessionStore, h Handlers) *mux.Router {
	router := mux.NewRouter()
	router.Use(middlewares.SessionContextMiddleware(sessionStore))

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/catalog/{kind:perfumes|pigments}", h.Catalog.List).Methods(http.MethodGet)
	api.HandleFunc("/catalog/{kind:perfumes|pigments}/feed", h.Catalog.Feed).Methods(http.MethodGet)
	api.HandleFunc("/catalog/{kind:perfumes|pigments}/brand-counts", h.Catalog.BrandCounts).Methods(http.MethodGet)
	api.HandleFunc("/catalog/{kind:perfumes|pigments}/{id:[0-9]+}", h.Catalog.Detail).Methods(http.MethodGet)

	api.HandleFunc("/cart", h.Cart.Get).Methods(http.MethodGet)
	api.HandleFunc("/cart/items", h.Cart.Add).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{itemID}", h.Cart.UpdateQuantity).Methods(http.MethodPatch)
	api.HandleFunc("/cart/items/{itemID}", h.Cart.Remove).Methods(http.MethodDelete)
	api.HandleFunc("/cart", h.Cart.Clear).Methods(http.MethodDelete)

	api.HandleFunc("/favorites", h.Favorites.List).Methods(http.MethodGet)
	api.HandleFunc("/favorites", h.Favorites.Add).Methods(http.MethodPost)
	api.HandleFunc("/favorites/{kind:perfume|pigment}/{id:[0-9]+}", h.Favorites.Remove).Methods(http.MethodDelete)

	api.HandleFunc("/checkout", h.Checkout.Submit).Methods(http.MethodPost)
	api.HandleFunc("/checkout/payment-status", h.Checkout.PaymentStatus).Methods(http.MethodGet)
	api.HandleFunc("/checkout/payment-status/latest", h.Checkout.LastPaymentStatus).Methods(http.MethodGet)

	api.HandleFunc("/auth/otp/request", h.Auth.RequestOTP).Methods(http.MethodPost)
	api.HandleFunc("/auth/otp/verify", h.Auth.VerifyOTP).Methods(http.MethodPost)
	api.HandleFunc("/auth/google", h.Auth.Google).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)

	profile := api.PathPrefix("/profile").Subrouter()
	profile.Use(middlewares.RequireAuthMiddleware)
	profile.HandleFunc("/loyalty", h.Profile.LoyaltyAccount).Methods(http.MethodGet)
	profile.HandleFunc("/loyalty/history", h.Profile.LoyaltyHistory).Methods(http.MethodGet)

	return router
}
