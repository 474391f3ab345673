package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/csrf"

	"github.com/amberique/storefront/app/cmd"
	"github.com/amberique/storefront/app/configs"
	"github.com/amberique/storefront/app/handlers"
	"github.com/amberique/storefront/app/routes"
	"github.com/amberique/storefront/app/services"
	"github.com/amberique/storefront/app/storage"
	"github.com/amberique/storefront/app/stores"
	"github.com/amberique/storefront/app/utils/renderer"
	"github.com/amberique/storefront/app/utils/sessions"
)

func main() {
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	env, err := configs.LoadEnv()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		log.Fatalf("Session keys failed: %v", err)
	}
	sessionStore := sessions.NewCookieSessionStore(keys.AuthKey, keys.EncKey)
	log.Println("✅ Session store initialized.")

	store, err := storage.OpenSQLite(env.StoragePath)
	if err != nil {
		log.Fatalf("Snapshot storage failed: %v", err)
	}
	log.Printf("✅ Snapshot storage opened at %s.", env.StoragePath)

	catalog := services.NewCatalogService(env.APIBaseURL, env.APIKey)
	favoritesAPI := services.NewFavoritesService(env.APIBaseURL)
	loyalty := services.NewLoyaltyService(env.APIBaseURL)
	payments := services.NewPaymentService(env.APIBaseURL)
	auth := services.NewAuthService(env.APIBaseURL)
	orders := services.NewCheckoutService(env.APIBaseURL)
	brands := services.NewBrandCounter(catalog)

	storeManager := stores.NewManager(store, catalog, favoritesAPI, payments)
	render := renderer.New()

	router := routes.NewRouter(sessionStore, routes.Handlers{
		Catalog:   handlers.NewCatalogHandler(catalog, brands, storeManager, render),
		Cart:      handlers.NewCartHandler(storeManager, catalog, render),
		Favorites: handlers.NewFavoritesHandler(storeManager, catalog, render),
		Checkout:  handlers.NewCheckoutHandler(storeManager, orders, render),
		Auth:      handlers.NewAuthHandler(auth, sessionStore, render),
		Profile:   handlers.NewProfileHandler(loyalty, render),
	})

	csrfMiddleware := csrf.Protect(keys.AuthKey, csrf.Secure(env.CSRFSecure))

	server := http.Server{
		Addr:    env.Port,
		Handler: csrfMiddleware(router),
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
