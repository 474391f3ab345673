package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"github.com/amberique/storefront/app/helpers"
	"github.com/amberique/storefront/app/models"
	"github.com/amberique/storefront/app/services"
	"github.com/amberique/storefront/app/stores"
)

type FavoritesHandler struct {
	stores  *stores.Manager
	catalog services.CatalogClient
	render  *render.Render
}

func NewFavoritesHandler(storeManager *stores.Manager, catalog services.CatalogClient, render *render.Render) *FavoritesHandler {
	return &FavoritesHandler{stores: storeManager, catalog: catalog, render: render}
}

// favorites resolves the visitor's store and keeps its sync mode in step
// with the visitor's login state.
func (h *FavoritesHandler) favorites(r *http.Request) *stores.FavoritesStore {
	store := h.stores.Favorites(helpers.SessionIDFromContext(r.Context()))
	store.SetAuthenticated(helpers.AuthTokenFromContext(r.Context()) != "")
	return store
}

// List serves the favorites set, hydrating it on first access.
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	store := h.favorites(r)
	if !store.IsHydrated() {
		if err := store.Hydrate(r.Context()); err != nil {
			log.Printf("FavoritesHandler.List: hydration was partial: %v", err)
		}
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"items": store.Items()})
}

// Add favorites a product.
func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProductID   int64  `json:"product_id"`
		ProductType string `json:"product_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	kind := models.ProductKind(payload.ProductType)
	if kind != models.ProductKindPerfume && kind != models.ProductKindPigment {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "unknown product type"})
		return
	}

	raw, err := h.catalog.FetchProduct(r.Context(), kind, payload.ProductID)
	if err != nil {
		log.Printf("FavoritesHandler.Add: failed to fetch %s %d: %v", kind, payload.ProductID, err)
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "Product not found."})
		return
	}

	store := h.favorites(r)
	if err := store.AddFavorite(r.Context(), models.NormalizeProduct(raw)); err != nil {
		log.Printf("FavoritesHandler.Add: sync failed for %s %d: %v", kind, payload.ProductID, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Could not save the favorite. Please try again."})
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"items": store.Items()})
}

// Remove drops a favorite by its (product id, product type) identity.
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	kind := models.ProductKind(mux.Vars(r)["kind"])
	if kind != models.ProductKindPerfume && kind != models.ProductKindPigment {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "unknown product type"})
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}

	store := h.favorites(r)
	if err := store.RemoveFavorite(r.Context(), id, kind); err != nil {
		log.Printf("FavoritesHandler.Remove: sync failed for %s %d: %v", kind, id, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Could not remove the favorite. Please try again."})
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"items": store.Items()})
}
