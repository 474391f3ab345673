package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"github.com/amberique/storefront/app/helpers"
	"github.com/amberique/storefront/app/models"
	"github.com/amberique/storefront/app/services"
	"github.com/amberique/storefront/app/stores"
)

type CartHandler struct {
	stores  *stores.Manager
	catalog services.CatalogClient
	render  *render.Render
}

func NewCartHandler(storeManager *stores.Manager, catalog services.CatalogClient, render *render.Render) *CartHandler {
	return &CartHandler{stores: storeManager, catalog: catalog, render: render}
}

type cartResponse struct {
	models.CartState
	FormattedTotal string `json:"formatted_total"`
}

func (h *CartHandler) respondState(w http.ResponseWriter, state models.CartState) {
	h.render.JSON(w, http.StatusOK, cartResponse{
		CartState:      state,
		FormattedTotal: helpers.FormatPrice(state.Total),
	})
}

func (h *CartHandler) cart(r *http.Request) *stores.CartStore {
	return h.stores.Cart(helpers.SessionIDFromContext(r.Context()))
}

// Get serves the visitor's current cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, h.cart(r).State())
}

// Add fetches the product from the catalog and merges it into the cart.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
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
		log.Printf("CartHandler.Add: failed to fetch %s %d: %v", kind, payload.ProductID, err)
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "Product not found."})
		return
	}

	state, err := h.cart(r).AddItem(raw)
	if err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.respondState(w, state)
}

// UpdateQuantity sets a line's quantity; zero removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	state := h.cart(r).UpdateQuantity(mux.Vars(r)["itemID"], payload.Quantity)
	h.respondState(w, state)
}

// Remove deletes a cart line.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	state := h.cart(r).RemoveItem(mux.Vars(r)["itemID"])
	h.respondState(w, state)
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, h.cart(r).Clear())
}
