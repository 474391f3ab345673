package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/unrolled/render"

	"github.com/amberique/storefront/app/services"
)

type ProfileHandler struct {
	loyalty services.LoyaltyAPI
	render  *render.Render
}

func NewProfileHandler(loyalty services.LoyaltyAPI, render *render.Render) *ProfileHandler {
	return &ProfileHandler{loyalty: loyalty, render: render}
}

// LoyaltyAccount serves the visitor's points balance and tier.
func (h *ProfileHandler) LoyaltyAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.loyalty.GetAccount(r.Context())
	if err != nil {
		log.Printf("ProfileHandler.LoyaltyAccount: fetch failed: %v", err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Could not load your loyalty account."})
		return
	}
	h.render.JSON(w, http.StatusOK, account)
}

// LoyaltyHistory serves one page of loyalty transactions.
func (h *ProfileHandler) LoyaltyHistory(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	history, err := h.loyalty.GetHistory(r.Context(), page)
	if err != nil {
		log.Printf("ProfileHandler.LoyaltyHistory: fetch failed: %v", err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Could not load your points history."})
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"transactions": history})
}
