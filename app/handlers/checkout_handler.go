package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"

	"github.com/amberique/storefront/app/helpers"
	"github.com/amberique/storefront/app/models"
	"github.com/amberique/storefront/app/services"
	"github.com/amberique/storefront/app/stores"
)

type CheckoutHandler struct {
	stores   *stores.Manager
	orders   services.OrdersAPI
	validate *validator.Validate
	render   *render.Render
}

func NewCheckoutHandler(storeManager *stores.Manager, orders services.OrdersAPI, render *render.Render) *CheckoutHandler {
	return &CheckoutHandler{
		stores:   storeManager,
		orders:   orders,
		validate: validator.New(),
		render:   render,
	}
}

// Submit validates the delivery form, turns the cart into an order request
// and submits it. Field validation failures never reach the backend; they
// come back as a per-field message map. The cart is cleared only after the
// backend accepts the order.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form models.CheckoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			h.render.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"errors": helpers.FormatValidationErrors(fieldErrs),
			})
			return
		}
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid checkout form"})
		return
	}

	cart := h.stores.Cart(helpers.SessionIDFromContext(r.Context()))
	state := cart.State()
	if len(state.Items) == 0 {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "Your cart is empty."})
		return
	}

	orderReq := services.OrderRequest{
		Delivery:  form,
		UsePoints: form.UsePoints,
		Provider:  services.PaymentProvider(form.Provider),
	}
	for _, item := range state.Items {
		orderReq.Items = append(orderReq.Items, services.OrderLine{
			ProductID:   item.Product.ID,
			ProductType: item.ProductType,
			Quantity:    item.Quantity,
		})
	}

	result, err := h.orders.CreateOrder(r.Context(), orderReq)
	if err != nil {
		log.Printf("CheckoutHandler.Submit: order submission failed: %v", err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Could not place the order. Please try again."})
		return
	}

	if userID := helpers.UserIDFromContext(r.Context()); userID != "" {
		log.Printf("CheckoutHandler.Submit: order %s placed by user %s", result.OrderID, userID)
	}
	cart.Clear()
	h.render.JSON(w, http.StatusCreated, result)
}

// PaymentStatus performs one provider status check for a pending payment.
func (h *CheckoutHandler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	provider := services.PaymentProvider(r.URL.Query().Get("provider"))
	paymentID := r.URL.Query().Get("payment_id")
	if paymentID == "" {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "payment_id is required"})
		return
	}

	poller := h.stores.Poller(helpers.SessionIDFromContext(r.Context()))
	status, err := poller.Check(r.Context(), provider, paymentID)
	if err != nil {
		log.Printf("CheckoutHandler.PaymentStatus: check failed for %s payment %s: %v", provider, paymentID, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Could not check the payment status."})
		return
	}
	h.render.JSON(w, http.StatusOK, status)
}

// LastPaymentStatus serves the newest status the visitor's polling has
// recorded, without contacting the provider again.
func (h *CheckoutHandler) LastPaymentStatus(w http.ResponseWriter, r *http.Request) {
	status := h.stores.Poller(helpers.SessionIDFromContext(r.Context())).Latest()
	if status == nil {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "No payment has been checked yet."})
		return
	}
	h.render.JSON(w, http.StatusOK, status)
}
