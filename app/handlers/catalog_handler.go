package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"github.com/amberique/storefront/app/helpers"
	"github.com/amberique/storefront/app/models"
	"github.com/amberique/storefront/app/services"
	"github.com/amberique/storefront/app/stores"
	"github.com/amberique/storefront/app/utils/calc"
)

// ProductView is a catalog entry decorated with its resolved price.
type ProductView struct {
	Product        models.Product   `json:"product"`
	Price          models.PriceInfo `json:"price"`
	FormattedPrice string           `json:"formatted_price"`
}

type CatalogHandler struct {
	catalog services.CatalogClient
	brands  *services.BrandCounter
	stores  *stores.Manager
	render  *render.Render
}

func NewCatalogHandler(catalog services.CatalogClient, brands *services.BrandCounter, storeManager *stores.Manager, render *render.Render) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, brands: brands, stores: storeManager, render: render}
}

func kindFromRequest(r *http.Request) (models.ProductKind, error) {
	switch mux.Vars(r)["kind"] {
	case "perfumes":
		return models.ProductKindPerfume, nil
	case "pigments":
		return models.ProductKindPigment, nil
	default:
		return "", fmt.Errorf("unknown product kind %q", mux.Vars(r)["kind"])
	}
}

func filtersFromQuery(r *http.Request) services.ProductFilters {
	q := r.URL.Query()
	filters := services.ProductFilters{
		Gender:   q.Get("gender"),
		MinPrice: q.Get("min_price"),
		MaxPrice: q.Get("max_price"),
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
		InStock:  q.Get("in_stock") == "true",
	}
	if v, err := strconv.ParseInt(q.Get("brand"), 10, 64); err == nil {
		filters.BrandID = v
	}
	if v, err := strconv.ParseInt(q.Get("category"), 10, 64); err == nil {
		filters.CategoryID = v
	}
	return filters
}

// List serves one page of a filtered catalog listing.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	result, err := h.catalog.FetchPage(r.Context(), kind, filtersFromQuery(r), page, pageSize)
	if err != nil {
		log.Printf("CatalogHandler.List: failed to fetch %s page %d: %v", kind, page, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "The catalog is temporarily unavailable."})
		return
	}

	now := time.Now()
	items := make([]ProductView, 0, len(result.Results))
	for i := range result.Results {
		if p := models.NormalizeProduct(&result.Results[i]); p != nil {
			items = append(items, productView(p, now))
		}
	}

	h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"count":    result.Count,
		"page":     page,
		"has_more": result.Next != nil && len(result.Results) > 0,
		"items":    items,
	})
}

// Feed serves the visitor's incremental listing for one filtered query.
// Every call loads the next page and returns everything accumulated so far
// in server order; once the listing is exhausted the items simply stop
// growing.
func (h *CatalogHandler) Feed(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	feed := h.stores.Feed(helpers.SessionIDFromContext(r.Context()), kind, filtersFromQuery(r), pageSize)
	if err := feed.LoadMore(r.Context()); err != nil {
		log.Printf("CatalogHandler.Feed: failed to load next %s page: %v", kind, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "The catalog is temporarily unavailable."})
		return
	}

	now := time.Now()
	products := feed.Items()
	items := make([]ProductView, 0, len(products))
	for i := range products {
		items = append(items, productView(&products[i], now))
	}

	h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"has_more": feed.HasMore(),
		"items":    items,
	})
}

// Detail serves one product with its resolved price.
func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}

	raw, err := h.catalog.FetchProduct(r.Context(), kind, id)
	if err != nil {
		log.Printf("CatalogHandler.Detail: failed to fetch %s %d: %v", kind, id, err)
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "Product not found."})
		return
	}

	view := productView(models.NormalizeProduct(raw), time.Now())
	h.render.JSON(w, http.StatusOK, view)
}

// BrandCounts aggregates product counts for the requested brands.
func (h *CatalogHandler) BrandCounts(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	var brandIDs []int64
	for _, raw := range r.URL.Query()["brand"] {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			brandIDs = append(brandIDs, id)
		}
	}
	if len(brandIDs) == 0 {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "at least one brand id is required"})
		return
	}

	counts, err := h.brands.Refresh(r.Context(), kind, brandIDs)
	if errors.Is(err, services.ErrCountsSuperseded) {
		// A newer refresh for this same kind and brand set finished after
		// this one started; its counts are the fresher ones.
		counts = h.brands.Counts(kind, brandIDs)
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"counts": counts})
}

func productView(p *models.Product, now time.Time) ProductView {
	info := calc.PriceInfoFor(p, now)
	return ProductView{
		Product:        *p,
		Price:          info,
		FormattedPrice: helpers.FormatPrice(info.CurrentPrice),
	}
}
