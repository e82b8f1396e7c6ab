package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/domasjohn/BlazzorEcommerce/internal/domain"
)

// CartService is what the handlers need from the service layer.
type CartService interface {
	CartProducts(ctx context.Context, lines []domain.CartLine) ([]domain.CartProduct, error)
	UserCartProducts(ctx context.Context, userID int64) ([]domain.CartProduct, error)
	StoreLines(ctx context.Context, userID int64, lines []domain.CartLine) ([]domain.CartProduct, error)
	Count(ctx context.Context, userID int64) (int, error)
	RemoveLine(ctx context.Context, userID, productID, variantID int64) error
	UpdateQuantity(ctx context.Context, userID, productID, variantID int64, quantity int) error
}

type CartHandler struct {
	service CartService
}

func NewCartHandler(service CartService) *CartHandler {
	return &CartHandler{service: service}
}

type updateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// ResolveLines hydrates an arbitrary snapshot. No auth: this is the anonymous
// preview path.
func (h *CartHandler) ResolveLines(w http.ResponseWriter, r *http.Request) {
	var lines []domain.CartLine
	if err := json.NewDecoder(r.Body).Decode(&lines); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !validLines(w, lines) {
		return
	}

	products, err := h.service.CartProducts(r.Context(), lines)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to resolve cart lines")
		return
	}

	respondData(w, http.StatusOK, products)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "missing user authentication")
		return
	}

	products, err := h.service.UserCartProducts(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	respondData(w, http.StatusOK, products)
}

func (h *CartHandler) StoreLines(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "missing user authentication")
		return
	}

	var lines []domain.CartLine
	if err := json.NewDecoder(r.Body).Decode(&lines); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !validLines(w, lines) {
		return
	}

	products, err := h.service.StoreLines(r.Context(), userID, lines)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store cart lines")
		return
	}

	respondData(w, http.StatusCreated, products)
}

func (h *CartHandler) GetCount(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "missing user authentication")
		return
	}

	count, err := h.service.Count(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to count cart lines")
		return
	}

	respondData(w, http.StatusOK, count)
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "missing user authentication")
		return
	}

	productID, variantID, ok := lineKeyFromURL(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveLine(r.Context(), userID, productID, variantID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to remove cart line")
		return
	}

	respondData(w, http.StatusOK, nil)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "missing user authentication")
		return
	}

	productID, variantID, ok := lineKeyFromURL(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Quantity < 1 || req.Quantity > domain.MaxLineQuantity {
		respondError(w, http.StatusBadRequest, "quantity must be between 1 and 99")
		return
	}

	if err := h.service.UpdateQuantity(r.Context(), userID, productID, variantID, req.Quantity); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update cart line")
		return
	}

	respondData(w, http.StatusOK, nil)
}

func validLines(w http.ResponseWriter, lines []domain.CartLine) bool {
	for _, line := range lines {
		if line.ProductID <= 0 || line.VariantID <= 0 {
			respondError(w, http.StatusBadRequest, "product and variant ids must be positive")
			return false
		}
		if line.Quantity < 1 || line.Quantity > domain.MaxLineQuantity {
			respondError(w, http.StatusBadRequest, "quantity must be between 1 and 99")
			return false
		}
	}
	return true
}

func lineKeyFromURL(w http.ResponseWriter, r *http.Request) (productID, variantID int64, ok bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "product id must be a positive integer")
		return 0, 0, false
	}

	variantID, err = strconv.ParseInt(chi.URLParam(r, "variantID"), 10, 64)
	if err != nil || variantID <= 0 {
		respondError(w, http.StatusBadRequest, "variant id must be a positive integer")
		return 0, 0, false
	}

	return productID, variantID, true
}
