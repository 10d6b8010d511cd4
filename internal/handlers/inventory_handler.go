package handlers

import (
	"net/http"

	"github.com/0Bleak/order-service/internal/models"
	"github.com/0Bleak/order-service/internal/service"
	"github.com/gorilla/mux"
)

// stockResponse distinguishes a depleted product (stocked, quantity 0)
// from one that never had stock.
type stockResponse struct {
	ProductID uint32 `json:"product_id"`
	Quantity  uint32 `json:"quantity"`
	Stocked   bool   `json:"stocked"`
}

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(service service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/inventory", h.ListStock).Methods(http.MethodGet)
	router.HandleFunc("/inventory/{product_id}", h.CheckStock).Methods(http.MethodGet)
	router.HandleFunc("/inventory/{product_id}/add", h.AddStock).Methods(http.MethodPost)
	router.HandleFunc("/inventory/{product_id}/remove", h.RemoveStock).Methods(http.MethodPost)
}

func (h *InventoryHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	productID, req, ok := stockRequest(w, r)
	if !ok {
		return
	}

	level, err := h.service.AddStock(r.Context(), productID, req.Quantity)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, level)
}

// RemoveStock answers 409 when the product is unknown or short.
func (h *InventoryHandler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	productID, req, ok := stockRequest(w, r)
	if !ok {
		return
	}

	removed, err := h.service.RemoveStock(r.Context(), productID, req.Quantity)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if !removed {
		respondWithError(w, http.StatusConflict, service.ErrInsufficientStock.Error())
		return
	}

	onHand, err := h.service.CheckStock(r.Context(), productID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.StockLevel{ProductID: productID, Quantity: onHand})
}

func (h *InventoryHandler) CheckStock(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "product_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	quantity, stocked, err := h.service.Lookup(r.Context(), productID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stockResponse{ProductID: productID, Quantity: quantity, Stocked: stocked})
}

func (h *InventoryHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.List(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if levels == nil {
		levels = []models.StockLevel{}
	}

	respondWithJSON(w, http.StatusOK, levels)
}

func stockRequest(w http.ResponseWriter, r *http.Request) (uint32, models.StockRequest, bool) {
	var req models.StockRequest

	productID, err := pathID(r, "product_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return 0, req, false
	}

	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return 0, req, false
	}
	return productID, req, true
}
