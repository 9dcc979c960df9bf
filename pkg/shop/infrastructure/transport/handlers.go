package transport

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/service"
)

type Handler struct {
	products service.ProductService
	carts    service.CartService
	orders   service.OrderService
}

func Router(products service.ProductService, carts service.CartService, orders service.OrderService) http.Handler {
	handler := &Handler{products: products, carts: carts, orders: orders}

	r := mux.NewRouter()
	s := r.PathPrefix("/api/v1").Subrouter()

	s.HandleFunc("/products", handler.createProduct).Methods(http.MethodPost)
	s.HandleFunc("/products", handler.listProducts).Methods(http.MethodGet)
	s.HandleFunc("/cart/items/{productID}", handler.addToCart).Methods(http.MethodPost)
	s.HandleFunc("/checkout", handler.checkout).Methods(http.MethodPost)
	s.HandleFunc("/orders/cancel", handler.cancel).Methods(http.MethodPost)

	return logMiddleware(r)
}

type productResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int    `json:"stock"`
}

type createProductRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int    `json:"stock"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		http.Error(w, "invalid price", http.StatusBadRequest)
		return
	}

	product, err := h.products.CreateProduct(r.Context(), req.Name, price, req.Stock)
	if errors.Is(err, service.ErrNegativePrice) || errors.Is(err, service.ErrNegativeStock) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, productResponse{
		ID:    product.ID.String(),
		Name:  product.Name,
		Price: product.Price.String(),
		Stock: product.Stock,
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse{
			ID:    p.ID.String(),
			Name:  p.Name,
			Price: p.Price.String(),
			Stock: p.Stock,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	productID, err := uuid.Parse(vars["productID"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	product, err := h.carts.AddToCart(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, productResponse{
		ID:    product.ID.String(),
		Name:  product.Name,
		Price: product.Price.String(),
		Stock: product.Stock,
	})
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	total, err := h.orders.Checkout(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"total": total.String()})
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Cancel(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.WithError(err).Error("request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("write response")
	}
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
