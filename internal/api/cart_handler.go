package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	cartapp "github.com/m7one/storefront/internal/cart/app"
	cartdomain "github.com/m7one/storefront/internal/cart/domain"
)

// handleGetCart returns the cart with computed totals. An empty cart
// is a normal response here, not an error.
func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cart.Snapshot()
	if err != nil {
		if errors.Is(err, cartapp.ErrEmptyCart) {
			writeJSON(w, http.StatusOK, cartdomain.Snapshot{Items: []cartdomain.LineItem{}})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type addItemRequest struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Image     string          `json:"image"`
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ProductID <= 0 || req.Name == "" {
		writeErrorMsg(w, http.StatusBadRequest, "id and name are required")
		return
	}
	if req.Price.IsNegative() {
		writeErrorMsg(w, http.StatusBadRequest, "invalid price")
		return
	}

	s.cart.AddItem(r.Context(), cartdomain.LineItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		UnitPrice: req.Price,
		Quantity:  req.Quantity,
		Image:     req.Image,
	})
	writeJSON(w, http.StatusOK, map[string]int64{"item_count": s.cart.TotalItemCount()})
}

type setQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

func (s *Server) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req setQuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.cart.SetQuantity(r.Context(), id, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"item_count": s.cart.TotalItemCount()})
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid product id")
		return
	}

	s.cart.RemoveItem(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]int64{"item_count": s.cart.TotalItemCount()})
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	s.cart.Clear(r.Context())
	writeJSON(w, http.StatusOK, map[string]int64{"item_count": 0})
}
