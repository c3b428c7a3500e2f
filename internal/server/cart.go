package server

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/studentgear/internal/auth"
	"github.com/hyperjump/studentgear/internal/models"
)

const authHeader = "X-Auth-Token"

// maxCartQuantity caps the quantity of one cart line.
const maxCartQuantity = 1_000_000

// cartQuantity truncates a client-supplied quantity to an int within
// [0, maxCartQuantity]. Zero or less removes the line on update.
func cartQuantity(q float64) int {
	switch {
	case math.IsNaN(q) || q <= 0:
		return 0
	case q >= maxCartQuantity:
		return maxCartQuantity
	default:
		return int(q)
	}
}

// cartToken picks the cart owner: the auth header, then the token sent with the
// request body, then the token query parameter.
func cartToken(r *http.Request, bodyToken string) string {
	if t := strings.TrimSpace(r.Header.Get(authHeader)); t != "" {
		return t
	}
	if t := strings.TrimSpace(bodyToken); t != "" {
		return t
	}
	if t := strings.TrimSpace(r.URL.Query().Get("token")); t != "" {
		return t
	}
	return auth.AnonymousToken
}

type cartResponse struct {
	Cart []models.CartItem `json:"cart"`
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	items, err := s.storage.GetCart(r.Context(), cartToken(r, ""))
	s.metrics.ObserveCart("get", err)
	if err != nil {
		s.logger.Error("get cart failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, cartResponse{Cart: items})
}

type addCartRequest struct {
	Token string           `json:"token"`
	Item  *models.CartItem `json:"item"`
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartRequest
	if err := decodeOptional(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Item == nil || req.Item.Name == "" {
		s.respondError(w, http.StatusBadRequest, "Missing item")
		return
	}
	if req.Item.Quantity > maxCartQuantity {
		req.Item.Quantity = maxCartQuantity
	}
	token := cartToken(r, req.Token)
	s.logger.Debug("add cart item", zap.String("name", req.Item.Name), zap.Int("quantity", req.Item.Quantity))
	items, err := s.storage.AddCartItem(r.Context(), token, *req.Item)
	s.metrics.ObserveCart("add", err)
	if err != nil {
		s.logger.Error("add cart item failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, cartResponse{Cart: items})
}

type updateCartRequest struct {
	Token    string   `json:"token"`
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartRequest
	if err := decodeOptional(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Missing name or quantity")
		return
	}
	if req.Name == "" || req.Quantity == nil {
		s.respondError(w, http.StatusBadRequest, "Missing name or quantity")
		return
	}
	token := cartToken(r, req.Token)
	items, err := s.storage.UpdateCartItem(r.Context(), token, req.Name, cartQuantity(*req.Quantity))
	s.metrics.ObserveCart("update", err)
	if err != nil {
		if errors.Is(err, models.ErrItemNotInCart) {
			s.respondError(w, http.StatusNotFound, "Item not in cart")
			return
		}
		s.logger.Error("update cart item failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, cartResponse{Cart: items})
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	items, err := s.storage.RemoveCartItem(r.Context(), cartToken(r, ""), name)
	s.metrics.ObserveCart("remove", err)
	if err != nil {
		s.logger.Error("remove cart item failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, cartResponse{Cart: items})
}
