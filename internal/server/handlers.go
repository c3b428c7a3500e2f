package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/studentgear/internal/models"
	"github.com/hyperjump/studentgear/internal/storage"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "StudentGear backend is running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cartCount, err := s.storage.CountCarts(ctx)
	if err != nil {
		s.logger.Error("status: count carts failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	storedProducts, err := s.storage.CountProducts(ctx)
	if err != nil {
		s.logger.Error("status: count products failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	snap := s.catalog.Snapshot()
	resp := map[string]interface{}{
		"products":        snap.Len(),
		"branches":        len(snap.Branches()),
		"carts":           cartCount,
		"stored_products": storedProducts,
	}

	configInfo := map[string]interface{}{
		"storage_driver": s.config.Storage.Driver,
		"catalog_path":   s.config.Catalog.Path,
		"catalog_watch":  s.config.Catalog.Watch,
	}
	if s.config.Storage.Driver == string(storage.DriverSQLite) {
		configInfo["database_path"] = s.config.Storage.DatabasePath
		diskBytes, err := storage.DatabaseSize(s.config.Storage.DatabasePath)
		if err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBranches(w http.ResponseWriter, r *http.Request) {
	snap := s.catalog.Snapshot()
	type branchInfo struct {
		Code     string `json:"code"`
		Name     string `json:"name"`
		Products int    `json:"products"`
	}
	branches := snap.Branches()
	out := make([]branchInfo, len(branches))
	for i, b := range branches {
		out[i] = branchInfo{Code: b.Code, Name: b.Name, Products: len(snap.BranchProducts(b.Code))}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"branches": out})
}

// handleListProducts returns the whole catalog, or a sorted page of it when any
// of branch, sort or page is given.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("branch") == "" && q.Get("sort") == "" && q.Get("page") == "" {
		s.respondJSON(w, http.StatusOK, map[string]interface{}{"products": s.catalog.Snapshot().Products()})
		return
	}

	query := models.BrowseQuery{Branch: q.Get("branch"), Sort: q.Get("sort")}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &query.Page}, {"page_size", &query.PageSize}} {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				s.respondError(w, http.StatusBadRequest, "invalid "+p.name)
				return
			}
			*p.dst = n
		}
	}
	resp, err := s.engine.Browse(r.Context(), &query)
	if err != nil {
		s.respondDomainError(w, "browse failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInsertProduct(w http.ResponseWriter, r *http.Request) {
	var input models.Product
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("insert product request", zap.String("name", input.Name), zap.String("branch", input.Branch))
	stored, err := s.catalog.InsertAndCommit(&input, func(p *models.Product) error {
		return s.storage.SaveProduct(r.Context(), p)
	})
	if err != nil {
		s.respondDomainError(w, "insert failed", err)
		return
	}
	s.metrics.ObserveInsert(s.catalog.Snapshot().Len())
	s.respondJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleBuyOptions(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	p, ok := s.catalog.Snapshot().Lookup(name)
	if !ok {
		s.respondError(w, http.StatusNotFound, "product not found")
		return
	}
	s.respondJSON(w, http.StatusOK, s.links.Resolve(p))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))
	response, err := s.engine.Search(r.Context(), &query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

type explainRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	results, err := s.engine.Explain(r.Context(), req.Query, req.Offset, req.Limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"query": req.Query, "results": results})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	products, err := s.engine.Suggest(r.Context(), q)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"query": q, "products": products})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	reply := s.chat.Reply(req.Message)
	intent := "fallback"
	switch {
	case reply.BuyIntent:
		intent = "buy"
	case reply.Product != nil:
		intent = "product"
	}
	s.metrics.ObserveChat(intent)
	s.respondJSON(w, http.StatusOK, reply)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeOptional(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrMissingCredentials) {
			s.respondError(w, http.StatusBadRequest, "Missing email or password")
			return
		}
		s.logger.Error("login failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, session)
}

// respondDomainError maps catalog and query errors to status codes.
func (s *Server) respondDomainError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidProduct), errors.Is(err, models.ErrInvalidQuery):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrDuplicateProduct):
		s.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error(msg, zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeOptional decodes a JSON body into v. An empty body leaves v unchanged.
func decodeOptional(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
