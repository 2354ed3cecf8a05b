package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/codigo8a/fondo-back/internal/errors"
	"github.com/codigo8a/fondo-back/internal/models"
	"github.com/codigo8a/fondo-back/internal/service"
	u "github.com/codigo8a/fondo-back/internal/utils"
)

type ProductHandler struct {
	productService service.ProductService
	logger         *slog.Logger
}

func NewProductHandler(productService service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/producto", h.List).Methods(http.MethodGet)
	router.HandleFunc("/api/producto", h.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/producto/nombre/{nombre}", h.FindByNombre).Methods(http.MethodGet)
	router.HandleFunc("/api/producto/tipo/{tipo}/sucursal/{idSucursal}", h.FindByTipoAndBranch).Methods(http.MethodGet)
	router.HandleFunc("/api/producto/tipo/{tipo}", h.FindByTipo).Methods(http.MethodGet)
	router.HandleFunc("/api/producto/monto-maximo/{monto}", h.FindByMontoMaximo).Methods(http.MethodGet)
	router.HandleFunc("/api/producto/sucursal/{idSucursal}", h.FindByBranch).Methods(http.MethodGet)
	router.HandleFunc("/api/producto/existe/{id}", h.Exists).Methods(http.MethodGet)
	router.HandleFunc("/api/producto/existe-nombre/{nombre}", h.ExistsByNombre).Methods(http.MethodGet)
	router.HandleFunc("/api/producto/existe-sucursal/{idSucursal}", h.ExistsInBranch).Methods(http.MethodGet)
	router.HandleFunc("/api/producto/{id}", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/producto/{id}", h.Update).Methods(http.MethodPut)
	router.HandleFunc("/api/producto/{id}", h.Delete).Methods(http.MethodDelete)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list products")
		return
	}
	u.WriteJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleServiceError(w, err, "get product")
		return
	}
	u.WriteJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create product request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	product, err := h.productService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create product")
		return
	}
	u.WriteJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	updated, err := h.productService.Update(r.Context(), id, &product)
	if err != nil {
		h.handleServiceError(w, err, "update product")
		return
	}
	u.WriteJSON(w, http.StatusOK, updated)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.productService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.handleServiceError(w, err, "delete product")
		return
	}
	u.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *ProductHandler) Exists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.productService.Exists(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleServiceError(w, err, "check product existence")
		return
	}
	u.WriteJSON(w, http.StatusOK, models.ExistsResponse{Existe: exists})
}

func (h *ProductHandler) ExistsByNombre(w http.ResponseWriter, r *http.Request) {
	exists, err := h.productService.ExistsByNombre(r.Context(), mux.Vars(r)["nombre"])
	if err != nil {
		h.handleServiceError(w, err, "check product existence by name")
		return
	}
	u.WriteJSON(w, http.StatusOK, models.ExistsResponse{Existe: exists})
}

func (h *ProductHandler) ExistsInBranch(w http.ResponseWriter, r *http.Request) {
	exists, err := h.productService.ExistsInBranch(r.Context(), mux.Vars(r)["idSucursal"])
	if err != nil {
		h.handleServiceError(w, err, "check product existence in branch")
		return
	}
	u.WriteJSON(w, http.StatusOK, models.ExistsResponse{Existe: exists})
}

func (h *ProductHandler) FindByNombre(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.FindByNombre(r.Context(), mux.Vars(r)["nombre"])
	if err != nil {
		h.handleServiceError(w, err, "find products by name")
		return
	}
	u.WriteJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) FindByTipo(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.FindByTipo(r.Context(), mux.Vars(r)["tipo"])
	if err != nil {
		h.handleServiceError(w, err, "find products by type")
		return
	}
	u.WriteJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) FindByMontoMaximo(w http.ResponseWriter, r *http.Request) {
	monto, err := strconv.ParseFloat(mux.Vars(r)["monto"], 64)
	if err != nil {
		u.WriteError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	products, err := h.productService.FindByMontoMinimoMax(r.Context(), monto)
	if err != nil {
		h.handleServiceError(w, err, "find products by maximum entry amount")
		return
	}
	u.WriteJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) FindByBranch(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.FindByBranch(r.Context(), mux.Vars(r)["idSucursal"])
	if err != nil {
		h.handleServiceError(w, err, "find products by branch")
		return
	}
	u.WriteJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) FindByTipoAndBranch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	products, err := h.productService.FindByTipoAndBranch(r.Context(), vars["tipo"], vars["idSucursal"])
	if err != nil {
		h.handleServiceError(w, err, "find products by type and branch")
		return
	}
	u.WriteJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.IsNotFound(err):
		u.WriteError(w, http.StatusNotFound, "producto no encontrado", "")
	case errors.IsBusinessRule(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	case errors.IsValidationError(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	default:
		h.logger.Error("internal server error during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
