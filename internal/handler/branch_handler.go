package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codigo8a/fondo-back/internal/errors"
	"github.com/codigo8a/fondo-back/internal/models"
	"github.com/codigo8a/fondo-back/internal/service"
	u "github.com/codigo8a/fondo-back/internal/utils"
)

type BranchHandler struct {
	branchService service.BranchService
	logger        *slog.Logger
}

func NewBranchHandler(branchService service.BranchService, logger *slog.Logger) *BranchHandler {
	return &BranchHandler{
		branchService: branchService,
		logger:        logger,
	}
}

func (h *BranchHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/sucursal", h.List).Methods(http.MethodGet)
	router.HandleFunc("/api/sucursal", h.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/sucursal/nombre/{nombre}", h.FindByNombre).Methods(http.MethodGet)
	router.HandleFunc("/api/sucursal/ciudad/{ciudad}", h.FindByCiudad).Methods(http.MethodGet)
	router.HandleFunc("/api/sucursal/existe/{id}", h.Exists).Methods(http.MethodGet)
	router.HandleFunc("/api/sucursal/existe-nombre/{nombre}", h.ExistsByNombre).Methods(http.MethodGet)
	router.HandleFunc("/api/sucursal/existe-ciudad/{ciudad}", h.ExistsInCiudad).Methods(http.MethodGet)
	router.HandleFunc("/api/sucursal/{id}", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/sucursal/{id}", h.Update).Methods(http.MethodPut)
	router.HandleFunc("/api/sucursal/{id}", h.Delete).Methods(http.MethodDelete)
}

func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	branches, err := h.branchService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list branches")
		return
	}
	u.WriteJSON(w, http.StatusOK, branches)
}

func (h *BranchHandler) Get(w http.ResponseWriter, r *http.Request) {
	branch, err := h.branchService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleServiceError(w, err, "get branch")
		return
	}
	u.WriteJSON(w, http.StatusOK, branch)
}

func (h *BranchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create branch request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	branch, err := h.branchService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create branch")
		return
	}
	u.WriteJSON(w, http.StatusCreated, branch)
}

func (h *BranchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var branch models.Branch
	if err := json.NewDecoder(r.Body).Decode(&branch); err != nil {
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	updated, err := h.branchService.Update(r.Context(), id, &branch)
	if err != nil {
		h.handleServiceError(w, err, "update branch")
		return
	}
	u.WriteJSON(w, http.StatusOK, updated)
}

func (h *BranchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.branchService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.handleServiceError(w, err, "delete branch")
		return
	}
	u.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *BranchHandler) Exists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.branchService.Exists(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleServiceError(w, err, "check branch existence")
		return
	}
	u.WriteJSON(w, http.StatusOK, models.ExistsResponse{Existe: exists})
}

func (h *BranchHandler) ExistsByNombre(w http.ResponseWriter, r *http.Request) {
	exists, err := h.branchService.ExistsByNombre(r.Context(), mux.Vars(r)["nombre"])
	if err != nil {
		h.handleServiceError(w, err, "check branch existence by name")
		return
	}
	u.WriteJSON(w, http.StatusOK, models.ExistsResponse{Existe: exists})
}

func (h *BranchHandler) ExistsInCiudad(w http.ResponseWriter, r *http.Request) {
	exists, err := h.branchService.ExistsInCiudad(r.Context(), mux.Vars(r)["ciudad"])
	if err != nil {
		h.handleServiceError(w, err, "check branch existence in city")
		return
	}
	u.WriteJSON(w, http.StatusOK, models.ExistsResponse{Existe: exists})
}

func (h *BranchHandler) FindByNombre(w http.ResponseWriter, r *http.Request) {
	branches, err := h.branchService.FindByNombre(r.Context(), mux.Vars(r)["nombre"])
	if err != nil {
		h.handleServiceError(w, err, "find branches by name")
		return
	}
	u.WriteJSON(w, http.StatusOK, branches)
}

func (h *BranchHandler) FindByCiudad(w http.ResponseWriter, r *http.Request) {
	branches, err := h.branchService.FindByCiudad(r.Context(), mux.Vars(r)["ciudad"])
	if err != nil {
		h.handleServiceError(w, err, "find branches by city")
		return
	}
	u.WriteJSON(w, http.StatusOK, branches)
}

func (h *BranchHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.IsNotFound(err):
		u.WriteError(w, http.StatusNotFound, "sucursal no encontrada", "")
	case errors.IsValidationError(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	default:
		h.logger.Error("internal server error during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
