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

type ClientHandler struct {
	clientService service.ClientService
	logger        *slog.Logger
}

func NewClientHandler(clientService service.ClientService, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

func (h *ClientHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/cliente", h.List).Methods(http.MethodGet)
	router.HandleFunc("/api/cliente", h.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/cliente/ciudad/{ciudad}", h.FindByCiudad).Methods(http.MethodGet)
	router.HandleFunc("/api/cliente/nombre/{nombre}", h.FindByNombre).Methods(http.MethodGet)
	router.HandleFunc("/api/cliente/apellidos/{apellidos}", h.FindByApellidos).Methods(http.MethodGet)
	router.HandleFunc("/api/cliente/existe/{id}", h.Exists).Methods(http.MethodGet)
	router.HandleFunc("/api/cliente/{id}", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/cliente/{id}", h.Update).Methods(http.MethodPut)
	router.HandleFunc("/api/cliente/{id}", h.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/api/cliente/{id}/monto", h.UpdateMonto).Methods(http.MethodPatch)
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list clients")
		return
	}
	u.WriteJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	client, err := h.clientService.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get client")
		return
	}
	u.WriteJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create client request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	client, err := h.clientService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create client")
		return
	}
	u.WriteJSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	updated, err := h.clientService.Update(r.Context(), id, &client)
	if err != nil {
		h.handleServiceError(w, err, "update client")
		return
	}
	u.WriteJSON(w, http.StatusOK, updated)
}

func (h *ClientHandler) UpdateMonto(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdateMontoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	client, err := h.clientService.UpdateMonto(r.Context(), id, req.Monto)
	if err != nil {
		h.handleServiceError(w, err, "update client balance")
		return
	}
	u.WriteJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.clientService.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err, "delete client")
		return
	}
	u.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *ClientHandler) Exists(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	exists, err := h.clientService.Exists(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "check client existence")
		return
	}
	u.WriteJSON(w, http.StatusOK, models.ExistsResponse{Existe: exists})
}

func (h *ClientHandler) FindByCiudad(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientService.FindByCiudad(r.Context(), mux.Vars(r)["ciudad"])
	if err != nil {
		h.handleServiceError(w, err, "find clients by city")
		return
	}
	u.WriteJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) FindByNombre(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientService.FindByNombre(r.Context(), mux.Vars(r)["nombre"])
	if err != nil {
		h.handleServiceError(w, err, "find clients by name")
		return
	}
	u.WriteJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) FindByApellidos(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientService.FindByApellidos(r.Context(), mux.Vars(r)["apellidos"])
	if err != nil {
		h.handleServiceError(w, err, "find clients by surname")
		return
	}
	u.WriteJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.IsNotFound(err):
		u.WriteError(w, http.StatusNotFound, "cliente no encontrado", "")
	case errors.IsBusinessRule(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	case errors.IsValidationError(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	default:
		h.logger.Error("internal server error during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
