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

type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
	logger            *slog.Logger
}

func NewEnrollmentHandler(enrollmentService service.EnrollmentService, logger *slog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

func (h *EnrollmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/inscripcion", h.List).Methods(http.MethodGet)
	router.HandleFunc("/api/inscripcion", h.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/inscripcion/cliente/{idCliente}/completo", h.FindByClientWithProduct).Methods(http.MethodGet)
	router.HandleFunc("/api/inscripcion/cliente/{idCliente}", h.FindByClient).Methods(http.MethodGet)
	router.HandleFunc("/api/inscripcion/producto/{idProducto}", h.FindByProduct).Methods(http.MethodGet)
	router.HandleFunc("/api/inscripcion/fecha", h.FindByDateRange).Methods(http.MethodGet)
	router.HandleFunc("/api/inscripcion/existe/{id}", h.Exists).Methods(http.MethodGet)
	router.HandleFunc("/api/inscripcion/{id}", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/inscripcion/{id}", h.Update).Methods(http.MethodPut)
	router.HandleFunc("/api/inscripcion/{id}", h.Delete).Methods(http.MethodDelete)
}

func (h *EnrollmentHandler) List(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.enrollmentService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list enrollments")
		return
	}
	u.WriteJSON(w, http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	enrollment, err := h.enrollmentService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleServiceError(w, err, "get enrollment")
		return
	}
	u.WriteJSON(w, http.StatusOK, enrollment)
}

func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create enrollment request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	enrollment, err := h.enrollmentService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create enrollment")
		return
	}
	u.WriteJSON(w, http.StatusCreated, enrollment)
}

func (h *EnrollmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var enrollment models.Enrollment
	if err := json.NewDecoder(r.Body).Decode(&enrollment); err != nil {
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	updated, err := h.enrollmentService.Update(r.Context(), id, &enrollment)
	if err != nil {
		h.handleServiceError(w, err, "update enrollment")
		return
	}
	u.WriteJSON(w, http.StatusOK, updated)
}

func (h *EnrollmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.enrollmentService.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleServiceError(w, err, "delete enrollment")
		return
	}
	if !deleted {
		u.WriteError(w, http.StatusNotFound, "inscripción no encontrada", "")
		return
	}
	u.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *EnrollmentHandler) Exists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.enrollmentService.Exists(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleServiceError(w, err, "check enrollment existence")
		return
	}
	u.WriteJSON(w, http.StatusOK, models.ExistsResponse{Existe: exists})
}

func (h *EnrollmentHandler) FindByClient(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.enrollmentService.FindByClient(r.Context(), mux.Vars(r)["idCliente"])
	if err != nil {
		h.handleServiceError(w, err, "find enrollments by client")
		return
	}
	u.WriteJSON(w, http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) FindByClientWithProduct(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.enrollmentService.FindByClientWithProduct(r.Context(), mux.Vars(r)["idCliente"])
	if err != nil {
		h.handleServiceError(w, err, "find enrollments with product detail")
		return
	}
	u.WriteJSON(w, http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) FindByProduct(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.enrollmentService.FindByProduct(r.Context(), mux.Vars(r)["idProducto"])
	if err != nil {
		h.handleServiceError(w, err, "find enrollments by product")
		return
	}
	u.WriteJSON(w, http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) FindByDateRange(w http.ResponseWriter, r *http.Request) {
	desde, err := u.ParseDateTime(r.URL.Query().Get("fechaInicio"))
	if err != nil {
		u.WriteError(w, http.StatusBadRequest, "invalid fechaInicio", err.Error())
		return
	}
	hasta, err := u.ParseDateTime(r.URL.Query().Get("fechaFin"))
	if err != nil {
		u.WriteError(w, http.StatusBadRequest, "invalid fechaFin", err.Error())
		return
	}

	enrollments, err := h.enrollmentService.FindByDateRange(r.Context(), desde, hasta)
	if err != nil {
		h.handleServiceError(w, err, "find enrollments by date range")
		return
	}
	u.WriteJSON(w, http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.IsDuplicateEnrollment(err):
		u.WriteError(w, http.StatusConflict, "inscripción duplicada", err.Error())
	case errors.IsNotFound(err):
		// For creation, a missing product is a rejected request, not a 404;
		// the service only surfaces NotFound here for lookups by id.
		if operation == "create enrollment" {
			u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
			return
		}
		u.WriteError(w, http.StatusNotFound, "no encontrado", err.Error())
	case errors.IsBusinessRule(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	case errors.IsValidationError(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	default:
		h.logger.Error("internal server error during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
