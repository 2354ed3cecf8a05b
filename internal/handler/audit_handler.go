package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/codigo8a/fondo-back/internal/models"
	"github.com/codigo8a/fondo-back/internal/service"
	u "github.com/codigo8a/fondo-back/internal/utils"
)

// AuditHandler exposes the read-only audit log queries. There is no write
// route; log entries only appear as side effects of enrollment operations.
type AuditHandler struct {
	auditService service.AuditService
	logger       *slog.Logger
}

func NewAuditHandler(auditService service.AuditService, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

func (h *AuditHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/log", h.List).Methods(http.MethodGet)
	router.HandleFunc("/api/log/inscripciones", h.FindEnrollmentLogs).Methods(http.MethodGet)
	router.HandleFunc("/api/log/tipo-operacion/{tipo}", h.FindByTipoOperacion).Methods(http.MethodGet)
	router.HandleFunc("/api/log/entidad/{entidadId}", h.FindByEntidadID).Methods(http.MethodGet)
	router.HandleFunc("/api/log/tipo-entidad/{tipo}", h.FindByTipoEntidad).Methods(http.MethodGet)
	router.HandleFunc("/api/log/cliente/{idCliente}/operacion/{tipo}", h.FindByClienteAndOperacion).Methods(http.MethodGet)
	router.HandleFunc("/api/log/cliente/{idCliente}/fecha", h.FindByClienteAndDateRange).Methods(http.MethodGet)
	router.HandleFunc("/api/log/cliente/{idCliente}", h.FindByCliente).Methods(http.MethodGet)
	router.HandleFunc("/api/log/fecha", h.FindByDateRange).Methods(http.MethodGet)
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.auditService.List(r.Context())
	h.respond(w, entries, err)
}

func (h *AuditHandler) FindEnrollmentLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.auditService.FindEnrollmentLogs(r.Context())
	h.respond(w, entries, err)
}

func (h *AuditHandler) FindByTipoOperacion(w http.ResponseWriter, r *http.Request) {
	entries, err := h.auditService.FindByTipoOperacion(r.Context(), mux.Vars(r)["tipo"])
	h.respond(w, entries, err)
}

func (h *AuditHandler) FindByEntidadID(w http.ResponseWriter, r *http.Request) {
	entries, err := h.auditService.FindByEntidadID(r.Context(), mux.Vars(r)["entidadId"])
	h.respond(w, entries, err)
}

func (h *AuditHandler) FindByTipoEntidad(w http.ResponseWriter, r *http.Request) {
	entries, err := h.auditService.FindByTipoEntidad(r.Context(), mux.Vars(r)["tipo"])
	h.respond(w, entries, err)
}

func (h *AuditHandler) FindByCliente(w http.ResponseWriter, r *http.Request) {
	entries, err := h.auditService.FindByCliente(r.Context(), mux.Vars(r)["idCliente"])
	h.respond(w, entries, err)
}

func (h *AuditHandler) FindByClienteAndOperacion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entries, err := h.auditService.FindByClienteAndOperacion(r.Context(), vars["idCliente"], vars["tipo"])
	h.respond(w, entries, err)
}

func (h *AuditHandler) FindByDateRange(w http.ResponseWriter, r *http.Request) {
	desde, hasta, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	entries, err := h.auditService.FindByDateRange(r.Context(), desde, hasta)
	h.respond(w, entries, err)
}

func (h *AuditHandler) FindByClienteAndDateRange(w http.ResponseWriter, r *http.Request) {
	desde, hasta, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	entries, err := h.auditService.FindByClienteAndDateRange(r.Context(), mux.Vars(r)["idCliente"], desde, hasta)
	h.respond(w, entries, err)
}

func (h *AuditHandler) parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	desde, err := u.ParseDateTime(r.URL.Query().Get("fechaInicio"))
	if err != nil {
		u.WriteError(w, http.StatusBadRequest, "invalid fechaInicio", err.Error())
		return time.Time{}, time.Time{}, false
	}
	hasta, err := u.ParseDateTime(r.URL.Query().Get("fechaFin"))
	if err != nil {
		u.WriteError(w, http.StatusBadRequest, "invalid fechaFin", err.Error())
		return time.Time{}, time.Time{}, false
	}
	return desde, hasta, true
}

func (h *AuditHandler) respond(w http.ResponseWriter, entries []*models.LogEntry, err error) {
	if err != nil {
		h.logger.Error("failed to query audit logs", "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}
	u.WriteJSON(w, http.StatusOK, entries)
}
