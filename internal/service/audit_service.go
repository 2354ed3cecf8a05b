package service

import (
	"context"
	"time"

	"github.com/codigo8a/fondo-back/internal/models"
	"github.com/codigo8a/fondo-back/internal/repository"
)

// AuditService is a read-only façade over the audit log. The only writer is
// the enrollment workflow.
type AuditService interface {
	List(ctx context.Context) ([]*models.LogEntry, error)
	FindByTipoOperacion(ctx context.Context, tipoOperacion string) ([]*models.LogEntry, error)
	FindByEntidadID(ctx context.Context, entidadID string) ([]*models.LogEntry, error)
	FindByTipoEntidad(ctx context.Context, tipoEntidad string) ([]*models.LogEntry, error)
	FindByCliente(ctx context.Context, idCliente string) ([]*models.LogEntry, error)
	FindByClienteAndOperacion(ctx context.Context, idCliente, tipoOperacion string) ([]*models.LogEntry, error)
	FindByDateRange(ctx context.Context, desde, hasta time.Time) ([]*models.LogEntry, error)
	FindByClienteAndDateRange(ctx context.Context, idCliente string, desde, hasta time.Time) ([]*models.LogEntry, error)
	FindEnrollmentLogs(ctx context.Context) ([]*models.LogEntry, error)
}

type AuditServiceImpl struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) *AuditServiceImpl {
	return &AuditServiceImpl{auditRepo: auditRepo}
}

func (s *AuditServiceImpl) List(ctx context.Context) ([]*models.LogEntry, error) {
	return s.auditRepo.List(ctx)
}

func (s *AuditServiceImpl) FindByTipoOperacion(ctx context.Context, tipoOperacion string) ([]*models.LogEntry, error) {
	return s.auditRepo.FindByTipoOperacion(ctx, tipoOperacion)
}

func (s *AuditServiceImpl) FindByEntidadID(ctx context.Context, entidadID string) ([]*models.LogEntry, error) {
	return s.auditRepo.FindByEntidadID(ctx, entidadID)
}

func (s *AuditServiceImpl) FindByTipoEntidad(ctx context.Context, tipoEntidad string) ([]*models.LogEntry, error) {
	return s.auditRepo.FindByTipoEntidad(ctx, tipoEntidad)
}

func (s *AuditServiceImpl) FindByCliente(ctx context.Context, idCliente string) ([]*models.LogEntry, error) {
	return s.auditRepo.FindByCliente(ctx, idCliente)
}

func (s *AuditServiceImpl) FindByClienteAndOperacion(ctx context.Context, idCliente, tipoOperacion string) ([]*models.LogEntry, error) {
	return s.auditRepo.FindByClienteAndOperacion(ctx, idCliente, tipoOperacion)
}

func (s *AuditServiceImpl) FindByDateRange(ctx context.Context, desde, hasta time.Time) ([]*models.LogEntry, error) {
	return s.auditRepo.FindByDateRange(ctx, desde, hasta)
}

func (s *AuditServiceImpl) FindByClienteAndDateRange(ctx context.Context, idCliente string, desde, hasta time.Time) ([]*models.LogEntry, error) {
	return s.auditRepo.FindByClienteAndDateRange(ctx, idCliente, desde, hasta)
}

func (s *AuditServiceImpl) FindEnrollmentLogs(ctx context.Context) ([]*models.LogEntry, error) {
	return s.auditRepo.FindByTipoEntidad(ctx, models.EntityTypeEnrollment)
}
