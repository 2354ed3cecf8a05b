package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/codigo8a/fondo-back/internal/errors"
	"github.com/codigo8a/fondo-back/internal/metrics"
	"github.com/codigo8a/fondo-back/internal/models"
	"github.com/codigo8a/fondo-back/internal/repository"
)

type EnrollmentService interface {
	List(ctx context.Context) ([]*models.Enrollment, error)
	Get(ctx context.Context, id string) (*models.Enrollment, error)
	Create(ctx context.Context, req *models.CreateEnrollmentRequest) (*models.Enrollment, error)
	Update(ctx context.Context, id string, enrollment *models.Enrollment) (*models.Enrollment, error)
	Delete(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
	FindByClient(ctx context.Context, idCliente string) ([]*models.Enrollment, error)
	FindByClientWithProduct(ctx context.Context, idCliente string) ([]*models.EnrollmentWithProduct, error)
	FindByProduct(ctx context.Context, idProducto string) ([]*models.Enrollment, error)
	FindByClientAndProduct(ctx context.Context, idCliente, idProducto string) ([]*models.Enrollment, error)
	FindByDateRange(ctx context.Context, desde, hasta time.Time) ([]*models.Enrollment, error)
}

type EnrollmentServiceImpl struct {
	enrollmentRepo repository.EnrollmentRepository
	productRepo    repository.ProductRepository
	branchRepo     repository.BranchRepository
	auditRepo      repository.AuditRepository
	logger         *slog.Logger
	now            func() time.Time
}

func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	auditRepo repository.AuditRepository,
	logger *slog.Logger,
) *EnrollmentServiceImpl {
	return &EnrollmentServiceImpl{
		enrollmentRepo: enrollmentRepo,
		productRepo:    productRepo,
		branchRepo:     branchRepo,
		auditRepo:      auditRepo,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *EnrollmentServiceImpl) List(ctx context.Context) ([]*models.Enrollment, error) {
	return s.enrollmentRepo.List(ctx)
}

func (s *EnrollmentServiceImpl) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	return s.enrollmentRepo.GetByID(ctx, id)
}

// Create validates and persists a new enrollment, then records an audit
// entry. All three checks (product exists, offered at branch, no duplicate)
// must pass before anything is written. The audit write is fire-and-forget:
// its failure never rolls back the enrollment.
func (s *EnrollmentServiceImpl) Create(ctx context.Context, req *models.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validateCreateRequest(req); err != nil {
		s.logger.Warn("invalid create enrollment request",
			"client_id", req.IDCliente,
			"product_id", req.IDProducto,
			"error", err.Error(),
		)
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, req.IDProducto)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("enrollment rejected, product not found",
				"product_id", req.IDProducto,
			)
			return nil, err
		}
		s.logger.Error("failed to get product for enrollment",
			"product_id", req.IDProducto,
			"error", err.Error(),
		)
		return nil, err
	}

	if !offeredAt(product, req.IDSucursal) {
		s.logger.Warn("enrollment rejected, product not offered at branch",
			"product_id", req.IDProducto,
			"branch_id", req.IDSucursal,
		)
		return nil, errors.ErrProductNotAvailable
	}

	existing, err := s.enrollmentRepo.FindByClientAndProduct(ctx, req.IDCliente, req.IDProducto)
	if err != nil {
		s.logger.Error("failed to check for duplicate enrollment",
			"client_id", req.IDCliente,
			"product_id", req.IDProducto,
			"error", err.Error(),
		)
		return nil, err
	}
	if len(existing) > 0 {
		s.logger.Warn("enrollment rejected, client already enrolled in product",
			"client_id", req.IDCliente,
			"product_id", req.IDProducto,
		)
		return nil, errors.ErrDuplicateEnrollment
	}

	enrollment := &models.Enrollment{
		IDCliente:      req.IDCliente,
		IDProducto:     req.IDProducto,
		IDSucursal:     req.IDSucursal,
		MontoInvertido: req.MontoInvertido,
	}
	if req.FechaTransaccion != nil {
		enrollment.FechaTransaccion = *req.FechaTransaccion
	} else {
		enrollment.FechaTransaccion = s.now()
	}

	// The unique index still guards the race between the duplicate check
	// above and this insert.
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		if errors.IsDuplicateEnrollment(err) {
			s.logger.Warn("enrollment rejected by uniqueness constraint",
				"client_id", req.IDCliente,
				"product_id", req.IDProducto,
			)
			return nil, err
		}
		s.logger.Error("failed to create enrollment",
			"client_id", req.IDCliente,
			"product_id", req.IDProducto,
			"error", err.Error(),
		)
		return nil, err
	}

	detail := fmt.Sprintf("Inscripción creada: producto %s, sucursal %s, monto %.2f",
		enrollment.IDProducto, enrollment.IDSucursal, enrollment.MontoInvertido)
	s.writeAuditLog(ctx, models.OperationCreateEnrollment, enrollment.ID, &enrollment.IDCliente, detail)

	s.logger.Info("enrollment created successfully",
		"enrollment_id", enrollment.ID,
		"client_id", enrollment.IDCliente,
		"product_id", enrollment.IDProducto,
	)
	return enrollment, nil
}

func (s *EnrollmentServiceImpl) Update(ctx context.Context, id string, enrollment *models.Enrollment) (*models.Enrollment, error) {
	existing, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.IDCliente = enrollment.IDCliente
	existing.IDProducto = enrollment.IDProducto
	existing.IDSucursal = enrollment.IDSucursal
	existing.MontoInvertido = enrollment.MontoInvertido
	existing.FechaTransaccion = enrollment.FechaTransaccion

	if err := s.enrollmentRepo.Update(ctx, existing); err != nil {
		s.logger.Error("failed to update enrollment",
			"enrollment_id", id,
			"error", err.Error(),
		)
		return nil, err
	}
	return existing, nil
}

// Delete removes an enrollment and records what was removed. A missing id is
// reported as false, not an error. If the enrollment vanishes between the
// existence check and the fetch for audit detail (a benign race), the
// deletion is still acknowledged and the log entry carries no client id.
func (s *EnrollmentServiceImpl) Delete(ctx context.Context, id string) (bool, error) {
	exists, err := s.enrollmentRepo.Exists(ctx, id)
	if err != nil {
		s.logger.Error("failed to check enrollment existence",
			"enrollment_id", id,
			"error", err.Error(),
		)
		return false, err
	}
	if !exists {
		return false, nil
	}

	var idCliente *string
	detail := "Inscripción eliminada"

	enrollment, err := s.enrollmentRepo.GetByID(ctx, id)
	if err == nil {
		idCliente = &enrollment.IDCliente
		detail = fmt.Sprintf("Inscripción eliminada: producto %s, sucursal %s, monto %.2f",
			enrollment.IDProducto, enrollment.IDSucursal, enrollment.MontoInvertido)
	} else if !errors.IsNotFound(err) {
		s.logger.Error("failed to fetch enrollment for audit detail",
			"enrollment_id", id,
			"error", err.Error(),
		)
		return false, err
	}

	if err := s.enrollmentRepo.Delete(ctx, id); err != nil {
		if errors.IsNotFound(err) {
			return false, nil
		}
		s.logger.Error("failed to delete enrollment",
			"enrollment_id", id,
			"error", err.Error(),
		)
		return false, err
	}

	s.writeAuditLog(ctx, models.OperationDeleteEnrollment, id, idCliente, detail)

	s.logger.Info("enrollment deleted successfully",
		"enrollment_id", id,
	)
	return true, nil
}

func (s *EnrollmentServiceImpl) Exists(ctx context.Context, id string) (bool, error) {
	return s.enrollmentRepo.Exists(ctx, id)
}

func (s *EnrollmentServiceImpl) FindByClient(ctx context.Context, idCliente string) ([]*models.Enrollment, error) {
	return s.enrollmentRepo.FindByClient(ctx, idCliente)
}

// FindByClientWithProduct joins each enrollment with its product and the
// product's branches. References broken by a later product or branch
// deletion degrade the record instead of failing it: the product comes back
// nil, missing branches are skipped.
func (s *EnrollmentServiceImpl) FindByClientWithProduct(ctx context.Context, idCliente string) ([]*models.EnrollmentWithProduct, error) {
	enrollments, err := s.enrollmentRepo.FindByClient(ctx, idCliente)
	if err != nil {
		return nil, err
	}

	result := make([]*models.EnrollmentWithProduct, 0, len(enrollments))
	for _, enrollment := range enrollments {
		entry := &models.EnrollmentWithProduct{
			ID:               enrollment.ID,
			IDCliente:        enrollment.IDCliente,
			IDProducto:       enrollment.IDProducto,
			IDSucursal:       enrollment.IDSucursal,
			MontoInvertido:   enrollment.MontoInvertido,
			FechaTransaccion: enrollment.FechaTransaccion,
		}

		product, err := s.productRepo.GetByID(ctx, enrollment.IDProducto)
		if err != nil {
			if !errors.IsNotFound(err) {
				return nil, err
			}
			s.logger.Warn("enrollment references missing product",
				"enrollment_id", enrollment.ID,
				"product_id", enrollment.IDProducto,
			)
			result = append(result, entry)
			continue
		}

		detail := &models.ProductWithBranches{
			ID:           product.ID,
			Nombre:       product.Nombre,
			TipoProducto: product.TipoProducto,
			MontoMinimo:  product.MontoMinimo,
			DisponibleEn: make([]*models.Branch, 0, len(product.DisponibleEn)),
		}
		for _, idSucursal := range product.DisponibleEn {
			branch, err := s.branchRepo.GetByID(ctx, idSucursal)
			if err != nil {
				if !errors.IsNotFound(err) {
					return nil, err
				}
				continue
			}
			detail.DisponibleEn = append(detail.DisponibleEn, branch)
		}

		entry.Producto = detail
		result = append(result, entry)
	}
	return result, nil
}

func (s *EnrollmentServiceImpl) FindByProduct(ctx context.Context, idProducto string) ([]*models.Enrollment, error) {
	return s.enrollmentRepo.FindByProduct(ctx, idProducto)
}

func (s *EnrollmentServiceImpl) FindByClientAndProduct(ctx context.Context, idCliente, idProducto string) ([]*models.Enrollment, error) {
	return s.enrollmentRepo.FindByClientAndProduct(ctx, idCliente, idProducto)
}

func (s *EnrollmentServiceImpl) FindByDateRange(ctx context.Context, desde, hasta time.Time) ([]*models.Enrollment, error) {
	return s.enrollmentRepo.FindByDateRange(ctx, desde, hasta)
}

func (s *EnrollmentServiceImpl) validateCreateRequest(req *models.CreateEnrollmentRequest) error {
	if req.IDCliente == "" {
		return errors.NewValidationError("idCliente", "must be non-empty")
	}
	if req.IDProducto == "" {
		return errors.NewValidationError("idProducto", "must be non-empty")
	}
	if req.IDSucursal == "" {
		return errors.NewValidationError("idSucursal", "must be non-empty")
	}
	if req.MontoInvertido <= 0 {
		return errors.ErrInvalidAmount
	}
	return nil
}

// writeAuditLog appends an audit entry for an already-committed mutation.
// A failure here leaves the primary operation intact; it is logged and
// counted so the surrounding system can alert on the missing trail.
func (s *EnrollmentServiceImpl) writeAuditLog(ctx context.Context, tipoOperacion, entidadID string, idCliente *string, detalles string) {
	entry := &models.LogEntry{
		TipoOperacion:   tipoOperacion,
		EntidadID:       entidadID,
		TipoEntidad:     models.EntityTypeEnrollment,
		IDCliente:       idCliente,
		Detalles:        detalles,
		FechaMovimiento: s.now(),
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		metrics.AuditWriteFailures.Inc()
		s.logger.Error("failed to create audit log",
			"operation", tipoOperacion,
			"entity_id", entidadID,
			"error", err.Error(),
		)
	}
}

func offeredAt(product *models.Product, idSucursal string) bool {
	for _, id := range product.DisponibleEn {
		if id == idSucursal {
			return true
		}
	}
	return false
}
