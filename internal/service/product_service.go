package service

import (
	"context"
	"log/slog"

	"github.com/codigo8a/fondo-back/internal/errors"
	"github.com/codigo8a/fondo-back/internal/models"
	"github.com/codigo8a/fondo-back/internal/repository"
)

type ProductService interface {
	List(ctx context.Context) ([]*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	Update(ctx context.Context, id string, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	ExistsByNombre(ctx context.Context, nombre string) (bool, error)
	ExistsInBranch(ctx context.Context, idSucursal string) (bool, error)
	FindByNombre(ctx context.Context, nombre string) ([]*models.Product, error)
	FindByTipo(ctx context.Context, tipoProducto string) ([]*models.Product, error)
	FindByMontoMinimoMax(ctx context.Context, montoMaximo float64) ([]*models.Product, error)
	FindByBranch(ctx context.Context, idSucursal string) ([]*models.Product, error)
	FindByTipoAndBranch(ctx context.Context, tipoProducto, idSucursal string) ([]*models.Product, error)
}

type ProductServiceImpl struct {
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

func NewProductService(productRepo repository.ProductRepository, logger *slog.Logger) *ProductServiceImpl {
	return &ProductServiceImpl{
		productRepo: productRepo,
		logger:      logger,
	}
}

func (s *ProductServiceImpl) List(ctx context.Context) ([]*models.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *ProductServiceImpl) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *ProductServiceImpl) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if err := validateProductFields(req.Nombre, req.TipoProducto, req.MontoMinimo, req.DisponibleEn); err != nil {
		s.logger.Warn("invalid create product request", "error", err.Error())
		return nil, err
	}

	product := &models.Product{
		Nombre:       req.Nombre,
		TipoProducto: req.TipoProducto,
		MontoMinimo:  req.MontoMinimo,
		DisponibleEn: req.DisponibleEn,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error("failed to create product", "error", err.Error())
		return nil, err
	}

	s.logger.Info("product created successfully", "product_id", product.ID)
	return product, nil
}

func (s *ProductServiceImpl) Update(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	if err := validateProductFields(product.Nombre, product.TipoProducto, product.MontoMinimo, product.DisponibleEn); err != nil {
		s.logger.Warn("invalid update product request", "product_id", id, "error", err.Error())
		return nil, err
	}

	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Nombre = product.Nombre
	existing.TipoProducto = product.TipoProducto
	existing.MontoMinimo = product.MontoMinimo
	existing.DisponibleEn = product.DisponibleEn

	if err := s.productRepo.Update(ctx, existing); err != nil {
		s.logger.Error("failed to update product", "product_id", id, "error", err.Error())
		return nil, err
	}
	return existing, nil
}

// Delete does not retract enrollments referencing the product; readers of
// those enrollments tolerate the dangling reference.
func (s *ProductServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Error("failed to delete product", "product_id", id, "error", err.Error())
		}
		return err
	}

	s.logger.Info("product deleted", "product_id", id)
	return nil
}

func (s *ProductServiceImpl) Exists(ctx context.Context, id string) (bool, error) {
	return s.productRepo.Exists(ctx, id)
}

func (s *ProductServiceImpl) ExistsByNombre(ctx context.Context, nombre string) (bool, error) {
	return s.productRepo.ExistsByNombre(ctx, nombre)
}

func (s *ProductServiceImpl) ExistsInBranch(ctx context.Context, idSucursal string) (bool, error) {
	return s.productRepo.ExistsInBranch(ctx, idSucursal)
}

func (s *ProductServiceImpl) FindByNombre(ctx context.Context, nombre string) ([]*models.Product, error) {
	return s.productRepo.FindByNombre(ctx, nombre)
}

func (s *ProductServiceImpl) FindByTipo(ctx context.Context, tipoProducto string) ([]*models.Product, error) {
	return s.productRepo.FindByTipo(ctx, tipoProducto)
}

func (s *ProductServiceImpl) FindByMontoMinimoMax(ctx context.Context, montoMaximo float64) ([]*models.Product, error) {
	return s.productRepo.FindByMontoMinimoMax(ctx, montoMaximo)
}

func (s *ProductServiceImpl) FindByBranch(ctx context.Context, idSucursal string) ([]*models.Product, error) {
	return s.productRepo.FindByBranch(ctx, idSucursal)
}

func (s *ProductServiceImpl) FindByTipoAndBranch(ctx context.Context, tipoProducto, idSucursal string) ([]*models.Product, error) {
	return s.productRepo.FindByTipoAndBranch(ctx, tipoProducto, idSucursal)
}

func validateProductFields(nombre, tipoProducto string, montoMinimo float64, disponibleEn []string) error {
	if nombre == "" {
		return errors.NewValidationError("nombre", "must be non-empty")
	}
	if tipoProducto == "" {
		return errors.NewValidationError("tipoProducto", "must be non-empty")
	}
	if montoMinimo <= 0 {
		return errors.ErrInvalidAmount
	}
	if len(disponibleEn) == 0 {
		return errors.ErrNoBranches
	}
	return nil
}
