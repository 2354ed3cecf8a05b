package service

import (
	"context"
	"log/slog"

	"github.com/codigo8a/fondo-back/internal/errors"
	"github.com/codigo8a/fondo-back/internal/models"
	"github.com/codigo8a/fondo-back/internal/repository"
)

type BranchService interface {
	List(ctx context.Context) ([]*models.Branch, error)
	Get(ctx context.Context, id string) (*models.Branch, error)
	Create(ctx context.Context, req *models.CreateBranchRequest) (*models.Branch, error)
	Update(ctx context.Context, id string, branch *models.Branch) (*models.Branch, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	ExistsByNombre(ctx context.Context, nombre string) (bool, error)
	ExistsInCiudad(ctx context.Context, ciudad string) (bool, error)
	FindByNombre(ctx context.Context, nombre string) ([]*models.Branch, error)
	FindByCiudad(ctx context.Context, ciudad string) ([]*models.Branch, error)
}

type BranchServiceImpl struct {
	branchRepo repository.BranchRepository
	logger     *slog.Logger
}

func NewBranchService(branchRepo repository.BranchRepository, logger *slog.Logger) *BranchServiceImpl {
	return &BranchServiceImpl{
		branchRepo: branchRepo,
		logger:     logger,
	}
}

func (s *BranchServiceImpl) List(ctx context.Context) ([]*models.Branch, error) {
	return s.branchRepo.List(ctx)
}

func (s *BranchServiceImpl) Get(ctx context.Context, id string) (*models.Branch, error) {
	return s.branchRepo.GetByID(ctx, id)
}

func (s *BranchServiceImpl) Create(ctx context.Context, req *models.CreateBranchRequest) (*models.Branch, error) {
	if req.Nombre == "" {
		return nil, errors.NewValidationError("nombre", "must be non-empty")
	}
	if req.Ciudad == "" {
		return nil, errors.NewValidationError("ciudad", "must be non-empty")
	}

	branch := &models.Branch{
		Nombre: req.Nombre,
		Ciudad: req.Ciudad,
	}

	if err := s.branchRepo.Create(ctx, branch); err != nil {
		s.logger.Error("failed to create branch", "error", err.Error())
		return nil, err
	}

	s.logger.Info("branch created successfully", "branch_id", branch.ID)
	return branch, nil
}

func (s *BranchServiceImpl) Update(ctx context.Context, id string, branch *models.Branch) (*models.Branch, error) {
	if branch.Nombre == "" {
		return nil, errors.NewValidationError("nombre", "must be non-empty")
	}
	if branch.Ciudad == "" {
		return nil, errors.NewValidationError("ciudad", "must be non-empty")
	}

	existing, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Nombre = branch.Nombre
	existing.Ciudad = branch.Ciudad

	if err := s.branchRepo.Update(ctx, existing); err != nil {
		s.logger.Error("failed to update branch", "branch_id", id, "error", err.Error())
		return nil, err
	}
	return existing, nil
}

func (s *BranchServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.branchRepo.Delete(ctx, id); err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Error("failed to delete branch", "branch_id", id, "error", err.Error())
		}
		return err
	}

	s.logger.Info("branch deleted", "branch_id", id)
	return nil
}

func (s *BranchServiceImpl) Exists(ctx context.Context, id string) (bool, error) {
	return s.branchRepo.Exists(ctx, id)
}

func (s *BranchServiceImpl) ExistsByNombre(ctx context.Context, nombre string) (bool, error) {
	return s.branchRepo.ExistsByNombre(ctx, nombre)
}

func (s *BranchServiceImpl) ExistsInCiudad(ctx context.Context, ciudad string) (bool, error) {
	return s.branchRepo.ExistsInCiudad(ctx, ciudad)
}

func (s *BranchServiceImpl) FindByNombre(ctx context.Context, nombre string) ([]*models.Branch, error) {
	return s.branchRepo.FindByNombre(ctx, nombre)
}

func (s *BranchServiceImpl) FindByCiudad(ctx context.Context, ciudad string) ([]*models.Branch, error) {
	return s.branchRepo.FindByCiudad(ctx, ciudad)
}
