package service

import (
	"context"
	"log/slog"

	"github.com/codigo8a/fondo-back/internal/errors"
	"github.com/codigo8a/fondo-back/internal/models"
	"github.com/codigo8a/fondo-back/internal/repository"
)

type ClientService interface {
	List(ctx context.Context) ([]*models.Client, error)
	Get(ctx context.Context, id string) (*models.Client, error)
	Create(ctx context.Context, req *models.CreateClientRequest) (*models.Client, error)
	Update(ctx context.Context, id string, client *models.Client) (*models.Client, error)
	UpdateMonto(ctx context.Context, id string, monto float64) (*models.Client, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	FindByCiudad(ctx context.Context, ciudad string) ([]*models.Client, error)
	FindByNombre(ctx context.Context, nombre string) ([]*models.Client, error)
	FindByApellidos(ctx context.Context, apellidos string) ([]*models.Client, error)
}

type ClientServiceImpl struct {
	clientRepo repository.ClientRepository
	logger     *slog.Logger
}

func NewClientService(clientRepo repository.ClientRepository, logger *slog.Logger) *ClientServiceImpl {
	return &ClientServiceImpl{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

func (s *ClientServiceImpl) List(ctx context.Context) ([]*models.Client, error) {
	return s.clientRepo.List(ctx)
}

func (s *ClientServiceImpl) Get(ctx context.Context, id string) (*models.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

func (s *ClientServiceImpl) Create(ctx context.Context, req *models.CreateClientRequest) (*models.Client, error) {
	if err := validateClientFields(req.Nombre, req.Apellidos, req.Ciudad, req.Monto); err != nil {
		s.logger.Warn("invalid create client request", "error", err.Error())
		return nil, err
	}

	client := &models.Client{
		Nombre:    req.Nombre,
		Apellidos: req.Apellidos,
		Ciudad:    req.Ciudad,
		Monto:     req.Monto,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		s.logger.Error("failed to create client", "error", err.Error())
		return nil, err
	}

	s.logger.Info("client created successfully", "client_id", client.ID)
	return client, nil
}

func (s *ClientServiceImpl) Update(ctx context.Context, id string, client *models.Client) (*models.Client, error) {
	if err := validateClientFields(client.Nombre, client.Apellidos, client.Ciudad, client.Monto); err != nil {
		s.logger.Warn("invalid update client request", "client_id", id, "error", err.Error())
		return nil, err
	}

	existing, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Nombre = client.Nombre
	existing.Apellidos = client.Apellidos
	existing.Ciudad = client.Ciudad
	existing.Monto = client.Monto

	if err := s.clientRepo.Update(ctx, existing); err != nil {
		s.logger.Error("failed to update client", "client_id", id, "error", err.Error())
		return nil, err
	}
	return existing, nil
}

func (s *ClientServiceImpl) UpdateMonto(ctx context.Context, id string, monto float64) (*models.Client, error) {
	if monto < 0 {
		return nil, errors.ErrNegativeAmount
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	client.Monto = monto
	if err := s.clientRepo.Update(ctx, client); err != nil {
		s.logger.Error("failed to update client balance", "client_id", id, "error", err.Error())
		return nil, err
	}

	s.logger.Info("client balance updated", "client_id", id, "monto", monto)
	return client, nil
}

func (s *ClientServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Error("failed to delete client", "client_id", id, "error", err.Error())
		}
		return err
	}

	s.logger.Info("client deleted", "client_id", id)
	return nil
}

func (s *ClientServiceImpl) Exists(ctx context.Context, id string) (bool, error) {
	return s.clientRepo.Exists(ctx, id)
}

func (s *ClientServiceImpl) FindByCiudad(ctx context.Context, ciudad string) ([]*models.Client, error) {
	return s.clientRepo.FindByCiudad(ctx, ciudad)
}

func (s *ClientServiceImpl) FindByNombre(ctx context.Context, nombre string) ([]*models.Client, error) {
	return s.clientRepo.FindByNombre(ctx, nombre)
}

func (s *ClientServiceImpl) FindByApellidos(ctx context.Context, apellidos string) ([]*models.Client, error) {
	return s.clientRepo.FindByApellidos(ctx, apellidos)
}

func validateClientFields(nombre, apellidos, ciudad string, monto float64) error {
	if nombre == "" {
		return errors.NewValidationError("nombre", "must be non-empty")
	}
	if apellidos == "" {
		return errors.NewValidationError("apellidos", "must be non-empty")
	}
	if ciudad == "" {
		return errors.NewValidationError("ciudad", "must be non-empty")
	}
	if monto < 0 {
		return errors.ErrNegativeAmount
	}
	return nil
}
