package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/codigo8a/fondo-back/internal/errors"
	"github.com/codigo8a/fondo-back/internal/models"
)

type ClientRepository interface {
	List(ctx context.Context) ([]*models.Client, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	FindByCiudad(ctx context.Context, ciudad string) ([]*models.Client, error)
	FindByNombre(ctx context.Context, nombre string) ([]*models.Client, error)
	FindByApellidos(ctx context.Context, apellidos string) ([]*models.Client, error)
}

type PostgresClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *PostgresClientRepository {
	return &PostgresClientRepository{db: db}
}

func (r *PostgresClientRepository) List(ctx context.Context) ([]*models.Client, error) {
	query := `SELECT id, nombre, apellidos, ciudad, monto FROM clientes ORDER BY nombre, apellidos`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

func (r *PostgresClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	query := `SELECT id, nombre, apellidos, ciudad, monto FROM clientes WHERE id = $1`

	client := &models.Client{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&client.ID, &client.Nombre, &client.Apellidos, &client.Ciudad, &client.Monto)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

// Create assigns a fresh ID; any caller-supplied ID is discarded.
func (r *PostgresClientRepository) Create(ctx context.Context, client *models.Client) error {
	client.ID = uuid.New().String()

	query := `INSERT INTO clientes (id, nombre, apellidos, ciudad, monto)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query,
		client.ID, client.Nombre, client.Apellidos, client.Ciudad, client.Monto,
	); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *PostgresClientRepository) Update(ctx context.Context, client *models.Client) error {
	query := `UPDATE clientes SET nombre = $1, apellidos = $2, ciudad = $3, monto = $4 WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		client.Nombre, client.Apellidos, client.Ciudad, client.Monto, client.ID)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating client: %w", err)
	}
	if rowsAffected == 0 {
		return errors.ErrClientNotFound
	}
	return nil
}

func (r *PostgresClientRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting client: %w", err)
	}
	if rowsAffected == 0 {
		return errors.ErrClientNotFound
	}
	return nil
}

func (r *PostgresClientRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM clientes WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if client exists: %w", err)
	}
	return exists, nil
}

func (r *PostgresClientRepository) FindByCiudad(ctx context.Context, ciudad string) ([]*models.Client, error) {
	query := `SELECT id, nombre, apellidos, ciudad, monto FROM clientes
		WHERE LOWER(ciudad) = LOWER($1) ORDER BY nombre, apellidos`

	rows, err := r.db.QueryContext(ctx, query, ciudad)
	if err != nil {
		return nil, fmt.Errorf("failed to find clients by city: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

func (r *PostgresClientRepository) FindByNombre(ctx context.Context, nombre string) ([]*models.Client, error) {
	query := `SELECT id, nombre, apellidos, ciudad, monto FROM clientes
		WHERE nombre ILIKE '%' || $1 || '%' ORDER BY nombre, apellidos`

	rows, err := r.db.QueryContext(ctx, query, nombre)
	if err != nil {
		return nil, fmt.Errorf("failed to find clients by name: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

func (r *PostgresClientRepository) FindByApellidos(ctx context.Context, apellidos string) ([]*models.Client, error) {
	query := `SELECT id, nombre, apellidos, ciudad, monto FROM clientes
		WHERE apellidos ILIKE '%' || $1 || '%' ORDER BY nombre, apellidos`

	rows, err := r.db.QueryContext(ctx, query, apellidos)
	if err != nil {
		return nil, fmt.Errorf("failed to find clients by surname: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

func scanClients(rows *sql.Rows) ([]*models.Client, error) {
	var clients []*models.Client
	for rows.Next() {
		client := &models.Client{}
		if err := rows.Scan(&client.ID, &client.Nombre, &client.Apellidos, &client.Ciudad, &client.Monto); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over clients: %w", err)
	}
	return clients, nil
}
