package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/codigo8a/fondo-back/internal/errors"
	"github.com/codigo8a/fondo-back/internal/models"
)

type BranchRepository interface {
	List(ctx context.Context) ([]*models.Branch, error)
	GetByID(ctx context.Context, id string) (*models.Branch, error)
	Create(ctx context.Context, branch *models.Branch) error
	Update(ctx context.Context, branch *models.Branch) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	ExistsByNombre(ctx context.Context, nombre string) (bool, error)
	ExistsInCiudad(ctx context.Context, ciudad string) (bool, error)
	FindByNombre(ctx context.Context, nombre string) ([]*models.Branch, error)
	FindByCiudad(ctx context.Context, ciudad string) ([]*models.Branch, error)
}

type PostgresBranchRepository struct {
	db *sql.DB
}

func NewBranchRepository(db *sql.DB) *PostgresBranchRepository {
	return &PostgresBranchRepository{db: db}
}

func (r *PostgresBranchRepository) List(ctx context.Context) ([]*models.Branch, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, nombre, ciudad FROM sucursales ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	return scanBranches(rows)
}

func (r *PostgresBranchRepository) GetByID(ctx context.Context, id string) (*models.Branch, error) {
	branch := &models.Branch{}
	err := r.db.QueryRowContext(ctx, `SELECT id, nombre, ciudad FROM sucursales WHERE id = $1`, id).
		Scan(&branch.ID, &branch.Nombre, &branch.Ciudad)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrBranchNotFound
		}
		return nil, fmt.Errorf("failed to get branch by ID: %w", err)
	}
	return branch, nil
}

func (r *PostgresBranchRepository) Create(ctx context.Context, branch *models.Branch) error {
	branch.ID = uuid.New().String()

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO sucursales (id, nombre, ciudad) VALUES ($1, $2, $3)`,
		branch.ID, branch.Nombre, branch.Ciudad,
	); err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

func (r *PostgresBranchRepository) Update(ctx context.Context, branch *models.Branch) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sucursales SET nombre = $1, ciudad = $2 WHERE id = $3`,
		branch.Nombre, branch.Ciudad, branch.ID)
	if err != nil {
		return fmt.Errorf("failed to update branch: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating branch: %w", err)
	}
	if rowsAffected == 0 {
		return errors.ErrBranchNotFound
	}
	return nil
}

func (r *PostgresBranchRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sucursales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete branch: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting branch: %w", err)
	}
	if rowsAffected == 0 {
		return errors.ErrBranchNotFound
	}
	return nil
}

func (r *PostgresBranchRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM sucursales WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if branch exists: %w", err)
	}
	return exists, nil
}

func (r *PostgresBranchRepository) ExistsByNombre(ctx context.Context, nombre string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM sucursales WHERE nombre = $1)`, nombre).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if branch exists by name: %w", err)
	}
	return exists, nil
}

func (r *PostgresBranchRepository) ExistsInCiudad(ctx context.Context, ciudad string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM sucursales WHERE LOWER(ciudad) = LOWER($1))`, ciudad).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if any branch exists in city: %w", err)
	}
	return exists, nil
}

func (r *PostgresBranchRepository) FindByNombre(ctx context.Context, nombre string) ([]*models.Branch, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nombre, ciudad FROM sucursales WHERE nombre ILIKE '%' || $1 || '%' ORDER BY nombre`, nombre)
	if err != nil {
		return nil, fmt.Errorf("failed to find branches by name: %w", err)
	}
	defer rows.Close()

	return scanBranches(rows)
}

func (r *PostgresBranchRepository) FindByCiudad(ctx context.Context, ciudad string) ([]*models.Branch, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nombre, ciudad FROM sucursales WHERE LOWER(ciudad) = LOWER($1) ORDER BY nombre`, ciudad)
	if err != nil {
		return nil, fmt.Errorf("failed to find branches by city: %w", err)
	}
	defer rows.Close()

	return scanBranches(rows)
}

func scanBranches(rows *sql.Rows) ([]*models.Branch, error) {
	var branches []*models.Branch
	for rows.Next() {
		branch := &models.Branch{}
		if err := rows.Scan(&branch.ID, &branch.Nombre, &branch.Ciudad); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, branch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over branches: %w", err)
	}
	return branches, nil
}
