package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/codigo8a/fondo-back/internal/errors"
	"github.com/codigo8a/fondo-back/internal/models"
)

type ProductRepository interface {
	List(ctx context.Context) ([]*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
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

type PostgresProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

const productColumns = `id, nombre, tipo_producto, monto_minimo, disponible_en`

func (r *PostgresProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos ORDER BY nombre`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE id = $1`

	product := &models.Product{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&product.ID, &product.Nombre, &product.TipoProducto, &product.MontoMinimo,
			pq.Array(&product.DisponibleEn))

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}
	return product, nil
}

func (r *PostgresProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = uuid.New().String()

	query := `INSERT INTO productos (id, nombre, tipo_producto, monto_minimo, disponible_en)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query,
		product.ID, product.Nombre, product.TipoProducto, product.MontoMinimo,
		pq.Array(product.DisponibleEn),
	); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) Update(ctx context.Context, product *models.Product) error {
	query := `UPDATE productos SET nombre = $1, tipo_producto = $2, monto_minimo = $3, disponible_en = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		product.Nombre, product.TipoProducto, product.MontoMinimo,
		pq.Array(product.DisponibleEn), product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating product: %w", err)
	}
	if rowsAffected == 0 {
		return errors.ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting product: %w", err)
	}
	if rowsAffected == 0 {
		return errors.ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM productos WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if product exists: %w", err)
	}
	return exists, nil
}

func (r *PostgresProductRepository) ExistsByNombre(ctx context.Context, nombre string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM productos WHERE nombre = $1)`, nombre).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if product exists by name: %w", err)
	}
	return exists, nil
}

func (r *PostgresProductRepository) ExistsInBranch(ctx context.Context, idSucursal string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM productos WHERE $1 = ANY(disponible_en))`, idSucursal).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if any product is offered at branch: %w", err)
	}
	return exists, nil
}

func (r *PostgresProductRepository) FindByNombre(ctx context.Context, nombre string) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos
		WHERE nombre ILIKE '%' || $1 || '%' ORDER BY nombre`

	rows, err := r.db.QueryContext(ctx, query, nombre)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by name: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresProductRepository) FindByTipo(ctx context.Context, tipoProducto string) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos
		WHERE LOWER(tipo_producto) = LOWER($1) ORDER BY nombre`

	rows, err := r.db.QueryContext(ctx, query, tipoProducto)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by type: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresProductRepository) FindByMontoMinimoMax(ctx context.Context, montoMaximo float64) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos
		WHERE monto_minimo <= $1 ORDER BY monto_minimo`

	rows, err := r.db.QueryContext(ctx, query, montoMaximo)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by maximum entry amount: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresProductRepository) FindByBranch(ctx context.Context, idSucursal string) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos
		WHERE $1 = ANY(disponible_en) ORDER BY nombre`

	rows, err := r.db.QueryContext(ctx, query, idSucursal)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by branch: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresProductRepository) FindByTipoAndBranch(ctx context.Context, tipoProducto, idSucursal string) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos
		WHERE LOWER(tipo_producto) = LOWER($1) AND $2 = ANY(disponible_en) ORDER BY nombre`

	rows, err := r.db.QueryContext(ctx, query, tipoProducto, idSucursal)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by type and branch: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]*models.Product, error) {
	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Nombre, &product.TipoProducto,
			&product.MontoMinimo, pq.Array(&product.DisponibleEn)); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over products: %w", err)
	}
	return products, nil
}
