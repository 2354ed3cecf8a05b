package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/codigo8a/fondo-back/internal/errors"
	"github.com/codigo8a/fondo-back/internal/models"
)

type EnrollmentRepository interface {
	List(ctx context.Context) ([]*models.Enrollment, error)
	GetByID(ctx context.Context, id string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	FindByClient(ctx context.Context, idCliente string) ([]*models.Enrollment, error)
	FindByProduct(ctx context.Context, idProducto string) ([]*models.Enrollment, error)
	FindByClientAndProduct(ctx context.Context, idCliente, idProducto string) ([]*models.Enrollment, error)
	FindByDateRange(ctx context.Context, desde, hasta time.Time) ([]*models.Enrollment, error)
}

type PostgresEnrollmentRepository struct {
	db *sql.DB
}

func NewEnrollmentRepository(db *sql.DB) *PostgresEnrollmentRepository {
	return &PostgresEnrollmentRepository{db: db}
}

const enrollmentColumns = `id, id_cliente, id_producto, id_sucursal, monto_invertido, fecha_transaccion`

func (r *PostgresEnrollmentRepository) List(ctx context.Context) ([]*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM inscripciones ORDER BY fecha_transaccion DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	return scanEnrollments(rows)
}

func (r *PostgresEnrollmentRepository) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM inscripciones WHERE id = $1`

	enrollment := &models.Enrollment{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&enrollment.ID, &enrollment.IDCliente, &enrollment.IDProducto,
			&enrollment.IDSucursal, &enrollment.MontoInvertido, &enrollment.FechaTransaccion)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment by ID: %w", err)
	}
	return enrollment, nil
}

// Create assigns a fresh ID. The unique index on (id_cliente, id_producto)
// rejects a second enrollment for the same pair even under concurrent
// writers; that violation surfaces as ErrDuplicateEnrollment.
func (r *PostgresEnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = uuid.New().String()

	query := `INSERT INTO inscripciones (id, id_cliente, id_producto, id_sucursal, monto_invertido, fecha_transaccion)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.db.ExecContext(ctx, query,
		enrollment.ID, enrollment.IDCliente, enrollment.IDProducto,
		enrollment.IDSucursal, enrollment.MontoInvertido, enrollment.FechaTransaccion,
	); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return errors.ErrDuplicateEnrollment
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *PostgresEnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	query := `UPDATE inscripciones
		SET id_cliente = $1, id_producto = $2, id_sucursal = $3, monto_invertido = $4, fecha_transaccion = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		enrollment.IDCliente, enrollment.IDProducto, enrollment.IDSucursal,
		enrollment.MontoInvertido, enrollment.FechaTransaccion, enrollment.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return errors.ErrDuplicateEnrollment
		}
		return fmt.Errorf("failed to update enrollment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating enrollment: %w", err)
	}
	if rowsAffected == 0 {
		return errors.ErrEnrollmentNotFound
	}
	return nil
}

func (r *PostgresEnrollmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM inscripciones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting enrollment: %w", err)
	}
	if rowsAffected == 0 {
		return errors.ErrEnrollmentNotFound
	}
	return nil
}

func (r *PostgresEnrollmentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM inscripciones WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if enrollment exists: %w", err)
	}
	return exists, nil
}

func (r *PostgresEnrollmentRepository) FindByClient(ctx context.Context, idCliente string) ([]*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM inscripciones
		WHERE id_cliente = $1 ORDER BY fecha_transaccion DESC`

	rows, err := r.db.QueryContext(ctx, query, idCliente)
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollments by client: %w", err)
	}
	defer rows.Close()

	return scanEnrollments(rows)
}

func (r *PostgresEnrollmentRepository) FindByProduct(ctx context.Context, idProducto string) ([]*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM inscripciones
		WHERE id_producto = $1 ORDER BY fecha_transaccion DESC`

	rows, err := r.db.QueryContext(ctx, query, idProducto)
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollments by product: %w", err)
	}
	defer rows.Close()

	return scanEnrollments(rows)
}

func (r *PostgresEnrollmentRepository) FindByClientAndProduct(ctx context.Context, idCliente, idProducto string) ([]*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM inscripciones
		WHERE id_cliente = $1 AND id_producto = $2`

	rows, err := r.db.QueryContext(ctx, query, idCliente, idProducto)
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollments by client and product: %w", err)
	}
	defer rows.Close()

	return scanEnrollments(rows)
}

func (r *PostgresEnrollmentRepository) FindByDateRange(ctx context.Context, desde, hasta time.Time) ([]*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM inscripciones
		WHERE fecha_transaccion BETWEEN $1 AND $2 ORDER BY fecha_transaccion DESC`

	rows, err := r.db.QueryContext(ctx, query, desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollments by date range: %w", err)
	}
	defer rows.Close()

	return scanEnrollments(rows)
}

func scanEnrollments(rows *sql.Rows) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	for rows.Next() {
		enrollment := &models.Enrollment{}
		if err := rows.Scan(&enrollment.ID, &enrollment.IDCliente, &enrollment.IDProducto,
			&enrollment.IDSucursal, &enrollment.MontoInvertido, &enrollment.FechaTransaccion); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over enrollments: %w", err)
	}
	return enrollments, nil
}
