package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codigo8a/fondo-back/internal/models"
)

// AuditRepository is append-only: entries are created by the enrollment
// workflow and never updated or deleted.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.LogEntry) error
	List(ctx context.Context) ([]*models.LogEntry, error)
	FindByTipoOperacion(ctx context.Context, tipoOperacion string) ([]*models.LogEntry, error)
	FindByEntidadID(ctx context.Context, entidadID string) ([]*models.LogEntry, error)
	FindByTipoEntidad(ctx context.Context, tipoEntidad string) ([]*models.LogEntry, error)
	FindByCliente(ctx context.Context, idCliente string) ([]*models.LogEntry, error)
	FindByClienteAndOperacion(ctx context.Context, idCliente, tipoOperacion string) ([]*models.LogEntry, error)
	FindByDateRange(ctx context.Context, desde, hasta time.Time) ([]*models.LogEntry, error)
	FindByClienteAndDateRange(ctx context.Context, idCliente string, desde, hasta time.Time) ([]*models.LogEntry, error)
}

type PostgresAuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *PostgresAuditRepository {
	return &PostgresAuditRepository{db: db}
}

const logColumns = `id, tipo_operacion, entidad_id, tipo_entidad, id_cliente, detalles, fecha_movimiento, usuario`

func (r *PostgresAuditRepository) Create(ctx context.Context, entry *models.LogEntry) error {
	entry.ID = uuid.New().String()
	if entry.Usuario == "" {
		entry.Usuario = models.DefaultActor
	}

	query := `INSERT INTO logs (id, tipo_operacion, entidad_id, tipo_entidad, id_cliente, detalles, fecha_movimiento, usuario)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var idCliente sql.NullString
	if entry.IDCliente != nil {
		idCliente = sql.NullString{String: *entry.IDCliente, Valid: true}
	}

	if _, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.TipoOperacion, entry.EntidadID, entry.TipoEntidad,
		idCliente, entry.Detalles, entry.FechaMovimiento, entry.Usuario,
	); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *PostgresAuditRepository) List(ctx context.Context) ([]*models.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM logs ORDER BY fecha_movimiento DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

func (r *PostgresAuditRepository) FindByTipoOperacion(ctx context.Context, tipoOperacion string) ([]*models.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE tipo_operacion = $1 ORDER BY fecha_movimiento DESC`

	rows, err := r.db.QueryContext(ctx, query, tipoOperacion)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit logs by operation type: %w", err)
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

func (r *PostgresAuditRepository) FindByEntidadID(ctx context.Context, entidadID string) ([]*models.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE entidad_id = $1 ORDER BY fecha_movimiento DESC`

	rows, err := r.db.QueryContext(ctx, query, entidadID)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit logs by entity ID: %w", err)
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

func (r *PostgresAuditRepository) FindByTipoEntidad(ctx context.Context, tipoEntidad string) ([]*models.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE tipo_entidad = $1 ORDER BY fecha_movimiento DESC`

	rows, err := r.db.QueryContext(ctx, query, tipoEntidad)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit logs by entity type: %w", err)
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

func (r *PostgresAuditRepository) FindByCliente(ctx context.Context, idCliente string) ([]*models.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE id_cliente = $1 ORDER BY fecha_movimiento DESC`

	rows, err := r.db.QueryContext(ctx, query, idCliente)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit logs by client: %w", err)
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

func (r *PostgresAuditRepository) FindByClienteAndOperacion(ctx context.Context, idCliente, tipoOperacion string) ([]*models.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM logs
		WHERE id_cliente = $1 AND tipo_operacion = $2 ORDER BY fecha_movimiento DESC`

	rows, err := r.db.QueryContext(ctx, query, idCliente, tipoOperacion)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit logs by client and operation: %w", err)
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

func (r *PostgresAuditRepository) FindByDateRange(ctx context.Context, desde, hasta time.Time) ([]*models.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM logs
		WHERE fecha_movimiento BETWEEN $1 AND $2 ORDER BY fecha_movimiento DESC`

	rows, err := r.db.QueryContext(ctx, query, desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit logs by date range: %w", err)
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

func (r *PostgresAuditRepository) FindByClienteAndDateRange(ctx context.Context, idCliente string, desde, hasta time.Time) ([]*models.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM logs
		WHERE id_cliente = $1 AND fecha_movimiento BETWEEN $2 AND $3 ORDER BY fecha_movimiento DESC`

	rows, err := r.db.QueryContext(ctx, query, idCliente, desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit logs by client and date range: %w", err)
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

func scanLogEntries(rows *sql.Rows) ([]*models.LogEntry, error) {
	var entries []*models.LogEntry
	for rows.Next() {
		entry := &models.LogEntry{}
		var idCliente sql.NullString

		if err := rows.Scan(&entry.ID, &entry.TipoOperacion, &entry.EntidadID, &entry.TipoEntidad,
			&idCliente, &entry.Detalles, &entry.FechaMovimiento, &entry.Usuario); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}

		if idCliente.Valid {
			entry.IDCliente = &idCliente.String
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over audit logs: %w", err)
	}
	return entries, nil
}
