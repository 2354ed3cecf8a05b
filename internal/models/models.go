package models

import (
	"time"
)

// Client is a pension fund client. Monto is the total amount the client holds
// in the fund, independent of any enrollment.
type Client struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Apellidos string  `json:"apellidos"`
	Ciudad    string  `json:"ciudad"`
	Monto     float64 `json:"monto"`
}

// Product is an investment offering. DisponibleEn lists the branch IDs where
// the product can be enrolled into; it must never be empty.
type Product struct {
	ID           string   `json:"id"`
	Nombre       string   `json:"nombre"`
	TipoProducto string   `json:"tipoProducto"`
	MontoMinimo  float64  `json:"montoMinimo"`
	DisponibleEn []string `json:"disponibleEn"`
}

// Branch is a physical office where products are offered.
type Branch struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Ciudad string `json:"ciudad"`
}

// Enrollment is a client's commitment of funds to a product at a branch.
// At most one enrollment exists per (client, product) pair.
type Enrollment struct {
	ID               string    `json:"id"`
	IDCliente        string    `json:"idCliente"`
	IDProducto       string    `json:"idProducto"`
	IDSucursal       string    `json:"idSucursal"`
	MontoInvertido   float64   `json:"montoInvertido"`
	FechaTransaccion time.Time `json:"fechaTransaccion"`
}

// LogEntry is an append-only audit record of a state-changing operation.
// IDCliente is nil when the affected client could not be determined.
type LogEntry struct {
	ID              string    `json:"id"`
	TipoOperacion   string    `json:"tipoOperacion"`
	EntidadID       string    `json:"entidadId"`
	TipoEntidad     string    `json:"tipoEntidad"`
	IDCliente       *string   `json:"idCliente"`
	Detalles        string    `json:"detalles"`
	FechaMovimiento time.Time `json:"fechaMovimiento"`
	Usuario         string    `json:"usuario,omitempty"`
}

const (
	OperationCreateEnrollment = "CREATE_ENROLLMENT"
	OperationDeleteEnrollment = "DELETE_ENROLLMENT"
)

const (
	EntityTypeEnrollment = "ENROLLMENT"
)

// DefaultActor is recorded on audit entries produced by the system itself.
const DefaultActor = "sistema"

type CreateClientRequest struct {
	Nombre    string  `json:"nombre"`
	Apellidos string  `json:"apellidos"`
	Ciudad    string  `json:"ciudad"`
	Monto     float64 `json:"monto"`
}

type UpdateMontoRequest struct {
	Monto float64 `json:"monto"`
}

type CreateProductRequest struct {
	Nombre       string   `json:"nombre"`
	TipoProducto string   `json:"tipoProducto"`
	MontoMinimo  float64  `json:"montoMinimo"`
	DisponibleEn []string `json:"disponibleEn"`
}

type CreateBranchRequest struct {
	Nombre string `json:"nombre"`
	Ciudad string `json:"ciudad"`
}

type CreateEnrollmentRequest struct {
	IDCliente        string     `json:"idCliente"`
	IDProducto       string     `json:"idProducto"`
	IDSucursal       string     `json:"idSucursal"`
	MontoInvertido   float64    `json:"montoInvertido"`
	FechaTransaccion *time.Time `json:"fechaTransaccion,omitempty"`
}

// ProductWithBranches replaces the product's branch ID list with the full
// branch records. Branches that no longer exist are omitted.
type ProductWithBranches struct {
	ID           string    `json:"id"`
	Nombre       string    `json:"nombre"`
	TipoProducto string    `json:"tipoProducto"`
	MontoMinimo  float64   `json:"montoMinimo"`
	DisponibleEn []*Branch `json:"disponibleEn"`
}

// EnrollmentWithProduct is an enrollment joined with its product detail.
// Producto is nil when the referenced product was deleted after enrollment.
type EnrollmentWithProduct struct {
	ID               string               `json:"id"`
	IDCliente        string               `json:"idCliente"`
	IDProducto       string               `json:"idProducto"`
	IDSucursal       string               `json:"idSucursal"`
	MontoInvertido   float64              `json:"montoInvertido"`
	FechaTransaccion time.Time            `json:"fechaTransaccion"`
	Producto         *ProductWithBranches `json:"producto"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type ExistsResponse struct {
	Existe bool `json:"existe"`
}
