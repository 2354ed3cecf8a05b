package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/codigo8a/fondo-back/internal/errors"
	"github.com/codigo8a/fondo-back/internal/models"
)

// stubEnrollmentService lets each test pin exactly the behavior under test.
// Unset funcs mean the route is not expected to reach that method.
type stubEnrollmentService struct {
	listFn            func(ctx context.Context) ([]*models.Enrollment, error)
	getFn             func(ctx context.Context, id string) (*models.Enrollment, error)
	createFn          func(ctx context.Context, req *models.CreateEnrollmentRequest) (*models.Enrollment, error)
	updateFn          func(ctx context.Context, id string, e *models.Enrollment) (*models.Enrollment, error)
	deleteFn          func(ctx context.Context, id string) (bool, error)
	existsFn          func(ctx context.Context, id string) (bool, error)
	findByClientFn    func(ctx context.Context, idCliente string) ([]*models.Enrollment, error)
	findWithProductFn func(ctx context.Context, idCliente string) ([]*models.EnrollmentWithProduct, error)
	findByProductFn   func(ctx context.Context, idProducto string) ([]*models.Enrollment, error)
	findByPairFn      func(ctx context.Context, idCliente, idProducto string) ([]*models.Enrollment, error)
	findByDateFn      func(ctx context.Context, desde, hasta time.Time) ([]*models.Enrollment, error)
}

func (s *stubEnrollmentService) List(ctx context.Context) ([]*models.Enrollment, error) {
	return s.listFn(ctx)
}

func (s *stubEnrollmentService) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	return s.getFn(ctx, id)
}

func (s *stubEnrollmentService) Create(ctx context.Context, req *models.CreateEnrollmentRequest) (*models.Enrollment, error) {
	return s.createFn(ctx, req)
}

func (s *stubEnrollmentService) Update(ctx context.Context, id string, e *models.Enrollment) (*models.Enrollment, error) {
	return s.updateFn(ctx, id, e)
}

func (s *stubEnrollmentService) Delete(ctx context.Context, id string) (bool, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubEnrollmentService) Exists(ctx context.Context, id string) (bool, error) {
	return s.existsFn(ctx, id)
}

func (s *stubEnrollmentService) FindByClient(ctx context.Context, idCliente string) ([]*models.Enrollment, error) {
	return s.findByClientFn(ctx, idCliente)
}

func (s *stubEnrollmentService) FindByClientWithProduct(ctx context.Context, idCliente string) ([]*models.EnrollmentWithProduct, error) {
	return s.findWithProductFn(ctx, idCliente)
}

func (s *stubEnrollmentService) FindByProduct(ctx context.Context, idProducto string) ([]*models.Enrollment, error) {
	return s.findByProductFn(ctx, idProducto)
}

func (s *stubEnrollmentService) FindByClientAndProduct(ctx context.Context, idCliente, idProducto string) ([]*models.Enrollment, error) {
	return s.findByPairFn(ctx, idCliente, idProducto)
}

func (s *stubEnrollmentService) FindByDateRange(ctx context.Context, desde, hasta time.Time) ([]*models.Enrollment, error) {
	return s.findByDateFn(ctx, desde, hasta)
}

func newEnrollmentRouter(svc *stubEnrollmentService) *mux.Router {
	router := mux.NewRouter()
	NewEnrollmentHandler(svc, slog.New(slog.DiscardHandler)).RegisterRoutes(router)
	return router
}

func TestCreateEnrollmentEndpoint(t *testing.T) {
	svc := &stubEnrollmentService{
		createFn: func(ctx context.Context, req *models.CreateEnrollmentRequest) (*models.Enrollment, error) {
			return &models.Enrollment{
				ID:             "E1",
				IDCliente:      req.IDCliente,
				IDProducto:     req.IDProducto,
				IDSucursal:     req.IDSucursal,
				MontoInvertido: req.MontoInvertido,
			}, nil
		},
	}
	router := newEnrollmentRouter(svc)

	body := `{"idCliente":"C1","idProducto":"P1","idSucursal":"B1","montoInvertido":150000}`
	req := httptest.NewRequest(http.MethodPost, "/api/inscripcion", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rr.Code, rr.Body.String())
	}

	var created models.Enrollment
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID != "E1" || created.IDCliente != "C1" {
		t.Fatalf("unexpected response: %+v", created)
	}
}

func TestCreateEnrollmentEndpointStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"product not available", errors.ErrProductNotAvailable, http.StatusBadRequest},
		{"duplicate", errors.ErrDuplicateEnrollment, http.StatusConflict},
		{"product missing", errors.ErrProductNotFound, http.StatusBadRequest},
		{"invalid amount", errors.ErrInvalidAmount, http.StatusBadRequest},
		{"missing field", errors.NewValidationError("idCliente", "must be non-empty"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubEnrollmentService{
				createFn: func(ctx context.Context, req *models.CreateEnrollmentRequest) (*models.Enrollment, error) {
					return nil, tc.serviceErr
				},
			}
			router := newEnrollmentRouter(svc)

			body := `{"idCliente":"C1","idProducto":"P1","idSucursal":"B1","montoInvertido":150000}`
			req := httptest.NewRequest(http.MethodPost, "/api/inscripcion", strings.NewReader(body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d; body: %s", rr.Code, tc.wantStatus, rr.Body.String())
			}
		})
	}
}

func TestCreateEnrollmentEndpointDuplicateMessage(t *testing.T) {
	svc := &stubEnrollmentService{
		createFn: func(ctx context.Context, req *models.CreateEnrollmentRequest) (*models.Enrollment, error) {
			return nil, errors.ErrDuplicateEnrollment
		},
	}
	router := newEnrollmentRouter(svc)

	body := `{"idCliente":"C1","idProducto":"P1","idSucursal":"B1","montoInvertido":150000}`
	req := httptest.NewRequest(http.MethodPost, "/api/inscripcion", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Message != "El cliente ya tiene una incripción con este producto" {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestCreateEnrollmentEndpointBadJSON(t *testing.T) {
	router := newEnrollmentRouter(&stubEnrollmentService{})

	req := httptest.NewRequest(http.MethodPost, "/api/inscripcion", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestDeleteEnrollmentEndpoint(t *testing.T) {
	svc := &stubEnrollmentService{
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			return id == "E1", nil
		},
	}
	router := newEnrollmentRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/inscripcion/E1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete existing: status = %d, want 204", rr.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/inscripcion/nope", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("delete missing: status = %d, want 404", rr.Code)
	}
}

func TestGetEnrollmentEndpointNotFound(t *testing.T) {
	svc := &stubEnrollmentService{
		getFn: func(ctx context.Context, id string) (*models.Enrollment, error) {
			return nil, errors.ErrEnrollmentNotFound
		},
	}
	router := newEnrollmentRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/inscripcion/nope", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestEnrollmentExistsEndpoint(t *testing.T) {
	svc := &stubEnrollmentService{
		existsFn: func(ctx context.Context, id string) (bool, error) {
			return id == "E1", nil
		},
	}
	router := newEnrollmentRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/inscripcion/existe/E1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var resp models.ExistsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Existe {
		t.Fatal("existe should be true for E1")
	}
}

func TestFindEnrollmentsByDateRangeEndpoint(t *testing.T) {
	var gotDesde, gotHasta time.Time
	svc := &stubEnrollmentService{
		findByDateFn: func(ctx context.Context, desde, hasta time.Time) ([]*models.Enrollment, error) {
			gotDesde, gotHasta = desde, hasta
			return []*models.Enrollment{}, nil
		},
	}
	router := newEnrollmentRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/inscripcion/fecha?fechaInicio=2025-01-01T00:00:00&fechaFin=2025-12-31T23:59:59", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	if gotDesde.Year() != 2025 || gotHasta.Month() != time.December {
		t.Fatalf("parsed range %v .. %v", gotDesde, gotHasta)
	}
}

func TestFindEnrollmentsByDateRangeEndpointBadDate(t *testing.T) {
	router := newEnrollmentRouter(&stubEnrollmentService{})

	req := httptest.NewRequest(http.MethodGet, "/api/inscripcion/fecha?fechaInicio=soon&fechaFin=later", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestFindEnrollmentsWithProductRouteTakesPriority(t *testing.T) {
	svc := &stubEnrollmentService{
		findWithProductFn: func(ctx context.Context, idCliente string) ([]*models.EnrollmentWithProduct, error) {
			if idCliente != "C1" {
				t.Errorf("idCliente = %q, want C1", idCliente)
			}
			return []*models.EnrollmentWithProduct{}, nil
		},
	}
	router := newEnrollmentRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/inscripcion/cliente/C1/completo", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
}
