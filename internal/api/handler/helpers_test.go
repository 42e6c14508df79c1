package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront-api/internal/core/domain"
	"github.com/99minutos/storefront-api/internal/core/ports"
)

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withClaims(c echo.Context, id string, role domain.Role) {
	c.Set("claims", &domain.Claims{Subject: id, Email: id + "@example.com", Role: role})
}

func withID(c echo.Context, id string) {
	c.SetParamNames("id")
	c.SetParamValues(id)
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	return resp.Data
}

func requireHTTPStatus(t *testing.T, err error, code int) {
	t.Helper()

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError with %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	verifyFn   func(token string) (*domain.Claims, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) VerifyToken(token string) (*domain.Claims, error) {
	return s.verifyFn(token)
}

type stubAccountDirectory struct {
	listFn   func(ctx context.Context) ([]*domain.Account, error)
	getFn    func(ctx context.Context, id string) (*domain.Account, error)
	createFn func(ctx context.Context, in domain.NewAccountInput) (*domain.Account, error)
	updateFn func(ctx context.Context, id string, changes domain.AccountChanges) (*domain.Account, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubAccountDirectory) List(ctx context.Context) ([]*domain.Account, error) {
	return s.listFn(ctx)
}

func (s *stubAccountDirectory) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountDirectory) GetByEmail(context.Context, string) (*domain.AccountRecord, error) {
	return nil, errors.New("not used by handlers")
}

func (s *stubAccountDirectory) Create(ctx context.Context, in domain.NewAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, in)
}

func (s *stubAccountDirectory) Update(ctx context.Context, id string, changes domain.AccountChanges) (*domain.Account, error) {
	return s.updateFn(ctx, id, changes)
}

func (s *stubAccountDirectory) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubAccountDirectory) ValidateCredentials(context.Context, string, string) (*domain.Account, error) {
	return nil, errors.New("not used by handlers")
}

type stubCatalog struct {
	listFn   func(ctx context.Context) ([]*domain.Item, error)
	getFn    func(ctx context.Context, id string) (*domain.Item, error)
	createFn func(ctx context.Context, in domain.NewItemInput) (*domain.Item, error)
	updateFn func(ctx context.Context, id string, changes domain.ItemChanges) (*domain.Item, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubCatalog) List(ctx context.Context) ([]*domain.Item, error) { return s.listFn(ctx) }

func (s *stubCatalog) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	return s.getFn(ctx, id)
}

func (s *stubCatalog) Create(ctx context.Context, in domain.NewItemInput) (*domain.Item, error) {
	return s.createFn(ctx, in)
}

func (s *stubCatalog) Update(ctx context.Context, id string, changes domain.ItemChanges) (*domain.Item, error) {
	return s.updateFn(ctx, id, changes)
}

func (s *stubCatalog) Delete(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }
