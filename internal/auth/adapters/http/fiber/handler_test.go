package fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"reporting-service/internal/auth/core/domain"
	"reporting-service/internal/auth/core/usecase"
)

type fakeRegisterUC struct {
	ExecuteFunc func(ctx context.Context, in usecase.RegisterInput) error
	LastInput   usecase.RegisterInput
}

func (f *fakeRegisterUC) Execute(ctx context.Context, in usecase.RegisterInput) error {
	f.LastInput = in
	if f.ExecuteFunc != nil {
		return f.ExecuteFunc(ctx, in)
	}
	return nil
}

type fakeLoginUC struct {
	ExecuteFunc func(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error)
	LastInput   usecase.LoginInput
}

func (f *fakeLoginUC) Execute(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error) {
	f.LastInput = in
	if f.ExecuteFunc != nil {
		return f.ExecuteFunc(ctx, in)
	}
	return nil, usecase.ErrInvalidCredentials
}

type fakeRefreshUC struct {
	ExecuteFunc func(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	LastToken   string
}

func (f *fakeRefreshUC) Execute(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	f.LastToken = refreshToken
	if f.ExecuteFunc != nil {
		return f.ExecuteFunc(ctx, refreshToken)
	}
	return nil, usecase.ErrInvalidRefreshToken
}

// helper: create fiber app and routes
func setupTestApp(reg RegisterUseCase, login LoginUseCase, refresh RefreshUseCase) *fiber.App {
	app := fiber.New()
	h := NewAuthHandler(reg, login, refresh, zerolog.Nop())

	app.Post("/auth/register", h.Register)
	app.Post("/auth/login", h.Login)
	app.Post("/auth/refresh", h.Refresh)

	return app
}

// helper: send request
func doRequest(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		buf = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, respBody
}

// ---- Register tests ----

func TestRegister_Success(t *testing.T) {
	regUC := &fakeRegisterUC{}
	app := setupTestApp(regUC, &fakeLoginUC{}, &fakeRefreshUC{})

	resp, body := doRequest(t, app, http.MethodPost, "/auth/register", RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "s3cret-pass",
	})

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusCreated, resp.StatusCode, string(body))
	}

	var respJSON MessageResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if !respJSON.Success {
		t.Errorf("expected success=true")
	}
	if regUC.LastInput.Email != "ada@example.com" {
		t.Errorf("expected input forwarded to usecase, got %+v", regUC.LastInput)
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	regUC := &fakeRegisterUC{
		ExecuteFunc: func(ctx context.Context, in usecase.RegisterInput) error {
			return usecase.ErrEmailTaken
		},
	}
	app := setupTestApp(regUC, &fakeLoginUC{}, &fakeRefreshUC{})

	resp, body := doRequest(t, app, http.MethodPost, "/auth/register", RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "s3cret-pass",
	})

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusConflict, resp.StatusCode, string(body))
	}
}

func TestRegister_MissingFields(t *testing.T) {
	regUC := &fakeRegisterUC{
		ExecuteFunc: func(ctx context.Context, in usecase.RegisterInput) error {
			return usecase.ErrInvalidRegistration
		},
	}
	app := setupTestApp(regUC, &fakeLoginUC{}, &fakeRefreshUC{})

	resp, body := doRequest(t, app, http.MethodPost, "/auth/register", RegisterRequest{Email: "ada@example.com"})

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusBadRequest, resp.StatusCode, string(body))
	}
}

// ---- Login tests ----

func TestLogin_Success(t *testing.T) {
	loginUC := &fakeLoginUC{
		ExecuteFunc: func(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error) {
			return &usecase.LoginResult{
				Tokens: domain.TokenPair{AccessToken: "acc-1", RefreshToken: "ref-1"},
				User:   domain.Identity{ID: "u1", Name: "Ada", Email: in.Email},
			}, nil
		},
	}
	app := setupTestApp(&fakeRegisterUC{}, loginUC, &fakeRefreshUC{})

	resp, body := doRequest(t, app, http.MethodPost, "/auth/login", LoginRequest{
		Email:    "ada@example.com",
		Password: "s3cret-pass",
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusOK, resp.StatusCode, string(body))
	}

	var respJSON LoginResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON.Token != "acc-1" || respJSON.RefreshToken != "ref-1" {
		t.Errorf("unexpected token pair: %+v", respJSON)
	}
	if respJSON.User.ID != "u1" || respJSON.User.Email != "ada@example.com" {
		t.Errorf("unexpected user: %+v", respJSON.User)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	loginUC := &fakeLoginUC{
		ExecuteFunc: func(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error) {
			return nil, usecase.ErrInvalidCredentials
		},
	}
	app := setupTestApp(&fakeRegisterUC{}, loginUC, &fakeRefreshUC{})

	resp, body := doRequest(t, app, http.MethodPost, "/auth/login", LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	})

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusUnauthorized, resp.StatusCode, string(body))
	}

	var respJSON ErrorResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON.Success {
		t.Errorf("expected success=false")
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	loginUC := &fakeLoginUC{
		ExecuteFunc: func(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error) {
			return nil, usecase.ErrAccountInactive
		},
	}
	app := setupTestApp(&fakeRegisterUC{}, loginUC, &fakeRefreshUC{})

	resp, body := doRequest(t, app, http.MethodPost, "/auth/login", LoginRequest{
		Email:    "ada@example.com",
		Password: "s3cret-pass",
	})

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusForbidden, resp.StatusCode, string(body))
	}
}

func TestLogin_MissingCredentials(t *testing.T) {
	loginUC := &fakeLoginUC{}
	app := setupTestApp(&fakeRegisterUC{}, loginUC, &fakeRefreshUC{})

	resp, body := doRequest(t, app, http.MethodPost, "/auth/login", LoginRequest{Email: "ada@example.com"})

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusBadRequest, resp.StatusCode, string(body))
	}
}

func TestLogin_InternalError(t *testing.T) {
	loginUC := &fakeLoginUC{
		ExecuteFunc: func(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error) {
			return nil, errors.New("db error")
		},
	}
	app := setupTestApp(&fakeRegisterUC{}, loginUC, &fakeRefreshUC{})

	resp, body := doRequest(t, app, http.MethodPost, "/auth/login", LoginRequest{
		Email:    "ada@example.com",
		Password: "s3cret-pass",
	})

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusInternalServerError, resp.StatusCode, string(body))
	}
}

// ---- Refresh tests ----

func TestRefresh_Success(t *testing.T) {
	refreshUC := &fakeRefreshUC{
		ExecuteFunc: func(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
			return &domain.TokenPair{AccessToken: "acc-2", RefreshToken: "ref-2"}, nil
		},
	}
	app := setupTestApp(&fakeRegisterUC{}, &fakeLoginUC{}, refreshUC)

	resp, body := doRequest(t, app, http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: "ref-1"})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusOK, resp.StatusCode, string(body))
	}

	var respJSON RefreshResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON.Token != "acc-2" || respJSON.RefreshToken != "ref-2" {
		t.Errorf("unexpected token pair: %+v", respJSON)
	}
	if refreshUC.LastToken != "ref-1" {
		t.Errorf("expected presented token forwarded, got %q", refreshUC.LastToken)
	}
}

func TestRefresh_InvalidToken(t *testing.T) {
	app := setupTestApp(&fakeRegisterUC{}, &fakeLoginUC{}, &fakeRefreshUC{})

	resp, body := doRequest(t, app, http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: "forged"})

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusUnauthorized, resp.StatusCode, string(body))
	}
}

func TestRefresh_InternalError(t *testing.T) {
	refreshUC := &fakeRefreshUC{
		ExecuteFunc: func(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
			return nil, errors.New("db error")
		},
	}
	app := setupTestApp(&fakeRegisterUC{}, &fakeLoginUC{}, refreshUC)

	resp, body := doRequest(t, app, http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: "ref-1"})

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusInternalServerError, resp.StatusCode, string(body))
	}
}

// ---- Middleware tests ----

type fakeVerifier struct {
	VerifyFunc func(token string) (string, error)
}

func (f *fakeVerifier) VerifyAccess(token string) (string, error) {
	if f.VerifyFunc != nil {
		return f.VerifyFunc(token)
	}
	return "", errors.New("invalid token")
}

func setupProtectedApp(verifier AccessVerifier) *fiber.App {
	app := fiber.New()
	app.Get("/me", RequireAuth(verifier), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": c.Locals(UserIDKey)})
	})
	return app
}

func TestRequireAuth_ValidToken(t *testing.T) {
	verifier := &fakeVerifier{
		VerifyFunc: func(token string) (string, error) {
			if token != "good-token" {
				return "", errors.New("invalid token")
			}
			return "u1", nil
		},
	}
	app := setupProtectedApp(verifier)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusOK, resp.StatusCode, string(body))
	}

	var respJSON map[string]any
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON["userID"] != "u1" {
		t.Errorf("expected userID=u1 in locals, got %v", respJSON["userID"])
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	app := setupProtectedApp(&fakeVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	app := setupProtectedApp(&fakeVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	verifier := &fakeVerifier{
		VerifyFunc: func(token string) (string, error) {
			return "", errors.New("token is expired")
		},
	}
	app := setupProtectedApp(verifier)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer stale-token")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
}
