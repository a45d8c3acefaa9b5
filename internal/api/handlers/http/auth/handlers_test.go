package auth_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"

	authh "github.com/BOBWANDATI/backend/internal/api/handlers/http/auth"
	"github.com/BOBWANDATI/backend/internal/domain"
	"github.com/BOBWANDATI/backend/internal/render"
	mock_service "github.com/BOBWANDATI/backend/internal/service/mocks"
	"github.com/BOBWANDATI/backend/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestHandler(t *testing.T, svc *mock_service.MockAuthService) *authh.Handler {
	t.Helper()
	renderer, err := render.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	return authh.NewHandler(newTestLogger(), svc, renderer)
}

func addChiURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestRegister_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_service.NewMockAuthService(ctrl)
	h := newTestHandler(t, svc)

	svc.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(domain.RegisterResponse{Msg: "Admin registered, awaiting super admin approval."}, nil).
		Times(1)

	reqBody := `{"username":"wanjiku","email":"w@example.com","password":"longenough","role":"admin","department":"health"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	h.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d got %d, body=%s", http.StatusCreated, rr.Code, rr.Body.String())
	}
}

func TestRegister_Conflict_409(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_service.NewMockAuthService(ctrl)
	h := newTestHandler(t, svc)

	svc.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(domain.RegisterResponse{}, e.ErrConflict).
		Times(1)

	reqBody := `{"username":"taken","email":"t@example.com","password":"longenough","role":"super"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	h.Register(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected %d got %d, body=%s", http.StatusConflict, rr.Code, rr.Body.String())
	}
}

func TestLogin_ErrorTaxonomy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		svcErr   error
		wantCode int
	}{
		{"bad credentials", e.ErrInvalidCredentials, http.StatusUnauthorized},
		{"pending approval", e.ErrPendingApproval, http.StatusForbidden},
		{"validation", e.ErrInvalidInput, http.StatusBadRequest},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := mock_service.NewMockAuthService(ctrl)
			h := newTestHandler(t, svc)

			svc.EXPECT().
				Login(gomock.Any(), gomock.Any()).
				Return(domain.LoginResponse{}, tc.svcErr).
				Times(1)

			reqBody := `{"username":"wanjiku","password":"whatever123","role":"admin"}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(reqBody))
			rr := httptest.NewRecorder()

			h.Login(rr, req)

			if rr.Code != tc.wantCode {
				t.Fatalf("expected %d got %d, body=%s", tc.wantCode, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestLogin_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_service.NewMockAuthService(ctrl)
	h := newTestHandler(t, svc)

	svc.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(domain.LoginResponse{Token: "session-token"}, nil).
		Times(1)

	reqBody := `{"username":"wanjiku","password":"longenough","role":"admin"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	h.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d, body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "session-token") {
		t.Fatalf("token missing from response: %s", rr.Body.String())
	}
}

func TestApprove_RendersSuccessPage(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_service.NewMockAuthService(ctrl)
	h := newTestHandler(t, svc)

	svc.EXPECT().
		ApproveViaToken(gomock.Any(), "tok").
		Return(domain.AdminProfile{Username: "wanjiku", Approved: true}, nil).
		Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/approve/tok", nil)
	req = addChiURLParam(req, "token", "tok")
	rr := httptest.NewRecorder()

	h.Approve(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d", http.StatusOK, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html response, got %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "wanjiku") {
		t.Fatalf("page missing username: %s", rr.Body.String())
	}
}

func TestApprove_SecondClickStaysOK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_service.NewMockAuthService(ctrl)
	h := newTestHandler(t, svc)

	svc.EXPECT().
		ApproveViaToken(gomock.Any(), "tok").
		Return(domain.AdminProfile{Username: "wanjiku", Approved: true}, e.ErrAlreadyApproved).
		Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/approve/tok", nil)
	req = addChiURLParam(req, "token", "tok")
	rr := httptest.NewRecorder()

	h.Approve(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "already been approved") {
		t.Fatalf("page missing idempotency note: %s", rr.Body.String())
	}
}

func TestApprove_BadToken_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_service.NewMockAuthService(ctrl)
	h := newTestHandler(t, svc)

	svc.EXPECT().
		ApproveViaToken(gomock.Any(), "garbage").
		Return(domain.AdminProfile{}, e.ErrInvalidToken).
		Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/approve/garbage", nil)
	req = addChiURLParam(req, "token", "garbage")
	rr := httptest.NewRecorder()

	h.Approve(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d", http.StatusBadRequest, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "invalid or has expired") {
		t.Fatalf("unexpected failure page: %s", rr.Body.String())
	}
}
