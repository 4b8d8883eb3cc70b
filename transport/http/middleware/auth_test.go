package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"sizopi/config"
	"sizopi/infras/jwt"
	jwtMocks "sizopi/infras/jwt/mocks"
	"sizopi/infras/otel/mocks"
	accountMocks "sizopi/internal/domains/account/mocks"
	"sizopi/permissions"
	"sizopi/shared/constant"
	"sizopi/shared/failure"
	"sizopi/transport/http/middleware"
)

type authFixture struct {
	router   http.Handler
	jwt      *jwtMocks.MockJWT
	accounts *accountMocks.MockAccountService
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	jwtService := jwtMocks.NewMockJWT(ctrl)
	accounts := accountMocks.NewMockAccountService(ctrl)

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	authRole := middleware.NewAuthRoleMiddleware(jwtService, accounts, mocks.NewOtel(), permissions.Get(), cfg)

	echoRole := func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(role))
	}

	router := chi.NewRouter()
	router.Group(func(group chi.Router) {
		group.Use(authRole.APIKey)
		group.Use(authRole.Auth)
		group.Use(authRole.RBAC)

		group.Route("/atraksi", func(r chi.Router) {
			r.Get("/", echoRole)
			r.Get("/{nama}", echoRole)
			r.Delete("/", echoRole)
		})
		group.Get("/reservasi/admin", echoRole)
	})

	return authFixture{router: router, jwt: jwtService, accounts: accounts}
}

func (f authFixture) do(method, target string, header map[string]string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, nil)
	for key, value := range header {
		request.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)

	return recorder
}

func bearer(token string) map[string]string {
	return map[string]string{constant.RequestHeaderAuthorization: "Bearer " + token}
}

func TestAuth_MissingHeader(t *testing.T) {
	f := newAuthFixture(t)

	recorder := f.do(http.MethodGet, "/atraksi", nil)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "expired", err: jwt.ErrExpiredToken, message: "Token has expired"},
		{name: "bad claim", err: jwt.ErrInvalidClaim, message: "Invalid token claims"},
		{name: "garbage", err: jwt.ErrInvalidToken, message: "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.jwt.EXPECT().ValidateToken("tok").Return(nil, tt.err)

			recorder := f.do(http.MethodGet, "/atraksi", bearer("tok"))

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.message)
		})
	}
}

func TestAuth_RoleFromClaims(t *testing.T) {
	f := newAuthFixture(t)
	f.jwt.EXPECT().ValidateToken("tok").Return(&jwt.Claims{Username: "rina", Role: constant.RolePengunjung}, nil)

	recorder := f.do(http.MethodGet, "/atraksi/Kolam%20Paus", bearer("tok"))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, constant.RolePengunjung, recorder.Body.String())
}

func TestAuth_RoleResolvedFromAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.jwt.EXPECT().ValidateToken("tok").Return(&jwt.Claims{Username: "sari"}, nil)
	f.accounts.EXPECT().Role(gomock.Any(), "sari").Return(constant.RoleStafAdmin, nil)

	recorder := f.do(http.MethodGet, "/reservasi/admin", bearer("tok"))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, constant.RoleStafAdmin, recorder.Body.String())
}

func TestAuth_UnknownAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.jwt.EXPECT().ValidateToken("tok").Return(&jwt.Claims{Username: "ghost"}, nil)
	f.accounts.EXPECT().Role(gomock.Any(), "ghost").Return("", nil)

	recorder := f.do(http.MethodGet, "/atraksi", bearer("tok"))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuth_RoleLookupFails(t *testing.T) {
	f := newAuthFixture(t)
	f.jwt.EXPECT().ValidateToken("tok").Return(&jwt.Claims{Username: "sari"}, nil)
	f.accounts.EXPECT().Role(gomock.Any(), "sari").Return("", failure.InternalError(assert.AnError))

	recorder := f.do(http.MethodGet, "/atraksi", bearer("tok"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), assert.AnError.Error())
}

func TestRBAC(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		role     string
		wantCode int
	}{
		{name: "visitor lists attractions", method: http.MethodGet, target: "/atraksi", role: constant.RolePengunjung, wantCode: http.StatusOK},
		{name: "vet lists attractions", method: http.MethodGet, target: "/atraksi", role: constant.RoleDokterHewan, wantCode: http.StatusOK},
		{name: "visitor cannot delete", method: http.MethodDelete, target: "/atraksi", role: constant.RolePengunjung, wantCode: http.StatusForbidden},
		{name: "admin deletes", method: http.MethodDelete, target: "/atraksi", role: constant.RoleStafAdmin, wantCode: http.StatusOK},
		{name: "keeper cannot see all reservations", method: http.MethodGet, target: "/reservasi/admin", role: constant.RolePenjagaHewan, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.jwt.EXPECT().ValidateToken("tok").Return(&jwt.Claims{Username: "u", Role: tt.role}, nil)

			recorder := f.do(tt.method, tt.target, bearer("tok"))

			assert.Equal(t, tt.wantCode, recorder.Code)
		})
	}
}

func TestAPIKey(t *testing.T) {
	t.Run("valid key skips token checks", func(t *testing.T) {
		f := newAuthFixture(t)

		recorder := f.do(http.MethodDelete, "/atraksi", map[string]string{constant.RequestHeaderAPIKey: "internal-key"})

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		f := newAuthFixture(t)

		recorder := f.do(http.MethodDelete, "/atraksi", map[string]string{constant.RequestHeaderAPIKey: "guess"})

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}
