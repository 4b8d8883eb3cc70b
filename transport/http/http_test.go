package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"sizopi/config"
	jwtMocks "sizopi/infras/jwt/mocks"
	"sizopi/infras/otel/mocks"
	accountMocks "sizopi/internal/domains/account/mocks"
	attractionMocks "sizopi/internal/domains/attraction/mocks"
	reservationMocks "sizopi/internal/domains/reservation/mocks"
	rideMocks "sizopi/internal/domains/ride/mocks"
	"sizopi/internal/handlers/attraction"
	"sizopi/internal/handlers/reservation"
	"sizopi/internal/handlers/ride"
	"sizopi/permissions"
	cacheMocks "sizopi/shared/cache/mocks"
	"sizopi/shared/constant"
	transport "sizopi/transport/http"
	"sizopi/transport/http/middleware"
	"sizopi/transport/http/router"
)

func newServer(t *testing.T) *transport.HTTP {
	t.Helper()

	ctrl := gomock.NewController(t)
	otl := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvProduction

	r := router.New(router.DomainHandlers{
		Reservation: reservation.New(reservationMocks.NewMockReservationService(ctrl), reservationMocks.NewMockCapacity(ctrl), otl),
		Attraction:  attraction.New(attractionMocks.NewMockAttractionService(ctrl), otl),
		Ride:        ride.New(rideMocks.NewMockRideService(ctrl), otl),
	})

	app := middleware.NewAppMiddleware(otl, cfg, cacheMocks.NewMockRedisCache(ctrl))
	authRole := middleware.NewAuthRoleMiddleware(jwtMocks.NewMockJWT(ctrl), accountMocks.NewMockAccountService(ctrl), otl, permissions.Get(), cfg)

	return transport.New(cfg, r, app, authRole, otl)
}

func TestHTTP_Health(t *testing.T) {
	server := newServer(t)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, transport.ServerStateReady, server.State())
	assert.NotEmpty(t, recorder.Header().Get(constant.RequestHeaderRequestID))
}

func TestHTTP_DomainRoutesRequireToken(t *testing.T) {
	server := newServer(t)

	for _, target := range []string{"/atraksi", "/wahana/Komidi", "/reservasi/admin"} {
		recorder := httptest.NewRecorder()
		server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code, target)
	}
}

func TestHTTP_SwaggerHiddenInProduction(t *testing.T) {
	server := newServer(t)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	assert.NotEqual(t, http.StatusOK, recorder.Code)
}
