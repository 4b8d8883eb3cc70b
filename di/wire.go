//go:build wireinject
// +build wireinject

package di

import (
	"sizopi/config"
	"sizopi/infras/jwt"
	"sizopi/infras/kafka"
	"sizopi/infras/otel"
	"sizopi/infras/postgres"
	"sizopi/infras/redis"
	"sizopi/infras/s3"
	"sizopi/permissions"
	"sizopi/shared/cache"
	"sizopi/transport/http"
	"sizopi/transport/http/middleware"
	"sizopi/transport/http/router"

	accountRepository "sizopi/internal/domains/account/repository"
	accountService "sizopi/internal/domains/account/service"
	attractionRepository "sizopi/internal/domains/attraction/repository"
	attractionService "sizopi/internal/domains/attraction/service"
	facilityRepository "sizopi/internal/domains/facility/repository"
	facilityService "sizopi/internal/domains/facility/service"
	reservationRepository "sizopi/internal/domains/reservation/repository"
	reservationService "sizopi/internal/domains/reservation/service"
	rideRepository "sizopi/internal/domains/ride/repository"
	rideService "sizopi/internal/domains/ride/service"

	attractionHandler "sizopi/internal/handlers/attraction"
	reservationHandler "sizopi/internal/handlers/reservation"
	rideHandler "sizopi/internal/handlers/ride"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.Transactor), new(*postgres.Connection)),
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var accountDomain = wire.NewSet(
	accountRepository.New,
	accountService.New,
)

var facilityDomain = wire.NewSet(
	facilityRepository.New,
	facilityService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
	reservationService.NewCapacity,
)

var attractionDomain = wire.NewSet(
	attractionRepository.New,
	attractionRepository.NewAssignment,
	attractionRepository.NewParticipation,
	attractionService.New,
)

var rideDomain = wire.NewSet(
	rideRepository.New,
	rideService.New,
)

var domains = wire.NewSet(
	accountDomain,
	facilityDomain,
	reservationDomain,
	attractionDomain,
	rideDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	reservationHandler.New,
	attractionHandler.New,
	rideHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
