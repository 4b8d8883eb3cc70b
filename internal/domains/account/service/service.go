package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Account=MockAccountService

import (
	"context"

	"sizopi/config"
	"sizopi/infras/otel"
	"sizopi/internal/domains/account/repository"
	"sizopi/shared"
	"sizopi/shared/cache"
	"sizopi/shared/constant"
	"sizopi/shared/failure"

	"github.com/rs/zerolog/log"
)

const cacheGetRole = "account:role"

// Account answers which role a username holds. Roles are stored as
// membership of one of the role tables.
type Account interface {
	Role(ctx context.Context, username string) (string, error)
}

type serviceImpl struct {
	repo  repository.Account
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Account, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Account {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Role(ctx context.Context, username string) (res string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".account.Role")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetRole, username)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.GetRole(ctx, username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("failed to resolve role")

		return res, failure.FromDatabase(err, "failed to resolve role")
	}

	// Users without a role are not cached so a freshly registered account is
	// picked up on its next request.
	if res == constant.Empty {
		return res, nil
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save role to cache")
		}
	}()

	return res, nil
}
