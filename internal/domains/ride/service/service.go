package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Ride=MockRideService

import (
	"context"
	"fmt"
	"time"

	"sizopi/config"
	"sizopi/infras/kafka"
	"sizopi/infras/otel"
	"sizopi/infras/postgres"
	facilityModel "sizopi/internal/domains/facility/model"
	facilityService "sizopi/internal/domains/facility/service"
	"sizopi/internal/domains/ride/model"
	"sizopi/internal/domains/ride/model/dto"
	"sizopi/internal/domains/ride/repository"
	"sizopi/shared"
	"sizopi/shared/cache"
	"sizopi/shared/constant"
	gDto "sizopi/shared/dto"
	"sizopi/shared/event"
	"sizopi/shared/failure"
	gModel "sizopi/shared/model"
	"sizopi/shared/timezone"
	"sizopi/shared/validator"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRide    = "ride:get"
	cacheGetRides   = "ride:gets"
	cacheCountRides = "ride:count"
)

var sortableColumns = []string{
	model.FieldName,
	facilityModel.FieldSchedule,
	facilityModel.FieldMaxCapacity,
}

type Ride interface {
	Create(ctx context.Context, req dto.CreateRideRequest) (dto.RideResponse, error)
	Get(ctx context.Context, name string) (dto.RideResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRidesResponse, error)
	Update(ctx context.Context, req dto.UpdateRideRequest) error
	Delete(ctx context.Context, name string) error
}

type serviceImpl struct {
	tx         postgres.Transactor
	repo       repository.Ride
	facilities facilityService.Lifecycle
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	kafka      kafka.Client
}

func New(
	tx postgres.Transactor,
	repo repository.Ride,
	facilities facilityService.Lifecycle,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	kafka kafka.Client,
) Ride {
	return &serviceImpl{
		tx:         tx,
		repo:       repo,
		facilities: facilities,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		kafka:      kafka,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRideRequest) (res dto.RideResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ride.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, _ := shared.Actor(ctx)

	schedule, err := parseSchedule(req.Schedule)
	if err != nil {
		return res, err
	}

	now := timezone.Now()

	err = s.tx.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		facility := facilityModel.Facility{
			Name:        req.Name,
			Schedule:    schedule,
			MaxCapacity: req.MaxCapacity,
			Metadata:    gModel.NewMetadata(actor, now),
		}

		if err := s.facilities.Create(ctx, sqltx, facility); err != nil {
			return err //nolint:wrapcheck
		}

		return s.repo.InsertTx(ctx, sqltx, model.Ride{Name: req.Name, Rules: req.Rules}) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("ride", req.Name).Msg("failed to create ride")

		return res, failure.FromDatabase(err, "failed to create ride")
	}

	res = dto.RideResponse{
		Name:        req.Name,
		Rules:       req.Rules,
		Schedule:    schedule.Format(constant.ScheduleFormat),
		MaxCapacity: req.MaxCapacity,
		CreatedAt:   timezone.Format(now, constant.DateFormat),
		ModifiedAt:  timezone.Format(now, constant.DateFormat),
		CreatedBy:   actor,
		ModifiedBy:  actor,
	}

	s.afterWrite(ctx, event.FacilityCreated, actor, req.Name, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, name string) (res dto.RideResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ride.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetRide, name)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	ride, err := s.repo.Get(ctx, repository.ByName(name))
	if err != nil {
		log.Error().Err(err).Str("ride", name).Msg("failed to get ride")

		return res, failure.FromDatabase(err, "failed to get ride")
	}

	if ride.Name == constant.Empty {
		return res, failure.NotFound("ride not found") //nolint:wrapcheck
	}

	res.FromModel(ride)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save ride to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRidesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ride.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params.RestrictSort(sortableColumns, model.FieldName, gDto.SortDirAsc)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetRides, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.count(ctx, params, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rides")

		return res, failure.FromDatabase(err, "failed to get rides")
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rides to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRides, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rides")

		return res, failure.FromDatabase(err, "failed to count rides")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save ride count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRideRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ride.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, _ := shared.Actor(ctx)

	changes := facilityModel.Changes{MaxCapacity: req.MaxCapacity}

	if req.Schedule != nil {
		schedule, err := parseSchedule(*req.Schedule)
		if err != nil {
			return err
		}

		changes.Schedule = &schedule
	}

	err = s.tx.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		current, err := s.facilities.Lock(ctx, sqltx, req.Name)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err = s.mustExist(ctx, sqltx, req.Name); err != nil {
			return err
		}

		if err = s.facilities.Update(ctx, sqltx, current, changes, actor); err != nil {
			return err //nolint:wrapcheck
		}

		if req.Rules == nil {
			return nil
		}

		_, err = s.repo.UpdateTx(ctx, sqltx, map[string]any{model.FieldRules: *req.Rules}, repository.ByName(req.Name))

		return err //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("ride", req.Name).Msg("failed to update ride")

		return failure.FromDatabase(err, "failed to update ride")
	}

	s.afterWrite(ctx, event.FacilityUpdated, actor, req.Name, req)

	return nil
}

// Delete removes the ride row and its facility row together, or neither.
func (s *serviceImpl) Delete(ctx context.Context, name string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ride.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, _ := shared.Actor(ctx)

	err = s.tx.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		if _, err := s.facilities.Lock(ctx, sqltx, name); err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.mustExist(ctx, sqltx, name); err != nil {
			return err
		}

		if err := s.facilities.Release(ctx, sqltx, name); err != nil {
			return err //nolint:wrapcheck
		}

		if _, err := s.repo.DeleteTx(ctx, sqltx, repository.ByName(name)); err != nil {
			return err //nolint:wrapcheck
		}

		return s.facilities.Delete(ctx, sqltx, name) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("ride", name).Msg("failed to delete ride")

		return failure.FromDatabase(err, "failed to delete ride")
	}

	s.afterWrite(ctx, event.FacilityDeleted, actor, name, dto.DeleteRideRequest{Name: name})

	return nil
}

func (s *serviceImpl) mustExist(ctx context.Context, sqltx *sqlx.Tx, name string) error {
	exists, err := s.repo.ExistTx(ctx, sqltx, repository.ByName(name))
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !exists {
		return failure.NotFound("ride not found") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) afterWrite(ctx context.Context, eventType, actor, name string, data any) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetRide)
		shared.InvalidateCaches(c, s.cache, cacheGetRides)
		shared.InvalidateCaches(c, s.cache, cacheCountRides)
		shared.InvalidateCaches(c, s.cache, constant.CacheGetReservations)
		shared.InvalidateCaches(c, s.cache, constant.CacheCountReservations)

		event.Publish(c, s.kafka, s.cfg.Kafka.Topics.Facility, name, event.NewEnvelope(eventType, actor, data))
	}()
}

func parseSchedule(value string) (time.Time, error) {
	schedule, err := validator.ParseSchedule(value)
	if err != nil {
		return schedule, failure.BadRequestFromString(fmt.Sprintf("invalid jadwal %q", value)) //nolint:wrapcheck
	}

	return schedule, nil
}
