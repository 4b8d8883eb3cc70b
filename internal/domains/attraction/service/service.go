package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Attraction=MockAttractionService

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sizopi/config"
	"sizopi/infras/kafka"
	"sizopi/infras/otel"
	"sizopi/infras/postgres"
	accountService "sizopi/internal/domains/account/service"
	"sizopi/internal/domains/attraction/model"
	"sizopi/internal/domains/attraction/model/dto"
	"sizopi/internal/domains/attraction/repository"
	facilityModel "sizopi/internal/domains/facility/model"
	facilityService "sizopi/internal/domains/facility/service"
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
	cacheGetAttraction    = "attraction:get"
	cacheGetAttractions   = "attraction:gets"
	cacheCountAttractions = "attraction:count"
)

var sortableColumns = []string{
	model.FieldName,
	model.FieldLocation,
	facilityModel.FieldSchedule,
	facilityModel.FieldMaxCapacity,
}

// Attraction manages attractions together with their facility row, trainer
// assignments and participating animals. Every write is one transaction.
type Attraction interface {
	Create(ctx context.Context, req dto.CreateAttractionRequest) (dto.AttractionResponse, error)
	Get(ctx context.Context, name string) (dto.AttractionResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAttractionsResponse, error)
	Update(ctx context.Context, req dto.UpdateAttractionRequest) error
	Delete(ctx context.Context, name string) error
}

type serviceImpl struct {
	tx           postgres.Transactor
	repo         repository.Attraction
	assignments  repository.Assignment
	participants repository.Participation
	facilities   facilityService.Lifecycle
	accounts     accountService.Account
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	kafka        kafka.Client
}

func New(
	tx postgres.Transactor,
	repo repository.Attraction,
	assignments repository.Assignment,
	participants repository.Participation,
	facilities facilityService.Lifecycle,
	accounts accountService.Account,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	kafka kafka.Client,
) Attraction {
	return &serviceImpl{
		tx:           tx,
		repo:         repo,
		assignments:  assignments,
		participants: participants,
		facilities:   facilities,
		accounts:     accounts,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		kafka:        kafka,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAttractionRequest) (res dto.AttractionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".attraction.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, _ := shared.Actor(ctx)

	schedule, err := parseSchedule(req.Schedule)
	if err != nil {
		return res, err
	}

	if err = s.ensureTrainer(ctx, req.Trainer); err != nil {
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

		if err := s.repo.InsertTx(ctx, sqltx, model.Attraction{Name: req.Name, Location: req.Location}); err != nil {
			return err //nolint:wrapcheck
		}

		assignment := model.Assignment{Trainer: req.Trainer, AssignedAt: schedule, Attraction: req.Name}
		if err := s.assignments.InsertTx(ctx, sqltx, assignment); err != nil {
			return err //nolint:wrapcheck
		}

		return s.linkAnimals(ctx, sqltx, req.Name, req.AnimalIDs)
	})
	if err != nil {
		log.Error().Err(err).Str("attraction", req.Name).Msg("failed to create attraction")

		return res, failure.FromDatabase(err, "failed to create attraction")
	}

	res = dto.AttractionResponse{
		Name:        req.Name,
		Location:    req.Location,
		Schedule:    schedule.Format(constant.ScheduleFormat),
		MaxCapacity: req.MaxCapacity,
		Trainer:     req.Trainer,
		AnimalIDs:   req.AnimalIDs,
		CreatedAt:   timezone.Format(now, constant.DateFormat),
		ModifiedAt:  timezone.Format(now, constant.DateFormat),
		CreatedBy:   actor,
		ModifiedBy:  actor,
	}

	s.afterWrite(ctx, event.FacilityCreated, actor, req.Name, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, name string) (res dto.AttractionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".attraction.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetAttraction, name)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	attraction, err := s.repo.Get(ctx, repository.ByName(name))
	if err != nil {
		log.Error().Err(err).Str("attraction", name).Msg("failed to get attraction")

		return res, failure.FromDatabase(err, "failed to get attraction")
	}

	if attraction.Name == constant.Empty {
		return res, failure.NotFound("attraction not found") //nolint:wrapcheck
	}

	participants, err := s.participants.GetAll(ctx, gDto.QueryParams{}, repository.ParticipantsOf(name))
	if err != nil {
		log.Error().Err(err).Str("attraction", name).Msg("failed to get attraction animals")

		return res, failure.FromDatabase(err, "failed to get attraction")
	}

	res.FromModel(attraction)
	res.WithParticipants(participants)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save attraction to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAttractionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".attraction.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params.RestrictSort(sortableColumns, model.FieldName, gDto.SortDirAsc)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAttractions, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.count(ctx, params, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get attractions")

		return res, failure.FromDatabase(err, "failed to get attractions")
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save attractions to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountAttractions, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count attractions")

		return res, failure.FromDatabase(err, "failed to count attractions")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save attraction count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateAttractionRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".attraction.Update")
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

	if req.Trainer != nil {
		if err = s.ensureTrainer(ctx, *req.Trainer); err != nil {
			return err
		}
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

		if req.Location != nil {
			fields := map[string]any{model.FieldLocation: *req.Location}
			if _, err = s.repo.UpdateTx(ctx, sqltx, fields, repository.ByName(req.Name)); err != nil {
				return err //nolint:wrapcheck
			}
		}

		if req.Trainer != nil {
			assignment := model.Assignment{Trainer: *req.Trainer, AssignedAt: timezone.Now(), Attraction: req.Name}
			if err = s.assignments.InsertTx(ctx, sqltx, assignment); err != nil {
				return err //nolint:wrapcheck
			}
		}

		if req.AnimalIDs != nil {
			if _, err = s.participants.DeleteTx(ctx, sqltx, repository.ParticipantsOf(req.Name)); err != nil {
				return err //nolint:wrapcheck
			}

			return s.linkAnimals(ctx, sqltx, req.Name, *req.AnimalIDs)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("attraction", req.Name).Msg("failed to update attraction")

		return failure.FromDatabase(err, "failed to update attraction")
	}

	s.afterWrite(ctx, event.FacilityUpdated, actor, req.Name, req)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, name string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".attraction.Delete")
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

		if _, err := s.participants.DeleteTx(ctx, sqltx, repository.ParticipantsOf(name)); err != nil {
			return err //nolint:wrapcheck
		}

		if _, err := s.assignments.DeleteTx(ctx, sqltx, repository.AssignmentsOf(name)); err != nil {
			return err //nolint:wrapcheck
		}

		if _, err := s.repo.DeleteTx(ctx, sqltx, repository.ByName(name)); err != nil {
			return err //nolint:wrapcheck
		}

		return s.facilities.Delete(ctx, sqltx, name) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("attraction", name).Msg("failed to delete attraction")

		return failure.FromDatabase(err, "failed to delete attraction")
	}

	s.afterWrite(ctx, event.FacilityDeleted, actor, name, dto.DeleteAttractionRequest{Name: name})

	return nil
}

// mustExist keeps attraction endpoints from acting on a ride that shares the
// facility table.
func (s *serviceImpl) mustExist(ctx context.Context, sqltx *sqlx.Tx, name string) error {
	exists, err := s.repo.ExistTx(ctx, sqltx, repository.ByName(name))
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !exists {
		return failure.NotFound("attraction not found") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) ensureTrainer(ctx context.Context, username string) error {
	role, err := s.accounts.Role(ctx, username)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if role != constant.RolePelatihHewan {
		return failure.BadRequestFromString(fmt.Sprintf("pelatih %q is not an animal trainer", username)) //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) linkAnimals(ctx context.Context, sqltx *sqlx.Tx, attraction string, animalIDs []string) error {
	if len(animalIDs) == 0 {
		return nil
	}

	missing, err := s.participants.MissingAnimalsTx(ctx, sqltx, animalIDs)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if len(missing) > 0 {
		return failure.BadRequestFromString("unknown animals: " + strings.Join(missing, ", ")) //nolint:wrapcheck
	}

	participants := make([]model.Participation, len(animalIDs))
	for i, id := range animalIDs {
		participants[i] = model.Participation{Facility: attraction, AnimalID: id}
	}

	return s.participants.InsertBulkTx(ctx, sqltx, participants) //nolint:wrapcheck
}

func (s *serviceImpl) afterWrite(ctx context.Context, eventType, actor, name string, data any) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAttraction)
		shared.InvalidateCaches(c, s.cache, cacheGetAttractions)
		shared.InvalidateCaches(c, s.cache, cacheCountAttractions)
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
