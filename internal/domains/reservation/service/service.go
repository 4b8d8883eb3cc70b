package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Reservation=MockReservationService

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"sizopi/config"
	"sizopi/infras/kafka"
	"sizopi/infras/otel"
	"sizopi/infras/postgres"
	"sizopi/infras/s3"
	facilityModel "sizopi/internal/domains/facility/model"
	facilityService "sizopi/internal/domains/facility/service"
	"sizopi/internal/domains/reservation/model"
	"sizopi/internal/domains/reservation/model/dto"
	"sizopi/internal/domains/reservation/repository"
	"sizopi/shared"
	"sizopi/shared/cache"
	"sizopi/shared/constant"
	gDto "sizopi/shared/dto"
	"sizopi/shared/event"
	"sizopi/shared/failure"
	"sizopi/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// sortColumns maps the sort_by values lists accept to the qualified column
// they order by. Reads join fasilitas, so bare audit columns are ambiguous.
var sortColumns = map[string]string{
	model.FieldVisitDate:        model.TableName + "." + model.FieldVisitDate,
	model.FieldFacility:         model.TableName + "." + model.FieldFacility,
	model.FieldUsername:         model.TableName + "." + model.FieldUsername,
	model.FieldTickets:          model.TableName + "." + model.FieldTickets,
	model.FieldStatus:           model.TableName + "." + model.FieldStatus,
	facilityModel.FieldSchedule: facilityModel.TableName + "." + facilityModel.FieldSchedule,
	"created_at":                model.TableName + ".created_at",
}

// Reservation books, edits and cancels tickets. Every write that can add
// tickets holds the facility row lock while it checks capacity, so writers
// to the same facility are serialised.
type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Edit(ctx context.Context, req dto.EditReservationRequest) (dto.ReservationResponse, error)
	Cancel(ctx context.Context, req dto.CancelReservationRequest) error
	ListByUser(ctx context.Context, username string, params gDto.QueryParams) (dto.GetReservationsResponse, error)
	ListAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Export(ctx context.Context, filter gDto.FilterGroup) (dto.ExportResponse, error)
}

type serviceImpl struct {
	tx         postgres.Transactor
	repo       repository.Reservation
	facilities facilityService.Lifecycle
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	kafka      kafka.Client
	s3         s3.S3
}

func New(
	tx postgres.Transactor,
	repo repository.Reservation,
	facilities facilityService.Lifecycle,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	kafka kafka.Client,
	s3 s3.S3,
) Reservation {
	return &serviceImpl{
		tx:         tx,
		repo:       repo,
		facilities: facilities,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		kafka:      kafka,
		s3:         s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, actor, err := s.owner(ctx, req.Username)
	if err != nil {
		return res, err
	}

	visitDate, err := parseVisitDate(req.VisitDate)
	if err != nil {
		return res, err
	}

	key := model.Key{Username: owner, Facility: req.Facility, VisitDate: req.VisitDate}
	reservation := req.ToModel(owner, actor, visitDate)

	err = s.tx.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		facility, err := s.facilities.Lock(ctx, sqltx, req.Facility)
		if err != nil {
			return err //nolint:wrapcheck
		}

		existing, err := s.repo.GetForUpdateTx(ctx, sqltx, repository.ByKey(key))
		if err != nil {
			return err //nolint:wrapcheck
		}

		if existing.Username != constant.Empty {
			return failure.Conflict("a reservation for this facility on this date already exists, edit it instead") //nolint:wrapcheck
		}

		if err = s.ensureCapacity(ctx, sqltx, facility, req.VisitDate, req.Tickets, constant.Empty); err != nil {
			return err
		}

		reservation.Schedule = facility.Schedule

		return s.repo.InsertTx(ctx, sqltx, reservation) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("facility", req.Facility).Str("date", req.VisitDate).Msg("failed to create reservation")

		return res, failure.FromDatabase(err, "failed to create reservation")
	}

	res.FromModel(reservation)

	s.afterWrite(ctx, event.ReservationCreated, actor, res)

	return res, nil
}

func (s *serviceImpl) Edit(ctx context.Context, req dto.EditReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Edit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, actor, err := s.owner(ctx, req.Username)
	if err != nil {
		return res, err
	}

	targetDate := req.VisitDate
	if req.NewDate != constant.Empty {
		targetDate = req.NewDate
	}

	newVisitDate, err := parseVisitDate(targetDate)
	if err != nil {
		return res, err
	}

	key := model.Key{Username: owner, Facility: req.Facility, VisitDate: req.VisitDate}

	var updated model.Reservation

	err = s.tx.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		facility, err := s.facilities.Lock(ctx, sqltx, req.Facility)
		if err != nil {
			return err //nolint:wrapcheck
		}

		current, err := s.repo.GetForUpdateTx(ctx, sqltx, repository.ByKey(key))
		if err != nil {
			return err //nolint:wrapcheck
		}

		if current.Username == constant.Empty {
			return failure.NotFound("reservation not found") //nolint:wrapcheck
		}

		if targetDate != req.VisitDate {
			target := model.Key{Username: owner, Facility: req.Facility, VisitDate: targetDate}

			taken, err := s.repo.GetForUpdateTx(ctx, sqltx, repository.ByKey(target))
			if err != nil {
				return err //nolint:wrapcheck
			}

			if taken.Username != constant.Empty {
				return failure.Conflict("a reservation for this facility already exists on tanggal_baru") //nolint:wrapcheck
			}
		}

		updated = current
		updated.VisitDate = newVisitDate
		updated.Schedule = facility.Schedule
		updated.ModifiedAt = timezone.Now()
		updated.ModifiedBy = actor

		if req.Tickets > 0 {
			updated.Tickets = req.Tickets
		}

		if req.Status != constant.Empty {
			updated.Status = req.Status
		}

		// The reservation's own tickets are left out of the sum so that it
		// only competes with the other bookings on the target date.
		if updated.IsActive() {
			if err = s.ensureCapacity(ctx, sqltx, facility, targetDate, updated.Tickets, owner); err != nil {
				return err
			}
		}

		fields := map[string]any{
			model.FieldVisitDate:     targetDate,
			model.FieldTickets:       updated.Tickets,
			model.FieldStatus:        updated.Status,
			constant.FieldModifiedAt: updated.ModifiedAt,
			constant.FieldModifiedBy: updated.ModifiedBy,
		}

		_, err = s.repo.UpdateTx(ctx, sqltx, fields, repository.ByKey(key))

		return err //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("facility", req.Facility).Str("date", req.VisitDate).Msg("failed to edit reservation")

		return res, failure.FromDatabase(err, "failed to edit reservation")
	}

	res.FromModel(updated)

	s.afterWrite(ctx, event.ReservationUpdated, actor, res)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, req dto.CancelReservationRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, actor, err := s.owner(ctx, req.Username)
	if err != nil {
		return err
	}

	key := model.Key{Username: owner, Facility: req.Facility, VisitDate: req.VisitDate}

	deleted, err := s.repo.Delete(ctx, repository.ByKey(key))
	if err != nil {
		log.Error().Err(err).Str("facility", req.Facility).Str("date", req.VisitDate).Msg("failed to cancel reservation")

		return failure.FromDatabase(err, "failed to cancel reservation")
	}

	if deleted == 0 {
		return failure.NotFound("reservation not found") //nolint:wrapcheck
	}

	s.afterWrite(ctx, event.ReservationCancelled, actor, dto.ReservationResponse{
		Username:  owner,
		Facility:  req.Facility,
		VisitDate: req.VisitDate,
	})

	return nil
}

func (s *serviceImpl) ListByUser(ctx context.Context, username string, params gDto.QueryParams) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListByUser")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, role := shared.Actor(ctx)
	if role != constant.RoleStafAdmin && actor != username {
		return res, failure.Forbidden("visitors can only view their own reservations") //nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUsername,
				Value:    username,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	return s.list(ctx, params, filter)
}

func (s *serviceImpl) ListAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.list(ctx, params, filter)
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	params.RestrictSort(slices.Collect(maps.Keys(sortColumns)), model.FieldVisitDate, gDto.SortDirDesc)
	params.SortBy = sortColumns[params.SortBy]

	cacheKey := shared.BuildCacheKeyWithQuery(constant.CacheGetReservations, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.count(ctx, params, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, failure.FromDatabase(err, "failed to get reservations")
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(constant.CacheCountReservations, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, failure.FromDatabase(err, "failed to count reservations")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

// owner resolves whose reservation a request acts on. Visitors always act on
// their own; admin staff must name the visitor.
func (s *serviceImpl) owner(ctx context.Context, requested string) (owner, actor string, err error) {
	actor, role := shared.Actor(ctx)
	if actor == constant.Empty {
		return "", "", failure.Unauthorized("missing caller identity") //nolint:wrapcheck
	}

	switch role {
	case constant.RoleStafAdmin:
		if requested == constant.Empty {
			return "", "", failure.BadRequestFromString("username is required") //nolint:wrapcheck
		}

		return requested, actor, nil
	case constant.RolePengunjung:
		if requested != constant.Empty && requested != actor {
			return "", "", failure.Forbidden("visitors can only manage their own reservations") //nolint:wrapcheck
		}

		return actor, actor, nil
	default:
		return "", "", failure.ForbiddenError
	}
}

func (s *serviceImpl) ensureCapacity(ctx context.Context, sqltx *sqlx.Tx, facility facilityModel.Facility, date string, tickets int, excludeUsername string) error {
	booked, err := s.repo.SumActiveTx(ctx, sqltx, facility.Name, date, excludeUsername)
	if err != nil {
		return err //nolint:wrapcheck
	}

	left, err := remaining(facility.MaxCapacity, booked)
	if err != nil {
		return err
	}

	if tickets > left {
		return failure.CapacityExceeded(left) //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) afterWrite(ctx context.Context, eventType, actor string, res dto.ReservationResponse) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, constant.CacheGetReservations)
		shared.InvalidateCaches(c, s.cache, constant.CacheCountReservations)

		event.Publish(c, s.kafka, s.cfg.Kafka.Topics.Reservation, res.Facility, event.NewEnvelope(eventType, actor, res))
	}()
}

func parseVisitDate(value string) (time.Time, error) {
	parsed, err := timezone.ParseDate(value)
	if err != nil {
		return parsed, failure.BadRequestFromString(fmt.Sprintf("invalid visit date %q", value)) //nolint:wrapcheck
	}

	return parsed, nil
}
