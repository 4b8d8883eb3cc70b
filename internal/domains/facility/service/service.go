package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"sizopi/infras/otel"
	"sizopi/internal/domains/facility/model"
	"sizopi/internal/domains/facility/repository"
	reservationRepository "sizopi/internal/domains/reservation/repository"
	"sizopi/shared/constant"
	"sizopi/shared/failure"
	"sizopi/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Lifecycle holds the facility steps shared by attractions and rides. Every
// method runs inside the caller's transaction.
type Lifecycle interface {
	Create(ctx context.Context, sqltx *sqlx.Tx, facility model.Facility) error
	// Lock reads the facility and holds its row lock until the transaction
	// ends. A missing facility is reported as not found.
	Lock(ctx context.Context, sqltx *sqlx.Tx, name string) (model.Facility, error)
	Update(ctx context.Context, sqltx *sqlx.Tx, current model.Facility, changes model.Changes, actor string) error
	// Release refuses while active reservations reference the facility and
	// removes the cancelled ones so the facility row can go.
	Release(ctx context.Context, sqltx *sqlx.Tx, name string) error
	Delete(ctx context.Context, sqltx *sqlx.Tx, name string) error
}

type serviceImpl struct {
	repo         repository.Facility
	reservations reservationRepository.Reservation
	otel         otel.Otel
}

func New(repo repository.Facility, reservations reservationRepository.Reservation, otel otel.Otel) Lifecycle {
	return &serviceImpl{
		repo:         repo,
		reservations: reservations,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, sqltx *sqlx.Tx, facility model.Facility) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".facility.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.repo.InsertTx(ctx, sqltx, facility); err != nil {
		log.Error().Err(err).Str("facility", facility.Name).Msg("failed to insert facility")

		return fmt.Errorf("failed to insert facility: %w", err)
	}

	return nil
}

func (s *serviceImpl) Lock(ctx context.Context, sqltx *sqlx.Tx, name string) (res model.Facility, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".facility.Lock")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = s.repo.GetForUpdateTx(ctx, sqltx, repository.ByName(name))
	if err != nil {
		log.Error().Err(err).Str("facility", name).Msg("failed to lock facility")

		return res, fmt.Errorf("failed to lock facility: %w", err)
	}

	if res.Name == constant.Empty {
		return res, failure.NotFound("facility not found") //nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, sqltx *sqlx.Tx, current model.Facility, changes model.Changes, actor string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".facility.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if changes.IsEmpty() {
		return nil
	}

	fields := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	if changes.Schedule != nil {
		fields[model.FieldSchedule] = *changes.Schedule
	}

	if changes.MaxCapacity != nil {
		if *changes.MaxCapacity < current.MaxCapacity {
			booked, err := s.reservations.MaxBookedTx(ctx, sqltx, current.Name)
			if err != nil {
				return fmt.Errorf("failed to check booked tickets: %w", err)
			}

			if *changes.MaxCapacity < booked {
				return failure.BadRequestFromString(fmt.Sprintf( //nolint:wrapcheck
					"kapasitas_max cannot be lower than %d tickets already booked on a single date", booked))
			}
		}

		fields[model.FieldMaxCapacity] = *changes.MaxCapacity
	}

	if _, err = s.repo.UpdateTx(ctx, sqltx, fields, repository.ByName(current.Name)); err != nil {
		log.Error().Err(err).Str("facility", current.Name).Msg("failed to update facility")

		return fmt.Errorf("failed to update facility: %w", err)
	}

	return nil
}

func (s *serviceImpl) Release(ctx context.Context, sqltx *sqlx.Tx, name string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".facility.Release")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	active, err := s.reservations.CountActiveTx(ctx, sqltx, name)
	if err != nil {
		return fmt.Errorf("failed to count active reservations: %w", err)
	}

	if active > 0 {
		return failure.Conflict(fmt.Sprintf( //nolint:wrapcheck
			"facility %s still has %d active reservations", name, active))
	}

	removed, err := s.reservations.DeleteTx(ctx, sqltx, reservationRepository.CancelledAt(name))
	if err != nil {
		return fmt.Errorf("failed to remove cancelled reservations: %w", err)
	}

	log.Debug().Str("facility", name).Int64("removed", removed).Msg("cancelled reservations removed")

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, sqltx *sqlx.Tx, name string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".facility.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	deleted, err := s.repo.DeleteTx(ctx, sqltx, repository.ByName(name))
	if err != nil {
		log.Error().Err(err).Str("facility", name).Msg("failed to delete facility")

		return fmt.Errorf("failed to delete facility: %w", err)
	}

	if deleted == 0 {
		return failure.NotFound("facility not found") //nolint:wrapcheck
	}

	return nil
}
