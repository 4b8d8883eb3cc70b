package service

//go:generate go run go.uber.org/mock/mockgen -source=./capacity.go -destination=../mocks/capacity_mock.go -package=mocks

import (
	"context"
	"fmt"

	"sizopi/infras/otel"
	"sizopi/internal/domains/reservation/model/dto"
	"sizopi/internal/domains/reservation/repository"
	"sizopi/shared/constant"
	"sizopi/shared/failure"
	"sizopi/shared/timezone"

	"github.com/rs/zerolog/log"
)

// Capacity answers how many tickets are still available. Reads are never
// cached since every booking changes the answer.
type Capacity interface {
	Available(ctx context.Context, facility, date string) (dto.CapacityResponse, error)
	List(ctx context.Context, date string) ([]dto.FacilityAvailabilityResponse, error)
}

type capacityImpl struct {
	repo repository.Reservation
	otel otel.Otel
}

func NewCapacity(repo repository.Reservation, otel otel.Otel) Capacity {
	return &capacityImpl{
		repo: repo,
		otel: otel,
	}
}

// remaining is the capacity left once booked tickets are taken. A negative
// result means the ledger already breaks the capacity rule.
func remaining(maxCapacity, booked int) (int, error) {
	left := maxCapacity - booked
	if left < 0 {
		return 0, failure.InternalError(fmt.Errorf( //nolint:wrapcheck
			"capacity inconsistency: %d tickets booked against a maximum of %d", booked, maxCapacity))
	}

	return left, nil
}

func (c *capacityImpl) Available(ctx context.Context, facility, date string) (res dto.CapacityResponse, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Available")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if date == constant.Empty {
		date = timezone.Today()
	}

	rows, err := c.repo.Availability(ctx, date, facility)
	if err != nil {
		log.Error().Err(err).Str("facility", facility).Msg("failed to read capacity")

		return res, failure.FromDatabase(err, "failed to read capacity")
	}

	if len(rows) == 0 {
		return res, failure.NotFound("facility not found") //nolint:wrapcheck
	}

	left, err := remaining(rows[0].MaxCapacity, rows[0].Booked)
	if err != nil {
		log.Error().Err(err).Str("facility", facility).Str("date", date).Msg("capacity invariant broken")

		return res, err
	}

	return dto.CapacityResponse{
		Facility:    rows[0].Name,
		Date:        date,
		MaxCapacity: rows[0].MaxCapacity,
		Available:   left,
	}, nil
}

func (c *capacityImpl) List(ctx context.Context, date string) (res []dto.FacilityAvailabilityResponse, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if date == constant.Empty {
		date = timezone.Today()
	}

	rows, err := c.repo.Availability(ctx, date, constant.Empty)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("failed to list facility availability")

		return res, failure.FromDatabase(err, "failed to list facilities")
	}

	res = make([]dto.FacilityAvailabilityResponse, len(rows))

	for i, row := range rows {
		left, err := remaining(row.MaxCapacity, row.Booked)
		if err != nil {
			log.Error().Err(err).Str("facility", row.Name).Str("date", date).Msg("capacity invariant broken")

			return nil, err
		}

		res[i].FromModel(row, left)
	}

	return res, nil
}
