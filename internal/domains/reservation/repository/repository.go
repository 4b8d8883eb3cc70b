package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"sizopi/infras/otel"
	"sizopi/infras/postgres"
	facilityModel "sizopi/internal/domains/facility/model"
	"sizopi/internal/domains/reservation/model"
	"sizopi/shared/constant"
	gDto "sizopi/shared/dto"
	"sizopi/shared/logger"
	gRepo "sizopi/shared/repository"

	"github.com/jmoiron/sqlx"
)

const (
	querySumActive = `SELECT COALESCE(SUM(jumlah_tiket), 0)
		FROM reservasi
		WHERE nama_fasilitas = $1 AND tanggal_kunjungan = $2::date AND status = $3 AND username_p <> $4`

	queryMaxBooked = `SELECT COALESCE(MAX(daily.total), 0)
		FROM (
			SELECT SUM(jumlah_tiket) AS total
			FROM reservasi
			WHERE nama_fasilitas = $1 AND status = $2
			GROUP BY tanggal_kunjungan
		) daily`

	queryCountActive = `SELECT COUNT(*) FROM reservasi WHERE nama_fasilitas = $1 AND status = $2`

	queryAvailability = `SELECT f.nama,
			CASE
				WHEN a.nama_atraksi IS NOT NULL THEN $4::text
				WHEN w.nama_wahana IS NOT NULL THEN $5::text
				ELSE ''
			END AS jenis,
			f.jadwal,
			f.kapasitas_max,
			COALESCE(r.terpesan, 0) AS terpesan
		FROM fasilitas f
		LEFT JOIN atraksi a ON a.nama_atraksi = f.nama
		LEFT JOIN wahana w ON w.nama_wahana = f.nama
		LEFT JOIN (
			SELECT nama_fasilitas, SUM(jumlah_tiket) AS terpesan
			FROM reservasi
			WHERE tanggal_kunjungan = $1::date AND status = $2
			GROUP BY nama_fasilitas
		) r ON r.nama_fasilitas = f.nama
		WHERE ($3::text = '' OR f.nama = $3::text)
		ORDER BY f.nama`
)

type Reservation interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Reservation) error
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) (int64, error)
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (int64, error)

	// SumActiveTx totals active tickets for a facility on a date, leaving out
	// the rows of excludeUsername when it is set.
	SumActiveTx(ctx context.Context, sqltx *sqlx.Tx, facility, date, excludeUsername string) (int, error)
	// MaxBookedTx returns the highest number of active tickets booked on any single date.
	MaxBookedTx(ctx context.Context, sqltx *sqlx.Tx, facility string) (int, error)
	CountActiveTx(ctx context.Context, sqltx *sqlx.Tx, facility string) (int, error)
	// Availability lists facilities with their booked tickets on date. An
	// empty facility lists every facility.
	Availability(ctx context.Context, date, facility string) ([]model.Availability, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldUsername, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) SumActiveTx(ctx context.Context, sqltx *sqlx.Tx, facility, date, excludeUsername string) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.SumActiveTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, querySumActive)

	var total int
	if err := sqlx.GetContext(ctx, sqltx, &total, querySumActive, facility, date, model.StatusScheduled, excludeUsername); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to sum active tickets: %w", err)
	}

	return total, nil
}

func (r *repositoryImpl) MaxBookedTx(ctx context.Context, sqltx *sqlx.Tx, facility string) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.MaxBookedTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryMaxBooked)

	var total int
	if err := sqlx.GetContext(ctx, sqltx, &total, queryMaxBooked, facility, model.StatusScheduled); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to read busiest date: %w", err)
	}

	return total, nil
}

func (r *repositoryImpl) CountActiveTx(ctx context.Context, sqltx *sqlx.Tx, facility string) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CountActiveTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryCountActive)

	var count int
	if err := sqlx.GetContext(ctx, sqltx, &count, queryCountActive, facility, model.StatusScheduled); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count active reservations: %w", err)
	}

	return count, nil
}

func (r *repositoryImpl) Availability(ctx context.Context, date, facility string) ([]model.Availability, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.Availability")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryAvailability)

	rows := []model.Availability{}
	if err := sqlx.SelectContext(ctx, r.db.Read, &rows, queryAvailability,
		date, model.StatusScheduled, facility, facilityModel.TypeAttraction, facilityModel.TypeRide); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return rows, fmt.Errorf("failed to list facility availability: %w", err)
	}

	return rows, nil
}

// ByKey selects exactly one reservation.
func ByKey(key model.Key) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldUsername, Value: key.Username, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldFacility, Value: key.Facility, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldVisitDate, Value: key.VisitDate, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}

// CancelledAt selects the cancelled reservations of one facility.
func CancelledAt(facility string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldFacility, Value: facility, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusCancelled, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}
