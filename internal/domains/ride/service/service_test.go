package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"sizopi/config"
	"sizopi/infras/kafka"
	"sizopi/infras/otel/mocks"
	"sizopi/infras/postgres"
	pgMocks "sizopi/infras/postgres/mocks"
	facilityMocks "sizopi/internal/domains/facility/mocks"
	facilityModel "sizopi/internal/domains/facility/model"
	rideMocks "sizopi/internal/domains/ride/mocks"
	"sizopi/internal/domains/ride/model"
	"sizopi/internal/domains/ride/model/dto"
	"sizopi/internal/domains/ride/service"
	cacheMocks "sizopi/shared/cache/mocks"
	"sizopi/shared/constant"
	"sizopi/shared/failure"
)

const rollerCoaster = "Roller Coaster"

func newService(t *testing.T) (service.Ride, *pgMocks.MockTransactor, *rideMocks.MockRide, *facilityMocks.MockLifecycle, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	tx := pgMocks.NewMockTransactor(ctrl)
	repo := rideMocks.NewMockRide(ctrl)
	facilities := facilityMocks.NewMockLifecycle(ctrl)
	redis := cacheMocks.NewMockRedisCache(ctrl)

	redis.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redis.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	otl := mocks.NewOtel()

	return service.New(tx, repo, facilities, cfg, redis, otl, kafka.New(cfg, otl)), tx, repo, facilities, redis
}

func runInTx(tx *pgMocks.MockTransactor) {
	tx.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn postgres.TxFunc) error { return fn(nil) })
}

func adminCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUsername, "admin")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleStafAdmin)
}

func TestRideService_Create(t *testing.T) {
	req := dto.CreateRideRequest{
		Name:        rollerCoaster,
		Rules:       "Tinggi minimal 140 cm",
		Schedule:    "2024-06-01T13:00:00",
		MaxCapacity: 20,
	}

	t.Run("facility and ride rows are written together", func(t *testing.T) {
		svc, tx, repo, facilities, _ := newService(t)

		runInTx(tx)
		gomock.InOrder(
			facilities.EXPECT().
				Create(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *sqlx.Tx, facility facilityModel.Facility) error {
					assert.Equal(t, rollerCoaster, facility.Name)
					assert.Equal(t, 20, facility.MaxCapacity)

					return nil
				}),
			repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), model.Ride{Name: rollerCoaster, Rules: req.Rules}).Return(nil),
		)

		res, err := svc.Create(adminCtx(), req)

		require.NoError(t, err)
		assert.Equal(t, "2024-06-01T13:00:00", res.Schedule)
		assert.Equal(t, "admin", res.CreatedBy)
	})

	t.Run("ride insert failure is reported", func(t *testing.T) {
		svc, tx, repo, facilities, _ := newService(t)

		runInTx(tx)
		facilities.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		_, err := svc.Create(adminCtx(), req)

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestRideService_Update(t *testing.T) {
	current := facilityModel.Facility{Name: rollerCoaster, MaxCapacity: 20}

	t.Run("rules and schedule", func(t *testing.T) {
		svc, tx, repo, facilities, _ := newService(t)

		rules := "Dilarang membawa makanan"
		schedule := "2024-06-01T15:00:00"

		runInTx(tx)
		facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), rollerCoaster).Return(current, nil)
		repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
		facilities.EXPECT().
			Update(gomock.Any(), gomock.Any(), current, gomock.Any(), "admin").
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, _ facilityModel.Facility, changes facilityModel.Changes, _ string) error {
				require.NotNil(t, changes.Schedule)
				assert.Equal(t, time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC), *changes.Schedule)

				return nil
			})
		repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), map[string]any{model.FieldRules: rules}, gomock.Any()).
			Return(int64(1), nil)

		require.NoError(t, svc.Update(adminCtx(), dto.UpdateRideRequest{Name: rollerCoaster, Rules: &rules, Schedule: &schedule}))
	})

	t.Run("missing ride", func(t *testing.T) {
		svc, tx, _, facilities, _ := newService(t)

		runInTx(tx)
		facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), rollerCoaster).Return(facilityModel.Facility{}, failure.NotFound("facility not found"))

		err := svc.Update(adminCtx(), dto.UpdateRideRequest{Name: rollerCoaster})

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("capacity below booked tickets", func(t *testing.T) {
		svc, tx, repo, facilities, _ := newService(t)

		capacity := 5

		runInTx(tx)
		facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), rollerCoaster).Return(current, nil)
		repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
		facilities.EXPECT().
			Update(gomock.Any(), gomock.Any(), current, gomock.Any(), "admin").
			Return(failure.BadRequestFromString("kapasitas_max 5 is below the 12 tickets already booked"))

		err := svc.Update(adminCtx(), dto.UpdateRideRequest{Name: rollerCoaster, MaxCapacity: &capacity})

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("invalid schedule never opens a transaction", func(t *testing.T) {
		svc, _, _, _, _ := newService(t)

		schedule := "jam tiga"

		err := svc.Update(adminCtx(), dto.UpdateRideRequest{Name: rollerCoaster, Schedule: &schedule})

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestRideService_Delete(t *testing.T) {
	t.Run("ride row goes before facility row", func(t *testing.T) {
		svc, tx, repo, facilities, _ := newService(t)

		runInTx(tx)
		gomock.InOrder(
			facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), rollerCoaster).Return(facilityModel.Facility{Name: rollerCoaster}, nil),
			repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil),
			facilities.EXPECT().Release(gomock.Any(), gomock.Any(), rollerCoaster).Return(nil),
			repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil),
			facilities.EXPECT().Delete(gomock.Any(), gomock.Any(), rollerCoaster).Return(nil),
		)

		require.NoError(t, svc.Delete(adminCtx(), rollerCoaster))
	})

	t.Run("facility delete failure fails the whole transaction", func(t *testing.T) {
		svc, tx, repo, facilities, _ := newService(t)

		var txErr error

		tx.EXPECT().
			WithTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fn postgres.TxFunc) error {
				txErr = fn(nil)

				return txErr
			})
		facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), rollerCoaster).Return(facilityModel.Facility{Name: rollerCoaster}, nil)
		repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
		facilities.EXPECT().Release(gomock.Any(), gomock.Any(), rollerCoaster).Return(nil)
		repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		facilities.EXPECT().Delete(gomock.Any(), gomock.Any(), rollerCoaster).Return(errors.New("lock timeout"))

		err := svc.Delete(adminCtx(), rollerCoaster)

		require.Error(t, err)
		require.Error(t, txErr, "the transaction body must fail so the ride row is rolled back")
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})

	t.Run("attraction name is not a ride", func(t *testing.T) {
		svc, tx, repo, facilities, _ := newService(t)

		runInTx(tx)
		facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), "Kolam Paus").Return(facilityModel.Facility{Name: "Kolam Paus"}, nil)
		repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Delete(adminCtx(), "Kolam Paus")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRideService_Get(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		svc, _, _, _, redis := newService(t)

		redis.EXPECT().
			Get(gomock.Any(), "ride:get:"+rollerCoaster, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*value.(*dto.RideResponse) = dto.RideResponse{Name: rollerCoaster, MaxCapacity: 20}

				return nil
			})

		res, err := svc.Get(adminCtx(), rollerCoaster)

		require.NoError(t, err)
		assert.Equal(t, 20, res.MaxCapacity)
	})

	t.Run("not found", func(t *testing.T) {
		svc, _, repo, _, redis := newService(t)

		redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Ride{}, nil)

		_, err := svc.Get(adminCtx(), rollerCoaster)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
