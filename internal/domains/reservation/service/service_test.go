package service_test

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"sizopi/config"
	kafkaMocks "sizopi/infras/kafka/mocks"
	"sizopi/infras/otel/mocks"
	"sizopi/infras/postgres"
	pgMocks "sizopi/infras/postgres/mocks"
	s3Mocks "sizopi/infras/s3/mocks"
	facilityMocks "sizopi/internal/domains/facility/mocks"
	facilityModel "sizopi/internal/domains/facility/model"
	reservationMocks "sizopi/internal/domains/reservation/mocks"
	"sizopi/internal/domains/reservation/model"
	"sizopi/internal/domains/reservation/model/dto"
	"sizopi/internal/domains/reservation/service"
	cacheMocks "sizopi/shared/cache/mocks"
	"sizopi/shared/constant"
	gDto "sizopi/shared/dto"
	"sizopi/shared/failure"
)

type serviceMocks struct {
	tx         *pgMocks.MockTransactor
	repo       *reservationMocks.MockReservation
	facilities *facilityMocks.MockLifecycle
	cache      *cacheMocks.MockRedisCache
	kafka      *kafkaMocks.MockClient
	s3         *s3Mocks.MockS3
}

func newService(t *testing.T) (service.Reservation, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := serviceMocks{
		tx:         pgMocks.NewMockTransactor(ctrl),
		repo:       reservationMocks.NewMockReservation(ctrl),
		facilities: facilityMocks.NewMockLifecycle(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
		kafka:      kafkaMocks.NewMockClient(ctrl),
		s3:         s3Mocks.NewMockS3(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Topics.Reservation = "sizopi.reservation"
	cfg.External.S3.BucketName = "sizopi"
	cfg.App.Export.Directory = "exports"

	// Invalidation and publishing run after the response is built.
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(m.tx, m.repo, m.facilities, cfg, m.cache, mocks.NewOtel(), m.kafka, m.s3)

	return svc, m
}

func runInTx(m serviceMocks) {
	m.tx.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn postgres.TxFunc) error {
			return fn(nil)
		})
}

func adminCtx(username string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUsername, username)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleStafAdmin)
}

var whale = facilityModel.Facility{
	Name:        "Kolam Paus",
	Schedule:    time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	MaxCapacity: 50,
}

func TestReservationService_Create(t *testing.T) {
	req := dto.CreateReservationRequest{Facility: whale.Name, VisitDate: "2024-06-01", Tickets: 5}

	tests := []struct {
		name     string
		ctx      context.Context
		req      dto.CreateReservationRequest
		setup    func(m serviceMocks)
		wantCode int
	}{
		{
			name: "visitor books for themselves",
			ctx:  visitorCtx("ani"),
			req:  req,
			setup: func(m serviceMocks) {
				runInTx(m)
				m.facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), whale.Name).Return(whale, nil)
				m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)
				m.repo.EXPECT().SumActiveTx(gomock.Any(), gomock.Any(), whale.Name, "2024-06-01", constant.Empty).Return(40, nil)
				m.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, mod model.Reservation) error {
						assert.Equal(t, "ani", mod.Username)
						assert.Equal(t, model.StatusScheduled, mod.Status)
						assert.Equal(t, "ani", mod.CreatedBy)

						return nil
					})
			},
		},
		{
			name: "admin books on behalf of a visitor",
			ctx:  adminCtx("admin"),
			req:  dto.CreateReservationRequest{Username: "ani", Facility: whale.Name, VisitDate: "2024-06-01", Tickets: 5},
			setup: func(m serviceMocks) {
				runInTx(m)
				m.facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), whale.Name).Return(whale, nil)
				m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)
				m.repo.EXPECT().SumActiveTx(gomock.Any(), gomock.Any(), whale.Name, "2024-06-01", constant.Empty).Return(0, nil)
				m.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, mod model.Reservation) error {
						assert.Equal(t, "ani", mod.Username)
						assert.Equal(t, "admin", mod.CreatedBy)

						return nil
					})
			},
		},
		{
			name:     "missing identity",
			ctx:      context.Background(),
			req:      req,
			setup:    func(serviceMocks) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "admin without username",
			ctx:      adminCtx("admin"),
			req:      req,
			setup:    func(serviceMocks) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "visitor booking for someone else",
			ctx:      visitorCtx("ani"),
			req:      dto.CreateReservationRequest{Username: "budi", Facility: whale.Name, VisitDate: "2024-06-01", Tickets: 5},
			setup:    func(serviceMocks) {},
			wantCode: http.StatusForbidden,
		},
		{
			name: "keeper cannot book",
			ctx: context.WithValue(
				context.WithValue(context.Background(), constant.ContextKeyUsername, "joko"),
				constant.ContextKeyUserRole, constant.RolePenjagaHewan),
			req:      req,
			setup:    func(serviceMocks) {},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "invalid date",
			ctx:      visitorCtx("ani"),
			req:      dto.CreateReservationRequest{Facility: whale.Name, VisitDate: "2024-13-40", Tickets: 5},
			setup:    func(serviceMocks) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown facility",
			ctx:  visitorCtx("ani"),
			req:  req,
			setup: func(m serviceMocks) {
				runInTx(m)
				m.facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), whale.Name).Return(facilityModel.Facility{}, failure.NotFound("facility not found"))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "reservation already exists",
			ctx:  visitorCtx("ani"),
			req:  req,
			setup: func(m serviceMocks) {
				runInTx(m)
				m.facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), whale.Name).Return(whale, nil)
				m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Reservation{Username: "ani"}, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "not enough tickets left",
			ctx:  visitorCtx("ani"),
			req:  req,
			setup: func(m serviceMocks) {
				runInTx(m)
				m.facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), whale.Name).Return(whale, nil)
				m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)
				m.repo.EXPECT().SumActiveTx(gomock.Any(), gomock.Any(), whale.Name, "2024-06-01", constant.Empty).Return(48, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "database trigger rejects the booking",
			ctx:  visitorCtx("ani"),
			req:  req,
			setup: func(m serviceMocks) {
				runInTx(m)
				m.facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), whale.Name).Return(whale, nil)
				m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)
				m.repo.EXPECT().SumActiveTx(gomock.Any(), gomock.Any(), whale.Name, "2024-06-01", constant.Empty).Return(0, nil)
				m.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{
					Code:    constant.PqErrorCodeRaiseException,
					Message: "capacity exceeded: only 2 tickets remaining",
				})
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "database unavailable",
			ctx:  visitorCtx("ani"),
			req:  req,
			setup: func(m serviceMocks) {
				m.tx.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setup(m)

			res, err := svc.Create(tt.ctx, tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "ani", res.Username)
			assert.Equal(t, "2024-06-01", res.VisitDate)
			assert.Equal(t, "2024-06-01T10:00:00", res.Schedule)
		})
	}
}

func TestReservationService_CreateReportsRemaining(t *testing.T) {
	svc, m := newService(t)

	runInTx(m)
	m.facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), whale.Name).Return(whale, nil)
	m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)
	m.repo.EXPECT().SumActiveTx(gomock.Any(), gomock.Any(), whale.Name, "2024-06-01", constant.Empty).Return(30, nil)

	_, err := svc.Create(visitorCtx("budi"), dto.CreateReservationRequest{Facility: whale.Name, VisitDate: "2024-06-01", Tickets: 25})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "20")
}

func TestReservationService_Edit(t *testing.T) {
	current := model.Reservation{
		Username:  "ani",
		Facility:  whale.Name,
		VisitDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Tickets:   30,
		Status:    model.StatusScheduled,
	}

	t.Run("moves to a new date", func(t *testing.T) {
		svc, m := newService(t)

		runInTx(m)
		m.facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), whale.Name).Return(whale, nil)
		gomock.InOrder(
			m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(current, nil),
			m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil),
		)
		m.repo.EXPECT().SumActiveTx(gomock.Any(), gomock.Any(), whale.Name, "2024-06-02", "ani").Return(0, nil)
		m.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) (int64, error) {
				assert.Equal(t, "2024-06-02", fields[model.FieldVisitDate])
				assert.Equal(t, 45, fields[model.FieldTickets])
				assert.Equal(t, "ani", fields[constant.FieldModifiedBy])

				where, args := filter.GetWhereClause()
				assert.Contains(t, where, model.FieldVisitDate)
				assert.Equal(t, "2024-06-01", args[model.FieldVisitDate])

				return 1, nil
			})

		res, err := svc.Edit(visitorCtx("ani"), dto.EditReservationRequest{
			Facility:  whale.Name,
			VisitDate: "2024-06-01",
			NewDate:   "2024-06-02",
			Tickets:   45,
		})

		require.NoError(t, err)
		assert.Equal(t, "2024-06-02", res.VisitDate)
		assert.Equal(t, 45, res.Tickets)
	})

	t.Run("cancelling skips the capacity check", func(t *testing.T) {
		svc, m := newService(t)

		runInTx(m)
		m.facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), whale.Name).Return(whale, nil)
		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(current, nil)
		m.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)

		res, err := svc.Edit(visitorCtx("ani"), dto.EditReservationRequest{
			Facility:  whale.Name,
			VisitDate: "2024-06-01",
			Status:    model.StatusCancelled,
		})

		require.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, res.Status)
		assert.Equal(t, 30, res.Tickets)
	})

	t.Run("reservation not found", func(t *testing.T) {
		svc, m := newService(t)

		runInTx(m)
		m.facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), whale.Name).Return(whale, nil)
		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)

		_, err := svc.Edit(visitorCtx("ani"), dto.EditReservationRequest{Facility: whale.Name, VisitDate: "2024-06-01", Tickets: 2})

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("target date already booked", func(t *testing.T) {
		svc, m := newService(t)

		runInTx(m)
		m.facilities.EXPECT().Lock(gomock.Any(), gomock.Any(), whale.Name).Return(whale, nil)
		gomock.InOrder(
			m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(current, nil),
			m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Reservation{Username: "ani"}, nil),
		)

		_, err := svc.Edit(visitorCtx("ani"), dto.EditReservationRequest{
			Facility:  whale.Name,
			VisitDate: "2024-06-01",
			NewDate:   "2024-06-02",
		})

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestReservationService_Cancel(t *testing.T) {
	req := dto.CancelReservationRequest{Username: "ani", Facility: whale.Name, VisitDate: "2024-06-01"}

	t.Run("admin cancels a visitor's reservation", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int64, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "ani", args[model.FieldUsername])

				return 1, nil
			})

		require.NoError(t, svc.Cancel(adminCtx("admin"), req))
	})

	t.Run("nothing to cancel", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(0), nil)

		err := svc.Cancel(adminCtx("admin"), req)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("repository error stays internal", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("connection reset"))

		err := svc.Cancel(adminCtx("admin"), req)

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestReservationService_ListByUser(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}

	t.Run("visitor cannot read another visitor", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.ListByUser(visitorCtx("ani"), "budi", params)

		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("reads through the cache", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		byVisitDate := params
		byVisitDate.SortBy = "reservasi.tanggal_kunjungan"
		byVisitDate.SortDir = gDto.SortDirDesc

		m.repo.EXPECT().GetAll(gomock.Any(), byVisitDate, gomock.Any()).Return([]model.Reservation{{
			Username:  "ani",
			Facility:  whale.Name,
			VisitDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Tickets:   3,
			Status:    model.StatusScheduled,
		}}, nil)

		res, err := svc.ListByUser(visitorCtx("ani"), "ani", params)

		require.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)
		require.Len(t, res.Reservations, 1)
		assert.Equal(t, "2024-06-01", res.Reservations[0].VisitDate)
	})

	t.Run("cache hit", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, ok := value.(*dto.GetReservationsResponse)
				require.True(t, ok)

				res.TotalData = 7

				return nil
			})

		res, err := svc.ListByUser(adminCtx("admin"), "ani", params)

		require.NoError(t, err)
		assert.Equal(t, 7, res.TotalData)
	})
}

func TestReservationService_ListAllSortColumns(t *testing.T) {
	tests := []struct {
		name    string
		params  gDto.QueryParams
		wantBy  string
		wantDir string
	}{
		{
			name:    "unknown expression falls back to visit date",
			params:  gDto.QueryParams{SortBy: "(SELECT 1 FROM pg_sleep(5))", SortDir: gDto.SortDirAsc},
			wantBy:  "reservasi.tanggal_kunjungan",
			wantDir: gDto.SortDirDesc,
		},
		{
			name:    "audit column is qualified with the reservation table",
			params:  gDto.QueryParams{SortBy: "created_at", SortDir: gDto.SortDirAsc},
			wantBy:  "reservasi.created_at",
			wantDir: gDto.SortDirAsc,
		},
		{
			name:    "schedule is read from the facility",
			params:  gDto.QueryParams{SortBy: "jadwal"},
			wantBy:  "fasilitas.jadwal",
			wantDir: gDto.SortDirAsc,
		},
		{
			name:    "already qualified name is not accepted",
			params:  gDto.QueryParams{SortBy: "reservasi.status", SortDir: gDto.SortDirAsc},
			wantBy:  "reservasi.tanggal_kunjungan",
			wantDir: gDto.SortDirDesc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
			m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
			m.repo.EXPECT().
				GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Reservation, error) {
					assert.Equal(t, tt.wantBy, params.SortBy)
					assert.Equal(t, tt.wantDir, params.SortDir)

					return []model.Reservation{}, nil
				})

			_, err := svc.ListAll(adminCtx("admin"), tt.params, gDto.FilterGroup{})

			require.NoError(t, err)
		})
	}
}

func TestReservationService_Export(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Reservation{
		{
			Username:  "ani",
			Facility:  whale.Name,
			VisitDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Tickets:   3,
			Status:    model.StatusScheduled,
		},
	}, nil)
	m.s3.EXPECT().
		UploadFileBytes(gomock.Any(), "sizopi", "exports", gomock.Any(), constant.ContentTypeCSV, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, fileName, _ string, data []byte) (string, error) {
			assert.True(t, strings.HasPrefix(fileName, "reservasi-"))
			assert.True(t, strings.HasSuffix(fileName, ".csv"))

			records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, model.FieldUsername, records[0][0])
			assert.Equal(t, []string{"ani", whale.Name, "2024-06-01", "3", model.StatusScheduled}, records[1][:5])

			return "https://cdn.example.com/exports/" + fileName, nil
		})

	res, err := svc.Export(adminCtx("admin"), gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Contains(t, res.URL, "https://cdn.example.com/exports/reservasi-")
}

func TestReservationService_ExportUploadFails(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Reservation{}, nil)
	m.s3.EXPECT().
		UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("bucket missing"))

	_, err := svc.Export(adminCtx("admin"), gDto.FilterGroup{})

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}
