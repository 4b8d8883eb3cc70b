package service_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"sizopi/config"
	"sizopi/infras/kafka"
	"sizopi/infras/otel/mocks"
	"sizopi/infras/postgres"
	"sizopi/infras/postgres/postgrestest"
	s3Mocks "sizopi/infras/s3/mocks"
	facilityModel "sizopi/internal/domains/facility/model"
	facilityRepository "sizopi/internal/domains/facility/repository"
	facilityService "sizopi/internal/domains/facility/service"
	"sizopi/internal/domains/reservation/model/dto"
	"sizopi/internal/domains/reservation/repository"
	"sizopi/internal/domains/reservation/service"
	"sizopi/shared/failure"
)

const postgresVisitDate = "2024-06-01"

// reservationTables are emptied before each test.
var reservationTables = []string{
	"reservasi", "berpartisipasi", "jadwal_penugasan", "atraksi", "wahana", "fasilitas", "pengunjung", "pengguna",
}

func seedVisitors(t *testing.T, db *sqlx.DB, usernames ...string) {
	t.Helper()

	for _, username := range usernames {
		_, err := db.Exec(
			`INSERT INTO pengguna (username, email, nama_depan, nama_belakang) VALUES ($1, $2, $3, $4)`,
			username, username+"@sizopi.test", username, "Test",
		)
		require.NoError(t, err)

		_, err = db.Exec(`INSERT INTO pengunjung (username_p) VALUES ($1)`, username)
		require.NoError(t, err)
	}
}

func seedFacility(t *testing.T, db *sqlx.DB, name string, maxCapacity int) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO fasilitas (nama, jadwal, kapasitas_max) VALUES ($1, '2024-06-01 10:00:00', $2)`,
		name, maxCapacity,
	)
	require.NoError(t, err)
}

func newPostgresServices(t *testing.T, db *sqlx.DB) (service.Reservation, service.Capacity) {
	t.Helper()

	conn := &postgres.Connection{Read: db, Write: db}

	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	otl := mocks.NewOtel()

	repo := repository.New(conn, otl)
	facilities := facilityService.New(facilityRepository.New(conn, otl), repo, otl)
	svc := service.New(conn, repo, facilities, cfg, missCache{}, otl, kafka.New(cfg, otl), s3Mocks.NewMockS3(gomock.NewController(t)))

	return svc, service.NewCapacity(repo, otl)
}

func TestPostgres_ConcurrentCreatesNeverOverbook(t *testing.T) {
	db := postgrestest.Open(t, reservationTables...)

	const visitors = 10

	usernames := make([]string, visitors)
	for i := range usernames {
		usernames[i] = fmt.Sprintf("pengunjung_%02d", i)
	}

	seedVisitors(t, db, usernames...)
	seedFacility(t, db, kolamPaus, 20)

	svc, capacity := newPostgresServices(t, db)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)

	for _, username := range usernames {
		wg.Add(1)

		go func() {
			defer wg.Done()

			err := book(svc, username, postgresVisitDate, 3)
			if err != nil {
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err), err.Error())

				return
			}

			mu.Lock()
			accepted++
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Equal(t, 6, accepted)

	var booked int
	require.NoError(t, db.Get(&booked,
		`SELECT COALESCE(SUM(jumlah_tiket), 0) FROM reservasi WHERE nama_fasilitas = $1 AND status = 'Terjadwal'`,
		kolamPaus,
	))
	assert.Equal(t, 18, booked)

	remaining, err := capacity.Available(context.Background(), kolamPaus, postgresVisitDate)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining.Available)
}

func TestPostgres_TriggerRejectsDirectOverbooking(t *testing.T) {
	db := postgrestest.Open(t, reservationTables...)

	seedVisitors(t, db, "rina", "budi")
	seedFacility(t, db, kolamPaus, 5)

	_, err := db.Exec(
		`INSERT INTO reservasi (username_p, nama_fasilitas, tanggal_kunjungan, jumlah_tiket) VALUES ('rina', $1, $2, 4)`,
		kolamPaus, postgresVisitDate,
	)
	require.NoError(t, err)

	_, err = db.Exec(
		`INSERT INTO reservasi (username_p, nama_fasilitas, tanggal_kunjungan, jumlah_tiket) VALUES ('budi', $1, $2, 2)`,
		kolamPaus, postgresVisitDate,
	)
	require.Error(t, err)

	err = failure.FromDatabase(err, "failed to create reservation")

	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.Contains(t, err.Error(), "1 tickets remaining")
}

func TestPostgres_CancelFreesCapacity(t *testing.T) {
	db := postgrestest.Open(t, reservationTables...)

	seedVisitors(t, db, "rina", "budi")
	seedFacility(t, db, kolamPaus, 5)

	svc, _ := newPostgresServices(t, db)

	require.NoError(t, book(svc, "rina", postgresVisitDate, 5))
	assertCapacityExceeded(t, book(svc, "budi", postgresVisitDate, 1), 0)

	require.NoError(t, svc.Cancel(visitorCtx("rina"), dto.CancelReservationRequest{
		Facility:  kolamPaus,
		VisitDate: postgresVisitDate,
	}))
	require.NoError(t, book(svc, "budi", postgresVisitDate, 5))
}

func TestPostgres_ListReportsFacilityType(t *testing.T) {
	db := postgrestest.Open(t, reservationTables...)

	seedVisitors(t, db, "rina")
	seedFacility(t, db, kolamPaus, 50)
	seedFacility(t, db, "Roller Coaster", 20)
	seedFacility(t, db, "Taman Bermain", 10)

	_, err := db.Exec(`INSERT INTO atraksi (nama_atraksi, lokasi) VALUES ($1, 'Zona Air')`, kolamPaus)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO wahana (nama_wahana, peraturan) VALUES ('Roller Coaster', 'Tinggi minimal 140 cm')`)
	require.NoError(t, err)

	svc, capacity := newPostgresServices(t, db)
	require.NoError(t, book(svc, "rina", postgresVisitDate, 4))

	list, err := capacity.List(visitorCtx("rina"), postgresVisitDate)

	require.NoError(t, err)
	require.Len(t, list, 3)

	types := map[string]string{}
	for _, facility := range list {
		types[facility.Name] = facility.Type
	}

	assert.Equal(t, map[string]string{
		kolamPaus:        facilityModel.TypeAttraction,
		"Roller Coaster": facilityModel.TypeRide,
		"Taman Bermain":  "",
	}, types)
}
