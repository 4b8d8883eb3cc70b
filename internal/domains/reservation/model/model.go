package model

import (
	"sizopi/shared/model"
	"time"
)

const (
	TableName  = "reservasi"
	EntityName = "reservation"

	FieldUsername  = "username_p"
	FieldFacility  = "nama_fasilitas"
	FieldVisitDate = "tanggal_kunjungan"
	FieldTickets   = "jumlah_tiket"
	FieldStatus    = "status"
)

const (
	StatusScheduled = "Terjadwal"
	StatusCancelled = "Dibatalkan"
)

type Reservation struct {
	Username  string    `db:"username_p"`
	Facility  string    `db:"nama_fasilitas"`
	VisitDate time.Time `db:"tanggal_kunjungan"`
	Tickets   int       `db:"jumlah_tiket"`
	Status    string    `db:"status"`
	Schedule  time.Time `db:"jadwal"            table:"fasilitas"`
	model.Metadata
}

func (Reservation) GetJoinQuery() string {
	return "JOIN fasilitas ON fasilitas.nama = reservasi.nama_fasilitas"
}

func (r Reservation) IsActive() bool {
	return r.Status == StatusScheduled
}

// Key identifies a reservation. VisitDate is a YYYY-MM-DD calendar date.
type Key struct {
	Username  string
	Facility  string
	VisitDate string
}

// Availability is one facility with the tickets already booked on a date.
type Availability struct {
	Name        string    `db:"nama"`
	Type        string    `db:"jenis"`
	Schedule    time.Time `db:"jadwal"`
	MaxCapacity int       `db:"kapasitas_max"`
	Booked      int       `db:"terpesan"`
}
