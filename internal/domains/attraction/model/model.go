package model

import (
	"database/sql"
	"time"
)

const (
	TableName  = "atraksi"
	EntityName = "attraction"

	FieldName     = "nama_atraksi"
	FieldLocation = "lokasi"
)

const (
	AssignmentTableName  = "jadwal_penugasan"
	AssignmentEntityName = "assignment"

	FieldTrainer    = "username_lh"
	FieldAssignedAt = "tgl_penugasan"
)

const (
	ParticipationTableName  = "berpartisipasi"
	ParticipationEntityName = "participation"

	FieldFacility = "nama_fasilitas"
	FieldAnimalID = "id_hewan"
)

// Attraction is read together with its facility row and the trainer of its
// latest assignment.
type Attraction struct {
	Name        string         `db:"nama_atraksi"`
	Location    string         `db:"lokasi"`
	Schedule    time.Time      `db:"jadwal"        table:"fasilitas"`
	MaxCapacity int            `db:"kapasitas_max" table:"fasilitas"`
	Trainer     sql.NullString `db:"username_lh"   table:"penugasan"`
	CreatedAt   time.Time      `db:"created_at"    table:"fasilitas"`
	ModifiedAt  time.Time      `db:"modified_at"   table:"fasilitas"`
	CreatedBy   string         `db:"created_by"    table:"fasilitas"`
	ModifiedBy  string         `db:"modified_by"   table:"fasilitas"`
}

func (Attraction) GetJoinQuery() string {
	return `JOIN fasilitas ON fasilitas.nama = atraksi.nama_atraksi
		LEFT JOIN LATERAL (
			SELECT jp.username_lh
			FROM jadwal_penugasan jp
			WHERE jp.nama_atraksi = atraksi.nama_atraksi
			ORDER BY jp.tgl_penugasan DESC
			LIMIT 1
		) penugasan ON TRUE`
}

// Assignment puts a trainer on an attraction from AssignedAt on.
type Assignment struct {
	Trainer    string    `db:"username_lh"`
	AssignedAt time.Time `db:"tgl_penugasan"`
	Attraction string    `db:"nama_atraksi"`
}

// Participation links an animal to the facility it performs in.
type Participation struct {
	Facility string `db:"nama_fasilitas"`
	AnimalID string `db:"id_hewan"`
}
