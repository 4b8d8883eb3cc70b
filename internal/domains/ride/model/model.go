package model

import "time"

const (
	TableName  = "wahana"
	EntityName = "ride"

	FieldName  = "nama_wahana"
	FieldRules = "peraturan"
)

type Ride struct {
	Name        string    `db:"nama_wahana"`
	Rules       string    `db:"peraturan"`
	Schedule    time.Time `db:"jadwal"        table:"fasilitas"`
	MaxCapacity int       `db:"kapasitas_max" table:"fasilitas"`
	CreatedAt   time.Time `db:"created_at"    table:"fasilitas"`
	ModifiedAt  time.Time `db:"modified_at"   table:"fasilitas"`
	CreatedBy   string    `db:"created_by"    table:"fasilitas"`
	ModifiedBy  string    `db:"modified_by"   table:"fasilitas"`
}

func (Ride) GetJoinQuery() string {
	return "JOIN fasilitas ON fasilitas.nama = wahana.nama_wahana"
}
