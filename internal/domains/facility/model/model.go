package model

import (
	"sizopi/shared/model"
	"time"
)

const (
	TableName  = "fasilitas"
	EntityName = "facility"

	FieldName        = "nama"
	FieldSchedule    = "jadwal"
	FieldMaxCapacity = "kapasitas_max"
)

// Facility kinds as reported to visitors.
const (
	TypeAttraction = "atraksi"
	TypeRide       = "wahana"
)

type Facility struct {
	Name        string    `db:"nama"`
	Schedule    time.Time `db:"jadwal"`
	MaxCapacity int       `db:"kapasitas_max"`
	model.Metadata
}

// Changes lists the facility columns an attraction or ride update may touch.
// Nil fields are left as they are.
type Changes struct {
	Schedule    *time.Time
	MaxCapacity *int
}

func (c Changes) IsEmpty() bool {
	return c.Schedule == nil && c.MaxCapacity == nil
}
