package dto

import (
	"time"

	"sizopi/internal/domains/reservation/model"
	"sizopi/shared"
	"sizopi/shared/constant"
	gDto "sizopi/shared/dto"
	gModel "sizopi/shared/model"
	"sizopi/shared/timezone"
)

// CreateReservationRequest books tickets. Username is only honoured for
// admin staff booking on behalf of a visitor.
type CreateReservationRequest struct {
	Username  string `json:"username"          validate:"omitempty,max=50"`
	Facility  string `json:"nama_fasilitas"    validate:"required,notblank,max=50"`
	VisitDate string `json:"tanggal_kunjungan" validate:"required,dateonly"`
	Tickets   int    `json:"jumlah_tiket"      validate:"required,gt=0"`
}

func (c *CreateReservationRequest) ToModel(owner, actor string, visitDate time.Time) model.Reservation {
	return model.Reservation{
		Username:  owner,
		Facility:  c.Facility,
		VisitDate: visitDate,
		Tickets:   c.Tickets,
		Status:    model.StatusScheduled,
		Metadata:  gModel.NewMetadata(actor, timezone.Now()),
	}
}

// EditReservationRequest identifies a reservation by its original visit date.
// Empty or zero fields keep their current value.
type EditReservationRequest struct {
	Username  string `json:"username"          validate:"omitempty,max=50"`
	Facility  string `json:"nama_fasilitas"    validate:"required,notblank,max=50"`
	VisitDate string `json:"tanggal_kunjungan" validate:"required,dateonly"`
	NewDate   string `json:"tanggal_baru"      validate:"omitempty,dateonly"`
	Tickets   int    `json:"jumlah_tiket"      validate:"omitempty,gt=0"`
	Status    string `json:"status"            validate:"omitempty,oneof=Terjadwal Dibatalkan"`
}

type CancelReservationRequest struct {
	Username  string `json:"username"          validate:"omitempty,max=50"`
	Facility  string `json:"nama_fasilitas"    validate:"required,notblank,max=50"`
	VisitDate string `json:"tanggal_kunjungan" validate:"required,dateonly"`
}

type ReservationResponse struct {
	Username  string `json:"username"`
	Facility  string `json:"nama_fasilitas"`
	VisitDate string `json:"tanggal_kunjungan"`
	Tickets   int    `json:"jumlah_tiket"`
	Status    string `json:"status"`
	Schedule  string `json:"jadwal,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.Username = model.Username
	r.Facility = model.Facility
	r.VisitDate = timezone.FormatDate(model.VisitDate)
	r.Tickets = model.Tickets
	r.Status = model.Status

	if !model.Schedule.IsZero() {
		r.Schedule = model.Schedule.Format(constant.ScheduleFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

type CapacityResponse struct {
	Facility    string `json:"nama_fasilitas"`
	Date        string `json:"tanggal"`
	MaxCapacity int    `json:"kapasitas_max"`
	Available   int    `json:"kapasitas_tersedia"`
}

type FacilityAvailabilityResponse struct {
	Name        string `json:"nama_fasilitas"`
	Type        string `json:"jenis"`
	Schedule    string `json:"jadwal"`
	MaxCapacity int    `json:"kapasitas_max"`
	Available   int    `json:"kapasitas_tersedia"`
}

func (f *FacilityAvailabilityResponse) FromModel(model model.Availability, available int) {
	f.Name = model.Name
	f.Type = model.Type
	f.Schedule = model.Schedule.Format(constant.ScheduleFormat)
	f.MaxCapacity = model.MaxCapacity
	f.Available = available
}

type ExportResponse struct {
	URL   string `json:"url"`
	Total int    `json:"total"`
}
