package dto

import (
	"sizopi/internal/domains/ride/model"
	"sizopi/shared"
	"sizopi/shared/constant"
	"sizopi/shared/timezone"
)

type CreateRideRequest struct {
	Name        string `json:"nama_wahana"   validate:"required,notblank,max=50"`
	Rules       string `json:"peraturan"     validate:"required,notblank"`
	Schedule    string `json:"jadwal"        validate:"required,schedule"`
	MaxCapacity int    `json:"kapasitas_max" validate:"required,gt=0"`
}

type UpdateRideRequest struct {
	Name        string  `json:"nama_wahana"   validate:"required,notblank,max=50"`
	Rules       *string `json:"peraturan"     validate:"omitempty,notblank"`
	Schedule    *string `json:"jadwal"        validate:"omitempty,schedule"`
	MaxCapacity *int    `json:"kapasitas_max" validate:"omitempty,gt=0"`
}

type DeleteRideRequest struct {
	Name string `json:"nama_wahana" validate:"required,notblank,max=50"`
}

type RideResponse struct {
	Name        string `json:"nama_wahana"`
	Rules       string `json:"peraturan"`
	Schedule    string `json:"jadwal"`
	MaxCapacity int    `json:"kapasitas_max"`
	CreatedAt   string `json:"created_at"`
	ModifiedAt  string `json:"modified_at"`
	CreatedBy   string `json:"created_by"`
	ModifiedBy  string `json:"modified_by"`
}

func (r *RideResponse) FromModel(model model.Ride) {
	r.Name = model.Name
	r.Rules = model.Rules
	r.Schedule = model.Schedule.Format(constant.ScheduleFormat)
	r.MaxCapacity = model.MaxCapacity
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
	r.ModifiedAt = timezone.Format(model.ModifiedAt, constant.DateFormat)
	r.CreatedBy = model.CreatedBy
	r.ModifiedBy = model.ModifiedBy
}

type GetRidesResponse struct {
	Rides     []RideResponse `json:"rides"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRidesResponse) FromModels(models []model.Ride, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rides = make([]RideResponse, len(models))
	for i, mod := range models {
		r.Rides[i].FromModel(mod)
	}
}
