package dto

import (
	"sizopi/internal/domains/attraction/model"
	"sizopi/shared"
	"sizopi/shared/constant"
	"sizopi/shared/timezone"
)

type CreateAttractionRequest struct {
	Name        string   `json:"nama_atraksi"  validate:"required,notblank,max=50"`
	Location    string   `json:"lokasi"        validate:"required,notblank,max=100"`
	Schedule    string   `json:"jadwal"        validate:"required,schedule"`
	MaxCapacity int      `json:"kapasitas_max" validate:"required,gt=0"`
	Trainer     string   `json:"pelatih"       validate:"required,notblank,max=50"`
	AnimalIDs   []string `json:"hewan"         validate:"omitempty,unique,dive,uuid"`
}

// UpdateAttractionRequest changes only the fields that are set. A non-nil
// AnimalIDs replaces the whole participant set, so an empty list removes
// every animal.
type UpdateAttractionRequest struct {
	Name        string    `json:"nama_atraksi"  validate:"required,notblank,max=50"`
	Location    *string   `json:"lokasi"        validate:"omitempty,notblank,max=100"`
	Schedule    *string   `json:"jadwal"        validate:"omitempty,schedule"`
	MaxCapacity *int      `json:"kapasitas_max" validate:"omitempty,gt=0"`
	Trainer     *string   `json:"pelatih"       validate:"omitempty,notblank,max=50"`
	AnimalIDs   *[]string `json:"hewan"         validate:"omitempty,unique,dive,uuid"`
}

type DeleteAttractionRequest struct {
	Name string `json:"nama_atraksi" validate:"required,notblank,max=50"`
}

type AttractionResponse struct {
	Name        string   `json:"nama_atraksi"`
	Location    string   `json:"lokasi"`
	Schedule    string   `json:"jadwal"`
	MaxCapacity int      `json:"kapasitas_max"`
	Trainer     string   `json:"pelatih,omitempty"`
	AnimalIDs   []string `json:"hewan,omitempty"`
	CreatedAt   string   `json:"created_at"`
	ModifiedAt  string   `json:"modified_at"`
	CreatedBy   string   `json:"created_by"`
	ModifiedBy  string   `json:"modified_by"`
}

func (a *AttractionResponse) FromModel(model model.Attraction) {
	a.Name = model.Name
	a.Location = model.Location
	a.Schedule = model.Schedule.Format(constant.ScheduleFormat)
	a.MaxCapacity = model.MaxCapacity
	a.Trainer = model.Trainer.String
	a.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
	a.ModifiedAt = timezone.Format(model.ModifiedAt, constant.DateFormat)
	a.CreatedBy = model.CreatedBy
	a.ModifiedBy = model.ModifiedBy
}

func (a *AttractionResponse) WithParticipants(participants []model.Participation) {
	a.AnimalIDs = make([]string, len(participants))
	for i, participant := range participants {
		a.AnimalIDs[i] = participant.AnimalID
	}
}

type GetAttractionsResponse struct {
	Attractions []AttractionResponse `json:"attractions"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (r *GetAttractionsResponse) FromModels(models []model.Attraction, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Attractions = make([]AttractionResponse, len(models))
	for i, mod := range models {
		r.Attractions[i].FromModel(mod)
	}
}
