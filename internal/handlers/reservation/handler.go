package reservation

import (
	"net/http"
	"sizopi/infras/otel"
	"sizopi/internal/domains/reservation/model"
	"sizopi/internal/domains/reservation/model/dto"
	"sizopi/internal/domains/reservation/service"
	"sizopi/shared"
	"sizopi/shared/constant"
	gDto "sizopi/shared/dto"
	"sizopi/shared/failure"
	"sizopi/shared/timezone"
	"sizopi/shared/validator"
	"sizopi/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service  service.Reservation
	capacity service.Capacity
	otel     otel.Otel
}

func New(service service.Reservation, capacity service.Capacity, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		capacity: capacity,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservasi", func(routerGroup chi.Router) {
		routerGroup.Get("/fasilitas", handler.GetFacilities)
		routerGroup.Get("/kapasitas", handler.GetCapacity)
		routerGroup.Post("/create", handler.CreateReservation)
		routerGroup.Post("/edit", handler.EditReservation)
		routerGroup.Post("/cancel", handler.CancelReservation)
		routerGroup.Get("/user/{username}", handler.GetUserReservations)
		routerGroup.Get("/admin", handler.GetAllReservations)
		routerGroup.Get("/admin/export", handler.ExportReservations)
	})
}

// GetFacilities lists every facility with its remaining capacity on a date.
// @Summary List facilities with availability
// @Description Every attraction and ride with its schedule, maximum capacity and remaining tickets for the date (default today).
// @Tags Reservation
// @Produce json
// @Param tanggal query string false "Visit date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[[]dto.FacilityAvailabilityResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /reservasi/fasilitas [get]
// @Security BearerAuth
func (handler *Handler) GetFacilities(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFacilities")
	defer scope.End()

	date := r.URL.Query().Get(constant.RequestParamDate)
	if err := validator.ValidateVar(date, "omitempty,dateonly"); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	facilities, err := handler.capacity.List(ctx, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list facilities")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, facilities)
}

// GetCapacity returns the remaining tickets of one facility on a date.
// @Summary Remaining capacity
// @Tags Reservation
// @Produce json
// @Param nama_fasilitas query string true "Facility name"
// @Param tanggal query string false "Visit date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.CapacityResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /reservasi/kapasitas [get]
// @Security BearerAuth
func (handler *Handler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCapacity")
	defer scope.End()

	facility := r.URL.Query().Get(model.FieldFacility)
	date := r.URL.Query().Get(constant.RequestParamDate)

	if facility == constant.Empty {
		response.WithError(w, failure.BadRequestFromString("nama_fasilitas is required"))

		return
	}

	if err := validator.ValidateVar(date, "omitempty,dateonly"); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	capacity, err := handler.capacity.Available(ctx, facility, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("facility", facility).Msg("failed to get capacity")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, capacity)
}

// CreateReservation books tickets for a visitor.
// @Summary Create a reservation
// @Description Visitors book for themselves; admin staff pass the visitor username.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CreateReservationRequest true "Reservation"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 400 {object} response.Error "Validation failed or capacity exceeded"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /reservasi/create [post]
// @Security BearerAuth
func (handler *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	var req dto.CreateReservationRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	reservation, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("facility", req.Facility).Msg("failed to create reservation")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Reservation created successfully by user " + user)

	response.WithJSON(w, http.StatusOK, reservation)
}

// EditReservation changes date, ticket count or status of a reservation.
// @Summary Edit a reservation
// @Description The reservation is identified by facility and its current visit date. Capacity is re-checked for the new values.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.EditReservationRequest true "Changes"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /reservasi/edit [post]
// @Security BearerAuth
func (handler *Handler) EditReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".EditReservation")
	defer scope.End()

	var req dto.EditReservationRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	reservation, err := handler.service.Edit(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("facility", req.Facility).Msg("failed to edit reservation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// CancelReservation removes a reservation and frees its tickets.
// @Summary Cancel a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CancelReservationRequest true "Reservation key"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /reservasi/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelReservation")
	defer scope.End()

	var req dto.CancelReservationRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Cancel(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("facility", req.Facility).Msg("failed to cancel reservation")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Reservation cancelled successfully")
}

// GetUserReservations lists the reservations of one visitor.
// @Summary List a visitor's reservations
// @Tags Reservation
// @Produce json
// @Param username path string true "Visitor username"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetReservationsResponse]
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /reservasi/user/{username} [get]
// @Security BearerAuth
func (handler *Handler) GetUserReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserReservations")
	defer scope.End()

	username := chi.URLParam(r, constant.RequestParamUsername)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	reservations, err := handler.service.ListByUser(ctx, username, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("username", username).Msg("failed to get user reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetAllReservations lists every reservation for admin staff.
// @Summary List all reservations
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param nama_fasilitas query string false "Filter by facility"
// @Param tanggal_kunjungan query string false "Filter by visit date (YYYY-MM-DD)"
// @Param status query string false "Filter by status" Enums(Terjadwal, Dibatalkan)
// @Success 200 {object} response.Data[dto.GetReservationsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /reservasi/admin [get]
// @Security BearerAuth
func (handler *Handler) GetAllReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAllReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup, err := adminFilter(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	reservations, err := handler.service.ListAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// ExportReservations uploads the filtered reservations as CSV.
// @Summary Export reservations
// @Description Renders the reservations matching the filters as CSV, uploads it to object storage and returns its URL.
// @Tags Reservation
// @Produce json
// @Param nama_fasilitas query string false "Filter by facility"
// @Param tanggal_kunjungan query string false "Filter by visit date (YYYY-MM-DD)"
// @Param status query string false "Filter by status" Enums(Terjadwal, Dibatalkan)
// @Success 200 {object} response.Data[dto.ExportResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /reservasi/admin/export [get]
// @Security BearerAuth
func (handler *Handler) ExportReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportReservations")
	defer scope.End()

	filterGroup, err := adminFilter(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	export, err := handler.service.Export(ctx, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export reservations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservations exported to " + export.URL)

	response.WithJSON(w, http.StatusOK, export)
}

func adminFilter(r *http.Request) (gDto.FilterGroup, error) {
	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if facility := query.Get(model.FieldFacility); facility != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldFacility,
			Operator: gDto.FilterOperatorLike,
			Value:    facility,
			Table:    model.TableName,
		})
	}

	if date := query.Get(model.FieldVisitDate); date != constant.Empty {
		visitDate, err := timezone.ParseDate(date)
		if err != nil {
			return filterGroup, failure.BadRequestFromString("tanggal_kunjungan must be a date in YYYY-MM-DD format") //nolint:wrapcheck
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldVisitDate,
			Operator: gDto.FilterOperatorEq,
			Value:    visitDate,
			Table:    model.TableName,
		})
	}

	if status := query.Get(model.FieldStatus); status != constant.Empty {
		if err := validator.ValidateVar(status, "oneof=Terjadwal Dibatalkan"); err != nil {
			return filterGroup, err //nolint:wrapcheck
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	return filterGroup, nil
}
