package ride

import (
	"net/http"
	"sizopi/infras/otel"
	"sizopi/internal/domains/ride/model"
	"sizopi/internal/domains/ride/model/dto"
	"sizopi/internal/domains/ride/service"
	"sizopi/shared"
	"sizopi/shared/constant"
	gDto "sizopi/shared/dto"
	"sizopi/shared/validator"
	"sizopi/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Ride
	otel    otel.Otel
}

func New(service service.Ride, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/wahana", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetRides)
		routerGroup.Get("/{nama}", handler.GetRide)
		routerGroup.Post("/create", handler.CreateRide)
		routerGroup.Put("/", handler.UpdateRide)
		routerGroup.Delete("/", handler.DeleteRide)
	})
}

// CreateRide handles the creation of a new ride.
// @Summary Create a ride
// @Tags Ride
// @Accept json
// @Produce json
// @Param request body dto.CreateRideRequest true "Ride"
// @Success 200 {object} response.Data[dto.RideResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /wahana/create [post]
// @Security BearerAuth
func (handler *Handler) CreateRide(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRide")
	defer scope.End()

	var req dto.CreateRideRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	ride, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("ride", req.Name).Msg("failed to create ride")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Ride created successfully by user " + user)

	response.WithJSON(w, http.StatusOK, ride)
}

// GetRides lists rides.
// @Summary List rides
// @Tags Ride
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param nama_wahana query string false "Filter by name"
// @Success 200 {object} response.Data[dto.GetRidesResponse]
// @Failure 500 {object} response.Error
// @Router /wahana [get]
// @Security BearerAuth
func (handler *Handler) GetRides(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRides")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if name := r.URL.Query().Get(model.FieldName); name != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	rides, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rides")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rides)
}

// GetRide returns one ride.
// @Summary Get a ride
// @Tags Ride
// @Produce json
// @Param nama path string true "Ride name"
// @Success 200 {object} response.Data[dto.RideResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /wahana/{nama} [get]
// @Security BearerAuth
func (handler *Handler) GetRide(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRide")
	defer scope.End()

	name := chi.URLParam(r, constant.RequestParamName)

	ride, err := handler.service.Get(ctx, name)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("ride", name).Msg("failed to get ride")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, ride)
}

// UpdateRide updates an existing ride.
// @Summary Update a ride
// @Tags Ride
// @Accept json
// @Produce json
// @Param request body dto.UpdateRideRequest true "Changes"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /wahana [put]
// @Security BearerAuth
func (handler *Handler) UpdateRide(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRide")
	defer scope.End()

	var req dto.UpdateRideRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("ride", req.Name).Msg("failed to update ride")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Ride updated successfully")
}

// DeleteRide deletes a ride and its facility.
// @Summary Delete a ride
// @Tags Ride
// @Accept json
// @Produce json
// @Param request body dto.DeleteRideRequest true "Ride name"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Active reservations exist"
// @Failure 500 {object} response.Error
// @Router /wahana [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRide(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRide")
	defer scope.End()

	var req dto.DeleteRideRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, req.Name); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("ride", req.Name).Msg("failed to delete ride")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Ride deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Ride deleted successfully")
}
