package attraction

import (
	"net/http"
	"sizopi/infras/otel"
	"sizopi/internal/domains/attraction/model"
	"sizopi/internal/domains/attraction/model/dto"
	"sizopi/internal/domains/attraction/service"
	"sizopi/shared"
	"sizopi/shared/constant"
	gDto "sizopi/shared/dto"
	"sizopi/shared/validator"
	"sizopi/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Attraction
	otel    otel.Otel
}

func New(service service.Attraction, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/atraksi", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetAttractions)
		routerGroup.Get("/{nama}", handler.GetAttraction)
		routerGroup.Post("/create", handler.CreateAttraction)
		routerGroup.Put("/", handler.UpdateAttraction)
		routerGroup.Delete("/", handler.DeleteAttraction)
	})
}

// CreateAttraction handles the creation of a new attraction.
// @Summary Create an attraction
// @Description Creates the facility, the attraction, the trainer assignment and the participating animals in one transaction.
// @Tags Attraction
// @Accept json
// @Produce json
// @Param request body dto.CreateAttractionRequest true "Attraction"
// @Success 200 {object} response.Data[dto.AttractionResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /atraksi/create [post]
// @Security BearerAuth
func (handler *Handler) CreateAttraction(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAttraction")
	defer scope.End()

	var req dto.CreateAttractionRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	attraction, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("attraction", req.Name).Msg("failed to create attraction")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Attraction created successfully by user " + user)

	response.WithJSON(w, http.StatusOK, attraction)
}

// GetAttractions lists attractions.
// @Summary List attractions
// @Tags Attraction
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param nama_atraksi query string false "Filter by name"
// @Param lokasi query string false "Filter by location"
// @Success 200 {object} response.Data[dto.GetAttractionsResponse]
// @Failure 500 {object} response.Error
// @Router /atraksi [get]
// @Security BearerAuth
func (handler *Handler) GetAttractions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAttractions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	for _, field := range []string{model.FieldName, model.FieldLocation} {
		if value := r.URL.Query().Get(field); value != constant.Empty {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorLike,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	attractions, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get attractions")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, attractions)
}

// GetAttraction returns one attraction with its trainer and animals.
// @Summary Get an attraction
// @Tags Attraction
// @Produce json
// @Param nama path string true "Attraction name"
// @Success 200 {object} response.Data[dto.AttractionResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /atraksi/{nama} [get]
// @Security BearerAuth
func (handler *Handler) GetAttraction(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAttraction")
	defer scope.End()

	name := chi.URLParam(r, constant.RequestParamName)

	attraction, err := handler.service.Get(ctx, name)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("attraction", name).Msg("failed to get attraction")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, attraction)
}

// UpdateAttraction updates an existing attraction.
// @Summary Update an attraction
// @Description Only the fields present are changed. A present hewan list replaces the participating animals.
// @Tags Attraction
// @Accept json
// @Produce json
// @Param request body dto.UpdateAttractionRequest true "Changes"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /atraksi [put]
// @Security BearerAuth
func (handler *Handler) UpdateAttraction(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAttraction")
	defer scope.End()

	var req dto.UpdateAttractionRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("attraction", req.Name).Msg("failed to update attraction")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Attraction updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Attraction updated successfully")
}

// DeleteAttraction deletes an attraction and everything attached to it.
// @Summary Delete an attraction
// @Tags Attraction
// @Accept json
// @Produce json
// @Param request body dto.DeleteAttractionRequest true "Attraction name"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Active reservations exist"
// @Failure 500 {object} response.Error
// @Router /atraksi [delete]
// @Security BearerAuth
func (handler *Handler) DeleteAttraction(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAttraction")
	defer scope.End()

	var req dto.DeleteAttractionRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, req.Name); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("attraction", req.Name).Msg("failed to delete attraction")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Attraction deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Attraction deleted successfully")
}
