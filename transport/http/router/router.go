package router

import (
	"sizopi/internal/handlers/attraction"
	"sizopi/internal/handlers/reservation"
	"sizopi/internal/handlers/ride"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Reservation reservation.Handler
	Attraction  attraction.Handler
	Ride        ride.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Reservation.Router(router)
	r.DomainHandlers.Attraction.Router(router)
	r.DomainHandlers.Ride.Router(router)
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
