package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mycobrun/geoengine/health"
)

// NewRouter mounts the health probes and the /v1 routes. Middlewares apply
// to every route, in order.
func NewRouter(h *Handler, checker *health.Checker, middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.Get("/health/live", checker.LivenessHandler())
	r.Get("/health/ready", checker.ReadinessHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/places/nearby", h.NearbyPlaces)
		r.Post("/places/search", h.SearchPlaces)

		r.Post("/maps/property", h.PropertyMap)
		r.Post("/maps/transportation", h.TransportationMap)
		r.Post("/maps/area", h.AreaMap)

		r.Get("/geocode", h.Geocode)
		r.Get("/geocode/reverse", h.ReverseGeocode)

		r.Post("/distance", h.Distance)

		r.Post("/streetview/coverage", h.StreetViewCoverage)
		r.Post("/streetview/url", h.StreetViewURLs)

		r.Post("/reports/property", h.PropertyReport)
	})

	return r
}

// RoutePattern returns the matched chi route pattern, used as the metrics
// route label so path parameters do not explode cardinality.
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
