package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/ijalalfrz/award-search-crawler/internal/app/config"
	"github.com/ijalalfrz/award-search-crawler/internal/app/dto"
	"github.com/ijalalfrz/award-search-crawler/internal/app/endpoints"
	httptransport "github.com/ijalalfrz/award-search-crawler/internal/pkg/transport/http"
)

// MakeHTTPRouter builds the HTTP router with all the service endpoints.
func MakeHTTPRouter(
	cfg *config.Config,
	endpts endpoints.Endpoints,
) *chi.Mux {
	router := chi.NewRouter()

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1/awards", func(router chi.Router) {
		router.Use(
			httptransport.RequestID(),
			httptransport.RequestLogger(),
			httptransport.CORSMiddleware(cfg.HTTP.OriginList()),
			httptransport.Recoverer(slog.Default()),
			render.SetContentType(render.ContentTypeJSON),
		)

		router.Post("/search", httptransport.MakeHandlerFunc(
			endpts.AwardEndpoint.SearchAwards,
			httptransport.DecodeRequest[dto.AwardSearchRequest],
			httptransport.ResponseWithBody,
		))

		router.Get("/carriers", httptransport.MakeHandlerFunc(
			endpts.AwardEndpoint.ListCarriers,
			httptransport.DecodeNothing,
			httptransport.ResponseWithBody,
		))
	})

	return router
}
