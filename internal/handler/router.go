package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/soullift/soul-hug/backend/internal/handler/composeapi"
	"github.com/soullift/soul-hug/backend/internal/handler/musicapi"
	"github.com/soullift/soul-hug/backend/internal/handler/record"
	sessionHandler "github.com/soullift/soul-hug/backend/internal/handler/session"
	middlewarePkg "github.com/soullift/soul-hug/backend/internal/middleware"
	"github.com/soullift/soul-hug/backend/internal/service/compose"
	"github.com/soullift/soul-hug/backend/internal/service/hugsession"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(sessions *hugsession.Service, composer *compose.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		sessionHandler.New(sessions).RegisterRoutes(api)
		composeapi.New(composer).RegisterRoutes(api)
		musicapi.New().RegisterRoutes(api)
		record.New(sessions).RegisterRoutes(api)
	})

	return r
}
