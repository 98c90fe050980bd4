package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mathieulrl/world-chat-sub000/internal/handler"
	"github.com/mathieulrl/world-chat-sub000/internal/middleware"
	"github.com/mathieulrl/world-chat-sub000/internal/middleware/metrics"
)

// New creates and configures the gateway router.
func New(h *handler.Handler, authMw *middleware.Auth, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Everything else needs a wallet session.
		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())

			r.Post("/messages", h.SendMessage)
			r.Post("/messages/reindex", h.ReindexMessage)

			r.Get("/users/{address}/messages", h.GetUserMessages)
			r.Get("/users/{address}/messages/count", h.GetUserMessageCount)
			r.Get("/users/{address}/conversations", h.GetUserConversations)
			r.Get("/users/{address}/conversations/summary", h.GetConversationSummaries)

			r.Get("/conversations/{conversation}/messages", h.GetConversationMessages)
		})
	})

	return r
}
