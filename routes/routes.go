package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/bracket-engine/docs" // Регистрирует OpenAPI-описание
	"github.com/Dosada05/bracket-engine/handlers"
	"github.com/Dosada05/bracket-engine/middleware"
	"github.com/Dosada05/bracket-engine/models"
)

func SetupRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	bracketHandler *handlers.BracketHandler,
	metricsHandler http.Handler,
	jwtSecret string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(30 * time.Second))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))
	organiserOnly := middleware.Authorize(models.RoleOrganiser)

	router.Handle("/metrics", metricsHandler)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Post("/auth/token", authHandler.Login)

	router.Route("/brackets", func(r chi.Router) {
		// Защищенные маршруты только для организаторов
		r.With(authenticate, organiserOnly).Post("/", bracketHandler.CreateHandler)

		r.Route("/{bracketID}", func(r chi.Router) {
			// Публичный просмотр сетки
			r.Get("/", bracketHandler.GetByIDHandler)
			r.Get("/matches/ready", bracketHandler.ReadyMatchesHandler)
			r.Get("/standings", bracketHandler.StandingsHandler)
			r.Get("/participants/{participantID}/next-opponent", bracketHandler.NextOpponentHandler)
			r.Get("/participants/{participantID}/matches", bracketHandler.MatchesOfHandler)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)

				// Участник с токеном или организатор
				r.Post("/participants/{participantID}/report", bracketHandler.ParticipantReportHandler)

				r.Group(func(r chi.Router) {
					r.Use(organiserOnly)

					r.Post("/matches/{matchID}/result", bracketHandler.ReportResultHandler)
					r.Post("/matches/{matchID}/validate", bracketHandler.ValidateMatchHandler)
					r.Post("/participants/{participantID}/disqualify", bracketHandler.DisqualifyHandler)
					r.Post("/participants/{participantID}/token", authHandler.ParticipantTokenHandler)
					r.Post("/close", bracketHandler.CloseReportingHandler)
					r.Post("/open", bracketHandler.OpenReportingHandler)
				})
			})
		})
	})
}
