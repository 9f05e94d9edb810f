package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/sportshive/docs" // регистрирует swagger-спецификацию
	"github.com/Dosada05/sportshive/handlers"
	"github.com/Dosada05/sportshive/middleware"
	"github.com/Dosada05/sportshive/models"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Profile      *handlers.ProfileHandler
	Team         *handlers.TeamHandler
	Invitation   *handlers.InvitationHandler
	Tournament   *handlers.TournamentHandler
	Connection   *handlers.ConnectionHandler
	Notification *handlers.NotificationHandler
	Function     *handlers.FunctionHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "apikey", "x-client-info"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}
}

func SetupRoutes(r *chi.Mux, h Handlers, opts Options) {
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(corsOptions(opts.AllowedOrigins)))

	authenticate := middleware.Authenticate(opts.JWTSecret)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Бессерверные функции: отдельный CORS-контур без аутентификации по JWT.
	r.Route("/functions", func(r chi.Router) {
		r.Options("/*", h.Function.Preflight)
		r.Post("/chat", h.Function.Chat)
		r.Post("/cleanup", h.Function.Cleanup)
	})

	r.With(authenticate).Get("/ws/notifications", h.Notification.ServeWs)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.With(authenticate).Get("/me", h.Auth.Me)
		})

		r.Route("/me", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/profile", h.Profile.GetMyProfile)
			r.Put("/profile", h.Profile.UpsertMyProfile)
			r.Post("/avatar", h.Profile.UploadAvatar)
			r.Get("/status", h.Profile.GetSessionStatus)
			r.Get("/teams", h.Team.ListMyTeams)
			r.Get("/invitations", h.Invitation.ListMyInvitations)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.With(authenticate).Get("/", h.Profile.SearchProfiles)
			r.Get("/{userID}", h.Profile.GetProfile)
			r.With(authenticate).Get("/{userID}/overview", h.Profile.GetOverview)
		})

		r.Route("/teams", func(r chi.Router) {
			// Публичные маршруты просмотра
			r.Get("/", h.Team.ListTeams)
			r.Get("/{teamID}", h.Team.GetTeam)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/", h.Team.CreateTeam)
				r.Patch("/{teamID}", h.Team.UpdateTeam)
				r.Delete("/{teamID}", h.Team.DeleteTeam)
				r.Post("/{teamID}/logo", h.Team.UploadLogo)
				r.Delete("/{teamID}/members/{userID}", h.Team.RemoveMember)
				r.Post("/{teamID}/invitations", h.Invitation.InviteUser)
				r.Post("/{teamID}/join-requests", h.Invitation.RequestToJoin)
				r.Get("/{teamID}/join-requests", h.Invitation.ListJoinRequests)
			})
		})

		r.Route("/invitations/{invitationID}", func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/accept", h.Invitation.AcceptInvitation)
			r.Post("/decline", h.Invitation.DeclineInvitation)
			r.Delete("/", h.Invitation.CancelInvitation)
		})

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.Tournament.ListTournaments)
			r.Get("/{tournamentID}", h.Tournament.GetTournament)
			r.Get("/{tournamentID}/registrations", h.Tournament.ListRegistrations)
			r.Get("/{tournamentID}/bracket", h.Tournament.PreviewBracket)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.With(middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin)).
					Post("/", h.Tournament.CreateTournament)
				r.Patch("/{tournamentID}", h.Tournament.UpdateTournament)
				r.Delete("/{tournamentID}", h.Tournament.DeleteTournament)
				r.Post("/{tournamentID}/logo", h.Tournament.UploadLogo)
				r.Post("/{tournamentID}/registrations", h.Tournament.RegisterTeam)
			})
		})

		r.Route("/connections", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", h.Connection.ListConnections)
			r.Post("/", h.Connection.SendRequest)
			r.Get("/pending", h.Connection.ListPendingRequests)
			r.Get("/sent", h.Connection.ListSentRequests)
			r.Get("/status/{userID}", h.Connection.GetStatus)
			r.Post("/{connectionID}/accept", h.Connection.AcceptRequest)
			r.Post("/{connectionID}/decline", h.Connection.DeclineRequest)
			r.Delete("/{connectionID}", h.Connection.RemoveConnection)
		})

		r.With(authenticate).Get("/notifications/counts", h.Notification.GetCounts)
	})
}
