package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminauthsvc "github.com/gittyapp/backend/internal/services/adminauth"
	authsvc "github.com/gittyapp/backend/internal/services/auth"
	matchessvc "github.com/gittyapp/backend/internal/services/matches"
	profilesvc "github.com/gittyapp/backend/internal/services/profiles"
	"github.com/gittyapp/backend/internal/services/session"
	"github.com/gittyapp/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	ProfileService *profilesvc.Service
	MatchService   *matchessvc.Service
	AdminService   *adminauthsvc.Service
	SessionBus     *session.Bus
	Logger         *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	healthHandler := handlers.NewHealthHandler()
	catalogHandler := handlers.NewCatalogHandler()
	meHandler := handlers.NewMeHandler(deps.ProfileService, deps.AuthService, deps.AdminService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	adminHandler := handlers.NewAdminHandler(deps.ProfileService, deps.MatchService)

	var profileSource session.ProfileSource
	if deps.ProfileService != nil {
		profileSource = storedProfiles{profiles: deps.ProfileService}
	}
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	sessionMW := SessionMiddleware(deps.AuthService, profileSource, deps.SessionBus, deps.Logger)
	adminMW := RequireAdmin(deps.AdminService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog", catalogHandler.Handle)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/code", authHandler.SendCode)
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
			r.Post("/refresh", authHandler.Refresh)
			r.With(authMW).Post("/logout", authHandler.Logout)
			r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
		})

		r.Group(func(r chi.Router) {
			r.Use(sessionMW)
			r.Get("/me", meHandler.Get)
			r.Patch("/me/profile", meHandler.UpdateProfile)
			r.Get("/matches/current", matchesHandler.Current)
			r.Get("/matches/history", matchesHandler.History)
			r.Post("/matches/{id}/respond", matchesHandler.Respond)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(sessionMW, adminMW)
			r.Get("/users", adminHandler.Users)
			r.Get("/matches", adminHandler.Matches)
			r.Post("/matches", adminHandler.CreateMatch)
			r.Delete("/matches/{id}", adminHandler.DeleteMatch)
			r.Post("/matches/{id}/no_match", adminHandler.MarkNoMatch)
		})
	})
}
