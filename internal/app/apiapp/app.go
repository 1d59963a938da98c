package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gittyapp/backend/internal/config"
	"github.com/gittyapp/backend/internal/infra/supabase"
	"github.com/gittyapp/backend/internal/repo/dualrepo"
	pgrepo "github.com/gittyapp/backend/internal/repo/postgres"
	redrepo "github.com/gittyapp/backend/internal/repo/redis"
	remoterepo "github.com/gittyapp/backend/internal/repo/remote"
	adminauthsvc "github.com/gittyapp/backend/internal/services/adminauth"
	authsvc "github.com/gittyapp/backend/internal/services/auth"
	matchessvc "github.com/gittyapp/backend/internal/services/matches"
	profilesvc "github.com/gittyapp/backend/internal/services/profiles"
	ratesvc "github.com/gittyapp/backend/internal/services/rate"
	"github.com/gittyapp/backend/internal/services/session"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	mode := dualrepo.NormalizeMode(cfg.Gateway.Mode)

	var pool *pgxpool.Pool
	if mode != dualrepo.ModeREST {
		if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
			log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
		} else {
			pool = p
		}
	}

	var gateway *supabase.Client
	if mode != dualrepo.ModeDB {
		if c, err := supabase.NewClient(cfg.Gateway.URL, cfg.Gateway.AnonKey, cfg.Gateway.ServiceKey, cfg.Gateway.Timeout); err != nil {
			log.Warn("gateway init failed, continuing in degraded mode", zap.Error(err))
		} else {
			gateway = c
		}
	}

	var (
		restMatches, dbMatches   dualrepo.MatchStore
		restProfiles, dbProfiles dualrepo.ProfileStore
		remoteAuth               authsvc.RemoteAuth
	)
	if gateway != nil {
		restMatches = remoterepo.NewMatchRepo(gateway)
		restProfiles = remoterepo.NewProfileRepo(gateway)
		remoteAuth = gateway
	}
	if pool != nil {
		dbMatches = pgrepo.NewMatchRepo(pool)
		dbProfiles = pgrepo.NewProfileRepo(pool)
	}
	matchRepo := dualrepo.NewMatchRepo(restMatches, dbMatches, mode)
	profileRepo := dualrepo.NewProfileRepo(restProfiles, dbProfiles, mode)

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	cacheRepo := redrepo.NewCacheRepo(redisClient, cfg.Auth.ProfileCacheTTL)

	bus := session.NewBus()
	bus.Subscribe(func(_ context.Context, ev session.Event) {
		log.Debug("session event",
			zap.String("kind", string(ev.Kind)),
			zap.String("user_id", ev.UserID.String()),
		)
	})

	profileService := profilesvc.NewService(profileRepo, cacheRepo, log)

	credentials, err := authsvc.NewCredentials(cfg.Auth.CredentialSecret, cfg.Auth.EmailDomain)
	if err != nil {
		return nil, fmt.Errorf("init credentials: %w", err)
	}
	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Rate.SignInPerWindow, cfg.Rate.SignInWindow)
	authService := authsvc.NewService(authsvc.Dependencies{
		JWT:         jwtManager,
		Sessions:    sessionRepo,
		Remote:      remoteAuth,
		Profiles:    profileService,
		Limiter:     rateLimiter,
		Verifier:    authsvc.NewStaticVerifier(cfg.Auth.DevVerifyCode),
		Credentials: credentials,
		Bus:         bus,
		Logger:      log,
	}, cfg.Auth.RefreshTTL)

	matchesService := matchessvc.NewService(matchessvc.Dependencies{
		Matches:  matchRepo,
		Profiles: profileService,
		Logger:   log,
	}, matchessvc.Config{
		Location:        loc,
		DeadlineHour:    cfg.Matching.DeadlineHour,
		RevealHour:      cfg.Matching.RevealHour,
		EnforceDeadline: cfg.Matching.EnforceDeadline,
		HistoryLimit:    cfg.Matching.HistoryLimit,
	})

	adminService := adminauthsvc.NewService(cfg.Admin.Phones, cfg.Admin.TOTPSecret)
	if !adminService.RequiresOTP() && cfg.Env == "prod" {
		log.Warn("admin routes are not protected by a second factor")
	}

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		ProfileService: profileService,
		MatchService:   matchesService,
		AdminService:   adminService,
		SessionBus:     bus,
		Logger:         log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	log.Info("gateway mode selected",
		zap.String("mode", mode),
		zap.Bool("postgres", pool != nil),
		zap.Bool("rest", gateway != nil),
	)

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
