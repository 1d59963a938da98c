package apiapp

import (
	"errors"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gittyapp/backend/internal/infra/supabase"
	adminauthsvc "github.com/gittyapp/backend/internal/services/adminauth"
	authsvc "github.com/gittyapp/backend/internal/services/auth"
	"github.com/gittyapp/backend/internal/services/session"
	httperrors "github.com/gittyapp/backend/internal/transport/http/errors"
)

const adminOTPHeader = "X-Admin-OTP"

func ApplyMiddlewares(r chiRouter, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(requestLogger(log))
}

// AuthMiddleware checks the BFF access token only. Routes that act on the
// user's data use SessionMiddleware instead.
func AuthMiddleware(authService *authsvc.Service, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := authenticate(w, r, authService, log)
			if !ok {
				return
			}

			ctx := authsvc.WithIdentity(r.Context(), authsvc.Identity{
				UserID: claims.UserID,
				SID:    claims.SID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionMiddleware resolves the request's session context: the hosted-auth
// session behind the token and the user's profile. The handler runs only
// once the initial check has completed, and only for a signed-in user with a
// profile. Table calls made by the handler run with the user's access token.
func SessionMiddleware(authService *authsvc.Service, profiles session.ProfileSource, bus *session.Bus, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := authenticate(w, r, authService, log)
			if !ok {
				return
			}

			gateway := newBoundGateway(authService.SessionGateway(claims.SID))
			sessionCtx := session.New(gateway, &boundProfiles{gateway: gateway, profiles: profiles}, log)
			sessionCtx.Attach(bus)
			defer sessionCtx.Close()

			if err := sessionCtx.Initialize(r.Context()); err != nil && log != nil {
				log.Error("session initialize failed", zap.Error(err))
			}
			snap, err := sessionCtx.Wait(r.Context())
			if err != nil {
				httperrors.Write(w, http.StatusServiceUnavailable, httperrors.APIError{
					Code:    "SESSION_UNAVAILABLE",
					Message: "session is unavailable",
				})
				return
			}
			if !snap.Authenticated {
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Code:    "SESSION_EXPIRED",
					Message: "session expired, sign in again",
				})
				return
			}

			ctx := authsvc.WithIdentity(r.Context(), authsvc.Identity{
				UserID: claims.UserID,
				SID:    claims.SID,
			})
			ctx = session.WithSnapshot(ctx, snap)
			ctx = supabase.WithAccessToken(ctx, snap.Session.AccessToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after SessionMiddleware. Admin calls use the service
// key instead of the user's token.
func RequireAdmin(admin *adminauthsvc.Service, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap, ok := session.SnapshotFromContext(r.Context())
			if !ok || !snap.Authenticated {
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Code:    "UNAUTHORIZED",
					Message: "authentication required",
				})
				return
			}

			if err := admin.Authorize(snap.Profile.Phone, r.Header.Get(adminOTPHeader)); err != nil {
				if log != nil {
					log.Warn("admin access denied",
						zap.String("user_id", snap.User.ID.String()),
						zap.Error(err),
					)
				}
				code := "FORBIDDEN"
				switch {
				case errors.Is(err, adminauthsvc.ErrOTPRequired):
					code = "ADMIN_OTP_REQUIRED"
				case errors.Is(err, adminauthsvc.ErrInvalidOTP):
					code = "ADMIN_OTP_INVALID"
				}
				httperrors.Write(w, http.StatusForbidden, httperrors.APIError{
					Code:    code,
					Message: err.Error(),
				})
				return
			}

			ctx := supabase.WithAccessToken(r.Context(), "")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(w http.ResponseWriter, r *http.Request, authService *authsvc.Service, log *zap.Logger) (authsvc.AccessClaims, bool) {
	if authService == nil {
		httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{
			Code:    "AUTH_SERVICE_UNAVAILABLE",
			Message: "auth service is unavailable",
		})
		return authsvc.AccessClaims{}, false
	}

	accessToken, ok := extractBearerToken(r.Header.Get("Authorization"))
	if !ok {
		httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
			Code:    "UNAUTHORIZED",
			Message: "missing bearer token",
		})
		return authsvc.AccessClaims{}, false
	}

	claims, err := authService.ValidateAccessToken(r.Context(), accessToken)
	if err != nil {
		if log != nil {
			log.Debug("auth middleware validation failed", zap.Error(err))
		}
		httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
			Code:    "UNAUTHORIZED",
			Message: "invalid access token",
		})
		return authsvc.AccessClaims{}, false
	}
	return claims, true
}

func extractBearerToken(value string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return parts[1], true
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if log != nil {
				log.Info("http_request",
					zap.String("request_id", chimiddleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Duration("duration", time.Since(start)),
				)
			}
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
