package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jakbu/jakbu/internal/jakbu/service"
	"github.com/jakbu/jakbu/internal/jakbu/store"
	"github.com/jakbu/jakbu/pkg/httpx"
	"github.com/jakbu/jakbu/pkg/jwtx"
	"github.com/jakbu/jakbu/pkg/slogx"

	_ "github.com/jakbu/jakbu/api/jakbu" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RateLimits groups the limiter tiers used by the routes.
type RateLimits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
}

// DefaultRateLimits returns the package-level httpx tiers.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   httpx.StrictLimit,
		Moderate: httpx.ModerateLimit,
		Lenient:  httpx.LenientLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Limits              RateLimits
	SessionService      *service.SessionService
	TodoService         *service.TodoService
	NotificationService *service.NotificationService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Limits:       DefaultRateLimits(),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTodos()
	r.registerNotifications()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						JakBu API
//	@version					0.1.0
//	@description				Daily todo tracking with local and Kakao login, refresh tokens and push reminders.
//	@description
//	@description				Access and refresh tokens are EdDSA (Ed25519) signed JWTs.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with bearer authentication and a per-identity limit.
func (r *Router) secured(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByIdentity(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Sessions: r.SessionService}

	r.Mux.Handle("POST /v1/auth/signup",
		httpx.Chain(http.HandlerFunc(h.Signup), httpx.RateLimitByIP(r.Limits.Strict)),
	)

	// Keyed by IP and account id so one address cannot spray a single account.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.Login), httpx.RateLimitByIPAndJSONField(r.Limits.Strict, "accountId")),
	)

	r.Mux.Handle("POST /v1/auth/kakao",
		httpx.Chain(http.HandlerFunc(h.Kakao), httpx.RateLimitByIP(r.Limits.Strict)),
	)

	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.Refresh), httpx.RateLimitByIP(r.Limits.Moderate)),
	)

	r.Mux.Handle("POST /v1/auth/logout", r.secured(h.Logout, r.Limits.Moderate))
	r.Mux.Handle("DELETE /v1/account", r.secured(h.DeleteAccount, r.Limits.Strict))
}

func (r *Router) registerTodos() {
	h := &TodoHandler{Todos: r.TodoService}

	r.Mux.Handle("POST /v1/todos", r.secured(h.Create, r.Limits.Lenient))
	r.Mux.Handle("GET /v1/todos", r.secured(h.ByDate, r.Limits.Lenient))
	r.Mux.Handle("GET /v1/todos/today", r.secured(h.Today, r.Limits.Lenient))
	r.Mux.Handle("POST /v1/todos/{id}/toggle", r.secured(h.Toggle, r.Limits.Lenient))
	r.Mux.Handle("POST /v1/todos/{id}/status", r.secured(h.SetStatus, r.Limits.Lenient))
	r.Mux.Handle("DELETE /v1/todos/{id}", r.secured(h.Delete, r.Limits.Lenient))
}

func (r *Router) registerNotifications() {
	h := &NotificationHandler{Notifications: r.NotificationService}

	r.Mux.Handle("POST /v1/notifications/token", r.secured(h.SaveToken, r.Limits.Moderate))
	r.Mux.Handle("POST /v1/notifications/setting", r.secured(h.SaveSetting, r.Limits.Moderate))
	r.Mux.Handle("GET /v1/notifications/setting", r.secured(h.GetSetting, r.Limits.Moderate))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion), httpx.RateLimitByIP(r.Limits.Lenient)),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys), httpx.RateLimitByIP(r.Limits.Lenient)),
	)
}
