package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/careerhive/careerhive/internal/auth/domain"
	"github.com/careerhive/careerhive/internal/auth/service"
	"github.com/careerhive/careerhive/internal/auth/store"
	"github.com/careerhive/careerhive/pkg/httpx"
	"github.com/careerhive/careerhive/pkg/jwtx"
	"github.com/careerhive/careerhive/pkg/slogx"

	_ "github.com/careerhive/careerhive/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *jwtx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store  store.Store
	tokens store.TokenStore

	TokenService *service.TokenService
	LoginService *service.LoginService
	OAuthService *service.OAuthService
}

func NewRouter(
	codec *jwtx.Codec,
	buildVersion string,
	st store.Store,
	tokens store.TokenStore,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		tokens:       tokens,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerLogin()
	r.registerOAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			CareerHive Auth Service API
//	@version		0.1.0
//	@description	Session credential service for the CareerHive community backend.
//	@description
//	@description				Issues JWT access/refresh token pairs for local and social (Google,
//	@description				Kakao, Naver) logins. One live session per user: a new login replaces
//	@description				the previous token pair.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
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

func (r *Router) guard() httpx.Middleware {
	return SessionGuard(r.codec, r.tokens, r.TokenService)
}

func (r *Router) registerLogin() {
	// POST /login - strict rate limit by IP + username to slow brute force
	loginHandler := &LoginHandler{LoginService: r.LoginService}
	r.Mux.Handle("POST /login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)

	// GET /logout - guarded, moderate limit by user
	logoutHandler := &LogoutHandler{LoginService: r.LoginService}
	r.Mux.Handle("GET /logout",
		httpx.Chain(logoutHandler,
			r.guard(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerOAuth() {
	for _, provider := range []domain.Provider{
		domain.ProviderGoogle,
		domain.ProviderKakao,
		domain.ProviderNaver,
	} {
		redirect := &OAuthRedirectHandler{OAuthService: r.OAuthService, Provider: provider}
		callback := &OAuthCallbackHandler{OAuthService: r.OAuthService, Provider: provider}

		// GET /login-{provider} - consent redirect, moderate limit
		r.Mux.Handle("GET /login-"+string(provider),
			httpx.Chain(redirect,
				httpx.RateLimitByIP(httpx.ModerateLimit),
			),
		)

		// GET /login-{provider}/code - code redemption, strict limit
		r.Mux.Handle("GET /login-"+string(provider)+"/code",
			httpx.Chain(callback,
				httpx.RateLimitByIP(httpx.StrictLimit),
			),
		)
	}
}

func (r *Router) registerUsers() {
	h := &UserInfoHandler{Store: r.store}

	r.Mux.Handle("GET /v1/userinfo",
		httpx.Chain(h,
			r.guard(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - public limits (monitoring systems poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.tokens, r.codec),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
