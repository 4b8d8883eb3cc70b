package middleware

import (
	"context"
	"errors"
	"net/http"
	"sizopi/config"
	"sizopi/infras/jwt"
	"sizopi/infras/otel"
	accountService "sizopi/internal/domains/account/service"
	"sizopi/permissions"
	"sizopi/shared/constant"
	"sizopi/shared/failure"
	"sizopi/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// internalCallKey marks a request authenticated by API key. Such calls skip
// the token and role checks.
type internalCallKey struct{}

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole is the chain mounted in front of every domain route:
// APIKey, then Auth, then RBAC.
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	accounts   accountService.Account
	otel       otel.Otel
	policy     *permissions.Policy
	cfg        *config.Config
}

func NewAuthRoleMiddleware(
	jwtService jwt.JWT,
	accounts accountService.Account,
	otel otel.Otel,
	policy *permissions.Policy,
	cfg *config.Config,
) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		accounts:   accounts,
		otel:       otel,
		policy:     policy,
		cfg:        cfg,
	}
}

func isInternalCall(ctx context.Context) bool {
	internal, _ := ctx.Value(internalCallKey{}).(bool)

	return internal
}

func reject(w http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	response.WithError(w, err)
}

// APIKey lets other services in with X-API-Key. A header that is present
// but wrong is refused outright instead of falling through to token auth.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		key := r.Header.Get(constant.RequestHeaderAPIKey)
		if key == constant.Empty {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(w, r)

			return
		}

		scope.SetAttribute("http.source", "internal")

		if m.cfg.App.APIKey == constant.Empty || key != m.cfg.App.APIKey {
			reject(w, scope, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), internalCallKey{}, true)))
	})
}

// Auth validates the bearer token and puts the caller's username, email and
// role into the request context. Tokens without a role claim get the role
// looked up from the account tables.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		pattern := m.routePattern(r)

		if isInternalCall(ctx) {
			next.ServeHTTP(w, r)

			return
		}

		if rule, _ := m.policy.Lookup(r.Method, pattern); rule.Public {
			next.ServeHTTP(w, r)

			return
		}

		ctx, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"http.route":  pattern,
			"http.method": r.Method,
		})

		token, err := jwt.ExtractTokenFromHeader(r.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			reject(w, scope, failure.Unauthorized("Missing or malformed authorization header"))

			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			reject(w, scope, failure.Unauthorized(tokenErrorMessage(err)))

			return
		}

		role, err := m.resolveRole(ctx, claims)
		if err != nil {
			log.Error().Err(err).Str("username", claims.Username).Msg("failed to resolve account role")
			reject(w, scope, err)

			return
		}

		if role == constant.Empty {
			reject(w, scope, failure.Unauthorized("Unknown account"))

			return
		}

		scope.SetAttribute("user.role", role)

		ctx = context.WithValue(r.Context(), constant.ContextKeyUsername, claims.Username)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *authRoleImpl) resolveRole(ctx context.Context, claims *jwt.Claims) (string, error) {
	if claims.Role != constant.Empty {
		return claims.Role, nil
	}

	return m.accounts.Role(ctx, claims.Username) //nolint:wrapcheck
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, jwt.ErrInvalidClaim):
		return "Invalid token claims"
	default:
		return "Invalid token"
	}
}

// RBAC checks the role Auth stored against the route's rule. Routes with no
// rule are open to any signed-in caller.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if isInternalCall(ctx) {
			next.ServeHTTP(w, r)

			return
		}

		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if m.policy == nil {
			reject(w, scope, failure.ForbiddenError)

			return
		}

		rule, _ := m.policy.Lookup(r.Method, m.routePattern(r))
		if m.policy.Disabled || rule.Public {
			next.ServeHTTP(w, r)

			return
		}

		role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
		if !rule.Allows(role) {
			scope.SetAttributes(map[string]any{
				"user.role":     role,
				"allowed_roles": rule.Roles,
			})
			reject(w, scope, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// routePattern resolves the registered pattern for the request, since the
// middleware runs before the router has matched it.
func (m *authRoleImpl) routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return r.URL.Path
	}

	return rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path)
}
